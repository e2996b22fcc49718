package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/r2review/internal/layout"
)

// handleMouse drives divider drags and click-to-focus. A press on a divider
// starts a resize session, motion buffers the pointer column and schedules
// one frame, release applies the last move and ends the session.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			return m.mousePress(msg)
		case tea.MouseButtonWheelUp:
			return m.scroll(msg.X, -1)
		case tea.MouseButtonWheelDown:
			return m.scroll(msg.X, 1)
		}

	case tea.MouseActionMotion:
		if m.resizer.Move(msg.X) {
			return m.scheduleFrame()
		}

	case tea.MouseActionRelease:
		if m.resizer.Active() {
			m.resizer.End()
			logrus.Debugf("workspace: resize ended at %v", m.controller.State())
		}
	}
	return nil
}

func (m *Model) mousePress(msg tea.MouseMsg) tea.Cmd {
	if msg.Y >= m.bodyHeight() {
		return nil
	}

	rect := m.containerRect()
	if b, ok := m.resizer.HitTest(rect, msg.X); ok && m.resizer.Begin(b, rect) {
		return nil
	}

	if p, ok := m.panelAt(msg.X); ok && p != m.focus {
		m.focus = p
	}
	return nil
}

func (m *Model) scheduleFrame() tea.Cmd {
	return tea.Tick(m.opts.FrameInterval, func(time.Time) tea.Msg {
		return resizeFrameMsg{}
	})
}

// panelAt returns the visible panel covering column x.
func (m *Model) panelAt(x int) (layout.Panel, bool) {
	start := m.containerRect().X
	for _, p := range m.controller.State().VisiblePanels() {
		end := start + m.cols[p]
		if x >= start && x < end {
			return p, true
		}
		start = end
	}
	return 0, false
}

func (m *Model) scroll(x, delta int) tea.Cmd {
	p, ok := m.panelAt(x)
	if !ok {
		return nil
	}
	switch p {
	case layout.PanelLibrary:
		if delta < 0 {
			m.library.table.MoveUp(1)
		} else {
			m.library.table.MoveDown(1)
		}
		return m.syncSelection()
	case layout.PanelComments:
		m.comments.move(delta)
	}
	return nil
}
