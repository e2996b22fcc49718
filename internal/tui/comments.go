package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/r2review/internal/review"
	tuiconfig "github.com/HaiFongPan/r2review/internal/tui/config"
	"github.com/HaiFongPan/r2review/internal/tui/theme"
)

// commentsPanel shows the review thread of the selected asset.
type commentsPanel struct {
	assetKey string
	comments []review.Comment
	cursor   int
	loading  bool
	err      error

	input     textinput.Model
	composing bool
	timecode  float64

	viewport      viewport.Model
	mdStyle       string
	renderer      *glamour.TermRenderer
	rendererWidth int
	// rendered caches markdown output by comment ID for rendererWidth.
	rendered map[string]string

	width  int
	height int
}

func newCommentsPanel() *commentsPanel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Write a comment (markdown)"
	ti.CharLimit = 2000

	return &commentsPanel{
		input:    ti,
		viewport: viewport.New(0, 0),
		timecode: review.NoTimecode,
		mdStyle:  markdownStyle(),
		rendered: make(map[string]string),
	}
}

// markdownStyle picks the glamour style once; detecting the background
// queries the terminal.
func markdownStyle() string {
	if lipgloss.HasDarkBackground() {
		return styles.DarkStyle
	}
	return styles.LightStyle
}

// reset points the panel at another asset and drops the old thread.
func (c *commentsPanel) reset(assetKey string) {
	c.assetKey = assetKey
	c.comments = nil
	c.cursor = 0
	c.err = nil
	c.loading = assetKey != ""
	c.viewport.SetYOffset(0)
	clear(c.rendered)
}

func (c *commentsPanel) setComments(comments []review.Comment) {
	var selectedID string
	if s, ok := c.selected(); ok {
		selectedID = s.ID
	}

	c.comments = comments
	c.loading = false
	c.cursor = 0
	for i, cm := range comments {
		if cm.ID == selectedID {
			c.cursor = i
		}
	}
}

func (c *commentsPanel) selected() (review.Comment, bool) {
	if c.cursor < 0 || c.cursor >= len(c.comments) {
		return review.Comment{}, false
	}
	return c.comments[c.cursor], true
}

func (c *commentsPanel) move(delta int) {
	if len(c.comments) == 0 {
		return
	}
	c.cursor = min(max(c.cursor+delta, 0), len(c.comments)-1)
}

func (c *commentsPanel) openCount() int {
	n := 0
	for _, cm := range c.comments {
		if !cm.Resolved {
			n++
		}
	}
	return n
}

func (c *commentsPanel) startComposing(timecode float64) {
	c.composing = true
	c.timecode = timecode
	c.input.SetValue("")
}

func (c *commentsPanel) stopComposing() {
	c.composing = false
	c.input.Blur()
	c.input.SetValue("")
	c.timecode = review.NoTimecode
}

func (c *commentsPanel) setSize(width, height int) {
	c.width, c.height = width, height
	inner := max(width-tuiconfig.PanelChrome, 1)
	c.input.Width = max(inner-3, 1)
	c.viewport.Width = inner
	c.viewport.Height = max(c.threadHeight(), 1)
}

func (c *commentsPanel) threadHeight() int {
	h := c.height - tuiconfig.PanelChrome - 1
	if c.composing {
		h -= 2
	}
	return h
}

// markdown renders a comment body, falling back to plain text. While plain is
// set (a drag is in progress) the body is only wrapped, since the width
// changes every frame.
func (c *commentsPanel) markdown(cm review.Comment, width int, plain bool) string {
	if plain {
		return lipgloss.NewStyle().Width(width).Render(cm.Body)
	}
	if c.renderer == nil || c.rendererWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(c.mdStyle),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			logrus.Debugf("comments: markdown renderer unavailable: %v", err)
			return cm.Body
		}
		c.renderer, c.rendererWidth = r, width
		clear(c.rendered)
	}
	if out, ok := c.rendered[cm.ID]; ok {
		return out
	}
	out, err := c.renderer.Render(cm.Body)
	if err != nil {
		return cm.Body
	}
	out = strings.Trim(out, "\n")
	c.rendered[cm.ID] = out
	return out
}

func (c *commentsPanel) renderThread(plain bool) string {
	inner := max(c.width-tuiconfig.PanelChrome, 1)
	var b strings.Builder
	selectedLine := 0

	for i, cm := range c.comments {
		if i == c.cursor {
			selectedLine = strings.Count(b.String(), "\n")
		}

		header := runewidth.Truncate(cm.Author, max(inner/2, 4), "...")
		if cm.HasTimecode() {
			header += " @ " + review.FormatTimecode(cm.Timecode)
		}
		header += " · " + humanize.Time(cm.CreatedAt)
		if cm.Resolved {
			header += " ✓"
		}
		header = runewidth.Truncate(header, inner, "...")

		style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorBrightCyan))
		if cm.Resolved {
			style = theme.CreateSecondaryTextStyle()
		}
		if i == c.cursor {
			style = theme.CreateSelectedStyle()
		}
		b.WriteString(style.Render(header))
		b.WriteString("\n")
		b.WriteString(c.markdown(cm, inner, plain))
		b.WriteString("\n\n")
	}

	c.viewport.SetContent(strings.TrimRight(b.String(), "\n"))
	if selectedLine < c.viewport.YOffset || selectedLine >= c.viewport.YOffset+c.viewport.Height {
		c.viewport.SetYOffset(selectedLine)
	}
	return c.viewport.View()
}

func (c *commentsPanel) view(focused, locked, resizing bool, spin string) string {
	var b strings.Builder

	title := "Comments"
	if len(c.comments) > 0 {
		title = fmt.Sprintf("Comments (%d open)", c.openCount())
	}
	b.WriteString(panelTitle(title, focused, locked))
	b.WriteString("\n")

	switch {
	case c.assetKey == "":
		b.WriteString(theme.CreateSecondaryTextStyle().Render("No asset selected"))
	case c.loading:
		b.WriteString(theme.CreateLoadingStyle().Render(spin + " Loading comments..."))
	case c.err != nil:
		b.WriteString(theme.CreateErrorStyle().Render(fmt.Sprintf("Error: %v", c.err)))
	case len(c.comments) == 0:
		b.WriteString(theme.CreateSecondaryTextStyle().Render("No comments yet. Press c to add one."))
	default:
		c.viewport.Height = max(c.threadHeight(), 1)
		b.WriteString(c.renderThread(resizing))
	}

	if c.composing {
		b.WriteString("\n")
		hint := "New comment"
		if c.timecode >= 0 {
			hint += " at " + review.FormatTimecode(c.timecode)
		}
		b.WriteString(theme.CreatePromptStyle().Render(hint))
		b.WriteString("\n")
		b.WriteString(c.input.View())
	}

	return theme.CreatePanelStyle(c.width, c.height, focused).Render(b.String())
}
