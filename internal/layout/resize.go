package layout

import (
	"math"

	"github.com/sirupsen/logrus"
)

// Boundary is the draggable divider between two neighbouring visible panels.
type Boundary struct {
	Left  Panel
	Right Panel
}

// NoBoundary is returned when no divider is involved.
var NoBoundary = Boundary{Left: -1, Right: -1}

// Valid reports whether b names two real panels.
func (b Boundary) Valid() bool {
	return b.Left.Valid() && b.Right.Valid() && b.Left < b.Right
}

// Rect is the horizontal extent of the panel container in terminal cells.
type Rect struct {
	X     int
	Width int
}

// BoundaryHit is a divider together with its column on screen.
type BoundaryHit struct {
	Boundary Boundary
	X        int
}

// HitSlop is how many cells either side of a divider still grab it.
const HitSlop = 1

// ResizeSession exists while a pointer drag is in progress.
type ResizeSession struct {
	Boundary Boundary
	Rect     Rect

	pendingX int
	pending  bool
}

// ResizeHandler turns pointer drags into width updates on a Controller.
// Moves are buffered and applied at most once per frame by Flush.
type ResizeHandler struct {
	controller  *Controller
	session     *ResizeSession
	unsubscribe func()
}

// NewResizeHandler creates a handler driving c.
func NewResizeHandler(c *Controller) *ResizeHandler {
	return &ResizeHandler{controller: c}
}

// Boundaries returns every divider of the current layout and its column within rect.
func (h *ResizeHandler) Boundaries(rect Rect) []BoundaryHit {
	if h.controller.Compact() {
		return nil
	}

	state := h.controller.State()
	visible := state.VisiblePanels()
	cols := state.Columns(rect.Width)

	hits := make([]BoundaryHit, 0, len(visible))
	x := rect.X
	for i := 0; i < len(visible)-1; i++ {
		x += cols[visible[i]]
		hits = append(hits, BoundaryHit{
			Boundary: Boundary{Left: visible[i], Right: visible[i+1]},
			X:        x,
		})
	}
	return hits
}

// HitTest returns the divider under column x, if any.
func (h *ResizeHandler) HitTest(rect Rect, x int) (Boundary, bool) {
	for _, hit := range h.Boundaries(rect) {
		if x >= hit.X-HitSlop && x <= hit.X+HitSlop {
			return hit.Boundary, true
		}
	}
	return NoBoundary, false
}

// Begin starts a drag of b inside rect. It is rejected in compact mode, when b
// is not a divider of the current layout, or while another drag is active.
func (h *ResizeHandler) Begin(b Boundary, rect Rect) bool {
	if h.session != nil {
		return false
	}
	if h.controller.Compact() || rect.Width <= 0 || !h.controller.adjacent(b.Left, b.Right) {
		return false
	}

	h.session = &ResizeSession{Boundary: b, Rect: rect}
	h.unsubscribe = h.controller.Subscribe(h.onLayoutChange)
	logrus.Debugf("layout: resize started on %s|%s", b.Left, b.Right)
	return true
}

// Move records the pointer column. It returns true when a frame should be
// scheduled, that is on the first move since the last Flush.
func (h *ResizeHandler) Move(x int) bool {
	if h.session == nil {
		return false
	}
	first := !h.session.pending
	h.session.pendingX = x
	h.session.pending = true
	return first
}

// Flush applies the latest buffered move. It reports whether the layout changed.
func (h *ResizeHandler) Flush() bool {
	s := h.session
	if s == nil || !s.pending {
		return false
	}
	s.pending = false

	pct := float64(s.pendingX-s.Rect.X) / float64(s.Rect.Width) * 100
	pct = clamp(pct, 0, 100)

	return h.controller.ResizePair(s.Boundary.Left, s.Boundary.Right, pct-h.offset(s.Boundary.Left))
}

// End finishes the drag, applying any move still buffered.
func (h *ResizeHandler) End() {
	if h.session == nil {
		return
	}
	h.Flush()
	h.release()
}

// Cancel drops the drag without applying a buffered move.
func (h *ResizeHandler) Cancel() {
	h.release()
}

// Active reports whether a drag is in progress.
func (h *ResizeHandler) Active() bool {
	return h.session != nil
}

// ActiveBoundary returns the divider being dragged, or NoBoundary.
func (h *ResizeHandler) ActiveBoundary() Boundary {
	if h.session == nil {
		return NoBoundary
	}
	return h.session.Boundary
}

// Nudge moves divider b by delta percentage points, through the same clamps as a drag.
func (h *ResizeHandler) Nudge(b Boundary, delta float64) bool {
	if h.controller.Compact() || !h.controller.adjacent(b.Left, b.Right) {
		return false
	}
	return h.controller.ResizePair(b.Left, b.Right, h.controller.Width(b.Left)+delta)
}

// offset is the combined width of the visible panels left of p.
func (h *ResizeHandler) offset(p Panel) float64 {
	total := 0.0
	for q := PanelLibrary; q < p; q++ {
		total += h.controller.Width(q)
	}
	return total
}

// onLayoutChange ends the drag if its divider disappeared, for example when a
// panel was toggled or compact mode kicked in mid-drag.
func (h *ResizeHandler) onLayoutChange(PanelState) {
	s := h.session
	if s == nil {
		return
	}
	if h.controller.Compact() || !h.controller.adjacent(s.Boundary.Left, s.Boundary.Right) {
		logrus.Debugf("layout: resize of %s|%s cancelled by layout change", s.Boundary.Left, s.Boundary.Right)
		h.release()
	}
}

func (h *ResizeHandler) release() {
	if h.unsubscribe != nil {
		h.unsubscribe()
		h.unsubscribe = nil
	}
	h.session = nil
}

// SnapPercent rounds a width to a tenth of a percent for display.
func SnapPercent(v float64) float64 {
	return math.Round(v*10) / 10
}
