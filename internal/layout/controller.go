package layout

import (
	"math"
	"sync"

	"github.com/sirupsen/logrus"
)

// pairKey identifies a two-panel combination, left panel first.
type pairKey struct {
	left  Panel
	right Panel
}

type observer struct {
	id int
	fn func(PanelState)
}

// Controller owns the panel visibility and width state of one workspace.
//
// Invariants kept by every operation:
//   - at least one panel is visible;
//   - visible widths sum to 100 and hidden panels are 0;
//   - with two or more panels visible, every width lies inside its bounds;
//   - in compact mode exactly one panel is visible, at 100%.
//
// The layout state is not safe for concurrent mutation; it is owned by the
// bubbletea update loop. Only the observer list is locked, so an observer may
// unsubscribe from inside its callback or from another goroutine.
type Controller struct {
	bounds  Bounds
	visible [panelCount]bool
	widths  [panelCount]float64

	// triple is the three-panel split, tracked even while fewer panels show.
	triple [panelCount]float64
	// pairs holds the left panel's share of each two-panel combination
	// once the user has resized it.
	pairs map[pairKey]float64

	compact       bool
	beforeCompact [panelCount]bool

	mu        sync.Mutex
	observers []observer
	nextID    int
}

// NewController starts with all three panels visible at the default widths.
// Defaults outside the bounds are pulled back in.
func NewController(bounds Bounds, defaults Widths) *Controller {
	c := &Controller{
		bounds:  bounds,
		visible: [panelCount]bool{true, true, true},
		pairs:   make(map[pairKey]float64),
	}
	c.triple = normalizeTriple(bounds, defaults.array())
	c.recompute()
	return c
}

// State returns a snapshot of the current layout.
func (c *Controller) State() PanelState {
	return PanelState{
		LibraryVisible:  c.visible[PanelLibrary],
		PlayerVisible:   c.visible[PanelPlayer],
		CommentsVisible: c.visible[PanelComments],
		LibraryWidth:    c.widths[PanelLibrary],
		PlayerWidth:     c.widths[PanelPlayer],
		CommentsWidth:   c.widths[PanelComments],
	}
}

// Bounds returns the configured width ranges.
func (c *Controller) Bounds() Bounds {
	return c.bounds
}

// Visible reports whether panel p is shown.
func (c *Controller) Visible(p Panel) bool {
	return p.Valid() && c.visible[p]
}

// Width returns the current width of p in percent, 0 when hidden.
func (c *Controller) Width(p Panel) float64 {
	if !p.Valid() {
		return 0
	}
	return c.widths[p]
}

// VisibleCount returns how many panels are shown.
func (c *Controller) VisibleCount() int {
	n := 0
	for _, v := range c.visible {
		if v {
			n++
		}
	}
	return n
}

// Compact reports whether the single-panel narrow mode is on.
func (c *Controller) Compact() bool {
	return c.compact
}

// Locked reports whether p is open and cannot be closed.
func (c *Controller) Locked(p Panel) bool {
	if !c.Visible(p) {
		return false
	}
	return c.compact || c.VisibleCount() == 1
}

// LibraryLocked reports whether the library panel cannot be closed.
func (c *Controller) LibraryLocked() bool { return c.Locked(PanelLibrary) }

// PlayerLocked reports whether the player panel cannot be closed.
func (c *Controller) PlayerLocked() bool { return c.Locked(PanelPlayer) }

// CommentsLocked reports whether the comments panel cannot be closed.
func (c *Controller) CommentsLocked() bool { return c.Locked(PanelComments) }

// ToggleLibrary shows or hides the library panel.
func (c *Controller) ToggleLibrary() bool { return c.Toggle(PanelLibrary) }

// TogglePlayer shows or hides the player panel.
func (c *Controller) TogglePlayer() bool { return c.Toggle(PanelPlayer) }

// ToggleComments shows or hides the comments panel.
func (c *Controller) ToggleComments() bool { return c.Toggle(PanelComments) }

// Toggle flips the visibility of p and redistributes the widths.
// It returns false when the request was rejected and nothing changed.
//
// In compact mode toggling a hidden panel switches to it; toggling the
// visible one does nothing.
func (c *Controller) Toggle(p Panel) bool {
	if !p.Valid() {
		return false
	}

	if c.compact {
		if c.visible[p] {
			return false
		}
		c.visible = [panelCount]bool{}
		c.visible[p] = true
		c.recompute()
		c.notify()
		return true
	}

	if c.visible[p] && c.VisibleCount() == 1 {
		logrus.Debugf("layout: refusing to close %s, it is the last open panel", p)
		return false
	}

	c.visible[p] = !c.visible[p]
	c.recompute()
	c.notify()
	return true
}

// SetCompact switches the narrow single-panel mode. Entering keeps the player
// when it is visible, otherwise the left-most visible panel. Leaving restores
// the panels that were open before, plus the one currently shown.
func (c *Controller) SetCompact(on bool) bool {
	if on == c.compact {
		return false
	}

	if on {
		c.beforeCompact = c.visible
		keep := c.primaryPanel()
		c.visible = [panelCount]bool{}
		c.visible[keep] = true
	} else {
		current := c.visible
		c.visible = c.beforeCompact
		for i, v := range current {
			if v {
				c.visible[i] = true
			}
		}
	}

	c.compact = on
	c.recompute()
	c.notify()
	return true
}

// ResizePair sets the width of left to leftWidth and gives right whatever keeps
// the pair's combined width unchanged. The value is clamped so that both panels
// stay inside their bounds. The panels must be visible and adjacent.
func (c *Controller) ResizePair(left, right Panel, leftWidth float64) bool {
	if c.compact || !c.adjacent(left, right) {
		return false
	}

	total := c.widths[left] + c.widths[right]
	lo, hi, ok := PairInterval(c.bounds.For(left), c.bounds.For(right), total)
	if !ok {
		return false
	}

	next := clamp(leftWidth, lo, hi)
	if math.Abs(next-c.widths[left]) < epsilon {
		return false
	}

	c.widths[left] = next
	c.widths[right] = total - next

	switch c.VisibleCount() {
	case 3:
		c.triple = c.widths
	case 2:
		c.pairs[pairKey{left: left, right: right}] = next
	}

	c.notify()
	return true
}

// Subscribe registers fn to be called after every state change.
// The returned function removes the subscription and may be called more than once.
func (c *Controller) Subscribe(fn func(PanelState)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.observers = append(c.observers, observer{id: id, fn: fn})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, o := range c.observers {
				if o.id == id {
					c.observers = append(c.observers[:i], c.observers[i+1:]...)
					return
				}
			}
		})
	}
}

func (c *Controller) notify() {
	c.mu.Lock()
	observers := make([]observer, len(c.observers))
	copy(observers, c.observers)
	c.mu.Unlock()

	state := c.State()
	for _, o := range observers {
		o.fn(state)
	}
}

// adjacent reports whether left and right are visible neighbours, left first.
func (c *Controller) adjacent(left, right Panel) bool {
	if !c.Visible(left) || !c.Visible(right) || left >= right {
		return false
	}
	for p := left + 1; p < right; p++ {
		if c.visible[p] {
			return false
		}
	}
	return true
}

func (c *Controller) visiblePanels() []Panel {
	panels := make([]Panel, 0, panelCount)
	for _, p := range Panels {
		if c.visible[p] {
			panels = append(panels, p)
		}
	}
	return panels
}

func (c *Controller) primaryPanel() Panel {
	if c.visible[PanelPlayer] {
		return PanelPlayer
	}
	for _, p := range Panels {
		if c.visible[p] {
			return p
		}
	}
	return PanelPlayer
}

// recompute derives the widths from the visibility:
// one panel takes 100%, two use their stored pair ratio, three use the tracked split.
func (c *Controller) recompute() {
	visible := c.visiblePanels()
	c.widths = [panelCount]float64{}

	switch len(visible) {
	case 1:
		c.widths[visible[0]] = 100
	case 2:
		left, right := visible[0], visible[1]
		share := c.pairShare(left, right)
		c.widths[left] = share
		c.widths[right] = 100 - share
	case 3:
		c.widths = c.triple
	}
}

// pairShare returns the left panel's width for a two-panel layout. Without a
// stored ratio it is derived from the three-panel split.
func (c *Controller) pairShare(left, right Panel) float64 {
	share, ok := c.pairs[pairKey{left: left, right: right}]
	if !ok {
		share = 50
		if total := c.triple[left] + c.triple[right]; total > 0 {
			share = c.triple[left] / total * 100
		}
	}

	lo, hi, feasible := PairInterval(c.bounds.For(left), c.bounds.For(right), 100)
	if !feasible {
		return share
	}
	return clamp(share, lo, hi)
}

// PairInterval returns the allowed range for the left width of two neighbours
// whose widths add up to total. ok is false when no width fits both ranges.
func PairInterval(left, right Range, total float64) (lo, hi float64, ok bool) {
	lo = math.Max(left.Min, total-right.Max)
	hi = math.Min(left.Max, total-right.Min)
	return lo, hi, lo <= hi+epsilon
}

// normalizeTriple scales the defaults to 100 and pulls each width into its bounds.
// The last panel absorbs the rounding so the sum stays exact.
func normalizeTriple(bounds Bounds, w [panelCount]float64) [panelCount]float64 {
	sum := w[0] + w[1] + w[2]
	if sum <= 0 {
		w = DefaultWidths().array()
		sum = 100
	}
	for i := range w {
		w[i] = w[i] / sum * 100
	}

	w[PanelLibrary] = bounds.Library.Clamp(w[PanelLibrary])
	w[PanelPlayer] = bounds.Player.Clamp(w[PanelPlayer])
	w[PanelComments] = 100 - w[PanelLibrary] - w[PanelPlayer]
	if !bounds.Comments.Contains(w[PanelComments]) {
		w[PanelComments] = bounds.Comments.Clamp(w[PanelComments])
		w[PanelPlayer] = 100 - w[PanelLibrary] - w[PanelComments]
	}
	return w
}
