// Package layout holds the workspace panel layout: which of the library, player and
// comments panels are visible, how wide each one is, and the drag handling that resizes them.
package layout

import "math"

// Panel identifies one of the three workspace regions, in left-to-right order.
type Panel int

const (
	PanelLibrary Panel = iota
	PanelPlayer
	PanelComments
)

// panelCount is the number of panels the workspace can show.
const panelCount = 3

// Panels lists every panel in display order.
var Panels = [panelCount]Panel{PanelLibrary, PanelPlayer, PanelComments}

func (p Panel) String() string {
	switch p {
	case PanelLibrary:
		return "library"
	case PanelPlayer:
		return "player"
	case PanelComments:
		return "comments"
	default:
		return "unknown"
	}
}

// Valid reports whether p names a real panel.
func (p Panel) Valid() bool {
	return p >= PanelLibrary && p <= PanelComments
}

// Range is an inclusive [Min, Max] width range in percent of the container.
type Range struct {
	Min float64
	Max float64
}

// Clamp limits v to the range.
func (r Range) Clamp(v float64) float64 {
	return clamp(v, r.Min, r.Max)
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min-epsilon && v <= r.Max+epsilon
}

// Bounds holds the width range of each panel. Bounds apply whenever two or
// more panels are visible; a lone panel is always 100%.
type Bounds struct {
	Library  Range
	Player   Range
	Comments Range
}

// DefaultBounds returns the width ranges used when the config does not override them.
func DefaultBounds() Bounds {
	return Bounds{
		Library:  Range{Min: 15, Max: 45},
		Player:   Range{Min: 30, Max: 85},
		Comments: Range{Min: 15, Max: 70},
	}
}

// For returns the range of panel p.
func (b Bounds) For(p Panel) Range {
	switch p {
	case PanelLibrary:
		return b.Library
	case PanelPlayer:
		return b.Player
	default:
		return b.Comments
	}
}

// Widths are the three-panel widths in percent.
type Widths struct {
	Library  float64
	Player   float64
	Comments float64
}

// DefaultWidths returns the three-panel split used at startup.
func DefaultWidths() Widths {
	return Widths{Library: 20, Player: 50, Comments: 30}
}

// Get returns the width of panel p.
func (w Widths) Get(p Panel) float64 {
	switch p {
	case PanelLibrary:
		return w.Library
	case PanelPlayer:
		return w.Player
	default:
		return w.Comments
	}
}

// Sum returns the total of the three widths.
func (w Widths) Sum() float64 {
	return w.Library + w.Player + w.Comments
}

func (w Widths) array() [panelCount]float64 {
	return [panelCount]float64{w.Library, w.Player, w.Comments}
}

// PanelState is the snapshot handed to the rendering layer.
// Hidden panels always report a width of 0.
type PanelState struct {
	LibraryVisible  bool
	PlayerVisible   bool
	CommentsVisible bool
	LibraryWidth    float64
	PlayerWidth     float64
	CommentsWidth   float64
}

// Visible reports whether panel p is shown.
func (s PanelState) Visible(p Panel) bool {
	switch p {
	case PanelLibrary:
		return s.LibraryVisible
	case PanelPlayer:
		return s.PlayerVisible
	case PanelComments:
		return s.CommentsVisible
	default:
		return false
	}
}

// Width returns the width of panel p in percent.
func (s PanelState) Width(p Panel) float64 {
	switch p {
	case PanelLibrary:
		return s.LibraryWidth
	case PanelPlayer:
		return s.PlayerWidth
	case PanelComments:
		return s.CommentsWidth
	default:
		return 0
	}
}

// VisiblePanels returns the shown panels in display order.
func (s PanelState) VisiblePanels() []Panel {
	panels := make([]Panel, 0, panelCount)
	for _, p := range Panels {
		if s.Visible(p) {
			panels = append(panels, p)
		}
	}
	return panels
}

// TotalWidth sums the widths of the visible panels.
func (s PanelState) TotalWidth() float64 {
	return s.LibraryWidth + s.PlayerWidth + s.CommentsWidth
}

// Columns converts the percentages into cell widths that add up to exactly total.
// Boundaries are rounded from the cumulative percentage so that hit testing and
// rendering agree on where each divider sits.
func (s PanelState) Columns(total int) [panelCount]int {
	var cols [panelCount]int
	if total <= 0 {
		return cols
	}

	visible := s.VisiblePanels()
	cumulative := 0.0
	prevEdge := 0
	for i, p := range visible {
		cumulative += s.Width(p)
		edge := int(math.Round(cumulative * float64(total) / 100))
		if i == len(visible)-1 {
			edge = total
		}
		if edge < prevEdge {
			edge = prevEdge
		}
		cols[p] = edge - prevEdge
		prevEdge = edge
	}
	return cols
}

// Tolerance is the slack allowed when comparing widths in percent.
const Tolerance = 1e-9

const epsilon = Tolerance

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
