package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wideBounds() Bounds {
	return Bounds{
		Library:  Range{Min: 10, Max: 90},
		Player:   Range{Min: 10, Max: 90},
		Comments: Range{Min: 10, Max: 90},
	}
}

func assertSumsTo100(t *testing.T, c *Controller) {
	t.Helper()
	assert.InDelta(t, 100, c.State().TotalWidth(), 1e-6)
	for _, p := range Panels {
		if !c.Visible(p) {
			assert.Zero(t, c.Width(p), "hidden panel %s must have no width", p)
		}
	}
}

func assertWithinBounds(t *testing.T, c *Controller) {
	t.Helper()
	if c.VisibleCount() < 2 {
		return
	}
	for _, p := range Panels {
		if c.Visible(p) {
			assert.True(t, c.Bounds().For(p).Contains(c.Width(p)),
				"%s width %.3f outside [%v, %v]", p, c.Width(p), c.Bounds().For(p).Min, c.Bounds().For(p).Max)
		}
	}
}

func TestNewController_StartsWithThreePanels(t *testing.T) {
	c := NewController(DefaultBounds(), DefaultWidths())

	state := c.State()
	assert.True(t, state.LibraryVisible)
	assert.True(t, state.PlayerVisible)
	assert.True(t, state.CommentsVisible)
	assert.InDelta(t, 20, state.LibraryWidth, 1e-9)
	assert.InDelta(t, 50, state.PlayerWidth, 1e-9)
	assert.InDelta(t, 30, state.CommentsWidth, 1e-9)
	assert.Equal(t, 3, c.VisibleCount())
	assert.False(t, c.Compact())
}

func TestNewController_NormalizesDefaults(t *testing.T) {
	c := NewController(DefaultBounds(), Widths{Library: 2, Player: 5, Comments: 3})

	assert.InDelta(t, 20, c.Width(PanelLibrary), 1e-9)
	assert.InDelta(t, 50, c.Width(PanelPlayer), 1e-9)
	assertSumsTo100(t, c)

	c = NewController(DefaultBounds(), Widths{Library: 80, Player: 10, Comments: 10})
	assertSumsTo100(t, c)
	assertWithinBounds(t, c)
}

func TestToggle_SinglePanelIsFullWidth(t *testing.T) {
	c := NewController(DefaultBounds(), DefaultWidths())

	require.True(t, c.ToggleLibrary())
	require.True(t, c.ToggleComments())

	assert.Equal(t, 1, c.VisibleCount())
	assert.InDelta(t, 100, c.Width(PanelPlayer), 1e-9)
	assertSumsTo100(t, c)
}

func TestToggle_LastPanelCannotClose(t *testing.T) {
	c := NewController(DefaultBounds(), DefaultWidths())
	c.ToggleLibrary()
	c.TogglePlayer()

	before := c.State()
	assert.True(t, c.CommentsLocked())
	assert.False(t, c.ToggleComments())
	assert.Equal(t, before, c.State())
}

func TestLocks_FollowLastOpenPanel(t *testing.T) {
	c := NewController(DefaultBounds(), DefaultWidths())

	assert.False(t, c.LibraryLocked())
	assert.False(t, c.PlayerLocked())
	assert.False(t, c.CommentsLocked())

	c.ToggleLibrary()
	assert.False(t, c.PlayerLocked(), "player and comments both open, neither is locked")
	assert.False(t, c.CommentsLocked())

	c.ToggleComments()
	assert.True(t, c.PlayerLocked())
	assert.False(t, c.LibraryLocked(), "hidden panels are never locked")

	c.ToggleLibrary()
	assert.False(t, c.PlayerLocked())
}

func TestToggle_TwoPanelsDeriveRatioFromTriple(t *testing.T) {
	c := NewController(wideBounds(), Widths{Library: 30, Player: 45, Comments: 25})

	require.True(t, c.TogglePlayer())

	assert.InDelta(t, 30.0/55.0*100, c.Width(PanelLibrary), 1e-9)
	assert.InDelta(t, 25.0/55.0*100, c.Width(PanelComments), 1e-9)
	assert.Zero(t, c.Width(PanelPlayer))
	assertSumsTo100(t, c)
}

func TestToggle_TwoPanelRatioIsClampedIntoBounds(t *testing.T) {
	c := NewController(DefaultBounds(), Widths{Library: 30, Player: 45, Comments: 25})

	c.TogglePlayer()

	// library would get 54.5% but its max is 45
	assert.InDelta(t, 45, c.Width(PanelLibrary), 1e-9)
	assert.InDelta(t, 55, c.Width(PanelComments), 1e-9)
	assertWithinBounds(t, c)
}

func TestToggle_TwoPanelsPreserveStoredRatio(t *testing.T) {
	c := NewController(wideBounds(), DefaultWidths())
	c.ToggleComments()

	require.True(t, c.ResizePair(PanelLibrary, PanelPlayer, 35))

	c.ToggleComments()
	assert.InDelta(t, 20, c.Width(PanelLibrary), 1e-9, "three panels use the tracked split")

	c.ToggleComments()
	assert.InDelta(t, 35, c.Width(PanelLibrary), 1e-9, "pair ratio survives a round trip")
	assert.InDelta(t, 65, c.Width(PanelPlayer), 1e-9)
}

func TestToggle_ThreePanelsRestoreTrackedWidths(t *testing.T) {
	c := NewController(wideBounds(), DefaultWidths())

	require.True(t, c.ResizePair(PanelPlayer, PanelComments, 40))
	assert.InDelta(t, 40, c.Width(PanelComments), 1e-9)

	c.ToggleLibrary()
	c.ToggleLibrary()

	assert.InDelta(t, 20, c.Width(PanelLibrary), 1e-9)
	assert.InDelta(t, 40, c.Width(PanelPlayer), 1e-9)
	assert.InDelta(t, 40, c.Width(PanelComments), 1e-9)
}

func TestResizePair_ClampsToBounds(t *testing.T) {
	bounds := Bounds{
		Library:  Range{Min: 20, Max: 80},
		Player:   Range{Min: 20, Max: 80},
		Comments: Range{Min: 20, Max: 80},
	}
	c := NewController(bounds, DefaultWidths())
	c.ToggleComments()

	c.ResizePair(PanelLibrary, PanelPlayer, 5)
	assert.InDelta(t, 20, c.Width(PanelLibrary), 1e-9)
	assert.InDelta(t, 80, c.Width(PanelPlayer), 1e-9)

	c.ResizePair(PanelLibrary, PanelPlayer, 95)
	assert.InDelta(t, 80, c.Width(PanelLibrary), 1e-9)
	assert.InDelta(t, 20, c.Width(PanelPlayer), 1e-9)
}

func TestResizePair_RejectsNonAdjacentPanels(t *testing.T) {
	c := NewController(DefaultBounds(), DefaultWidths())

	assert.False(t, c.ResizePair(PanelLibrary, PanelComments, 30))
	assert.False(t, c.ResizePair(PanelPlayer, PanelLibrary, 30))

	c.TogglePlayer()
	assert.True(t, c.ResizePair(PanelLibrary, PanelComments, 35))
}

func TestCompact_ShowsOnePanelAtFullWidth(t *testing.T) {
	c := NewController(DefaultBounds(), DefaultWidths())

	require.True(t, c.SetCompact(true))

	assert.Equal(t, 1, c.VisibleCount())
	assert.True(t, c.Visible(PanelPlayer))
	assert.InDelta(t, 100, c.Width(PanelPlayer), 1e-9)
	assert.True(t, c.PlayerLocked())
}

func TestCompact_ToggleSwitchesPanel(t *testing.T) {
	c := NewController(DefaultBounds(), DefaultWidths())
	c.SetCompact(true)

	before := c.State()
	assert.False(t, c.TogglePlayer(), "toggling the shown panel does nothing")
	assert.Equal(t, before, c.State())

	require.True(t, c.ToggleComments())
	assert.Equal(t, []Panel{PanelComments}, c.State().VisiblePanels())
	assert.InDelta(t, 100, c.Width(PanelComments), 1e-9)
	assert.False(t, c.ResizePair(PanelPlayer, PanelComments, 50))
}

func TestCompact_KeepsLeftMostWhenPlayerHidden(t *testing.T) {
	c := NewController(DefaultBounds(), DefaultWidths())
	c.TogglePlayer()

	c.SetCompact(true)

	assert.Equal(t, []Panel{PanelLibrary}, c.State().VisiblePanels())
}

func TestCompact_LeavingRestoresPanels(t *testing.T) {
	c := NewController(DefaultBounds(), DefaultWidths())
	c.ToggleLibrary()
	c.SetCompact(true)
	c.ToggleComments()

	require.True(t, c.SetCompact(false))

	assert.Equal(t, []Panel{PanelPlayer, PanelComments}, c.State().VisiblePanels())
	assertSumsTo100(t, c)
	assertWithinBounds(t, c)
	assert.False(t, c.SetCompact(false))
}

func TestSubscribe_NotifiesUntilUnsubscribed(t *testing.T) {
	c := NewController(DefaultBounds(), DefaultWidths())

	var states []PanelState
	unsubscribe := c.Subscribe(func(s PanelState) { states = append(states, s) })

	c.ToggleLibrary()
	require.Len(t, states, 1)
	assert.False(t, states[0].LibraryVisible)

	c.ToggleLibrary()
	require.Len(t, states, 2)

	unsubscribe()
	unsubscribe()
	c.ToggleLibrary()
	assert.Len(t, states, 2)
}

func TestSubscribe_RejectedToggleDoesNotNotify(t *testing.T) {
	c := NewController(DefaultBounds(), DefaultWidths())
	c.ToggleLibrary()
	c.TogglePlayer()

	calls := 0
	defer c.Subscribe(func(PanelState) { calls++ })()

	c.ToggleComments()
	assert.Zero(t, calls)
}

func TestToggle_RandomSequencesKeepInvariants(t *testing.T) {
	c := NewController(DefaultBounds(), DefaultWidths())
	sequence := []Panel{
		PanelLibrary, PanelPlayer, PanelComments, PanelPlayer, PanelLibrary,
		PanelComments, PanelComments, PanelLibrary, PanelPlayer, PanelPlayer,
	}

	for i, p := range sequence {
		c.Toggle(p)
		if i == 4 {
			c.SetCompact(true)
		}
		if i == 7 {
			c.SetCompact(false)
		}
		assert.GreaterOrEqual(t, c.VisibleCount(), 1)
		assertSumsTo100(t, c)
		assertWithinBounds(t, c)
	}
}

func TestColumns_AddUpToTotal(t *testing.T) {
	state := PanelState{
		LibraryVisible: true, PlayerVisible: true, CommentsVisible: true,
		LibraryWidth: 33.3, PlayerWidth: 33.3, CommentsWidth: 33.4,
	}

	cols := state.Columns(101)
	assert.Equal(t, 101, cols[0]+cols[1]+cols[2])

	state.PlayerVisible = false
	state.PlayerWidth = 0
	state.LibraryWidth = 40
	state.CommentsWidth = 60
	cols = state.Columns(80)
	assert.Equal(t, [3]int{32, 0, 48}, cols)
}
