package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HaiFongPan/r2review/internal/layout"
	"github.com/HaiFongPan/r2review/internal/r2"
	"github.com/HaiFongPan/r2review/internal/review"
	"github.com/HaiFongPan/r2review/internal/utils"
)

type fakeAssets struct {
	assets []r2.Asset
	err    error
}

func (f *fakeAssets) ListAssets(ctx context.Context, prefix string) ([]r2.Asset, error) {
	return f.assets, f.err
}

type fakeLinks struct {
	err error
}

func (f *fakeLinks) Generate(ctx context.Context, key string) (utils.Links, error) {
	if f.err != nil {
		return utils.Links{}, f.err
	}
	return utils.Links{Presigned: "https://signed.example/" + key}, nil
}

type fakeThumbnails struct {
	calls int
	done  map[string]bool
}

func (f *fakeThumbnails) Cached(key, etag string, cols, rows int) (string, bool) {
	if f.done[thumbKey(key, cols, rows)] {
		return "[art]", true
	}
	return "", false
}

func (f *fakeThumbnails) Render(ctx context.Context, key, etag string, cols, rows int) (string, error) {
	f.calls++
	if f.done == nil {
		f.done = make(map[string]bool)
	}
	f.done[thumbKey(key, cols, rows)] = true
	return "[art]", nil
}

func testAssets() []r2.Asset {
	now := time.Now()
	return []r2.Asset{
		{Key: "clips/intro.mp4", Size: 1 << 20, Kind: r2.KindVideo, LastModified: now},
		{Key: "clips/outro.mp4", Size: 2 << 20, Kind: r2.KindVideo, LastModified: now},
		{Key: "stills/poster.png", Size: 4096, Kind: r2.KindImage, LastModified: now},
	}
}

func newTestModel(t *testing.T, role review.Role, opts ...func(*Options)) (*Model, *review.Store) {
	t.Helper()
	store, err := review.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	o := Options{
		Assets:       &fakeAssets{assets: testAssets()},
		Comments:     store,
		Links:        &fakeLinks{},
		Actor:        review.Actor{Name: "ana", Role: role},
		CompactWidth: 80,
	}
	for _, fn := range opts {
		fn(&o)
	}

	m := New(o)
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	runCmd(m, m.loadAssets())
	runCmd(m, m.loadCounts())
	return m, store
}

// runCmd executes cmd and feeds the resulting messages back into the model.
func runCmd(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			runCmd(m, c)
		}
		return
	}
	_, next := m.Update(msg)
	runCmd(m, next)
}

func press(m *Model, keys string) tea.Cmd {
	var msg tea.KeyMsg
	switch keys {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func mouse(m *Model, action tea.MouseAction, x int) tea.Cmd {
	_, cmd := m.Update(tea.MouseMsg{X: x, Y: 5, Action: action, Button: tea.MouseButtonLeft})
	return cmd
}

func TestWorkspace_LoadsAssetsAndSelectsFirst(t *testing.T) {
	m, _ := newTestModel(t, review.RoleReviewer)

	assert.False(t, m.library.loading)
	assert.Len(t, m.library.shown, 3)
	assert.Equal(t, "clips/intro.mp4", m.SelectedKey())
	assert.Equal(t, [3]int{20, 50, 30}, m.cols)
	assert.Contains(t, m.View(), "Library (3)")
}

func TestWorkspace_InitialAssetIsSelected(t *testing.T) {
	m, _ := newTestModel(t, review.RoleReviewer, func(o *Options) {
		o.InitialAsset = "stills/poster.png"
	})
	assert.Equal(t, "stills/poster.png", m.SelectedKey())
}

func TestWorkspace_ListErrorIsShown(t *testing.T) {
	m, _ := newTestModel(t, review.RoleReviewer, func(o *Options) {
		o.Assets = &fakeAssets{err: errors.New("bucket offline")}
	})
	assert.Empty(t, m.SelectedKey())
	assert.Contains(t, m.View(), "offline")
}

func TestWorkspace_TogglePanels(t *testing.T) {
	m, _ := newTestModel(t, review.RoleReviewer)

	press(m, "1")
	assert.False(t, m.controller.Visible(layout.PanelLibrary))
	assert.Equal(t, 100, m.cols[layout.PanelPlayer]+m.cols[layout.PanelComments])
	assert.Equal(t, layout.PanelPlayer, m.focus, "focus leaves the hidden panel")

	press(m, "2")
	assert.True(t, m.controller.CommentsLocked())

	before := m.controller.State()
	press(m, "3")
	assert.Equal(t, before, m.controller.State(), "the last panel stays open")
	msg, _, ok := m.status.GetMessage()
	require.True(t, ok)
	assert.Contains(t, msg, "last one open")

	press(m, "1")
	assert.True(t, m.controller.Visible(layout.PanelLibrary))
	assert.Equal(t, layout.PanelLibrary, m.focus)
}

func TestWorkspace_NarrowWindowEntersCompactMode(t *testing.T) {
	m, _ := newTestModel(t, review.RoleReviewer)

	m.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	require.True(t, m.controller.Compact())
	assert.Equal(t, []layout.Panel{layout.PanelPlayer}, m.controller.State().VisiblePanels())
	assert.Equal(t, 60, m.cols[layout.PanelPlayer])
	assert.Equal(t, layout.PanelPlayer, m.focus)

	press(m, "2")
	assert.True(t, m.controller.Visible(layout.PanelPlayer), "toggling the shown panel is a no-op")

	press(m, "tab")
	assert.Equal(t, []layout.Panel{layout.PanelComments}, m.controller.State().VisiblePanels())
	assert.Equal(t, layout.PanelComments, m.focus)

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	assert.False(t, m.controller.Compact())
	assert.Len(t, m.controller.State().VisiblePanels(), 3)
	assert.Equal(t, 120, m.cols[0]+m.cols[1]+m.cols[2])
}

func TestWorkspace_MouseDragIsAppliedPerFrame(t *testing.T) {
	m, _ := newTestModel(t, review.RoleReviewer)

	assert.Nil(t, mouse(m, tea.MouseActionPress, 20))
	require.True(t, m.resizer.Active())
	assert.Contains(t, m.View(), "resizing library|player")

	cmd := mouse(m, tea.MouseActionMotion, 30)
	require.NotNil(t, cmd, "first move schedules a frame")
	assert.Nil(t, mouse(m, tea.MouseActionMotion, 35), "later moves share the frame")
	assert.InDelta(t, 20, m.controller.Width(layout.PanelLibrary), 1e-9, "nothing applied before the frame")

	assert.IsType(t, resizeFrameMsg{}, cmd())
	m.Update(resizeFrameMsg{})
	assert.InDelta(t, 35, m.controller.Width(layout.PanelLibrary), 1e-9)
	assert.InDelta(t, 35, m.controller.Width(layout.PanelPlayer), 1e-9)
	assert.InDelta(t, 30, m.controller.Width(layout.PanelComments), 1e-9)

	mouse(m, tea.MouseActionMotion, 90)
	mouse(m, tea.MouseActionRelease, 90)
	assert.False(t, m.resizer.Active())
	assert.InDelta(t, 40, m.controller.Width(layout.PanelLibrary), 1e-9, "release flushes, clamped by the player minimum")
	assert.Equal(t, 100, m.cols[0]+m.cols[1]+m.cols[2])
}

func TestWorkspace_CommentMarkdownDeferredDuringDrag(t *testing.T) {
	m, store := newTestModel(t, review.RoleReviewer)

	c, err := review.NewComment("clips/intro.mp4", "ana", "Too dark", review.NoTimecode)
	require.NoError(t, err)
	_, err = store.Add(context.Background(), c)
	require.NoError(t, err)
	runCmd(m, m.loadComments("clips/intro.mp4"))

	assert.Nil(t, mouse(m, tea.MouseActionPress, 70))
	require.True(t, m.resizer.Active())
	mouse(m, tea.MouseActionMotion, 65)
	m.Update(resizeFrameMsg{})
	assert.Equal(t, 35, m.cols[layout.PanelComments])

	assert.Contains(t, m.View(), "Too dark")
	assert.Nil(t, m.comments.renderer, "no markdown rendering mid-drag")

	mouse(m, tea.MouseActionRelease, 65)
	m.View()
	require.NotNil(t, m.comments.renderer)
	renderer := m.comments.renderer
	assert.Len(t, m.comments.rendered, 1)

	m.View()
	assert.Same(t, renderer, m.comments.renderer, "same width reuses the renderer")
	assert.Len(t, m.comments.rendered, 1)
}

func TestWorkspace_ClickFocusesPanel(t *testing.T) {
	m, _ := newTestModel(t, review.RoleReviewer)

	mouse(m, tea.MouseActionPress, 90)
	assert.False(t, m.resizer.Active())
	assert.Equal(t, layout.PanelComments, m.focus)

	mouse(m, tea.MouseActionPress, 40)
	assert.Equal(t, layout.PanelPlayer, m.focus)
}

func TestWorkspace_MouseIgnoredInCompactMode(t *testing.T) {
	m, _ := newTestModel(t, review.RoleReviewer)
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 30})

	mouse(m, tea.MouseActionPress, 12)
	assert.False(t, m.resizer.Active())
	assert.Nil(t, mouse(m, tea.MouseActionMotion, 30))
}

func TestWorkspace_NudgeMovesFocusedDivider(t *testing.T) {
	m, _ := newTestModel(t, review.RoleReviewer)

	press(m, "]")
	assert.InDelta(t, 22, m.controller.Width(layout.PanelLibrary), 1e-9)
	assert.InDelta(t, 48, m.controller.Width(layout.PanelPlayer), 1e-9)

	m.focus = layout.PanelComments
	press(m, "[")
	assert.InDelta(t, 46, m.controller.Width(layout.PanelPlayer), 1e-9, "last panel moves its left divider")
	assert.InDelta(t, 32, m.controller.Width(layout.PanelComments), 1e-9)
	assert.InDelta(t, 22, m.controller.Width(layout.PanelLibrary), 1e-9)
}

func TestWorkspace_FilterLibrary(t *testing.T) {
	m, _ := newTestModel(t, review.RoleReviewer)

	press(m, "/")
	require.True(t, m.library.filtering)
	typeText(m, "POSTER")
	assert.Len(t, m.library.shown, 1)
	assert.Equal(t, "stills/poster.png", m.SelectedKey())

	press(m, "enter")
	assert.False(t, m.library.filtering)
	assert.Contains(t, m.View(), "Library (1/3)")

	press(m, "esc")
	assert.Len(t, m.library.shown, 3)
	assert.Equal(t, "stills/poster.png", m.SelectedKey(), "selection survives clearing the filter")
}

func TestWorkspace_CommentAtPlayhead(t *testing.T) {
	m, store := newTestModel(t, review.RoleReviewer)

	m.focus = layout.PanelPlayer
	press(m, ">")
	press(m, ".")
	press(m, ".")
	assert.InDelta(t, 12, m.player.playhead, 1e-9)

	press(m, "c")
	require.True(t, m.comments.composing)
	assert.Equal(t, layout.PanelComments, m.focus)
	typeText(m, "Cut earlier")
	runCmd(m, press(m, "enter"))

	comments, err := store.List(context.Background(), "clips/intro.mp4")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "ana", comments[0].Author)
	assert.InDelta(t, 12, comments[0].Timecode, 1e-9)

	assert.Len(t, m.comments.comments, 1)
	assert.Equal(t, review.Counts{Total: 1, Open: 1}, m.library.counts["clips/intro.mp4"])
	assert.Contains(t, m.View(), "0:12")
}

func TestWorkspace_ResolveAndDeleteComment(t *testing.T) {
	m, store := newTestModel(t, review.RoleReviewer)

	c, err := review.NewComment("clips/intro.mp4", "ana", "Too dark", review.NoTimecode)
	require.NoError(t, err)
	_, err = store.Add(context.Background(), c)
	require.NoError(t, err)
	runCmd(m, m.loadComments("clips/intro.mp4"))

	m.focus = layout.PanelComments
	runCmd(m, press(m, "r"))
	got, err := store.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.True(t, got.Resolved)
	assert.Equal(t, 0, m.comments.openCount())
	msg, _, _ := m.status.GetMessage()
	assert.Equal(t, "Resolved comment on clips/intro.mp4", msg)

	press(m, "x")
	require.True(t, m.confirmDelete)
	assert.Contains(t, m.View(), "Delete comment by ana")
	runCmd(m, press(m, "y"))

	_, err = store.Get(context.Background(), c.ID)
	assert.ErrorIs(t, err, review.ErrNotFound)
	assert.Empty(t, m.comments.comments)
}

func TestWorkspace_ReviewerCannotDeleteOthersComments(t *testing.T) {
	m, store := newTestModel(t, review.RoleReviewer)

	c, err := review.NewComment("clips/intro.mp4", "bo", "Nice", review.NoTimecode)
	require.NoError(t, err)
	_, err = store.Add(context.Background(), c)
	require.NoError(t, err)
	runCmd(m, m.loadComments("clips/intro.mp4"))

	m.focus = layout.PanelComments
	press(m, "x")
	assert.False(t, m.confirmDelete)
	msg, _, _ := m.status.GetMessage()
	assert.Contains(t, msg, "cannot delete")
}

func TestWorkspace_ViewerIsReadOnly(t *testing.T) {
	m, _ := newTestModel(t, review.RoleViewer)

	press(m, "c")
	assert.False(t, m.comments.composing)
	msg, _, _ := m.status.GetMessage()
	assert.ErrorIs(t, m.opts.Actor.Require(review.PermComment), review.ErrPermission)
	assert.Contains(t, msg, "permission denied")

	assert.Nil(t, press(m, "s"))
}

func TestWorkspace_ShareCopiesLink(t *testing.T) {
	var copied string
	m, _ := newTestModel(t, review.RoleEditor, func(o *Options) {
		o.CopyToClipboard = func(s string) error {
			copied = s
			return nil
		}
	})

	runCmd(m, press(m, "s"))
	assert.Equal(t, "https://signed.example/clips/intro.mp4", copied)
	require.NotNil(t, m.player.links)
	msg, _, _ := m.status.GetMessage()
	assert.Contains(t, msg, "copied")
}

func TestWorkspace_ThumbnailRenderedForImages(t *testing.T) {
	thumbs := &fakeThumbnails{}
	m, _ := newTestModel(t, review.RoleReviewer, func(o *Options) {
		o.Thumbnails = thumbs
	})
	assert.Equal(t, 0, thumbs.calls, "videos have no thumbnail")

	m.focus = layout.PanelLibrary
	press(m, "down")
	runCmd(m, press(m, "down"))
	assert.Equal(t, "stills/poster.png", m.SelectedKey())
	assert.Equal(t, 1, thumbs.calls)
	assert.Contains(t, m.View(), "[art]")

	runCmd(m, press(m, "?"))
	assert.Equal(t, 1, thumbs.calls, "same size is not rendered twice")
}

func TestWorkspace_CachedThumbnailShownWithoutFetch(t *testing.T) {
	thumbs := &fakeThumbnails{}
	m, _ := newTestModel(t, review.RoleReviewer, func(o *Options) {
		o.Thumbnails = thumbs
	})

	m.focus = layout.PanelLibrary
	press(m, "down")
	runCmd(m, press(m, "down"))
	require.Equal(t, 1, thumbs.calls)

	runCmd(m, press(m, "k"))
	assert.Equal(t, "clips/outro.mp4", m.SelectedKey())
	assert.Empty(t, m.player.thumb)

	cmd := press(m, "down")
	assert.Equal(t, "stills/poster.png", m.SelectedKey())
	assert.Equal(t, "[art]", m.player.thumb, "cache hit is shown in the same update")
	assert.Empty(t, m.player.thumbPending)
	runCmd(m, cmd)
	assert.Equal(t, 1, thumbs.calls)
}
