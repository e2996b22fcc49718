// Package tui implements the interactive review workspace: a library of assets,
// a player and a comment thread laid out side by side.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/r2review/internal/layout"
	"github.com/HaiFongPan/r2review/internal/r2"
	"github.com/HaiFongPan/r2review/internal/review"
	tuiconfig "github.com/HaiFongPan/r2review/internal/tui/config"
	"github.com/HaiFongPan/r2review/internal/tui/messaging"
	"github.com/HaiFongPan/r2review/internal/tui/theme"
)

// Model is the workspace bubbletea model.
type Model struct {
	opts Options

	controller  *layout.Controller
	resizer     *layout.ResizeHandler
	unsubscribe func()
	focus       layout.Panel
	cols        [3]int

	library  *libraryPanel
	player   *playerPanel
	comments *commentsPanel

	status        messaging.StatusManager
	keyMap        KeyMap
	help          help.Model
	spinner       spinner.Model
	helpViewport  viewport.Model
	showHelp      bool
	confirmDelete bool
	deleteTarget  review.Comment

	width  int
	height int
}

// New creates the workspace model.
func New(opts Options) *Model {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = tuiconfig.DefaultFrameInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = tuiconfig.DefaultRequestTimeout
	}
	if opts.Bounds == (layout.Bounds{}) {
		opts.Bounds = layout.DefaultBounds()
	}
	if opts.Widths == (layout.Widths{}) {
		opts.Widths = layout.DefaultWidths()
	}

	controller := layout.NewController(opts.Bounds, opts.Widths)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.CreateLoadingStyle()

	h := help.New()
	h.ShowAll = true

	vp := viewport.New(tuiconfig.HelpDialogWidth-4, 15)

	m := &Model{
		opts:         opts,
		controller:   controller,
		resizer:      layout.NewResizeHandler(controller),
		focus:        layout.PanelLibrary,
		library:      newLibraryPanel(),
		player:       newPlayerPanel(),
		comments:     newCommentsPanel(),
		status:       messaging.NewStatusManager(),
		keyMap:       DefaultKeyMap(),
		help:         h,
		spinner:      s,
		helpViewport: vp,
		width:        80,
		height:       24,
	}
	m.unsubscribe = controller.Subscribe(m.relayout)
	m.relayout(controller.State())
	return m
}

// Init implements the bubbletea.Model interface
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadAssets(), m.loadCounts(), m.spinner.Tick)
}

// SelectedKey returns the key of the asset open in the player.
func (m *Model) SelectedKey() string {
	if a, ok := m.player.current(); ok {
		return a.Key
	}
	return ""
}

// Close releases the layout subscription.
func (m *Model) Close() {
	m.resizer.Cancel()
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Update implements the bubbletea.Model interface
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	return m, tea.Batch(cmd, m.thumbnailCmd())
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case resizeFrameMsg:
		m.resizer.Flush()
		return nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.helpViewport.Width = min(tuiconfig.HelpDialogWidth-4, max(msg.Width-14, 10))
		m.helpViewport.Height = min(15, max(msg.Height-10, 3))

		compact := m.opts.CompactWidth > 0 && msg.Width < m.opts.CompactWidth
		if !m.controller.SetCompact(compact) {
			m.relayout(m.controller.State())
		}
		return nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.status.Expire(time.Now(), tuiconfig.StatusMessageTTL)
		return cmd

	case assetsLoadedMsg:
		m.library.loading = false
		m.library.err = msg.err
		if msg.err != nil {
			logrus.Errorf("workspace: failed to list assets: %v", msg.err)
			return nil
		}
		m.library.setAssets(msg.assets)
		if m.opts.InitialAsset != "" {
			m.library.selectKey(m.opts.InitialAsset)
			m.opts.InitialAsset = ""
		} else if current := m.SelectedKey(); current != "" {
			m.library.selectKey(current)
		}
		return m.syncSelection()

	case countsLoadedMsg:
		if msg.err != nil {
			logrus.Warnf("workspace: failed to count comments: %v", msg.err)
			return nil
		}
		m.library.setCounts(msg.counts)
		return nil

	case commentsLoadedMsg:
		if msg.assetKey != m.comments.assetKey {
			return nil
		}
		m.comments.loading = false
		m.comments.err = msg.err
		if msg.err == nil {
			m.comments.setComments(msg.comments)
		}
		return nil

	case commentSavedMsg:
		if msg.err != nil {
			m.status.SetMessage(theme.FormatErrorMessage("Saving comment", msg.err), messaging.MessageError)
			return nil
		}
		m.status.SetMessage(theme.FormatSuccessMessage("Commented on", msg.comment.AssetKey), messaging.MessageSuccess)
		return tea.Batch(m.loadComments(msg.comment.AssetKey), m.loadCounts())

	case commentChangedMsg:
		if msg.err != nil {
			m.status.SetMessage(theme.FormatErrorMessage(msg.action, msg.err), messaging.MessageError)
			return nil
		}
		m.status.SetMessage(theme.FormatSuccessMessage(msg.action, msg.assetKey), messaging.MessageSuccess)
		return tea.Batch(m.loadComments(msg.assetKey), m.loadCounts())

	case thumbnailMsg:
		if msg.want != m.player.thumbPending {
			return nil
		}
		m.player.thumbPending = ""
		m.player.thumbFor = msg.want
		m.player.thumb = msg.art
		m.player.thumbErr = msg.err
		return nil

	case linkMsg:
		if msg.err != nil {
			m.status.SetMessage(theme.FormatErrorMessage("Generating link", msg.err), messaging.MessageError)
			return nil
		}
		if a, ok := m.player.current(); ok && a.Key == msg.key {
			links := msg.links
			m.player.links = &links
		}
		if msg.copyErr != nil {
			m.status.SetMessage(fmt.Sprintf("Link ready (clipboard unavailable: %v)", msg.copyErr), messaging.MessageWarning)
		} else {
			m.status.SetMessage("Review link copied to clipboard", messaging.MessageSuccess)
		}
		return nil
	}
	return nil
}

// relayout recomputes the panel sizes after the window or the layout changed.
func (m *Model) relayout(state layout.PanelState) {
	m.cols = state.Columns(m.width)
	h := m.bodyHeight()
	m.library.setSize(m.cols[layout.PanelLibrary], h)
	m.player.setSize(m.cols[layout.PanelPlayer], h)
	m.comments.setSize(m.cols[layout.PanelComments], h)

	if !state.Visible(m.focus) {
		if visible := state.VisiblePanels(); len(visible) > 0 {
			m.focus = visible[0]
		}
	}
}

func (m *Model) bodyHeight() int {
	return max(m.height-tuiconfig.StatusBarHeight, tuiconfig.PanelChrome+1)
}

func (m *Model) containerRect() layout.Rect {
	return layout.Rect{X: 0, Width: m.width}
}

// syncSelection opens the asset under the library cursor.
func (m *Model) syncSelection() tea.Cmd {
	a, ok := m.library.selected()
	if !ok {
		if len(m.library.shown) == 0 && len(m.library.assets) == 0 && m.player.asset != nil {
			m.player.setAsset(nil)
			m.comments.reset("")
		}
		return nil
	}
	if cur, ok := m.player.current(); ok && cur.Key == a.Key {
		return nil
	}
	m.player.setAsset(&a)
	m.comments.reset(a.Key)
	m.comments.stopComposing()
	return m.loadComments(a.Key)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case m.showHelp:
		return m.handleHelpKey(msg)
	case m.confirmDelete:
		return m.handleDeleteConfirmation(msg)
	case m.comments.composing:
		return m.handleComposeKey(msg)
	case m.library.filtering:
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.resizer.Cancel()
		return tea.Quit
	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = true
		m.helpViewport.SetContent(m.help.FullHelpView(m.keyMap.FullHelp()))
		m.helpViewport.GotoTop()
		return nil
	case key.Matches(msg, m.keyMap.ToggleLibrary):
		m.togglePanel(layout.PanelLibrary)
		return nil
	case key.Matches(msg, m.keyMap.TogglePlayer):
		m.togglePanel(layout.PanelPlayer)
		return nil
	case key.Matches(msg, m.keyMap.ToggleComments):
		m.togglePanel(layout.PanelComments)
		return nil
	case key.Matches(msg, m.keyMap.NextPanel):
		m.nextPanel()
		return nil
	case key.Matches(msg, m.keyMap.ShrinkPanel):
		m.nudge(-tuiconfig.NudgeStep)
		return nil
	case key.Matches(msg, m.keyMap.GrowPanel):
		m.nudge(tuiconfig.NudgeStep)
		return nil
	case key.Matches(msg, m.keyMap.Reload):
		m.library.loading = true
		m.status.SetMessage(theme.FormatProgressMessage("Reloading", m.opts.Prefix+"*"), messaging.MessageInfo)
		return tea.Batch(m.loadAssets(), m.loadCounts())
	case key.Matches(msg, m.keyMap.AddComment):
		return m.beginComment()
	case key.Matches(msg, m.keyMap.Share):
		return m.shareSelected()
	}

	switch m.focus {
	case layout.PanelLibrary:
		return m.handleLibraryKey(msg)
	case layout.PanelPlayer:
		m.handlePlayerKey(msg)
	case layout.PanelComments:
		return m.handleCommentsKey(msg)
	}
	return nil
}

func (m *Model) handleHelpKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keyMap.Help), key.Matches(msg, m.keyMap.Cancel), key.Matches(msg, m.keyMap.Quit):
		m.showHelp = false
		return nil
	}
	var cmd tea.Cmd
	m.helpViewport, cmd = m.helpViewport.Update(msg)
	return cmd
}

func (m *Model) handleDeleteConfirmation(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keyMap.Confirm):
		m.confirmDelete = false
		return m.deleteComment(m.deleteTarget)
	case key.Matches(msg, m.keyMap.Cancel), msg.String() == "n":
		m.confirmDelete = false
		m.deleteTarget = review.Comment{}
	}
	return nil
}

func (m *Model) handleComposeKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keyMap.Cancel):
		m.comments.stopComposing()
		m.relayout(m.controller.State())
		return nil
	case key.Matches(msg, m.keyMap.Submit):
		body := m.comments.input.Value()
		tc := m.comments.timecode
		m.comments.stopComposing()
		m.relayout(m.controller.State())
		return m.saveComment(body, tc)
	}
	var cmd tea.Cmd
	m.comments.input, cmd = m.comments.input.Update(msg)
	return cmd
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keyMap.Cancel):
		m.library.clearFilter()
		m.relayout(m.controller.State())
		return m.syncSelection()
	case key.Matches(msg, m.keyMap.Submit):
		m.library.filtering = false
		m.library.filter.Blur()
		m.relayout(m.controller.State())
		return m.syncSelection()
	}
	var cmd tea.Cmd
	m.library.filter, cmd = m.library.filter.Update(msg)
	m.library.applyFilter()
	return tea.Batch(cmd, m.syncSelection())
}

func (m *Model) handleLibraryKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keyMap.Filter):
		m.library.filtering = true
		cmd := m.library.filter.Focus()
		m.relayout(m.controller.State())
		return cmd
	case key.Matches(msg, m.keyMap.Cancel):
		if m.library.filterQuery() != "" {
			m.library.clearFilter()
			m.relayout(m.controller.State())
			return m.syncSelection()
		}
		return nil
	case key.Matches(msg, m.keyMap.Up):
		m.library.table.MoveUp(1)
	case key.Matches(msg, m.keyMap.Down):
		m.library.table.MoveDown(1)
	default:
		var cmd tea.Cmd
		m.library.table, cmd = m.library.table.Update(msg)
		return tea.Batch(cmd, m.syncSelection())
	}
	return m.syncSelection()
}

func (m *Model) handlePlayerKey(msg tea.KeyMsg) {
	var delta float64
	switch {
	case key.Matches(msg, m.keyMap.StepBack):
		delta = -tuiconfig.PlayheadStep
	case key.Matches(msg, m.keyMap.StepForward):
		delta = tuiconfig.PlayheadStep
	case key.Matches(msg, m.keyMap.JumpBack):
		delta = -tuiconfig.PlayheadJump
	case key.Matches(msg, m.keyMap.JumpForward):
		delta = tuiconfig.PlayheadJump
	default:
		return
	}
	if !m.player.seek(delta) {
		m.status.SetMessage("Selected asset has no timeline", messaging.MessageInfo)
	}
}

func (m *Model) handleCommentsKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keyMap.Up):
		m.comments.move(-1)
	case key.Matches(msg, m.keyMap.Down):
		m.comments.move(1)
	case key.Matches(msg, m.keyMap.ResolveToggle):
		return m.toggleResolved()
	case key.Matches(msg, m.keyMap.DeleteComment):
		c, ok := m.comments.selected()
		if !ok {
			return nil
		}
		if !m.opts.Actor.CanDelete(c) {
			m.status.SetMessage(fmt.Sprintf("%s cannot delete comments by %s", m.opts.Actor.Role, c.Author), messaging.MessageWarning)
			return nil
		}
		m.deleteTarget = c
		m.confirmDelete = true
	}
	return nil
}

// togglePanel flips a panel and reports why when the layout refuses.
func (m *Model) togglePanel(p layout.Panel) {
	if !m.controller.Toggle(p) {
		if m.controller.Compact() {
			m.status.SetMessage(fmt.Sprintf("Compact mode shows one panel; %s is already open", p), messaging.MessageWarning)
		} else {
			m.status.SetMessage(fmt.Sprintf("The %s panel is the last one open", p), messaging.MessageWarning)
		}
		return
	}
	if m.controller.Visible(p) {
		m.focus = p
	}
}

// nextPanel moves focus to the next visible panel. In compact mode, where only
// one panel fits, it switches the panel shown instead.
func (m *Model) nextPanel() {
	if m.controller.Compact() {
		next := layout.Panels[(int(m.focus)+1)%len(layout.Panels)]
		if m.controller.Toggle(next) {
			m.focus = next
		}
		return
	}

	visible := m.controller.State().VisiblePanels()
	for i, p := range visible {
		if p == m.focus {
			m.focus = visible[(i+1)%len(visible)]
			return
		}
	}
	m.focus = visible[0]
}

// focusedBoundary is the focused panel's right divider, or its left one for the last panel.
func (m *Model) focusedBoundary() (layout.Boundary, bool) {
	visible := m.controller.State().VisiblePanels()
	for i, p := range visible {
		if p != m.focus {
			continue
		}
		switch {
		case i < len(visible)-1:
			return layout.Boundary{Left: p, Right: visible[i+1]}, true
		case i > 0:
			return layout.Boundary{Left: visible[i-1], Right: p}, true
		}
	}
	return layout.NoBoundary, false
}

func (m *Model) nudge(delta float64) {
	b, ok := m.focusedBoundary()
	if !ok {
		return
	}
	m.resizer.Nudge(b, delta)
}

func (m *Model) beginComment() tea.Cmd {
	a, ok := m.player.current()
	if !ok {
		m.status.SetMessage("Select an asset to comment on", messaging.MessageInfo)
		return nil
	}
	if err := m.opts.Actor.Require(review.PermComment); err != nil {
		m.status.SetMessage(err.Error(), messaging.MessageWarning)
		return nil
	}

	tc := m.player.timecode()
	if !m.controller.Visible(layout.PanelComments) {
		m.controller.Toggle(layout.PanelComments)
	}
	if m.controller.Visible(layout.PanelComments) {
		m.focus = layout.PanelComments
	}
	logrus.Debugf("workspace: composing comment on %s", a.Key)
	m.comments.startComposing(tc)
	m.relayout(m.controller.State())
	return m.comments.input.Focus()
}

func (m *Model) shareSelected() tea.Cmd {
	a, ok := m.player.current()
	if !ok {
		return nil
	}
	if err := m.opts.Actor.Require(review.PermShare); err != nil {
		m.status.SetMessage(err.Error(), messaging.MessageWarning)
		return nil
	}
	if m.opts.Links == nil {
		m.status.SetMessage("Links are not configured", messaging.MessageWarning)
		return nil
	}

	links, copyFn, timeout := m.opts.Links, m.opts.CopyToClipboard, m.opts.Timeout
	m.status.SetMessage(theme.FormatProgressMessage("Generating link for", a.Name()), messaging.MessageInfo)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		l, err := links.Generate(ctx, a.Key)
		if err != nil {
			return linkMsg{key: a.Key, err: err}
		}
		var copyErr error
		if copyFn != nil {
			copyErr = copyFn(l.Preferred())
		} else {
			copyErr = errors.New("no clipboard")
		}
		return linkMsg{key: a.Key, links: l, copyErr: copyErr}
	}
}

func (m *Model) toggleResolved() tea.Cmd {
	c, ok := m.comments.selected()
	if !ok {
		return nil
	}
	if err := m.opts.Actor.Require(review.PermResolve); err != nil {
		m.status.SetMessage(err.Error(), messaging.MessageWarning)
		return nil
	}

	action := "Resolved comment on"
	if c.Resolved {
		action = "Reopened comment on"
	}
	store, timeout := m.opts.Comments, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := store.SetResolved(ctx, c.ID, !c.Resolved)
		return commentChangedMsg{assetKey: c.AssetKey, action: action, err: err}
	}
}

func (m *Model) saveComment(body string, timecode float64) tea.Cmd {
	a, ok := m.player.current()
	if !ok {
		return nil
	}
	c, err := review.NewComment(a.Key, m.opts.Actor.Name, body, timecode)
	if err != nil {
		m.status.SetMessage(err.Error(), messaging.MessageWarning)
		return nil
	}

	store, timeout := m.opts.Comments, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		saved, err := store.Add(ctx, c)
		return commentSavedMsg{comment: saved, err: err}
	}
}

func (m *Model) deleteComment(c review.Comment) tea.Cmd {
	if c.ID == "" {
		return nil
	}
	store, timeout := m.opts.Comments, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := store.Delete(ctx, c.ID)
		return commentChangedMsg{assetKey: c.AssetKey, action: "Deleted comment on", err: err}
	}
}

// loadAssets lists the bucket
func (m *Model) loadAssets() tea.Cmd {
	src, prefix, timeout := m.opts.Assets, m.opts.Prefix, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		assets, err := src.ListAssets(ctx, prefix)
		return assetsLoadedMsg{assets: assets, err: err}
	}
}

func (m *Model) loadCounts() tea.Cmd {
	store, timeout := m.opts.Comments, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		counts, err := store.Counts(ctx)
		return countsLoadedMsg{counts: counts, err: err}
	}
}

func (m *Model) loadComments(assetKey string) tea.Cmd {
	store, timeout := m.opts.Comments, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		comments, err := store.List(ctx, assetKey)
		return commentsLoadedMsg{assetKey: assetKey, comments: comments, err: err}
	}
}

// thumbnailCmd renders the selected image once it is shown and the panel size settled.
func (m *Model) thumbnailCmd() tea.Cmd {
	if m.opts.Thumbnails == nil || m.resizer.Active() || !m.controller.Visible(layout.PanelPlayer) {
		return nil
	}
	a, ok := m.player.current()
	if !ok || a.Kind != r2.KindImage {
		return nil
	}
	cols, rows := m.player.thumbSize()
	if cols < 4 || rows < 2 {
		return nil
	}
	want := thumbKey(a.Key, cols, rows)
	if want == m.player.thumbFor || want == m.player.thumbPending {
		return nil
	}

	src, timeout := m.opts.Thumbnails, m.opts.Timeout
	if art, ok := src.Cached(a.Key, a.ETag, cols, rows); ok {
		m.player.thumbPending = ""
		m.player.thumbFor, m.player.thumb, m.player.thumbErr = want, art, nil
		return nil
	}
	m.player.thumbPending = want

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		art, err := src.Render(ctx, a.Key, a.ETag, cols, rows)
		return thumbnailMsg{want: want, art: art, err: err}
	}
}

// View implements the bubbletea.Model interface
func (m *Model) View() string {
	state := m.controller.State()
	h := m.bodyHeight()
	spin := m.spinner.View()

	panels := make([]string, 0, 3)
	for _, p := range state.VisiblePanels() {
		focused := p == m.focus
		locked := m.controller.Locked(p)
		switch p {
		case layout.PanelLibrary:
			panels = append(panels, m.library.view(focused, locked, spin))
		case layout.PanelPlayer:
			panels = append(panels, m.player.view(focused, locked))
		case layout.PanelComments:
			panels = append(panels, m.comments.view(focused, locked, m.resizer.Active(), spin))
		}
	}
	body := lipgloss.NewStyle().MaxHeight(h).Render(lipgloss.JoinHorizontal(lipgloss.Top, panels...))
	baseView := body + "\n" + m.renderStatusBar()

	if m.confirmDelete {
		return m.renderFloatingDialog(m.renderDeleteConfirmation())
	}
	if m.showHelp {
		return m.renderFloatingDialog(m.renderHelpDialog())
	}
	return baseView
}

// renderStatusBar shows the status message, the panel widths and the key hints.
func (m *Model) renderStatusBar() string {
	left := m.status.RenderMessage()
	if left == "" {
		left = theme.CreateFooterStyle().Render(fmt.Sprintf("%s as %s", m.opts.Actor.Name, m.opts.Actor.Role))
	}

	state := m.controller.State()
	var parts []string
	for _, p := range state.VisiblePanels() {
		parts = append(parts, fmt.Sprintf("%s %.1f%%", strings.ToUpper(p.String()[:1]), layout.SnapPercent(state.Width(p))))
	}
	right := strings.Join(parts, " · ")
	if m.controller.Compact() {
		right += " · compact"
	}
	if b := m.resizer.ActiveBoundary(); b.Valid() {
		right = fmt.Sprintf("resizing %s|%s · %s", b.Left, b.Right, right)
	}
	right = theme.CreateFooterStyle().Render(right)

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	line := left + strings.Repeat(" ", gap) + right

	hints := theme.CreateFooterStyle().Render(m.help.ShortHelpView(m.keyMap.ShortHelp()))
	return line + "\n" + hints
}

// renderFloatingDialog centres a dialog over the workspace.
func (m *Model) renderFloatingDialog(dialog string) string {
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		dialog,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("#222222")),
	)
}

func (m *Model) renderDeleteConfirmation() string {
	c := m.deleteTarget
	preview := c.Body
	if i := strings.IndexByte(preview, '\n'); i >= 0 {
		preview = preview[:i]
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		theme.CreateDialogButtonStyle(true).Render("y delete"),
		theme.CreateDialogButtonStyle(false).Render("n cancel"),
	)
	content := fmt.Sprintf("Delete comment by %s?\n\n%q\n\n", c.Author, preview)
	content += theme.CreatePromptStyle().Render("Press 'y' to confirm, 'n' to cancel") + "\n" + buttons
	return theme.CreateAdvancedDialogStyle(min(tuiconfig.DialogDefaultWidth, m.width-4), theme.ColorBrightRed).Render(content)
}

func (m *Model) renderHelpDialog() string {
	title := theme.CreateSectionHeaderStyle().Render("r2review - Help")
	instructions := theme.CreateHintStyle().Render("Press ? or esc to close • ↑↓ to scroll")
	content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.helpViewport.View(), "", instructions)
	return theme.CreateAdvancedDialogStyle(min(tuiconfig.HelpDialogWidth, m.width-4), theme.ColorBrightYellow).
		Align(lipgloss.Left).
		Render(content)
}

// panelTitle renders a panel heading, marking panels that cannot be closed.
func panelTitle(title string, focused, locked bool) string {
	if locked {
		title += " 🔒"
	}
	return theme.CreatePanelTitleStyle(focused).Render(title)
}
