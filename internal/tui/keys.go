package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines keybindings for the review workspace
type KeyMap struct {
	ToggleLibrary  key.Binding
	TogglePlayer   key.Binding
	ToggleComments key.Binding
	NextPanel      key.Binding
	ShrinkPanel    key.Binding
	GrowPanel      key.Binding

	Up     key.Binding
	Down   key.Binding
	Filter key.Binding
	Share  key.Binding
	Reload key.Binding

	StepBack    key.Binding
	StepForward key.Binding
	JumpBack    key.Binding
	JumpForward key.Binding

	AddComment    key.Binding
	ResolveToggle key.Binding
	DeleteComment key.Binding

	Submit  key.Binding
	Cancel  key.Binding
	Confirm key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		ToggleLibrary: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "library"),
		),
		TogglePlayer: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "player"),
		),
		ToggleComments: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "comments"),
		),
		NextPanel: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next panel"),
		),
		ShrinkPanel: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "move divider left"),
		),
		GrowPanel: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "move divider right"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Share: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "copy review link"),
		),
		Reload: key.NewBinding(
			key.WithKeys("ctrl+r", "f5"),
			key.WithHelp("ctrl+r", "reload"),
		),
		StepBack: key.NewBinding(
			key.WithKeys(","),
			key.WithHelp(",", "playhead -1s"),
		),
		StepForward: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "playhead +1s"),
		),
		JumpBack: key.NewBinding(
			key.WithKeys("<"),
			key.WithHelp("<", "playhead -10s"),
		),
		JumpForward: key.NewBinding(
			key.WithKeys(">"),
			key.WithHelp(">", "playhead +10s"),
		),
		AddComment: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comment"),
		),
		ResolveToggle: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "resolve"),
		),
		DeleteComment: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete comment"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yes"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleLibrary, k.TogglePlayer, k.ToggleComments, k.NextPanel, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ToggleLibrary, k.TogglePlayer, k.ToggleComments, k.NextPanel, k.ShrinkPanel, k.GrowPanel},
		{k.Up, k.Down, k.Filter, k.Share, k.Reload},
		{k.StepBack, k.StepForward, k.JumpBack, k.JumpForward},
		{k.AddComment, k.ResolveToggle, k.DeleteComment, k.Help, k.Quit},
	}
}
