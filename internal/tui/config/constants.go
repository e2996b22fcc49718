package config

import "time"

// Layout constants
const (
	// StatusBarHeight is the status line plus the key hint line under the panels.
	StatusBarHeight = 2
	// PanelChrome is the border and padding a panel spends on each axis.
	PanelChrome = 2

	// NudgeStep is how far [ and ] move a divider, in percent.
	NudgeStep = 2.0
	// PlayheadStep is how far , and . move the playhead, in seconds.
	PlayheadStep = 1.0
	// PlayheadJump is the step with shift held.
	PlayheadJump = 10.0

	// Library table columns
	ColumnKindWidth     = 4
	ColumnSizeWidth     = 9
	ColumnModifiedWidth = 14
	ColumnCountWidth    = 6
	MinNameWidth        = 8
	// WideLibraryWidth is the panel width from which size and date columns show.
	WideLibraryWidth = 60

	// Dialog dimensions
	DialogDefaultWidth = 50
	HelpDialogWidth    = 70

	// Thumbnails reserve this many rows for the asset details above them.
	ThumbnailHeaderRows = 8
)

// Timing
const (
	// DefaultFrameInterval coalesces resize moves to roughly 60 updates a second.
	DefaultFrameInterval = 16 * time.Millisecond
	// DefaultRequestTimeout bounds every storage call made from the workspace.
	DefaultRequestTimeout = 30 * time.Second
	// StatusMessageTTL is how long info and success messages stay on the status line.
	StatusMessageTTL = 4 * time.Second
)
