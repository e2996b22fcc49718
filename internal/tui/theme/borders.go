package theme

import "github.com/charmbracelet/lipgloss"

// BorderStyleUnified is the square box border drawn around every panel.
var BorderStyleUnified = lipgloss.Border{
	Top:         "─",
	Bottom:      "─",
	Left:        "│",
	Right:       "│",
	TopLeft:     "┌",
	TopRight:    "┐",
	BottomLeft:  "└",
	BottomRight: "┘",
}
