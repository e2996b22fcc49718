package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// CreatePanelStyle creates the bordered style of a workspace panel. Width and
// height are the outer size including the border.
func CreatePanelStyle(width, height int, focused bool) lipgloss.Style {
	border := ColorDivider
	if focused {
		border = ColorBrightBlue
	}
	return lipgloss.NewStyle().
		Width(max(width-2, 0)).
		Height(max(height-2, 0)).
		MaxHeight(height).
		Border(BorderStyleUnified).
		BorderForeground(lipgloss.Color(border)).
		Foreground(lipgloss.Color(ColorWhite))
}

// CreatePanelTitleStyle styles the first line of a panel
func CreatePanelTitleStyle(focused bool) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	if focused {
		return style.Foreground(lipgloss.Color(ColorBrightBlue))
	}
	return style.Foreground(lipgloss.Color(ColorBrightBlack))
}

// CreateSectionHeaderStyle creates a consistent section header style
func CreateSectionHeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorBrightCyan))
}

// CreateInfoTextStyle creates a consistent info text style
func CreateInfoTextStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWhite))
}

// CreateSecondaryTextStyle creates a consistent secondary text style
func CreateSecondaryTextStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBrightBlack)).
		Italic(true)
}

// CreateSelectedStyle highlights the selected comment
func CreateSelectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#4A90E2")).
		Bold(true)
}

// CreateFooterStyle creates a consistent footer style
func CreateFooterStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBrightBlack))
}

// CreateLoadingStyle creates a consistent loading state style
func CreateLoadingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBrightYellow))
}

// CreateErrorStyle creates a consistent error style
func CreateErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBrightRed))
}
