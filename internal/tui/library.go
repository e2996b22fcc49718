package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/HaiFongPan/r2review/internal/r2"
	"github.com/HaiFongPan/r2review/internal/review"
	tuiconfig "github.com/HaiFongPan/r2review/internal/tui/config"
	"github.com/HaiFongPan/r2review/internal/tui/theme"
)

// libraryPanel lists the bucket's assets with their comment counts.
type libraryPanel struct {
	assets  []r2.Asset
	shown   []r2.Asset
	counts  map[string]review.Counts
	loading bool
	err     error

	table     table.Model
	filter    textinput.Model
	filtering bool

	width     int
	height    int
	nameWidth int
	wide      bool
}

func newLibraryPanel() *libraryPanel {
	t := table.New(
		table.WithFocused(true),
		table.WithStyles(table.Styles{
			Header: lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color(theme.ColorDivider)).
				BorderBottom(true).
				Bold(true).
				Padding(0, 1).
				Foreground(lipgloss.Color(theme.ColorBrightCyan)),
			Selected: theme.CreateSelectedStyle(),
			Cell: lipgloss.NewStyle().
				Padding(0, 1).
				Foreground(lipgloss.Color(theme.ColorWhite)),
		}),
	)

	fi := textinput.New()
	fi.Prompt = "/ "
	fi.Placeholder = "filter by name"
	fi.CharLimit = 256

	return &libraryPanel{
		table:   t,
		filter:  fi,
		counts:  map[string]review.Counts{},
		loading: true,
	}
}

func (l *libraryPanel) setAssets(assets []r2.Asset) {
	l.assets = assets
	l.applyFilter()
}

func (l *libraryPanel) setCounts(counts map[string]review.Counts) {
	if counts == nil {
		counts = map[string]review.Counts{}
	}
	l.counts = counts
	l.updateRows()
}

// applyFilter keeps the assets whose key contains the filter text, ignoring case.
func (l *libraryPanel) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(l.filter.Value()))

	var current string
	if a, ok := l.selected(); ok {
		current = a.Key
	}

	l.shown = l.shown[:0]
	for _, a := range l.assets {
		if query == "" || strings.Contains(strings.ToLower(a.Key), query) {
			l.shown = append(l.shown, a)
		}
	}
	l.updateRows()
	if current != "" {
		l.selectKey(current)
	}
}

func (l *libraryPanel) filterQuery() string {
	return strings.TrimSpace(l.filter.Value())
}

func (l *libraryPanel) clearFilter() {
	l.filter.SetValue("")
	l.filter.Blur()
	l.filtering = false
	l.applyFilter()
}

// selected returns the asset under the cursor.
func (l *libraryPanel) selected() (r2.Asset, bool) {
	i := l.table.Cursor()
	if i < 0 || i >= len(l.shown) {
		return r2.Asset{}, false
	}
	return l.shown[i], true
}

// selectKey moves the cursor to key if it is listed.
func (l *libraryPanel) selectKey(key string) bool {
	for i, a := range l.shown {
		if a.Key == key {
			l.table.SetCursor(i)
			return true
		}
	}
	return false
}

func (l *libraryPanel) setSize(width, height int) {
	l.width, l.height = width, height
	inner := max(width-tuiconfig.PanelChrome, 0)
	l.wide = inner >= tuiconfig.WideLibraryWidth

	fixed := tuiconfig.ColumnKindWidth + tuiconfig.ColumnCountWidth
	cols := 3
	if l.wide {
		fixed += tuiconfig.ColumnSizeWidth + tuiconfig.ColumnModifiedWidth
		cols += 2
	}
	// every cell carries one space of padding either side
	l.nameWidth = max(inner-fixed-2*cols, tuiconfig.MinNameWidth)

	columns := []table.Column{
		{Title: "", Width: tuiconfig.ColumnKindWidth},
		{Title: "NAME", Width: l.nameWidth},
	}
	if l.wide {
		columns = append(columns,
			table.Column{Title: "SIZE", Width: tuiconfig.ColumnSizeWidth},
			table.Column{Title: "MODIFIED", Width: tuiconfig.ColumnModifiedWidth},
		)
	}
	columns = append(columns, table.Column{Title: "NOTES", Width: tuiconfig.ColumnCountWidth})

	// Rows must match the column count before the columns change.
	l.table.SetRows(nil)
	l.table.SetColumns(columns)
	l.table.SetWidth(inner)
	l.table.SetHeight(max(l.tableHeight(), 1))
	l.filter.Width = max(inner-4, 1)
	l.updateRows()
}

func (l *libraryPanel) tableHeight() int {
	h := l.height - tuiconfig.PanelChrome - 1
	if l.filtering || l.filterQuery() != "" {
		h--
	}
	return h
}

func (l *libraryPanel) updateRows() {
	cursor := l.table.Cursor()
	rows := make([]table.Row, len(l.shown))
	for i, a := range l.shown {
		icon := lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.GetKindColor(string(a.Kind)))).
			Render(a.Kind.Icon())
		name := runewidth.Truncate(a.Key, l.nameWidth, "...")

		row := table.Row{icon, name}
		if l.wide {
			row = append(row, humanize.IBytes(uint64(max(a.Size, 0))), humanize.Time(a.LastModified))
		}
		row = append(row, formatCounts(l.counts[a.Key]))
		rows[i] = row
	}
	l.table.SetRows(rows)
	if cursor >= len(rows) {
		cursor = len(rows) - 1
	}
	l.table.SetCursor(max(cursor, 0))
	l.table.SetHeight(max(l.tableHeight(), 1))
}

func formatCounts(c review.Counts) string {
	if c.Total == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", c.Open, c.Total)
}

func (l *libraryPanel) view(focused, locked bool, spin string) string {
	var b strings.Builder

	title := fmt.Sprintf("Library (%d)", len(l.assets))
	if q := l.filterQuery(); q != "" {
		title = fmt.Sprintf("Library (%d/%d)", len(l.shown), len(l.assets))
	}
	b.WriteString(panelTitle(title, focused, locked))
	b.WriteString("\n")

	if l.filtering || l.filterQuery() != "" {
		b.WriteString(l.filter.View())
		b.WriteString("\n")
	}

	switch {
	case l.loading:
		b.WriteString(theme.CreateLoadingStyle().Render(spin + " Loading assets..."))
	case l.err != nil:
		b.WriteString(theme.CreateErrorStyle().Render(fmt.Sprintf("Error: %v", l.err)))
	case len(l.shown) == 0 && len(l.assets) > 0:
		b.WriteString(theme.CreateSecondaryTextStyle().Render("No assets match the filter"))
	case len(l.shown) == 0:
		b.WriteString(theme.CreateSecondaryTextStyle().Render("No assets found"))
	default:
		b.WriteString(l.table.View())
	}

	return theme.CreatePanelStyle(l.width, l.height, focused).Render(b.String())
}
