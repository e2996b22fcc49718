package tui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/HaiFongPan/r2review/internal/r2"
	"github.com/HaiFongPan/r2review/internal/review"
	tuiconfig "github.com/HaiFongPan/r2review/internal/tui/config"
	"github.com/HaiFongPan/r2review/internal/tui/theme"
	"github.com/HaiFongPan/r2review/internal/utils"
)

// playerPanel previews the selected asset and tracks its playhead.
type playerPanel struct {
	asset    *r2.Asset
	playhead float64

	thumb        string
	thumbFor     string
	thumbPending string
	thumbErr     error

	links *utils.Links

	width  int
	height int
}

func newPlayerPanel() *playerPanel {
	return &playerPanel{}
}

func (p *playerPanel) setAsset(a *r2.Asset) {
	p.asset = a
	p.playhead = 0
	p.thumb, p.thumbFor, p.thumbPending = "", "", ""
	p.thumbErr = nil
	p.links = nil
}

func (p *playerPanel) current() (r2.Asset, bool) {
	if p.asset == nil {
		return r2.Asset{}, false
	}
	return *p.asset, true
}

// seek moves the playhead by delta seconds, never before the start.
func (p *playerPanel) seek(delta float64) bool {
	if p.asset == nil || !p.asset.Kind.Playable() {
		return false
	}
	p.playhead = max(p.playhead+delta, 0)
	return true
}

// timecode is the position new comments are pinned to.
func (p *playerPanel) timecode() float64 {
	if p.asset == nil || !p.asset.Kind.Playable() {
		return review.NoTimecode
	}
	return p.playhead
}

func (p *playerPanel) setSize(width, height int) {
	p.width, p.height = width, height
}

// thumbSize is the cell area left for a thumbnail under the asset details.
func (p *playerPanel) thumbSize() (cols, rows int) {
	return p.width - tuiconfig.PanelChrome, p.height - tuiconfig.PanelChrome - tuiconfig.ThumbnailHeaderRows
}

func thumbKey(key string, cols, rows int) string {
	return fmt.Sprintf("%s@%dx%d", key, cols, rows)
}

func (p *playerPanel) view(focused, locked bool) string {
	var b strings.Builder
	b.WriteString(panelTitle("Player", focused, locked))
	b.WriteString("\n")

	a, ok := p.current()
	if !ok {
		b.WriteString(theme.CreateSecondaryTextStyle().Render("Select an asset in the library"))
		return theme.CreatePanelStyle(p.width, p.height, focused).Render(b.String())
	}

	inner := max(p.width-tuiconfig.PanelChrome, 1)
	label := theme.CreateSecondaryTextStyle()
	value := theme.CreateInfoTextStyle()
	line := func(name, v string) {
		b.WriteString(label.Render(fmt.Sprintf("%-9s", name)))
		b.WriteString(value.Render(runewidth.Truncate(v, max(inner-9, 1), "...")))
		b.WriteString("\n")
	}

	b.WriteString(theme.CreateSectionHeaderStyle().Render(runewidth.Truncate(a.Name(), inner, "...")))
	b.WriteString("\n")
	line("Key", a.Key)
	line("Kind", string(a.Kind))
	if a.ContentType != "" {
		line("Type", a.ContentType)
	}
	line("Size", humanize.IBytes(uint64(max(a.Size, 0))))
	if !a.LastModified.IsZero() {
		line("Modified", humanize.Time(a.LastModified))
	}

	if a.Kind.Playable() {
		line("Playhead", review.FormatTimecode(p.playhead))
		b.WriteString(theme.CreateHintStyle().Render(", . step  < > jump  c comment here"))
		b.WriteString("\n")
	}

	if p.links != nil {
		b.WriteString(theme.CreateURLSectionStyle().Render("Review link"))
		b.WriteString("\n")
		url := p.links.Preferred()
		b.WriteString(theme.FormatClickableURL(runewidth.Truncate(url, inner, "..."), url))
		b.WriteString("\n")
	}

	if a.Kind == r2.KindImage {
		switch {
		case p.thumb != "":
			b.WriteString(p.thumb)
		case p.thumbErr != nil:
			b.WriteString(theme.CreateErrorStyle().Render(fmt.Sprintf("Preview failed: %v", p.thumbErr)))
		case p.thumbPending != "":
			b.WriteString(theme.CreateLoadingStyle().Render("Rendering preview..."))
		}
	}

	return theme.CreatePanelStyle(p.width, p.height, focused).Render(b.String())
}
