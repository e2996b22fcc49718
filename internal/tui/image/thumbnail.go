// Package image renders asset thumbnails as text for the player panel.
package image

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
)

// MaxSourceBytes caps how much of an asset is downloaded for a thumbnail.
const MaxSourceBytes = 16 << 20

// Fetcher downloads asset bytes.
type Fetcher interface {
	GetAsset(ctx context.Context, key string, maxBytes int64) ([]byte, error)
}

// Thumbnailer turns image assets into half-block ANSI art and keeps the most
// recently used renders in memory.
type Thumbnailer struct {
	fetcher Fetcher
	cache   *lru.Cache[string, string]
}

// NewThumbnailer creates a thumbnailer that keeps up to entries renders.
func NewThumbnailer(fetcher Fetcher, entries int) (*Thumbnailer, error) {
	cache, err := lru.New[string, string](entries)
	if err != nil {
		return nil, fmt.Errorf("create thumbnail cache: %w", err)
	}
	return &Thumbnailer{fetcher: fetcher, cache: cache}, nil
}

func cacheKey(key, etag string, cols, rows int) string {
	return fmt.Sprintf("%s|%s|%dx%d", key, etag, cols, rows)
}

// Cached returns a previous render without touching the network.
func (t *Thumbnailer) Cached(key, etag string, cols, rows int) (string, bool) {
	return t.cache.Get(cacheKey(key, etag, cols, rows))
}

// Render downloads key and renders it into at most cols x rows cells.
// The etag keeps stale renders from being served after the asset changes.
func (t *Thumbnailer) Render(ctx context.Context, key, etag string, cols, rows int) (string, error) {
	ck := cacheKey(key, etag, cols, rows)
	if s, ok := t.cache.Get(ck); ok {
		return s, nil
	}

	data, err := t.fetcher.GetAsset(ctx, key, MaxSourceBytes)
	if err != nil {
		return "", err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", key, err)
	}

	s := RenderANSI(img, cols, rows)
	t.cache.Add(ck, s)
	logrus.Debugf("thumbnail: rendered %s at %dx%d", key, cols, rows)
	return s, nil
}

// Len returns the number of cached renders.
func (t *Thumbnailer) Len() int {
	return t.cache.Len()
}

// RenderANSI draws img with upper half blocks: each cell shows two pixels,
// the top one as foreground and the bottom one as background.
func RenderANSI(img image.Image, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return ""
	}

	fitted := imaging.Fit(img, cols, rows*2, imaging.Box)
	fb := fitted.Bounds()
	w, h := fb.Dx(), fb.Dy()

	var sb strings.Builder
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			top := fitted.NRGBAAt(x, y)
			bottom := top
			if y+1 < h {
				bottom = fitted.NRGBAAt(x, y+1)
			}
			fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				top.R, top.G, top.B, bottom.R, bottom.G, bottom.B)
		}
		sb.WriteString("\x1b[0m")
		if y+2 < h {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
