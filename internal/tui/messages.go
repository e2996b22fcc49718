package tui

import (
	"context"
	"time"

	"github.com/HaiFongPan/r2review/internal/layout"
	"github.com/HaiFongPan/r2review/internal/r2"
	"github.com/HaiFongPan/r2review/internal/review"
	"github.com/HaiFongPan/r2review/internal/utils"
)

// AssetSource lists the assets of the review bucket.
type AssetSource interface {
	ListAssets(ctx context.Context, prefix string) ([]r2.Asset, error)
}

// CommentStore persists comment threads.
type CommentStore interface {
	List(ctx context.Context, assetKey string) ([]review.Comment, error)
	Add(ctx context.Context, c review.Comment) (review.Comment, error)
	SetResolved(ctx context.Context, id string, resolved bool) error
	Delete(ctx context.Context, id string) error
	Counts(ctx context.Context) (map[string]review.Counts, error)
}

// LinkSource builds shareable links for an asset.
type LinkSource interface {
	Generate(ctx context.Context, key string) (utils.Links, error)
}

// ThumbnailSource renders image assets as terminal art.
type ThumbnailSource interface {
	// Cached returns a finished render without doing any I/O.
	Cached(key, etag string, cols, rows int) (string, bool)
	Render(ctx context.Context, key, etag string, cols, rows int) (string, error)
}

// Options wires the workspace to its data sources.
type Options struct {
	Assets     AssetSource
	Comments   CommentStore
	Links      LinkSource
	Thumbnails ThumbnailSource // optional

	Actor review.Actor

	Bounds       layout.Bounds
	Widths       layout.Widths
	CompactWidth int

	FrameInterval time.Duration
	Timeout       time.Duration

	Prefix       string
	InitialAsset string

	CopyToClipboard func(string) error
}

// Message types for tea.Cmd communication
type assetsLoadedMsg struct {
	assets []r2.Asset
	err    error
}

type countsLoadedMsg struct {
	counts map[string]review.Counts
	err    error
}

type commentsLoadedMsg struct {
	assetKey string
	comments []review.Comment
	err      error
}

type commentSavedMsg struct {
	comment review.Comment
	err     error
}

type commentChangedMsg struct {
	assetKey string
	action   string
	err      error
}

type thumbnailMsg struct {
	want string
	art  string
	err  error
}

type linkMsg struct {
	key     string
	links   utils.Links
	copyErr error
	err     error
}

// resizeFrameMsg applies the drag moves buffered since the last frame.
type resizeFrameMsg struct{}
