// Package review stores the comment threads attached to assets and decides
// who may change them.
package review

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a comment does not exist.
	ErrNotFound = errors.New("comment not found")
	// ErrPermission is returned when the actor's role does not allow an action.
	ErrPermission = errors.New("permission denied")
	// ErrAmbiguousID is returned when a short ID matches more than one comment.
	ErrAmbiguousID = errors.New("ambiguous comment id")
)

// NoTimecode marks a comment that is not pinned to a playback position.
const NoTimecode = -1.0

// Comment is one note in an asset's review thread.
type Comment struct {
	ID        string
	AssetKey  string
	Author    string
	Body      string
	Timecode  float64
	Resolved  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasTimecode reports whether the comment points at a playback position.
func (c Comment) HasTimecode() bool {
	return c.Timecode >= 0
}

// NewComment builds a comment with a fresh ID. A negative timecode means none.
func NewComment(assetKey, author, body string, timecode float64) (Comment, error) {
	assetKey = strings.TrimSpace(assetKey)
	body = strings.TrimSpace(body)
	if assetKey == "" {
		return Comment{}, errors.New("asset key is required")
	}
	if body == "" {
		return Comment{}, errors.New("comment body is empty")
	}
	if timecode < 0 || math.IsNaN(timecode) {
		timecode = NoTimecode
	}
	if strings.TrimSpace(author) == "" {
		author = "anonymous"
	}

	return Comment{
		ID:       uuid.NewString(),
		AssetKey: assetKey,
		Author:   author,
		Body:     body,
		Timecode: timecode,
	}, nil
}

// FormatTimecode renders seconds as m:ss, or h:mm:ss past the hour.
func FormatTimecode(seconds float64) string {
	if seconds < 0 {
		return "--:--"
	}
	total := int(seconds)
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// ParseTimecode accepts plain seconds ("90", "12.5") or clock notation ("1:30", "1:02:03").
func ParseTimecode(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NoTimecode, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid timecode %q", s)
	}

	total := 0.0
	for i, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid timecode %q", s)
		}
		if i > 0 && v >= 60 {
			return 0, fmt.Errorf("invalid timecode %q", s)
		}
		total = total*60 + v
	}
	return total, nil
}
