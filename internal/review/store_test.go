package review

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	clock := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return store
}

func addComment(t *testing.T, s *Store, key, author, body string, timecode float64) Comment {
	t.Helper()
	c, err := NewComment(key, author, body, timecode)
	require.NoError(t, err)
	c, err = s.Add(context.Background(), c)
	require.NoError(t, err)
	return c
}

func TestStore_AddAndList(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first := addComment(t, s, "clips/intro.mp4", "ana", "Colour is off here", 12.5)
	addComment(t, s, "clips/intro.mp4", "ben", "Agreed", NoTimecode)
	addComment(t, s, "stills/poster.png", "ana", "Crop tighter", NoTimecode)

	thread, err := s.List(ctx, "clips/intro.mp4")
	require.NoError(t, err)
	require.Len(t, thread, 2)

	assert.Equal(t, first.ID, thread[0].ID)
	assert.Equal(t, "Colour is off here", thread[0].Body)
	assert.InDelta(t, 12.5, thread[0].Timecode, 1e-9)
	assert.True(t, thread[0].HasTimecode())
	assert.False(t, thread[1].HasTimecode())
	assert.True(t, thread[0].CreatedAt.Before(thread[1].CreatedAt))

	empty, err := s.List(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStore_ResolveAndCounts(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	c := addComment(t, s, "a.mov", "ana", "one", NoTimecode)
	addComment(t, s, "a.mov", "ana", "two", NoTimecode)
	addComment(t, s, "b.mov", "ana", "three", NoTimecode)

	require.NoError(t, s.SetResolved(ctx, c.ID, true))

	got, err := s.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.Resolved)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{Total: 2, Open: 1}, counts["a.mov"])
	assert.Equal(t, Counts{Total: 1, Open: 1}, counts["b.mov"])

	require.NoError(t, s.SetResolved(ctx, c.ID, false))
	counts, err = s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts["a.mov"].Open)
}

func TestStore_MissingCommentsReportNotFound(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.SetResolved(ctx, "nope", true), ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "nope"), ErrNotFound)
}

func TestStore_GetByShortID(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	saved := addComment(t, s, "clips/intro.mp4", "ana", "Colour is off here", 12.5)

	got, err := s.Get(ctx, saved.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)

	require.NoError(t, s.SetResolved(ctx, got.ID, true))
	got, err = s.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, got.Resolved)
}

func TestStore_GetRejectsAmbiguousPrefix(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"abc11111-0000", "abc22222-0000", "abc1"} {
		c, err := NewComment("clips/intro.mp4", "ana", "note "+id, NoTimecode)
		require.NoError(t, err)
		c.ID = id
		_, err = s.Add(ctx, c)
		require.NoError(t, err)
	}

	tests := []struct {
		prefix string
		wantID string
		err    error
	}{
		{"abc2", "abc22222-0000", nil},
		{"abc1", "abc1", nil}, // exact match wins over longer IDs sharing the prefix
		{"abc11", "abc11111-0000", nil},
		{"abc", "", ErrAmbiguousID},
		{"ab%", "", ErrNotFound},
		{"a_c", "", ErrNotFound},
		{"  ", "", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got, err := s.Get(ctx, tt.prefix)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestStore_DeleteForAsset(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	c := addComment(t, s, "a.mov", "ana", "one", NoTimecode)
	addComment(t, s, "a.mov", "ben", "two", NoTimecode)
	keep := addComment(t, s, "b.mov", "ana", "three", NoTimecode)

	require.NoError(t, s.Delete(ctx, c.ID))

	n, err := s.DeleteForAsset(ctx, "a.mov")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = s.Get(ctx, keep.ID)
	assert.NoError(t, err)
}

func TestNewComment_Validates(t *testing.T) {
	_, err := NewComment("", "ana", "body", 0)
	assert.Error(t, err)

	_, err = NewComment("a.mov", "ana", "   ", 0)
	assert.Error(t, err)

	c, err := NewComment(" a.mov ", "", " hi ", -4)
	require.NoError(t, err)
	assert.Equal(t, "a.mov", c.AssetKey)
	assert.Equal(t, "hi", c.Body)
	assert.Equal(t, "anonymous", c.Author)
	assert.Equal(t, NoTimecode, c.Timecode)
	assert.Len(t, c.ID, 36)
}

func TestTimecodes(t *testing.T) {
	tests := []struct {
		in      string
		seconds float64
		display string
	}{
		{"0", 0, "0:00"},
		{"90", 90, "1:30"},
		{"1:30", 90, "1:30"},
		{"12.5", 12.5, "0:12"},
		{"1:02:03", 3723, "1:02:03"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimecode(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.seconds, got, 1e-9)
			assert.Equal(t, tt.display, FormatTimecode(got))
		})
	}

	for _, bad := range []string{"abc", "1:75", "-3", "1:2:3:4"} {
		_, err := ParseTimecode(bad)
		assert.Error(t, err, bad)
	}

	got, err := ParseTimecode("")
	require.NoError(t, err)
	assert.Equal(t, NoTimecode, got)
	assert.Equal(t, "--:--", FormatTimecode(NoTimecode))
}

func TestPermissions(t *testing.T) {
	role, err := ParseRole(" Editor ")
	require.NoError(t, err)
	assert.Equal(t, RoleEditor, role)

	_, err = ParseRole("admin")
	assert.ErrorContains(t, err, "unknown role")

	assert.True(t, RoleOwner.Can(PermDeleteAsset))
	assert.False(t, RoleEditor.Can(PermDeleteAsset))
	assert.True(t, RoleReviewer.Can(PermResolve))
	assert.False(t, RoleReviewer.Can(PermShare))
	assert.False(t, RoleViewer.Can(PermComment))

	viewer := Actor{Name: "vic", Role: RoleViewer}
	assert.ErrorIs(t, viewer.Require(PermComment), ErrPermission)
	assert.NoError(t, Actor{Role: RoleOwner}.Require(PermUpload))

	mine := Comment{Author: "ana"}
	theirs := Comment{Author: "ben"}
	reviewer := Actor{Name: "ana", Role: RoleReviewer}
	assert.True(t, reviewer.CanDelete(mine))
	assert.False(t, reviewer.CanDelete(theirs))
	assert.True(t, Actor{Name: "olga", Role: RoleOwner}.CanDelete(theirs))
	assert.False(t, Actor{Name: "ben", Role: RoleViewer}.CanDelete(theirs))
}
