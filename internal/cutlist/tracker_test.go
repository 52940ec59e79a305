package cutlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeTracker_HasUnsavedChanges(t *testing.T) {
	m := threeActive(t)
	tr := NewChangeTracker(m)
	assert.False(t, tr.HasUnsavedChanges(m), "clean right after snapshot")

	toggled, _, err := ToggleDeleted(m, 0)
	require.NoError(t, err)
	assert.True(t, tr.HasUnsavedChanges(toggled))

	restored, _, err := ToggleDeleted(toggled, 0)
	require.NoError(t, err)
	assert.False(t, tr.HasUnsavedChanges(restored), "restoring the snapshot clears the flag")

	moved, _, err := UpdateEndTime(m, 0, 11)
	require.NoError(t, err)
	assert.True(t, tr.HasUnsavedChanges(moved))

	merged, _, err := MergeWithNeighbor(m, 2)
	require.NoError(t, err)
	assert.True(t, tr.HasUnsavedChanges(merged))

	selected, _, err := Select(m, 1)
	require.NoError(t, err)
	assert.False(t, tr.HasUnsavedChanges(selected), "selection is not a change")
}

func TestChangeTracker_snapshotIsolated(t *testing.T) {
	m := threeActive(t)
	tr := NewChangeTracker(m)
	m.Segments[0].Deleted = true
	assert.False(t, tr.Original().Segments[0].Deleted)

	tr.Rebase(m)
	assert.False(t, tr.HasUnsavedChanges(m))
}

func TestDefaultThumbnailPosition(t *testing.T) {
	m := mustModel(t, 30000, seg(0, 10000, true), seg(10000, 20000, false), seg(20000, 30000, false))

	pos, ok := DefaultThumbnailPosition(m, 4)
	require.True(t, ok)
	assert.InDelta(t, 14.0, pos, 1e-9)

	pos, _ = DefaultThumbnailPosition(m, 12)
	assert.InDelta(t, 22.0, pos, 1e-9)

	pos, _ = DefaultThumbnailPosition(m, 10)
	assert.InDelta(t, 20.0, pos, 1e-9, "boundary belongs to the next active segment")

	pos, _ = DefaultThumbnailPosition(m, 50)
	assert.InDelta(t, 30.0, pos, 1e-9, "past the kept duration")
}

func TestChangeTracker_DefaultThumbnailPositionChanged(t *testing.T) {
	m := mustModel(t, 30000, seg(0, 10000, false), seg(10000, 20000, false), seg(20000, 30000, false))
	tr := NewChangeTracker(m)
	thumb := &Thumbnail{Type: ThumbnailDefault, DefaultPosition: 12, Position: 12}

	assert.False(t, tr.DefaultThumbnailPositionChanged(m, thumb))

	cut, _, err := ToggleDeleted(m, 0)
	require.NoError(t, err)
	assert.True(t, tr.DefaultThumbnailPositionChanged(cut, thumb))
	assert.InDelta(t, 22.0, thumb.Position, 1e-9)
	assert.False(t, tr.DefaultThumbnailPositionChanged(cut, thumb), "already repositioned")

	thumb.Position = 22.0005
	assert.False(t, tr.DefaultThumbnailPositionChanged(cut, thumb), "within epsilon")

	upload := &Thumbnail{Type: ThumbnailUpload, DefaultPosition: 12, Position: 0}
	assert.False(t, tr.DefaultThumbnailPositionChanged(cut, upload))
	assert.Zero(t, upload.Position)
	assert.False(t, tr.DefaultThumbnailPositionChanged(cut, nil))
}
