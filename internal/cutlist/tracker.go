package cutlist

import "math"

// ThumbnailType says where a recording's thumbnail comes from.
type ThumbnailType string

const (
	ThumbnailDefault  ThumbnailType = "DEFAULT"
	ThumbnailUpload   ThumbnailType = "UPLOAD"
	ThumbnailSnapshot ThumbnailType = "SNAPSHOT"
)

// thumbnailEpsilon is the smallest position change, in seconds, that counts.
const thumbnailEpsilon = 0.001

// Thumbnail describes the still image shown for a recording. DefaultPosition
// is measured on the cut timeline and Position on the original one, both in
// seconds.
type Thumbnail struct {
	Type            ThumbnailType `json:"type" yaml:"type"`
	DefaultPosition float64       `json:"defaultPosition" yaml:"defaultPosition"`
	Position        float64       `json:"position" yaml:"position"`
}

// ChangeTracker remembers the cut list an editing session started from.
type ChangeTracker struct {
	original Model
}

// NewChangeTracker snapshots original.
func NewChangeTracker(original Model) *ChangeTracker {
	return &ChangeTracker{original: original.Clone()}
}

// Original returns a copy of the snapshot.
func (t *ChangeTracker) Original() Model {
	return t.original.Clone()
}

// Rebase replaces the snapshot, typically after the cut list was saved.
func (t *ChangeTracker) Rebase(current Model) {
	t.original = current.Clone()
}

// HasUnsavedChanges reports whether current differs from the snapshot in
// segment count or in any segment's start, end or deleted flag.
func (t *ChangeTracker) HasUnsavedChanges(current Model) bool {
	return !sameCut(current.Segments, t.original.Segments)
}

func sameCut(a, b []Segment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Start != b[i].Start || a[i].End != b[i].End || a[i].Deleted != b[i].Deleted {
			return false
		}
	}
	return true
}

// DefaultThumbnailPositionChanged recomputes where a DEFAULT thumbnail falls
// on the original timeline of current. When the result moved by more than a
// millisecond it stores the new Position in thumb and returns true.
func (t *ChangeTracker) DefaultThumbnailPositionChanged(current Model, thumb *Thumbnail) bool {
	if thumb == nil || thumb.Type != ThumbnailDefault {
		return false
	}
	pos, ok := DefaultThumbnailPosition(current, thumb.DefaultPosition)
	if !ok {
		return false
	}
	if math.Abs(pos-thumb.Position) <= thumbnailEpsilon {
		return false
	}
	thumb.Position = pos
	return true
}

// DefaultThumbnailPosition maps a position on the cut timeline (seconds) to
// the original timeline (seconds). Positions past the kept duration land at
// the end of the last active segment.
func DefaultThumbnailPosition(m Model, defaultPosition float64) (float64, bool) {
	defaultPosition = math.Max(defaultPosition, 0)
	var accumulated float64
	last := -1
	for i, s := range m.Segments {
		if s.Deleted {
			continue
		}
		start := float64(s.Start) / 1000
		length := float64(s.Length()) / 1000
		if accumulated+length > defaultPosition {
			return start + (defaultPosition - accumulated), true
		}
		accumulated += length
		last = i
	}
	if last < 0 {
		return 0, false
	}
	return float64(m.Segments[last].End) / 1000, true
}
