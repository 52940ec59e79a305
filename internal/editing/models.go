package editing

import (
	"time"

	"cutlist-editor/internal/cutlist"
)

// MediaID uniquely identifies a recorded media item.
type MediaID string

// CutList is a confirmed cut list as persisted by a Store.
// This also matches the JSON payload exchanged with the store backends.
type CutList struct {
	MediaID   MediaID            `json:"media_id"`
	Duration  int64              `json:"duration"`
	Segments  []cutlist.Segment  `json:"segments"`
	Thumbnail *cutlist.Thumbnail `json:"thumbnail,omitempty"`
	SavedBy   string             `json:"saved_by,omitempty"`
	SavedAt   time.Time          `json:"saved_at"`
}

// SessionState is the in-memory state of one editing session.
type SessionState struct {
	MediaID   MediaID
	Model     cutlist.Model
	Tracker   *cutlist.ChangeTracker
	Thumbnail *cutlist.Thumbnail
	OpenedAt  time.Time
}

// Snapshot is a consistent copy of a session taken under the repository
// lock, together with the outcome of the edit that produced it.
type Snapshot struct {
	MediaID          MediaID
	Model            cutlist.Model
	Dirty            bool
	Thumbnail        *cutlist.Thumbnail
	ThumbnailChanged bool
	Events           []cutlist.Event
	OpenedAt         time.Time
}

// OpenRequest is the input for starting an editing session.
// This also matches the JSON body of POST /sessions/{media_id}.
type OpenRequest struct {
	Duration  int64              `json:"duration"`
	Segments  []cutlist.Segment  `json:"segments"`
	Thumbnail *cutlist.Thumbnail `json:"thumbnail,omitempty"`
}

func copyThumbnail(t *cutlist.Thumbnail) *cutlist.Thumbnail {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
