package editing

import (
	"cutlist-editor/internal/cutlist"
)

// SegmentView is a segment as shown to a host UI, with HH:MM:SS.mmm labels.
type SegmentView struct {
	Index     int    `json:"index"`
	Start     int64  `json:"start"`
	End       int64  `json:"end"`
	Deleted   bool   `json:"deleted"`
	Selected  bool   `json:"selected"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// SessionView is the JSON body returned for a session.
type SessionView struct {
	MediaID          string             `json:"media_id"`
	Duration         int64              `json:"duration"`
	KeptDuration     int64              `json:"kept_duration"`
	Segments         []SegmentView      `json:"segments"`
	Dirty            bool               `json:"dirty"`
	Thumbnail        *cutlist.Thumbnail `json:"thumbnail,omitempty"`
	ThumbnailChanged bool               `json:"thumbnail_changed"`
	Events           []cutlist.Event    `json:"events"`
}

// BuildSessionView converts a snapshot into its response body. Events is
// always a list, empty when the request did not change anything.
func BuildSessionView(snap Snapshot) SessionView {
	segs := make([]SegmentView, 0, snap.Model.Len())
	for i, s := range snap.Model.Segments {
		segs = append(segs, SegmentView{
			Index:     i,
			Start:     s.Start,
			End:       s.End,
			Deleted:   s.Deleted,
			Selected:  s.Selected,
			StartTime: cutlist.FormatTimestamp(float64(s.Start)),
			EndTime:   cutlist.FormatTimestamp(float64(s.End)),
		})
	}

	events := snap.Events
	if events == nil {
		events = []cutlist.Event{}
	}

	return SessionView{
		MediaID:          string(snap.MediaID),
		Duration:         snap.Model.Duration,
		KeptDuration:     snap.Model.KeptDuration(),
		Segments:         segs,
		Dirty:            snap.Dirty,
		Thumbnail:        snap.Thumbnail,
		ThumbnailChanged: snap.ThumbnailChanged,
		Events:           events,
	}
}
