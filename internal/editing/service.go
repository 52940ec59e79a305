package editing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cutlist-editor/internal/cutlist"
)

// DefaultMaxSessions is the default limit of concurrently open sessions.
const DefaultMaxSessions = 1000

var (
	// ErrCutListNotFound is returned when resuming a media item that has no
	// stored cut list and no duration to start a fresh one from.
	ErrCutListNotFound = errors.New("cut list not found")

	// ErrTooManySessions is returned when the open session limit is reached.
	ErrTooManySessions = errors.New("too many open sessions")
)

// Service applies editing-session logic and delegates session state to a
// Repository and confirmed cut lists to a Store.
type Service struct {
	repo        Repository
	store       Store
	maxSessions int
	now         func() time.Time
}

// NewService returns a Service that keeps at most maxSessions sessions open.
// If maxSessions <= 0, DefaultMaxSessions is used.
func NewService(repo Repository, store Store, maxSessions int) *Service {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &Service{
		repo:        repo,
		store:       store,
		maxSessions: maxSessions,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// OpenSession starts editing id. When req carries no segments the stored cut
// list is resumed; without a stored list, a positive req.Duration starts from
// a single active segment over the whole recording.
func (s *Service) OpenSession(ctx context.Context, id MediaID, req OpenRequest) (Snapshot, error) {
	// Early exit before store I/O; repo.Open enforces the limit.
	if s.repo.ActiveSessionCount() >= s.maxSessions {
		return Snapshot{}, ErrTooManySessions
	}
	if _, open := s.repo.Snapshot(id); open {
		return Snapshot{}, ErrSessionExists
	}

	model, thumb, err := s.initialModel(ctx, id, req)
	if err != nil {
		return Snapshot{}, err
	}
	return s.repo.Open(id, model, thumb, s.maxSessions)
}

func (s *Service) initialModel(ctx context.Context, id MediaID, req OpenRequest) (cutlist.Model, *cutlist.Thumbnail, error) {
	if len(req.Segments) > 0 {
		m, err := cutlist.NewModel(req.Duration, req.Segments)
		return m, req.Thumbnail, err
	}

	cl, ok, err := s.store.GetCutList(ctx, id)
	if err != nil {
		return cutlist.Model{}, nil, fmt.Errorf("resume %s: %w", id, err)
	}
	if ok {
		thumb := req.Thumbnail
		if thumb == nil {
			thumb = cl.Thumbnail
		}
		m, err := cutlist.NewModel(cl.Duration, cl.Segments)
		return m, thumb, err
	}
	if req.Duration > 0 {
		m, err := cutlist.SingleSegment(req.Duration)
		return m, req.Thumbnail, err
	}
	return cutlist.Model{}, nil, ErrCutListNotFound
}

// Session returns the current state of the session for id.
func (s *Service) Session(id MediaID) (Snapshot, bool) {
	return s.repo.Snapshot(id)
}

// ApplyEdit applies one edit to the session for id.
func (s *Service) ApplyEdit(id MediaID, edit cutlist.Edit) (Snapshot, error) {
	return s.repo.Apply(id, edit)
}

// Save persists the session's current cut list and makes it the session's
// new baseline. Selection flags are not persisted. A session closed while the
// save is in flight still reports the persisted state.
func (s *Service) Save(ctx context.Context, id MediaID, savedBy string) (Snapshot, error) {
	snap, ok := s.repo.Snapshot(id)
	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}

	segs := snap.Model.Records()
	for i := range segs {
		segs[i].Selected = false
	}
	cl := CutList{
		MediaID:   id,
		Duration:  snap.Model.Duration,
		Segments:  segs,
		Thumbnail: snap.Thumbnail,
		SavedBy:   savedBy,
		SavedAt:   s.now(),
	}
	if err := s.store.SaveCutList(ctx, cl); err != nil {
		return Snapshot{}, fmt.Errorf("save %s: %w", id, err)
	}

	rebased, err := s.repo.Rebase(id, snap.Model)
	if errors.Is(err, ErrSessionNotFound) {
		// Closed while saving. The cut list is persisted, so report it saved.
		snap.Dirty = false
		snap.Events = nil
		return snap, nil
	}
	return rebased, err
}

// CloseSession discards the session for id without saving.
func (s *Service) CloseSession(id MediaID) bool {
	return s.repo.Close(id)
}

// CutList returns the stored cut list for id.
func (s *Service) CutList(ctx context.Context, id MediaID) (CutList, bool, error) {
	return s.store.GetCutList(ctx, id)
}

// CutListIDs returns the media items that have a stored cut list.
func (s *Service) CutListIDs(ctx context.Context) ([]MediaID, error) {
	return s.store.ListMediaIDs(ctx)
}

// ActiveSessionCount returns the number of open sessions.
func (s *Service) ActiveSessionCount() int {
	return s.repo.ActiveSessionCount()
}
