package editing

import (
	"errors"
	"sort"
	"sync"
	"time"

	"cutlist-editor/internal/cutlist"
)

// Repository defines the concurrency-safe contract for accessing and mutating
// in-memory editing sessions.
type Repository interface {
	// Open starts a session for id from model. The model becomes the
	// session's unsaved-changes baseline.
	// If a session for id is already open, ErrSessionExists is returned. If
	// limit > 0 and limit sessions are already open, ErrTooManySessions is
	// returned.
	Open(id MediaID, model cutlist.Model, thumb *cutlist.Thumbnail, limit int) (Snapshot, error)

	// Snapshot returns a copy of the session. The ok return is false if no
	// session is open for id.
	Snapshot(id MediaID) (snap Snapshot, ok bool)

	// Apply runs edit against the session's current model. The edit is applied
	// completely or not at all; a rejected edit leaves the session untouched
	// and its error is returned as is.
	Apply(id MediaID, edit cutlist.Edit) (Snapshot, error)

	// Rebase makes saved the session's new unsaved-changes baseline.
	Rebase(id MediaID, saved cutlist.Model) (Snapshot, error)

	// Close discards the session. Closing a session that is not open is a no-op.
	Close(id MediaID) bool

	// ActiveSessionCount returns the number of open sessions.
	// Used for metrics.
	ActiveSessionCount() int

	// ListSessions returns the ids of open sessions, sorted.
	ListSessions() []MediaID
}

var (
	// ErrSessionNotFound is returned when no session is open for a media item.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExists is returned when opening a session that is already open.
	ErrSessionExists = errors.New("session already open")
)

// InMemoryRepository is a concurrency-safe in-memory implementation of Repository.
type InMemoryRepository struct {
	mu       sync.RWMutex
	sessions map[MediaID]*SessionState
	now      func() time.Time
}

// NewInMemoryRepository constructs a new empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		sessions: make(map[MediaID]*SessionState),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Open implements Repository.Open.
func (r *InMemoryRepository) Open(id MediaID, model cutlist.Model, thumb *cutlist.Thumbnail, limit int) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[id]; exists {
		return Snapshot{}, ErrSessionExists
	}
	if limit > 0 && len(r.sessions) >= limit {
		return Snapshot{}, ErrTooManySessions
	}

	st := &SessionState{
		MediaID:   id,
		Model:     model.Clone(),
		Tracker:   cutlist.NewChangeTracker(model),
		Thumbnail: copyThumbnail(thumb),
		OpenedAt:  r.now(),
	}
	changed := st.Tracker.DefaultThumbnailPositionChanged(st.Model, st.Thumbnail)
	r.sessions[id] = st

	snap := snapshotLocked(st)
	snap.ThumbnailChanged = changed
	return snap, nil
}

// Snapshot implements Repository.Snapshot.
func (r *InMemoryRepository) Snapshot(id MediaID) (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.sessions[id]
	if !ok {
		return Snapshot{}, false
	}
	return snapshotLocked(st), true
}

// Apply implements Repository.Apply.
func (r *InMemoryRepository) Apply(id MediaID, edit cutlist.Edit) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.sessions[id]
	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}

	next, events, err := cutlist.Apply(st.Model, edit)
	if err != nil {
		return Snapshot{}, err
	}
	st.Model = next

	changed := false
	if len(events) > 0 {
		changed = st.Tracker.DefaultThumbnailPositionChanged(st.Model, st.Thumbnail)
	}

	snap := snapshotLocked(st)
	snap.Events = events
	snap.ThumbnailChanged = changed
	return snap, nil
}

// Rebase implements Repository.Rebase.
func (r *InMemoryRepository) Rebase(id MediaID, saved cutlist.Model) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.sessions[id]
	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}
	st.Tracker.Rebase(saved)
	return snapshotLocked(st), nil
}

// Close implements Repository.Close.
func (r *InMemoryRepository) Close(id MediaID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// ActiveSessionCount implements Repository.ActiveSessionCount.
func (r *InMemoryRepository) ActiveSessionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

// ListSessions implements Repository.ListSessions.
func (r *InMemoryRepository) ListSessions() []MediaID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]MediaID, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// snapshotLocked copies st so callers never share its slices.
// Caller must hold r.mu.
func snapshotLocked(st *SessionState) Snapshot {
	return Snapshot{
		MediaID:   st.MediaID,
		Model:     st.Model.Clone(),
		Dirty:     st.Tracker.HasUnsavedChanges(st.Model),
		Thumbnail: copyThumbnail(st.Thumbnail),
		OpenedAt:  st.OpenedAt,
	}
}
