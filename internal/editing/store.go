package editing

import (
	"context"
	"sort"
	"sync"

	"cutlist-editor/internal/cutlist"
)

// Store is the persistence abstraction for confirmed cut lists.
// Implementations can be in-memory or PostgreSQL-backed; the Service uses
// Store for all saves and resumes and does not need to know which is used.
type Store interface {
	GetCutList(ctx context.Context, id MediaID) (CutList, bool, error)
	SaveCutList(ctx context.Context, cl CutList) error
	ListMediaIDs(ctx context.Context) ([]MediaID, error)
}

// InMemoryStore is an in-memory implementation of Store.
type InMemoryStore struct {
	mu    sync.RWMutex
	lists map[MediaID]CutList
}

// NewInMemoryStore returns a new empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		lists: make(map[MediaID]CutList),
	}
}

// GetCutList implements Store.GetCutList.
func (s *InMemoryStore) GetCutList(_ context.Context, id MediaID) (CutList, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cl, ok := s.lists[id]
	if !ok {
		return CutList{}, false, nil
	}
	return copyCutList(cl), true, nil
}

// SaveCutList implements Store.SaveCutList. Saving replaces any earlier list.
func (s *InMemoryStore) SaveCutList(_ context.Context, cl CutList) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lists[cl.MediaID] = copyCutList(cl)
	return nil
}

// ListMediaIDs implements Store.ListMediaIDs.
func (s *InMemoryStore) ListMediaIDs(_ context.Context) ([]MediaID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]MediaID, 0, len(s.lists))
	for id := range s.lists {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func copyCutList(cl CutList) CutList {
	out := cl
	out.Segments = append([]cutlist.Segment(nil), cl.Segments...)
	out.Thumbnail = copyThumbnail(cl.Thumbnail)
	return out
}
