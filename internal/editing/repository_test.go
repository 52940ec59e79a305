package editing

import (
	"errors"
	"sync"
	"testing"

	"cutlist-editor/internal/cutlist"
)

func threeSegmentModel(t *testing.T) cutlist.Model {
	t.Helper()
	m, err := cutlist.NewModel(30000, []cutlist.Segment{
		{Start: 0, End: 10000},
		{Start: 10000, End: 20000},
		{Start: 20000, End: 30000},
	})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return m
}

func TestInMemoryRepository_Open(t *testing.T) {
	repo := NewInMemoryRepository()
	id := MediaID("m1")

	t.Run("success", func(t *testing.T) {
		snap, err := repo.Open(id, threeSegmentModel(t), nil, 0)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if snap.Dirty || snap.Model.Len() != 3 || snap.OpenedAt.IsZero() {
			t.Errorf("unexpected snapshot: %+v", snap)
		}
	})

	t.Run("already_open", func(t *testing.T) {
		_, err := repo.Open(id, threeSegmentModel(t), nil, 0)
		if !errors.Is(err, ErrSessionExists) {
			t.Errorf("expected ErrSessionExists, got %v", err)
		}
	})

	if repo.ActiveSessionCount() != 1 {
		t.Errorf("expected 1 session, got %d", repo.ActiveSessionCount())
	}
}

func TestInMemoryRepository_Open_limit(t *testing.T) {
	repo := NewInMemoryRepository()
	if _, err := repo.Open("a", threeSegmentModel(t), nil, 1); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := repo.Open("b", threeSegmentModel(t), nil, 1); !errors.Is(err, ErrTooManySessions) {
		t.Errorf("expected ErrTooManySessions, got %v", err)
	}
	if _, err := repo.Open("a", threeSegmentModel(t), nil, 1); !errors.Is(err, ErrSessionExists) {
		t.Errorf("expected ErrSessionExists, got %v", err)
	}
	if repo.ActiveSessionCount() != 1 {
		t.Errorf("expected 1 session, got %d", repo.ActiveSessionCount())
	}
}

func TestInMemoryRepository_Apply(t *testing.T) {
	repo := NewInMemoryRepository()
	id := MediaID("m1")
	_, _ = repo.Open(id, threeSegmentModel(t), nil, 0)

	t.Run("applies_and_marks_dirty", func(t *testing.T) {
		snap, err := repo.Apply(id, cutlist.Edit{Op: cutlist.OpToggle, Index: 1})
		if err != nil {
			t.Fatalf("Apply: %v", err)
		}
		if !snap.Dirty || !snap.Model.Segments[1].Deleted {
			t.Errorf("expected dirty toggled model: %+v", snap)
		}
		if len(snap.Events) != 1 || snap.Events[0].Kind != cutlist.EventSegmentToggled {
			t.Errorf("expected toggle event, got %v", snap.Events)
		}
	})

	t.Run("rejected_edit_leaves_state", func(t *testing.T) {
		before, _ := repo.Snapshot(id)
		_, err := repo.Apply(id, cutlist.Edit{Op: cutlist.OpStartTime, Index: 2, Millis: 99999})
		if !errors.Is(err, cutlist.ErrOutOfRange) {
			t.Fatalf("expected ErrOutOfRange, got %v", err)
		}
		after, _ := repo.Snapshot(id)
		if len(after.Model.Segments) != len(before.Model.Segments) || after.Model.Segments[2] != before.Model.Segments[2] {
			t.Errorf("rejected edit changed state: %+v -> %+v", before.Model, after.Model)
		}
	})

	t.Run("restoring_clears_dirty", func(t *testing.T) {
		snap, err := repo.Apply(id, cutlist.Edit{Op: cutlist.OpToggle, Index: 1})
		if err != nil {
			t.Fatalf("Apply: %v", err)
		}
		if snap.Dirty {
			t.Error("model equal to baseline should not be dirty")
		}
	})

	t.Run("missing_session", func(t *testing.T) {
		_, err := repo.Apply("nope", cutlist.Edit{Op: cutlist.OpToggle})
		if !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestInMemoryRepository_thumbnailTracking(t *testing.T) {
	repo := NewInMemoryRepository()
	thumb := &cutlist.Thumbnail{Type: cutlist.ThumbnailDefault, DefaultPosition: 12, Position: 12}
	snap, err := repo.Open("m1", threeSegmentModel(t), thumb, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if snap.ThumbnailChanged {
		t.Error("thumbnail already in place on open")
	}

	snap, err = repo.Apply("m1", cutlist.Edit{Op: cutlist.OpToggle, Index: 0})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !snap.ThumbnailChanged || snap.Thumbnail.Position != 22 {
		t.Errorf("expected thumbnail moved to 22s, got %+v changed=%v", snap.Thumbnail, snap.ThumbnailChanged)
	}
	if thumb.Position != 12 {
		t.Error("caller's thumbnail must not be modified")
	}

	snap, _ = repo.Apply("m1", cutlist.Edit{Op: cutlist.OpSelect, Index: 1})
	if snap.ThumbnailChanged {
		t.Error("selection does not move the thumbnail")
	}
}

func TestInMemoryRepository_Rebase(t *testing.T) {
	repo := NewInMemoryRepository()
	_, _ = repo.Open("m1", threeSegmentModel(t), nil, 0)
	snap, _ := repo.Apply("m1", cutlist.Edit{Op: cutlist.OpMerge, Index: 1})
	if !snap.Dirty {
		t.Fatal("merge should mark dirty")
	}

	snap, err := repo.Rebase("m1", snap.Model)
	if err != nil {
		t.Fatalf("Rebase: %v", err)
	}
	if snap.Dirty {
		t.Error("rebased session should be clean")
	}

	if _, err := repo.Rebase("nope", snap.Model); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestInMemoryRepository_Close(t *testing.T) {
	repo := NewInMemoryRepository()
	_, _ = repo.Open("b", threeSegmentModel(t), nil, 0)
	_, _ = repo.Open("a", threeSegmentModel(t), nil, 0)

	if ids := repo.ListSessions(); len(ids) != 2 || ids[0] != "a" {
		t.Errorf("ListSessions: %v", ids)
	}
	if !repo.Close("a") {
		t.Error("Close of open session should report true")
	}
	if repo.Close("a") {
		t.Error("second Close should be a no-op")
	}
	if _, ok := repo.Snapshot("a"); ok {
		t.Error("closed session should not be found")
	}
	if repo.ActiveSessionCount() != 1 {
		t.Errorf("expected 1 session, got %d", repo.ActiveSessionCount())
	}
}

func TestInMemoryRepository_concurrentEdits(t *testing.T) {
	repo := NewInMemoryRepository()
	m, err := cutlist.SingleSegment(100000)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = repo.Open("m1", m, nil, 0)

	var wg sync.WaitGroup
	for i := 1; i < 50; i++ {
		wg.Add(1)
		go func(pos int64) {
			defer wg.Done()
			_, _ = repo.Apply("m1", cutlist.Edit{Op: cutlist.OpSplit, Millis: pos})
		}(int64(i) * 1000)
	}
	wg.Wait()

	snap, _ := repo.Snapshot("m1")
	if snap.Model.Len() != 50 {
		t.Errorf("expected 50 segments after 49 splits, got %d", snap.Model.Len())
	}
	if err := snap.Model.Validate(); err != nil {
		t.Errorf("model invalid after concurrent edits: %v", err)
	}
}
