package store

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestEventRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	e := &Event{
		Kind:     KindAction,
		Action:   "toggle-music",
		Detector: "open-hand-toggle",
		ActorID:  7,
		FrameTS:  160000,
	}
	if err := repo.Create(e); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := uuid.Parse(e.ID); err != nil {
		t.Errorf("expected a UUID id, got %q", e.ID)
	}
	if e.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	got, err := repo.GetByID(e.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	opt := cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) })
	if diff := cmp.Diff(e, got, opt); diff != "" {
		t.Errorf("event mismatch (-want +got):\n%s", diff)
	}
}

func TestEventRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Events().GetByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEventRepository_SetResult(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	e := &Event{Kind: KindAction, Action: "mute", ActorID: 1}
	if err := repo.Create(e); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.SetResult(e.ID, false, "no mixer"); err != nil {
		t.Fatalf("SetResult() error = %v", err)
	}
	got, err := repo.GetByID(e.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Success || got.Error != "no mixer" {
		t.Errorf("unexpected result fields: %+v", got)
	}

	if err := repo.SetResult(e.ID, true, ""); err != nil {
		t.Fatalf("SetResult() error = %v", err)
	}
	got, _ = repo.GetByID(e.ID)
	if !got.Success || got.Error != "" {
		t.Errorf("unexpected result fields: %+v", got)
	}

	if err := repo.SetResult("missing", true, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEventRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []*Event{
		{Kind: KindAcquired, ActorID: 1, CreatedAt: base},
		{Kind: KindAction, Action: "toggle-music", ActorID: 1, CreatedAt: base.Add(time.Second)},
		{Kind: KindAction, Action: "volume-up", ActorID: 1, CreatedAt: base.Add(2 * time.Second)},
		{Kind: KindAction, Action: "volume-up", ActorID: 1, CreatedAt: base.Add(3 * time.Second)},
	}
	for _, e := range events {
		if err := repo.Create(e); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	t.Run("all kinds newest first", func(t *testing.T) {
		got, err := repo.List("", 10)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		var ids []string
		for _, e := range got {
			ids = append(ids, e.ID)
		}
		want := []string{events[3].ID, events[2].ID, events[1].ID, events[0].ID}
		if diff := cmp.Diff(want, ids); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("filtered by kind", func(t *testing.T) {
		got, err := repo.List(KindAcquired, 10)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(got) != 1 || got[0].ID != events[0].ID {
			t.Errorf("expected only the acquired event, got %d events", len(got))
		}
	})

	t.Run("limit", func(t *testing.T) {
		got, err := repo.List("", 2)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(got) != 2 {
			t.Errorf("expected 2 events, got %d", len(got))
		}
	})

	t.Run("counts per action", func(t *testing.T) {
		counts, err := repo.CountByAction()
		if err != nil {
			t.Fatalf("CountByAction() error = %v", err)
		}
		want := map[string]int{"toggle-music": 1, "volume-up": 2}
		if diff := cmp.Diff(want, counts); diff != "" {
			t.Errorf("counts mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("delete before", func(t *testing.T) {
		n, err := repo.DeleteBefore(base.Add(1500 * time.Millisecond))
		if err != nil {
			t.Fatalf("DeleteBefore() error = %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 deleted events, got %d", n)
		}
		got, _ := repo.List("", 10)
		if len(got) != 2 {
			t.Errorf("expected 2 remaining events, got %d", len(got))
		}
	})
}

func TestEventRepository_List_Empty(t *testing.T) {
	s := newTestStore(t)
	got, err := s.Events().List("", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected an empty, non-nil list, got %v", got)
	}
}
