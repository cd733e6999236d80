package session

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestInMemoryPutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	rec, err := s.Put(ctx, Record{Data: map[string]any{"pending_command": "open calculator"}})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if rec.ID == "" {
		t.Fatalf("Put() should assign an ID")
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Data["pending_command"] != "open calculator" {
		t.Fatalf("unexpected data: %+v", got.Data)
	}

	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

func TestInMemoryMissingIDs(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	if _, err := s.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
	if err := s.Touch(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Touch() error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestInMemoryPutPreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	first, err := s.Put(ctx, Record{ID: "s1"})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	second, err := s.Put(ctx, Record{ID: "s1", Data: map[string]any{"k": "v"}})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("CreatedAt changed on update: %v vs %v", second.CreatedAt, first.CreatedAt)
	}
}

func TestInMemoryGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	rec, _ := s.Put(ctx, Record{ID: "s1", Data: map[string]any{"k": "v"}})
	got, _ := s.Get(ctx, rec.ID)
	got.Data["k"] = "mutated"

	again, _ := s.Get(ctx, rec.ID)
	if again.Data["k"] != "v" {
		t.Fatalf("store data mutated through returned copy: %+v", again.Data)
	}
}

func TestInMemoryConcurrentDeletes(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Delete(ctx, "absent")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("Delete() #%d error = %v, want ErrNotFound", i, err)
		}
	}
}
