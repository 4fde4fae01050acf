package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"taskflow/internal/domain"
)

func newTask(id string) domain.Task {
	return domain.Task{
		ID:        id,
		Title:     "task " + id,
		Priority:  domain.PriorityMedium,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func ids(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestTaskRepositoryInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository()
	for _, id := range []string{"a", "b", "c"} {
		if _, err := repo.Insert(ctx, newTask(id)); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}

	list, _ := repo.List(ctx)
	if got := fmt.Sprint(ids(list)); got != "[a b c]" {
		t.Fatalf("unexpected order %s", got)
	}

	// List hands out a copy
	list[0].Title = "mutated"
	again, _ := repo.List(ctx)
	if again[0].Title == "mutated" {
		t.Fatalf("List leaked internal storage")
	}

	if _, err := repo.Insert(ctx, newTask("b")); !errors.Is(err, domain.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestTaskRepositoryUpdateKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository()
	orig, _ := repo.Insert(ctx, newTask("a"))
	if orig.Revision != 1 {
		t.Fatalf("expected revision 1, got %d", orig.Revision)
	}

	updated, err := repo.Update(ctx, "a", func(cur domain.Task) (domain.Task, error) {
		cur.ID = "hijack"
		cur.CreatedAt = time.Now()
		cur.Title = "renamed"
		return cur, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.ID != "a" || !updated.CreatedAt.Equal(orig.CreatedAt) || updated.Title != "renamed" {
		t.Fatalf("unexpected update result %+v", updated)
	}
	if updated.Revision != 2 {
		t.Fatalf("expected revision 2, got %d", updated.Revision)
	}

	veto := errors.New("veto")
	if _, err := repo.Update(ctx, "a", func(domain.Task) (domain.Task, error) { return domain.Task{}, veto }); !errors.Is(err, veto) {
		t.Fatalf("expected veto error, got %v", err)
	}
	stored, _ := repo.Get(ctx, "a")
	if stored.Title != "renamed" || stored.Revision != 2 {
		t.Fatalf("vetoed update changed the record: %+v", stored)
	}

	if _, err := repo.Update(ctx, "missing", func(cur domain.Task) (domain.Task, error) { return cur, nil }); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskRepositoryRemove(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository()
	for _, id := range []string{"a", "b", "c"} {
		repo.Insert(ctx, newTask(id))
	}

	removed, err := repo.Remove(ctx, "b", nil)
	if err != nil || removed.ID != "b" {
		t.Fatalf("remove: %+v %v", removed, err)
	}
	if _, err := repo.Get(ctx, "b"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("removed task still readable")
	}
	// index must follow the shifted slice
	if c, err := repo.Get(ctx, "c"); err != nil || c.ID != "c" {
		t.Fatalf("lookup after removal broken: %+v %v", c, err)
	}

	if _, err := repo.Remove(ctx, "a", func(domain.Task) error { return domain.ErrConflict }); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected check error, got %v", err)
	}
	if repo.Len() != 2 {
		t.Fatalf("vetoed remove deleted the task")
	}
	if _, err := repo.Remove(ctx, "b", nil); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second remove, got %v", err)
	}
}

func TestTaskRepositoryConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository()
	repo.Insert(ctx, newTask("a"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			repo.Update(ctx, "a", func(cur domain.Task) (domain.Task, error) { return cur, nil })
		}()
	}
	wg.Wait()

	got, _ := repo.Get(ctx, "a")
	if got.Revision != 51 {
		t.Fatalf("expected 51 revisions, got %d", got.Revision)
	}
}
