package repository

import (
	"context"
	"sync"

	"taskflow/internal/domain"
)

// TaskRepository is the in-memory task collection. Iteration order is
// insertion order; the index map enforces id uniqueness.
type TaskRepository struct {
	mu    sync.RWMutex
	tasks []domain.Task
	index map[string]int
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{index: make(map[string]int)}
}

// List returns a copy of all tasks in insertion order.
func (r *TaskRepository) List(_ context.Context) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Task, len(r.tasks))
	copy(out, r.tasks)
	return out, nil
}

func (r *TaskRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}

func (r *TaskRepository) Get(_ context.Context, id string) (domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return domain.Task{}, domain.ErrNotFound
	}
	return r.tasks[i], nil
}

// Insert appends t. The caller assigns id and createdAt.
func (r *TaskRepository) Insert(_ context.Context, t domain.Task) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[t.ID]; exists {
		return domain.Task{}, domain.ErrDuplicateID
	}
	t.Revision = 1
	r.index[t.ID] = len(r.tasks)
	r.tasks = append(r.tasks, t)
	return t, nil
}

// Update runs fn against the current record under the write lock and stores
// its result, so a full replace or a shallow merge happens as one step. id,
// createdAt and the revision counter are owned by the repository and cannot
// be changed by fn.
func (r *TaskRepository) Update(_ context.Context, id string, fn func(current domain.Task) (domain.Task, error)) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return domain.Task{}, domain.ErrNotFound
	}
	current := r.tasks[i]

	next, err := fn(current)
	if err != nil {
		return domain.Task{}, err
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.Revision = current.Revision + 1

	r.tasks[i] = next
	return next, nil
}

// Remove deletes the task and returns the removed record. A non-nil check
// can veto the removal after seeing the current record.
func (r *TaskRepository) Remove(_ context.Context, id string, check func(current domain.Task) error) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return domain.Task{}, domain.ErrNotFound
	}
	removed := r.tasks[i]
	if check != nil {
		if err := check(removed); err != nil {
			return domain.Task{}, err
		}
	}

	r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
	delete(r.index, id)
	for j := i; j < len(r.tasks); j++ {
		r.index[r.tasks[j].ID] = j
	}
	return removed, nil
}
