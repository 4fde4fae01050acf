package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskflow/internal/domain"
)

// Op names a remote operation.
type Op int

const (
	OpRefresh Op = iota
	OpToggle
	OpCreate
	OpUpdate
	OpDelete
)

// Result is the outcome of one remote operation. Performing the request and
// applying the outcome are separate steps, so IO can run off the goroutine
// that owns the State.
type Result struct {
	Op    Op
	Tasks []domain.Task
	Task  domain.Task
	ID    string
	Err   error
}

// App performs operations against the API.
type App struct {
	client *Client
}

func NewApp(c *Client) *App {
	return &App{client: c}
}

func (a *App) Refresh(ctx context.Context) Result {
	tasks, err := a.client.List(ctx)
	return Result{Op: OpRefresh, Tasks: tasks, Err: err}
}

// Toggle flips the completion flag of t.
func (a *App) Toggle(ctx context.Context, t domain.Task) Result {
	completed := !t.Completed
	updated, err := a.client.Patch(ctx, t.ID, domain.TaskPatch{Completed: &completed})
	return Result{Op: OpToggle, Task: updated, ID: t.ID, Err: err}
}

// Submit sends the editor's content: PUT while editing, POST otherwise.
func (a *App) Submit(ctx context.Context, ed Editor) Result {
	op := OpCreate
	if ed.Mode() == EditorEdit {
		op = OpUpdate
	}
	in, err := ed.Input()
	if err != nil {
		return Result{Op: op, ID: ed.TaskID, Err: err}
	}

	var task domain.Task
	if op == OpUpdate {
		task, err = a.client.Update(ctx, ed.TaskID, in)
	} else {
		task, err = a.client.Create(ctx, in)
	}
	return Result{Op: op, Task: task, ID: ed.TaskID, Err: err}
}

func (a *App) Delete(ctx context.Context, id string) Result {
	return Result{Op: OpDelete, ID: id, Err: a.client.Delete(ctx, id)}
}

var failureText = map[Op]string{
	OpRefresh: "Error fetching tasks.",
	OpToggle:  "Error updating task.",
	OpCreate:  "Error creating task.",
	OpUpdate:  "Error updating task.",
	OpDelete:  "Error deleting task.",
}

// Apply folds r into the state. A failed operation only sets an error
// notice; tasks and editor stay as they were.
func (s *State) Apply(r Result, now time.Time) {
	if r.Err != nil {
		msg := failureText[r.Op]
		var (
			apiErr *APIError
			ve     *domain.ValidationError
		)
		switch {
		case errors.Is(r.Err, ErrTitleRequired):
			msg = r.Err.Error()
		case errors.As(r.Err, &ve):
			msg = ve.Message
		case errors.As(r.Err, &apiErr):
			msg = fmt.Sprintf("%s %s", msg, apiErr.Message)
		}
		s.notify(NoticeError, msg, now)
		return
	}

	switch r.Op {
	case OpRefresh:
		s.ReplaceAll(r.Tasks)
	case OpToggle:
		s.ApplyUpdated(r.Task)
		state := "active"
		if r.Task.Completed {
			state = "completed"
		}
		s.notify(NoticeSuccess, "Task marked as "+state+".", now)
	case OpCreate:
		s.ApplyCreated(r.Task)
		s.Editor.Cancel()
		s.notify(NoticeSuccess, "Task created successfully.", now)
	case OpUpdate:
		s.ApplyUpdated(r.Task)
		s.Editor.Cancel()
		s.notify(NoticeSuccess, "Task updated successfully.", now)
	case OpDelete:
		s.ApplyDeleted(r.ID)
		s.notify(NoticeSuccess, "Task deleted successfully.", now)
	}
}
