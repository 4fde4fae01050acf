package client

import (
	"errors"
	"testing"
	"time"

	"taskflow/internal/domain"
)

var t0 = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func task(id string, completed bool) domain.Task {
	return domain.Task{ID: id, Title: "task " + id, Priority: domain.PriorityMedium, Completed: completed, CreatedAt: t0}
}

func TestFilterTasks(t *testing.T) {
	tasks := []domain.Task{task("a", false), task("b", true), task("c", false)}

	cases := map[Filter][]string{
		FilterAll:       {"a", "b", "c"},
		FilterActive:    {"a", "c"},
		FilterCompleted: {"b"},
	}
	for f, want := range cases {
		got := FilterTasks(tasks, f)
		if len(got) != len(want) {
			t.Fatalf("%s: expected %v got %d tasks", f, want, len(got))
		}
		for i := range want {
			if got[i].ID != want[i] {
				t.Fatalf("%s: expected %v at %d, got %s", f, want, i, got[i].ID)
			}
		}
	}
}

func TestEditorTransitions(t *testing.T) {
	var ed Editor
	if ed.Open() || ed.Mode() != EditorClosed {
		t.Fatal("zero editor should be closed")
	}

	ed.OpenCreate()
	if ed.Mode() != EditorCreate || ed.Priority != domain.PriorityLow || ed.TaskID != "" {
		t.Fatalf("unexpected create form %+v", ed)
	}

	due := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
	existing := task("x", false)
	existing.Description = "d"
	existing.DueDate = &due
	ed.OpenEdit(existing)
	if ed.Mode() != EditorEdit || ed.TaskID != "x" || ed.Title != "task x" || ed.DueDate != "2030-01-02" {
		t.Fatalf("unexpected edit form %+v", ed)
	}

	ed.Cancel()
	if ed.Open() || ed.TaskID != "" || ed.Title != "" {
		t.Fatalf("cancel should clear the form: %+v", ed)
	}
}

func TestEditorInput(t *testing.T) {
	ed := Editor{Title: "  "}
	if _, err := ed.Input(); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}

	ed = Editor{Title: "Pay rent", DueDate: "2030-01-31"}
	in, err := ed.Input()
	if err != nil {
		t.Fatal(err)
	}
	if in.Priority == nil || *in.Priority != domain.PriorityLow {
		t.Fatal("priority should default to low")
	}
	if in.DueDate == nil || *in.DueDate != "2030-01-31T00:00:00Z" {
		t.Fatalf("unexpected due date %v", in.DueDate)
	}

	ed.DueDate = "31/01/2030"
	if _, err := ed.Input(); !errors.Is(err, domain.ErrInvalidDueDate) {
		t.Fatalf("expected ErrInvalidDueDate, got %v", err)
	}
}

func TestStateApplySuccess(t *testing.T) {
	s := NewState()
	s.Apply(Result{Op: OpRefresh, Tasks: []domain.Task{task("a", false), task("b", false)}}, t0)
	if len(s.Tasks) != 2 || s.Notice != nil {
		t.Fatalf("refresh should replace tasks silently: %+v", s)
	}

	s.Apply(Result{Op: OpToggle, Task: task("b", true)}, t0)
	if got, _ := s.Find("b"); !got.Completed || s.Notice.Message != "Task marked as completed." {
		t.Fatalf("toggle not applied: %+v %+v", got, s.Notice)
	}

	s.Editor.OpenCreate()
	s.Apply(Result{Op: OpCreate, Task: task("c", false)}, t0)
	if len(s.Tasks) != 3 || s.Tasks[2].ID != "c" || s.Editor.Open() {
		t.Fatalf("create not applied: %+v", s)
	}
	if s.Notice.Kind != NoticeSuccess || s.Notice.Message != "Task created successfully." {
		t.Fatalf("unexpected notice %+v", s.Notice)
	}

	s.Apply(Result{Op: OpDelete, ID: "a"}, t0)
	if _, ok := s.Find("a"); ok || len(s.Tasks) != 2 || s.Tasks[0].ID != "b" {
		t.Fatalf("delete not applied: %+v", s.Tasks)
	}
}

func TestStateApplyFailureKeepsState(t *testing.T) {
	s := NewState()
	s.ReplaceAll([]domain.Task{task("a", false)})
	s.Editor.OpenEdit(s.Tasks[0])

	s.Apply(Result{Op: OpUpdate, ID: "a", Err: &APIError{Status: 400, Message: "Task title is required and must be a non-empty string"}}, t0)
	if !s.Editor.Open() || s.Tasks[0].Title != "task a" {
		t.Fatal("a failed update must not touch the tasks or the editor")
	}
	if s.Notice.Kind != NoticeError || s.Notice.Message != "Error updating task. Task title is required and must be a non-empty string" {
		t.Fatalf("unexpected notice %+v", s.Notice)
	}

	s.Apply(Result{Op: OpCreate, Err: ErrTitleRequired}, t0)
	if s.Notice.Message != "Task title is required." {
		t.Fatalf("unexpected notice %q", s.Notice.Message)
	}

	s.Apply(Result{Op: OpRefresh, Err: errors.New("connection refused")}, t0)
	if s.Notice.Message != "Error fetching tasks." || len(s.Tasks) != 1 {
		t.Fatalf("unexpected state after failed refresh: %+v", s)
	}
}

func TestStateApplyEvent(t *testing.T) {
	s := NewState()
	s.ReplaceAll([]domain.Task{task("a", false)})

	s.ApplyEvent(domain.TaskEvent{Type: domain.EventTaskCreated, Task: task("b", false)})
	s.ApplyEvent(domain.TaskEvent{Type: domain.EventTaskCreated, Task: task("b", false)})
	if len(s.Tasks) != 2 {
		t.Fatalf("duplicate create event should upsert, got %d tasks", len(s.Tasks))
	}

	s.ApplyEvent(domain.TaskEvent{Type: domain.EventTaskUpdated, Task: task("a", true)})
	if !s.Tasks[0].Completed {
		t.Fatal("update event not applied in place")
	}

	s.ApplyEvent(domain.TaskEvent{Type: domain.EventTaskDeleted, Task: task("a", true)})
	if len(s.Tasks) != 1 || s.Tasks[0].ID != "b" {
		t.Fatalf("delete event not applied: %+v", s.Tasks)
	}
}

func TestNoticeExpiry(t *testing.T) {
	s := NewState()
	s.Apply(Result{Op: OpDelete, ID: "x"}, t0)

	s.ExpireNotice(t0.Add(NoticeTTL - time.Millisecond))
	if s.Notice == nil {
		t.Fatal("notice expired early")
	}
	s.ExpireNotice(t0.Add(NoticeTTL))
	if s.Notice != nil {
		t.Fatal("notice should expire after its TTL")
	}
}

func TestSanitize(t *testing.T) {
	if got := Sanitize("\x1b[31mred\x1b[0m done"); got != "red done" {
		t.Fatalf("unexpected sanitized text %q", got)
	}
}
