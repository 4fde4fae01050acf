package client

import (
	"time"

	"taskflow/internal/domain"
)

// NoticeTTL is how long a notice stays on screen.
const NoticeTTL = 3 * time.Second

type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeError
)

// Notice is a transient message shown after an operation.
type Notice struct {
	Kind    NoticeKind
	Message string
	At      time.Time
}

func (n *Notice) Expired(now time.Time) bool {
	return n == nil || now.Sub(n.At) >= NoticeTTL
}

// State is the client's view: the last fetched collection, the active
// filter, the editor and the latest notice. It is not safe for concurrent
// use; the owner applies results from one goroutine.
type State struct {
	Tasks  []domain.Task
	Filter Filter
	Editor Editor
	Notice *Notice
}

func NewState() *State {
	return &State{Filter: FilterAll}
}

// Visible returns the tasks that pass the current filter.
func (s *State) Visible() []domain.Task {
	return FilterTasks(s.Tasks, s.Filter)
}

func (s *State) Find(id string) (domain.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Task{}, false
}

func (s *State) ReplaceAll(tasks []domain.Task) {
	s.Tasks = append([]domain.Task(nil), tasks...)
}

// ApplyCreated appends t, or replaces it if an event already delivered it.
func (s *State) ApplyCreated(t domain.Task) {
	s.upsert(t)
}

// ApplyUpdated replaces the task with the same id in place.
func (s *State) ApplyUpdated(t domain.Task) {
	s.upsert(t)
}

func (s *State) ApplyDeleted(id string) {
	out := s.Tasks[:0]
	for _, t := range s.Tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	s.Tasks = out
}

// ApplyEvent folds a change made by any client into the view.
func (s *State) ApplyEvent(ev domain.TaskEvent) {
	switch ev.Type {
	case domain.EventTaskDeleted:
		s.ApplyDeleted(ev.Task.ID)
	case domain.EventTaskCreated:
		s.ApplyCreated(ev.Task)
	default:
		s.ApplyUpdated(ev.Task)
	}
}

func (s *State) upsert(t domain.Task) {
	for i := range s.Tasks {
		if s.Tasks[i].ID == t.ID {
			s.Tasks[i] = t
			return
		}
	}
	s.Tasks = append(s.Tasks, t)
}

func (s *State) notify(kind NoticeKind, msg string, now time.Time) {
	s.Notice = &Notice{Kind: kind, Message: msg, At: now}
}

// ExpireNotice clears a notice older than NoticeTTL.
func (s *State) ExpireNotice(now time.Time) {
	if s.Notice != nil && s.Notice.Expired(now) {
		s.Notice = nil
	}
}
