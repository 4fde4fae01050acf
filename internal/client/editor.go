package client

import (
	"errors"
	"strings"
	"time"

	"taskflow/internal/domain"
)

// EditorMode is the state of the task form.
type EditorMode int

const (
	EditorClosed EditorMode = iota
	EditorCreate
	EditorEdit
)

func (m EditorMode) String() string {
	switch m {
	case EditorCreate:
		return "create"
	case EditorEdit:
		return "edit"
	default:
		return "closed"
	}
}

// ErrTitleRequired is reported before any request is made.
var ErrTitleRequired = errors.New("Task title is required.")

// dateLayout is the calendar-date form the editor works in.
const dateLayout = "2006-01-02"

// Editor holds the task form. TaskID is set only while editing.
type Editor struct {
	mode        EditorMode
	TaskID      string
	Title       string
	Description string
	Priority    domain.Priority
	DueDate     string
}

func (e *Editor) Mode() EditorMode { return e.mode }

func (e *Editor) Open() bool { return e.mode != EditorClosed }

// OpenCreate shows an empty form.
func (e *Editor) OpenCreate() {
	e.Reset()
	e.mode = EditorCreate
}

// OpenEdit fills the form from t.
func (e *Editor) OpenEdit(t domain.Task) {
	e.Reset()
	e.mode = EditorEdit
	e.TaskID = t.ID
	e.Title = t.Title
	e.Description = t.Description
	e.Priority = t.Priority
	if t.DueDate != nil {
		e.DueDate = t.DueDate.UTC().Format(dateLayout)
	}
}

// Cancel closes the form and clears it.
func (e *Editor) Cancel() {
	e.Reset()
	e.mode = EditorClosed
}

// Reset clears the fields without changing the mode.
func (e *Editor) Reset() {
	e.TaskID = ""
	e.Title = ""
	e.Description = ""
	e.Priority = domain.PriorityLow
	e.DueDate = ""
}

// Input builds the request body. A blank title or a malformed date is
// rejected locally.
func (e *Editor) Input() (domain.TaskInput, error) {
	if strings.TrimSpace(e.Title) == "" {
		return domain.TaskInput{}, ErrTitleRequired
	}
	desc := e.Description
	prio := e.Priority
	if prio == "" {
		prio = domain.PriorityLow
	}
	in := domain.TaskInput{
		Title:       e.Title,
		Description: &desc,
		Priority:    &prio,
	}
	if due := strings.TrimSpace(e.DueDate); due != "" {
		d, err := time.Parse(dateLayout, due)
		if err != nil {
			return domain.TaskInput{}, domain.ErrInvalidDueDate
		}
		iso := d.UTC().Format(time.RFC3339)
		in.DueDate = &iso
	}
	return in, nil
}
