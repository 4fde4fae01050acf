package domain

import (
	"strconv"
	"strings"
	"time"
)

// Priority classifies task urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the accepted priority values in ascending urgency.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the enumerated priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Task is a single to-do item.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`

	// Revision is bumped by the store on every write and surfaced as an ETag.
	Revision uint64 `json:"-"`
}

// TaskInput is the body accepted by create and full update.
// Nil optional fields mean "not provided".
type TaskInput struct {
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	DueDate     *string   `json:"dueDate,omitempty"`
}

// Timestamp normalises t to the precision used on the wire.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// ParseDueDate parses an ISO-8601 timestamp or calendar date.
// An empty string yields no due date.
func ParseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			ts := Timestamp(t)
			return &ts, nil
		}
	}
	return nil, ErrInvalidDueDate
}

// ValidateTitle trims title and rejects blank values.
func ValidateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", ErrInvalidTitle
	}
	return trimmed, nil
}

// ValidatePriority rejects anything outside the enumeration.
func ValidatePriority(p Priority) error {
	if !p.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

// ETag renders the task revision as a strong entity tag.
func (t Task) ETag() string {
	return strconv.Quote(strconv.FormatUint(t.Revision, 10))
}

// MatchesETag reports whether an If-Match header value accepts t.
// An empty header matches everything.
func (t Task) MatchesETag(header string) bool {
	header = strings.TrimSpace(header)
	if header == "" || header == "*" {
		return true
	}
	current := strconv.FormatUint(t.Revision, 10)
	for _, tag := range strings.Split(header, ",") {
		tag = strings.TrimSpace(tag)
		tag = strings.TrimPrefix(tag, "W/")
		if strings.Trim(tag, `"`) == current {
			return true
		}
	}
	return false
}
