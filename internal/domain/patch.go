package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// TaskPatch is a shallow partial update. Only the mutable fields are
// represented; id, createdAt and updatedAt in a request body are ignored.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *Priority
	Completed   *bool
	DueDate     *time.Time
	// ClearDueDate is set when the body carried "dueDate": null.
	ClearDueDate bool
}

// IsEmpty reports whether the patch changes no field.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil &&
		p.Completed == nil && p.DueDate == nil && !p.ClearDueDate
}

// Validate enforces the task invariants on the fields the patch touches.
func (p TaskPatch) Validate() (TaskPatch, error) {
	if p.Title != nil {
		title, err := ValidateTitle(*p.Title)
		if err != nil {
			return p, err
		}
		p.Title = &title
	}
	if p.Priority != nil {
		if err := ValidatePriority(*p.Priority); err != nil {
			return p, err
		}
	}
	return p, nil
}

// Apply merges the provided fields into t.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	switch {
	case p.ClearDueDate:
		t.DueDate = nil
	case p.DueDate != nil:
		due := *p.DueDate
		t.DueDate = &due
	}
	return t
}

var jsonNull = []byte("null")

// UnmarshalJSON decodes the whitelisted keys of a PATCH body. Unknown keys are
// dropped; a wrongly typed known key is an input error.
func (p *TaskPatch) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return NewValidationError("Request body must be a JSON object")
	}

	var out TaskPatch
	if v, ok := raw["title"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil || bytes.Equal(v, jsonNull) {
			return ErrInvalidTitle
		}
		out.Title = &s
	}
	if v, ok := raw["description"]; ok {
		var s string
		if !bytes.Equal(v, jsonNull) {
			if err := json.Unmarshal(v, &s); err != nil {
				return NewValidationError("Description must be a string")
			}
		}
		out.Description = &s
	}
	if v, ok := raw["priority"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil || bytes.Equal(v, jsonNull) {
			return ErrInvalidPriority
		}
		pr := Priority(s)
		out.Priority = &pr
	}
	if v, ok := raw["completed"]; ok {
		var b bool
		if err := json.Unmarshal(v, &b); err != nil || bytes.Equal(v, jsonNull) {
			return NewValidationError("Completed must be a boolean")
		}
		out.Completed = &b
	}
	if v, ok := raw["dueDate"]; ok {
		if bytes.Equal(v, jsonNull) {
			out.ClearDueDate = true
		} else {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return ErrInvalidDueDate
			}
			due, err := ParseDueDate(s)
			if err != nil {
				return err
			}
			if due == nil {
				out.ClearDueDate = true
			} else {
				out.DueDate = due
			}
		}
	}

	*p = out
	return nil
}

// MarshalJSON emits only the fields the patch sets.
func (p TaskPatch) MarshalJSON() ([]byte, error) {
	body := make(map[string]any, 5)
	if p.Title != nil {
		body["title"] = *p.Title
	}
	if p.Description != nil {
		body["description"] = *p.Description
	}
	if p.Priority != nil {
		body["priority"] = *p.Priority
	}
	if p.Completed != nil {
		body["completed"] = *p.Completed
	}
	switch {
	case p.ClearDueDate:
		body["dueDate"] = nil
	case p.DueDate != nil:
		body["dueDate"] = p.DueDate.UTC().Format(time.RFC3339Nano)
	}
	return json.Marshal(body)
}
