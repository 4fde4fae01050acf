package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// AuditAction is the kind of mutation recorded in the audit log.
type AuditAction string

const (
	AuditActionCreated AuditAction = "created"
	AuditActionUpdated AuditAction = "updated"
	AuditActionPatched AuditAction = "patched"
	AuditActionDeleted AuditAction = "deleted"
)

// EventType maps an audit action onto the live feed event it produces.
func (a AuditAction) EventType() EventType {
	switch a {
	case AuditActionCreated:
		return EventTaskCreated
	case AuditActionUpdated:
		return EventTaskUpdated
	case AuditActionPatched:
		return EventTaskPatched
	default:
		return EventTaskDeleted
	}
}

// AuditEntry is one append-only audit record: the resulting task for
// create/update/patch, the removed one for delete.
type AuditEntry struct {
	Time   time.Time   `json:"time"`
	Action AuditAction `json:"action"`
	Task   Task        `json:"task"`
}

// Line renders the entry in the text log format:
//
//	2024-05-01T10:00:00.000Z - Task created: {"id":...}
func (e AuditEntry) Line() (string, error) {
	body, err := json.Marshal(e.Task)
	if err != nil {
		return "", fmt.Errorf("marshal audit task: %w", err)
	}
	return fmt.Sprintf("%s - Task %s: %s\n", e.Time.UTC().Format("2006-01-02T15:04:05.000Z07:00"), e.Action, body), nil
}
