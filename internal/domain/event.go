package domain

import "time"

// EventType names a change pushed to live subscribers.
type EventType string

const (
	EventTaskCreated EventType = "task.created"
	EventTaskUpdated EventType = "task.updated"
	EventTaskPatched EventType = "task.patched"
	EventTaskDeleted EventType = "task.deleted"
)

// TaskEvent is the payload broadcast on the live feed after a mutation.
type TaskEvent struct {
	Type EventType `json:"type"`
	Task Task      `json:"task"`
	At   time.Time `json:"at"`
}
