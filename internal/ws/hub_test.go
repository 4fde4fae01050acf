package ws

import (
	"encoding/json"
	"testing"

	"taskflow/internal/domain"
)

func newTestClient(hub *Hub, buffer int) *Client {
	return &Client{ID: "c", Send: make(chan []byte, buffer), Hub: hub}
}

func TestPublishFansOut(t *testing.T) {
	hub := NewHub()
	a, b := newTestClient(hub, 4), newTestClient(hub, 4)
	hub.Register(a)
	hub.Register(b)

	hub.Publish(domain.TaskEvent{Type: domain.EventTaskCreated, Task: domain.Task{ID: "t1", Title: "x"}})

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.Send:
			var ev domain.TaskEvent
			if err := json.Unmarshal(msg, &ev); err != nil {
				t.Fatal(err)
			}
			if ev.Type != domain.EventTaskCreated || ev.Task.ID != "t1" {
				t.Fatalf("unexpected event %+v", ev)
			}
		default:
			t.Fatal("client did not receive the event")
		}
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := NewHub()
	slow := newTestClient(hub, 1)
	hub.Register(slow)

	hub.Publish(domain.TaskEvent{Type: domain.EventTaskPatched, Task: domain.Task{ID: "t1"}})
	hub.Publish(domain.TaskEvent{Type: domain.EventTaskPatched, Task: domain.Task{ID: "t1"}})

	if hub.Len() != 0 {
		t.Fatalf("slow client should be dropped, %d left", hub.Len())
	}
	<-slow.Send
	if _, ok := <-slow.Send; ok {
		t.Fatal("dropped client's queue should be closed")
	}

	// a second unregister is a no-op
	hub.Unregister(slow)
}

func TestCloseDisconnectsEveryone(t *testing.T) {
	hub := NewHub()
	for i := 0; i < 3; i++ {
		hub.Register(newTestClient(hub, 1))
	}
	hub.Close()
	if hub.Len() != 0 {
		t.Fatalf("expected no clients after Close, got %d", hub.Len())
	}
	hub.Publish(domain.TaskEvent{Type: domain.EventTaskDeleted})
}
