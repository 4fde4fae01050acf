package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"taskflow/internal/domain"
	taskhttp "taskflow/internal/http"
	"taskflow/internal/http/handlers"
	"taskflow/internal/repository"
	"taskflow/internal/service"
	"taskflow/internal/ws"

	"github.com/gin-gonic/gin"
)

type discardSink struct{}

func (discardSink) Append(context.Context, domain.AuditEntry) error { return nil }

func newTestAPI(t *testing.T) *Client {
	c, _ := newTestAPIWithHub(t)
	return c
}

func newTestAPIWithHub(t *testing.T) (*Client, *ws.Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := ws.NewHub()
	tasks := service.NewTaskService(repository.NewTaskRepository(), service.NewAuditService(discardSink{}), service.WithEvents(hub))
	router := taskhttp.NewRouter(taskhttp.Dependencies{
		Handler: handlers.NewHandler(tasks, service.MustInputSchema(), handlers.HandlerConfig{}),
		Health:  handlers.NewHealthHandler("test", nil),
		Hub:     hub,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return New(srv.URL + "/"), hub
}

func strPtr(s string) *string { return &s }

func TestClientCRUD(t *testing.T) {
	c := newTestAPI(t)
	ctx := context.Background()

	created, err := c.Create(ctx, domain.TaskInput{Title: "Buy milk", Description: strPtr("2 litres")})
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || created.Priority != domain.PriorityMedium {
		t.Fatalf("unexpected task %+v", created)
	}

	done := true
	patched, err := c.Patch(ctx, created.ID, domain.TaskPatch{Completed: &done})
	if err != nil {
		t.Fatal(err)
	}
	if !patched.Completed || patched.UpdatedAt == nil {
		t.Fatalf("patch not applied: %+v", patched)
	}

	updated, err := c.Update(ctx, created.ID, domain.TaskInput{Title: "Buy oat milk"})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != "Buy oat milk" || updated.Description != "2 litres" || !updated.Completed {
		t.Fatalf("unexpected update %+v", updated)
	}

	list, err := c.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("unexpected list %+v", list)
	}

	if err := c.Delete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	_, err = c.Get(ctx, created.ID)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound || apiErr.Message != "Task not found" {
		t.Fatalf("expected 404 API error, got %v", err)
	}
}

func TestClientValidationError(t *testing.T) {
	c := newTestAPI(t)
	bad := domain.Priority("urgent")
	_, err := c.Create(context.Background(), domain.TaskInput{Title: "x", Priority: &bad})

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if apiErr.Message != domain.ErrInvalidPriority.Message {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}

func TestSubscribeReceivesEvents(t *testing.T) {
	c := newTestAPI(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, err := c.Subscribe(ctx)
	if err != nil {
		t.Fatal(err)
	}

	// the hub registers the subscriber asynchronously after the upgrade
	var created domain.Task
	deadline := time.After(3 * time.Second)
	for created.ID == "" {
		if _, err := c.Create(ctx, domain.TaskInput{Title: "watched"}); err != nil {
			t.Fatal(err)
		}
		select {
		case ev := <-events:
			if ev.Type != domain.EventTaskCreated {
				t.Fatalf("unexpected event %+v", ev)
			}
			created = ev.Task
		case <-time.After(200 * time.Millisecond):
		case <-deadline:
			t.Fatal("no event received")
		}
	}
	if created.Title != "watched" {
		t.Fatalf("unexpected event task %+v", created)
	}

	cancel()
	for range events {
	}
}

func TestSubscribeEndsWhenServerDrops(t *testing.T) {
	c, hub := newTestAPIWithHub(t)
	baseline := runtime.NumGoroutine()

	events, err := c.Subscribe(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(3 * time.Second)
	for hub.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Close()
	select {
	case _, ok := <-events:
		for ok {
			_, ok = <-events
		}
	case <-time.After(3 * time.Second):
		t.Fatal("event channel not closed after the server dropped the feed")
	}

	for runtime.NumGoroutine() > baseline {
		if time.Now().After(deadline) {
			t.Fatalf("subscription goroutines still running: %d > %d", runtime.NumGoroutine(), baseline)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
