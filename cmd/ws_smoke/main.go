package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"taskflow/internal/client"
	"taskflow/internal/domain"
)

// Runs against a live server: two subscribers must both see a task being
// created and deleted through the REST API.
func main() {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	base := fmt.Sprintf("127.0.0.1:%s", port)
	dialer := websocket.DefaultDialer

	connA, _, err := dialer.Dial("ws://"+base+"/ws", nil)
	if err != nil {
		log.Fatalf("dial A: %v", err)
	}
	defer connA.Close()

	connB, _, err := dialer.Dial("ws://"+base+"/ws", nil)
	if err != nil {
		log.Fatalf("dial B: %v", err)
	}
	defer connB.Close()

	// wait for ready
	drainUntilReady := func(conn *websocket.Conn) {
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				continue
			}
			var obj map[string]any
			_ = json.Unmarshal(msg, &obj)
			if t, ok := obj["type"].(string); ok && t == "ready" {
				return
			}
		}
	}

	drainUntilReady(connA)
	drainUntilReady(connB)

	api := client.New("http://" + base)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	task, err := api.Create(ctx, domain.TaskInput{Title: "ws smoke"})
	if err != nil {
		log.Fatalf("create: %v", err)
	}
	log.Printf("created %s", task.ID)

	if err := api.Delete(ctx, task.ID); err != nil {
		log.Fatalf("delete: %v", err)
	}

	// read events
	readEvent := func(conn *websocket.Conn, name string, want domain.EventType) {
		conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			log.Fatalf("%s read error: %v", name, err)
		}
		var ev domain.TaskEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			log.Fatalf("%s decode: %v", name, err)
		}
		if ev.Type != want || ev.Task.ID != task.ID {
			log.Fatalf("%s got %s for %s, want %s for %s", name, ev.Type, ev.Task.ID, want, task.ID)
		}
		log.Printf("%s got: %s", name, ev.Type)
	}

	for _, want := range []domain.EventType{domain.EventTaskCreated, domain.EventTaskDeleted} {
		readEvent(connA, "A", want)
		readEvent(connB, "B", want)
	}

	log.Println("smoke test finished")
}
