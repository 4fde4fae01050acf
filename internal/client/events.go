package client

import (
	"context"
	"encoding/json"
	"strings"

	"taskflow/internal/domain"

	"github.com/gorilla/websocket"
)

// Subscribe opens the /ws feed and delivers task events until ctx is done or
// the connection drops; the channel is closed either way.
func (c *Client) Subscribe(ctx context.Context) (<-chan domain.TaskEvent, error) {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, err
	}

	events := make(chan domain.TaskEvent, 16)
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()
	go func() {
		defer close(events)
		defer close(done)
		defer conn.Close()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var ev domain.TaskEvent
			if err := json.Unmarshal(msg, &ev); err != nil || ev.Task.ID == "" {
				// ready frames and anything unrecognised
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}
