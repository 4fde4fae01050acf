package middleware

import (
	"context"
	"sync"
	"time"
)

// memorySweepThreshold bounds the client map before stale windows are pruned.
const memorySweepThreshold = 10000

type clientInfo struct {
	last  time.Time
	count int64
}

// memoryCounter is a process-local fixed-window counter, used when no Redis
// is configured.
type memoryCounter struct {
	mu      sync.Mutex
	clients map[string]*clientInfo
	now     func() time.Time
}

// NewMemoryRateLimiter limits per client IP inside this process only.
func NewMemoryRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		counter: &memoryCounter{clients: make(map[string]*clientInfo), now: time.Now},
		limit:   limit,
		window:  window,
	}
}

func (m *memoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if len(m.clients) > memorySweepThreshold {
		for k, ci := range m.clients {
			if now.Sub(ci.last) > window {
				delete(m.clients, k)
			}
		}
	}

	ci, ok := m.clients[key]
	if !ok || now.Sub(ci.last) > window {
		m.clients[key] = &clientInfo{last: now, count: 1}
		return 1, nil
	}
	ci.count++
	return ci.count, nil
}
