package notion

import (
	"context"
	"sync"
	"time"
)

// throttle enforces a minimum interval between calls. The Notion API caps
// integrations at roughly three requests per second; spacing calls out is
// cheaper than handling 429 storms after the fact.
type throttle struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

func newThrottle(interval time.Duration) *throttle {
	return &throttle{interval: interval}
}

// Wait blocks until at least the configured interval has passed since the
// previous call, or the context is done.
func (t *throttle) Wait(ctx context.Context) error {
	if t.interval <= 0 {
		return nil
	}
	t.mu.Lock()
	now := time.Now()
	wait := t.interval - now.Sub(t.last)
	if wait < 0 {
		wait = 0
	}
	t.last = now.Add(wait)
	t.mu.Unlock()

	return sleep(ctx, wait)
}
