package notify

import (
	"context"
	"sort"
	"sync"

	"github.com/facebookgo/clock"
)

// Board keeps the currently visible notifications and dismisses each one
// once its TTL has elapsed on the board's clock.
type Board struct {
	clock clock.Clock

	mu     sync.Mutex
	active map[string]Notification
	timers map[string]*clock.Timer
}

// NewBoard creates a Board driven by clk.
func NewBoard(clk clock.Clock) *Board {
	return &Board{
		clock:  clk,
		active: make(map[string]Notification),
		timers: make(map[string]*clock.Timer),
	}
}

// Notify implements Notifier. Notifications with a non-positive TTL are
// dropped.
func (b *Board) Notify(_ context.Context, n Notification) {
	ttl := n.TTL()
	if ttl <= 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.active[n.ID] = n
	b.timers[n.ID] = b.clock.AfterFunc(ttl, func() { b.Dismiss(n.ID) })
}

// Dismiss removes a notification early. It reports whether it was visible.
func (b *Board) Dismiss(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.active[id]; !ok {
		return false
	}
	delete(b.active, id)
	if t, ok := b.timers[id]; ok {
		t.Stop()
		delete(b.timers, id)
	}
	return true
}

// Active lists visible notifications, oldest first.
func (b *Board) Active() []Notification {
	b.mu.Lock()
	out := make([]Notification, 0, len(b.active))
	for _, n := range b.active {
		out = append(out, n)
	}
	b.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
