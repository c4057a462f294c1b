package services

import (
	"sync"
	"time"

	"github.com/legendiguess/gemini-dca-bot/domain"
)

type OrderSnapshot struct {
	Order     domain.LiveOrder  `json:"order"`
	State     domain.OrderState `json:"state"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// OrderTracker keeps the latest observation of the order for readers outside the monitor loop.
type OrderTracker struct {
	mu       sync.RWMutex
	snapshot OrderSnapshot
	observed bool
	now      func() time.Time
}

func NewOrderTracker() *OrderTracker {
	return &OrderTracker{now: time.Now}
}

func (tracker *OrderTracker) Observe(order domain.LiveOrder, state domain.OrderState) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	tracker.snapshot = OrderSnapshot{Order: order, State: state, UpdatedAt: tracker.now()}
	tracker.observed = true
}

func (tracker *OrderTracker) Snapshot() (OrderSnapshot, bool) {
	tracker.mu.RLock()
	defer tracker.mu.RUnlock()

	return tracker.snapshot, tracker.observed
}
