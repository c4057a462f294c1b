package services_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/legendiguess/gemini-dca-bot/domain"
	"github.com/legendiguess/gemini-dca-bot/services"
)

func TestOrderTracker(t *testing.T) {
	tracker := services.NewOrderTracker()

	_, ok := tracker.Snapshot()
	assert.False(t, ok)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Snapshot()
		}()
	}
	tracker.Observe(domain.LiveOrder{OrderID: "7"}, domain.OrderStatePending)
	wg.Wait()

	tracker.Observe(domain.LiveOrder{OrderID: "7", RemainingAmount: d("0")}, domain.OrderStateFilled)

	snapshot, ok := tracker.Snapshot()
	assert.True(t, ok)
	assert.Equal(t, "7", snapshot.Order.OrderID)
	assert.Equal(t, domain.OrderStateFilled, snapshot.State)
	assert.False(t, snapshot.UpdatedAt.IsZero())
}
