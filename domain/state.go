package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderState string

const (
	OrderStatePending   = OrderState("pending")
	OrderStateFilled    = OrderState("filled")
	OrderStateCancelled = OrderState("cancelled")
	OrderStateTimedOut  = OrderState("timed_out")
)

func (state OrderState) IsTerminal() bool {
	return state == OrderStateFilled || state == OrderStateCancelled || state == OrderStateTimedOut
}

type MonitorResult struct {
	State       OrderState
	Order       LiveOrder
	TargetPrice decimal.Decimal
	Polls       int
	Elapsed     time.Duration
	// NotifyErr is set when the terminal notification could not be delivered.
	NotifyErr error
}
