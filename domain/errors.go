package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrMarketNotFound           = errors.New("market not found")
	ErrInvalidAmountCurrency    = errors.New("amount currency not in market")
	ErrMarketDataUnavailable    = errors.New("market data unavailable")
	ErrOrderRejected            = errors.New("order rejected")
	ErrMonitorTimeout           = errors.New("order still open after warning threshold")
	ErrOrderCancelledExternally = errors.New("order cancelled outside of the bot")
	ErrNotification             = errors.New("notification failed")
)

// OrderRejectedError carries the exchange's structured rejection payload.
type OrderRejectedError struct {
	StatusCode int
	Reason     string
	Message    string
	Payload    json.RawMessage
}

func (err *OrderRejectedError) Error() string {
	if err.Message != "" {
		return fmt.Sprintf("order rejected: %s: %s", err.Reason, err.Message)
	}
	return fmt.Sprintf("order rejected: %s", err.Reason)
}

func (err *OrderRejectedError) Is(target error) bool {
	return target == ErrOrderRejected
}

func (err *OrderRejectedError) Document() string {
	return indentJSON(err.Payload, string(err.Payload))
}

func indentJSON(source []byte, fallback string) string {
	var generic interface{}
	if err := json.Unmarshal(source, &generic); err != nil {
		return fallback
	}
	indented, err := json.MarshalIndent(generic, "", "    ")
	if err != nil {
		return fallback
	}
	return string(indented)
}
