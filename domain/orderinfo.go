package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type OrderSide string

const (
	OrderSideBuy  = OrderSide("buy")
	OrderSideSell = OrderSide("sell")
)

// ParseOrderSide accepts BUY/SELL in any case.
func ParseOrderSide(value string) (OrderSide, error) {
	switch side := OrderSide(strings.ToLower(value)); side {
	case OrderSideBuy, OrderSideSell:
		return side, nil
	default:
		return "", fmt.Errorf("invalid order side %q, expected BUY or SELL", value)
	}
}

type OrderIntent struct {
	Market         string
	Side           OrderSide
	Amount         decimal.Decimal
	AmountCurrency string
	ExplicitPrice  *decimal.Decimal
}

func (intent OrderIntent) Validate() error {
	if intent.Market == "" {
		return fmt.Errorf("market is required")
	}
	if intent.Side != OrderSideBuy && intent.Side != OrderSideSell {
		return fmt.Errorf("invalid order side %q", intent.Side)
	}
	if !intent.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", intent.Amount)
	}
	if intent.AmountCurrency == "" {
		return fmt.Errorf("amount currency is required")
	}
	if intent.ExplicitPrice != nil && !intent.ExplicitPrice.IsPositive() {
		return fmt.Errorf("price must be positive, got %s", intent.ExplicitPrice)
	}
	return nil
}

// Describe renders the intent the way notification subjects refer to it.
func (intent OrderIntent) Describe() string {
	return fmt.Sprintf("%s %s order of %s %s", strings.ToUpper(intent.Market), intent.Side, intent.Amount, strings.ToUpper(intent.AmountCurrency))
}

type ResolvedOrder struct {
	TargetPrice decimal.Decimal
	BaseAmount  decimal.Decimal
}

// LiveOrder is one authoritative observation of a submitted order.
type LiveOrder struct {
	OrderID           string          `json:"order_id"`
	ClientOrderID     string          `json:"client_order_id"`
	Symbol            string          `json:"symbol"`
	Side              OrderSide       `json:"side"`
	Type              string          `json:"type"`
	Price             decimal.Decimal `json:"price"`
	OriginalAmount    decimal.Decimal `json:"original_amount"`
	ExecutedAmount    decimal.Decimal `json:"executed_amount"`
	RemainingAmount   decimal.Decimal `json:"remaining_amount"`
	AvgExecutionPrice decimal.Decimal `json:"avg_execution_price"`
	IsLive            bool            `json:"is_live"`
	IsCancelled       bool            `json:"is_cancelled"`
	Timestamp         string          `json:"timestamp"`

	Raw json.RawMessage `json:"-"`
}

func (order LiveOrder) IsFilled() bool {
	return !order.RemainingAmount.IsPositive()
}

// Document returns the indented exchange payload, falling back to the decoded fields.
func (order LiveOrder) Document() string {
	source := []byte(order.Raw)
	if len(source) == 0 {
		encoded, err := json.Marshal(order)
		if err != nil {
			return order.OrderID
		}
		source = encoded
	}

	return indentJSON(source, string(source))
}
