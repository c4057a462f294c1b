package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderRecord is the journal row kept for every submitted order.
type OrderRecord struct {
	ID              uint            `gorm:"primaryKey" json:"-"`
	OrderID         string          `gorm:"uniqueIndex" json:"order_id"`
	ClientOrderID   string          `json:"client_order_id"`
	Symbol          string          `gorm:"index" json:"symbol"`
	Side            OrderSide       `json:"side"`
	Amount          decimal.Decimal `gorm:"type:text" json:"amount"`
	AmountCurrency  string          `json:"amount_currency"`
	TargetPrice     decimal.Decimal `gorm:"type:text" json:"target_price"`
	BaseAmount      decimal.Decimal `gorm:"type:text" json:"base_amount"`
	RemainingAmount decimal.Decimal `gorm:"type:text" json:"remaining_amount"`
	State           OrderState      `json:"state"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func NewOrderRecord(intent OrderIntent, order LiveOrder, targetPrice decimal.Decimal) OrderRecord {
	return OrderRecord{
		OrderID:         order.OrderID,
		ClientOrderID:   order.ClientOrderID,
		Symbol:          intent.Market,
		Side:            intent.Side,
		Amount:          intent.Amount,
		AmountCurrency:  intent.AmountCurrency,
		TargetPrice:     targetPrice,
		BaseAmount:      order.OriginalAmount,
		RemainingAmount: order.RemainingAmount,
		State:           OrderStatePending,
	}
}
