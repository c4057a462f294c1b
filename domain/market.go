package domain

import "github.com/shopspring/decimal"

type MarketSpec struct {
	Symbol         string
	BaseCurrency   string
	QuoteCurrency  string
	BaseIncrement  decimal.Decimal
	QuoteIncrement decimal.Decimal
	MinOrderSize   decimal.Decimal
}

// Denomination tells which side of the pair an order amount is counted in.
type Denomination int

const (
	DenominationBase Denomination = iota
	DenominationQuote
)

func (denomination Denomination) String() string {
	if denomination == DenominationQuote {
		return "quote"
	}
	return "base"
}

type OrderBookTop struct {
	BestBid decimal.Decimal
	BestAsk decimal.Decimal
}
