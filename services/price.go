package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/legendiguess/gemini-dca-bot/domain"
	"github.com/shopspring/decimal"
)

type orderBookClient interface {
	OrderBookTop(ctx context.Context, market string) (domain.OrderBookTop, error)
}

type priceLogger interface {
	Infof(format string, args ...interface{})
}

type PriceResolver struct {
	client orderBookClient
	logger priceLogger
}

func NewPriceResolver(client orderBookClient, logger priceLogger) *PriceResolver {
	return &PriceResolver{client: client, logger: logger}
}

// ResolveTargetPrice returns explicitPrice untouched when given. Otherwise it
// re-reads the top of the book and rounds the midpoint to the quote increment
// in favour of side.
func (resolver *PriceResolver) ResolveTargetPrice(ctx context.Context, spec domain.MarketSpec, side domain.OrderSide, explicitPrice *decimal.Decimal) (decimal.Decimal, error) {
	if explicitPrice != nil {
		resolver.logger.Infof("target_price: $%s (explicit)", explicitPrice)
		return *explicitPrice, nil
	}

	top, err := resolver.client.OrderBookTop(ctx, spec.Symbol)
	if err != nil {
		if errors.Is(err, domain.ErrMarketDataUnavailable) {
			return decimal.Decimal{}, err
		}
		return decimal.Decimal{}, fmt.Errorf("%w: %w", domain.ErrMarketDataUnavailable, err)
	}

	targetPrice := MidpointPrice(top, spec.QuoteIncrement, side)

	resolver.logger.Infof("ask: $%s", top.BestAsk)
	resolver.logger.Infof("bid: $%s", top.BestBid)
	resolver.logger.Infof("target_price: $%s", targetPrice)

	return targetPrice, nil
}

func MidpointPrice(top domain.OrderBookTop, quoteIncrement decimal.Decimal, side domain.OrderSide) decimal.Decimal {
	mid := top.BestBid.Add(top.BestAsk).Div(decimal.NewFromInt(2))
	return domain.RoundToIncrement(mid, quoteIncrement, domain.FavorableRounding(side))
}
