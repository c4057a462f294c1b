package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/legendiguess/gemini-dca-bot/domain"
)

type symbolDetailsClient interface {
	SymbolDetails(ctx context.Context, market string) (SymbolDetails, error)
}

type marketSpecLogger interface {
	Infof(format string, args ...interface{})
}

type MarketSpecResolver struct {
	client symbolDetailsClient
	logger marketSpecLogger
}

func NewMarketSpecResolver(client symbolDetailsClient, logger marketSpecLogger) *MarketSpecResolver {
	return &MarketSpecResolver{client: client, logger: logger}
}

func (resolver *MarketSpecResolver) Resolve(ctx context.Context, market string) (domain.MarketSpec, error) {
	details, err := resolver.client.SymbolDetails(ctx, market)
	if err != nil {
		var requestError *RequestError
		if errors.As(err, &requestError) && (requestError.StatusCode == http.StatusBadRequest || requestError.StatusCode == http.StatusNotFound) {
			return domain.MarketSpec{}, fmt.Errorf("%w: %s: %v", domain.ErrMarketNotFound, market, err)
		}
		return domain.MarketSpec{}, fmt.Errorf("fetch %s details: %w", market, err)
	}

	if details.BaseCurrency == "" || details.QuoteCurrency == "" {
		return domain.MarketSpec{}, fmt.Errorf("%w: %s", domain.ErrMarketNotFound, market)
	}
	if !details.TickSize.IsPositive() || !details.QuoteIncrement.IsPositive() {
		return domain.MarketSpec{}, fmt.Errorf("market %s has non-positive increments (tick %s, quote %s)", market, details.TickSize, details.QuoteIncrement)
	}

	spec := domain.MarketSpec{
		Symbol:         strings.ToUpper(market),
		BaseCurrency:   details.BaseCurrency,
		QuoteCurrency:  details.QuoteCurrency,
		BaseIncrement:  details.TickSize,
		QuoteIncrement: details.QuoteIncrement,
		MinOrderSize:   details.MinOrderSize,
	}

	resolver.logger.Infof("base_min_size: %s", spec.MinOrderSize)
	resolver.logger.Infof("base_increment: %s", spec.BaseIncrement)
	resolver.logger.Infof("quote_increment: %s", spec.QuoteIncrement)

	return spec, nil
}

// ClassifyAmountCurrency reports whether an amount counted in currency is in base or quote units.
func ClassifyAmountCurrency(spec domain.MarketSpec, currency string) (domain.Denomination, error) {
	switch {
	case strings.EqualFold(currency, spec.QuoteCurrency):
		return domain.DenominationQuote, nil
	case strings.EqualFold(currency, spec.BaseCurrency):
		return domain.DenominationBase, nil
	default:
		return domain.DenominationBase, fmt.Errorf("%w: %s not in market %s", domain.ErrInvalidAmountCurrency, currency, spec.Symbol)
	}
}
