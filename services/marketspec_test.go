package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legendiguess/gemini-dca-bot/domain"
	"github.com/legendiguess/gemini-dca-bot/services"
)

type symbolDetailsClientTest struct {
	details services.SymbolDetails
	err     error
}

func (client *symbolDetailsClientTest) SymbolDetails(_ context.Context, _ string) (services.SymbolDetails, error) {
	return client.details, client.err
}

func TestResolveMarketSpec(t *testing.T) {
	resolver := services.NewMarketSpecResolver(&symbolDetailsClientTest{details: services.SymbolDetails{
		Symbol:         "BTCUSD",
		BaseCurrency:   "BTC",
		QuoteCurrency:  "USD",
		TickSize:       d("0.00000001"),
		QuoteIncrement: d("0.01"),
		MinOrderSize:   d("0.00001"),
	}}, nullLogger())

	spec, err := resolver.Resolve(ctx(), "btcusd")
	require.NoError(t, err)

	assert.Equal(t, "BTCUSD", spec.Symbol)
	assert.Equal(t, "BTC", spec.BaseCurrency)
	assert.Equal(t, "USD", spec.QuoteCurrency)
	assert.True(t, d("0.00000001").Equal(spec.BaseIncrement))
	assert.True(t, d("0.01").Equal(spec.QuoteIncrement))
	assert.True(t, d("0.00001").Equal(spec.MinOrderSize))
}

func TestResolveMarketSpecNotFound(t *testing.T) {
	resolver := services.NewMarketSpecResolver(&symbolDetailsClientTest{
		err: &services.RequestError{StatusCode: http.StatusBadRequest, Reason: "InvalidSymbol"},
	}, nullLogger())

	_, err := resolver.Resolve(ctx(), "nope")

	assert.ErrorIs(t, err, domain.ErrMarketNotFound)
}

func TestResolveMarketSpecTransportError(t *testing.T) {
	resolver := services.NewMarketSpecResolver(&symbolDetailsClientTest{
		err: &services.RequestError{StatusCode: http.StatusServiceUnavailable},
	}, nullLogger())

	_, err := resolver.Resolve(ctx(), "btcusd")

	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrMarketNotFound))

	var requestError *services.RequestError
	assert.True(t, errors.As(err, &requestError))
}

func TestResolveMarketSpecRejectsZeroIncrements(t *testing.T) {
	resolver := services.NewMarketSpecResolver(&symbolDetailsClientTest{details: services.SymbolDetails{
		BaseCurrency:  "BTC",
		QuoteCurrency: "USD",
	}}, nullLogger())

	_, err := resolver.Resolve(ctx(), "btcusd")

	assert.Error(t, err)
}

func TestClassifyAmountCurrency(t *testing.T) {
	denomination, err := services.ClassifyAmountCurrency(btcusd, "USD")
	require.NoError(t, err)
	assert.Equal(t, domain.DenominationQuote, denomination)

	denomination, err = services.ClassifyAmountCurrency(btcusd, "btc")
	require.NoError(t, err)
	assert.Equal(t, domain.DenominationBase, denomination)

	for _, currency := range []string{"ETH", "", "USDT", "BTCUSD"} {
		_, err = services.ClassifyAmountCurrency(btcusd, currency)
		assert.ErrorIs(t, err, domain.ErrInvalidAmountCurrency, currency)
	}
}
