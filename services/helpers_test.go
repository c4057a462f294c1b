package services_test

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/legendiguess/gemini-dca-bot/domain"
)

func ctx() context.Context {
	return context.Background()
}

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func nullLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}

var btcusd = domain.MarketSpec{
	Symbol:         "BTCUSD",
	BaseCurrency:   "BTC",
	QuoteCurrency:  "USD",
	BaseIncrement:  d("0.00001"),
	QuoteIncrement: d("0.01"),
	MinOrderSize:   d("0.00001"),
}

type publication struct {
	subject string
	body    string
}

type notifierTest struct {
	mu           sync.Mutex
	publications []publication
	err          error
}

func (notifier *notifierTest) Publish(_ context.Context, subject string, body string) error {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()

	notifier.publications = append(notifier.publications, publication{subject: subject, body: body})
	return notifier.err
}

var errBoom = errors.New("boom")

func newHookedLogger() (*logrus.Logger, *test.Hook) {
	return test.NewNullLogger()
}
