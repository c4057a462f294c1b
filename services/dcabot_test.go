package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legendiguess/gemini-dca-bot/domain"
	"github.com/legendiguess/gemini-dca-bot/services"
)

type marketSpecServiceTest struct {
	spec domain.MarketSpec
	err  error
}

func (service *marketSpecServiceTest) Resolve(_ context.Context, _ string) (domain.MarketSpec, error) {
	return service.spec, service.err
}

type priceServiceTest struct {
	price decimal.Decimal
	err   error
}

func (service *priceServiceTest) ResolveTargetPrice(_ context.Context, _ domain.MarketSpec, _ domain.OrderSide, _ *decimal.Decimal) (decimal.Decimal, error) {
	return service.price, service.err
}

type submitServiceTest struct {
	order domain.LiveOrder
	err   error
	calls int
}

func (service *submitServiceTest) Submit(_ context.Context, _ domain.OrderIntent, _ domain.MarketSpec, _ decimal.Decimal) (domain.LiveOrder, error) {
	service.calls++
	return service.order, service.err
}

type monitorServiceTest struct {
	result domain.MonitorResult
	err    error
	calls  int
}

func (service *monitorServiceTest) Run(_ context.Context, _ domain.OrderIntent, _ domain.MarketSpec, order domain.LiveOrder, _ decimal.Decimal) (domain.MonitorResult, error) {
	service.calls++
	service.result.Order.OrderID = order.OrderID
	return service.result, service.err
}

type orderJournalTest struct {
	saved   []domain.OrderRecord
	updates map[string]domain.OrderState
}

func (journal *orderJournalTest) SaveOrder(_ context.Context, record *domain.OrderRecord) error {
	journal.saved = append(journal.saved, *record)
	return nil
}

func (journal *orderJournalTest) UpdateOrder(_ context.Context, orderID string, state domain.OrderState, _ decimal.Decimal) error {
	if journal.updates == nil {
		journal.updates = map[string]domain.OrderState{}
	}
	journal.updates[orderID] = state
	return nil
}

var botIntent = domain.OrderIntent{Market: "BTCUSD", Side: domain.OrderSideBuy, Amount: d("14"), AmountCurrency: "USD"}

func TestDCABotRun(t *testing.T) {
	submitter := &submitServiceTest{order: domain.LiveOrder{OrderID: "9", OriginalAmount: d("0.0007"), RemainingAmount: d("0.0007")}}
	monitor := &monitorServiceTest{result: domain.MonitorResult{State: domain.OrderStateFilled}}
	journal := &orderJournalTest{}
	notifier := &notifierTest{}

	bot := services.NewDCABot(&marketSpecServiceTest{spec: btcusd}, &priceServiceTest{price: d("20000")}, submitter, monitor, notifier, journal, nullLogger())

	result, err := bot.Run(ctx(), botIntent)
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStateFilled, result.State)
	assert.Equal(t, 1, monitor.calls)
	require.Len(t, journal.saved, 1)
	assert.Equal(t, "9", journal.saved[0].OrderID)
	assert.True(t, d("20000").Equal(journal.saved[0].TargetPrice))
	assert.Equal(t, domain.OrderStatePending, journal.saved[0].State)
	assert.Equal(t, domain.OrderStateFilled, journal.updates["9"])
}

func TestDCABotRunWithoutJournal(t *testing.T) {
	monitor := &monitorServiceTest{result: domain.MonitorResult{State: domain.OrderStateTimedOut}, err: domain.ErrMonitorTimeout}

	bot := services.NewDCABot(&marketSpecServiceTest{spec: btcusd}, &priceServiceTest{price: d("20000")}, &submitServiceTest{}, monitor, &notifierTest{}, nil, nullLogger())

	result, err := bot.Run(ctx(), botIntent)

	assert.ErrorIs(t, err, domain.ErrMonitorTimeout)
	assert.Equal(t, domain.OrderStateTimedOut, result.State)
}

func TestDCABotRejectedOrderNotifies(t *testing.T) {
	submitter := &submitServiceTest{err: &domain.OrderRejectedError{
		StatusCode: 400,
		Reason:     "InsufficientFunds",
		Payload:    []byte(`{"result":"error","reason":"InsufficientFunds"}`),
	}}
	monitor := &monitorServiceTest{}
	notifier := &notifierTest{}
	journal := &orderJournalTest{}

	bot := services.NewDCABot(&marketSpecServiceTest{spec: btcusd}, &priceServiceTest{price: d("20000")}, submitter, monitor, notifier, journal, nullLogger())

	_, err := bot.Run(ctx(), botIntent)

	assert.ErrorIs(t, err, domain.ErrOrderRejected)
	assert.Equal(t, 0, monitor.calls)
	assert.Empty(t, journal.saved)

	require.Len(t, notifier.publications, 1)
	assert.Equal(t, "ERROR placing BTC buy order: InsufficientFunds", notifier.publications[0].subject)
	assert.Contains(t, notifier.publications[0].body, `"reason": "InsufficientFunds"`)
}

func TestDCABotRejectedOrderNotificationFailure(t *testing.T) {
	submitter := &submitServiceTest{err: &domain.OrderRejectedError{Reason: "InvalidPrice", Payload: []byte(`{}`)}}
	notifier := &notifierTest{err: errBoom}

	bot := services.NewDCABot(&marketSpecServiceTest{spec: btcusd}, &priceServiceTest{price: d("20000")}, submitter, &monitorServiceTest{}, notifier, nil, nullLogger())

	result, err := bot.Run(ctx(), botIntent)

	assert.ErrorIs(t, err, domain.ErrOrderRejected)
	assert.ErrorIs(t, err, errBoom)
	assert.ErrorIs(t, result.NotifyErr, errBoom)
}

func TestDCABotValidationFailuresDoNotNotify(t *testing.T) {
	tests := []struct {
		name     string
		intent   domain.OrderIntent
		specs    *marketSpecServiceTest
		prices   *priceServiceTest
		expected error
	}{
		{
			name:     "unknown market",
			intent:   botIntent,
			specs:    &marketSpecServiceTest{err: domain.ErrMarketNotFound},
			prices:   &priceServiceTest{price: d("20000")},
			expected: domain.ErrMarketNotFound,
		},
		{
			name:     "foreign amount currency",
			intent:   domain.OrderIntent{Market: "BTCUSD", Side: domain.OrderSideBuy, Amount: d("14"), AmountCurrency: "EUR"},
			specs:    &marketSpecServiceTest{spec: btcusd},
			prices:   &priceServiceTest{price: d("20000")},
			expected: domain.ErrInvalidAmountCurrency,
		},
		{
			name:     "no book",
			intent:   botIntent,
			specs:    &marketSpecServiceTest{spec: btcusd},
			prices:   &priceServiceTest{err: domain.ErrMarketDataUnavailable},
			expected: domain.ErrMarketDataUnavailable,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			submitter := &submitServiceTest{}
			notifier := &notifierTest{}

			bot := services.NewDCABot(test.specs, test.prices, submitter, &monitorServiceTest{}, notifier, nil, nullLogger())

			_, err := bot.Run(ctx(), test.intent)

			assert.ErrorIs(t, err, test.expected)
			assert.Equal(t, 0, submitter.calls)
			assert.Empty(t, notifier.publications)
		})
	}
}
