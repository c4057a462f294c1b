package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/legendiguess/gemini-dca-bot/domain"
	"github.com/shopspring/decimal"
)

type marketSpecService interface {
	Resolve(ctx context.Context, market string) (domain.MarketSpec, error)
}

type priceService interface {
	ResolveTargetPrice(ctx context.Context, spec domain.MarketSpec, side domain.OrderSide, explicitPrice *decimal.Decimal) (decimal.Decimal, error)
}

type submitService interface {
	Submit(ctx context.Context, intent domain.OrderIntent, spec domain.MarketSpec, targetPrice decimal.Decimal) (domain.LiveOrder, error)
}

type monitorService interface {
	Run(ctx context.Context, intent domain.OrderIntent, spec domain.MarketSpec, order domain.LiveOrder, targetPrice decimal.Decimal) (domain.MonitorResult, error)
}

type orderJournal interface {
	SaveOrder(ctx context.Context, record *domain.OrderRecord) error
	UpdateOrder(ctx context.Context, orderID string, state domain.OrderState, remaining decimal.Decimal) error
}

type dcaBotLogger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

type DCABot struct {
	marketSpecs marketSpecService
	prices      priceService
	submitter   submitService
	monitor     monitorService
	notifier    Notifier
	journal     orderJournal
	logger      dcaBotLogger
}

// NewDCABot wires the run stages together. journal may be nil.
func NewDCABot(marketSpecs marketSpecService, prices priceService, submitter submitService, monitor monitorService, notifier Notifier, journal orderJournal, logger dcaBotLogger) *DCABot {
	return &DCABot{
		marketSpecs: marketSpecs,
		prices:      prices,
		submitter:   submitter,
		monitor:     monitor,
		notifier:    notifier,
		journal:     journal,
		logger:      logger,
	}
}

// Run places one order and follows it to a terminal state. A nil error means the order filled.
func (bot *DCABot) Run(ctx context.Context, intent domain.OrderIntent) (domain.MonitorResult, error) {
	if err := intent.Validate(); err != nil {
		return domain.MonitorResult{}, err
	}

	spec, err := bot.marketSpecs.Resolve(ctx, intent.Market)
	if err != nil {
		return domain.MonitorResult{}, err
	}

	if _, err := ClassifyAmountCurrency(spec, intent.AmountCurrency); err != nil {
		return domain.MonitorResult{}, err
	}

	targetPrice, err := bot.prices.ResolveTargetPrice(ctx, spec, intent.Side, intent.ExplicitPrice)
	if err != nil {
		return domain.MonitorResult{}, err
	}

	order, err := bot.submitter.Submit(ctx, intent, spec, targetPrice)
	if err != nil {
		var rejected *domain.OrderRejectedError
		if errors.As(err, &rejected) {
			subject := fmt.Sprintf("ERROR placing %s %s order: %s", strings.ToUpper(spec.BaseCurrency), intent.Side, rejected.Reason)
			bot.logger.Infof("%s\n%s", subject, rejected.Document())
			if notifyErr := bot.notifier.Publish(ctx, subject, rejected.Document()); notifyErr != nil {
				bot.logger.Warnf("notification %q not delivered: %v", subject, notifyErr)
				return domain.MonitorResult{Order: order, TargetPrice: targetPrice, NotifyErr: notifyErr}, errors.Join(err, notifyErr)
			}
		}
		return domain.MonitorResult{TargetPrice: targetPrice}, err
	}

	bot.logger.Infof("%s", order.Document())

	if bot.journal != nil {
		record := domain.NewOrderRecord(intent, order, targetPrice)
		if err := bot.journal.SaveOrder(ctx, &record); err != nil {
			bot.logger.Warnf("journal order %s: %v", order.OrderID, err)
		}
	}

	result, err := bot.monitor.Run(ctx, intent, spec, order, targetPrice)

	if bot.journal != nil && result.State.IsTerminal() {
		if journalErr := bot.journal.UpdateOrder(ctx, order.OrderID, result.State, result.Order.RemainingAmount); journalErr != nil {
			bot.logger.Warnf("journal order %s: %v", order.OrderID, journalErr)
		}
	}

	return result, err
}
