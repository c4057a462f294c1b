package services

import (
	"context"
	"fmt"
	"time"

	"github.com/legendiguess/gemini-dca-bot/domain"
	"github.com/shopspring/decimal"
)

const (
	DefaultPollInterval = 60 * time.Second
	DefaultWarnAfter    = 300 * time.Second
)

type orderStatusClient interface {
	OrderStatus(ctx context.Context, orderID string) (domain.LiveOrder, error)
}

type orderObserver interface {
	Observe(order domain.LiveOrder, state domain.OrderState)
}

type monitorLogger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

type Sleeper interface {
	Sleep(d time.Duration)
}

type SleeperFunc func(d time.Duration)

func (sleep SleeperFunc) Sleep(d time.Duration) {
	sleep(d)
}

type MonitorConfig struct {
	PollInterval time.Duration
	WarnAfter    time.Duration
	Sleeper      Sleeper
}

// LifecycleMonitor watches a submitted order until it fills, gets cancelled
// or stays open past the warning threshold. It never changes the order on the exchange.
type LifecycleMonitor struct {
	client       orderStatusClient
	notifier     Notifier
	observer     orderObserver
	logger       monitorLogger
	sleeper      Sleeper
	pollInterval time.Duration
	warnAfter    time.Duration
}

func NewLifecycleMonitor(client orderStatusClient, notifier Notifier, observer orderObserver, logger monitorLogger, config MonitorConfig) *LifecycleMonitor {
	monitor := LifecycleMonitor{
		client:       client,
		notifier:     notifier,
		observer:     observer,
		logger:       logger,
		sleeper:      config.Sleeper,
		pollInterval: config.PollInterval,
		warnAfter:    config.WarnAfter,
	}

	if monitor.sleeper == nil {
		monitor.sleeper = SleeperFunc(time.Sleep)
	}
	if monitor.pollInterval <= 0 {
		monitor.pollInterval = DefaultPollInterval
	}

	return &monitor
}

// Run starts from the submission answer; the first status poll happens after one interval.
func (monitor *LifecycleMonitor) Run(ctx context.Context, intent domain.OrderIntent, spec domain.MarketSpec, order domain.LiveOrder, targetPrice decimal.Decimal) (domain.MonitorResult, error) {
	result := domain.MonitorResult{State: domain.OrderStatePending, Order: order, TargetPrice: targetPrice}
	monitor.observe(result)

	for !result.Order.IsFilled() {
		if result.Elapsed > monitor.warnAfter {
			result.State = domain.OrderStateTimedOut
			monitor.observe(result)
			result.NotifyErr = monitor.notify(ctx, fmt.Sprintf("%s OPEN/UNFILLED", intent.Describe()), result.Order)
			return result, fmt.Errorf("%w: order %s open after %s", domain.ErrMonitorTimeout, result.Order.OrderID, result.Elapsed)
		}

		if result.Order.IsCancelled {
			result.State = domain.OrderStateCancelled
			monitor.observe(result)
			result.NotifyErr = monitor.notify(ctx, fmt.Sprintf("%s CANCELLED", intent.Describe()), result.Order)
			return result, fmt.Errorf("%w: order %s", domain.ErrOrderCancelledExternally, result.Order.OrderID)
		}

		monitor.logger.Infof("Order %s still pending. Sleeping for %s (total %s)", result.Order.OrderID, monitor.pollInterval, result.Elapsed)
		monitor.sleeper.Sleep(monitor.pollInterval)
		result.Elapsed += monitor.pollInterval

		status, err := monitor.client.OrderStatus(ctx, result.Order.OrderID)
		result.Polls++
		if err != nil {
			return result, fmt.Errorf("poll order %s: %w", result.Order.OrderID, err)
		}
		result.Order = status
		monitor.observe(result)
	}

	result.State = domain.OrderStateFilled
	monitor.observe(result)

	subject := fmt.Sprintf("%s complete @ %s %s", intent.Describe(), targetPrice, spec.QuoteCurrency)
	monitor.logger.Infof("%s", subject)
	result.NotifyErr = monitor.notify(ctx, subject, result.Order)

	return result, nil
}

func (monitor *LifecycleMonitor) observe(result domain.MonitorResult) {
	if monitor.observer != nil {
		monitor.observer.Observe(result.Order, result.State)
	}
}

func (monitor *LifecycleMonitor) notify(ctx context.Context, subject string, order domain.LiveOrder) error {
	err := monitor.notifier.Publish(ctx, subject, order.Document())
	if err != nil {
		monitor.logger.Warnf("notification %q not delivered: %v", subject, err)
	}
	return err
}
