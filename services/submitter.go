package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/legendiguess/gemini-dca-bot/domain"
	"github.com/shopspring/decimal"
)

type orderClient interface {
	NewOrder(ctx context.Context, request NewOrderRequest) (domain.LiveOrder, error)
}

type submitterLogger interface {
	Infof(format string, args ...interface{})
}

type OrderSubmitter struct {
	client        orderClient
	logger        submitterLogger
	clientOrderID func() string
}

func NewOrderSubmitter(client orderClient, logger submitterLogger) *OrderSubmitter {
	return &OrderSubmitter{
		client:        client,
		logger:        logger,
		clientOrderID: uuid.NewString,
	}
}

// BaseAmount converts the intent amount into base units quantized to the base increment.
func BaseAmount(amount decimal.Decimal, denomination domain.Denomination, targetPrice decimal.Decimal, baseIncrement decimal.Decimal) decimal.Decimal {
	if denomination == domain.DenominationQuote {
		amount = amount.Div(targetPrice)
	}
	return domain.RoundToIncrement(amount, baseIncrement, domain.RoundHalfEven)
}

func (submitter *OrderSubmitter) Resolve(intent domain.OrderIntent, spec domain.MarketSpec, targetPrice decimal.Decimal) (domain.ResolvedOrder, error) {
	denomination, err := ClassifyAmountCurrency(spec, intent.AmountCurrency)
	if err != nil {
		return domain.ResolvedOrder{}, err
	}
	if !targetPrice.IsPositive() {
		return domain.ResolvedOrder{}, fmt.Errorf("target price must be positive, got %s", targetPrice)
	}

	return domain.ResolvedOrder{
		TargetPrice: targetPrice,
		BaseAmount:  BaseAmount(intent.Amount, denomination, targetPrice, spec.BaseIncrement),
	}, nil
}

// Submit places a maker-or-cancel limit order. The base amount is not checked
// against the market minimum; the exchange rejects orders that are too small.
func (submitter *OrderSubmitter) Submit(ctx context.Context, intent domain.OrderIntent, spec domain.MarketSpec, targetPrice decimal.Decimal) (domain.LiveOrder, error) {
	resolved, err := submitter.Resolve(intent, spec, targetPrice)
	if err != nil {
		return domain.LiveOrder{}, err
	}

	submitter.logger.Infof("Submitting %s %s %s @ %s %s", intent.Side, resolved.BaseAmount, spec.BaseCurrency, resolved.TargetPrice, spec.QuoteCurrency)

	order, err := submitter.client.NewOrder(ctx, NewOrderRequest{
		Symbol:        spec.Symbol,
		Side:          intent.Side,
		Amount:        resolved.BaseAmount,
		Price:         resolved.TargetPrice,
		ClientOrderID: submitter.clientOrderID(),
	})
	if err != nil {
		var requestError *RequestError
		if errors.As(err, &requestError) {
			return domain.LiveOrder{}, &domain.OrderRejectedError{
				StatusCode: requestError.StatusCode,
				Reason:     requestError.Reason,
				Message:    requestError.Message,
				Payload:    requestError.Body,
			}
		}
		return domain.LiveOrder{}, fmt.Errorf("submit order: %w", err)
	}

	return order, nil
}
