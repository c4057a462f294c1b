package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/legendiguess/gemini-dca-bot/domain"
)

type Notifier interface {
	Publish(ctx context.Context, subject string, body string) error
}

type MultiNotifier []Notifier

// Publish delivers to every channel even if some fail; the failures are joined.
func (notifiers MultiNotifier) Publish(ctx context.Context, subject string, body string) error {
	var errs []error
	for _, notifier := range notifiers {
		if err := notifier.Publish(ctx, subject, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type notificationLogger interface {
	Infof(format string, args ...interface{})
}

// LogNotifier writes notifications to the log, used when no channel is configured.
type LogNotifier struct {
	logger notificationLogger
}

func NewLogNotifier(logger notificationLogger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (notifier *LogNotifier) Publish(_ context.Context, subject string, body string) error {
	notifier.logger.Infof("notification: %s\n%s", subject, body)
	return nil
}

func notificationError(channel string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrNotification, channel, err)
}
