package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/legendiguess/gemini-dca-bot/domain"
	"github.com/legendiguess/gemini-dca-bot/handlers"
	"github.com/legendiguess/gemini-dca-bot/services"
	"github.com/legendiguess/gemini-dca-bot/storage"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type orderJournal interface {
	SaveOrder(ctx context.Context, record *domain.OrderRecord) error
	UpdateOrder(ctx context.Context, orderID string, state domain.OrderState, remaining decimal.Decimal) error
	RecentOrders(ctx context.Context, limit int) ([]domain.OrderRecord, error)
}

func main() {
	os.Exit(run())
}

func run() int {
	logger := log.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if opts.needsConfirmation() && !confirm(os.Stdin, os.Stdout) {
		fmt.Println("Exiting without submitting purchase.")
		return 0
	}

	credentials, err := storage.LoadCredentials(opts.configFile, opts.sandbox)
	if err != nil {
		logger.Errorf("%v", err)
		return 1
	}

	logLevel := opts.logLevel
	if logLevel == "" {
		logLevel = credentials.GetLogLevel()
	}
	if logLevel != "" {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			logger.Errorf("%v", err)
			return 2
		}
		logger.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier, err := newNotifier(ctx, credentials, logger)
	if err != nil {
		logger.Errorf("%v", err)
		return 1
	}

	var journal orderJournal
	if dsn := credentials.GetDatabaseDSN(); dsn != "" {
		orderStorage, err := storage.New(dsn, logger)
		if err != nil {
			logger.Errorf("%v", err)
			return 1
		}
		defer orderStorage.Close()
		journal = orderStorage
	}

	tracker := services.NewOrderTracker()
	if opts.statusAddr != "" {
		server := handlers.NewServer(tracker, journal, logger)
		go func() {
			logger.Errorf("status server: %v", server.ListenAndServe(opts.statusAddr))
		}()
	}

	httpClient := services.NewHTTPClient(credentials)
	monitor := services.NewLifecycleMonitor(httpClient, notifier, tracker, logger, services.MonitorConfig{
		PollInterval: opts.pollInterval,
		WarnAfter:    opts.warnAfter,
	})
	bot := services.NewDCABot(
		services.NewMarketSpecResolver(httpClient, logger),
		services.NewPriceResolver(httpClient, logger),
		services.NewOrderSubmitter(httpClient, logger),
		monitor,
		notifier,
		journal,
		logger,
	)

	if credentials.IsSandbox() {
		logger.Infof("Running against sandbox %s", credentials.GetHTTPUrl())
	}

	result, err := bot.Run(ctx, opts.intent)
	if result.NotifyErr != nil {
		logger.Warnf("notification failed: %v", result.NotifyErr)
	}
	if err != nil {
		logger.Errorf("%v", err)
		return 1
	}

	return 0
}

func newNotifier(ctx context.Context, credentials *storage.Credentials, logger *log.Logger) (services.Notifier, error) {
	var notifiers services.MultiNotifier

	if credentials.GetSNSTopic() != "" {
		snsNotifier, err := services.NewSNSNotifier(ctx, credentials)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, snsNotifier)
	}

	if credentials.GetTelegramBotAPIToken() != "" {
		telegramNotifier, err := services.NewTelegramNotifier(credentials)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, telegramNotifier)
	}

	if len(notifiers) == 0 {
		logger.Warnf("No notification channel configured, notifications go to the log")
		return services.NewLogNotifier(logger), nil
	}

	return notifiers, nil
}
