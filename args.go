package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/legendiguess/gemini-dca-bot/domain"
	"github.com/legendiguess/gemini-dca-bot/services"
	"github.com/shopspring/decimal"
)

const usage = `Basic Gemini DCA buying/selling bot.

usage: dcabot [flags] MARKET BUY|SELL AMOUNT AMOUNT_CURRENCY

ex:
    BTCUSD BUY 14 USD          (buy $14 worth of BTC)
    BTCUSD BUY 0.00125 BTC     (buy 0.00125 BTC)
    ETHBTC SELL 0.00125 BTC    (sell 0.00125 BTC worth of ETH)
    ETHBTC SELL 0.1 ETH        (sell 0.1 ETH)

flags:
`

type options struct {
	intent       domain.OrderIntent
	sandbox      bool
	job          bool
	configFile   string
	warnAfter    time.Duration
	pollInterval time.Duration
	statusAddr   string
	logLevel     string
}

func parseArgs(args []string, output io.Writer) (options, error) {
	var (
		opts         options
		warnAfter    int
		pollInterval int
		price        string
	)

	flags := flag.NewFlagSet("dcabot", flag.ContinueOnError)
	flags.SetOutput(output)
	flags.Usage = func() {
		fmt.Fprint(output, usage)
		flags.PrintDefaults()
	}

	flags.BoolVar(&opts.sandbox, "sandbox", false, "Run against sandbox, skips user confirmation prompt")
	flags.IntVar(&warnAfter, "warn_after", int(services.DefaultWarnAfter/time.Second), "secs to wait before sending an alert that an order isn't done")
	flags.IntVar(&pollInterval, "poll_interval", int(services.DefaultPollInterval/time.Second), "secs between order status checks")
	flags.BoolVar(&opts.job, "job", false, "Suppresses user confirmation prompt")
	flags.BoolVar(&opts.job, "j", false, "Shorthand for -job")
	flags.StringVar(&opts.configFile, "config", "settings.yaml", "Override default config file location")
	flags.StringVar(&opts.configFile, "c", "settings.yaml", "Shorthand for -config")
	flags.StringVar(&price, "price", "", "Define the target price, rather than have midmarket price calculated")
	flags.StringVar(&price, "p", "", "Shorthand for -price")
	flags.StringVar(&opts.statusAddr, "status_addr", "", "Serve the order status API on this address (e.g. :5000)")
	flags.StringVar(&opts.logLevel, "log_level", "", "Log level, overrides the settings file")

	// Flags may follow the positional arguments.
	var positional []string
	if err := flags.Parse(args); err != nil {
		return options{}, err
	}
	for flags.NArg() > 0 {
		positional = append(positional, flags.Arg(0))
		if err := flags.Parse(flags.Args()[1:]); err != nil {
			return options{}, err
		}
	}

	if len(positional) != 4 {
		flags.Usage()
		return options{}, fmt.Errorf("expected 4 positional arguments, got %d", len(positional))
	}

	side, err := domain.ParseOrderSide(positional[1])
	if err != nil {
		return options{}, err
	}

	amount, err := decimal.NewFromString(positional[2])
	if err != nil {
		return options{}, fmt.Errorf("invalid amount %q: %w", positional[2], err)
	}

	opts.intent = domain.OrderIntent{
		Market:         positional[0],
		Side:           side,
		Amount:         amount,
		AmountCurrency: positional[3],
	}

	if price != "" {
		explicitPrice, err := decimal.NewFromString(price)
		if err != nil {
			return options{}, fmt.Errorf("invalid price %q: %w", price, err)
		}
		opts.intent.ExplicitPrice = &explicitPrice
	}

	if warnAfter < 0 || pollInterval <= 0 {
		return options{}, fmt.Errorf("warn_after must be >= 0 and poll_interval > 0")
	}
	opts.warnAfter = time.Duration(warnAfter) * time.Second
	opts.pollInterval = time.Duration(pollInterval) * time.Second

	if err := opts.intent.Validate(); err != nil {
		return options{}, err
	}

	return opts, nil
}

func (opts options) needsConfirmation() bool {
	return !opts.sandbox && !opts.job
}

func confirm(input io.Reader, output io.Writer) bool {
	fmt.Fprint(output, "Production purchase! Confirm [Y]: ")

	answer, err := bufio.NewReader(input).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}

	return strings.TrimSpace(answer) == "Y"
}
