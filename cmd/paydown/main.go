package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"paydown/internal/amortize"
	"paydown/internal/amqp"
	"paydown/internal/cli"
	"paydown/internal/config"
	"paydown/internal/core"
	"paydown/internal/log"
	"paydown/internal/storage"
)

// multiFlag collects repeatable string flags.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(value string) error {
	*m = append(*m, value)
	return nil
}

func main() {
	var (
		balanceFlag   = flag.String("balance", "", "remaining loan balance, e.g. 200000 or 199999,50")
		paymentFlag   = flag.String("payment", "", "fixed monthly payment")
		rateFlag      = flag.String("rate", "", "annual interest rate in percent, e.g. 4 or 6.5")
		startFlag     = flag.String("start", "", "first month of the schedule as YYYY-MM (default: current month)")
		maxMonthsFlag = flag.Int("max-months", 0, "simulation cap in months (default 1200)")
		verboseFlag   = flag.Bool("verbose", false, "print the full month-by-month schedule")
		saveFlag      = flag.String("save", "", "save the result as a named scenario")
		extraFlags    multiFlag
		periodicFlags multiFlag
	)
	flag.Var(&extraFlags, "extra-payments", "front-loaded extra payment as COUNT:AMOUNT, repeatable")
	flag.Var(&periodicFlags, "periodic-payments", "recurring extra payment as PERIOD:AMOUNT, repeatable")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentCLI)

	input, err := buildInput(*balanceFlag, *paymentFlag, *rateFlag, *startFlag, *maxMonthsFlag, extraFlags, periodicFlags)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		flag.Usage()
		os.Exit(2)
	}

	result, err := amortize.Simulate(*input)
	if err != nil {
		if errors.Is(err, core.ErrNonConvergentLoan) {
			fmt.Fprintf(os.Stderr, "Error: the loan never pays off within %d months; the payment does not cover the interest\n", maxMonthsOrDefault(*maxMonthsFlag))
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	if *verboseFlag {
		printSchedule(result)
	}
	printSummary(result)

	if *saveFlag != "" {
		if err := saveScenario(logger, *saveFlag, input, result, extraFlags, periodicFlags); err != nil {
			logger.Error("Failed to save scenario", "error", err, "scenario_name", *saveFlag)
			os.Exit(1)
		}
	}
}

func maxMonthsOrDefault(maxMonths int) int {
	if maxMonths > 0 {
		return maxMonths
	}
	return amortize.DefaultMaxMonths
}

func buildInput(balance, payment, rate, start string, maxMonths int, extras, periodics []string) (*amortize.Input, error) {
	if balance == "" || payment == "" || rate == "" {
		return nil, errors.New("--balance, --payment and --rate are required")
	}

	loan := core.Loan{}
	var err error
	if loan.Balance, err = core.ParseAmount(balance); err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}
	if loan.Payment, err = core.ParseAmount(payment); err != nil {
		return nil, fmt.Errorf("payment: %w", err)
	}
	if loan.AnnualRate, err = core.ParseRatePercent(rate); err != nil {
		return nil, fmt.Errorf("rate: %w", err)
	}

	extraRules, err := amortize.ParseExtraSpecs(extras)
	if err != nil {
		return nil, err
	}
	periodicRules, err := amortize.ParsePeriodicSpecs(periodics)
	if err != nil {
		return nil, err
	}

	var startMonth time.Time
	if start != "" {
		startMonth, err = time.Parse("2006-01", start)
		if err != nil {
			return nil, fmt.Errorf("start month %q: expected YYYY-MM", start)
		}
	}

	return &amortize.Input{
		Loan:             loan,
		ExtraPayments:    extraRules,
		PeriodicPayments: periodicRules,
		StartMonth:       startMonth,
		MaxMonths:        maxMonths,
	}, nil
}

func printSchedule(result *amortize.Result) {
	fmt.Printf("%-8s  %14s  %14s  %16s  %16s\n",
		"Month", "Principal", "Interest", "Total principal", "Balance")
	for _, e := range result.Entries {
		fmt.Printf("%-8s  %14s  %14s  %16s  %16s\n",
			e.Month.Format("2006-01"),
			core.FormatAmount(e.Principal),
			core.FormatAmount(e.Interest),
			core.FormatAmount(e.TotalPrincipal),
			core.FormatAmount(e.Balance))
	}
	fmt.Println()
}

func printSummary(result *amortize.Result) {
	s := result.Summary
	fmt.Printf("Months to payoff: %d (%.1f years)\n", s.Months, s.Years())
	fmt.Printf("Payoff month:     %s\n", s.PayoffMonth.Format("2006-01"))
	fmt.Printf("Total paid:       %s\n", core.FormatAmount(s.TotalPaid))
	fmt.Printf("Total interest:   %s\n", core.FormatAmount(s.TotalInterest))
}

// saveScenario persists the result and queues it for sheet export. AMQP is
// best-effort: when the broker is unreachable the scenario stays pending and
// the worker's periodic scan picks it up.
func saveScenario(logger *log.Logger, name string, input *amortize.Input, result *amortize.Result, extras, periodics []string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer repo.Close()

	ctx := context.Background()
	startMonth := input.StartMonth
	if startMonth.IsZero() {
		startMonth = result.Entries[0].Month
	}

	id, err := repo.SaveScenario(ctx, storage.Scenario{
		Name:          name,
		Loan:          input.Loan,
		ExtraSpecs:    strings.Join(extras, ","),
		PeriodicSpecs: strings.Join(periodics, ","),
		StartMonth:    startMonth,
		Months:        result.Summary.Months,
		PayoffMonth:   result.Summary.PayoffMonth,
		TotalPaid:     result.Summary.TotalPaid,
		TotalInterest: result.Summary.TotalInterest,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Saved scenario %q (id %d)\n", name, id)

	if cfg.AMQPURL == "" {
		return nil
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, scenario will sync via periodic scan", "error", err)
		return nil
	}
	defer amqpClient.Close()

	if err := amqpClient.PublishScenarioSync(ctx, id, 1); err != nil {
		logger.Warn("Failed to publish sync message, scenario will sync via periodic scan", "error", err)
	}
	return nil
}
