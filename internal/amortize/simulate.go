// Package amortize simulates month-by-month payoff of a fixed-payment loan,
// optionally accelerated by front-loaded and periodic extra principal
// payments.
package amortize

import (
	"time"

	"github.com/shopspring/decimal"

	"paydown/internal/core"
)

// DefaultMaxMonths caps the simulation at 100 years. A loan whose payment
// never exceeds the accrued monthly interest would otherwise run forever.
const DefaultMaxMonths = 1200

var twelve = decimal.NewFromInt(12)

// Input describes one simulation run.
type Input struct {
	Loan             core.Loan
	ExtraPayments    []core.ExtraPayment
	PeriodicPayments []core.PeriodicPayment

	// StartMonth seeds the calendar; the zero value means the current month.
	StartMonth time.Time

	// MaxMonths overrides DefaultMaxMonths when positive.
	MaxMonths int
}

// Result is the full payoff trace plus the accumulated summary.
type Result struct {
	Entries []core.ScheduleEntry
	Summary core.ScheduleSummary
}

// Simulate runs the payoff simulation until the balance reaches exactly zero.
//
// Each month: interest accrues at rate/12 on the open balance, the fixed
// payment less interest is applied to principal, then active extra-payment
// rules contribute additional principal. A payment is never allowed to drive
// the balance negative; the final month is clipped so the balance lands on
// zero. Returns core.ErrNonConvergentLoan if the balance is still open after
// MaxMonths.
func Simulate(in Input) (*Result, error) {
	if err := in.Loan.Validate(); err != nil {
		return nil, err
	}

	start := in.StartMonth
	if start.IsZero() {
		start = core.CurrentMonth(time.Now())
	}
	maxMonths := in.MaxMonths
	if maxMonths <= 0 {
		maxMonths = DefaultMaxMonths
	}

	balance := in.Loan.Balance
	monthlyRate := in.Loan.AnnualRate.Div(twelve)

	// Front-loaded rules are consumed as the simulation advances; copy so the
	// caller's slice is left untouched.
	front := make([]core.ExtraPayment, len(in.ExtraPayments))
	copy(front, in.ExtraPayments)

	var (
		entries       []core.ScheduleEntry
		totalInterest decimal.Decimal
		totalPaid     decimal.Decimal
		month         time.Time
	)

	for idx := 1; balance.IsPositive(); idx++ {
		if idx > maxMonths {
			return nil, core.ErrNonConvergentLoan
		}
		month = core.MonthAt(start, idx-1)

		interest := balance.Mul(monthlyRate)
		principal := in.Loan.Payment.Sub(interest)

		// Apply front-loaded rules in input order, rebuilding the surviving
		// set rather than removing entries mid-iteration.
		extra := decimal.Zero
		next := front[:0]
		for _, rule := range front {
			if rule.Months < 1 {
				continue
			}
			extra = extra.Add(rule.Amount)
			rule.Months--
			if rule.Months > 0 {
				next = append(next, rule)
			}
		}
		front = next

		for _, rule := range in.PeriodicPayments {
			if rule.Period < 1 {
				continue
			}
			if idx%rule.Period == 0 {
				extra = extra.Add(rule.Amount)
			}
		}

		// Clip so the balance never goes negative. When the base payment
		// alone covers the remainder, the extras are moot.
		if principal.GreaterThanOrEqual(balance) {
			principal = balance
			extra = decimal.Zero
		} else if principal.Add(extra).GreaterThan(balance) {
			extra = balance.Sub(principal)
		}

		balance = balance.Sub(principal.Add(extra))
		totalInterest = totalInterest.Add(interest)
		totalPaid = totalPaid.Add(interest).Add(principal).Add(extra)

		entries = append(entries, core.ScheduleEntry{
			Month:          month,
			Principal:      principal,
			Interest:       interest,
			Balance:        balance,
			TotalPrincipal: principal.Add(extra),
		})
	}

	return &Result{
		Entries: entries,
		Summary: core.ScheduleSummary{
			Months:        len(entries),
			PayoffMonth:   month,
			TotalPaid:     totalPaid,
			TotalInterest: totalInterest,
		},
	}, nil
}
