package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// Loan is the starting state of a simulation: the outstanding balance,
	// the fixed monthly payment and the annual fractional rate (0.065 = 6.5%).
	Loan struct {
		Balance    decimal.Decimal
		Payment    decimal.Decimal
		AnnualRate decimal.Decimal
	}

	// ExtraPayment is a front-loaded rule: Amount is added to the principal
	// for the next Months months, then the rule expires.
	ExtraPayment struct {
		Months int
		Amount decimal.Decimal
	}

	// PeriodicPayment applies Amount every Period months for the life of the
	// loan (months 12, 24, 36, ... for Period=12).
	PeriodicPayment struct {
		Period int
		Amount decimal.Decimal
	}

	// ScheduleEntry is one simulated month of the payoff trace.
	ScheduleEntry struct {
		Month          time.Time
		Principal      decimal.Decimal
		Interest       decimal.Decimal
		Balance        decimal.Decimal
		TotalPrincipal decimal.Decimal // base principal + extra for the month
	}

	// ScheduleSummary holds the running totals for a completed simulation.
	ScheduleSummary struct {
		Months        int
		PayoffMonth   time.Time
		TotalPaid     decimal.Decimal
		TotalInterest decimal.Decimal
	}
)

var (
	ErrInvalidBalance    = errors.New("balance must be positive")
	ErrInvalidPayment    = errors.New("payment must be positive")
	ErrInvalidRate       = errors.New("rate must be non-negative")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrNonConvergentLoan = errors.New("loan does not amortize: payment never exceeds accrued interest")
)

// Years returns the elapsed loan lifetime in years.
func (s ScheduleSummary) Years() float64 {
	return float64(s.Months) / 12.0
}

func (l Loan) Validate() error {
	if l.Balance.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidBalance
	}
	if l.Payment.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidPayment
	}
	if l.AnnualRate.IsNegative() {
		return ErrInvalidRate
	}
	return nil
}
