package amortize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"paydown/internal/core"
)

// ErrInvalidPaymentSpec wraps a malformed COUNT:AMOUNT or PERIOD:AMOUNT token.
type ErrInvalidPaymentSpec struct {
	Token string
}

func (e *ErrInvalidPaymentSpec) Error() string {
	return fmt.Sprintf("invalid payment spec %q: expected COUNT:AMOUNT", e.Token)
}

// ParseExtraSpecs parses repeatable COUNT:AMOUNT tokens into front-loaded
// extra-payment rules. "3:100" pays 100 extra for the first three months.
func ParseExtraSpecs(tokens []string) ([]core.ExtraPayment, error) {
	rules := make([]core.ExtraPayment, 0, len(tokens))
	for _, tok := range tokens {
		count, amount, err := splitSpec(tok)
		if err != nil {
			return nil, err
		}
		rules = append(rules, core.ExtraPayment{Months: count, Amount: amount})
	}
	return rules, nil
}

// ParsePeriodicSpecs parses repeatable PERIOD:AMOUNT tokens into periodic
// extra-payment rules. "12:500" pays 500 extra every twelfth month.
func ParsePeriodicSpecs(tokens []string) ([]core.PeriodicPayment, error) {
	rules := make([]core.PeriodicPayment, 0, len(tokens))
	for _, tok := range tokens {
		period, amount, err := splitSpec(tok)
		if err != nil {
			return nil, err
		}
		rules = append(rules, core.PeriodicPayment{Period: period, Amount: amount})
	}
	return rules, nil
}

func splitSpec(tok string) (int, decimal.Decimal, error) {
	left, right, ok := strings.Cut(strings.TrimSpace(tok), ":")
	if !ok {
		return 0, decimal.Zero, &ErrInvalidPaymentSpec{Token: tok}
	}
	n, err := strconv.Atoi(strings.TrimSpace(left))
	if err != nil || n < 1 {
		return 0, decimal.Zero, &ErrInvalidPaymentSpec{Token: tok}
	}
	amount, err := core.ParseAmount(right)
	if err != nil {
		return 0, decimal.Zero, &ErrInvalidPaymentSpec{Token: tok}
	}
	return n, amount, nil
}
