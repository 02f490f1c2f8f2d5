package amortize

import (
	"errors"
	"strings"
	"testing"
)

func TestParseExtraSpecs(t *testing.T) {
	rules, err := ParseExtraSpecs([]string{"3:100", "12:50.25", " 6 : 75,50 "})
	if err != nil {
		t.Fatalf("ParseExtraSpecs() error = %v", err)
	}
	if len(rules) != 3 {
		t.Fatalf("len(rules) = %d, want 3", len(rules))
	}
	if rules[0].Months != 3 || !rules[0].Amount.Equal(dec("100")) {
		t.Errorf("rules[0] = %+v, want 3 months of 100", rules[0])
	}
	if rules[1].Months != 12 || !rules[1].Amount.Equal(dec("50.25")) {
		t.Errorf("rules[1] = %+v, want 12 months of 50.25", rules[1])
	}
	if rules[2].Months != 6 || !rules[2].Amount.Equal(dec("75.50")) {
		t.Errorf("rules[2] = %+v, want 6 months of 75.50", rules[2])
	}
}

func TestParsePeriodicSpecs(t *testing.T) {
	rules, err := ParsePeriodicSpecs([]string{"12:500"})
	if err != nil {
		t.Fatalf("ParsePeriodicSpecs() error = %v", err)
	}
	if rules[0].Period != 12 || !rules[0].Amount.Equal(dec("500")) {
		t.Errorf("rules[0] = %+v, want every 12 months of 500", rules[0])
	}
}

func TestParseSpecs_BadTokens(t *testing.T) {
	bad := []string{
		"",
		"100",
		":100",
		"3:",
		"0:100",
		"-3:100",
		"three:100",
		"3:-100",
		"3:abc",
	}

	for _, tok := range bad {
		t.Run(tok, func(t *testing.T) {
			_, err := ParseExtraSpecs([]string{tok})
			var specErr *ErrInvalidPaymentSpec
			if !errors.As(err, &specErr) {
				t.Fatalf("ParseExtraSpecs(%q) error = %v, want ErrInvalidPaymentSpec", tok, err)
			}
			if !strings.Contains(specErr.Error(), tok) {
				t.Errorf("error %q does not name token %q", specErr.Error(), tok)
			}
		})
	}
}

func TestParseSpecs_FirstBadTokenAborts(t *testing.T) {
	_, err := ParsePeriodicSpecs([]string{"12:500", "bogus", "6:50"})
	var specErr *ErrInvalidPaymentSpec
	if !errors.As(err, &specErr) {
		t.Fatalf("error = %v, want ErrInvalidPaymentSpec", err)
	}
	if specErr.Token != "bogus" {
		t.Errorf("Token = %q, want %q", specErr.Token, "bogus")
	}
}
