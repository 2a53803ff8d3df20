package util

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a request amount string into a positive two-decimal value.
func ParseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount is empty")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be positive, got %s", d)
	}
	if d.Exponent() < -2 {
		return decimal.Zero, fmt.Errorf("amount %s has more than two decimal places", d)
	}
	if d.GreaterThanOrEqual(decimal.NewFromInt(10_000_000)) {
		return decimal.Zero, fmt.Errorf("amount too large, got %s", d)
	}
	return d, nil
}

// ParseDate parses a request date in YYYY-MM-DD form.
func ParseDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %w", err)
	}
	return t, nil
}

// ValidateEmail checks the minimal shape of an email address.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is empty")
	}
	at := -1
	for i, ch := range email {
		if ch == '@' {
			if at >= 0 {
				return fmt.Errorf("invalid email %q", email)
			}
			at = i
		}
	}
	if at <= 0 || at == len(email)-1 {
		return fmt.Errorf("invalid email %q", email)
	}
	return nil
}
