// Package core provides money parsing and handling utilities.
//
// Amounts are carried as integer cents. shopspring/decimal is used at the
// edges, when parsing user input, encoding JSON and formatting for display.
package core

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// ParseMoney converts a decimal string to Money with half-up rounding to
// cents.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Signed,
// zero and malformed values are rejected with ErrInvalidAmount.
//
// Examples:
//
//	ParseMoney("12.34")  -> {1234}, nil
//	ParseMoney("12,34")  -> {1234}, nil
//	ParseMoney("12.345") -> {1235}, nil (rounds up)
//	ParseMoney("12.344") -> {1234}, nil (rounds down)
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	m, ok := moneyFromDecimal(d)
	if !ok || m.Cents <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return m, nil
}

// Units returns an amount of whole currency units.
func Units(n int64) Money {
	return Money{Cents: n * 100}
}

var (
	maxCents = decimal.NewFromInt(1 << 62)
	minCents = decimal.NewFromInt(-(1 << 62))
)

func moneyFromDecimal(d decimal.Decimal) (Money, bool) {
	cents := d.Shift(2).Round(0)
	if !cents.IsInteger() || cents.GreaterThan(maxCents) || cents.LessThan(minCents) {
		return Money{}, false
	}
	return Money{Cents: cents.IntPart()}, true
}

// Decimal returns the amount as a decimal in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String renders the amount with two decimals and no currency symbol.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON encodes the amount as a plain JSON number such as 12.50.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	parsed, ok := moneyFromDecimal(d)
	if !ok {
		return ErrInvalidAmount
	}
	*m = parsed
	return nil
}

// FormatCurrency renders the amount in en-US dollar notation, e.g.
// "$1,234.50" or "-$3.00".
func FormatCurrency(m Money) string {
	sign := ""
	cents := m.Cents
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%s.%02d", sign, humanize.Comma(cents/100), cents%100)
}
