package models

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/charles-oliveira/web-2/apperr"
	"github.com/shopspring/decimal"
)

// MaxAmountCents is the largest amount a single transaction may carry
// (10 digits, 2 of them fractional).
const MaxAmountCents int64 = 9_999_999_999

var maxAmount = decimal.New(MaxAmountCents, -2)

// Money is a fixed-point amount with two fractional digits, held as integer
// cents so sums never drift.
type Money struct {
	Cents int64
}

// NewMoney builds an amount from integer cents.
func NewMoney(cents int64) Money {
	return Money{Cents: cents}
}

// ParseMoney parses a decimal string such as "12.34" or "12,34". Digits past
// the second fractional place are rounded half-up.
func ParseMoney(s string) (Money, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return Money{}, apperr.New(apperr.Validation, "amount is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, apperr.New(apperr.Validation, "invalid amount %q", s)
	}
	return moneyFromDecimal(d)
}

func moneyFromDecimal(d decimal.Decimal) (Money, error) {
	d = d.Round(2)
	if d.Abs().GreaterThan(maxAmount) {
		return Money{}, apperr.New(apperr.Validation, "amount must not exceed %s", maxAmount.StringFixed(2))
	}
	return Money{Cents: d.Shift(2).IntPart()}, nil
}

// Decimal returns the amount as an exact decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

func (m Money) IsZero() bool {
	return m.Cents == 0
}

// Validate checks the amount is usable on a transaction.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return apperr.New(apperr.Validation, "amount must be greater than zero")
	}
	if m.Cents > MaxAmountCents {
		return apperr.New(apperr.Validation, "amount must not exceed %s", maxAmount.StringFixed(2))
	}
	return nil
}

// MarshalJSON encodes the amount as a decimal string ("100.00").
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts a JSON string or number.
func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*m = Money{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return apperr.Wrap(apperr.Validation, err, "invalid amount")
		}
		parsed, err := ParseMoney(s)
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	}
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return apperr.New(apperr.Validation, "invalid amount %s", string(b))
	}
	parsed, err := moneyFromDecimal(d)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
