// Package money represents currency amounts as integer minor units (cents).
package money

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Cents is an amount in minor currency units.
type Cents int64

// MaxCents bounds every parsed amount in either direction. It leaves room to
// add tax and shipping to any admitted amount without overflowing int64.
const MaxCents Cents = 100_000_000_000_000

var (
	// ErrInvalidAmount is returned when an amount cannot be parsed.
	ErrInvalidAmount = errors.New("money: invalid amount")
	// ErrTooPrecise is returned when an amount has more than two fractional digits.
	ErrTooPrecise = errors.New("money: more than two decimal places")
)

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(int64(MaxCents))
)

// Parse reads a decimal string such as "100.01".
func Parse(s string) (Cents, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return FromDecimal(d)
}

// FromDecimal converts an exact decimal amount to cents.
func FromDecimal(d decimal.Decimal) (Cents, error) {
	scaled := d.Mul(hundred)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s", ErrTooPrecise, d.String())
	}
	if scaled.Abs().GreaterThan(maxCents) {
		return 0, fmt.Errorf("%w: %s exceeds %s", ErrInvalidAmount, d.String(), MaxCents.String())
	}
	return Cents(scaled.IntPart()), nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Cents {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String formats with exactly two fractional digits.
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// Short drops trailing fractional zeros: 100.00 -> "100", 100.50 -> "100.5".
func (c Cents) Short() string {
	return c.Decimal().String()
}

// ApplyBasisPoints returns c * bp / 10000 rounded half away from zero.
func (c Cents) ApplyBasisPoints(bp int64) Cents {
	v := decimal.NewFromInt(int64(c)).Mul(decimal.NewFromInt(bp)).Div(decimal.NewFromInt(10000)).Round(0)
	return Cents(v.IntPart())
}

func (c Cents) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts a decimal string or a JSON number.
func (c *Cents) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidAmount, data)
		}
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
