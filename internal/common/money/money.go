// Package money implements a fixed-point monetary amount with two
// fractional digits, stored as an integer number of cents. Binary floating
// point is never used, so sums of amounts are exact.
package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Amount int64

var (
	ErrMalformed        = errors.New("malformed monetary amount")
	ErrTooManyFractions = errors.New("amount has more than two fractional digits")
	ErrOutOfRange       = errors.New("amount out of range")
)

func FromCents(cents int64) Amount {
	return Amount(cents)
}

func (a Amount) Cents() int64 {
	return int64(a)
}

// Parse converts a decimal string such as "200", "75.5" or "0.01" into an
// Amount. More than two fractional digits are rejected rather than rounded.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMalformed
	}

	negative := false
	if s[0] == '+' || s[0] == '-' {
		negative = s[0] == '-'
		s = s[1:]
	}

	whole := s
	frac := ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		whole = s[:idx]
		frac = s[idx+1:]
	}

	if whole == "" && frac == "" {
		return 0, ErrMalformed
	}
	// Only bare digits past this point; ParseInt alone would let a stray
	// sign inside either part slip through ("1.-5", "--5").
	if !allDigits(whole) || !allDigits(frac) {
		return 0, ErrMalformed
	}
	if len(frac) > 2 {
		return 0, ErrTooManyFractions
	}
	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrMalformed
	}

	cents := int64(0)
	if frac != "" {
		parsed, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, ErrMalformed
		}
		cents = parsed
		if len(frac) == 1 {
			cents *= 10
		}
	}

	if units > (1<<62)/100 {
		return 0, ErrOutOfRange
	}

	total := units*100 + cents
	if negative {
		total = -total
	}

	return Amount(total), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MustParse is for constants in wiring and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("money: %v: %q", err, s))
	}
	return a
}

func (a Amount) Add(b Amount) Amount {
	return a + b
}

func (a Amount) Sub(b Amount) Amount {
	return a - b
}

func (a Amount) IsPositive() bool {
	return a > 0
}

func (a Amount) IsNegative() bool {
	return a < 0
}

func (a Amount) LessThan(b Amount) bool {
	return a < b
}

// String renders the amount with exactly two fractional digits.
func (a Amount) String() string {
	cents := int64(a)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// MarshalJSON emits a plain JSON number with two decimals, e.g. 425.00.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	parsed, err := Parse(s)
	if err != nil {
		return err
	}

	*a = parsed
	return nil
}
