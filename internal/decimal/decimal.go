// Package decimal wraps shopspring/decimal with the canonical string
// representation required on the wire: no trailing fractional zeros, no
// scientific notation, no binary floating point anywhere on the value path.
package decimal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidDecimal wraps any string that cannot be parsed as an exact
// decimal number.
var ErrInvalidDecimal = errors.New("invalid decimal")

// Decimal is an exact, arbitrary-precision decimal value.
type Decimal struct {
	d decimal.Decimal
}

// Zero is the additive identity.
var Zero = Decimal{d: decimal.Zero}

// Parse reads a decimal from its canonical or non-canonical string form.
func Parse(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("%w: %q: %v", ErrInvalidDecimal, s, err)
	}
	return Decimal{d: d}, nil
}

// Add returns a+b.
func (a Decimal) Add(b Decimal) Decimal { return Decimal{d: a.d.Add(b.d)} }

// Sub returns a-b.
func (a Decimal) Sub(b Decimal) Decimal { return Decimal{d: a.d.Sub(b.d)} }

// Cmp returns -1, 0, or 1 as a is less than, equal to, or greater than b.
func (a Decimal) Cmp(b Decimal) int { return a.d.Cmp(b.d) }

func (a Decimal) Eq(b Decimal) bool  { return a.d.Equal(b.d) }
func (a Decimal) Gt(b Decimal) bool  { return a.d.GreaterThan(b.d) }
func (a Decimal) Gte(b Decimal) bool { return a.d.GreaterThanOrEqual(b.d) }
func (a Decimal) Lt(b Decimal) bool  { return a.d.LessThan(b.d) }
func (a Decimal) Lte(b Decimal) bool { return a.d.LessThanOrEqual(b.d) }

// IsZero reports whether the value is exactly zero.
func (a Decimal) IsZero() bool { return a.d.IsZero() }

// Negative reports whether the value is strictly less than zero.
func (a Decimal) Negative() bool { return a.d.IsNegative() }

// Min returns the smaller of a and b.
func Min(a, b Decimal) Decimal {
	if a.Lte(b) {
		return a
	}
	return b
}

// String renders the canonical form: trailing fractional zeros and a
// trailing bare "." are trimmed, and "-0" collapses to "0".
func (a Decimal) String() string {
	s := a.d.String()
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" || s == "-0" {
		return "0"
	}
	return s
}

// MarshalJSON renders the canonical string form, quoted.
func (a Decimal) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts a quoted decimal string.
func (a *Decimal) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
