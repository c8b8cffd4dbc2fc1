package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
)

// MaxUnits is the largest display exponent a 256-bit planck value can carry a
// whole unit for.
const MaxUnits = 38

// Planck is an amount in the chain's smallest indivisible denomination.
type Planck struct {
	v uint256.Int
}

// Zero returns a zero amount.
func Zero() Planck { return Planck{} }

// FromUint64 wraps a plain integer amount.
func FromUint64(n uint64) Planck {
	var p Planck
	p.v.SetUint64(n)
	return p
}

// Parse reads a base-10 planck integer as stored in the database.
func Parse(s string) (Planck, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Planck{}, nil
	}
	var p Planck
	if err := p.v.SetFromDecimal(s); err != nil {
		return Planck{}, fmt.Errorf("parse planck %q: %w", s, err)
	}
	return p, nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Planck {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Planck) String() string { return p.v.Dec() }

func (p Planck) IsZero() bool { return p.v.IsZero() }

func (p Planck) Cmp(o Planck) int { return p.v.Cmp(&o.v) }

func (p Planck) Add(o Planck) Planck {
	var out Planck
	out.v.Add(&p.v, &o.v)
	return out
}

func (p Planck) MulUint64(n uint64) Planck {
	var out Planck
	out.v.Mul(&p.v, uint256.NewInt(n))
	return out
}

// Sub returns p-o floored at zero.
func (p Planck) Sub(o Planck) Planck {
	if p.Cmp(o) <= 0 {
		return Planck{}
	}
	var out Planck
	out.v.Sub(&p.v, &o.v)
	return out
}

// Min returns the smaller of p and o.
func (p Planck) Min(o Planck) Planck {
	if p.Cmp(o) <= 0 {
		return p
	}
	return o
}

// ToUnit converts a planck amount to display units. The result is for display
// and bound arithmetic in the form only; submissions convert back with FromUnit.
func ToUnit(p Planck, exp uint8) float64 {
	f, err := strconv.ParseFloat(p.v.Dec(), 64)
	if err != nil {
		return 0
	}
	return f / math.Pow10(int(exp))
}

// FromUnit converts a display amount to planck. The amount is first rendered
// with exactly exp fractional digits so float noise below one planck is dropped.
// Negative and non-finite amounts convert to zero.
func FromUnit(amount float64, exp uint8) Planck {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Planck{}
	}
	p, err := ParseUnit(strconv.FormatFloat(amount, 'f', int(exp), 64), exp)
	if err != nil {
		return Planck{}
	}
	return p
}

// ParseUnit converts a decimal display string such as "12.5" to planck without
// going through floating point. Digits beyond exp are truncated.
func ParseUnit(s string, exp uint8) (Planck, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Planck{}, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(s, "-") {
		return Planck{}, fmt.Errorf("negative amount %q", s)
	}
	s = strings.TrimPrefix(s, "+")
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if !digitsOnly(whole) || !digitsOnly(frac) {
		return Planck{}, fmt.Errorf("invalid amount %q", s)
	}
	if len(frac) > int(exp) {
		frac = frac[:exp]
	}
	frac += strings.Repeat("0", int(exp)-len(frac))
	digits := strings.TrimLeft(whole+frac, "0")
	if digits == "" {
		return Planck{}, nil
	}
	return Parse(digits)
}

// Format renders p in display units with at most maxFrac fractional digits,
// trailing zeros trimmed.
func Format(p Planck, exp uint8, maxFrac int) string {
	dec := p.v.Dec()
	e := int(exp)
	if len(dec) <= e {
		dec = strings.Repeat("0", e-len(dec)+1) + dec
	}
	whole, frac := dec[:len(dec)-e], dec[len(dec)-e:]
	if maxFrac >= 0 && len(frac) > maxFrac {
		frac = frac[:maxFrac]
	}
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

// FormatUnit renders a display amount the way the bond input shows it.
func FormatUnit(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
