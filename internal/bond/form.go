package bond

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jask/stakedash/internal/chain"
	"github.com/jask/stakedash/internal/units"
)

// Draft is the bond amount being edited, in display units.
type Draft struct {
	Bond float64
}

// UnbondForm is the state behind the "unbond some" form. All mutations go
// through Apply or SetBondInput, which re-derive state before returning.
type UnbondForm struct {
	in        Inputs
	derived   Derived
	applied   bool
	draft     Draft
	bondValid bool
	input     string
	feedback  string
	onResize  func()
}

// NewUnbondForm returns a form that calls onResize whenever the draft changes.
// onResize may be nil.
func NewUnbondForm(onResize func()) *UnbondForm {
	return &UnbondForm{onResize: onResize}
}

// Apply replaces the inputs. When the upper bound or validity differ from the
// previous derivation the draft is reset to the new upper bound.
func (f *UnbondForm) Apply(in Inputs) {
	f.in = in
	next := Derive(in)
	reset := !f.applied ||
		next.UpperBound != f.derived.UpperBound ||
		next.IsValid != f.derived.IsValid
	f.derived = next
	f.applied = true
	if reset {
		f.bondValid = next.IsValid
		f.feedback = ""
		f.setDraft(Draft{Bond: next.UpperBound})
	}
}

// SetBondInput applies a typed amount. Rejected input leaves the draft alone
// and marks the bond invalid with a feedback message.
func (f *UnbondForm) SetBondInput(text string) {
	f.input = text
	v, ok := parseAmount(text)
	switch {
	case !ok:
		f.reject("Bond amount must be a positive number")
	case v == 0:
		f.reject("Bond amount must be greater than zero")
	case v > f.derived.UpperBound:
		f.reject(fmt.Sprintf("You can unbond at most %s", units.FormatUnit(f.derived.UpperBound)))
	default:
		f.feedback = ""
		f.bondValid = f.derived.IsValid
		if v != f.draft.Bond {
			f.draft = Draft{Bond: v}
			f.resize()
		}
	}
}

// parseAmount accepts plain decimal amounts only, the grammar planck
// conversion uses. Exponents, hex floats and NaN/Inf are rejected.
func parseAmount(text string) (float64, bool) {
	trimmed := strings.TrimSpace(text)
	if _, err := units.ParseUnit(trimmed, 0); err != nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func (f *UnbondForm) reject(msg string) {
	f.feedback = msg
	f.bondValid = false
}

func (f *UnbondForm) setDraft(d Draft) {
	f.draft = d
	f.input = units.FormatUnit(d.Bond)
	f.resize()
}

func (f *UnbondForm) resize() {
	if f.onResize != nil {
		f.onResize()
	}
}

// Tx returns the call to submit, or nil while the form cannot submit.
func (f *UnbondForm) Tx() *chain.Call {
	return BuildTx(f.in, f.draft.Bond, f.bondValid)
}

func (f *UnbondForm) Inputs() Inputs   { return f.in }
func (f *UnbondForm) Derived() Derived { return f.derived }
func (f *UnbondForm) Draft() Draft     { return f.draft }
func (f *UnbondForm) BondValid() bool  { return f.bondValid }
func (f *UnbondForm) Input() string    { return f.input }
func (f *UnbondForm) Feedback() string { return f.feedback }
func (f *UnbondForm) From() string     { return f.derived.From }
func (f *UnbondForm) Mode() Mode       { return f.in.Mode }
func (f *UnbondForm) UnitsExp() uint8  { return f.in.Units }
