package autonomy

import (
	"fmt"
	"math"

	"github.com/aneslog/aneslog-backend/internal/domain"
)

// Params are the LC-CUSUM test parameters for one procedure. P0 is the
// failure rate considered unacceptable, P1 the rate considered acceptable;
// Alpha and Beta are the type I / type II error rates of the underlying
// Wald sequential probability ratio test.
type Params struct {
	P0    float64
	P1    float64
	Alpha float64
	Beta  float64
}

// Published defaults: simple gestures tolerate a 10% failure rate once
// learned, complex gestures 15%. Both use p0=30%, alpha=5%, beta=20%.
var (
	DefaultSimpleParams  = Params{P0: 0.30, P1: 0.10, Alpha: 0.05, Beta: 0.20}
	DefaultComplexParams = Params{P0: 0.30, P1: 0.15, Alpha: 0.05, Beta: 0.20}
)

// Validate fails fast on parameter sets that would produce a nonsensical
// decision boundary. p1 must stay strictly below p0 or the score increments
// lose their sign.
func (p Params) Validate() error {
	if p.P0 <= 0 || p.P0 >= 1 {
		return fmt.Errorf("p0 must be in (0,1), got %v", p.P0)
	}
	if p.P1 <= 0 || p.P1 >= 1 {
		return fmt.Errorf("p1 must be in (0,1), got %v", p.P1)
	}
	if p.P1 >= p.P0 {
		return fmt.Errorf("p1 (%v) must be strictly below p0 (%v)", p.P1, p.P0)
	}
	if p.Alpha <= 0 || p.Alpha >= 1 {
		return fmt.Errorf("alpha must be in (0,1), got %v", p.Alpha)
	}
	if p.Beta <= 0 || p.Beta >= 1 {
		return fmt.Errorf("beta must be in (0,1), got %v", p.Beta)
	}
	return nil
}

// Boundary is the decision threshold h = ln((1-beta)/alpha).
func (p Params) Boundary() float64 {
	return math.Log((1 - p.Beta) / p.Alpha)
}

// increments returns the per-attempt score deltas: positive for a success,
// negative for a failure (p1 < p0 guarantees the signs).
func (p Params) increments() (success, failure float64) {
	success = math.Log((1 - p.P1) / (1 - p.P0))
	failure = math.Log(p.P1 / p.P0)
	return success, failure
}

// PolicyTable resolves the Params to use for a given procedure. Complexity
// picks the published default; a per-category override (loaded from the
// policy file) wins over both.
type PolicyTable struct {
	Simple     Params
	Complex    Params
	Categories map[string]Params
}

func DefaultPolicyTable() PolicyTable {
	return PolicyTable{
		Simple:  DefaultSimpleParams,
		Complex: DefaultComplexParams,
	}
}

func (t PolicyTable) Validate() error {
	if err := t.Simple.Validate(); err != nil {
		return fmt.Errorf("simple params: %w", err)
	}
	if err := t.Complex.Validate(); err != nil {
		return fmt.Errorf("complex params: %w", err)
	}
	for name, p := range t.Categories {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("category %q params: %w", name, err)
		}
	}
	return nil
}

func (t PolicyTable) ParamsFor(complexity domain.Complexity, categoryName string) Params {
	if p, ok := t.Categories[categoryName]; ok {
		return p
	}
	if complexity == domain.ComplexityComplex {
		return t.Complex
	}
	return t.Simple
}
