package autonomy

import (
	"math"
	"testing"

	"github.com/aneslog/aneslog-backend/internal/domain"
)

func TestParamsValidate(t *testing.T) {
	cases := []struct {
		name    string
		p       Params
		wantErr bool
	}{
		{"simple defaults", DefaultSimpleParams, false},
		{"complex defaults", DefaultComplexParams, false},
		{"p1 equal p0", Params{P0: 0.3, P1: 0.3, Alpha: 0.05, Beta: 0.2}, true},
		{"p1 above p0", Params{P0: 0.1, P1: 0.3, Alpha: 0.05, Beta: 0.2}, true},
		{"p0 out of range", Params{P0: 1.2, P1: 0.1, Alpha: 0.05, Beta: 0.2}, true},
		{"zero alpha", Params{P0: 0.3, P1: 0.1, Alpha: 0, Beta: 0.2}, true},
		{"beta of one", Params{P0: 0.3, P1: 0.1, Alpha: 0.05, Beta: 1}, true},
	}
	for _, tc := range cases {
		err := tc.p.Validate()
		if tc.wantErr && err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
	}
}

func TestParamsBoundaryAndIncrements(t *testing.T) {
	p := DefaultSimpleParams
	if got, want := p.Boundary(), math.Log(16); math.Abs(got-want) > 1e-12 {
		t.Fatalf("boundary: got %v want %v", got, want)
	}
	s, f := p.increments()
	if s <= 0 {
		t.Fatalf("success increment must be positive, got %v", s)
	}
	if f >= 0 {
		t.Fatalf("failure increment must be negative, got %v", f)
	}
}

func TestPolicyTableParamsFor(t *testing.T) {
	table := DefaultPolicyTable()
	table.Categories = map[string]Params{
		"Regional blocks": {P0: 0.25, P1: 0.08, Alpha: 0.05, Beta: 0.20},
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if got := table.ParamsFor(domain.ComplexitySimple, "Airway"); got != DefaultSimpleParams {
		t.Fatalf("simple fallback: got %+v", got)
	}
	if got := table.ParamsFor(domain.ComplexityComplex, "Airway"); got != DefaultComplexParams {
		t.Fatalf("complex fallback: got %+v", got)
	}
	if got := table.ParamsFor(domain.ComplexitySimple, "Regional blocks"); got.P1 != 0.08 {
		t.Fatalf("category override ignored: got %+v", got)
	}
}

func TestPolicyTableValidateRejectsBadOverride(t *testing.T) {
	table := DefaultPolicyTable()
	table.Categories = map[string]Params{
		"broken": {P0: 0.1, P1: 0.3, Alpha: 0.05, Beta: 0.2},
	}
	if err := table.Validate(); err == nil {
		t.Fatalf("expected validation error for p1 >= p0 override")
	}
}
