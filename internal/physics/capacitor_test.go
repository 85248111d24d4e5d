package physics

import (
	"errors"
	"math"
	"testing"
)

func newDefault(t *testing.T) *Capacitor {
	t.Helper()
	c, err := NewCapacitor(DefaultConstants())
	if err != nil {
		t.Fatalf("default constants rejected: %v", err)
	}
	return c
}

func relClose(a, b float64) bool {
	return math.Abs(a-b) <= 1e-12*math.Max(math.Abs(a), math.Abs(b))
}

func TestCapacitanceIsKOverDistance(t *testing.T) {
	c := newDefault(t)
	k := VacuumPermittivity * DefaultArea

	if !relClose(c.K(), k) {
		t.Fatalf("expected k %g, got %g", k, c.K())
	}

	for _, d := range []float64{0.001, 0.01, 0.5, 1, 3.7, 100} {
		got := c.Capacitance(d)
		if !relClose(got, k/d) {
			t.Errorf("d=%g: expected %g, got %g", d, k/d, got)
		}
		if got <= 0 {
			t.Errorf("d=%g: capacitance must be positive, got %g", d, got)
		}
	}
}

func TestCapacitanceStrictlyDecreasing(t *testing.T) {
	c := newDefault(t)
	prev := c.Capacitance(0.001)
	for d := 0.002; d < 10; d *= 1.5 {
		cur := c.Capacitance(d)
		if cur >= prev {
			t.Fatalf("capacitance not decreasing at d=%g: %g >= %g", d, cur, prev)
		}
		prev = cur
	}
}

func TestFrequencyStrictlyDecreasing(t *testing.T) {
	c := newDefault(t)
	prev := c.Frequency(1e-15)
	for capacitance := 2e-15; capacitance < 1e-6; capacitance *= 3 {
		cur := c.Frequency(capacitance)
		if cur <= 0 {
			t.Fatalf("frequency must be positive, got %g", cur)
		}
		if cur >= prev {
			t.Fatalf("frequency not decreasing at C=%g", capacitance)
		}
		prev = cur
	}
}

func TestEvaluateMatchesClosedForm(t *testing.T) {
	c := newDefault(t)
	k := c.K()
	for _, d := range []float64{0.001, 0.25, 1, 2} {
		r := c.Evaluate(d)
		want := 1 / (2 * math.Pi * math.Sqrt(DefaultInductance*k/d))
		if !relClose(r.Frequency, want) {
			t.Errorf("d=%g: expected %g, got %g", d, want, r.Frequency)
		}
		if r.Distance != d {
			t.Errorf("distance not carried through: %g", r.Distance)
		}
	}
}

func TestNewCapacitorRejectsBadConstants(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Constants)
	}{
		{"zero permittivity", func(c *Constants) { c.VacuumPermittivity = 0 }},
		{"negative area", func(c *Constants) { c.EffectiveArea = -1 }},
		{"zero inductance", func(c *Constants) { c.Inductance = 0 }},
		{"nan inductance", func(c *Constants) { c.Inductance = math.NaN() }},
		{"inf area", func(c *Constants) { c.EffectiveArea = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := DefaultConstants()
			tt.mod(&cs)
			_, err := NewCapacitor(cs)
			if !errors.Is(err, ErrInvalidConstant) {
				t.Errorf("expected ErrInvalidConstant, got %v", err)
			}
		})
	}
}
