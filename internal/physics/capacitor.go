package physics

import (
	"fmt"
	"math"
)

const (
	VacuumPermittivity = 8.854e-12 // F/m
	DefaultArea        = 0.01      // m^2
	DefaultInductance  = 1e-3      // H
)

// Constants are fixed for the lifetime of a session.
type Constants struct {
	VacuumPermittivity float64 `yaml:"vacuum_permittivity" mapstructure:"vacuum_permittivity"`
	EffectiveArea      float64 `yaml:"effective_area" mapstructure:"effective_area"`
	Inductance         float64 `yaml:"inductance" mapstructure:"inductance"`
}

func DefaultConstants() Constants {
	return Constants{
		VacuumPermittivity: VacuumPermittivity,
		EffectiveArea:      DefaultArea,
		Inductance:         DefaultInductance,
	}
}

// Reading is the electrical state derived from one distance sample.
type Reading struct {
	Distance    float64
	Capacitance float64
	Frequency   float64
}

// Capacitor models the sensor plate and the target as a parallel-plate
// capacitor feeding an LC oscillator.
type Capacitor struct {
	inductance float64
	k          float64
}

func NewCapacitor(c Constants) (*Capacitor, error) {
	for name, v := range map[string]float64{
		"vacuum_permittivity": c.VacuumPermittivity,
		"effective_area":      c.EffectiveArea,
		"inductance":          c.Inductance,
	} {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s=%g", ErrInvalidConstant, name, v)
		}
	}
	return &Capacitor{
		inductance: c.Inductance,
		k:          c.VacuumPermittivity * c.EffectiveArea,
	}, nil
}

// K returns permittivity times area.
func (c *Capacitor) K() float64 { return c.k }

func (c *Capacitor) Inductance() float64 { return c.inductance }

// Capacitance returns k/distance. distance must be strictly positive.
func (c *Capacitor) Capacitance(distance float64) float64 {
	return c.k / distance
}

// Frequency returns the LC resonant frequency 1/(2π√(LC)).
// capacitance must be strictly positive.
func (c *Capacitor) Frequency(capacitance float64) float64 {
	return 1 / (2 * math.Pi * math.Sqrt(c.inductance*capacitance))
}

func (c *Capacitor) Evaluate(distance float64) Reading {
	capacitance := c.Capacitance(distance)
	return Reading{
		Distance:    distance,
		Capacitance: capacitance,
		Frequency:   c.Frequency(capacitance),
	}
}
