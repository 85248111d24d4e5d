package motion

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/capsim/internal/input"
)

const (
	DefaultStep            = 0.01
	DefaultFloor           = 0.5
	DefaultReferenceOffset = 0.5
	DefaultEpsilon         = 0.001
)

var ErrInvalidStep = errors.New("motion: step and epsilon must be positive")

// Integrator moves the target one fixed step per frame. Speed is therefore
// tied to the frame rate; there is no delta-time scaling.
type Integrator struct {
	Step            float64 `yaml:"step" mapstructure:"step"`
	Floor           float64 `yaml:"floor" mapstructure:"floor"`
	ReferenceOffset float64 `yaml:"reference_offset" mapstructure:"reference_offset"`
	Epsilon         float64 `yaml:"epsilon" mapstructure:"epsilon"`
}

func Default() Integrator {
	return Integrator{
		Step:            DefaultStep,
		Floor:           DefaultFloor,
		ReferenceOffset: DefaultReferenceOffset,
		Epsilon:         DefaultEpsilon,
	}
}

func (in Integrator) Validate() error {
	if !(in.Step > 0) || math.IsInf(in.Step, 0) {
		return fmt.Errorf("%w: step=%g", ErrInvalidStep, in.Step)
	}
	if !(in.Epsilon > 0) || math.IsInf(in.Epsilon, 0) {
		return fmt.Errorf("%w: epsilon=%g", ErrInvalidStep, in.Epsilon)
	}
	return nil
}

// Advance returns the position after one frame of held keys. Down only
// applies while the target is above the floor and stops on it.
func (in Integrator) Advance(position float64, held input.Held) float64 {
	if held.Up {
		position += in.Step
	}
	if held.Down && position > in.Floor {
		position = math.Max(in.Floor, position-in.Step)
	}
	return position
}

// Distance is the gap to the sensor plane, floored at Epsilon.
func (in Integrator) Distance(position float64) float64 {
	return math.Max(in.Epsilon, position-in.ReferenceOffset)
}
