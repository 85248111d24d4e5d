package waveform

import (
	"image/color"
	"math"
)

// Surface is a 2D raster target with path-stroke semantics. Its size is fixed
// when the host creates it.
type Surface interface {
	Size() (w, h int)
	Clear()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Stroke(c color.Color)
}

const (
	DefaultAmplitudeFraction = 1.0 / 3.0
	DefaultWavelength        = 0.5
	DefaultFrequencyScale    = 1e-8
	DefaultPhaseStep         = 0.1
)

var DefaultColor = color.RGBA{R: 0x00, G: 0xff, B: 0x00, A: 0xff}

// Params tune how a real-world frequency maps onto a legible on-screen wave.
type Params struct {
	AmplitudeFraction float64 `yaml:"amplitude_fraction" mapstructure:"amplitude_fraction"`
	Wavelength        float64 `yaml:"wavelength" mapstructure:"wavelength"`
	FrequencyScale    float64 `yaml:"frequency_scale" mapstructure:"frequency_scale"`
	PhaseStep         float64 `yaml:"phase_step" mapstructure:"phase_step"`
}

func DefaultParams() Params {
	return Params{
		AmplitudeFraction: DefaultAmplitudeFraction,
		Wavelength:        DefaultWavelength,
		FrequencyScale:    DefaultFrequencyScale,
		PhaseStep:         DefaultPhaseStep,
	}
}

// Renderer plots an oscilloscope-style sine trace. It is a direct plot of
// sin(), not a sampled signal.
type Renderer struct {
	params Params
	color  color.Color
	phase  float64
}

func NewRenderer(p Params, c color.Color) *Renderer {
	if c == nil {
		c = DefaultColor
	}
	return &Renderer{params: p, color: c}
}

// Phase is the accumulated time fed into the sine argument.
func (r *Renderer) Phase() float64 { return r.phase }

func (r *Renderer) Params() Params { return r.params }

// Y returns the trace height at column x for the current phase.
func (r *Renderer) Y(x, frequency float64, height int) float64 {
	amplitude := float64(height) * r.params.AmplitudeFraction
	scaled := frequency * r.params.FrequencyScale
	return amplitude*math.Sin(x*r.params.Wavelength*scaled+r.phase) + float64(height)/2
}

// Draw clears s, strokes one polyline across its width and then advances
// the phase in proportion to frequency.
func (r *Renderer) Draw(s Surface, frequency float64) {
	w, h := s.Size()
	s.Clear()
	for x := 0; x < w; x++ {
		fx := float64(x)
		y := r.Y(fx, frequency, h)
		if x == 0 {
			s.MoveTo(fx, y)
		} else {
			s.LineTo(fx, y)
		}
	}
	s.Stroke(r.color)
	r.Advance(frequency)
}

// Advance moves the phase forward. Frequencies that are not positive and
// finite are ignored, so the phase never runs backwards.
func (r *Renderer) Advance(frequency float64) {
	if !(frequency > 0) || math.IsInf(frequency, 1) {
		return
	}
	r.phase += frequency * r.params.FrequencyScale * r.params.PhaseStep
}
