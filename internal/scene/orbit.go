package scene

import "math"

const (
	DefaultDampingFactor = 0.05
	DefaultMinDistance   = 2.0
	DefaultMaxDistance   = 60.0

	polarEps  = 1e-6
	settleEps = 1e-9
)

// OrbitControls orbits the camera around its target. With damping enabled a
// user gesture is applied gradually: every Update consumes DampingFactor of
// the pending delta and decays the rest.
type OrbitControls struct {
	DampingFactor float64
	MinDistance   float64
	MaxDistance   float64

	camera Camera

	azimuth float64
	polar   float64
	radius  float64

	dAzimuth float64
	dPolar   float64
	dLogR    float64
}

func NewOrbitControls(cam Camera) *OrbitControls {
	o := &OrbitControls{
		DampingFactor: DefaultDampingFactor,
		MinDistance:   DefaultMinDistance,
		MaxDistance:   DefaultMaxDistance,
		camera:        cam,
	}
	offset := cam.Position.Sub(cam.Target)
	o.radius = offset.Length()
	if o.radius > 0 {
		o.azimuth = math.Atan2(offset.X, offset.Z)
		o.polar = math.Acos(clamp(offset.Y/o.radius, -1, 1))
	}
	return o
}

func (o *OrbitControls) Camera() Camera { return o.camera }

// Rotate queues an orbit of the given angles in radians.
func (o *OrbitControls) Rotate(dAzimuth, dPolar float64) {
	o.dAzimuth += dAzimuth
	o.dPolar += dPolar
}

// Dolly queues a change of distance by factor (<1 moves closer).
func (o *OrbitControls) Dolly(factor float64) {
	if factor > 0 {
		o.dLogR += math.Log(factor)
	}
}

// Update advances the damped interpolation and repositions the camera.
// It reports whether the camera moved.
func (o *OrbitControls) Update() bool {
	f := o.DampingFactor
	if f <= 0 || f > 1 {
		f = 1
	}

	o.azimuth += o.dAzimuth * f
	o.polar = clamp(o.polar+o.dPolar*f, polarEps, math.Pi-polarEps)
	o.radius = clamp(o.radius*math.Exp(o.dLogR*f), o.MinDistance, o.MaxDistance)

	sinP := math.Sin(o.polar)
	offset := Vec3{
		o.radius * sinP * math.Sin(o.azimuth),
		o.radius * math.Cos(o.polar),
		o.radius * sinP * math.Cos(o.azimuth),
	}
	next := o.camera.Target.Add(offset)
	moved := next.Sub(o.camera.Position).Length() > settleEps
	o.camera.Position = next

	o.dAzimuth *= 1 - f
	o.dPolar *= 1 - f
	o.dLogR *= 1 - f
	return moved
}

// Pending reports whether any queued motion remains.
func (o *OrbitControls) Pending() bool {
	return math.Abs(o.dAzimuth) > settleEps || math.Abs(o.dPolar) > settleEps || math.Abs(o.dLogR) > settleEps
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
