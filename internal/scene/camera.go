package scene

import "math"

// Camera is a perspective look-at camera. FOV is the vertical field of view
// in radians.
type Camera struct {
	Position Vec3
	Target   Vec3
	Up       Vec3
	FOV      float64
	Near     float64
}

func DefaultCamera() Camera {
	return Camera{
		Position: Vec3{0, 5, 10},
		Target:   Vec3{0, 0, 0},
		Up:       Vec3{0, 1, 0},
		FOV:      75 * math.Pi / 180,
		Near:     0.1,
	}
}

// Basis returns the right, up and forward unit vectors of the view.
func (c Camera) Basis() (right, up, forward Vec3) {
	forward = c.Target.Sub(c.Position).Normalize()
	right = forward.Cross(c.Up).Normalize()
	up = right.Cross(forward)
	return right, up, forward
}

// ToView maps a world point into camera space: x right, y up, z the
// distance in front of the camera.
func (c Camera) ToView(p Vec3) Vec3 {
	right, up, forward := c.Basis()
	d := p.Sub(c.Position)
	return Vec3{d.Dot(right), d.Dot(up), d.Dot(forward)}
}
