package scene

import (
	"image/color"
	"math"
)

type Plane struct {
	Center  Vec3
	Width   float64
	Depth   float64
	Color   color.RGBA
	Opacity float64
}

// Corners returns the plane outline in winding order.
func (p Plane) Corners() [4]Vec3 {
	hw, hd := p.Width/2, p.Depth/2
	c := p.Center
	return [4]Vec3{
		{c.X - hw, c.Y, c.Z - hd},
		{c.X + hw, c.Y, c.Z - hd},
		{c.X + hw, c.Y, c.Z + hd},
		{c.X - hw, c.Y, c.Z + hd},
	}
}

type Box struct {
	Position Vec3
	Size     Vec3
	Color    color.RGBA
}

var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func (b Box) Corners() [8]Vec3 {
	sx, sy, sz := b.Size.X/2, b.Size.Y/2, b.Size.Z/2
	p := b.Position
	return [8]Vec3{
		{p.X - sx, p.Y - sy, p.Z - sz}, {p.X + sx, p.Y - sy, p.Z - sz},
		{p.X + sx, p.Y + sy, p.Z - sz}, {p.X - sx, p.Y + sy, p.Z - sz},
		{p.X - sx, p.Y - sy, p.Z + sz}, {p.X + sx, p.Y - sy, p.Z + sz},
		{p.X + sx, p.Y + sy, p.Z + sz}, {p.X - sx, p.Y + sy, p.Z + sz},
	}
}

// Edges returns the twelve cube edges as corner pairs.
func (b Box) Edges() [12][2]Vec3 {
	c := b.Corners()
	var out [12][2]Vec3
	for i, e := range boxEdges {
		out[i] = [2]Vec3{c[e[0]], c[e[1]]}
	}
	return out
}

type Light struct {
	Color     color.RGBA
	Intensity float64
	Direction Vec3
}

// Graph is everything the scene backends draw: the sensor plate lying in
// the XZ plane and the target cube hovering above it.
type Graph struct {
	Sensor      Plane
	Object      Box
	Ambient     Light
	Directional Light
}

func DefaultGraph() *Graph {
	return &Graph{
		Sensor: Plane{
			Width:   5,
			Depth:   5,
			Color:   color.RGBA{0x65, 0x65, 0x65, 0xff},
			Opacity: 0.7,
		},
		Object: Box{
			Position: Vec3{0, 1, 0},
			Size:     Vec3{1, 1, 1},
			Color:    color.RGBA{0xff, 0x00, 0x00, 0xff},
		},
		Ambient: Light{
			Color:     color.RGBA{0x40, 0x40, 0x40, 0xff},
			Intensity: 0.5,
		},
		Directional: Light{
			Color:     color.RGBA{0xff, 0xff, 0xff, 0xff},
			Intensity: 1,
			Direction: Vec3{5, 10, 7.5}.Normalize(),
		},
	}
}

// SetObjectHeight moves the target cube vertically.
func (g *Graph) SetObjectHeight(y float64) { g.Object.Position.Y = y }

// Shade is the Lambert brightness of a face with the given normal under the
// graph's lights, clamped to [0,1].
func (g *Graph) Shade(normal Vec3) float64 {
	ambient := g.Ambient.Intensity * luma(g.Ambient.Color)
	diffuse := g.Directional.Intensity * math.Max(0, normal.Normalize().Dot(g.Directional.Direction.Normalize()))
	return math.Min(1, ambient+diffuse)
}

func luma(c color.RGBA) float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
}
