package viz

import (
	"math"
	"sort"

	"github.com/san-kum/capsim/internal/scene"
)

// maxDot keeps projected coordinates small enough for Bresenham to stay cheap.
const maxDot = 1 << 14

type Edge struct {
	Start, End scene.Vec3
	Dashed     bool
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe                     { return &Wireframe{Edges: make([]Edge, 0, 32)} }
func (w *Wireframe) AddEdge(s, e scene.Vec3)       { w.Edges = append(w.Edges, Edge{Start: s, End: e}) }
func (w *Wireframe) AddDashedEdge(s, e scene.Vec3) { w.Edges = append(w.Edges, Edge{Start: s, End: e, Dashed: true}) }
func (w *Wireframe) AddPoint(p scene.Vec3)         { w.Edges = append(w.Edges, Edge{Start: p, End: p}) }
func (w *Wireframe) Clear()                        { w.Edges = w.Edges[:0] }

type ProjectedEdge struct {
	X1, Y1, X2, Y2 int
	Depth          float64
	Dashed         bool
}

// Project maps a point already in view space onto a sw x sh dot grid.
// It reports false for points at or behind the near plane.
func Project(cam scene.Camera, v scene.Vec3, sw, sh int) (int, int, bool) {
	near := cam.Near
	if near <= 0 {
		near = 0.1
	}
	if !(v.Z >= near) || math.IsNaN(v.X+v.Y) || math.IsInf(v.X+v.Y, 0) {
		return 0, 0, false
	}
	f := float64(sh) / 2 / math.Tan(cam.FOV/2)
	sx := float64(sw)/2 + v.X*f/v.Z
	sy := float64(sh)/2 - v.Y*f/v.Z
	return clampDot(sx), clampDot(sy), true
}

func clampDot(v float64) int {
	return int(math.Round(math.Max(-maxDot, math.Min(maxDot, v))))
}

// clipNear trims a view-space segment to the part in front of the near plane.
func clipNear(a, b scene.Vec3, near float64) (scene.Vec3, scene.Vec3, bool) {
	if a.Z < near && b.Z < near {
		return a, b, false
	}
	if a.Z < near {
		t := (near - a.Z) / (b.Z - a.Z)
		a = a.Add(b.Sub(a).Scale(t))
		a.Z = near
	} else if b.Z < near {
		t := (near - b.Z) / (a.Z - b.Z)
		b = b.Add(a.Sub(b).Scale(t))
		b.Z = near
	}
	return a, b, true
}

// Render3D draws the wireframe to the canvas using a simple painter's algorithm.
func Render3D(c *Canvas, w *Wireframe, cam scene.Camera) {
	if c == nil || w == nil {
		return
	}
	sw, sh := c.Dots()
	near := cam.Near
	if near <= 0 {
		near = 0.1
	}
	proj := make([]ProjectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		a, b, ok := clipNear(cam.ToView(e.Start), cam.ToView(e.End), near)
		if !ok {
			continue
		}
		x1, y1, ok1 := Project(cam, a, sw, sh)
		x2, y2, ok2 := Project(cam, b, sw, sh)
		if !ok1 || !ok2 {
			continue
		}
		proj = append(proj, ProjectedEdge{x1, y1, x2, y2, (a.Z + b.Z) / 2, e.Dashed})
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].Depth > proj[j].Depth })
	for _, e := range proj {
		switch {
		case e.X1 == e.X2 && e.Y1 == e.Y2:
			c.Set(e.X1, e.Y1)
		case e.Dashed:
			c.DrawDashed(e.X1, e.Y1, e.X2, e.Y2, 2)
		default:
			c.DrawLine(e.X1, e.Y1, e.X2, e.Y2)
		}
	}
}

// SceneWireframe builds the outline of the graph: the sensor plate with a
// grid, the target cube and a dashed drop line marking the gap between them.
func SceneWireframe(g *scene.Graph, gridLines int) *Wireframe {
	w := NewWireframe()
	corners := g.Sensor.Corners()
	for i := range corners {
		w.AddEdge(corners[i], corners[(i+1)%len(corners)])
	}
	if gridLines > 0 {
		for i := 1; i <= gridLines; i++ {
			t := float64(i) / float64(gridLines+1)
			w.AddEdge(lerp(corners[0], corners[1], t), lerp(corners[3], corners[2], t))
			w.AddEdge(lerp(corners[0], corners[3], t), lerp(corners[1], corners[2], t))
		}
	}
	for _, e := range g.Object.Edges() {
		w.AddEdge(e[0], e[1])
	}
	bottom := g.Object.Position
	bottom.Y -= g.Object.Size.Y / 2
	foot := scene.Vec3{X: bottom.X, Y: g.Sensor.Center.Y, Z: bottom.Z}
	if bottom.Y > foot.Y {
		w.AddDashedEdge(bottom, foot)
	}
	return w
}

func lerp(a, b scene.Vec3, t float64) scene.Vec3 {
	return a.Add(b.Sub(a).Scale(t))
}

// WireframeBackend renders a scene graph onto a braille canvas.
type WireframeBackend struct {
	Canvas    *Canvas
	GridLines int
}

func NewWireframeBackend(c *Canvas) *WireframeBackend {
	return &WireframeBackend{Canvas: c, GridLines: 4}
}

func (b *WireframeBackend) Render(g *scene.Graph, cam scene.Camera) {
	b.Canvas.Clear()
	Render3D(b.Canvas, SceneWireframe(g, b.GridLines), cam)
}
