package scene

// Backend draws a graph from a camera. The terminal and windowed hosts each
// provide one.
type Backend interface {
	Render(g *Graph, cam Camera)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(g *Graph, cam Camera)

func (f BackendFunc) Render(g *Graph, cam Camera) { f(g, cam) }

type Renderer struct {
	controls *OrbitControls
	backend  Backend
	graph    *Graph
}

func NewRenderer(controls *OrbitControls, backend Backend, g *Graph) *Renderer {
	return &Renderer{controls: controls, backend: backend, graph: g}
}

func (r *Renderer) Graph() *Graph            { return r.graph }
func (r *Renderer) Controls() *OrbitControls { return r.controls }

// Render steps the camera controls and redraws the graph.
func (r *Renderer) Render() {
	r.controls.Update()
	r.backend.Render(r.graph, r.controls.Camera())
}
