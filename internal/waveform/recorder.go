package waveform

import "image/color"

type Point struct{ X, Y float64 }

// Recorder is an in-memory Surface. The headless host uses it and so do the tests.
type Recorder struct {
	W, H    int
	Path    []Point
	Color   color.Color
	Clears  int
	Strokes int
}

func NewRecorder(w, h int) *Recorder { return &Recorder{W: w, H: h} }

func (r *Recorder) Size() (int, int) { return r.W, r.H }

func (r *Recorder) Clear() {
	r.Path = r.Path[:0]
	r.Clears++
}

func (r *Recorder) MoveTo(x, y float64) { r.Path = append(r.Path[:0], Point{x, y}) }
func (r *Recorder) LineTo(x, y float64) { r.Path = append(r.Path, Point{x, y}) }

func (r *Recorder) Stroke(c color.Color) {
	r.Color = c
	r.Strokes++
}
