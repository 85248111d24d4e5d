package gui

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// TraceSurface strokes the waveform into an offscreen render texture. The
// texture is sized once when the window opens.
type TraceSurface struct {
	target rl.RenderTexture2D
	w, h   int
	bg     rl.Color
	path   []rl.Vector2
}

func NewTraceSurface(w, h int, bg rl.Color) *TraceSurface {
	return &TraceSurface{
		target: rl.LoadRenderTexture(int32(w), int32(h)),
		w:      w,
		h:      h,
		bg:     bg,
		path:   make([]rl.Vector2, 0, w),
	}
}

func (s *TraceSurface) Size() (int, int) { return s.w, s.h }

func (s *TraceSurface) Clear() {
	rl.BeginTextureMode(s.target)
	rl.ClearBackground(s.bg)
	rl.EndTextureMode()
	s.path = s.path[:0]
}

func (s *TraceSurface) MoveTo(x, y float64) {
	s.path = s.path[:0]
	s.LineTo(x, y)
}

func (s *TraceSurface) LineTo(x, y float64) {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return
	}
	s.path = append(s.path, rl.NewVector2(float32(x), float32(y)))
}

func (s *TraceSurface) Stroke(c color.Color) {
	if len(s.path) < 2 {
		return
	}
	rl.BeginTextureMode(s.target)
	rl.DrawLineStrip(s.path, toRL(c))
	rl.EndTextureMode()
}

// Draw blits the texture at (x, y). Render textures are stored upside down.
func (s *TraceSurface) Draw(x, y int32) {
	src := rl.NewRectangle(0, 0, float32(s.w), -float32(s.h))
	rl.DrawTextureRec(s.target.Texture, src, rl.NewVector2(float32(x), float32(y)), rl.White)
}

func (s *TraceSurface) Unload() { rl.UnloadRenderTexture(s.target) }

func toRL(c color.Color) rl.Color {
	if c == nil {
		return rl.White
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}
