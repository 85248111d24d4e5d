// Package export writes oscilloscope frames and terminal canvases as SVG.
package export

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/capsim/internal/viz"
	"github.com/san-kum/capsim/internal/waveform"
)

const background = "#0a0a0a"

// Hex formats c as #rrggbb.
func Hex(c color.Color) string {
	if c == nil {
		return "#ffffff"
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64, fill string) string {
	if canvas == nil {
		return ""
	}

	w, h := canvas.Dots()
	width, height := float64(w)*scale, float64(h)*scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, width, height, width, height, background, fill)

	r := scale * 0.4
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
					float64(x)*scale+scale/2, float64(y)*scale+scale/2, r)
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TraceToSVG draws a stroked oscilloscope path. Points are already in
// surface coordinates, so the view box is the surface size.
func TraceToSVG(points []waveform.Point, width, height int, stroke string) string {
	if len(points) < 2 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, stroke)

	for i, p := range points {
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", p.X, p.Y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", p.X, p.Y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// WriteFile writes svg to path, creating parent directories.
func WriteFile(path, svg string) error {
	if svg == "" {
		return fmt.Errorf("export %s: nothing to draw", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(svg), 0644)
}
