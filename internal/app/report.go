package app

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/capsim/internal/frame"
)

// WriteTable prints at most rows evenly spaced samples of the trace, always
// including the last tick.
func WriteTable(w io.Writer, trace []frame.SimState, rows int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TICK\tHEIGHT\tDISTANCE\tCAPACITANCE (F)\tFREQUENCY (Hz)")
	for _, i := range sampleIndices(len(trace), rows) {
		st := trace[i]
		fmt.Fprintf(tw, "%d\t%.3f\t%.3f\t%s\t%s\n",
			st.Ticks, st.Position, st.Distance,
			frame.FormatExponential(st.Capacitance, frame.ReadoutDigits),
			frame.FormatExponential(st.Frequency, frame.ReadoutDigits),
		)
	}
	return tw.Flush()
}

func sampleIndices(n, rows int) []int {
	if n == 0 || rows <= 0 {
		return nil
	}
	if n <= rows {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	idx := make([]int, 0, rows)
	for r := 0; r < rows; r++ {
		idx = append(idx, r*(n-1)/(rows-1))
	}
	return idx
}

// Plot renders height and frequency charts of the trace.
func Plot(trace []frame.SimState, width, height int) string {
	if len(trace) == 0 {
		return ""
	}
	pos := make([]float64, len(trace))
	freq := make([]float64, len(trace))
	for i, st := range trace {
		pos[i] = st.Position
		freq[i] = st.Frequency
	}
	var b strings.Builder
	b.WriteString(asciigraph.Plot(pos,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(2),
		asciigraph.Caption("Target height"),
	))
	b.WriteString("\n\n")
	b.WriteString(asciigraph.Plot(freq,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(0),
		asciigraph.Caption("Oscillator frequency (Hz)"),
	))
	b.WriteString("\n")
	return b.String()
}
