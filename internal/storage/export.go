package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/capsim/internal/frame"
)

type ExportData struct {
	Metadata RunMetadata      `json:"metadata"`
	States   []frame.SimState `json:"states"`
}

// ExportJSON writes a run and its trace as one indented JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, trace []frame.SimState) error {
	if meta.Summary == nil {
		meta.Summary = Summarize(trace)
	}
	meta.Ticks = len(trace)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Metadata: meta, States: trace})
}
