package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/capsim/internal/frame"
	"github.com/san-kum/capsim/internal/motion"
	"github.com/san-kum/capsim/internal/physics"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

var ErrNoRuns = errors.New("no stored runs")

var traceHeader = []string{"tick", "position", "distance", "capacitance", "frequency", "phase"}

type Store struct {
	baseDir string
	now     func() time.Time
	create  func(path string) (io.WriteCloser, error)
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now, create: createFile}
}

func createFile(path string) (io.WriteCloser, error) { return os.Create(path) }

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one headless run.
type RunMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Preset    string             `json:"preset"`
	Script    string             `json:"script"`
	Ticks     int                `json:"ticks"`
	Physics   physics.Constants  `json:"physics"`
	Motion    motion.Integrator  `json:"motion"`
	Summary   map[string]float64 `json:"summary"`
}

// Save writes meta and the per-tick trace under a new run directory and
// returns its id. ID, Timestamp, Ticks and Summary are filled in.
func (s *Store) Save(meta RunMetadata, trace []frame.SimState) (string, error) {
	now := s.now()
	meta.ID = "run_" + now.UTC().Format("20060102T150405.000000000")
	meta.Timestamp = now
	meta.Ticks = len(trace)
	meta.Summary = Summarize(trace)

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := s.writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := s.writeTrace(filepath.Join(runDir, traceFile), trace); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func (s *Store) writeMetadata(path string, meta RunMetadata) error {
	f, err := s.create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *Store) writeTrace(path string, trace []frame.SimState) error {
	f, err := s.create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(traceHeader); err != nil {
		f.Close()
		return err
	}
	for _, st := range trace {
		row := []string{
			strconv.FormatUint(st.Ticks, 10),
			formatFloat(st.Position),
			formatFloat(st.Distance),
			formatFloat(st.Capacitance),
			formatFloat(st.Frequency),
			formatFloat(st.Phase),
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// List returns every readable run, oldest first. A missing directory is
// an empty store.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

// Latest returns the most recent run.
func (s *Store) Latest() (*RunMetadata, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoRuns, s.baseDir)
	}
	return &runs[len(runs)-1], nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadTrace(runID string) ([]frame.SimState, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(traceHeader)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []frame.SimState{}, nil
	}

	trace := make([]frame.SimState, 0, len(records)-1)
	for _, rec := range records[1:] {
		ticks, err := strconv.ParseUint(rec[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("run %s: tick %q: %w", runID, rec[0], err)
		}
		var vals [5]float64
		for i := range vals {
			if vals[i], err = strconv.ParseFloat(rec[i+1], 64); err != nil {
				return nil, fmt.Errorf("run %s: %s %q: %w", runID, traceHeader[i+1], rec[i+1], err)
			}
		}
		trace = append(trace, frame.SimState{
			Ticks:       ticks,
			Position:    vals[0],
			Distance:    vals[1],
			Capacitance: vals[2],
			Frequency:   vals[3],
			Phase:       vals[4],
		})
	}
	return trace, nil
}

// Summarize reduces a trace to the figures shown by list.
func Summarize(trace []frame.SimState) map[string]float64 {
	m := map[string]float64{}
	if len(trace) == 0 {
		return m
	}
	minF, maxF := trace[0].Frequency, trace[0].Frequency
	minD, maxD := trace[0].Distance, trace[0].Distance
	for _, st := range trace[1:] {
		minF = min(minF, st.Frequency)
		maxF = max(maxF, st.Frequency)
		minD = min(minD, st.Distance)
		maxD = max(maxD, st.Distance)
	}
	last := trace[len(trace)-1]
	m["min_frequency"] = minF
	m["max_frequency"] = maxF
	m["min_distance"] = minD
	m["max_distance"] = maxD
	m["final_position"] = last.Position
	m["final_capacitance"] = last.Capacitance
	return m
}
