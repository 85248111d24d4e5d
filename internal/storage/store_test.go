package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/capsim/internal/frame"
	"github.com/san-kum/capsim/internal/motion"
	"github.com/san-kum/capsim/internal/physics"
)

func sampleTrace() []frame.SimState {
	return []frame.SimState{
		{Position: 0.5, Distance: 0.001, Capacitance: 8.854e-11, Frequency: 534872.6, Phase: 0.0005, Ticks: 1},
		{Position: 0.51, Distance: 0.01, Capacitance: 8.854e-12, Frequency: 1691415.7, Phase: 0.0022, Ticks: 2},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{
		Preset:  "default",
		Script:  "up:1",
		Physics: physics.DefaultConstants(),
		Motion:  motion.Default(),
	}, sampleTrace())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Ticks != 2 || meta.Script != "up:1" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Summary["max_frequency"] != 1691415.7 {
		t.Errorf("expected max frequency in summary, got %v", meta.Summary)
	}

	trace, err := st.LoadTrace(runID)
	if err != nil {
		t.Fatalf("load trace failed: %v", err)
	}
	want := sampleTrace()
	if len(trace) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(trace))
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Errorf("row %d: expected %+v, got %+v", i, want[i], trace[i])
		}
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 2; i >= 0; i-- {
		at := base.Add(time.Duration(i) * time.Second)
		st.now = func() time.Time { return at }
		if _, err := st.Save(RunMetadata{}, sampleTrace()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	for i := 1; i < len(runs); i++ {
		if runs[i].Timestamp.Before(runs[i-1].Timestamp) {
			t.Error("runs not sorted oldest first")
		}
	}
}

func TestStoreLatest(t *testing.T) {
	st := New(t.TempDir())
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var newest string
	for _, i := range []int{1, 3, 2} {
		at := base.Add(time.Duration(i) * time.Minute)
		st.now = func() time.Time { return at }
		id, err := st.Save(RunMetadata{Script: "up:1"}, sampleTrace())
		if err != nil {
			t.Fatalf("save failed: %v", err)
		}
		if i == 3 {
			newest = id
		}
	}

	meta, err := st.Latest()
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if meta.ID != newest {
		t.Errorf("expected latest run %s, got %s", newest, meta.ID)
	}
}

func TestStoreLatestEmpty(t *testing.T) {
	if _, err := New(t.TempDir()).Latest(); !errors.Is(err, ErrNoRuns) {
		t.Errorf("expected ErrNoRuns, got %v", err)
	}
}

type failingCloser struct {
	bytes.Buffer
}

func (*failingCloser) Close() error { return errCloseFailed }

var errCloseFailed = errors.New("disk full")

func TestStoreSaveReportsCloseError(t *testing.T) {
	st := New(t.TempDir())
	st.create = func(string) (io.WriteCloser, error) { return &failingCloser{}, nil }

	if _, err := st.Save(RunMetadata{}, sampleTrace()); !errors.Is(err, errCloseFailed) {
		t.Errorf("expected close error, got %v", err)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "nope")).List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestLoadTraceRejectsBadRows(t *testing.T) {
	dir := t.TempDir()
	runDir := filepath.Join(dir, "broken")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}
	csv := "tick,position,distance,capacitance,frequency,phase\n1,abc,0,0,0,0\n"
	if err := os.WriteFile(filepath.Join(runDir, traceFile), []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(dir).LoadTrace("broken"); err == nil {
		t.Error("expected parse error")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if s := Summarize(nil); len(s) != 0 {
		t.Errorf("expected empty summary, got %v", s)
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, RunMetadata{Preset: "fine"}, sampleTrace()); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	var out ExportData
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.Metadata.Ticks != 2 || len(out.States) != 2 || out.Metadata.Preset != "fine" {
		t.Errorf("unexpected export %+v", out.Metadata)
	}
}
