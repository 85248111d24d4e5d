package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/capsim/internal/config"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestModel(t *testing.T) (*Model, *clock) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.InitialPosition = 0.5
	m, err := NewModel(cfg, nil)
	require.NoError(t, err)
	c := &clock{t: epoch}
	m.now = c.now
	return m, c
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func tick(m *Model, at time.Time) tea.Cmd {
	_, cmd := m.Update(TickMsg(at))
	return cmd
}

func TestFirstTickStartsLoop(t *testing.T) {
	m, _ := newTestModel(t)
	require.NotNil(t, m.Init())

	cmd := tick(m, epoch)
	assert.NotNil(t, cmd, "tick re-arms")
	assert.Equal(t, uint64(1), m.Session().Frame.State().Ticks)
	assert.Equal(t, "8.85e-11", m.Session().Capacitance.Text())
	assert.Equal(t, "5.35e+5", m.Session().Frequency.Text())

	tick(m, epoch.Add(time.Millisecond))
	assert.Equal(t, uint64(2), m.Session().Frame.State().Ticks)
	assert.Len(t, m.History(), 2)
}

func TestHeldKeyMovesUntilLatchExpires(t *testing.T) {
	m, _ := newTestModel(t)
	tick(m, epoch)

	m.Update(runes("w"))
	for i := 1; i <= 10; i++ {
		tick(m, epoch.Add(time.Duration(i)*10*time.Millisecond))
	}
	assert.InDelta(t, 0.6, m.Session().Frame.State().Position, 1e-9)

	tick(m, epoch.Add(2*time.Second))
	pos := m.Session().Frame.State().Position
	tick(m, epoch.Add(3*time.Second))
	assert.Equal(t, pos, m.Session().Frame.State().Position)
	assert.False(t, m.Session().Input.Snapshot().Up)
}

func TestSpaceReleasesKeys(t *testing.T) {
	m, _ := newTestModel(t)
	tick(m, epoch)
	m.Update(runes("w"))
	require.True(t, m.Session().Input.Snapshot().Up)

	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, m.Session().Input.Snapshot().Up)
}

func TestArrowKeysOrbit(t *testing.T) {
	m, _ := newTestModel(t)
	before := m.Session().Orbit().Camera().Position

	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.True(t, m.Session().Orbit().Pending())
	tick(m, epoch)
	assert.NotEqual(t, before, m.Session().Orbit().Camera().Position)
}

func TestThemeCycleAndHelp(t *testing.T) {
	m, _ := newTestModel(t)
	first := m.Theme().Name

	m.Update(runes("t"))
	assert.NotEqual(t, first, m.Theme().Name)

	tick(m, epoch)
	assert.NotContains(t, m.View(), "KEYBOARD SHORTCUTS")
	m.Update(runes("?"))
	assert.Contains(t, m.View(), "KEYBOARD SHORTCUTS")
}

func TestViewShowsReadouts(t *testing.T) {
	m, _ := newTestModel(t)
	tick(m, epoch)
	tick(m, epoch.Add(time.Millisecond))

	v := m.View()
	assert.Contains(t, v, "8.85e-11 F")
	assert.Contains(t, v, "5.35e+5 Hz")
	assert.Contains(t, v, "Frequency (Hz)")
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHistoryIsBounded(t *testing.T) {
	m, _ := newTestModel(t)
	for i := 0; i < historyCapacity+20; i++ {
		tick(m, epoch.Add(time.Duration(i)*time.Millisecond))
	}
	assert.Len(t, m.History(), historyCapacity)
}

func TestExportSnapshot(t *testing.T) {
	m, _ := newTestModel(t)
	m.dataDir = t.TempDir()
	tick(m, epoch)

	m.Update(runes("e"))
	assert.Equal(t, "saved snapshot 20240101-000000", m.Status())
	for _, name := range []string{"scene-20240101-000000.svg", "trace-20240101-000000.svg"} {
		data, err := os.ReadFile(filepath.Join(m.dataDir, name))
		require.NoError(t, err)
		assert.Contains(t, string(data), "<circle")
	}
	assert.Contains(t, m.View(), "saved snapshot")
}
