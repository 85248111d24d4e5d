package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/capsim/internal/config"
	"github.com/san-kum/capsim/internal/frame"
	"github.com/san-kum/capsim/internal/input"
	"github.com/san-kum/capsim/internal/physics"
)

func TestParseScript(t *testing.T) {
	segs, err := ParseScript(" up:100, idle:20 ,DOWN:50,")
	require.NoError(t, err)
	assert.Equal(t, []Segment{{ActionUp, 100}, {ActionIdle, 20}, {ActionDown, 50}}, segs)
	assert.Equal(t, 170, Total(segs))

	for _, bad := range []string{"", "up", "jump:3", "up:-1", "up:x"} {
		_, err := ParseScript(bad)
		assert.ErrorIs(t, err, ErrInvalidScript, bad)
	}
}

func TestNewSessionRequiresBackend(t *testing.T) {
	_, err := NewSession(config.DefaultConfig(), Host{}, nil)
	assert.ErrorIs(t, err, frame.ErrMissingCollaborator)
}

func TestNewSessionRejectsBadPhysics(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Physics.Inductance = -1
	_, err := NewHeadless(cfg, nil)
	assert.ErrorIs(t, err, physics.ErrInvalidConstant)
}

func TestHeadlessRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.InitialPosition = 0.5
	h, err := NewHeadless(cfg, nil)
	require.NoError(t, err)

	trace := h.Run([]Segment{{ActionUp, 100}, {ActionIdle, 10}, {ActionDown, 200}})
	require.Len(t, trace, 310)

	afterUp := trace[99]
	assert.InDelta(t, 1.5, afterUp.Position, 1e-9)
	assert.InDelta(t, 1.0, afterUp.Distance, 1e-9)

	idle := trace[109]
	assert.Equal(t, afterUp.Position, idle.Position)
	assert.Greater(t, idle.Phase, afterUp.Phase)

	last := trace[len(trace)-1]
	assert.Equal(t, 0.5, last.Position)
	assert.Equal(t, uint64(310), last.Ticks)

	assert.Equal(t, 310, h.Renders)
	assert.Equal(t, 310, h.Surface.Strokes)
	assert.Equal(t, "8.85e-11", h.Session.Capacitance.Text())
}

func TestHeadlessRunReleasesKeys(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.InitialPosition = 0.5
	h, err := NewHeadless(cfg, nil)
	require.NoError(t, err)

	segs, err := ParseScript("up:10")
	require.NoError(t, err)
	trace := h.Run(segs)
	require.Len(t, trace, 10)
	assert.Equal(t, input.Held{}, h.Session.Input.Snapshot())

	h.Tick()
	assert.Equal(t, trace[9].Position, h.Trace()[10].Position)
}

func TestHeadlessBothKeysCancel(t *testing.T) {
	h, err := NewHeadless(config.DefaultConfig(), nil)
	require.NoError(t, err)

	trace := h.Run([]Segment{{ActionBoth, 5}})
	for _, s := range trace {
		assert.InDelta(t, 1.0, s.Position, 1e-12)
	}
}
