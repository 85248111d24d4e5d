package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/san-kum/capsim/internal/config"
	"github.com/san-kum/capsim/internal/frame"
	"github.com/san-kum/capsim/internal/scene"
	"github.com/san-kum/capsim/internal/waveform"
)

var ErrInvalidScript = errors.New("invalid script")

const (
	ActionUp   = "up"
	ActionDown = "down"
	ActionIdle = "idle"
	ActionBoth = "both"
)

// Segment holds a key combination for a number of ticks.
type Segment struct {
	Action string
	Ticks  int
}

// ParseScript reads a comma separated list of action:ticks pairs, for
// example "up:100,idle:20,down:50".
func ParseScript(s string) ([]Segment, error) {
	var segs []Segment
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		action, count, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q needs action:ticks", ErrInvalidScript, part)
		}
		action = strings.ToLower(strings.TrimSpace(action))
		switch action {
		case ActionUp, ActionDown, ActionIdle, ActionBoth:
		default:
			return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidScript, action)
		}
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: bad tick count in %q", ErrInvalidScript, part)
		}
		segs = append(segs, Segment{Action: action, Ticks: n})
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidScript)
	}
	return segs, nil
}

// Total is the number of ticks the script runs.
func Total(segs []Segment) int {
	n := 0
	for _, s := range segs {
		n += s.Ticks
	}
	return n
}

// Headless runs sessions without a display: a Pending scheduler, a
// recording surface and a scene backend that only counts renders.
type Headless struct {
	Session *Session
	Surface *waveform.Recorder
	Renders int
	pending *frame.Pending
	trace   []frame.SimState
	started bool
}

func NewHeadless(cfg *config.Config, log *zap.Logger) (*Headless, error) {
	h := &Headless{
		Surface: waveform.NewRecorder(800, 200),
		pending: &frame.Pending{},
	}
	s, err := NewSession(cfg, Host{
		Scheduler: h.pending,
		Surface:   h.Surface,
		Backend:   scene.BackendFunc(func(*scene.Graph, scene.Camera) { h.Renders++ }),
		Observer:  func(st frame.SimState) { h.trace = append(h.trace, st) },
	}, log)
	if err != nil {
		return nil, err
	}
	h.Session = s
	return h, nil
}

// Tick runs exactly one frame.
func (h *Headless) Tick() {
	if !h.started {
		h.started = true
		h.Session.Frame.Start()
		return
	}
	h.pending.Run()
}

// Run plays the script and returns the state after every tick. Both keys
// are released when it returns.
func (h *Headless) Run(segs []Segment) []frame.SimState {
	keys := h.Session.Input.Keys()
	for _, seg := range segs {
		up := seg.Action == ActionUp || seg.Action == ActionBoth
		down := seg.Action == ActionDown || seg.Action == ActionBoth
		h.Session.Frame.HandleKeyEvent(keys.Up, up)
		h.Session.Frame.HandleKeyEvent(keys.Down, down)
		for i := 0; i < seg.Ticks; i++ {
			h.Tick()
		}
	}
	h.Session.Frame.HandleKeyEvent(keys.Up, false)
	h.Session.Frame.HandleKeyEvent(keys.Down, false)
	return h.trace
}

func (h *Headless) Trace() []frame.SimState { return h.trace }
