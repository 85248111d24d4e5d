// Package app assembles a frame orchestrator from configuration and the
// collaborators a host provides.
package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/capsim/internal/config"
	"github.com/san-kum/capsim/internal/frame"
	"github.com/san-kum/capsim/internal/input"
	"github.com/san-kum/capsim/internal/physics"
	"github.com/san-kum/capsim/internal/scene"
	"github.com/san-kum/capsim/internal/waveform"
)

// Host is what a front end supplies: where frames are scheduled, where the
// trace is drawn and how the scene is drawn.
type Host struct {
	Scheduler frame.Scheduler
	Surface   waveform.Surface
	Backend   scene.Backend
	Observer  func(frame.SimState)
}

// Session holds a wired orchestrator and the pieces hosts read back.
type Session struct {
	Config      *config.Config
	Frame       *frame.Orchestrator
	Input       *input.State
	Scene       *scene.Renderer
	Capacitance *frame.Label
	Frequency   *frame.Label
}

func NewSession(cfg *config.Config, h Host, log *zap.Logger) (*Session, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}
	capacitor, err := physics.NewCapacitor(cfg.Physics)
	if err != nil {
		return nil, fmt.Errorf("physics: %w", err)
	}
	if h.Backend == nil {
		return nil, fmt.Errorf("%w: scene backend", frame.ErrMissingCollaborator)
	}

	s := &Session{
		Config:      cfg,
		Input:       input.NewState(cfg.Keys),
		Scene:       scene.NewRenderer(scene.NewOrbitControls(scene.DefaultCamera()), h.Backend, scene.DefaultGraph()),
		Capacitance: &frame.Label{},
		Frequency:   &frame.Label{},
	}
	s.Frame, err = frame.New(frame.Options{
		Capacitor:        capacitor,
		Motion:           cfg.Motion,
		Input:            s.Input,
		Scheduler:        h.Scheduler,
		CapacitanceLabel: s.Capacitance,
		FrequencyLabel:   s.Frequency,
		Waveform:         waveform.NewRenderer(cfg.Waveform, waveform.DefaultColor),
		Surface:          h.Surface,
		Scene:            s.Scene,
		InitialPosition:  cfg.InitialPosition,
		Logger:           log,
		Observer:         h.Observer,
	})
	if err != nil {
		return nil, err
	}
	log.Debug("session ready",
		zap.String("preset", cfg.Preset),
		zap.String("up", s.Input.Keys().Up),
		zap.String("down", s.Input.Keys().Down),
	)
	return s, nil
}

// Orbit exposes the camera controls of the scene.
func (s *Session) Orbit() *scene.OrbitControls { return s.Scene.Controls() }
