package frame

import (
	"fmt"

	"github.com/san-kum/capsim/internal/input"
	"github.com/san-kum/capsim/internal/motion"
	"github.com/san-kum/capsim/internal/physics"
	"github.com/san-kum/capsim/internal/scene"
	"github.com/san-kum/capsim/internal/waveform"
	"go.uber.org/zap"
)

// ReadoutDigits is the number of fraction digits shown on the readouts.
const ReadoutDigits = 2

// SimState is everything carried from one frame to the next.
type SimState struct {
	Position    float64
	Distance    float64
	Capacitance float64
	Frequency   float64
	Phase       float64
	Ticks       uint64
}

// Options wires the orchestrator to its collaborators. Every field except
// Logger, Observer and InitialPosition is required.
type Options struct {
	Capacitor        *physics.Capacitor
	Motion           motion.Integrator
	Input            *input.State
	Scheduler        Scheduler
	CapacitanceLabel TextSink
	FrequencyLabel   TextSink
	Waveform         *waveform.Renderer
	Surface          waveform.Surface
	Scene            *scene.Renderer
	InitialPosition  float64
	Logger           *zap.Logger
	Observer         func(SimState)
}

// Orchestrator runs the per-frame sequence: input and motion, model,
// readouts, waveform, scene, re-arm.
type Orchestrator struct {
	capacitor *physics.Capacitor
	motion    motion.Integrator
	input     *input.State
	scheduler Scheduler
	capLabel  TextSink
	freqLabel TextSink
	waveform  *waveform.Renderer
	surface   waveform.Surface
	scene     *scene.Renderer
	log       *zap.Logger
	observer  func(SimState)

	state SimState
}

func New(opts Options) (*Orchestrator, error) {
	required := []struct {
		name    string
		missing bool
	}{
		{"capacitor", opts.Capacitor == nil},
		{"input", opts.Input == nil},
		{"scheduler", opts.Scheduler == nil},
		{"capacitance label", opts.CapacitanceLabel == nil},
		{"frequency label", opts.FrequencyLabel == nil},
		{"waveform", opts.Waveform == nil},
		{"surface", opts.Surface == nil},
		{"scene", opts.Scene == nil},
	}
	for _, r := range required {
		if r.missing {
			return nil, fmt.Errorf("%w: %s", ErrMissingCollaborator, r.name)
		}
	}
	if err := opts.Motion.Validate(); err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	o := &Orchestrator{
		capacitor: opts.Capacitor,
		motion:    opts.Motion,
		input:     opts.Input,
		scheduler: opts.Scheduler,
		capLabel:  opts.CapacitanceLabel,
		freqLabel: opts.FrequencyLabel,
		waveform:  opts.Waveform,
		surface:   opts.Surface,
		scene:     opts.Scene,
		log:       log.Named("frame"),
		observer:  opts.Observer,
		state:     SimState{Position: opts.InitialPosition, Phase: opts.Waveform.Phase()},
	}
	o.scene.Graph().SetObjectHeight(o.state.Position)
	return o, nil
}

// Start runs the first tick; every tick re-arms the next one.
func (o *Orchestrator) Start() {
	o.log.Info("starting frame loop",
		zap.Float64("position", o.state.Position),
		zap.Float64("k", o.capacitor.K()),
		zap.Float64("inductance", o.capacitor.Inductance()),
	)
	o.Tick()
}

// HandleKeyEvent is the entry point for host key notifications.
func (o *Orchestrator) HandleKeyEvent(id string, pressed bool) bool {
	return o.input.HandleKeyEvent(id, pressed)
}

func (o *Orchestrator) Input() *input.State { return o.input }

func (o *Orchestrator) State() SimState { return o.state }

// Step computes the next state from the previous one and the held keys.
// It has no side effects.
func (o *Orchestrator) Step(prev SimState, held input.Held) SimState {
	next := prev
	next.Position = o.motion.Advance(prev.Position, held)
	next.Distance = o.motion.Distance(next.Position)
	r := o.capacitor.Evaluate(next.Distance)
	next.Capacitance = r.Capacitance
	next.Frequency = r.Frequency
	return next
}

// Tick performs one full frame. A panic from a collaborator propagates and
// the next frame is never requested.
func (o *Orchestrator) Tick() {
	s := o.Step(o.state, o.input.Snapshot())
	o.scene.Graph().SetObjectHeight(s.Position)

	o.capLabel.SetText(FormatExponential(s.Capacitance, ReadoutDigits))
	o.freqLabel.SetText(FormatExponential(s.Frequency, ReadoutDigits))

	o.waveform.Draw(o.surface, s.Frequency)
	s.Phase = o.waveform.Phase()

	o.scene.Render()

	s.Ticks++
	o.state = s

	if ce := o.log.Check(zap.DebugLevel, "tick"); ce != nil {
		ce.Write(
			zap.Uint64("tick", s.Ticks),
			zap.Float64("distance", s.Distance),
			zap.Float64("capacitance", s.Capacitance),
			zap.Float64("frequency", s.Frequency),
		)
	}
	if o.observer != nil {
		o.observer(s)
	}

	o.scheduler.RequestFrame(o.Tick)
}
