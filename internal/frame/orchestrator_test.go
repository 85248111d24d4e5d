package frame_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/san-kum/capsim/internal/frame"
	"github.com/san-kum/capsim/internal/input"
	"github.com/san-kum/capsim/internal/motion"
	"github.com/san-kum/capsim/internal/physics"
	"github.com/san-kum/capsim/internal/scene"
	"github.com/san-kum/capsim/internal/waveform"
)

type countingScheduler struct {
	requests int
	next     func()
}

func (s *countingScheduler) RequestFrame(fn func()) {
	s.requests++
	s.next = fn
}

type callLog struct {
	calls []string
}

type loggingSink struct {
	name string
	log  *callLog
	frame.Label
}

func (s *loggingSink) SetText(v string) {
	s.log.calls = append(s.log.calls, s.name)
	s.Label.SetText(v)
}

type loggingBackend struct {
	log    *callLog
	height float64
}

func (b *loggingBackend) Render(g *scene.Graph, _ scene.Camera) {
	b.log.calls = append(b.log.calls, "scene")
	b.height = g.Object.Position.Y
}

type harness struct {
	orch      *frame.Orchestrator
	sched     *countingScheduler
	capLabel  *loggingSink
	freqLabel *loggingSink
	surface   *waveform.Recorder
	backend   *loggingBackend
	calls     *callLog
	cap       *physics.Capacitor
	wave      *waveform.Renderer
}

func newHarness(position float64, logger *zap.Logger) *harness {
	capacitor, err := physics.NewCapacitor(physics.DefaultConstants())
	Expect(err).NotTo(HaveOccurred())

	calls := &callLog{}
	h := &harness{
		sched:     &countingScheduler{},
		capLabel:  &loggingSink{name: "capacitance", log: calls},
		freqLabel: &loggingSink{name: "frequency", log: calls},
		surface:   waveform.NewRecorder(64, 32),
		backend:   &loggingBackend{log: calls},
		calls:     calls,
		cap:       capacitor,
		wave:      waveform.NewRenderer(waveform.DefaultParams(), nil),
	}
	h.orch, err = frame.New(frame.Options{
		Capacitor:        capacitor,
		Motion:           motion.Default(),
		Input:            input.NewState(input.DefaultKeyMap()),
		Scheduler:        h.sched,
		CapacitanceLabel: h.capLabel,
		FrequencyLabel:   h.freqLabel,
		Waveform:         h.wave,
		Surface:          h.surface,
		Scene:            scene.NewRenderer(scene.NewOrbitControls(scene.DefaultCamera()), h.backend, scene.DefaultGraph()),
		InitialPosition:  position,
		Logger:           logger,
	})
	Expect(err).NotTo(HaveOccurred())
	return h
}

// run drives n frames through the scheduler chain.
func (h *harness) run(n int) {
	for i := 0; i < n; i++ {
		Expect(h.sched.next).NotTo(BeNil())
		next := h.sched.next
		h.sched.next = nil
		next()
	}
}

func closedFormFrequency(k, distance float64) float64 {
	return 1 / (2 * math.Pi * math.Sqrt(physics.DefaultInductance*k/distance))
}

var _ = Describe("Orchestrator", func() {
	Describe("construction", func() {
		It("fails fast when a collaborator is missing", func() {
			_, err := frame.New(frame.Options{Motion: motion.Default()})
			Expect(err).To(MatchError(frame.ErrMissingCollaborator))
		})

		It("rejects an invalid integrator", func() {
			capacitor, _ := physics.NewCapacitor(physics.DefaultConstants())
			_, err := frame.New(frame.Options{
				Capacitor:        capacitor,
				Motion:           motion.Integrator{Step: 0, Epsilon: 0.001},
				Input:            input.NewState(input.DefaultKeyMap()),
				Scheduler:        &countingScheduler{},
				CapacitanceLabel: &frame.Label{},
				FrequencyLabel:   &frame.Label{},
				Waveform:         waveform.NewRenderer(waveform.DefaultParams(), nil),
				Surface:          waveform.NewRecorder(1, 1),
				Scene:            scene.NewRenderer(scene.NewOrbitControls(scene.DefaultCamera()), &loggingBackend{log: &callLog{}}, scene.DefaultGraph()),
			})
			Expect(err).To(MatchError(motion.ErrInvalidStep))
		})

		It("places the scene object at the initial position", func() {
			h := newHarness(1.0, nil)
			h.orch.Start()
			Expect(h.backend.height).To(BeNumerically("~", 1.0, 1e-12))
		})
	})

	Describe("a tick", func() {
		It("runs the stages in order and re-arms exactly once", func() {
			h := newHarness(0.5, nil)
			h.orch.Start()

			Expect(h.calls.calls).To(Equal([]string{"capacitance", "frequency", "scene"}))
			Expect(h.surface.Strokes).To(Equal(1))
			Expect(h.sched.requests).To(Equal(1))

			h.run(4)
			Expect(h.sched.requests).To(Equal(5))
			Expect(h.orch.State().Ticks).To(Equal(uint64(5)))
		})

		It("does not re-arm when a collaborator panics", func() {
			h := newHarness(0.5, nil)
			h.orch.Start()
			h.sched.next = nil

			bad, err := frame.New(frame.Options{
				Capacitor:        h.cap,
				Motion:           motion.Default(),
				Input:            input.NewState(input.DefaultKeyMap()),
				Scheduler:        h.sched,
				CapacitanceLabel: &frame.Label{},
				FrequencyLabel:   &frame.Label{},
				Waveform:         waveform.NewRenderer(waveform.DefaultParams(), nil),
				Surface:          waveform.NewRecorder(8, 8),
				Scene:            scene.NewRenderer(scene.NewOrbitControls(scene.DefaultCamera()), panicBackend{}, scene.DefaultGraph()),
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(bad.Tick).To(Panic())
			Expect(h.sched.next).To(BeNil())
		})

		It("logs distance, capacitance and frequency at debug level", func() {
			core, logs := observer.New(zap.DebugLevel)
			h := newHarness(0.5, zap.New(core))
			h.orch.Start()

			ticks := logs.FilterMessage("tick").All()
			Expect(ticks).To(HaveLen(1))
			fields := ticks[0].ContextMap()
			Expect(fields).To(HaveKey("distance"))
			Expect(fields).To(HaveKey("capacitance"))
			Expect(fields).To(HaveKey("frequency"))
		})
	})

	Describe("Step", func() {
		It("is free of side effects", func() {
			h := newHarness(0.5, nil)
			prev := frame.SimState{Position: 0.8}
			next := h.orch.Step(prev, input.Held{Up: true})

			Expect(next.Position).To(BeNumerically("~", 0.81, 1e-12))
			Expect(prev.Position).To(Equal(0.8))
			Expect(h.orch.State().Ticks).To(BeZero())
			Expect(h.sched.requests).To(BeZero())
		})
	})

	Describe("input toggling", func() {
		It("press then release before a tick changes nothing", func() {
			h := newHarness(1.0, nil)
			h.orch.Start()
			before := h.orch.Input().Snapshot()

			h.orch.HandleKeyEvent("w", true)
			h.orch.HandleKeyEvent("w", false)
			Expect(h.orch.Input().Snapshot()).To(Equal(before))

			h.run(1)
			Expect(h.orch.State().Position).To(BeNumerically("~", 1.0, 1e-12))
		})
	})

	Describe("scenario: object resting on the floor", func() {
		It("clamps distance to epsilon and shows the closed-form readouts", func() {
			h := newHarness(0.5, nil)
			h.orch.Start()

			s := h.orch.State()
			Expect(s.Distance).To(Equal(motion.DefaultEpsilon))
			Expect(s.Capacitance).To(BeNumerically("~", h.cap.K()/0.001, 1e-24))
			Expect(s.Frequency).To(BeNumerically("~", closedFormFrequency(h.cap.K(), 0.001), 1e-6))

			Expect(h.capLabel.Text()).To(Equal(frame.FormatExponential(h.cap.K()/0.001, 2)))
			Expect(h.capLabel.Text()).To(Equal("8.85e-11"))
			Expect(h.freqLabel.Text()).To(Equal("5.35e+5"))
		})
	})

	Describe("scenario: holding move up for 100 ticks", func() {
		It("lifts the object to 1.5 with C = k", func() {
			h := newHarness(0.5, nil)
			h.orch.HandleKeyEvent("w", true)
			h.orch.Start()
			h.run(99)

			s := h.orch.State()
			Expect(s.Ticks).To(Equal(uint64(100)))
			Expect(s.Position).To(BeNumerically("~", 1.5, 1e-9))
			Expect(s.Distance).To(BeNumerically("~", 1.0, 1e-9))
			Expect(s.Capacitance).To(BeNumerically("~", h.cap.K(), h.cap.K()*1e-9))
			Expect(s.Frequency).To(BeNumerically("~", closedFormFrequency(h.cap.K(), 1.0), 1e-1))
			Expect(h.capLabel.Text()).To(Equal("8.85e-14"))
			Expect(h.freqLabel.Text()).To(Equal("1.69e+7"))
			Expect(h.backend.height).To(BeNumerically("~", 1.5, 1e-9))
		})
	})

	Describe("scenario: all keys released", func() {
		It("holds position and readouts while the waveform keeps moving", func() {
			h := newHarness(0.5, nil)
			h.orch.HandleKeyEvent("w", true)
			h.orch.Start()
			h.run(29)
			h.orch.HandleKeyEvent("w", false)
			h.run(1)

			settled := h.orch.State()
			capText, freqText := h.capLabel.Text(), h.freqLabel.Text()

			for i := 0; i < 20; i++ {
				h.run(1)
				s := h.orch.State()
				Expect(s.Position).To(Equal(settled.Position))
				Expect(s.Capacitance).To(Equal(settled.Capacitance))
				Expect(s.Frequency).To(Equal(settled.Frequency))
				Expect(s.Phase).To(BeNumerically(">", settled.Phase))
				Expect(h.capLabel.Text()).To(Equal(capText))
				Expect(h.freqLabel.Text()).To(Equal(freqText))
				settled.Phase = s.Phase
			}
		})
	})

	Describe("holding move down", func() {
		It("never sinks below the floor", func() {
			h := newHarness(0.8, nil)
			h.orch.HandleKeyEvent("s", true)
			h.orch.Start()
			for i := 0; i < 200; i++ {
				h.run(1)
				Expect(h.orch.State().Position).To(BeNumerically(">=", motion.DefaultFloor))
				Expect(h.orch.State().Distance).To(BeNumerically(">", 0))
			}
		})
	})
})

type panicBackend struct{}

func (panicBackend) Render(*scene.Graph, scene.Camera) { panic("render failed") }
