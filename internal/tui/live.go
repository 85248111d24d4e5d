// Package tui hosts the sensor simulation in a terminal with Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/capsim/internal/app"
	"github.com/san-kum/capsim/internal/config"
	"github.com/san-kum/capsim/internal/export"
	"github.com/san-kum/capsim/internal/frame"
	"github.com/san-kum/capsim/internal/input"
	"github.com/san-kum/capsim/internal/viz"
)

const (
	sceneCols       = 48
	sceneRows       = 16
	traceCols       = 48
	traceRows       = 6
	historyCapacity = 120

	orbitStep = 0.15
	dollyStep = 0.9
)

type TickMsg time.Time

// Model drives the frame orchestrator from Bubble Tea ticks. The pending
// frame requested by each tick runs on the next TickMsg.
type Model struct {
	session  *app.Session
	pending  *frame.Pending
	latch    *input.Latch
	trace    *viz.Surface
	scene    *viz.Canvas
	theme    viz.Theme
	styles   viz.Styles
	history  []float64
	interval time.Duration
	started  bool
	showHelp bool
	dataDir  string
	status   string
	log      *zap.Logger
	now      func() time.Time
}

func NewModel(cfg *config.Config, log *zap.Logger) (*Model, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}
	theme := viz.GetTheme(cfg.Theme)
	m := &Model{
		pending:  &frame.Pending{},
		trace:    viz.NewSurface(viz.NewCanvas(traceCols, traceRows)),
		scene:    viz.NewCanvas(sceneCols, sceneRows),
		theme:    theme,
		styles:   viz.NewStyles(theme),
		history:  make([]float64, 0, historyCapacity),
		interval: cfg.FrameInterval(),
		dataDir:  cfg.DataDir,
		log:      log.Named("tui"),
		now:      time.Now,
	}
	s, err := app.NewSession(cfg, app.Host{
		Scheduler: m.pending,
		Surface:   m.trace,
		Backend:   viz.NewWireframeBackend(m.scene),
		Observer:  m.record,
	}, log)
	if err != nil {
		return nil, err
	}
	m.session = s
	m.latch = input.NewLatch(s.Input, cfg.HoldWindow)
	return m, nil
}

func (m *Model) record(s frame.SimState) {
	if len(m.history) == historyCapacity {
		copy(m.history, m.history[1:])
		m.history = m.history[:historyCapacity-1]
	}
	m.history = append(m.history, s.Frequency)
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Model) Init() tea.Cmd { return m.tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case TickMsg:
		m.latch.Expire(time.Time(msg))
		if !m.started {
			m.started = true
			m.session.Frame.Start()
		} else {
			m.pending.Run()
		}
		if m.pending.Armed() {
			return m, m.tick()
		}
		m.log.Warn("frame loop stopped re-arming")
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	orbit := m.session.Orbit()
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return tea.Quit
	case " ":
		m.latch.ReleaseAll()
	case "left":
		orbit.Rotate(-orbitStep, 0)
	case "right":
		orbit.Rotate(orbitStep, 0)
	case "up":
		orbit.Rotate(0, -orbitStep)
	case "down":
		orbit.Rotate(0, orbitStep)
	case "+", "=":
		orbit.Dolly(dollyStep)
	case "-", "_":
		orbit.Dolly(1 / dollyStep)
	case "t":
		m.theme = viz.NextTheme(m.theme.Name)
		m.styles = viz.NewStyles(m.theme)
		m.log.Debug("theme changed", zap.String("theme", m.theme.Name))
	case "?":
		m.showHelp = !m.showHelp
	case "e":
		m.snapshot()
	default:
		m.latch.Press(key, m.now())
	}
	return nil
}

// snapshot writes the scene and trace canvases as SVG into the data directory.
func (m *Model) snapshot() {
	stamp := m.now().Format("20060102-150405")
	files := map[string]string{
		filepath.Join(m.dataDir, "scene-"+stamp+".svg"): export.CanvasToSVG(m.scene, 4, string(m.theme.Scene)),
		filepath.Join(m.dataDir, "trace-"+stamp+".svg"): export.CanvasToSVG(m.trace.Canvas(), 4, string(m.theme.Trace)),
	}
	for path, svg := range files {
		if err := export.WriteFile(path, svg); err != nil {
			m.status = "export failed: " + err.Error()
			m.log.Error("snapshot failed", zap.String("path", path), zap.Error(err))
			return
		}
	}
	m.status = "saved snapshot " + stamp
	m.log.Info("snapshot saved", zap.String("dir", m.dataDir), zap.String("stamp", stamp))
}

// Status is the last one-line message shown under the panel.
func (m *Model) Status() string { return m.status }

// Session exposes the wired orchestrator.
func (m *Model) Session() *app.Session { return m.session }

func (m *Model) Theme() viz.Theme { return m.theme }

func (m *Model) History() []float64 { return m.history }

func (m *Model) View() string {
	st := m.session.Frame.State()
	held := m.session.Input.Snapshot()
	keys := m.session.Input.Keys()

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Scene.Render(m.scene.String()),
		m.styles.Trace.Render(m.trace.Canvas().String()),
	)

	var s strings.Builder
	s.WriteString(m.styles.Header.Render("CAPACITIVE SENSOR") + "\n")
	s.WriteString(m.styles.Row("Capacitance", m.session.Capacitance.Text()+" F") + "\n")
	s.WriteString(m.styles.Row("Frequency", m.session.Frequency.Text()+" Hz") + "\n")
	s.WriteString(m.styles.Row("Distance", fmt.Sprintf("%.3f", st.Distance)) + "\n")
	s.WriteString(m.styles.Row("Height", fmt.Sprintf("%.3f", st.Position)) + "\n")
	s.WriteString(m.styles.Row("Proximity", viz.ProgressBar(proximity(st.Distance), 16)) + "\n")
	s.WriteString(m.styles.Row("Keys", keyState(keys, held, m.styles)) + "\n")
	s.WriteString(m.styles.Separator(34) + "\n")
	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(5),
			asciigraph.Width(26),
			asciigraph.Precision(0),
			asciigraph.Caption("Frequency (Hz)"),
		)
		s.WriteString(lipgloss.NewStyle().Foreground(m.theme.Trace).Render(chart) + "\n")
	}
	s.WriteString(m.styles.Row("Theme", m.theme.Name) + "\n")
	if m.status != "" {
		s.WriteString(m.styles.Alert.Render(m.status) + "\n")
	}
	s.WriteString(m.styles.Help.Render(fmt.Sprintf("%s/%s:Move SP:Release Q:Quit\n←→↑↓:Orbit +/-:Zoom T:Theme E:Export ?:Help", keys.Up, keys.Down)))

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, m.styles.Panel.Render(s.String()))
	if m.showHelp {
		return helpBox(keys) + "\n\n" + body
	}
	return body
}

// proximity maps distance onto [0,1], 1 being touching.
func proximity(d float64) float64 {
	return math.Max(0, 1-d/2)
}

func keyState(keys input.KeyMap, held input.Held, st viz.Styles) string {
	var parts []string
	if held.Up {
		parts = append(parts, st.Alert.Render("UP("+keys.Up+")"))
	}
	if held.Down {
		parts = append(parts, st.Alert.Render("DOWN("+keys.Down+")"))
	}
	if len(parts) == 0 {
		return "idle"
	}
	return strings.Join(parts, " ")
}

func helpBox(keys input.KeyMap) string {
	return fmt.Sprintf(`
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  %-6s - Raise the target           ║
║  %-6s - Lower the target           ║
║  Space  - Release movement keys      ║
║  Arrows - Orbit the camera           ║
║  + / -  - Zoom in / out              ║
║  T      - Cycle themes               ║
║  Q      - Quit                       ║
║  ?      - Toggle this help           ║
╚══════════════════════════════════════╝`, keys.Up, keys.Down)
}

// Run starts the terminal program and blocks until it exits or ctx ends.
func Run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	m, err := NewModel(cfg, log)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal host: %w", err)
	}
	return nil
}
