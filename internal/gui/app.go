// Package gui hosts the sensor simulation in a raylib window.
package gui

import (
	"context"
	"fmt"
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/san-kum/capsim/internal/app"
	"github.com/san-kum/capsim/internal/config"
	"github.com/san-kum/capsim/internal/frame"
	"github.com/san-kum/capsim/internal/scene"
)

const (
	screenW = 1280
	screenH = 720
	traceW  = 480
	traceH  = 160

	orbitSpeed = 0.005
	keyOrbit   = 0.03
	wheelDolly = 0.9
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColPanel   = rl.NewColor(0, 0, 0, 255)
	ColText    = rl.NewColor(200, 200, 200, 255)
	ColTextDim = rl.NewColor(90, 90, 90, 255)
	ColReadout = rl.NewColor(0, 255, 0, 255)
)

type App struct {
	session *app.Session
	pending *frame.Pending
	trace   *TraceSurface
	keys    map[string]int32
	started bool
	log     *zap.Logger
}

func initWindow(fps int) {
	rl.InitWindow(screenW, screenH, "capsim")
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

// NewApp wires a session to the window. The window must already be open.
func NewApp(cfg *config.Config, log *zap.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{
		pending: &frame.Pending{},
		trace:   NewTraceSurface(traceW, traceH, ColPanel),
		keys:    make(map[string]int32, 2),
		log:     log.Named("gui"),
	}
	for _, id := range []string{cfg.Keys.Up, cfg.Keys.Down} {
		code, err := keyCode(id)
		if err != nil {
			a.trace.Unload()
			return nil, err
		}
		a.keys[id] = code
	}
	s, err := app.NewSession(cfg, app.Host{
		Scheduler: a.pending,
		Surface:   a.trace,
		Backend:   a,
	}, log)
	if err != nil {
		a.trace.Unload()
		return nil, err
	}
	a.session = s
	return a, nil
}

// Run opens the window and blocks until it is closed, q is pressed or ctx
// ends.
func Run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	initWindow(cfg.FPS)
	defer rl.CloseWindow()

	a, err := NewApp(cfg, log)
	if err != nil {
		return fmt.Errorf("window host: %w", err)
	}
	defer a.trace.Unload()
	a.RunLoop(ctx)
	return nil
}

func (a *App) RunLoop(ctx context.Context) {
	a.log.Info("window open", zap.Int("width", screenW), zap.Int("height", screenH))
	for !rl.WindowShouldClose() && ctx.Err() == nil {
		if rl.IsKeyPressed(rl.KeyQ) {
			break
		}
		a.Update()
		a.Draw()
	}
	a.log.Info("window closed", zap.Uint64("ticks", a.session.Frame.State().Ticks))
}

// Update forwards real key transitions and camera gestures. It never
// touches the simulation state directly.
func (a *App) Update() {
	for id, code := range a.keys {
		if rl.IsKeyPressed(code) {
			a.session.Frame.HandleKeyEvent(id, true)
		}
		if rl.IsKeyReleased(code) {
			a.session.Frame.HandleKeyEvent(id, false)
		}
	}

	orbit := a.session.Orbit()
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		d := rl.GetMouseDelta()
		orbit.Rotate(-float64(d.X)*orbitSpeed, -float64(d.Y)*orbitSpeed)
	}
	if w := rl.GetMouseWheelMove(); w != 0 {
		orbit.Dolly(math.Pow(wheelDolly, float64(w)))
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		orbit.Rotate(-keyOrbit, 0)
	}
	if rl.IsKeyDown(rl.KeyRight) {
		orbit.Rotate(keyOrbit, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		orbit.Rotate(0, -keyOrbit)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		orbit.Rotate(0, keyOrbit)
	}
}

// Draw runs the frame the orchestrator requested last time.
func (a *App) Draw() {
	rl.BeginDrawing()
	if !a.started {
		a.started = true
		a.session.Frame.Start()
	} else if !a.pending.Run() {
		a.drawFrozen()
	}
	rl.EndDrawing()
}

// Render implements scene.Backend. It runs inside the frame tick after the
// readouts and the trace texture are up to date.
func (a *App) Render(g *scene.Graph, cam scene.Camera) {
	rl.ClearBackground(ColBg)

	camera := rl.NewCamera3D(vec3(cam.Position), vec3(cam.Target), vec3(cam.Up),
		float32(cam.FOV*180/math.Pi), rl.CameraPerspective)
	rl.BeginMode3D(camera)
	drawGraph(g)
	rl.EndMode3D()

	a.drawHUD()
}

func drawGraph(g *scene.Graph) {
	p := g.Sensor
	plate := shaded(p.Color, g.Shade(scene.Vec3{Y: 1}))
	rl.DrawPlane(vec3(p.Center), rl.NewVector2(float32(p.Width), float32(p.Depth)),
		rl.ColorAlpha(plate, float32(p.Opacity)))

	b := g.Object
	pos, size := vec3(b.Position), vec3(b.Size)
	rl.DrawCube(pos, size.X, size.Y, size.Z, shaded(b.Color, g.Shade(g.Directional.Direction)))
	rl.DrawCubeWires(pos, size.X, size.Y, size.Z, shaded(b.Color, g.Shade(scene.Vec3{Y: -1})))

	bottom := b.Position
	bottom.Y -= b.Size.Y / 2
	if bottom.Y > p.Center.Y {
		foot := scene.Vec3{X: bottom.X, Y: p.Center.Y, Z: bottom.Z}
		rl.DrawLine3D(vec3(bottom), vec3(foot), ColTextDim)
	}
}

func (a *App) drawHUD() {
	rl.DrawText("capsim", 30, 30, 24, ColText)
	rl.DrawText("Capacitance: "+a.session.Capacitance.Text()+" F", 30, 70, 20, ColReadout)
	rl.DrawText("Frequency: "+a.session.Frequency.Text()+" Hz", 30, 96, 20, ColReadout)

	st := a.session.Frame.State()
	rl.DrawText(fmt.Sprintf("distance %.3f  height %.3f", st.Distance, st.Position), 30, 126, 16, ColTextDim)

	x, y := int32(screenW-traceW-30), int32(screenH-traceH-50)
	rl.DrawRectangleLines(x-1, y-1, traceW+2, traceH+2, ColTextDim)
	a.trace.Draw(x, y)

	k := a.session.Input.Keys()
	help := fmt.Sprintf("[%s/%s] MOVE  [DRAG/ARROWS] ORBIT  [WHEEL] ZOOM  [Q] QUIT", k.Up, k.Down)
	rl.DrawText(help, 30, screenH-30, 14, ColTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), screenW-90, 30, 14, ColTextDim)
}

func (a *App) drawFrozen() {
	rl.DrawText("frame loop stopped", 30, screenH/2, 20, rl.Red)
}

func vec3(v scene.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

func shaded(c color.RGBA, f float64) rl.Color {
	scale := func(v uint8) uint8 { return uint8(math.Round(float64(v) * f)) }
	return rl.NewColor(scale(c.R), scale(c.G), scale(c.B), c.A)
}
