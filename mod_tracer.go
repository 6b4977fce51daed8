package spheretrace

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/gekko3d/spheretrace/bench"
	"github.com/gekko3d/spheretrace/rt/core"
	"github.com/gekko3d/spheretrace/rt/gpu"
	"github.com/gekko3d/spheretrace/rt/hud"
	"github.com/gekko3d/spheretrace/rt/trace"
)

type Backend int

const (
	// BackendGPU runs both passes on the GPU.
	BackendGPU Backend = iota
	// BackendCPU traces on the host and presents through the GPU present pass.
	BackendCPU
	// BackendHeadless traces on the host with no window at all.
	BackendHeadless
)

func (b Backend) String() string {
	switch b {
	case BackendGPU:
		return "gpu"
	case BackendCPU:
		return "cpu"
	case BackendHeadless:
		return "headless"
	}
	return fmt.Sprintf("Backend(%d)", int(b))
}

var ErrNoWindow = errors.New("backend needs a window")

type frameRenderer interface {
	UploadScene(scene *core.Scene)
	Render(p core.FrameParameters, accounting bool) (float64, error)
	SetHud(mask *image.Alpha) error
	Release()
}

// RenderBackend is the renderer resource shared by the tracer systems.
type RenderBackend struct {
	Kind   Backend
	impl   frameRenderer
	hud    *hud.Hud
	window *WindowState
}

// FrameStats tracks frame rate and ray throughput over one-second windows.
type FrameStats struct {
	FPS        float64
	RaysPerSec float64
	Frames     uint64
	LastRays   float64

	windowStart   time.Time
	windowFrames  int
	windowRayWork float64
}

// Sample adds one frame and reports whether a one-second window just closed.
func (s *FrameStats) Sample(now time.Time, rayWork float64, counted bool) bool {
	s.Frames++
	s.LastRays = rayWork
	if s.windowStart.IsZero() {
		s.windowStart = now
		return false
	}
	s.windowFrames++
	if counted {
		s.windowRayWork += rayWork
	}
	elapsed := now.Sub(s.windowStart)
	if elapsed < time.Second {
		return false
	}
	s.FPS = float64(s.windowFrames) / elapsed.Seconds()
	s.RaysPerSec = s.windowRayWork / elapsed.Seconds()
	s.windowStart = now
	s.windowFrames = 0
	s.windowRayWork = 0
	return true
}

type TracerModule struct {
	Backend Backend
	// Width and Height size the headless targets. Windowed backends use the
	// framebuffer size.
	Width   int
	Height  int
	HudSize float64
}

func (m TracerModule) Install(app *App, cmd *Commands) {
	state, ok := resource[TraceState](app)
	if !ok {
		panic("TracerModule requires SceneModule")
	}

	backend := &RenderBackend{Kind: m.Backend}
	switch m.Backend {
	case BackendHeadless:
		if m.Width <= 0 || m.Height <= 0 {
			cmd.Fail(fmt.Errorf("invalid headless size %dx%d", m.Width, m.Height))
			return
		}
		state.Width, state.Height = m.Width, m.Height
		backend.impl = newHostRenderer(m.Width, m.Height, nil)
	case BackendGPU, BackendCPU:
		ws, ok := resource[WindowState](app)
		if !ok {
			cmd.Fail(fmt.Errorf("%v: %w", m.Backend, ErrNoWindow))
			return
		}
		r := gpu.NewRenderer(ws.Glfw())
		if err := r.Init(); err != nil {
			r.Release()
			cmd.Fail(fmt.Errorf("init webgpu: %w", err))
			return
		}
		state.Width, state.Height = int(r.Width), int(r.Height)
		backend.window = ws
		if m.Backend == BackendGPU {
			backend.impl = &gpuRenderer{r: r}
		} else {
			backend.impl = newHostRenderer(state.Width, state.Height, r)
		}

		size := m.HudSize
		if size <= 0 {
			size = 16
		}
		h, err := hud.New(size)
		if err != nil {
			cmd.Logger().Warnf("hud disabled: %v", err)
		} else {
			backend.hud = h
		}
	}

	cmd.Logger().Infof("tracer backend %v at %dx%d", m.Backend, state.Width, state.Height)
	cmd.AddResources(backend, &FrameStats{})
	cmd.UseSystem(System(tracerRenderSystem).InStage(Render))
	cmd.UseSystem(System(frameStatsSystem).InStage(PostRender))
	cmd.UseSystem(System(tracerReleaseSystem).InStage(Render).InState(OnExit(StateExiting)))
}

func tracerRenderSystem(backend *RenderBackend, scene *core.Scene, cfg *bench.Config, state *TraceState, cmd *Commands) {
	if state.SceneDirty {
		backend.impl.UploadScene(scene)
		state.SceneDirty = false
	}

	work, err := backend.impl.Render(state.Params, cfg.RayAccounting)
	if err != nil {
		cmd.Logger().Errorf("render: %v", err)
		state.RayWork, state.Counted = 0, false
		return
	}
	state.RayWork = work
	state.Counted = cfg.RayAccounting
}

func frameStatsSystem(stats *FrameStats, t *Time, state *TraceState, cfg *bench.Config, backend *RenderBackend, cmd *Commands) {
	if !stats.Sample(t.Time, state.RayWork, state.Counted) {
		return
	}
	cmd.Logger().Infof("FPS: %.1f", stats.FPS)

	if backend.window != nil {
		backend.window.SetTitle(fmt.Sprintf("spheretrace - %.1f FPS", stats.FPS))
	}
	if backend.hud != nil {
		lines := hud.Stats{
			FPS:        stats.FPS,
			RaysPerSec: stats.RaysPerSec,
			Spheres:    cfg.Spheres,
			Iterations: cfg.Iterations,
			Counting:   cfg.RayAccounting,
		}.Lines()
		if err := backend.impl.SetHud(backend.hud.Render(lines...)); err != nil {
			cmd.Logger().Warnf("hud: %v", err)
		}
	}
}

func tracerReleaseSystem(backend *RenderBackend) {
	backend.impl.Release()
}

type gpuRenderer struct {
	r *gpu.Renderer
}

func (g *gpuRenderer) UploadScene(scene *core.Scene) { g.r.UpdateScene(scene) }

func (g *gpuRenderer) Render(p core.FrameParameters, accounting bool) (float64, error) {
	g.r.UpdateFrame(p)
	return g.r.Render(accounting)
}

func (g *gpuRenderer) SetHud(mask *image.Alpha) error { return g.r.SetHud(mask) }

func (g *gpuRenderer) Release() { g.r.Release() }

// hostRenderer traces on the CPU. When present is set the image goes to the
// window through the GPU present pass.
type hostRenderer struct {
	targets *trace.Targets
	scene   *core.Scene
	present *gpu.Renderer
}

func newHostRenderer(w, h int, present *gpu.Renderer) *hostRenderer {
	return &hostRenderer{targets: trace.NewTargets(w, h), present: present}
}

func (c *hostRenderer) UploadScene(scene *core.Scene) { c.scene = scene }

func (c *hostRenderer) Render(p core.FrameParameters, accounting bool) (float64, error) {
	if c.scene == nil {
		return 0, errors.New("no scene uploaded")
	}
	trace.NewTracer(p, c.scene).Render(c.targets)

	if c.present != nil {
		if err := c.present.PresentImage(c.targets.Image); err != nil {
			return 0, err
		}
	}
	if !accounting {
		return 0, nil
	}
	return c.targets.RayWork(p.RayWorkScale), nil
}

func (c *hostRenderer) SetHud(mask *image.Alpha) error {
	if c.present == nil {
		return nil
	}
	return c.present.SetHud(mask)
}

func (c *hostRenderer) Release() {
	if c.present != nil {
		c.present.Release()
	}
}
