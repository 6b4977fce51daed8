package spheretrace

import (
	"reflect"

	"github.com/gekko3d/spheretrace/bench"
	"github.com/gekko3d/spheretrace/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultCameraPosition frames the default 27-sphere grid.
var DefaultCameraPosition = mgl32.Vec3{0, 2.5, 12}

// TraceState carries the per-frame parameters from the scene systems to the
// renderer and the frame's ray work back to the stats and bench systems.
type TraceState struct {
	Width, Height int

	Params         core.FrameParameters
	Cursor         mgl32.Vec2
	CursorRotation mgl32.Mat3
	SceneDirty     bool

	RayWork float64
	Counted bool
}

// SceneModule owns the active configuration, the sphere scene and the camera.
type SceneModule struct {
	Config bench.Config
}

func (m SceneModule) Install(app *App, cmd *Commands) {
	cfg := m.Config
	cmd.AddResources(
		&cfg,
		core.NewScene(cfg.Spheres, cfg.Plane),
		core.NewCamera(DefaultCameraPosition),
		&TraceState{CursorRotation: mgl32.Ident3(), SceneDirty: true},
	)
	cmd.UseSystem(System(sceneSyncSystem).InStage(PreRender))
}

// sceneSyncSystem applies the active configuration to the scene and derives
// this frame's parameters.
func sceneSyncSystem(cfg *bench.Config, scene *core.Scene, cam *core.Camera, state *TraceState, t *Time) {
	if scene.SetSphereCount(cfg.Spheres) {
		state.SceneDirty = true
	}
	if scene.WithPlane != cfg.Plane {
		scene.WithPlane = cfg.Plane
		state.SceneDirty = true
	}

	p := core.NewFrameParameters(cam, scene, state.Width, state.Height, t.Elapsed(), cfg.Iterations)
	p.LightDirection = core.LightDirection(p.Time, cfg.LightMoving)
	p.CanRefract = cfg.Refraction
	p.Cursor = state.Cursor
	p.CursorRotation = state.CursorRotation
	state.Params = p
}

func resource[T any](app *App) (*T, bool) {
	r, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}
