package spheretrace

import (
	"testing"
	"time"

	"github.com/gekko3d/spheretrace/bench"
	"github.com/gekko3d/spheretrace/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSceneApp(t *testing.T, cfg bench.Config) *App {
	t.Helper()
	start := time.Unix(0, 0)
	app := NewAppBuilder().
		UseStates(StateRunning, StateExiting).
		UseModule(TimeModule{Now: func() time.Time { return start }}, SceneModule{Config: cfg}).
		Build()
	require.NoError(t, app.err)
	state, ok := resource[TraceState](app)
	require.True(t, ok)
	state.Width, state.Height = 40, 20
	return app
}

func TestSceneSyncSystem(t *testing.T) {
	cfg := bench.DefaultSettings().Base()
	app := newSceneApp(t, cfg)

	c, _ := resource[bench.Config](app)
	scene, _ := resource[core.Scene](app)
	state, _ := resource[TraceState](app)
	state.SceneDirty = false

	c.Spheres = 8
	c.Plane = false
	c.Refraction = false
	c.LightMoving = false
	app.callSystem(sceneSyncSystem)

	assert.Len(t, scene.Spheres, 8)
	assert.False(t, scene.WithPlane)
	assert.True(t, state.SceneDirty)

	p := state.Params
	assert.Equal(t, 8, p.NumSpheres)
	assert.Equal(t, cfg.Iterations, p.Iterations)
	assert.False(t, p.CanRefract)
	assert.False(t, p.WithPlane)
	assert.Equal(t, mgl32.Vec3{40, 20, 0}, p.Resolution)
	assert.Equal(t, core.LightDirection(0, false), p.LightDirection)
	assert.Equal(t, core.RayWorkScale(8, false, cfg.Iterations), p.RayWorkScale)
}

func TestBenchApplySystem(t *testing.T) {
	s := bench.DefaultSettings()
	s.Axis = bench.AxisDistance
	app := newSceneApp(t, s.Base())
	ctrl := bench.NewController(s, nil)
	app.addResources(ctrl)

	require.NoError(t, ctrl.Begin(time.Unix(0, 0)))
	app.callSystem(benchApplySystem)

	c, _ := resource[bench.Config](app)
	cam, _ := resource[core.Camera](app)
	scene, _ := resource[core.Scene](app)

	assert.Equal(t, bench.Distances[0], c.Distance)
	want := scene.Center().Add(mgl32.Vec3{0, 0, bench.Distances[0]})
	assert.InDelta(t, 0, cam.Position.Sub(want).Len(), 1e-5)
}

func TestBenchObserveSystem_exitsWhenDone(t *testing.T) {
	s := bench.DefaultSettings()
	s.Axis = bench.AxisStandard
	s.Window = time.Second
	app := newSceneApp(t, s.Base())
	ctrl := bench.NewController(s, nil)
	app.addResources(ctrl)

	tm, _ := resource[Time](app)
	require.NoError(t, ctrl.Begin(tm.Time))

	for i := 0; i < ctrl.Len(); i++ {
		tm.Time = tm.Time.Add(time.Second)
		app.callSystem(benchObserveSystem)
	}

	assert.True(t, ctrl.Done())
	assert.Len(t, ctrl.Results, ctrl.Len())
	assert.True(t, app.stateTransitioning)
	assert.Equal(t, StateExiting, app.nextState)
}
