package spheretrace

import (
	"fmt"

	"github.com/gekko3d/spheretrace/bench"
	"github.com/gekko3d/spheretrace/rt/core"
)

// Measure runs after the frame is presented and feeds the sweep controller.
var Measure = Stage{Name: "Measure"}

// BenchModule runs a parametric sweep, one configuration per measurement
// window, and exits when the axis is exhausted.
type BenchModule struct {
	Settings bench.Settings
	OutDir   string
}

func (m BenchModule) Install(app *App, cmd *Commands) {
	log, path, err := bench.CreateLog(m.OutDir, m.Settings)
	if err != nil {
		cmd.Fail(err)
		return
	}
	ctrl := bench.NewController(m.Settings, log)

	logger := cmd.Logger()
	if host, err := bench.ReadHostInfo(); err != nil {
		logger.Warnf("host info: %v", err)
	} else {
		logger.Infof("host: %v", host)
	}
	logger.Infof("sweep %v run %s: %d configurations, %v each, logging to %s",
		m.Settings.Axis, ctrl.RunID, ctrl.Len(), ctrl.Settings.Window, path)

	cmd.AddResources(ctrl)
	app.UseStage(Measure, AfterStage(PostRender))
	cmd.UseSystem(System(benchStartSystem).InStage(Update).InState(OnEnter(StateRunning)))
	cmd.UseSystem(System(benchApplySystem).InStage(Update))
	cmd.UseSystem(System(benchObserveSystem).InStage(Measure))
	cmd.UseSystem(System(benchCloseSystem).InStage(Measure).InState(OnExit(StateExiting)))
}

func benchStartSystem(ctrl *bench.Controller, t *Time, cmd *Commands) {
	if err := ctrl.Begin(t.Time); err != nil {
		cmd.Fail(fmt.Errorf("start sweep: %w", err))
	}
}

// benchApplySystem pushes the configuration under measurement into the scene
// and places the camera at its distance from the grid.
func benchApplySystem(ctrl *bench.Controller, cfg *bench.Config, scene *core.Scene, cam *core.Camera, state *TraceState) {
	*cfg = ctrl.Current()
	if scene.SetSphereCount(cfg.Spheres) {
		state.SceneDirty = true
	}
	cam.LookAt(scene.Center(), cfg.Distance)
}

func benchObserveSystem(ctrl *bench.Controller, state *TraceState, t *Time, cmd *Commands) {
	advanced, err := ctrl.Observe(t.Time, state.RayWork, state.Counted)
	if err != nil {
		cmd.Fail(err)
		return
	}
	if !advanced {
		return
	}

	r := ctrl.Results[len(ctrl.Results)-1]
	cmd.Logger().Infof("%v %d/%d: spheres=%d iterations=%d distance=%g fps=%.1f rays=%.0f",
		ctrl.Settings.Axis, len(ctrl.Results), ctrl.Len(),
		r.Config.Spheres, r.Config.Iterations, r.Config.Distance, r.FrameRate, r.RayCount)

	if ctrl.Done() {
		cmd.Logger().Infof("sweep %s finished", ctrl.RunID)
		cmd.Exit()
	}
}

func benchCloseSystem(ctrl *bench.Controller, cmd *Commands) {
	if err := ctrl.Close(); err != nil {
		cmd.Logger().Errorf("close log: %v", err)
	}
}
