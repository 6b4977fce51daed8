package spheretrace

import (
	"github.com/gekko3d/spheretrace/bench"
	"github.com/gekko3d/spheretrace/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

// FlyingCameraModule drives the camera from the keyboard and mouse in
// interactive mode. W/A/S/D move, Space/Ctrl rise and sink, the mouse looks
// around while captured (Tab) and the wheel zooms. P, M and R toggle the
// plane, light movement and refraction.
type FlyingCameraModule struct{}

func (m FlyingCameraModule) Install(app *App, cmd *Commands) {
	app.UseSystem(System(FlyingCameraControlSystem).InStage(Update))
	app.UseSystem(System(FeatureToggleSystem).InStage(Update))
}

var movementKeys = []struct {
	key int
	dir core.CameraMovement
}{
	{KeyW, core.Forward},
	{KeyS, core.Backward},
	{KeyA, core.Left},
	{KeyD, core.Right},
	{KeySpace, core.Up},
	{KeyControl, core.Down},
}

func FlyingCameraControlSystem(input *Input, t *Time, cam *core.Camera, state *TraceState) {
	dt := float32(t.Dt.Seconds())
	if dt > 0 {
		for _, mk := range movementKeys {
			if input.Pressed[mk.key] {
				cam.ProcessKeyboard(mk.dir, dt)
			}
		}
	}

	if input.MouseCaptured {
		// Screen y grows downwards.
		cam.ProcessMouseMovement(float32(input.MouseDeltaX), float32(-input.MouseDeltaY), true)
		state.CursorRotation = mgl32.Ident3()
	} else if input.MouseSeen {
		state.Cursor[0] = float32(input.MouseX)
		state.Cursor[1] = float32(input.MouseY)
		state.CursorRotation = core.CursorRotation(input.MouseX, input.MouseY, input.WindowWidth, input.WindowHeight)
	}

	if input.ScrollY != 0 {
		cam.ProcessMouseScroll(float32(input.ScrollY))
	}
}

func FeatureToggleSystem(input *Input, cfg *bench.Config, cmd *Commands) {
	toggled := false
	if input.JustPressed[KeyP] {
		cfg.Plane = !cfg.Plane
		toggled = true
	}
	if input.JustPressed[KeyM] {
		cfg.LightMoving = !cfg.LightMoving
		toggled = true
	}
	if input.JustPressed[KeyR] {
		cfg.Refraction = !cfg.Refraction
		toggled = true
	}
	if toggled {
		cmd.Logger().Infof("plane=%v light moving=%v refraction=%v", cfg.Plane, cfg.LightMoving, cfg.Refraction)
	}
}
