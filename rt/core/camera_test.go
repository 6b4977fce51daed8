package core

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestCameraDefaults(t *testing.T) {
	cam := NewCamera(mgl32.Vec3{0, 2.5, 12})

	// Yaw -90 looks down -Z
	assert.InDelta(t, 0, cam.Front.X(), 1e-5)
	assert.InDelta(t, 0, cam.Front.Y(), 1e-5)
	assert.InDelta(t, -1, cam.Front.Z(), 1e-5)
	assert.InDelta(t, 1, cam.Right.X(), 1e-5)
	assert.InDelta(t, 1, cam.Up.Y(), 1e-5)
}

func TestCameraProcessKeyboard(t *testing.T) {
	cam := NewCamera(mgl32.Vec3{0, 0, 0})
	cam.ProcessKeyboard(Forward, 1)
	assert.InDelta(t, -DefaultSpeed, cam.Position.Z(), 1e-5)

	cam.ProcessKeyboard(Right, 1)
	assert.InDelta(t, DefaultSpeed, cam.Position.X(), 1e-5)

	cam.ProcessKeyboard(Up, 0.5)
	assert.InDelta(t, DefaultSpeed/2, cam.Position.Y(), 1e-5)
}

func TestCameraPitchConstrained(t *testing.T) {
	cam := NewCamera(mgl32.Vec3{})
	cam.ProcessMouseMovement(0, 10000, true)
	assert.Equal(t, float32(89), cam.Pitch)

	cam.ProcessMouseMovement(0, -100000, true)
	assert.Equal(t, float32(-89), cam.Pitch)

	cam.ProcessMouseMovement(0, 10000, false)
	assert.Greater(t, cam.Pitch, float32(89))
}

func TestCameraZoomClamped(t *testing.T) {
	cam := NewCamera(mgl32.Vec3{})
	cam.ProcessMouseScroll(100)
	assert.Equal(t, float32(1), cam.Zoom)
	cam.ProcessMouseScroll(-100)
	assert.Equal(t, DefaultZoom, cam.Zoom)
}

func TestCameraLookAt(t *testing.T) {
	cam := NewCamera(mgl32.Vec3{5, 5, 5})
	cam.ProcessMouseMovement(40, 20, true)
	cam.LookAt(mgl32.Vec3{0, 2, 0}, 10)

	assert.Equal(t, mgl32.Vec3{0, 2, 10}, cam.Position)
	assert.InDelta(t, -1, cam.Front.Z(), 1e-5)

	// The target projects to the center of the view.
	v := cam.GetViewMatrix().Mul4x1(mgl32.Vec4{0, 2, 0, 1})
	assert.InDelta(t, 0, v.X(), 1e-4)
	assert.InDelta(t, 0, v.Y(), 1e-4)
	assert.InDelta(t, -10, v.Z(), 1e-4)
}

func TestValidateCaps(t *testing.T) {
	assert.NoError(t, ValidateCaps(MaxSpheres, MaxIterations))
	assert.NoError(t, ValidateCaps(0, 0))

	err := ValidateCaps(MaxSpheres+1, 4)
	assert.True(t, errors.Is(err, ErrTooManySpheres))

	err = ValidateCaps(27, MaxIterations+1)
	assert.True(t, errors.Is(err, ErrTooManyIterations))
}
