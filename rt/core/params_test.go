package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestLightDirection(t *testing.T) {
	static := LightDirection(0, false)
	assert.Equal(t, static, LightDirection(123, false))
	assert.InDelta(t, 1, static.Len(), 1e-5)

	a := LightDirection(0, true)
	b := LightDirection(2, true)
	assert.NotEqual(t, a, b)
	assert.InDelta(t, 1, b.Len(), 1e-5)
}

func TestCursorRotation(t *testing.T) {
	// Cursor at the window center leaves rays untouched.
	r := CursorRotation(400, 300, 800, 600)
	assert.True(t, r.ApproxEqualThreshold(mgl32.Ident3(), 1e-5))

	r = CursorRotation(0, 0, 0, 0)
	assert.Equal(t, mgl32.Ident3(), r)

	// Rotations stay orthonormal.
	r = CursorRotation(100, 500, 800, 600)
	v := r.Mul3x1(mgl32.Vec3{0, 0, -1})
	assert.InDelta(t, 1, v.Len(), 1e-5)
}

func TestRayWorkScale(t *testing.T) {
	assert.Equal(t, float32(2*27*1), RayWorkScale(27, false, 0))
	assert.Equal(t, float32(2*28*9), RayWorkScale(27, true, 4))
	assert.Equal(t, float32(1), RayWorkScale(0, false, 0))
	assert.Equal(t, 9, MaxRays(4))
}

func TestNewFrameParameters(t *testing.T) {
	cam := NewCamera(mgl32.Vec3{0, 2.5, 12})
	scene := NewScene(8, true)
	p := NewFrameParameters(cam, scene, 800, 600, 1.5, 3)

	assert.Equal(t, 8, p.NumSpheres)
	assert.Equal(t, 3, p.Iterations)
	assert.True(t, p.WithPlane)
	assert.Equal(t, mgl32.Vec3{800, 600, 0}, p.Resolution)
	assert.Equal(t, cam.Position, p.ViewPos)
	assert.Equal(t, RayWorkScale(8, true, 3), p.RayWorkScale)

	// InvView maps the view-space origin back to the camera position.
	eye := p.InvView.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	assert.True(t, eye.ApproxEqualThreshold(cam.Position, 1e-4))
}
