package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// FrameParameters is everything the trace pass reads for one frame.
type FrameParameters struct {
	Resolution     mgl32.Vec3
	Time           float32
	NumSpheres     int
	Iterations     int
	ViewPos        mgl32.Vec3
	LightDirection mgl32.Vec3
	Cursor         mgl32.Vec2
	CursorRotation mgl32.Mat3
	InvView        mgl32.Mat4
	InvProj        mgl32.Mat4
	WithPlane      bool
	CanRefract     bool
	RayWorkScale   float32
}

// NewFrameParameters derives the per-frame uniforms from the camera and scene.
func NewFrameParameters(cam *Camera, scene *Scene, width, height int, t float32, iterations int) FrameParameters {
	aspect := float32(width) / float32(max(height, 1))
	view := cam.GetViewMatrix()
	proj := cam.Projection(aspect)
	return FrameParameters{
		Resolution:     mgl32.Vec3{float32(width), float32(height), 0},
		Time:           t,
		NumSpheres:     len(scene.Spheres),
		Iterations:     iterations,
		ViewPos:        cam.Position,
		LightDirection: LightDirection(t, false),
		CursorRotation: mgl32.Ident3(),
		InvView:        view.Inv(),
		InvProj:        proj.Inv(),
		WithPlane:      scene.WithPlane,
		CanRefract:     true,
		RayWorkScale:   RayWorkScale(len(scene.Spheres), scene.WithPlane, iterations),
	}
}

// LightDirection returns the unit direction towards the light. A moving light
// circles the vertical axis.
func LightDirection(t float32, moving bool) mgl32.Vec3 {
	if !moving {
		return mgl32.Vec3{1, 1, 1}.Normalize()
	}
	a := float64(t) * 0.5
	return mgl32.Vec3{float32(math.Cos(a)), 1, float32(math.Sin(a))}.Normalize()
}

// CursorRotation maps a free cursor position inside a w x h window to an orbit
// rotation applied to camera rays.
func CursorRotation(x, y float64, w, h int) mgl32.Mat3 {
	if w <= 0 || h <= 0 {
		return mgl32.Ident3()
	}
	u := float32(2*x/float64(w) - 1)
	v := float32(2*y/float64(h) - 1)
	u = mgl32.Clamp(u, -1, 1)
	v = mgl32.Clamp(v, -1, 1)
	return mgl32.Rotate3DY(-math.Pi * u).Mul3(mgl32.Rotate3DX(math.Pi / 2 * v))
}

// RayWorkScale is the largest number of intersection tests one pixel can perform:
// up to 1+2*iterations rays, each doing a closest-hit and a shadow query.
func RayWorkScale(spheres int, withPlane bool, iterations int) float32 {
	objects := spheres
	if withPlane {
		objects++
	}
	scale := 2 * objects * (1 + 2*iterations)
	if scale < 1 {
		scale = 1
	}
	return float32(scale)
}

// MaxRays is the ray budget per pixel.
func MaxRays(iterations int) int {
	return 1 + 2*iterations
}
