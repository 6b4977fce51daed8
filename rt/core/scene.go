package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	GridStep     float32 = 1.5
	SphereRadius float32 = 0.5
	PlaneHeight  float32 = 0
)

type Sphere struct {
	Center   mgl32.Vec3
	Radius   float32
	Material Material
}

type Scene struct {
	Spheres       []Sphere
	WithPlane     bool
	PlaneMaterial Material
}

func NewScene(count int, withPlane bool) *Scene {
	s := &Scene{
		WithPlane:     withPlane,
		PlaneMaterial: PlaneMaterial(),
	}
	s.Spheres = GridLayout(count)
	return s
}

// SetSphereCount rebuilds the sphere array when the count changes.
// Returns true if the array was rebuilt.
func (s *Scene) SetSphereCount(count int) bool {
	if count == len(s.Spheres) {
		return false
	}
	s.Spheres = GridLayout(count)
	return true
}

// Center returns the middle of the sphere grid, the point the benchmark camera looks at.
func (s *Scene) Center() mgl32.Vec3 {
	if len(s.Spheres) == 0 {
		return mgl32.Vec3{0, SphereRadius, 0}
	}
	side := GridSide(len(s.Spheres))
	layers := (len(s.Spheres) + side*side - 1) / (side * side)
	return mgl32.Vec3{0, SphereRadius + GridStep*float32(layers-1)/2, 0}
}

// GridSide returns the smallest s with s*s*s >= count.
func GridSide(count int) int {
	side := 1
	for side*side*side < count {
		side++
	}
	return side
}

// GridPosition maps sphere index i of count to its packed grid position.
func GridPosition(i, count int) mgl32.Vec3 {
	side := GridSide(count)
	x := i % side
	z := (i / side) % side
	y := i / (side * side)

	half := GridStep * float32(side-1) / 2
	return mgl32.Vec3{
		-half + GridStep*float32(x),
		SphereRadius + GridStep*float32(y),
		-half + GridStep*float32(z),
	}
}

func GridLayout(count int) []Sphere {
	if count <= 0 {
		return nil
	}
	mat := DefaultMaterial()
	spheres := make([]Sphere, count)
	for i := range spheres {
		spheres[i] = Sphere{
			Center:   GridPosition(i, count),
			Radius:   SphereRadius,
			Material: mat,
		}
	}
	return spheres
}
