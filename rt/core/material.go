package core

import "github.com/go-gl/mathgl/mgl32"

type Material struct {
	Color        mgl32.Vec3
	Diffuse      float32
	Specular     float32
	Shininess    float32
	Reflectivity float32
	Transparency float32
	IOR          float32
}

// DefaultMaterial is shared by every sphere in the grid.
func DefaultMaterial() Material {
	return Material{
		Color:        mgl32.Vec3{0.2, 0.3, 0.8},
		Diffuse:      1.0,
		Specular:     0.5,
		Shininess:    32,
		Reflectivity: 0.3,
		Transparency: 0.3,
		IOR:          1.5,
	}
}

// PlaneMaterial is used for the ground plane. Its color is modulated by a checker
// pattern at shading time.
func PlaneMaterial() Material {
	return Material{
		Color:        mgl32.Vec3{0.8, 0.8, 0.8},
		Diffuse:      0.9,
		Specular:     0.2,
		Shininess:    16,
		Reflectivity: 0.2,
		Transparency: 0,
		IOR:          1.0,
	}
}
