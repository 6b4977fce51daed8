package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridSide(t *testing.T) {
	tests := []struct {
		count int
		side  int
	}{
		{0, 1}, {1, 1}, {2, 2}, {8, 2}, {9, 3}, {27, 3}, {28, 4},
		{64, 4}, {125, 5}, {216, 6}, {MaxSpheres, 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.side, GridSide(tt.count), "count %d", tt.count)
	}
}

func TestGridLayoutNonOverlapping(t *testing.T) {
	for _, count := range []int{1, 8, 27, 64, 125, 216, 100, MaxSpheres} {
		spheres := GridLayout(count)
		require.Len(t, spheres, count)

		for i := 0; i < len(spheres); i++ {
			for j := i + 1; j < len(spheres); j++ {
				d := spheres[i].Center.Sub(spheres[j].Center).Len()
				if d < GridStep-1e-4 {
					t.Fatalf("count %d: spheres %d and %d are %f apart", count, i, j, d)
				}
				if d <= spheres[i].Radius+spheres[j].Radius {
					t.Fatalf("count %d: spheres %d and %d overlap", count, i, j)
				}
			}
		}
	}
}

func TestGridPositionDeterministic(t *testing.T) {
	a := GridLayout(64)
	b := GridLayout(64)
	assert.Equal(t, a, b)

	for i := 0; i < 64; i++ {
		assert.Equal(t, a[i].Center, GridPosition(i, 64))
	}
}

func TestGridPositionDecomposition(t *testing.T) {
	// 27 spheres: side 3, index 13 is the middle of the middle layer.
	p := GridPosition(13, 27)
	assert.InDelta(t, 0, p.X(), 1e-6)
	assert.InDelta(t, SphereRadius+GridStep, p.Y(), 1e-6)
	assert.InDelta(t, 0, p.Z(), 1e-6)

	first := GridPosition(0, 27)
	assert.Equal(t, mgl32.Vec3{-GridStep, SphereRadius, -GridStep}, first)
}

func TestSceneSetSphereCount(t *testing.T) {
	s := NewScene(8, true)
	require.Len(t, s.Spheres, 8)

	assert.False(t, s.SetSphereCount(8), "same count must not rebuild")
	assert.True(t, s.SetSphereCount(27))
	assert.Len(t, s.Spheres, 27)
	assert.Equal(t, GridPosition(26, 27), s.Spheres[26].Center)
}

func TestSceneCenter(t *testing.T) {
	s := NewScene(27, false)
	c := s.Center()
	assert.InDelta(t, SphereRadius+GridStep, c.Y(), 1e-6)

	s = NewScene(1, false)
	assert.InDelta(t, SphereRadius, s.Center().Y(), 1e-6)
}

func TestMaterial(t *testing.T) {
	m := DefaultMaterial()
	if m.Reflectivity+m.Transparency > 1 {
		t.Errorf("reflectivity+transparency must not exceed 1, got %f", m.Reflectivity+m.Transparency)
	}
	if m.IOR <= 1 {
		t.Errorf("expected refractive material, got IOR %f", m.IOR)
	}
}
