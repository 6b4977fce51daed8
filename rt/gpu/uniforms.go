package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gekko3d/spheretrace/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// FrameUniformSize is the padded size of the Frame struct in trace.wgsl.
	FrameUniformSize = 256
	// MaterialSize is the std140-style size of one Material.
	MaterialSize = 48
	// SphereSize is position_r plus a Material.
	SphereSize = 16 + MaterialSize
	// SceneUniformSize covers the plane material and the full sphere array.
	SceneUniformSize = MaterialSize + core.MaxSpheres*SphereSize
)

func putF32(buf []byte, offset int, v float32) {
	binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
}

func putU32(buf []byte, offset int, v uint32) {
	binary.LittleEndian.PutUint32(buf[offset:], v)
}

func putBool(buf []byte, offset int, v bool) {
	if v {
		putU32(buf, offset, 1)
	} else {
		putU32(buf, offset, 0)
	}
}

func putVec3(buf []byte, offset int, v mgl32.Vec3, w float32) {
	putF32(buf, offset, v[0])
	putF32(buf, offset+4, v[1])
	putF32(buf, offset+8, v[2])
	putF32(buf, offset+12, w)
}

// PackFrame lays out the per-frame uniforms:
//
//	inv_view:       mat4x4<f32>  -- 0
//	inv_proj:       mat4x4<f32>  -- 64
//	cursor_rot:     mat3x3<f32>  -- 128 (columns padded to 16)
//	resolution:     vec4<f32>    -- 176 (w = time)
//	view_pos:       vec4<f32>    -- 192
//	light_dir:      vec4<f32>    -- 208
//	num_spheres:    u32          -- 224
//	iterations:     u32          -- 228
//	with_plane:     u32          -- 232
//	can_refract:    u32          -- 236
//	ray_work_scale: f32          -- 240
func PackFrame(p core.FrameParameters) []byte {
	buf := make([]byte, FrameUniformSize)

	writeMat := func(offset int, mat mgl32.Mat4) {
		for i, v := range mat {
			putF32(buf, offset+i*4, v)
		}
	}
	writeMat(0, p.InvView)
	writeMat(64, p.InvProj)

	for col := 0; col < 3; col++ {
		putVec3(buf, 128+col*16, p.CursorRotation.Col(col), 0)
	}

	putVec3(buf, 176, p.Resolution, p.Time)
	putVec3(buf, 192, p.ViewPos, 1)
	putVec3(buf, 208, p.LightDirection, 0)

	putU32(buf, 224, uint32(max(p.NumSpheres, 0)))
	putU32(buf, 228, uint32(max(p.Iterations, 0)))
	putBool(buf, 232, p.WithPlane)
	putBool(buf, 236, p.CanRefract)
	putF32(buf, 240, p.RayWorkScale)

	return buf
}

func packMaterial(buf []byte, offset int, m core.Material) {
	putF32(buf, offset, m.Color[0])
	putF32(buf, offset+4, m.Color[1])
	putF32(buf, offset+8, m.Color[2])
	putF32(buf, offset+12, m.Diffuse)
	putF32(buf, offset+16, m.Specular)
	putF32(buf, offset+20, m.Shininess)
	putF32(buf, offset+24, m.Reflectivity)
	putF32(buf, offset+28, m.Transparency)
	putF32(buf, offset+32, m.IOR)
}

// PackScene writes the plane material followed by every sphere. Slots past
// len(scene.Spheres) stay zeroed; the shader only reads num_spheres entries.
func PackScene(scene *core.Scene) []byte {
	buf := make([]byte, SceneUniformSize)
	packMaterial(buf, 0, scene.PlaneMaterial)

	n := min(len(scene.Spheres), core.MaxSpheres)
	for i := 0; i < n; i++ {
		s := scene.Spheres[i]
		off := MaterialSize + i*SphereSize
		putVec3(buf, off, s.Center, s.Radius)
		packMaterial(buf, off+16, s.Material)
	}
	return buf
}

// QuadVertices is the full-screen quad drawn by the trace pass, two triangles
// in clip space.
var QuadVertices = [12]float32{
	-1, -1, 1, -1, 1, 1,
	-1, -1, 1, 1, -1, 1,
}

func packQuad() []byte {
	buf := make([]byte, len(QuadVertices)*4)
	for i, v := range QuadVertices {
		putF32(buf, i*4, v)
	}
	return buf
}

// AlignedBytesPerRow rounds a row of RGBA8 texels up to the 256-byte copy alignment.
func AlignedBytesPerRow(width uint32) uint32 {
	return (width*4 + 255) & ^uint32(255)
}
