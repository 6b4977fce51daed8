package core

import "math"

// The ray-work channel stores clamp(tests/scale, 0, 1) in the red component of an
// RGBA8 texel. Red is the only channel the readback looks at.
const RayWorkChannel = 0

func EncodeRayWork(tests int, scale float32) uint8 {
	if scale <= 0 {
		return 0
	}
	v := float64(tests) / float64(scale)
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(math.Round(v * 255))
}

// SumRayWork decodes the red channel of a w x h RGBA8 image laid out with the given
// row stride and returns the estimated total number of intersection tests.
func SumRayWork(pix []uint8, stride, w, h int, scale float32) float64 {
	var sum uint64
	for y := 0; y < h; y++ {
		row := y * stride
		for x := 0; x < w; x++ {
			i := row + x*4 + RayWorkChannel
			if i >= len(pix) {
				break
			}
			sum += uint64(pix[i])
		}
	}
	return float64(sum) / 255 * float64(scale)
}
