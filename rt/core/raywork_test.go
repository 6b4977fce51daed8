package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeRayWork(t *testing.T) {
	assert.Equal(t, uint8(0), EncodeRayWork(0, 100))
	assert.Equal(t, uint8(255), EncodeRayWork(100, 100))
	assert.Equal(t, uint8(255), EncodeRayWork(1000, 100), "clamped")
	assert.Equal(t, uint8(128), EncodeRayWork(50, 100))
	assert.Equal(t, uint8(0), EncodeRayWork(10, 0))
}

func TestSumRayWorkWithRowPadding(t *testing.T) {
	const w, h, stride = 3, 2, 256
	pix := make([]uint8, stride*h)
	scale := float32(90)
	tests := []int{0, 9, 18, 27, 45, 90}

	exact := 0
	for i, n := range tests {
		x, y := i%w, i/w
		pix[y*stride+x*4] = EncodeRayWork(n, scale)
		// Other channels are ignored.
		pix[y*stride+x*4+1] = 255
		pix[y*stride+x*4+2] = 255
		exact += n
	}
	// Garbage in the row padding must not be summed.
	pix[stride-1] = 255

	got := SumRayWork(pix, stride, w, h, scale)
	// Each texel is off by at most half a quantisation step.
	maxErr := float64(len(tests)) * float64(scale) / 510
	assert.InDelta(t, float64(exact), got, maxErr)
}
