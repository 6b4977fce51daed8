package trace

import (
	"image"
	"image/color"
	"runtime"
	"sync"

	"github.com/gekko3d/spheretrace/rt/core"
)

// Targets mirrors the two color attachments of the GPU trace pass.
type Targets struct {
	Image *image.RGBA
	Data  *image.RGBA
}

func NewTargets(w, h int) *Targets {
	return &Targets{
		Image: image.NewRGBA(image.Rect(0, 0, w, h)),
		Data:  image.NewRGBA(image.Rect(0, 0, w, h)),
	}
}

func (t *Targets) Size() (int, int) {
	b := t.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Render traces every pixel of the targets. Rows are split into bands across
// GOMAXPROCS goroutines; Render returns once all bands are done.
func (tr *Tracer) Render(t *Targets) {
	w, h := t.Size()
	workers := runtime.GOMAXPROCS(0)
	if workers > h {
		workers = h
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	rowsPer := (h + workers - 1) / workers
	for start := 0; start < h; start += rowsPer {
		end := min(start+rowsPer, h)
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			tr.renderRows(t, w, y0, y1)
		}(start, end)
	}
	wg.Wait()
}

func (tr *Tracer) renderRows(t *Targets, w, y0, y1 int) {
	scale := tr.Params.RayWorkScale
	for y := y0; y < y1; y++ {
		for x := 0; x < w; x++ {
			s := tr.Pixel(x, y)
			t.Image.SetRGBA(x, y, color.RGBA{
				R: toByte(s.Color.X()),
				G: toByte(s.Color.Y()),
				B: toByte(s.Color.Z()),
				A: 255,
			})
			t.Data.SetRGBA(x, y, color.RGBA{
				R: core.EncodeRayWork(s.Tests, scale),
				A: 255,
			})
		}
	}
}

// RayWork sums the data channel the same way the GPU readback does.
func (t *Targets) RayWork(scale float32) float64 {
	w, h := t.Size()
	return core.SumRayWork(t.Data.Pix, t.Data.Stride, w, h, scale)
}

func toByte(v float32) uint8 {
	return uint8(v*255 + 0.5)
}
