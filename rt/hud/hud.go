// Package hud rasterises the on-screen statistics overlay into an alpha mask.
package hud

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const padding = 4

type Hud struct {
	Face       font.Face
	LineHeight int
	ascent     int
}

func New(fontSize float64) (*Hud, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face: %w", err)
	}
	m := face.Metrics()
	return &Hud{
		Face:       face,
		LineHeight: m.Height.Ceil(),
		ascent:     m.Ascent.Ceil(),
	}, nil
}

// Render draws the lines top to bottom. The mask is sized to fit the widest line.
func (h *Hud) Render(lines ...string) *image.Alpha {
	width := 0
	for _, l := range lines {
		width = max(width, font.MeasureString(h.Face, l).Ceil())
	}
	height := len(lines) * h.LineHeight
	if width == 0 || height == 0 {
		return image.NewAlpha(image.Rect(0, 0, 1, 1))
	}

	mask := image.NewAlpha(image.Rect(0, 0, width+2*padding, height+2*padding))
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: h.Face,
	}
	for i, l := range lines {
		d.Dot = fixed.P(padding, padding+h.ascent+i*h.LineHeight)
		d.DrawString(l)
	}
	return mask
}

// Stats is what the overlay shows.
type Stats struct {
	FPS        float64
	RaysPerSec float64
	Spheres    int
	Iterations int
	Counting   bool
}

func (s Stats) Lines() []string {
	lines := []string{
		fmt.Sprintf("FPS: %.1f", s.FPS),
		fmt.Sprintf("Spheres: %d  Iterations: %d", s.Spheres, s.Iterations),
	}
	if s.Counting {
		lines = append(lines, fmt.Sprintf("Tests/s: %.3gM", s.RaysPerSec/1e6))
	}
	return lines
}
