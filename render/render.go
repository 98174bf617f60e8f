// SPDX-License-Identifier: EPL-2.0

package render

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	// MaxPixels bounds each side of the output bitmap.
	MaxPixels = 16384

	// minAmplitude keeps near-silent segments visible, in points.
	minAmplitude = 2.0

	// highlightDelta is added to the HSV value of the gradient's far colour.
	highlightDelta = 0.3
)

// Image is a rendered waveform: premultiplied RGBA8 pixels at Scale pixels
// per point.
type Image struct {
	*image.RGBA
	Scale float64
}

// Size returns the image size in points.
func (im *Image) Size() Size {
	b := im.Bounds()
	return Size{
		Width:  float64(b.Dx()) / im.Scale,
		Height: float64(b.Dy()) / im.Scale,
	}
}

// Render draws samples, a normalised amplitude profile where 0 is full scale
// and 1 is silence, into a new image. Sample i is drawn on pixel column i.
//
// It returns nil when the configured size is empty, not finite, or larger
// than MaxPixels on either side. peak does not affect the geometry: the
// gradient spans the tallest segment actually drawn.
func Render(samples []float32, peak float32, cfg Config) *Image {
	cfg = cfg.withDefaults()

	width, height, ok := pixelSize(cfg.Size, cfg.Scale)
	if !ok {
		return nil
	}

	im := image.NewRGBA(image.Rect(0, 0, width, height))
	dc := gg.NewContextForRGBA(im)

	dc.SetColor(cfg.BackgroundColor)
	dc.Clear()

	l := newLayout(cfg, width)
	switch st := cfg.Style.(type) {
	case Gradient:
		drawGradient(dc, l, samples, cfg.Color)
	case Striped:
		drawSegments(dc, l, samples, cfg.Color, st.period())
	default:
		drawSegments(dc, l, samples, cfg.Color, 1)
	}

	if b := cfg.Border; b != nil && b.Width > 0 {
		dc.SetColor(b.Color)
		dc.SetLineWidth(b.Width * cfg.Scale)
		dc.DrawRectangle(0, 0, float64(width), float64(height))
		dc.Stroke()
	}

	if cl := cfg.CenterLine; cl.Enabled {
		x := (cfg.Size.Width/2 - cl.Width) * cfg.Scale
		dc.SetColor(cl.Color)
		dc.SetLineWidth(cl.Width * cfg.Scale)
		dc.SetLineCapButt()
		dc.DrawLine(x, 0, x, float64(height))
		dc.Stroke()
	}

	return &Image{RGBA: im, Scale: cfg.Scale}
}

func pixelSize(s Size, scale float64) (int, int, bool) {
	w := math.Round(s.Width * scale)
	h := math.Round(s.Height * scale)

	for _, v := range [2]float64{w, h} {
		if math.IsNaN(v) || v < 1 || v > MaxPixels {
			return 0, 0, false
		}
	}
	return int(w), int(h), true
}

// layout holds the per-render geometry in pixels.
type layout struct {
	scale     float64
	centerY   float64
	drawScale float64
	floor     float64
	columns   int
}

func newLayout(cfg Config, columns int) layout {
	h := cfg.Size.Height
	return layout{
		scale:     cfg.Scale,
		centerY:   (h/2 + cfg.Position.offset()*h/2) * cfg.Scale,
		drawScale: h / cfg.PaddingFactor * cfg.Scale,
		floor:     minAmplitude * cfg.Scale,
		columns:   columns,
	}
}

// amplitude is the half height of a segment, in pixels.
func (l layout) amplitude(sample float32) float64 {
	v := float64(sample)
	if math.IsNaN(v) {
		v = 1
	}
	v = min(max(v, 0), 1)
	return max(l.floor, (1-v)*l.drawScale)
}

// visible returns how many samples land on the canvas.
func (l layout) visible(samples []float32) []float32 {
	return samples[:min(len(samples), l.columns)]
}

func drawSegments(dc *gg.Context, l layout, samples []float32, c color.Color, period int) {
	for i, s := range l.visible(samples) {
		if int(math.Floor(float64(i)/l.scale))%period != 0 {
			continue
		}
		x := float64(i) + 0.5
		a := l.amplitude(s)
		dc.MoveTo(x, l.centerY-a)
		dc.LineTo(x, l.centerY+a)
	}

	dc.SetColor(c)
	dc.SetLineWidth(1)
	dc.SetLineCapButt()
	dc.Stroke()
}

func drawGradient(dc *gg.Context, l layout, samples []float32, c color.Color) {
	visible := l.visible(samples)
	if len(visible) == 0 {
		return
	}

	tallest := l.floor
	for i, s := range visible {
		a := l.amplitude(s)
		tallest = max(tallest, a)
		dc.DrawRectangle(float64(i), l.centerY-a, 1, 2*a)
	}
	dc.Clip()

	grad := gg.NewLinearGradient(0, l.centerY-tallest, 0, l.centerY+tallest)
	grad.AddColorStop(0, c)
	grad.AddColorStop(1, highlight(c))

	w, h := dc.Width(), dc.Height()
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()
	dc.ResetClip()
}

// highlight brightens c in HSV space, keeping its alpha.
func highlight(c color.Color) color.Color {
	_, _, _, a := c.RGBA()
	if a == 0 {
		return c
	}

	cf, _ := colorful.MakeColor(c)
	h, s, v := cf.Hsv()
	r, g, b := colorful.Hsv(h, s, min(1, v+highlightDelta)).Clamped().RGB255()

	return color.NRGBA{R: r, G: g, B: b, A: uint8(a >> 8)}
}
