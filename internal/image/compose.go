// Package imagepkg fetches poster assets and composes the final canvas from
// a background, a gradient and a list of draw commands.
package imagepkg

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

const (
	CanvasWidth  = 1080
	CanvasHeight = 1920
	BlurSigma    = 10
)

// Layers is the full description of one poster, stacked bottom to top:
// base, gradient, poster, overlay, footer.
type Layers struct {
	Background       image.Image
	AdjustBrightness bool
	Brightness       float64
	Blur             bool
	Gradient         bool

	Poster  *ImageOp
	Overlay []Op
	Footer  []Op
}

// Compose builds the canvas for l.
func (r *Rasterizer) Compose(l Layers) (*image.NRGBA, error) {
	canvas := Base(l.Background, l.AdjustBrightness, l.Brightness, l.Blur)
	if l.Gradient {
		ApplyGradient(canvas)
	}

	ops := make([]Op, 0, 1+len(l.Overlay)+len(l.Footer))
	if l.Poster != nil {
		ops = append(ops, *l.Poster)
	}
	ops = append(ops, l.Overlay...)
	ops = append(ops, l.Footer...)
	if err := r.Draw(canvas, ops); err != nil {
		return nil, err
	}
	return canvas, nil
}

// Base cover-fits bg onto an opaque canvas, then applies brightness and blur.
// A nil background yields solid black.
func Base(bg image.Image, adjust bool, brightness float64, blur bool) *image.NRGBA {
	if bg == nil {
		return imaging.New(CanvasWidth, CanvasHeight, color.NRGBA{A: 0xff})
	}
	out := imaging.Fill(bg, CanvasWidth, CanvasHeight, imaging.Center, imaging.Lanczos)
	if adjust && brightness != 1 {
		out = Brighten(out, brightness)
	}
	if blur {
		out = imaging.Blur(out, BlurSigma)
	}
	// Transparent backgrounds sit on black.
	return imaging.OverlayCenter(imaging.New(CanvasWidth, CanvasHeight, color.NRGBA{A: 0xff}), out, 1)
}

// Brighten multiplies every channel by f.
func Brighten(img image.Image, f float64) *image.NRGBA {
	if f < 0 {
		f = 0
	}
	scale := func(v uint8) uint8 {
		return uint8(math.Min(255, math.Round(float64(v)*f)))
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
	})
}

// GradientAlpha is the black overlay opacity at row y of a canvas of height h:
// 0.8 at the bottom, 0.4 at 40% of the height from the bottom, 0 at the top.
func GradientAlpha(y, h int) float64 {
	if h <= 1 {
		return 0.8
	}
	d := float64(h-1-y) / float64(h-1)
	switch {
	case d <= 0:
		return 0.8
	case d <= 0.4:
		return 0.8 - d
	case d >= 1:
		return 0
	}
	return 0.4 * (1 - (d-0.4)/0.6)
}

// ApplyGradient darkens an opaque canvas in place.
func ApplyGradient(img *image.NRGBA) {
	b := img.Bounds()
	h := b.Dy()
	for y := 0; y < h; y++ {
		k := 1 - GradientAlpha(y, h)
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			row[i] = uint8(float64(row[i])*k + 0.5)
			row[i+1] = uint8(float64(row[i+1])*k + 0.5)
			row[i+2] = uint8(float64(row[i+2])*k + 0.5)
		}
	}
}
