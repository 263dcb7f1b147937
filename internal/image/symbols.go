package imagepkg

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Shape runes drawn as vectors; the bundled faces have no glyphs for them.
const (
	StarFull  = '★'
	StarEmpty = '☆'
	Heart     = '♥'
)

// Shapes live in a 24x24 box whose top sits at ascentRatio*size above the baseline.
const (
	shapeBox    = 24.0
	ascentRatio = 0.82
)

type pt struct{ x, y float64 }

var starPoints = []pt{
	{12, 2}, {14.81, 8.63}, {22, 9.24}, {16.54, 13.97}, {18.18, 21},
	{12, 17.27}, {5.82, 21}, {7.46, 13.97}, {2, 9.24}, {9.19, 8.63},
}

var starCenter = pt{12, 12.6}

func isShape(r rune) bool {
	return r == StarFull || r == StarEmpty || r == Heart
}

// MeasureSymbols returns the width of a SymbolOp's text.
func (r *Rasterizer) MeasureSymbols(o SymbolOp) (int, error) {
	fc := &faceCache{fs: r.Fonts, m: make(map[faceKey]font.Face)}
	defer fc.close()
	w, err := symbolsWidth(fc, o)
	return int(math.Ceil(w)), err
}

func symbolsWidth(fc *faceCache, o SymbolOp) (float64, error) {
	var w float64
	n := 0
	for _, ch := range o.Text {
		if n > 0 {
			w += o.Spacing
		}
		n++
		if isShape(ch) {
			w += o.Size
			continue
		}
		face, err := fc.get(Regular, o.Size)
		if err != nil {
			return 0, err
		}
		adv, _ := face.GlyphAdvance(ch)
		w += float64(adv) / 64
	}
	return w, nil
}

func drawSymbols(dst *image.NRGBA, fc *faceCache, o SymbolOp) error {
	width, err := symbolsWidth(fc, o)
	if err != nil {
		return err
	}
	x := float64(o.X)
	switch o.Anchor {
	case AnchorCenter:
		x -= width / 2
	case AnchorRight:
		x -= width
	}
	src := image.NewUniform(o.Color)
	top := float64(o.Y) - ascentRatio*o.Size

	n := 0
	for _, ch := range o.Text {
		if n > 0 {
			x += o.Spacing
		}
		n++
		switch ch {
		case StarFull:
			fillShape(dst, src, x, top, o.Size, func(z *vector.Rasterizer, m func(pt) (float32, float32)) {
				polygon(z, m, starPoints)
			})
			x += o.Size
		case StarEmpty:
			fillShape(dst, src, x, top, o.Size, func(z *vector.Rasterizer, m func(pt) (float32, float32)) {
				polygon(z, m, starPoints)
				polygon(z, m, reversed(scaled(starPoints, starCenter, 0.55)))
			})
			x += o.Size
		case Heart:
			fillShape(dst, src, x, top, o.Size, heartPath)
			x += o.Size
		default:
			face, err := fc.get(Regular, o.Size)
			if err != nil {
				return err
			}
			d := &font.Drawer{
				Dst:  dst,
				Src:  src,
				Face: face,
				Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.I(o.Y)},
			}
			d.DrawString(string(ch))
			adv, _ := face.GlyphAdvance(ch)
			x += float64(adv) / 64
		}
	}
	return nil
}

// fillShape rasterizes a path built in the 24-unit box into a size x size
// cell whose top-left corner is (x, top).
func fillShape(dst *image.NRGBA, src image.Image, x, top, size float64, path func(*vector.Rasterizer, func(pt) (float32, float32))) {
	ox, oy := int(math.Floor(x)), int(math.Floor(top))
	fx, fy := x-float64(ox), top-float64(oy)
	side := int(math.Ceil(size)) + 2

	z := vector.NewRasterizer(side, side)
	s := size / shapeBox
	m := func(p pt) (float32, float32) {
		return float32(fx + p.x*s), float32(fy + p.y*s)
	}
	path(z, m)

	mask := image.NewAlpha(image.Rect(0, 0, side, side))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	draw.DrawMask(dst, image.Rect(ox, oy, ox+side, oy+side), src, image.Point{}, mask, image.Point{}, draw.Over)
}

func polygon(z *vector.Rasterizer, m func(pt) (float32, float32), pts []pt) {
	z.MoveTo(m(pts[0]))
	for _, p := range pts[1:] {
		z.LineTo(m(p))
	}
	z.ClosePath()
}

func heartPath(z *vector.Rasterizer, m func(pt) (float32, float32)) {
	cube := func(a, b, c pt) {
		ax, ay := m(a)
		bx, by := m(b)
		cx, cy := m(c)
		z.CubeTo(ax, ay, bx, by, cx, cy)
	}
	z.MoveTo(m(pt{12, 21.35}))
	z.LineTo(m(pt{10.55, 20.03}))
	cube(pt{5.4, 15.36}, pt{2, 12.28}, pt{2, 8.5})
	cube(pt{2, 5.42}, pt{4.42, 3}, pt{7.5, 3})
	cube(pt{9.24, 3}, pt{10.91, 3.81}, pt{12, 5.09})
	cube(pt{13.09, 3.81}, pt{14.76, 3}, pt{16.5, 3})
	cube(pt{19.58, 3}, pt{22, 5.42}, pt{22, 8.5})
	cube(pt{22, 12.28}, pt{18.6, 15.36}, pt{13.45, 20.04})
	z.ClosePath()
}

func scaled(pts []pt, c pt, f float64) []pt {
	out := make([]pt, len(pts))
	for i, p := range pts {
		out[i] = pt{c.x + (p.x-c.x)*f, c.y + (p.y-c.y)*f}
	}
	return out
}

func reversed(pts []pt) []pt {
	out := make([]pt, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}
