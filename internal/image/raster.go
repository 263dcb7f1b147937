package imagepkg

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"unicode/utf8"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FontSet holds the parsed faces used for poster text. It is immutable and
// safe to share; sized faces are created per draw.
type FontSet struct {
	fonts map[Weight]*opentype.Font
}

func NewFontSet() (*FontSet, error) {
	src := map[Weight][]byte{
		Regular: goregular.TTF,
		Bold:    gobold.TTF,
		Italic:  goitalic.TTF,
	}
	fs := &FontSet{fonts: make(map[Weight]*opentype.Font, len(src))}
	for w, ttf := range src {
		f, err := opentype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("parse font %d: %w", w, err)
		}
		fs.fonts[w] = f
	}
	return fs, nil
}

type faceKey struct {
	w    Weight
	size float64
}

// faceCache is owned by a single Draw call; opentype faces keep glyph buffers
// and must not be shared between goroutines.
type faceCache struct {
	fs *FontSet
	m  map[faceKey]font.Face
}

func (c *faceCache) get(w Weight, size float64) (font.Face, error) {
	if size <= 0 {
		size = 1
	}
	k := faceKey{w, size}
	if f, ok := c.m[k]; ok {
		return f, nil
	}
	f, ok := c.fs.fonts[w]
	if !ok {
		f = c.fs.fonts[Regular]
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	c.m[k] = face
	return face, nil
}

func (c *faceCache) close() {
	for _, f := range c.m {
		f.Close()
	}
}

// Rasterizer draws op lists onto a canvas.
type Rasterizer struct {
	Fonts *FontSet
}

func NewRasterizer() (*Rasterizer, error) {
	fs, err := NewFontSet()
	if err != nil {
		return nil, err
	}
	return &Rasterizer{Fonts: fs}, nil
}

// Draw renders ops onto dst in order.
func (r *Rasterizer) Draw(dst *image.NRGBA, ops []Op) error {
	fc := &faceCache{fs: r.Fonts, m: make(map[faceKey]font.Face)}
	defer fc.close()

	for _, op := range ops {
		var err error
		switch o := op.(type) {
		case TextOp:
			err = drawText(dst, fc, o)
		case SymbolOp:
			err = drawSymbols(dst, fc, o)
		case ImageOp:
			drawImage(dst, o)
		case RectOp:
			draw.Draw(dst, o.Rect, image.NewUniform(o.Color), image.Point{}, draw.Over)
		default:
			err = fmt.Errorf("unknown op %T", op)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// MeasureText returns the advance width of runs in pixels.
func (r *Rasterizer) MeasureText(runs []Run) (int, error) {
	fc := &faceCache{fs: r.Fonts, m: make(map[faceKey]font.Face)}
	defer fc.close()
	w, err := measureRuns(fc, runs)
	return w.Ceil(), err
}

func measureRuns(fc *faceCache, runs []Run) (fixed.Int26_6, error) {
	var total fixed.Int26_6
	for _, run := range runs {
		face, err := fc.get(run.Style.Weight, run.Style.Size)
		if err != nil {
			return 0, err
		}
		total += font.MeasureString(face, run.Text)
		if n := utf8.RuneCountInString(run.Text); n > 1 && run.Style.LetterSpacing != 0 {
			total += fixed.Int26_6(float64(n-1) * run.Style.LetterSpacing * 64)
		}
	}
	return total, nil
}

func anchorX(x int, a Anchor, width fixed.Int26_6) fixed.Int26_6 {
	fx := fixed.I(x)
	switch a {
	case AnchorCenter:
		return fx - width/2
	case AnchorRight:
		return fx - width
	}
	return fx
}

func drawText(dst *image.NRGBA, fc *faceCache, o TextOp) error {
	width, err := measureRuns(fc, o.Runs)
	if err != nil {
		return err
	}
	dot := fixed.Point26_6{X: anchorX(o.X, o.Anchor, width), Y: fixed.I(o.Y)}

	for _, run := range o.Runs {
		face, err := fc.get(run.Style.Weight, run.Style.Size)
		if err != nil {
			return err
		}
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(withOpacity(run.Style.Color, run.Style.Opacity)),
			Face: face,
			Dot:  dot,
		}
		if run.Style.LetterSpacing == 0 {
			d.DrawString(run.Text)
		} else {
			ls := fixed.Int26_6(run.Style.LetterSpacing * 64)
			first := true
			for _, ch := range run.Text {
				if !first {
					d.Dot.X += ls
				}
				first = false
				d.DrawString(string(ch))
			}
		}
		dot = d.Dot
	}
	return nil
}

func drawImage(dst *image.NRGBA, o ImageOp) {
	if o.Img == nil || o.Rect.Empty() {
		return
	}
	w, h := o.Rect.Dx(), o.Rect.Dy()

	var scaled *image.NRGBA
	at := o.Rect.Min
	switch o.Fit {
	case FitContain:
		scaled = imaging.Fit(o.Img, w, h, imaging.Lanczos)
		sb := scaled.Bounds()
		// imaging.Fit never upscales; grow small logos to the box.
		if sb.Dx() < w && sb.Dy() < h {
			scaled = containUp(o.Img, w, h)
			sb = scaled.Bounds()
		}
		switch o.Align {
		case AnchorCenter:
			at.X += (w - sb.Dx()) / 2
		case AnchorRight:
			at.X += w - sb.Dx()
		}
		at.Y += (h - sb.Dy()) / 2
	default:
		scaled = imaging.Resize(o.Img, w, h, imaging.Lanczos)
	}

	rect := image.Rectangle{Min: at, Max: at.Add(scaled.Bounds().Size())}
	a := opacity(o.Opacity)
	if a >= 1 {
		draw.Draw(dst, rect, scaled, scaled.Bounds().Min, draw.Over)
		return
	}
	mask := image.NewUniform(color.Alpha{A: uint8(a*255 + 0.5)})
	draw.DrawMask(dst, rect, scaled, scaled.Bounds().Min, mask, image.Point{}, draw.Over)
}

func containUp(img image.Image, w, h int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return imaging.New(1, 1, color.NRGBA{})
	}
	s := math.Min(float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy()))
	tw := max(1, int(math.Round(float64(b.Dx())*s)))
	th := max(1, int(math.Round(float64(b.Dy())*s)))
	return imaging.Resize(img, min(tw, w), min(th, h), imaging.Lanczos)
}
