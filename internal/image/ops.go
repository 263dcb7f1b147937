package imagepkg

import (
	"image"
	"image/color"
)

// Anchor positions a text or symbol op horizontally relative to its X, and
// aligns an image inside its rect.
type Anchor int

const (
	AnchorLeft Anchor = iota
	AnchorCenter
	AnchorRight
)

type Weight int

const (
	Regular Weight = iota
	Bold
	Italic
)

// Style describes one text run. Opacity 0 means fully opaque.
type Style struct {
	Size          float64
	Weight        Weight
	Color         color.NRGBA
	Opacity       float64
	LetterSpacing float64
}

type Run struct {
	Text  string
	Style Style
}

// Op is a single draw command. Layout code only builds ops; the Rasterizer
// draws them in order.
type Op interface {
	isOp()
}

// TextOp draws runs on one baseline at Y.
type TextOp struct {
	X, Y   int
	Anchor Anchor
	Runs   []Run
}

// SymbolOp draws a rating or heart string. Stars and hearts are vector shapes,
// any other rune falls back to the regular face.
type SymbolOp struct {
	X, Y    int
	Anchor  Anchor
	Text    string
	Size    float64
	Spacing float64
	Color   color.NRGBA
}

type Fit int

const (
	FitStretch Fit = iota
	FitContain
)

// ImageOp places Img inside Rect. Opacity 0 means fully opaque.
type ImageOp struct {
	Rect    image.Rectangle
	Img     image.Image
	Fit     Fit
	Align   Anchor
	Opacity float64
}

type RectOp struct {
	Rect  image.Rectangle
	Color color.NRGBA
}

func (TextOp) isOp()   {}
func (SymbolOp) isOp() {}
func (ImageOp) isOp()  {}
func (RectOp) isOp()   {}

// Text is a one-run TextOp.
func Text(x, y int, a Anchor, s string, st Style) TextOp {
	return TextOp{X: x, Y: y, Anchor: a, Runs: []Run{{Text: s, Style: st}}}
}

func opacity(v float64) float64 {
	if v <= 0 || v > 1 {
		return 1
	}
	return v
}

func withOpacity(c color.NRGBA, o float64) color.NRGBA {
	c.A = uint8(float64(c.A)*opacity(o) + 0.5)
	return c
}

// Hex parses "#rrggbb" into an opaque color; invalid input yields white.
func Hex(s string) color.NRGBA {
	c := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	if len(s) != 7 || s[0] != '#' {
		return c
	}
	var v [3]uint8
	for i := range v {
		hi, ok1 := hexNibble(s[1+2*i])
		lo, ok2 := hexNibble(s[2+2*i])
		if !ok1 || !ok2 {
			return c
		}
		v[i] = hi<<4 | lo
	}
	return color.NRGBA{R: v[0], G: v[1], B: v[2], A: 0xff}
}

func hexNibble(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}
