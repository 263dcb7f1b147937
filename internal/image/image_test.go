package imagepkg

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disintegration/imaging"
)

func newRasterizer(t *testing.T) *Rasterizer {
	t.Helper()
	r, err := NewRasterizer()
	if err != nil {
		t.Fatalf("NewRasterizer: %v", err)
	}
	return r
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestGradientAlpha(t *testing.T) {
	h := 1001
	cases := []struct {
		y    int
		want float64
	}{
		{1000, 0.8},
		{600, 0.4},
		{0, 0},
	}
	for _, c := range cases {
		if got := GradientAlpha(c.y, h); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("GradientAlpha(%d) = %v, want %v", c.y, got, c.want)
		}
	}
	prev := -1.0
	for y := 0; y < h; y++ {
		a := GradientAlpha(y, h)
		if a < prev {
			t.Fatalf("alpha decreases towards the bottom at y=%d", y)
		}
		prev = a
	}
}

func TestBase_NoBackgroundIsBlack(t *testing.T) {
	img := Base(nil, true, 0.5, true)
	if b := img.Bounds(); b.Dx() != CanvasWidth || b.Dy() != CanvasHeight {
		t.Fatalf("bounds = %v", b)
	}
	if c := img.NRGBAAt(500, 900); c != (color.NRGBA{A: 0xff}) {
		t.Fatalf("pixel = %v, want opaque black", c)
	}
}

func TestBase_BrightnessAndCover(t *testing.T) {
	bg := imaging.New(200, 100, color.NRGBA{R: 200, G: 100, B: 50, A: 0xff})
	img := Base(bg, true, 0.5, false)
	if b := img.Bounds(); b.Dx() != CanvasWidth || b.Dy() != CanvasHeight {
		t.Fatalf("bounds = %v", b)
	}
	c := img.NRGBAAt(540, 960)
	if far(c.R, 100) || far(c.G, 50) || far(c.B, 25) {
		t.Fatalf("pixel = %v, want halved", c)
	}

	same := Base(bg, false, 0.5, false).NRGBAAt(540, 960)
	if far(same.R, 200) {
		t.Fatalf("brightness should be skipped, got %v", same)
	}
}

// far reports whether v is more than 2 away from want.
func far(v uint8, want int) bool {
	d := int(v) - want
	return d < -2 || d > 2
}

func TestApplyGradient(t *testing.T) {
	img := imaging.New(4, 11, color.NRGBA{R: 100, G: 100, B: 100, A: 0xff})
	ApplyGradient(img)
	if c := img.NRGBAAt(0, 0); c.R != 100 {
		t.Fatalf("top row should be untouched, got %v", c)
	}
	if c := img.NRGBAAt(0, 10); c.R != 20 {
		t.Fatalf("bottom row = %v, want 20", c)
	}
}

func TestDraw_TextAnchors(t *testing.T) {
	r := newRasterizer(t)
	st := Style{Size: 40, Weight: Bold, Color: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}}

	w, err := r.MeasureText([]Run{{Text: "Heat", Style: st}})
	if err != nil || w <= 0 {
		t.Fatalf("MeasureText = %d, %v", w, err)
	}

	canvas := imaging.New(400, 100, color.NRGBA{A: 0xff})
	if err := r.Draw(canvas, []Op{Text(200, 60, AnchorCenter, "Heat", st)}); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	minX, maxX := 400, 0
	for y := 0; y < 100; y++ {
		for x := 0; x < 400; x++ {
			if canvas.NRGBAAt(x, y).R > 128 {
				minX = min(minX, x)
				maxX = max(maxX, x)
			}
		}
	}
	if minX >= maxX {
		t.Fatalf("nothing drawn")
	}
	mid := (minX + maxX) / 2
	if mid < 190 || mid > 210 {
		t.Fatalf("centered text midpoint = %d", mid)
	}
}

func TestDraw_Symbols(t *testing.T) {
	r := newRasterizer(t)
	green := Hex("#00d474")
	op := SymbolOp{X: 10, Y: 80, Text: "★☆♥", Size: 54, Spacing: 8, Color: green}

	w, err := r.MeasureSymbols(op)
	if err != nil {
		t.Fatal(err)
	}
	if w != 54*3+8*2 {
		t.Fatalf("width = %d", w)
	}

	canvas := imaging.New(300, 100, color.NRGBA{A: 0xff})
	if err := r.Draw(canvas, []Op{op}); err != nil {
		t.Fatal(err)
	}
	// Middle of the filled star is painted, middle of the hollow one is not.
	top := 80 - int(math.Round(0.82*54))
	if c := canvas.NRGBAAt(10+27, top+28); c.G < 150 {
		t.Fatalf("filled star centre = %v", c)
	}
	if c := canvas.NRGBAAt(10+54+8+27, top+28); c.G > 60 {
		t.Fatalf("hollow star centre = %v", c)
	}
}

func TestDraw_ImageContainAligned(t *testing.T) {
	r := newRasterizer(t)
	logo := imaging.New(100, 50, color.NRGBA{R: 0xff, A: 0xff})
	canvas := imaging.New(600, 120, color.NRGBA{A: 0xff})
	op := ImageOp{Rect: image.Rect(0, 0, 600, 120), Img: logo, Fit: FitContain, Align: AnchorLeft}
	if err := r.Draw(canvas, []Op{op}); err != nil {
		t.Fatal(err)
	}
	if c := canvas.NRGBAAt(2, 60); c.R < 200 {
		t.Fatalf("left edge should be painted, got %v", c)
	}
	if c := canvas.NRGBAAt(598, 60); c.R > 10 {
		t.Fatalf("right edge should be empty, got %v", c)
	}
}

func TestHex(t *testing.T) {
	if c := Hex("#00d474"); c != (color.NRGBA{R: 0, G: 0xd4, B: 0x74, A: 0xff}) {
		t.Fatalf("Hex = %v", c)
	}
	if c := Hex("nope"); c.R != 0xff || c.A != 0xff {
		t.Fatalf("invalid hex should be white, got %v", c)
	}
}

func TestEncode(t *testing.T) {
	img := imaging.New(8, 8, color.NRGBA{G: 0xff, A: 0xff})

	b, ct, err := Encode(img, PNG)
	if err != nil || ct != "image/png" {
		t.Fatalf("png: %q %v", ct, err)
	}
	if !bytes.HasPrefix(b, []byte("\x89PNG")) {
		t.Fatalf("not a PNG")
	}

	b, ct, err = Encode(img, ParseFormat("JPG"))
	if err != nil || ct != "image/jpeg" {
		t.Fatalf("jpeg: %q %v", ct, err)
	}
	if !bytes.HasPrefix(b, []byte{0xff, 0xd8}) {
		t.Fatalf("not a JPEG")
	}

	if ParseFormat("webp") != PNG {
		t.Fatalf("unknown formats default to png")
	}
}

func TestQR(t *testing.T) {
	b, err := QRPNG("https://letterboxd.com/user/film/heat/", 200)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 200 {
		t.Fatalf("size = %d", img.Bounds().Dx())
	}
	q, err := QRCode("x", 0)
	if err != nil || q.Bounds().Dx() != DefaultQRSize {
		t.Fatalf("QRCode default size: %v %v", q, err)
	}
}

func TestDownload(t *testing.T) {
	body := pngBytes(t, imaging.New(3, 2, color.NRGBA{A: 0xff}))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Write(body)
		case "/junk":
			w.Write([]byte("not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher(nil)
	img, err := Download(context.Background(), f, srv.URL+"/ok.png")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if img.Bounds().Dx() != 3 {
		t.Fatalf("decoded width = %d", img.Bounds().Dx())
	}

	for _, p := range []string{"/missing", "/junk"} {
		_, err := Download(context.Background(), f, srv.URL+p)
		var fe *FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("%s: expected FetchError, got %v", p, err)
		}
	}
}
