package render

import (
	"context"
	"image"
	"math"

	"github.com/youruser/posterboxd/internal/credits"
	imagepkg "github.com/youruser/posterboxd/internal/image"
	"github.com/youruser/posterboxd/internal/layout"
	"github.com/youruser/posterboxd/internal/media"
	"github.com/youruser/posterboxd/internal/style"
)

const (
	leftX        = 80
	blockTop     = 1150
	lineGap      = 40
	titleGap     = 50
	creditsGap   = 40
	titleWidth   = 920
	titleLines   = 3
	titleSize    = 80
	titleLeading = 88

	logoBoxWidth  = 600
	logoBoxHeight = 120

	footerTop       = 1720
	brandLogoWidth  = 320
	brandLogoHeight = 44
)

var (
	bigTitleStyle = imagepkg.Style{Size: titleSize, Weight: imagepkg.Bold, Color: white}
	bigYearStyle  = imagepkg.Style{Size: 60, Color: white}
	expTagStyle   = imagepkg.Style{Size: 24, Color: imagepkg.Hex("#cccccc")}
	expDateStyle  = imagepkg.Style{Size: 24, Color: imagepkg.Hex("#aaaaaa")}
	expStarColor  = imagepkg.Hex("#00d474")
)

// experimental is the left-aligned layout over a full-bleed background with
// the title logo in place of the poster.
type experimental struct {
	*Renderer
}

func (e *experimental) candidates(agg *media.Aggregate) media.Candidates {
	rec := &agg.Record
	bgs := append(backdropPaths(rec, altLimit), posterPaths(rec)...)
	return media.Candidates{
		Posters:     e.urls("w500", posterPaths(rec)),
		Backgrounds: e.urls("w1280", dedupe(bgs)),
		Logos:       e.logoOptions(rec),
	}
}

// background applies the precedence poster, then background, then first.
func (e *experimental) background(rec *media.Record, sel media.Selection, cands media.Candidates) string {
	posters := posterPaths(rec)
	if sel.Poster >= 0 && sel.Poster < len(posters) {
		return media.ImageURL(e.imageBase, "w1280", posters[sel.Poster])
	}
	if sel.Background >= 0 && sel.Background < len(cands.Backgrounds) {
		return cands.Backgrounds[sel.Background]
	}
	if len(cands.Backgrounds) > 0 {
		return cands.Backgrounds[0]
	}
	return ""
}

func (e *experimental) layers(ctx context.Context, agg *media.Aggregate, cfg style.Config, sel media.Selection, cands media.Candidates) (imagepkg.Layers, error) {
	footer, err := e.footerLogo(true)
	if err != nil {
		return imagepkg.Layers{}, err
	}
	rec := &agg.Record

	var logoJob job
	if cfg.Show.Logo {
		if l, ok := pickLogo(rec.Logos, sel.Logo); ok {
			logoJob = e.logo(l.FilePath)
		}
	}
	imgs := e.gather(ctx, e.download(e.background(rec, sel, cands)), logoJob)
	bg, logo := imgs[0], imgs[1]

	l := imagepkg.Layers{
		Background: bg,
		// Brightness follows the gradient toggle in this mode.
		AdjustBrightness: cfg.GradientOverlay,
		Brightness:       cfg.BackdropBrightness,
		Blur:             cfg.BlurBackdrop,
		Gradient:         cfg.GradientOverlay,
	}

	season := selectedSeason(agg, cfg.SelectedSeason)
	y := blockTop
	if logo != nil {
		l.Overlay = append(l.Overlay, e.logoOp(logo, cfg.Experimental, y))
		y += int(math.Round(logoBoxHeight*cfg.Experimental.LogoScale)) + titleGap
	} else {
		ops, next := titleBlock(agg.DisplayTitle(), yearLine(agg, season), y)
		l.Overlay = append(l.Overlay, ops...)
		y = next
	}

	if cfg.Show.Credits {
		crew, cast := rec.Crew, rec.Cast
		if season != nil && len(season.Crew)+len(season.Cast) > 0 {
			crew, cast = season.Crew, season.Cast
		}
		size := cfg.Experimental.CreditsFontSize
		for _, g := range credits.Aggregate(crew, cast) {
			prefix, names := g.Line(credits.MaxLineChars)
			l.Overlay = append(l.Overlay, imagepkg.TextOp{
				X: leftX, Y: y, Anchor: imagepkg.AnchorLeft,
				Runs: []imagepkg.Run{
					{Text: prefix + " ", Style: imagepkg.Style{Size: size, Color: white}},
					{Text: names, Style: imagepkg.Style{Size: size, Weight: imagepkg.Bold, Color: white}},
				},
			})
			y += lineGap
		}
	}
	y += creditsGap

	rv := agg.Review
	stars := ""
	if cfg.Show.Rating {
		stars = media.StarString(rv.Rating)
	}
	heart := rv.Liked && cfg.Show.Rating && cfg.Show.Heart
	if stars != "" || heart {
		ops, err := e.ratingRow(stars, heart, y)
		if err != nil {
			return imagepkg.Layers{}, err
		}
		l.Overlay = append(l.Overlay, ops...)
		y += lineGap
	}
	if cfg.Show.Tags {
		if tags := hashTags(rv.Tags); tags != "" {
			l.Overlay = append(l.Overlay, imagepkg.Text(leftX, y, imagepkg.AnchorLeft, tags, expTagStyle))
			y += lineGap
		}
	}
	if cfg.Show.WatchedDate && rv.WatchedDate != "" {
		l.Overlay = append(l.Overlay, imagepkg.Text(leftX, y, imagepkg.AnchorLeft, "Watched on "+rv.WatchedDate, expDateStyle))
		y += lineGap
	}
	e.log.Debug("experimental layout", "logo", logo != nil, "cursor", y)

	l.Footer = e.footer(rv, cfg, footer)
	return l, nil
}

func (e *experimental) logoOp(logo image.Image, opt style.Experimental, y int) imagepkg.ImageOp {
	w := int(math.Round(logoBoxWidth * opt.LogoScale))
	h := int(math.Round(logoBoxHeight * opt.LogoScale))
	left, align := leftX, imagepkg.AnchorLeft
	if opt.LogoAlignment == style.AlignCenter {
		left, align = (imagepkg.CanvasWidth-w)/2, imagepkg.AnchorCenter
	}
	return imagepkg.ImageOp{
		Rect:  image.Rect(left, y, left+w, y+h),
		Img:   logo,
		Fit:   imagepkg.FitContain,
		Align: align,
	}
}

// titleBlock is the text fallback for a missing logo. The year goes on the
// last title line only. It returns the ops and the next cursor position.
func titleBlock(title, year string, y int) ([]imagepkg.Op, int) {
	lines := layout.WrapPixels(title, titleSize, titleWidth, titleLines)
	if len(lines) == 0 {
		lines = []string{""}
	}
	ops := make([]imagepkg.Op, 0, len(lines))
	for i, line := range lines {
		runs := []imagepkg.Run{{Text: line, Style: bigTitleStyle}}
		if i == len(lines)-1 && year != "" {
			runs = append(runs, imagepkg.Run{Text: " (" + year + ")", Style: bigYearStyle})
		}
		ops = append(ops, imagepkg.TextOp{X: leftX, Y: y + i*titleLeading, Anchor: imagepkg.AnchorLeft, Runs: runs})
	}
	last := y + (len(lines)-1)*titleLeading
	return ops, last + titleSize + titleGap
}

// ratingRow draws the stars with the heart right after them in its own color.
func (e *experimental) ratingRow(stars string, heart bool, y int) ([]imagepkg.Op, error) {
	var ops []imagepkg.Op
	x := leftX
	if stars != "" {
		op := imagepkg.SymbolOp{
			X: x, Y: y, Anchor: imagepkg.AnchorLeft,
			Text: stars, Size: 54, Spacing: 8, Color: expStarColor,
		}
		w, err := e.raster.MeasureSymbols(op)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		x += w + 8
	}
	if heart {
		ops = append(ops, imagepkg.SymbolOp{
			X: x, Y: y, Anchor: imagepkg.AnchorLeft,
			Text: string(imagepkg.Heart), Size: 54, Color: heartColor,
		})
	}
	return ops, nil
}

func (e *experimental) footer(rv media.Review, cfg style.Config, logo image.Image) []imagepkg.Op {
	var ops []imagepkg.Op
	if rv.Username != "" {
		ops = append(ops, imagepkg.Text(centerX, footerTop, imagepkg.AnchorCenter, rv.Username, userStyle))
	}
	lx := (imagepkg.CanvasWidth - brandLogoWidth) / 2
	ops = append(ops,
		imagepkg.Text(centerX, footerTop+24, imagepkg.AnchorCenter, "— on —", onStyle),
		imagepkg.ImageOp{
			Rect:    image.Rect(lx, footerTop+38, lx+brandLogoWidth, footerTop+38+brandLogoHeight),
			Img:     logo,
			Fit:     imagepkg.FitContain,
			Align:   imagepkg.AnchorCenter,
			Opacity: 0.9,
		},
	)
	if op, ok := e.shareCode(rv, cfg); ok {
		ops = append(ops, op)
	}
	return ops
}
