package render

import (
	"context"
	"image"
	"math"
	"strings"

	imagepkg "github.com/youruser/posterboxd/internal/image"
	"github.com/youruser/posterboxd/internal/layout"
	"github.com/youruser/posterboxd/internal/media"
	"github.com/youruser/posterboxd/internal/style"
)

const (
	centerX = imagepkg.CanvasWidth / 2

	posterWidth  = 480
	posterHeight = 720

	footerLogoWidth   = 160
	footerLogoHeight  = 22
	customFooterScale = 1.9

	qrSize   = 160
	qrMargin = 40
)

var (
	white      = imagepkg.Hex("#ffffff")
	titleStyle = imagepkg.Style{Size: 54, Weight: imagepkg.Bold, Color: white}
	yearStyle  = imagepkg.Style{Size: 34, Color: imagepkg.Hex("#aaaaaa")}
	genreStyle = imagepkg.Style{Size: 28, Color: imagepkg.Hex("#cccccc")}
	labelStyle = imagepkg.Style{Size: 32, Color: imagepkg.Hex("#aaaaaa")}
	boldStyle  = imagepkg.Style{Size: 32, Weight: imagepkg.Bold, Color: white}
	actorStyle = imagepkg.Style{Size: 30, Weight: imagepkg.Italic, Color: imagepkg.Hex("#dddddd")}
	tagStyle   = imagepkg.Style{Size: 28, Color: imagepkg.Hex("#cccccc")}

	userStyle    = imagepkg.Style{Size: 30, Weight: imagepkg.Bold, Color: white}
	onStyle      = imagepkg.Style{Size: 20, Color: imagepkg.Hex("#aaaaaa")}
	watchedStyle = imagepkg.Style{Size: 24, Color: imagepkg.Hex("#666666"), Opacity: 0.8}

	starColor  = imagepkg.Hex("#00c030")
	heartColor = imagepkg.Hex("#ff9010")
)

// classic is the centered layout: poster on top, stacked text sections below.
type classic struct {
	*Renderer
}

func (c *classic) candidates(agg *media.Aggregate) media.Candidates {
	rec := &agg.Record
	return media.Candidates{
		Posters:     c.urls("w500", posterPaths(rec)),
		Backgrounds: c.urls("w1280", backdropPaths(rec, altLimit)),
		Logos:       c.logoOptions(rec),
	}
}

func (c *classic) layers(ctx context.Context, agg *media.Aggregate, cfg style.Config, sel media.Selection, cands media.Candidates) (imagepkg.Layers, error) {
	custom := agg.Source == media.SourceCustom
	logo, err := c.footerLogo(custom)
	if err != nil {
		return imagepkg.Layers{}, err
	}

	imgs := c.gather(ctx,
		c.download(pick(cands.Backgrounds, sel.Background)),
		c.download(pick(cands.Posters, sel.Poster)),
	)
	bg, poster := imgs[0], imgs[1]

	l := imagepkg.Layers{
		Background:       bg,
		AdjustBrightness: true,
		Brightness:       cfg.BackdropBrightness,
		Blur:             cfg.BlurBackdrop,
		Gradient:         cfg.GradientOverlay,
	}

	sp := cfg.Spacing
	pw := int(math.Round(posterWidth * cfg.PosterScale))
	ph := int(math.Round(posterHeight * cfg.PosterScale))
	if poster != nil {
		x := (imagepkg.CanvasWidth - pw) / 2
		l.Poster = &imagepkg.ImageOp{
			Rect: image.Rect(x, sp.PosterTop, x+pw, sp.PosterTop+ph),
			Img:  poster,
			Fit:  imagepkg.FitStretch,
		}
	}

	col := layout.Column{
		Y:          sp.PosterTop + ph + sp.TitleBelowPoster,
		LineHeight: sp.LineHeight,
		Gap:        sp.BetweenSections,
	}
	season := selectedSeason(agg, cfg.SelectedSeason)
	for _, key := range cfg.ContentOrder {
		if !cfg.Show.Section(key) {
			continue
		}
		l.Overlay = append(l.Overlay, c.section(key, agg, season, cfg, &col)...)
	}
	c.log.Debug("classic layout", "sections", len(cfg.ContentOrder), "cursor", col.Y)

	l.Footer = c.footer(agg, cfg, logo)
	return l, nil
}

func (c *classic) section(key string, agg *media.Aggregate, season *media.Season, cfg style.Config, col *layout.Column) []imagepkg.Op {
	rec := &agg.Record
	series := rec.IsSeries()

	switch key {
	case style.SectionTitle:
		return wrapped(col, agg.DisplayTitle(), layout.TitleChars, titleStyle)

	case style.SectionYear:
		return wrapped(col, yearLine(agg, season), layout.DefaultChars, yearStyle)

	case style.SectionGenre:
		text := strings.Join(rec.Genres, " | ")
		if series {
			text = seriesSummary(rec, season)
		}
		return wrapped(col, text, layout.DefaultChars, genreStyle)

	case style.SectionDirector:
		switch {
		case season != nil:
			return labeled(col, "directed by ", strings.Join(crewNames(season.Crew, "Director", 2), ", "))
		case series:
			return labeled(col, "created by ", strings.Join(rec.CreatedBy, ", "))
		}
		return labeled(col, "directed by ", strings.Join(crewNames(rec.Crew, "Director", 1), ""))

	case style.SectionRuntime:
		text := media.FormatRuntime(rec.Runtime)
		if series {
			text = seriesSummary(rec, season)
		}
		return wrapped(col, text, layout.DefaultChars, labelStyle)

	case style.SectionMusic:
		return labeled(col, "music by ", strings.Join(crewNames(rec.Crew, "Original Music Composer", 1), ""))

	case style.SectionActors:
		var names []string
		for i, m := range rec.Cast {
			if i == 3 {
				break
			}
			names = append(names, m.Name)
		}
		return wrapped(col, strings.Join(names, ", "), layout.ListChars, actorStyle)

	case style.SectionRating:
		return ratingLines(agg.Review, cfg, col)

	case style.SectionTags:
		return wrapped(col, hashTags(agg.Review.Tags), layout.ListChars, tagStyle)
	}
	return nil
}

func (c *classic) footer(agg *media.Aggregate, cfg style.Config, logo image.Image) []imagepkg.Op {
	rv := agg.Review
	y := imagepkg.CanvasHeight - 130
	if rv.WatchedDate != "" {
		y = imagepkg.CanvasHeight - 160
	}

	scale := cfg.FooterScale
	if scale <= 0 {
		scale = 1
		if agg.Source == media.SourceCustom {
			scale = customFooterScale
		}
	}
	lw := int(math.Round(footerLogoWidth * scale))
	lh := int(math.Round(footerLogoHeight * scale))
	lx := (imagepkg.CanvasWidth - lw) / 2

	var ops []imagepkg.Op
	if rv.Username != "" {
		ops = append(ops, imagepkg.Text(centerX, y, imagepkg.AnchorCenter, rv.Username, userStyle))
	}
	ops = append(ops,
		imagepkg.Text(centerX, y+26, imagepkg.AnchorCenter, "— on —", onStyle),
		imagepkg.ImageOp{
			Rect:    image.Rect(lx, y+40, lx+lw, y+40+lh),
			Img:     logo,
			Fit:     imagepkg.FitContain,
			Align:   imagepkg.AnchorCenter,
			Opacity: 0.9,
		},
	)
	if rv.WatchedDate != "" && cfg.Show.WatchedDate {
		ops = append(ops, imagepkg.Text(centerX, y-60, imagepkg.AnchorCenter, "Watched on "+rv.WatchedDate, watchedStyle))
	}
	if op, ok := c.shareCode(rv, cfg); ok {
		ops = append(ops, op)
	}
	return ops
}

// shareCode is the optional QR linking back to the review.
func (r *Renderer) shareCode(rv media.Review, cfg style.Config) (imagepkg.Op, bool) {
	if !cfg.Show.QR || rv.URL == "" {
		return nil, false
	}
	qr, err := imagepkg.QRCode(rv.URL, qrSize)
	if err != nil {
		r.log.Warn("share code failed", "url", rv.URL, "err", err)
		return nil, false
	}
	x := imagepkg.CanvasWidth - qrMargin - qrSize
	y := imagepkg.CanvasHeight - qrMargin - qrSize
	return imagepkg.ImageOp{
		Rect:    image.Rect(x, y, x+qrSize, y+qrSize),
		Img:     qr,
		Fit:     imagepkg.FitStretch,
		Opacity: 0.9,
	}, true
}

func wrapped(col *layout.Column, text string, budget int, st imagepkg.Style) []imagepkg.Op {
	lines := layout.Wrap(text, budget)
	ys := col.Block(len(lines))
	ops := make([]imagepkg.Op, len(lines))
	for i, line := range lines {
		ops[i] = imagepkg.Text(centerX, ys[i], imagepkg.AnchorCenter, line, st)
	}
	return ops
}

// labeled draws "label <b>names</b>" on a single line.
func labeled(col *layout.Column, label, names string) []imagepkg.Op {
	if names == "" {
		return nil
	}
	return []imagepkg.Op{imagepkg.TextOp{
		X:      centerX,
		Y:      col.Line(),
		Anchor: imagepkg.AnchorCenter,
		Runs: []imagepkg.Run{
			{Text: label, Style: labelStyle},
			{Text: names, Style: boldStyle},
		},
	}}
}

func ratingLines(rv media.Review, cfg style.Config, col *layout.Column) []imagepkg.Op {
	stars := media.StarString(rv.Rating)
	heart := rv.Liked && cfg.Show.Heart
	if stars == "" && !heart {
		return nil
	}

	var ops []imagepkg.Op
	col.Skip(int(math.Round(float64(col.LineHeight) / 2)))
	last := col.Y
	if stars != "" {
		last = col.Line()
		ops = append(ops, imagepkg.SymbolOp{
			X: centerX, Y: last, Anchor: imagepkg.AnchorCenter,
			Text: stars, Size: 60, Spacing: 5, Color: starColor,
		})
	}
	if heart {
		last = col.Line()
		ops = append(ops, imagepkg.SymbolOp{
			X: centerX, Y: last, Anchor: imagepkg.AnchorCenter,
			Text: string(imagepkg.Heart), Size: 60, Color: heartColor,
		})
	}
	col.End(last)
	return ops
}

// yearLine is the release year, the series run, or the selected season's year.
func yearLine(agg *media.Aggregate, season *media.Season) string {
	if season != nil {
		if y := media.YearOf(season.AirDate); y != "" {
			return y
		}
	}
	if agg.Record.IsSeries() {
		if yr := media.YearRange(agg.Record); yr != "" {
			return yr
		}
	}
	return agg.DisplayYear()
}

func seriesSummary(rec *media.Record, season *media.Season) string {
	if season != nil {
		return media.SingleSeasonSummary(*season)
	}
	return media.SeasonSummary(*rec)
}

func crewNames(crew []media.Credit, job string, limit int) []string {
	var out []string
	for _, c := range crew {
		if len(out) == limit {
			break
		}
		if c.Job == job && c.Name != "" && !contains(out, c.Name) {
			out = append(out, c.Name)
		}
	}
	return out
}

func hashTags(tags []string) string {
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			parts = append(parts, "#"+t)
		}
	}
	return strings.Join(parts, " ")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
