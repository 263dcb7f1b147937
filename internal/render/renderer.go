// Package render turns an aggregate and a style configuration into an
// encoded poster. Each style mode is a strategy that resolves its assets and
// lays out draw commands; compositing and encoding are shared.
package render

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	imagepkg "github.com/youruser/posterboxd/internal/image"
	"github.com/youruser/posterboxd/internal/media"
	"github.com/youruser/posterboxd/internal/style"
	"github.com/youruser/posterboxd/internal/tmdb"
)

// Result is one encoded poster plus the candidate lists the client may pick
// from on the next render.
type Result struct {
	Image       []byte           `json:"-"`
	ContentType string           `json:"content_type"`
	Format      imagepkg.Format  `json:"format"`
	Candidates  media.Candidates `json:"candidates"`
}

type strategy interface {
	candidates(agg *media.Aggregate) media.Candidates
	layers(ctx context.Context, agg *media.Aggregate, cfg style.Config, sel media.Selection, c media.Candidates) (imagepkg.Layers, error)
}

type Options struct {
	Fetcher      imagepkg.Fetcher
	Raster       *imagepkg.Rasterizer
	ImageBaseURL string
	AssetsDir    string
	Logger       *log.Logger
}

type Renderer struct {
	fetch     imagepkg.Fetcher
	raster    *imagepkg.Rasterizer
	imageBase string
	assets    string
	log       *log.Logger

	modes map[style.Mode]strategy
}

func New(o Options) (*Renderer, error) {
	if o.Fetcher == nil {
		o.Fetcher = imagepkg.NewHTTPFetcher(nil)
	}
	if o.Raster == nil {
		ras, err := imagepkg.NewRasterizer()
		if err != nil {
			return nil, fmt.Errorf("load fonts: %w", err)
		}
		o.Raster = ras
	}
	if o.ImageBaseURL == "" {
		o.ImageBaseURL = tmdb.DefaultImageBaseURL
	}
	if o.AssetsDir == "" {
		o.AssetsDir = "public/assets"
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	r := &Renderer{
		fetch:     o.Fetcher,
		raster:    o.Raster,
		imageBase: o.ImageBaseURL,
		assets:    o.AssetsDir,
		log:       o.Logger.WithPrefix("render"),
	}
	r.modes = map[style.Mode]strategy{
		style.ModeClassic:      &classic{r},
		style.ModeExperimental: &experimental{r},
	}
	return r, nil
}

// Render produces one poster. It either returns a fully encoded image or an
// error; agg is never modified.
func (r *Renderer) Render(ctx context.Context, agg *media.Aggregate, cfg style.Config, sel media.Selection) (*Result, error) {
	if agg == nil {
		return nil, fmt.Errorf("render: nil aggregate")
	}
	cfg.Normalize()
	s := r.modes[cfg.Mode]

	cands := s.candidates(agg)
	l, err := s.layers(ctx, agg, cfg, sel, cands)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	canvas, err := r.raster.Compose(l)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	b, ct, err := imagepkg.Encode(canvas, cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	r.log.Info("rendered", "title", agg.DisplayTitle(), "mode", cfg.Mode, "format", cfg.Format, "bytes", len(b))
	return &Result{Image: b, ContentType: ct, Format: cfg.Format, Candidates: cands}, nil
}
