package render

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"

	imagepkg "github.com/youruser/posterboxd/internal/image"
	"github.com/youruser/posterboxd/internal/media"
	"github.com/youruser/posterboxd/internal/rank"
	"github.com/youruser/posterboxd/internal/util"
)

// Footer logo files under the assets directory.
const (
	LetterboxdLogo = "letterboxd-logo.png"
	BrandLogo      = "footer-posterboxd.png"
)

// ErrFooterLogoMissing means neither footer logo file could be loaded.
var ErrFooterLogoMissing = errors.New("footer logo missing")

const (
	altLimit = 5

	// A logo response smaller than this is a placeholder, not artwork.
	minLogoBytes = 1024
)

var logoSizes = []string{"w500", "original", "w300"}

// posterPaths is the main poster followed by up to five alternatives.
func posterPaths(rec *media.Record) []string {
	paths := []string{rec.PosterPath}
	for i, p := range rec.Posters {
		if i == altLimit {
			break
		}
		paths = append(paths, p.FilePath)
	}
	return dedupe(paths)
}

// backdropPaths is the main backdrop followed by the best ranked ones.
func backdropPaths(rec *media.Record, limit int) []string {
	paths := []string{rec.BackdropPath}
	for i, b := range rank.Sort(rec.Backdrops) {
		if limit > 0 && i == limit {
			break
		}
		paths = append(paths, b.FilePath)
	}
	return dedupe(paths)
}

func (r *Renderer) urls(size string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = media.ImageURL(r.imageBase, size, p)
	}
	return out
}

func (r *Renderer) logoOptions(rec *media.Record) []media.LogoOption {
	out := make([]media.LogoOption, 0, len(rec.Logos))
	for _, l := range rec.Logos {
		out = append(out, media.LogoOption{
			URL:      media.ImageURL(r.imageBase, "w500", l.FilePath),
			Language: l.Language,
			Width:    l.Width,
			Height:   l.Height,
		})
	}
	return out
}

// pick resolves a selection index: -1 is none, anything else out of range
// falls back to the first entry.
func pick(list []string, idx int) string {
	if idx == -1 || len(list) == 0 {
		return ""
	}
	if idx < 0 || idx >= len(list) {
		idx = 0
	}
	return list[idx]
}

// pickLogo honours an explicit index, then prefers English, then the first.
func pickLogo(logos []media.Image, idx int) (media.Image, bool) {
	if len(logos) == 0 {
		return media.Image{}, false
	}
	if idx >= 0 && idx < len(logos) {
		return logos[idx], true
	}
	for _, l := range logos {
		if l.Language == "en" {
			return l, true
		}
	}
	return logos[0], true
}

type job func(ctx context.Context) image.Image

// gather runs jobs concurrently. Each result lands in its own slot; nil jobs
// and failed fetches leave the slot nil.
func (r *Renderer) gather(ctx context.Context, jobs ...job) []image.Image {
	out := make([]image.Image, len(jobs))
	var wg sync.WaitGroup
	for i, j := range jobs {
		if j == nil {
			continue
		}
		i, j := i, j
		wg.Add(1)
		go func() {
			defer wg.Done()
			out[i] = j(ctx)
		}()
	}
	wg.Wait()
	return out
}

func (r *Renderer) download(url string) job {
	if url == "" {
		return nil
	}
	return func(ctx context.Context) image.Image {
		img, err := imagepkg.Download(ctx, r.fetch, url)
		if err != nil {
			r.log.Warn("asset fetch failed", "url", url, "err", err)
			return nil
		}
		return img
	}
}

// logo tries each size variant in order and keeps the first real image.
func (r *Renderer) logo(path string) job {
	if path == "" {
		return nil
	}
	return func(ctx context.Context) image.Image {
		for _, size := range logoSizes {
			url := media.ImageURL(r.imageBase, size, path)
			b, err := r.fetch.Fetch(ctx, url)
			if err != nil {
				r.log.Debug("logo variant failed", "size", size, "err", err)
				continue
			}
			if len(b) < minLogoBytes {
				r.log.Debug("logo variant too small", "size", size, "bytes", len(b))
				continue
			}
			img, err := imagepkg.Decode(b)
			if err != nil {
				r.log.Debug("logo variant undecodable", "size", size, "err", err)
				continue
			}
			return img
		}
		r.log.Warn("no usable logo variant", "path", path)
		return nil
	}
}

// footerLogo loads the preferred footer logo, falling back to the other file.
func (r *Renderer) footerLogo(brand bool) (image.Image, error) {
	names := []string{LetterboxdLogo, BrandLogo}
	if brand {
		names[0], names[1] = names[1], names[0]
	}
	for _, n := range names {
		p := filepath.Join(r.assets, n)
		if !util.FileExists(p) {
			continue
		}
		img, err := imaging.Open(p)
		if err != nil {
			r.log.Warn("footer logo unreadable", "path", p, "err", err)
			continue
		}
		return img, nil
	}
	return nil, ErrFooterLogoMissing
}

// selectedSeason is the season fragment the configuration asks for, if loaded.
func selectedSeason(agg *media.Aggregate, sel int) *media.Season {
	if sel <= 0 || agg.Season == nil || agg.Season.Number != sel {
		return nil
	}
	return agg.Season
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
