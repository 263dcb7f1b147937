// Package source assembles a render aggregate either from a scraped
// Letterboxd review or from a direct TMDB lookup.
package source

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/youruser/posterboxd/internal/letterboxd"
	"github.com/youruser/posterboxd/internal/media"
)

type MediaLookup interface {
	LookupMedia(ctx context.Context, id int, kind media.Kind) (*media.Record, error)
	LookupSeason(ctx context.Context, seriesID, number int) (*media.Season, error)
	FindMovie(ctx context.Context, title, year, director string) (int, error)
}

type PageScraper interface {
	Scrape(ctx context.Context, url string) (*letterboxd.Page, error)
}

type Resolver struct {
	tmdb    MediaLookup
	scraper PageScraper
	log     *log.Logger
}

func NewResolver(tmdb MediaLookup, scraper PageScraper, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{tmdb: tmdb, scraper: scraper, log: logger.WithPrefix("source")}
}

// FromLetterboxd scrapes a review page and matches the film on TMDB.
func (r *Resolver) FromLetterboxd(ctx context.Context, url string) (*media.Aggregate, error) {
	page, err := r.scraper.Scrape(ctx, url)
	if err != nil {
		return nil, err
	}
	id, err := r.tmdb.FindMovie(ctx, page.Title, page.Year, page.Director)
	if err != nil {
		return nil, err
	}
	rec, err := r.tmdb.LookupMedia(ctx, id, media.KindMovie)
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", page.Title, err)
	}
	return &media.Aggregate{
		Record: *rec,
		Review: media.Review{
			Rating:      page.Rating,
			Liked:       page.Liked,
			Tags:        page.Tags,
			WatchedDate: page.WatchedDate,
			Username:    page.Username,
			URL:         page.URL,
		},
		Title:  page.Title,
		Year:   page.Year,
		Source: media.SourceLetterboxd,
	}, nil
}

// Custom is a direct lookup with a hand-entered review.
type Custom struct {
	ID     int
	Kind   media.Kind
	Review media.Review
	// Season 0 means the whole series.
	Season int
}

// FromTMDB builds an aggregate for a known TMDB id. A season that cannot be
// fetched is logged and the series is shown whole.
func (r *Resolver) FromTMDB(ctx context.Context, c Custom) (*media.Aggregate, error) {
	rec, err := r.tmdb.LookupMedia(ctx, c.ID, c.Kind)
	if err != nil {
		return nil, err
	}
	agg := &media.Aggregate{
		Record: *rec,
		Review: c.Review,
		Title:  rec.Title,
		Source: media.SourceCustom,
	}
	agg.Year = agg.DisplayYear()

	if c.Season > 0 && rec.IsSeries() {
		s, err := r.tmdb.LookupSeason(ctx, rec.ID, c.Season)
		if err != nil {
			r.log.Warn("season lookup failed", "id", rec.ID, "season", c.Season, "err", err)
		} else {
			agg.Season = s
		}
	}
	return agg, nil
}
