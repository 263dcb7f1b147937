package tmdb

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/youruser/posterboxd/internal/media"
)

// parallel runs fns concurrently and returns the first error in argument order.
func parallel(ctx context.Context, fns ...func(context.Context) error) error {
	errs := make([]error, len(fns))
	var wg sync.WaitGroup
	for i, fn := range fns {
		i, fn := i, fn
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = fn(ctx)
		}()
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func kindPath(kind media.Kind) string {
	if kind == media.KindTV {
		return "tv"
	}
	return "movie"
}

// LookupMedia fetches details, credits and images for one title.
func (c *Client) LookupMedia(ctx context.Context, id int, kind media.Kind) (*media.Record, error) {
	if kind != media.KindTV {
		kind = media.KindMovie
	}
	base := fmt.Sprintf("/%s/%d", kindPath(kind), id)

	var (
		d  details
		cr credits
		im images
	)
	err := parallel(ctx,
		func(ctx context.Context) error { return c.get(ctx, base, nil, &d) },
		func(ctx context.Context) error { return c.get(ctx, base+"/credits", nil, &cr) },
		func(ctx context.Context) error { return c.get(ctx, base+"/images", nil, &im) },
	)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.NotFound() {
			return nil, fmt.Errorf("%s %d: %w", kind, id, ErrNoMatch)
		}
		return nil, err
	}

	rec := d.record(kind, cr, im)
	c.log.Info("lookup", "id", id, "kind", kind, "title", rec.Title,
		"posters", len(rec.Posters), "backdrops", len(rec.Backdrops), "logos", len(rec.Logos))
	return rec, nil
}

// LookupSeason fetches one season of a series with its credits.
func (c *Client) LookupSeason(ctx context.Context, seriesID, number int) (*media.Season, error) {
	base := fmt.Sprintf("/tv/%d/season/%d", seriesID, number)

	var (
		s  season
		cr credits
	)
	err := parallel(ctx,
		func(ctx context.Context) error { return c.get(ctx, base, nil, &s) },
		func(ctx context.Context) error { return c.get(ctx, base+"/credits", nil, &cr) },
	)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.NotFound() {
			return nil, fmt.Errorf("season %d of %d: %w", number, seriesID, ErrNoMatch)
		}
		return nil, err
	}

	out := &media.Season{
		Number:     s.SeasonNumber,
		Name:       s.Name,
		AirDate:    s.AirDate,
		Episodes:   len(s.Episodes),
		Crew:       cr.Crew,
		Cast:       cr.Cast,
		PosterPath: s.PosterPath,
	}
	for _, e := range s.Episodes {
		if e.Runtime > 0 {
			out.EpisodeRunTime = append(out.EpisodeRunTime, e.Runtime)
		}
	}
	return out, nil
}
