package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/youruser/posterboxd/internal/media"
)

const (
	SearchLimit = 10

	// directorChecks bounds the credit lookups FindMovie makes per search.
	directorChecks = 10
)

// SearchMedia searches films and series. An empty kind searches both and
// merges the hits by popularity.
func (c *Client) SearchMedia(ctx context.Context, query string, kind media.Kind) ([]media.Summary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	kinds := []media.Kind{media.KindMovie, media.KindTV}
	if kind != "" {
		kinds = []media.Kind{kind}
	}

	pages := make([]searchPage, len(kinds))
	fns := make([]func(context.Context) error, len(kinds))
	for i, k := range kinds {
		i, k := i, k
		fns[i] = func(ctx context.Context) error {
			return c.get(ctx, "/search/"+kindPath(k), url.Values{"query": {query}}, &pages[i])
		}
	}
	if err := parallel(ctx, fns...); err != nil {
		return nil, err
	}

	var out []media.Summary
	for i, p := range pages {
		for _, r := range p.Results {
			out = append(out, r.summary(kinds[i]))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Popularity > out[j].Popularity })
	if len(out) > SearchLimit {
		out = out[:SearchLimit]
	}
	c.log.Info("search", "query", query, "kind", kind, "results", len(out))
	return out, nil
}

// FindMovie resolves a scraped title to a TMDB movie id. Among the search
// results the first whose director contains director (case-insensitively)
// wins; otherwise the first result is used.
func (c *Client) FindMovie(ctx context.Context, title, year, director string) (int, error) {
	q := url.Values{"query": {title}}
	if year != "" {
		q.Set("year", year)
	}
	var page searchPage
	if err := c.get(ctx, "/search/movie", q, &page); err != nil {
		return 0, err
	}
	if len(page.Results) == 0 && year != "" {
		q.Del("year")
		if err := c.get(ctx, "/search/movie", q, &page); err != nil {
			return 0, err
		}
	}
	if len(page.Results) == 0 {
		return 0, fmt.Errorf("%q (%s): %w", title, year, ErrNoMatch)
	}

	want := strings.ToLower(strings.TrimSpace(director))
	if want != "" {
		for i, r := range page.Results {
			if i == directorChecks {
				break
			}
			var cr credits
			if err := c.get(ctx, fmt.Sprintf("/movie/%d/credits", r.ID), nil, &cr); err != nil {
				c.log.Warn("credits lookup failed", "id", r.ID, "err", err)
				continue
			}
			if d := firstDirector(cr.Crew); d != "" && strings.Contains(strings.ToLower(d), want) {
				c.log.Debug("director match", "title", r.Title, "director", d)
				return r.ID, nil
			}
		}
		c.log.Warn("no director match, using first result", "title", title, "director", director)
	}
	return page.Results[0].ID, nil
}

func firstDirector(crew []media.Credit) string {
	for _, c := range crew {
		if c.Job == "Director" {
			return c.Name
		}
	}
	return ""
}
