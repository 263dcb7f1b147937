package tmdb

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/youruser/posterboxd/internal/media"
)

var fixtures = map[string]string{
	"/movie/949": `{"id":949,"title":"Heat","release_date":"1995-12-15","runtime":170,
		"genres":[{"name":"Crime"},{"name":"Drama"}],"poster_path":"/p.jpg","backdrop_path":"/b.jpg"}`,
	"/movie/949/credits": `{"cast":[{"name":"Al Pacino","order":0},{"name":"Robert De Niro","order":1}],
		"crew":[{"name":"Michael Mann","job":"Director"},{"name":"Elliot Goldenthal","job":"Original Music Composer"}]}`,
	"/movie/949/images": `{"posters":[{"file_path":"/p2.jpg","width":1000,"height":1500}],
		"backdrops":[{"file_path":"/b2.jpg","width":1920,"height":1080,"vote_average":5.5,"vote_count":10}],
		"logos":[{"file_path":"/l.png","iso_639_1":"en","width":500,"height":100}]}`,
	"/tv/1396": `{"id":1396,"name":"Breaking Bad","first_air_date":"2008-01-20","last_air_date":"2013-09-29",
		"status":"Ended","episode_run_time":[45,47],"number_of_seasons":5,"number_of_episodes":62,
		"created_by":[{"name":"Vince Gilligan"}]}`,
	"/tv/1396/credits":            `{"cast":[],"crew":[]}`,
	"/tv/1396/images":             `{"posters":[],"backdrops":[],"logos":[]}`,
	"/tv/1396/season/2":           `{"season_number":2,"name":"Season 2","air_date":"2009-03-08","episodes":[{"runtime":47},{"runtime":0},{"runtime":48}]}`,
	"/tv/1396/season/2/credits":   `{"crew":[{"name":"Adam Bernstein","job":"Director"}]}`,
	"/search/tv":                  `{"results":[{"id":1,"name":"Heat Show","first_air_date":"2001-01-01","popularity":50}]}`,
	"/movie/100/credits":          `{"crew":[{"name":"Someone Else","job":"Director"}]}`,
	"/movie/200/credits":          `{"crew":[{"name":"Michael Mann","job":"Director"}]}`,
	"/search/movie?query=Heat":    `{"results":[{"id":100,"title":"Heat","popularity":10},{"id":200,"title":"Heat","popularity":80}]}`,
	"/search/movie?query=Nothing": `{"results":[]}`,
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "k" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"status_message":"Invalid API key"}`)
			return
		}
		body, ok := fixtures[r.URL.Path]
		if !ok {
			body, ok = fixtures[r.URL.Path+"?query="+r.URL.Query().Get("query")]
		}
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"status_message":"not found"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	c := New("k", Options{BaseURL: srv.URL, RPS: 1000, Logger: log.New(io.Discard)})
	return c
}

func TestLookupMedia_Movie(t *testing.T) {
	c := newTestClient(t)
	rec, err := c.LookupMedia(context.Background(), 949, media.KindMovie)
	if err != nil {
		t.Fatalf("LookupMedia: %v", err)
	}
	if rec.Title != "Heat" || rec.Runtime != 170 || strings.Join(rec.Genres, ",") != "Crime,Drama" {
		t.Fatalf("record = %+v", rec)
	}
	if len(rec.Crew) != 2 || rec.Cast[1].Name != "Robert De Niro" {
		t.Fatalf("credits = %+v %+v", rec.Crew, rec.Cast)
	}
	if len(rec.Backdrops) != 1 || rec.Backdrops[0].VoteCount != 10 || rec.Logos[0].Language != "en" {
		t.Fatalf("images = %+v %+v", rec.Backdrops, rec.Logos)
	}
	if rec.IsSeries() {
		t.Fatalf("movie reported as series")
	}
}

func TestLookupMedia_Series(t *testing.T) {
	c := newTestClient(t)
	rec, err := c.LookupMedia(context.Background(), 1396, media.KindTV)
	if err != nil {
		t.Fatalf("LookupMedia: %v", err)
	}
	if rec.Title != "Breaking Bad" || !rec.IsSeries() || rec.Seasons != 5 || rec.Episodes != 62 {
		t.Fatalf("record = %+v", rec)
	}
	if len(rec.CreatedBy) != 1 || rec.CreatedBy[0] != "Vince Gilligan" {
		t.Fatalf("created by = %v", rec.CreatedBy)
	}
	if got := media.YearRange(*rec); got != "2008–2013" {
		t.Fatalf("year range = %q", got)
	}
}

func TestLookupMedia_NotFound(t *testing.T) {
	c := newTestClient(t)
	_, err := c.LookupMedia(context.Background(), 1, media.KindMovie)
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
}

func TestLookupSeason(t *testing.T) {
	c := newTestClient(t)
	s, err := c.LookupSeason(context.Background(), 1396, 2)
	if err != nil {
		t.Fatalf("LookupSeason: %v", err)
	}
	if s.Number != 2 || s.Episodes != 3 || len(s.EpisodeRunTime) != 2 || s.Crew[0].Name != "Adam Bernstein" {
		t.Fatalf("season = %+v", s)
	}
}

func TestSearchMedia(t *testing.T) {
	c := newTestClient(t)
	got, err := c.SearchMedia(context.Background(), "Heat", "")
	if err != nil {
		t.Fatalf("SearchMedia: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("results = %+v", got)
	}
	if got[0].ID != 200 || got[1].Kind != media.KindTV || got[1].Title != "Heat Show" || got[1].Year != "2001" {
		t.Fatalf("order = %+v", got)
	}

	tv, err := c.SearchMedia(context.Background(), "Heat", media.KindTV)
	if err != nil || len(tv) != 1 || tv[0].Kind != media.KindTV {
		t.Fatalf("kind filter = %+v, %v", tv, err)
	}

	empty, err := c.SearchMedia(context.Background(), "  ", "")
	if err != nil || len(empty) != 0 {
		t.Fatalf("blank query = %+v, %v", empty, err)
	}
}

func TestFindMovie(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	id, err := c.FindMovie(ctx, "Heat", "1995", "michael mann")
	if err != nil || id != 200 {
		t.Fatalf("director match = %d, %v", id, err)
	}
	id, err = c.FindMovie(ctx, "Heat", "", "Nobody")
	if err != nil || id != 100 {
		t.Fatalf("fallback = %d, %v", id, err)
	}
	if _, err := c.FindMovie(ctx, "Nothing", "1999", ""); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
}

func TestStatusError(t *testing.T) {
	c := newTestClient(t)
	c.apiKey = "wrong"
	_, err := c.LookupMedia(context.Background(), 949, media.KindMovie)
	var se *StatusError
	if !errors.As(err, &se) || se.Status != http.StatusUnauthorized || se.Msg != "Invalid API key" {
		t.Fatalf("expected 401 StatusError, got %v", err)
	}

	c.apiKey = ""
	if _, err := c.SearchMedia(context.Background(), "x", ""); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}
