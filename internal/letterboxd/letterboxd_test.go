package letterboxd

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

const currentPage = `<html><body>
<div class="inline-production-masthead">
  <h2 class="name"><a href="/film/heat-1995/">Heat</a></h2>
  <span class="releasedate"><a href="/films/year/1995/">1995</a></span>
</div>
<p>Directed by <a href="/director/michael-mann/"> Michael  Mann </a></p>
<div class="person-summary"><h3 class="name"><a href="/jdoe/"><span>jdoe</span></a></h3></div>
<span class="rating rating-large rated-large-9">★★★★½</span>
<span class="icon-liked"></span>
<p class="view-date date-links">Watched
  <a href="/jdoe/films/diary/for/2024/03/14/">14</a>
  <a href="/jdoe/films/diary/for/2024/03/">Mar</a>
  <a href="/jdoe/films/diary/for/2024/">2024</a>
</p>
<ul class="tags"><li><a href="/tag/rewatch/">rewatch</a></li><li><a href="/tag/la/">la</a></li></ul>
</body></html>`

const legacyPage = `<html><body>
<div class="film-title-wrapper">
  <a href="/film/thief/">Thief</a>
  <small class="metadata"><a href="/films/year/1981/">1981</a></small>
</div>
<span class="rating-large rated-large-6"></span>
</body></html>`

func TestParse_Current(t *testing.T) {
	p, err := Parse([]byte(currentPage))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Title != "Heat" || p.Year != "1995" || p.Director != "Michael Mann" {
		t.Fatalf("film = %+v", p)
	}
	if p.Username != "jdoe" || p.Rating != 4.5 || !p.Liked {
		t.Fatalf("review = %+v", p)
	}
	if p.WatchedDate != "14 Mar 2024" {
		t.Fatalf("watched = %q", p.WatchedDate)
	}
	if strings.Join(p.Tags, ",") != "rewatch,la" {
		t.Fatalf("tags = %v", p.Tags)
	}
}

func TestParse_Legacy(t *testing.T) {
	p, err := Parse([]byte(legacyPage))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Title != "Thief" || p.Year != "1981" || p.Rating != 3 {
		t.Fatalf("page = %+v", p)
	}
	if p.Liked || p.WatchedDate != "" || len(p.Tags) != 0 || p.Username != "" {
		t.Fatalf("absent fields should stay empty: %+v", p)
	}
}

func TestParse_NoTitle(t *testing.T) {
	if _, err := Parse([]byte("<html><body><p>nothing</p></body></html>")); !errors.Is(err, ErrNoTitle) {
		t.Fatalf("expected ErrNoTitle, got %v", err)
	}
}

func TestValidateURL(t *testing.T) {
	for _, ok := range []string{
		"https://letterboxd.com/jdoe/film/heat-1995/",
		"https://www.letterboxd.com/jdoe/film/heat-1995/1/",
		"https://boxd.it/abc",
	} {
		if err := ValidateURL(ok); err != nil {
			t.Errorf("%s: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "ftp://letterboxd.com/x", "https://example.com/film/x", "not a url"} {
		if err := ValidateURL(bad); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("%q should be rejected", bad)
		}
	}
}

// rewrite sends every request to the test server regardless of host.
type rewrite struct{ target string }

func (r rewrite) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL.Scheme = "http"
	out.URL.Host = strings.TrimPrefix(r.target, "http://")
	return http.DefaultTransport.RoundTrip(out)
}

func TestScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "gone") {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, currentPage)
	}))
	defer srv.Close()

	s := NewScraper(&http.Client{Transport: rewrite{srv.URL}}, log.New(io.Discard))
	url := "https://letterboxd.com/jdoe/film/heat-1995/"
	p, err := s.Scrape(context.Background(), url)
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if p.Title != "Heat" || p.URL != url {
		t.Fatalf("page = %+v", p)
	}

	_, err = s.Scrape(context.Background(), "https://letterboxd.com/jdoe/film/gone/")
	var le *Error
	if !errors.As(err, &le) || le.Stage != "fetch" {
		t.Fatalf("expected fetch Error, got %v", err)
	}
}
