// Package letterboxd reads the film and review details off a Letterboxd
// review page.
package letterboxd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"

	"github.com/youruser/posterboxd/internal/util"
)

// Page is what a review page says about the film and the viewing.
type Page struct {
	Title       string
	Year        string
	Director    string
	Username    string
	Tags        []string
	Rating      float64
	Liked       bool
	WatchedDate string
	URL         string
}

// Error is a scrape failure at a given stage ("fetch" or "parse").
type Error struct {
	URL   string
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("letterboxd %s %s: %v", e.Stage, e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

var (
	ErrInvalidURL = errors.New("not a letterboxd url")
	ErrNoTitle    = errors.New("no film title on page")
)

var ratedRe = regexp.MustCompile(`rated-large-(\d+)`)

type Scraper struct {
	client *http.Client
	log    *log.Logger
}

func NewScraper(client *http.Client, logger *log.Logger) *Scraper {
	if client == nil {
		client = util.NewClient(0)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Scraper{client: client, log: logger.WithPrefix("letterboxd")}
}

// ValidateURL accepts http(s) URLs on letterboxd.com and boxd.it.
func ValidateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidURL
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host != "letterboxd.com" && host != "boxd.it" {
		return ErrInvalidURL
	}
	return nil
}

// Scrape fetches and parses a review page.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) (*Page, error) {
	if err := ValidateURL(pageURL); err != nil {
		return nil, &Error{URL: pageURL, Stage: "fetch", Err: err}
	}
	b, err := util.GetBytes(ctx, s.client, pageURL)
	if err != nil {
		return nil, &Error{URL: pageURL, Stage: "fetch", Err: err}
	}
	p, err := Parse(b)
	if err != nil {
		return nil, &Error{URL: pageURL, Stage: "parse", Err: err}
	}
	p.URL = pageURL
	s.log.Info("scraped", "title", p.Title, "year", p.Year, "director", p.Director,
		"user", p.Username, "rating", p.Rating, "liked", p.Liked, "watched", p.WatchedDate)
	return p, nil
}

// Parse extracts a Page from review HTML. It understands both the current
// masthead markup and the older film-title-wrapper layout.
func Parse(html []byte) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	p := &Page{
		Title: text(doc.Find(".inline-production-masthead .name a")),
		Year:  text(doc.Find(".inline-production-masthead .releasedate a")),
	}
	if p.Title == "" {
		p.Title = text(doc.Find(".film-title-wrapper a"))
		p.Year = text(doc.Find(".film-title-wrapper .metadata a"))
	}
	if p.Title == "" {
		return nil, ErrNoTitle
	}

	p.Director = text(doc.Find(`a[href*="/director/"]`))
	p.Username = text(doc.Find(".person-summary .name span"))
	doc.Find("ul.tags li a").Each(func(_ int, a *goquery.Selection) {
		if t := strings.TrimSpace(a.Text()); t != "" {
			p.Tags = append(p.Tags, t)
		}
	})

	if cls, ok := doc.Find(".rating-large").First().Attr("class"); ok {
		if m := ratedRe.FindStringSubmatch(cls); m != nil {
			n, _ := strconv.Atoi(m[1])
			p.Rating = float64(n) / 2
		}
	}
	p.Liked = doc.Find(".icon-liked").Length() > 0

	links := doc.Find(".view-date.date-links").First().Find("a")
	if links.Length() >= 3 {
		p.WatchedDate = strings.Join([]string{
			text(links.Eq(0)), text(links.Eq(1)), text(links.Eq(2)),
		}, " ")
	}
	return p, nil
}

func text(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.First().Text()), " ")
}
