// Package tmdb is a small client for the parts of the TMDB v3 API the poster
// generator needs: details, credits, images, seasons and search.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/youruser/posterboxd/internal/util"
)

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"
	DefaultRPS          = 40
)

var (
	// ErrNoMatch means a lookup produced no usable title.
	ErrNoMatch = errors.New("no match found")

	ErrNoAPIKey = errors.New("tmdb api key not configured")
)

// StatusError is a non-2xx TMDB response.
type StatusError struct {
	Path   string
	Status int
	Msg    string
}

func (e *StatusError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("tmdb %s: status %d: %s", e.Path, e.Status, e.Msg)
	}
	return fmt.Sprintf("tmdb %s: status %d", e.Path, e.Status)
}

// NotFound reports a 404, which TMDB returns for unknown ids.
func (e *StatusError) NotFound() bool { return e.Status == http.StatusNotFound }

type Options struct {
	BaseURL      string
	ImageBaseURL string
	// RPS caps outgoing requests per second; <= 0 uses DefaultRPS.
	RPS    float64
	HTTP   *http.Client
	Logger *log.Logger
}

type Client struct {
	apiKey   string
	baseURL  string
	imageURL string
	http     *http.Client
	limiter  *rate.Limiter
	log      *log.Logger
}

func New(apiKey string, o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.ImageBaseURL == "" {
		o.ImageBaseURL = DefaultImageBaseURL
	}
	if o.RPS <= 0 {
		o.RPS = DefaultRPS
	}
	if o.HTTP == nil {
		o.HTTP = util.NewClient(0)
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return &Client{
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(o.BaseURL, "/"),
		imageURL: strings.TrimRight(o.ImageBaseURL, "/"),
		http:     o.HTTP,
		limiter:  rate.NewLimiter(rate.Limit(o.RPS), max(1, int(o.RPS))),
		log:      o.Logger.WithPrefix("tmdb"),
	}
}

// ImageBaseURL is the prefix for sized image URLs.
func (c *Client) ImageBaseURL() string { return c.imageURL }

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	if c.apiKey == "" {
		return ErrNoAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if q == nil {
		q = url.Values{}
	}
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body struct {
			Message string `json:"status_message"`
		}
		json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)
		return &StatusError{Path: path, Status: resp.StatusCode, Msg: body.Message}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("tmdb %s: decode: %w", path, err)
	}
	c.log.Debug("request", "path", path)
	return nil
}
