package api

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	imagepkg "github.com/youruser/posterboxd/internal/image"
	"github.com/youruser/posterboxd/internal/letterboxd"
	"github.com/youruser/posterboxd/internal/media"
	"github.com/youruser/posterboxd/internal/render"
	"github.com/youruser/posterboxd/internal/source"
	"github.com/youruser/posterboxd/internal/style"
	"github.com/youruser/posterboxd/internal/tmdb"
)

type Searcher interface {
	SearchMedia(ctx context.Context, query string, kind media.Kind) ([]media.Summary, error)
}

type Resolver interface {
	FromLetterboxd(ctx context.Context, url string) (*media.Aggregate, error)
	FromTMDB(ctx context.Context, c source.Custom) (*media.Aggregate, error)
}

type Generator interface {
	Generate(ctx context.Context, agg *media.Aggregate, cfg style.Config, sel media.Selection) (string, *render.Result, error)
	Regenerate(ctx context.Context, token string, cfg style.Config, sel media.Selection) (*render.Result, error)
}

type Handler struct {
	search  Searcher
	resolve Resolver
	posters Generator
	log     *log.Logger
}

func NewHandler(search Searcher, resolve Resolver, posters Generator, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{search: search, resolve: resolve, posters: posters, log: logger.WithPrefix("api")}
}

func ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type selectionFields struct {
	Poster     *int `json:"selected_poster_index"`
	Background *int `json:"selected_background_index"`
	Logo       *int `json:"selected_logo_index"`
}

func (f selectionFields) selection() media.Selection {
	sel := media.DefaultSelection()
	if f.Poster != nil {
		sel.Poster = *f.Poster
	}
	if f.Background != nil {
		sel.Background = *f.Background
	}
	if f.Logo != nil {
		sel.Logo = *f.Logo
	}
	return sel
}

func (h *Handler) searchHandler(c *gin.Context) {
	var req struct {
		Query string `json:"query"`
		Kind  string `json:"kind"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	var kind media.Kind
	if req.Kind != "" {
		k, ok := media.ParseKind(strings.ToLower(req.Kind))
		if !ok {
			badRequest(c, "unknown kind "+strconv.Quote(req.Kind))
			return
		}
		kind = k
	}
	results, err := h.search.SearchMedia(c.Request.Context(), req.Query, kind)
	if err != nil {
		h.fail(c, err)
		return
	}
	if results == nil {
		results = []media.Summary{}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(results), "results": results})
}

type generateRequest struct {
	Mode string `json:"mode"`

	LetterboxdURL string `json:"letterboxd_url"`

	MediaID     int      `json:"media_id"`
	MediaType   string   `json:"media_type"`
	Rating      float64  `json:"rating"`
	Liked       bool     `json:"liked"`
	Tags        []string `json:"tags"`
	Username    string   `json:"username"`
	WatchedDate string   `json:"watched_date"`
	Season      int      `json:"season"`

	Settings map[string]any `json:"settings"`
	selectionFields
}

func (h *Handler) generateHandler(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	cfg := style.Parse(req.Settings)

	var (
		agg *media.Aggregate
		err error
	)
	switch req.Mode {
	case "letterboxd", "":
		if req.LetterboxdURL == "" {
			badRequest(c, "letterboxd_url is required")
			return
		}
		agg, err = h.resolve.FromLetterboxd(ctx, req.LetterboxdURL)
	case "custom":
		kind, ok := media.ParseKind(strings.ToLower(req.MediaType))
		if !ok || req.MediaID <= 0 {
			badRequest(c, "media_id and media_type are required")
			return
		}
		if cfg.SelectedSeason == 0 {
			cfg.SelectedSeason = req.Season
		}
		agg, err = h.resolve.FromTMDB(ctx, source.Custom{
			ID:   req.MediaID,
			Kind: kind,
			Review: media.Review{
				Rating:      req.Rating,
				Liked:       req.Liked,
				Tags:        req.Tags,
				WatchedDate: req.WatchedDate,
				Username:    req.Username,
			},
			Season: cfg.SelectedSeason,
		})
	default:
		badRequest(c, "unknown mode "+strconv.Quote(req.Mode))
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	token, res, err := h.posters.Generate(ctx, agg, cfg, req.selection())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id":   token,
		"content_type": res.ContentType,
		"format":       res.Format,
		"image":        base64.StdEncoding.EncodeToString(res.Image),
		"candidates":   res.Candidates,
		"title":        agg.DisplayTitle(),
	})
}

func (h *Handler) regenerateHandler(c *gin.Context) {
	var req struct {
		SessionID string         `json:"session_id"`
		Settings  map[string]any `json:"settings"`
		selectionFields
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.SessionID == "" {
		badRequest(c, "session_id is required")
		return
	}
	res, err := h.posters.Regenerate(c.Request.Context(), req.SessionID, style.Parse(req.Settings), req.selection())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, res.ContentType, res.Image)
}

// qrHandler returns a PNG of a QR for the "text" query param.
func qrHandler(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		badRequest(c, "text is required")
		return
	}
	size := imagepkg.DefaultQRSize
	if v, err := strconv.Atoi(c.Query("size")); err == nil {
		size = v
	}
	b, err := imagepkg.QRPNG(text, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "code": "internal"})
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "code": "bad_request"})
}

// fail maps domain errors onto status codes.
func (h *Handler) fail(c *gin.Context, err error) {
	var (
		scrape *letterboxd.Error
		status = http.StatusInternalServerError
		code   = "internal"
		msg    = "poster generation failed"
	)
	switch {
	case errors.Is(err, letterboxd.ErrInvalidURL):
		status, code, msg = http.StatusBadRequest, "invalid_url", err.Error()
	case errors.Is(err, tmdb.ErrNoMatch), errors.As(err, &scrape):
		status, code, msg = http.StatusNotFound, "no_match", "no match found"
	case errors.Is(err, render.ErrSessionExpired):
		status, code, msg = http.StatusGone, "session_expired", "session expired, generate the poster again"
	case errors.Is(err, tmdb.ErrNoAPIKey):
		status, code, msg = http.StatusServiceUnavailable, "tmdb_unavailable", err.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status, code, msg = http.StatusGatewayTimeout, "timeout", "request timed out"
	}
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "path", c.FullPath(), "err", err)
	} else {
		h.log.Info("request rejected", "path", c.FullPath(), "status", status, "err", err)
	}
	c.JSON(status, gin.H{"error": msg, "code": code})
}
