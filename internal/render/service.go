package render

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/youruser/posterboxd/internal/media"
	"github.com/youruser/posterboxd/internal/session"
	"github.com/youruser/posterboxd/internal/style"
)

// ErrSessionExpired is returned by Regenerate when the token is unknown or
// has been evicted.
var ErrSessionExpired = errors.New("session expired")

// SeasonLookup loads a single season when a re-render asks for one that the
// stored aggregate does not carry.
type SeasonLookup interface {
	LookupSeason(ctx context.Context, seriesID, number int) (*media.Season, error)
}

type Service struct {
	renderer *Renderer
	store    session.Store
	seasons  SeasonLookup
	log      *log.Logger
}

// NewService wires a renderer to a session store. seasons may be nil, in
// which case re-renders never fetch new season data.
func NewService(r *Renderer, store session.Store, seasons SeasonLookup, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{renderer: r, store: store, seasons: seasons, log: logger.WithPrefix("service")}
}

// Generate renders agg and stores it under a fresh token.
func (s *Service) Generate(ctx context.Context, agg *media.Aggregate, cfg style.Config, sel media.Selection) (string, *Result, error) {
	res, err := s.renderer.Render(ctx, agg, cfg, sel)
	if err != nil {
		return "", nil, err
	}
	token := uuid.NewString()
	if err := s.store.Set(ctx, token, agg); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}
	s.log.Debug("session stored", "token", token)
	return token, res, nil
}

// Regenerate re-renders the aggregate stored under token with new options.
func (s *Service) Regenerate(ctx context.Context, token string, cfg style.Config, sel media.Selection) (*Result, error) {
	agg, err := s.store.Get(ctx, token)
	if errors.Is(err, session.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	agg = s.withSeason(ctx, token, agg, cfg.SelectedSeason)
	return s.renderer.Render(ctx, agg, cfg, sel)
}

// withSeason returns agg carrying the requested season, fetching it when
// needed. The stored aggregate is replaced by an updated copy, never mutated.
func (s *Service) withSeason(ctx context.Context, token string, agg *media.Aggregate, number int) *media.Aggregate {
	if number <= 0 || s.seasons == nil || !agg.Record.IsSeries() {
		return agg
	}
	if agg.Season != nil && agg.Season.Number == number {
		return agg
	}
	season, err := s.seasons.LookupSeason(ctx, agg.Record.ID, number)
	if err != nil {
		s.log.Warn("season lookup failed", "id", agg.Record.ID, "season", number, "err", err)
		return agg
	}
	next := *agg
	next.Season = season
	if err := s.store.Set(ctx, token, &next); err != nil {
		s.log.Warn("session update failed", "token", token, "err", err)
	}
	return &next
}
