package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/youruser/posterboxd/internal/api"
	"github.com/youruser/posterboxd/internal/config"
	imagepkg "github.com/youruser/posterboxd/internal/image"
	"github.com/youruser/posterboxd/internal/letterboxd"
	"github.com/youruser/posterboxd/internal/render"
	"github.com/youruser/posterboxd/internal/session"
	"github.com/youruser/posterboxd/internal/source"
	"github.com/youruser/posterboxd/internal/tmdb"
	"github.com/youruser/posterboxd/internal/util"
)

func main() {
	cfg := config.Load()
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("bad configuration", "err", err)
	}
	if cfg.TMDBAPIKey == "" {
		logger.Warn("TMDB_API_KEY is not set, lookups will fail")
	}
	for _, name := range []string{render.LetterboxdLogo, render.BrandLogo} {
		if !util.FileExists(filepath.Join(cfg.AssetsDir, name)) {
			logger.Warn("footer logo missing", "dir", cfg.AssetsDir, "file", name)
		}
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	client := util.NewClient(cfg.FetchTimeout)
	tm := tmdb.New(cfg.TMDBAPIKey, tmdb.Options{
		BaseURL:      cfg.TMDBBaseURL,
		ImageBaseURL: cfg.TMDBImageBaseURL,
		RPS:          cfg.TMDBRPS,
		HTTP:         client,
		Logger:       logger,
	})

	store, closeStore := newStore(ctx, cfg, logger)
	defer closeStore()

	renderer, err := render.New(render.Options{
		Fetcher:      imagepkg.NewHTTPFetcher(client),
		ImageBaseURL: tm.ImageBaseURL(),
		AssetsDir:    cfg.AssetsDir,
		Logger:       logger,
	})
	if err != nil {
		logger.Fatal("renderer", "err", err)
	}
	svc := render.NewService(renderer, store, tm, logger)
	resolver := source.NewResolver(tm, letterboxd.NewScraper(client, logger), logger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(api.Recover(logger), api.RequestLogger(logger.WithPrefix("http")))
	var limit gin.HandlerFunc
	if cfg.RateLimitEnabled {
		limit = api.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	api.RegisterRoutes(r, api.NewHandler(tm, resolver, svc, logger), limit)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	logger.Info("starting server", "addr", srv.Addr, "sessions", cfg.SessionBackend)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "err", err)
			done <- nil
		}
	}()

	<-done
	logger.Info("shutting down")
	stop()

	shutdown, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		logger.Error("shutdown", "err", err)
	}
}

// newStore builds the configured session backend. The returned func releases
// its connections.
func newStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (session.Store, func()) {
	if cfg.SessionBackend != config.BackendRedis {
		return session.NewMemoryStore(cfg.SessionCapacity), func() {}
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Fatal("redis unreachable", "addr", cfg.RedisAddr, "err", err)
	}
	logger.Info("using redis sessions", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL)
	return session.NewRedisStore(rdb, cfg.SessionCapacity, cfg.SessionTTL), func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("redis close", "err", err)
		}
	}
}
