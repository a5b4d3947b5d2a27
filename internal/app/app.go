package app

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Surya-blippi/reelquiznew/internal/auth"
	"github.com/Surya-blippi/reelquiznew/internal/catalog"
	"github.com/Surya-blippi/reelquiznew/internal/config"
	"github.com/Surya-blippi/reelquiznew/internal/game"
	"github.com/Surya-blippi/reelquiznew/internal/logging"
	"github.com/Surya-blippi/reelquiznew/internal/score"
	"github.com/Surya-blippi/reelquiznew/internal/server"
	"github.com/Surya-blippi/reelquiznew/pkg/http/ws"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	sessions *game.Manager
}

// New bootstraps config, logger, Postgres, Redis and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	connString := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=10",
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.SSLMode)

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	tokens := auth.NewManager(auth.TokenConfig{
		Secret: []byte(cfg.Security.JWTSecret),
		Issuer: cfg.Name,
	})

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	catalogRepo := catalog.NewRepository(pool)
	catalogCache := catalog.NewCache(redisClient, cfg.Game.CatalogCacheTTL)
	catalogSvc := catalog.NewService(catalogRepo, catalogCache, rng, logger)

	scoreStore := score.NewPostgresStore(pool)
	board := score.NewLeaderboard(redisClient, cfg.Leaderboard.TopN, logger)
	reconciler := score.NewReconciler(scoreStore, board, score.ReconcilerOptions{
		Timeout:    cfg.Store.Timeout,
		RetryMax:   cfg.Store.RetryMax,
		RetryDelay: cfg.Store.RetryDelay,
	}, logger)

	rules := game.Rules{
		MaxTimeSeconds:   cfg.Game.MaxTimeSeconds,
		TimeBonusSeconds: cfg.Game.TimeBonusSeconds,
		PointsPerCorrect: cfg.Game.PointsPerCorrect,
		AnswerDwell:      cfg.Game.AnswerDwell,
		TransitionPause:  cfg.Game.TransitionPause,
		TickInterval:     cfg.Game.TickInterval,
	}
	sessions := game.NewManager(rules, clockwork.NewRealClock(), catalogSvc, reconciler, logger)

	wsHub := ws.NewHub(logger)
	playHandler := game.NewHandler(sessions, wsHub, tokens, logger)
	scoreHandler := score.NewHTTPHandler(scoreStore, board, logger)

	apiServer := server.NewHTTPServer(cfg, logger, pool, redisClient, tokens, server.Handlers{
		PlayWS:      playHandler.HandleWebSocket,
		ScoresMe:    scoreHandler.HandleMe,
		Leaderboard: scoreHandler.HandleLeaderboard,
	})

	return &Application{
		cfg:      cfg,
		logger:   logger,
		pool:     pool,
		redis:    redisClient,
		http:     apiServer,
		sessions: sessions,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.sessions.Shutdown()

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}
