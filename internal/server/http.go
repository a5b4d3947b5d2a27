package server

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/Surya-blippi/reelquiznew/internal/auth"
	"github.com/Surya-blippi/reelquiznew/internal/config"
	"github.com/Surya-blippi/reelquiznew/internal/logging"
)

// Handlers groups the route handlers the server exposes.
type Handlers struct {
	PlayWS      http.HandlerFunc
	ScoresMe    http.HandlerFunc
	Leaderboard http.HandlerFunc
}

// NewHTTPServer wires base routes (health, metrics, ping) plus the game
// and score surfaces.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, pool *pgxpool.Pool, redisClient *redis.Client, tokens *auth.Manager, handlers Handlers) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.IntoContext(r.Context(), logger)
		if err := pingDependencies(ctx, pool, redisClient); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	authenticate := auth.Middleware(tokens)

	if handlers.PlayWS != nil {
		// The WS handler verifies the token itself; upgrade requests carry
		// it as a query parameter.
		mux.HandleFunc("/ws/play", handlers.PlayWS)
	}
	if handlers.ScoresMe != nil {
		mux.Handle("/v1/scores/me", authenticate(handlers.ScoresMe))
	}
	if handlers.Leaderboard != nil {
		mux.HandleFunc("/v1/leaderboard", handlers.Leaderboard)
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	})

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: corsHandler.Handler(mux),
	}
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, redisClient *redis.Client) error {
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return err
	}
	return nil
}
