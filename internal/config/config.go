package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"reelquiz"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres    Postgres
	Redis       Redis
	Security    Security
	Game        Game
	Store       Store
	Leaderboard Leaderboard
	CORS        CORS
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
}

// Redis holds cache + leaderboard configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Security stores secrets for token verification.
type Security struct {
	JWTSecret string `env:"JWT_SECRET,notEmpty"`
}

// Game groups the gameplay constants. Defaults mirror the shipped client:
// a shared 60-second clock, +5s on a correct answer, 100 points per answer.
type Game struct {
	MaxTimeSeconds   int           `env:"GAME_MAX_TIME_SECONDS" envDefault:"60"`
	TimeBonusSeconds int           `env:"GAME_TIME_BONUS_SECONDS" envDefault:"5"`
	PointsPerCorrect int           `env:"GAME_POINTS_PER_CORRECT" envDefault:"100"`
	AnswerDwell      time.Duration `env:"GAME_ANSWER_DWELL" envDefault:"1500ms"`
	TransitionPause  time.Duration `env:"GAME_TRANSITION_PAUSE" envDefault:"1s"`
	TickInterval     time.Duration `env:"GAME_TICK_INTERVAL" envDefault:"1s"`
	CatalogCacheTTL  time.Duration `env:"GAME_CATALOG_CACHE_TTL" envDefault:"5m"`
}

// Store governs the score-store round trip. Timeout and retry policy are
// caller-imposed configuration, not part of the reconciliation contract.
type Store struct {
	Timeout    time.Duration `env:"SCORE_STORE_TIMEOUT" envDefault:"5s"`
	RetryMax   uint64        `env:"SCORE_STORE_RETRY_MAX" envDefault:"3"`
	RetryDelay time.Duration `env:"SCORE_STORE_RETRY_DELAY" envDefault:"200ms"`
}

// Leaderboard governs the redis high-score board.
type Leaderboard struct {
	TopN int `env:"LEADERBOARD_TOP" envDefault:"50"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
