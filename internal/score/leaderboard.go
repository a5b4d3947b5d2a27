package score

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Entry is one leaderboard row sent to clients.
type Entry struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	HighScore     int       `json:"high_score"`
	GamesPlayed   int       `json:"games_played"`
}

// Leaderboard keeps a redis sorted set of per-participant high scores.
// It is a derived view of the Postgres scores table, updated best-effort
// after each reconciliation.
type Leaderboard struct {
	redis  *redis.Client
	topN   int
	prefix string
	logger zerolog.Logger
}

// NewLeaderboard constructs a high-score board.
func NewLeaderboard(client *redis.Client, topN int, logger zerolog.Logger) *Leaderboard {
	if topN <= 0 {
		topN = 50
	}
	return &Leaderboard{
		redis:  client,
		topN:   topN,
		prefix: "highscores",
		logger: logger.With().Str("component", "leaderboard").Logger(),
	}
}

// RecordHighScore updates the board from a reconciled record. ZADD GT keeps
// the stored score monotone even if updates arrive out of order.
func (l *Leaderboard) RecordHighScore(ctx context.Context, rec Record) error {
	member := rec.ParticipantID.String()

	pipe := l.redis.TxPipeline()
	pipe.ZAddGT(ctx, l.boardKey(), redis.Z{
		Score:  float64(rec.HighScore),
		Member: member,
	})
	pipe.HSet(ctx, l.metaKey(rec.ParticipantID), map[string]interface{}{
		"games_played": rec.GamesPlayed,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("update high score board: %w", err)
	}
	return nil
}

// Top retrieves the top N entries.
func (l *Leaderboard) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > l.topN {
		limit = l.topN
	}

	results, err := l.redis.ZRevRangeWithScores(ctx, l.boardKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch high score board: %w", err)
	}

	entries := make([]Entry, 0, len(results))
	for _, z := range results {
		id, err := uuid.Parse(z.Member.(string))
		if err != nil {
			l.logger.Warn().Str("member", z.Member.(string)).Msg("skip malformed board member")
			continue
		}
		entry := Entry{ParticipantID: id, HighScore: int(z.Score)}
		if meta, err := l.redis.HGetAll(ctx, l.metaKey(id)).Result(); err == nil {
			entry.GamesPlayed = parseInt(meta["games_played"])
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (l *Leaderboard) boardKey() string {
	return l.prefix + ":all_time"
}

func (l *Leaderboard) metaKey(participantID uuid.UUID) string {
	return fmt.Sprintf("%s:meta:%s", l.prefix, participantID.String())
}

func parseInt(val string) int {
	if val == "" {
		return 0
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return i
}
