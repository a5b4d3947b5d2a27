package score

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists score records in the scores table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore wraps a pgx pool for score persistence.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Get fetches a participant's record.
func (s *PostgresStore) Get(ctx context.Context, participantID uuid.UUID) (Record, error) {
	const query = `
		SELECT participant_id, total_score, high_score, games_played, updated_at, version
		FROM scores
		WHERE participant_id = $1`

	var rec Record
	err := s.pool.QueryRow(ctx, query, participantID).Scan(
		&rec.ParticipantID, &rec.TotalScore, &rec.HighScore,
		&rec.GamesPlayed, &rec.UpdatedAt, &rec.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("get score: %w", err)
	}
	return rec, nil
}

// Insert creates the first record for a participant. A concurrent insert for
// the same participant surfaces as ErrVersionConflict.
func (s *PostgresStore) Insert(ctx context.Context, record Record) (Record, error) {
	const query = `
		INSERT INTO scores (participant_id, total_score, high_score, games_played, updated_at, version)
		VALUES ($1, $2, $3, $4, now(), 1)
		ON CONFLICT (participant_id) DO NOTHING
		RETURNING participant_id, total_score, high_score, games_played, updated_at, version`

	var rec Record
	err := s.pool.QueryRow(ctx, query,
		record.ParticipantID, record.TotalScore, record.HighScore, record.GamesPlayed,
	).Scan(
		&rec.ParticipantID, &rec.TotalScore, &rec.HighScore,
		&rec.GamesPlayed, &rec.UpdatedAt, &rec.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrVersionConflict
		}
		return Record{}, fmt.Errorf("insert score: %w", err)
	}
	return rec, nil
}

// Update writes a record guarded by its version token.
func (s *PostgresStore) Update(ctx context.Context, record Record) (Record, error) {
	const query = `
		UPDATE scores
		SET total_score = $2, high_score = $3, games_played = $4, updated_at = now(), version = version + 1
		WHERE participant_id = $1 AND version = $5
		RETURNING participant_id, total_score, high_score, games_played, updated_at, version`

	var rec Record
	err := s.pool.QueryRow(ctx, query,
		record.ParticipantID, record.TotalScore, record.HighScore, record.GamesPlayed, record.Version,
	).Scan(
		&rec.ParticipantID, &rec.TotalScore, &rec.HighScore,
		&rec.GamesPlayed, &rec.UpdatedAt, &rec.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrVersionConflict
		}
		return Record{}, fmt.Errorf("update score: %w", err)
	}
	return rec, nil
}
