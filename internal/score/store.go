package score

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Record is a participant's cumulative score row. At most one record exists
// per participant. Version is an optimistic concurrency token: updates only
// apply when the stored version matches, so concurrent reconciliations fail
// cleanly instead of silently losing an update.
type Record struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	TotalScore    int       `json:"total_score"`
	HighScore     int       `json:"high_score"`
	GamesPlayed   int       `json:"games_played"`
	UpdatedAt     time.Time `json:"updated_at"`
	Version       int64     `json:"-"`
}

var (
	// ErrNotFound signals a participant with no record yet.
	ErrNotFound = errors.New("score record not found")
	// ErrVersionConflict signals a concurrent writer won the race; the
	// reconciler re-reads and retries.
	ErrVersionConflict = errors.New("score record version conflict")
)

// Store is the external score persistence boundary.
type Store interface {
	Get(ctx context.Context, participantID uuid.UUID) (Record, error)
	Insert(ctx context.Context, record Record) (Record, error)
	Update(ctx context.Context, record Record) (Record, error)
}
