package score

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

// ReconcilerOptions configures the caller-imposed timeout and retry policy
// for the score-store round trip.
type ReconcilerOptions struct {
	Timeout    time.Duration // default: 5s
	RetryMax   uint64        // default: 3
	RetryDelay time.Duration // default: 200ms
}

// Reconciler merges a finished session's score into the store with a
// read-modify-write upsert. Version conflicts and transient store failures
// are retried with exponential backoff; the session controller is
// responsible for invoking it at most once per terminal session.
type Reconciler struct {
	store  Store
	board  *Leaderboard
	opts   ReconcilerOptions
	logger zerolog.Logger
}

// NewReconciler creates a reconciler. board may be nil.
func NewReconciler(store Store, board *Leaderboard, opts ReconcilerOptions, logger zerolog.Logger) *Reconciler {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.RetryMax == 0 {
		opts.RetryMax = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 200 * time.Millisecond
	}
	return &Reconciler{
		store:  store,
		board:  board,
		opts:   opts,
		logger: logger.With().Str("component", "reconciler").Logger(),
	}
}

// Reconcile folds sessionScore into the participant's record. First play
// creates {total: S, high: S, games: 1}; later plays add to the total, keep
// the max high score, and bump games played by exactly one.
func (r *Reconciler) Reconcile(ctx context.Context, participantID uuid.UUID, sessionScore int) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	var result Record
	backoff := retry.WithMaxRetries(r.opts.RetryMax, retry.NewExponential(r.opts.RetryDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		rec, err := r.upsert(ctx, participantID, sessionScore)
		if err != nil {
			if errors.Is(err, ErrVersionConflict) {
				r.logger.Debug().
					Str("participant_id", participantID.String()).
					Msg("score version conflict, retrying")
				return retry.RetryableError(err)
			}
			return retry.RetryableError(err)
		}
		result = rec
		return nil
	})
	if err != nil {
		return Record{}, fmt.Errorf("reconcile score: %w", err)
	}

	if r.board != nil {
		if err := r.board.RecordHighScore(ctx, result); err != nil {
			// Leaderboard is best-effort; the record write already succeeded.
			r.logger.Warn().Err(err).Msg("failed to update leaderboard")
		}
	}

	r.logger.Info().
		Str("participant_id", participantID.String()).
		Int("session_score", sessionScore).
		Int("total_score", result.TotalScore).
		Int("high_score", result.HighScore).
		Int("games_played", result.GamesPlayed).
		Msg("score reconciled")

	return result, nil
}

func (r *Reconciler) upsert(ctx context.Context, participantID uuid.UUID, sessionScore int) (Record, error) {
	existing, err := r.store.Get(ctx, participantID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return r.store.Insert(ctx, Record{
				ParticipantID: participantID,
				TotalScore:    sessionScore,
				HighScore:     sessionScore,
				GamesPlayed:   1,
			})
		}
		return Record{}, err
	}

	merged := existing
	merged.TotalScore = existing.TotalScore + sessionScore
	merged.HighScore = max(existing.HighScore, sessionScore)
	merged.GamesPlayed = existing.GamesPlayed + 1
	return r.store.Update(ctx, merged)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
