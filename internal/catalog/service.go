package catalog

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"
)

// RowSource lists (video, question) rows (implemented by the Postgres
// Repository).
type RowSource interface {
	ListVideoQuestions(ctx context.Context) ([]VideoQuestionRow, error)
}

// RecordCache caches the assembled catalog (implemented by the Redis Cache).
type RecordCache interface {
	Get(ctx context.Context) ([]QuestionRecord, error)
	Set(ctx context.Context, records []QuestionRecord) error
}

// Service assembles the playable catalog: one randomly chosen question per
// video, invalid questions dropped.
type Service struct {
	source RowSource
	cache  RecordCache
	rng    *rand.Rand
	logger zerolog.Logger
}

// NewService creates a catalog service. cache may be nil.
func NewService(source RowSource, cache RecordCache, rng *rand.Rand, logger zerolog.Logger) *Service {
	return &Service{
		source: source,
		cache:  cache,
		rng:    rng,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// FetchCatalog returns the canonical (unshuffled) record list. Each session
// shuffles its own copy, so the cached order carries no gameplay meaning.
// Returns ErrEmptyCatalog when no playable records remain after filtering.
func (s *Service) FetchCatalog(ctx context.Context) ([]QuestionRecord, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	rows, err := s.source.ListVideoQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	records := s.assemble(rows)
	if len(records) == 0 {
		return nil, ErrEmptyCatalog
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, records); err != nil {
			s.logger.Warn().Err(err).Msg("failed to cache catalog")
		}
	}

	return records, nil
}

// assemble groups rows by video, drops unplayable questions, and picks one
// question per video at random.
func (s *Service) assemble(rows []VideoQuestionRow) []QuestionRecord {
	byVideo := make(map[string][]QuestionRecord)
	var videoOrder []string

	for _, row := range rows {
		record := QuestionRecord{
			ID:           row.VideoID,
			VideoURL:     row.VideoURL,
			Title:        row.Title,
			Prompt:       row.Prompt,
			Options:      row.Options,
			CorrectIndex: row.CorrectIndex,
		}
		if !record.Valid() {
			s.logger.Debug().
				Str("video_id", row.VideoID).
				Str("question_id", row.QuestionID).
				Msg("skip unplayable question")
			continue
		}
		if _, seen := byVideo[row.VideoID]; !seen {
			videoOrder = append(videoOrder, row.VideoID)
		}
		byVideo[row.VideoID] = append(byVideo[row.VideoID], record)
	}

	records := make([]QuestionRecord, 0, len(videoOrder))
	for _, videoID := range videoOrder {
		candidates := byVideo[videoID]
		records = append(records, candidates[s.rng.Intn(len(candidates))])
	}
	return records
}
