package catalog

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type stubSource struct {
	rows []VideoQuestionRow
	err  error
}

func (s *stubSource) ListVideoQuestions(_ context.Context) ([]VideoQuestionRow, error) {
	return s.rows, s.err
}

type memoryCache struct {
	records []QuestionRecord
}

func (c *memoryCache) Get(_ context.Context) ([]QuestionRecord, error) {
	return c.records, nil
}

func (c *memoryCache) Set(_ context.Context, records []QuestionRecord) error {
	c.records = records
	return nil
}

func validRow(videoID, questionID string) VideoQuestionRow {
	return VideoQuestionRow{
		VideoID:      videoID,
		VideoURL:     "https://cdn.example.com/" + videoID + ".mp4",
		Title:        "title " + videoID,
		QuestionID:   questionID,
		Prompt:       "prompt " + questionID,
		Options:      []string{"a", "b", "c", "d"},
		CorrectIndex: 1,
	}
}

func newTestService(source RowSource, cache RecordCache) *Service {
	return NewService(source, cache, rand.New(rand.NewSource(1)), zerolog.Nop())
}

func TestFetchCatalogOneQuestionPerVideo(t *testing.T) {
	source := &stubSource{rows: []VideoQuestionRow{
		validRow("v1", "q1"),
		validRow("v1", "q2"),
		validRow("v2", "q3"),
	}}
	service := newTestService(source, nil)

	records, err := service.FetchCatalog(context.Background())
	assert.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "v1", records[0].ID)
	assert.Equal(t, "v2", records[1].ID)
	assert.Contains(t, []string{"prompt q1", "prompt q2"}, records[0].Prompt)
	assert.Equal(t, "prompt q3", records[1].Prompt)
}

func TestFetchCatalogDropsUnplayableQuestions(t *testing.T) {
	noPrompt := validRow("v1", "q1")
	noPrompt.Prompt = ""
	oneOption := validRow("v2", "q2")
	oneOption.Options = []string{"only"}
	badIndex := validRow("v3", "q3")
	badIndex.CorrectIndex = 9

	source := &stubSource{rows: []VideoQuestionRow{
		noPrompt, oneOption, badIndex, validRow("v4", "q4"),
	}}
	service := newTestService(source, nil)

	records, err := service.FetchCatalog(context.Background())
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "v4", records[0].ID)
}

func TestFetchCatalogAllUnplayable(t *testing.T) {
	row := validRow("v1", "q1")
	row.Prompt = ""
	service := newTestService(&stubSource{rows: []VideoQuestionRow{row}}, nil)

	_, err := service.FetchCatalog(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestFetchCatalogEmptySource(t *testing.T) {
	service := newTestService(&stubSource{}, nil)

	_, err := service.FetchCatalog(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestFetchCatalogSourceError(t *testing.T) {
	service := newTestService(&stubSource{err: errors.New("db down")}, nil)

	_, err := service.FetchCatalog(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyCatalog)
}

func TestFetchCatalogServesFromCache(t *testing.T) {
	cache := &memoryCache{records: []QuestionRecord{{
		ID:           "cached",
		Prompt:       "cached prompt",
		Options:      []string{"a", "b"},
		CorrectIndex: 0,
	}}}
	// Source failure proves the DB is never touched on a warm cache.
	service := newTestService(&stubSource{err: errors.New("db down")}, cache)

	records, err := service.FetchCatalog(context.Background())
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "cached", records[0].ID)
}

func TestFetchCatalogPopulatesCache(t *testing.T) {
	cache := &memoryCache{}
	service := newTestService(&stubSource{rows: []VideoQuestionRow{validRow("v1", "q1")}}, cache)

	records, err := service.FetchCatalog(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, records, cache.records)
}
