package score

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/Surya-blippi/reelquiznew/internal/auth"
)

type stubGetter struct {
	record Record
	err    error
}

func (s *stubGetter) Get(_ context.Context, _ uuid.UUID) (Record, error) {
	return s.record, s.err
}

func meRequest(participantID uuid.UUID) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/v1/scores/me", nil)
	if participantID != uuid.Nil {
		claims := &auth.Claims{ParticipantID: participantID}
		req = req.WithContext(auth.WithClaims(req.Context(), claims))
	}
	return req
}

func TestHandleMeReturnsRecord(t *testing.T) {
	participantID := uuid.New()
	handler := NewHTTPHandler(&stubGetter{record: Record{
		ParticipantID: participantID,
		TotalScore:    500,
		HighScore:     200,
		GamesPlayed:   3,
	}}, nil, zerolog.Nop())

	rec := httptest.NewRecorder()
	handler.HandleMe(rec, meRequest(participantID))

	assert.Equal(t, http.StatusOK, rec.Code)

	var got Record
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 500, got.TotalScore)
	assert.Equal(t, 200, got.HighScore)
	assert.Equal(t, 3, got.GamesPlayed)
}

func TestHandleMeNewPlayerGetsZeroRecord(t *testing.T) {
	participantID := uuid.New()
	handler := NewHTTPHandler(&stubGetter{err: ErrNotFound}, nil, zerolog.Nop())

	rec := httptest.NewRecorder()
	handler.HandleMe(rec, meRequest(participantID))

	assert.Equal(t, http.StatusOK, rec.Code)

	var got Record
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, participantID, got.ParticipantID)
	assert.Equal(t, 0, got.TotalScore)
	assert.Equal(t, 0, got.GamesPlayed)
}

func TestHandleMeStoreFailure(t *testing.T) {
	handler := NewHTTPHandler(&stubGetter{err: errors.New("db down")}, nil, zerolog.Nop())

	rec := httptest.NewRecorder()
	handler.HandleMe(rec, meRequest(uuid.New()))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleMeMissingClaims(t *testing.T) {
	handler := NewHTTPHandler(&stubGetter{}, nil, zerolog.Nop())

	rec := httptest.NewRecorder()
	handler.HandleMe(rec, meRequest(uuid.Nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
