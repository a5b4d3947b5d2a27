package score

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Surya-blippi/reelquiznew/internal/auth"
	httperrors "github.com/Surya-blippi/reelquiznew/pkg/http/errors"
)

type recordGetter interface {
	Get(ctx context.Context, participantID uuid.UUID) (Record, error)
}

// HTTPHandler serves score and leaderboard reads.
type HTTPHandler struct {
	store  recordGetter
	board  *Leaderboard
	logger zerolog.Logger
}

// NewHTTPHandler creates score HTTP handlers.
func NewHTTPHandler(store recordGetter, board *Leaderboard, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{store: store, board: board, logger: logger}
}

// HandleMe returns the authenticated participant's score record. A
// participant who has never finished a game gets a zero record rather than
// a 404, matching what the dashboard renders for new players.
func (h *HTTPHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeUnauthorized, "Missing participant identity")
		return
	}

	rec, err := h.store.Get(r.Context(), claims.ParticipantID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			rec = Record{ParticipantID: claims.ParticipantID}
		} else {
			h.logger.Error().Err(err).Msg("failed to fetch score record")
			httperrors.RespondInternalError(w, "Failed to fetch score")
			return
		}
	}

	writeJSON(w, rec)
}

// HandleLeaderboard returns the top high scores.
func (h *HTTPHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "limit must be an integer")
			return
		}
		limit = parsed
	}

	entries, err := h.board.Top(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to fetch leaderboard")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeLeaderboardFetchFailed, "Failed to fetch leaderboard")
		return
	}

	writeJSON(w, map[string]interface{}{"top": entries})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
