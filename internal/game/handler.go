package game

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Surya-blippi/reelquiznew/internal/auth"
	httperrors "github.com/Surya-blippi/reelquiznew/pkg/http/errors"
	"github.com/Surya-blippi/reelquiznew/pkg/http/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checks are enforced by the token, not the header.
		return true
	},
}

// Handler bridges the WebSocket protocol and the session loop: inbound
// messages become intents, session events become outbound messages.
type Handler struct {
	manager *Manager
	hub     *ws.Hub
	tokens  *auth.Manager
	logger  zerolog.Logger
}

// NewHandler creates the gameplay WebSocket handler.
func NewHandler(manager *Manager, hub *ws.Hub, tokens *auth.Manager, logger zerolog.Logger) *Handler {
	return &Handler{
		manager: manager,
		hub:     hub,
		tokens:  tokens,
		logger:  logger.With().Str("component", "ws_handler").Logger(),
	}
}

// HandleWebSocket authenticates the participant, upgrades the connection
// and runs the read loop until the client disconnects.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromRequest(r)
	if token == "" {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeUnauthorized, "Missing token")
		return
	}
	claims, err := h.tokens.Verify(token)
	if err != nil {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid token")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	wsConn := ws.NewConnection(conn, h.logger)
	h.hub.RegisterConnection(claims.ParticipantID, wsConn)

	// The session outlives the upgraded request context, so it runs under
	// its own lifetime and is torn down when the read loop exits.
	session := h.manager.Open(context.Background(), claims.ParticipantID)

	go wsConn.WritePump()
	go h.forwardEvents(session, wsConn)

	wsConn.ReadPump(func(msg ws.Message) error {
		return h.handleMessage(session, wsConn, msg)
	})

	h.manager.Close(claims.ParticipantID, session)
	h.hub.UnregisterConnection(claims.ParticipantID, wsConn)
}

func (h *Handler) handleMessage(session *Session, conn *ws.Connection, msg ws.Message) error {
	switch msg.Type {
	case ws.TypeStart:
		session.Start()
	case ws.TypeSubmitAnswer:
		var payload ws.SubmitAnswerPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			h.sendError(conn, msg.RequestID, httperrors.ErrCodeInvalidPayload, "Malformed submit_answer payload")
			return nil
		}
		session.SubmitAnswer(payload.Option)
	case ws.TypeRestart:
		session.Restart()
	case ws.TypeRetrySave:
		session.RetrySave()
	case ws.TypePing:
		return conn.Send(ws.Message{Type: ws.TypePong, RequestID: msg.RequestID})
	default:
		h.sendError(conn, msg.RequestID, httperrors.ErrCodeUnknownMessageType, "Unknown message type: "+msg.Type)
	}
	return nil
}

// forwardEvents drains the session's event stream into the connection. It
// returns when the session loop closes its channel.
func (h *Handler) forwardEvents(session *Session, conn *ws.Connection) {
	for ev := range session.Events() {
		msg, ok := h.messageFor(ev)
		if !ok {
			continue
		}
		if err := conn.Send(msg); err != nil {
			h.logger.Debug().Err(err).Str("event", string(ev.Type)).Msg("dropping event")
		}
	}
}

func (h *Handler) messageFor(ev Event) (ws.Message, bool) {
	switch ev.Type {
	case EventPhaseChanged:
		return h.marshal(ws.TypePhaseChanged, ws.PhaseChangedPayload{
			Phase: string(ev.Snapshot.Phase),
			State: statePayload(ev.Snapshot),
		})
	case EventTick:
		return h.marshal(ws.TypeTick, ws.TickPayload{
			TimeRemaining: ev.Snapshot.TimeRemaining,
		})
	case EventBonusAwarded:
		return h.marshal(ws.TypeBonusAwarded, ws.BonusAwardedPayload{
			Seconds:       ev.Bonus,
			TimeRemaining: ev.Snapshot.TimeRemaining,
		})
	case EventAnswerResult:
		return h.marshal(ws.TypeAnswerResult, ws.AnswerResultPayload{
			Option:  ev.Answer.Option,
			Correct: ev.Answer.Correct,
			Score:   ev.Snapshot.Score,
		})
	case EventReconciled:
		return h.marshal(ws.TypeReconciled, ws.ReconciledPayload{
			TotalScore:  ev.Record.TotalScore,
			HighScore:   ev.Record.HighScore,
			GamesPlayed: ev.Record.GamesPlayed,
			UpdatedAt:   ev.Record.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	case EventError:
		return h.marshal(ws.TypeError, ws.ErrorPayload{
			Code:    ev.Code,
			Message: ev.Message,
		})
	}
	return ws.Message{}, false
}

func (h *Handler) marshal(msgType string, payload interface{}) (ws.Message, bool) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error().Err(err).Str("type", msgType).Msg("failed to marshal payload")
		return ws.Message{}, false
	}
	return ws.Message{Type: msgType, Payload: raw}, true
}

func (h *Handler) sendError(conn *ws.Connection, requestID, code, message string) {
	raw, err := json.Marshal(ws.ErrorPayload{Code: code, Message: message})
	if err != nil {
		return
	}
	if err := conn.Send(ws.Message{Type: ws.TypeError, Payload: raw, RequestID: requestID}); err != nil {
		h.logger.Debug().Err(err).Msg("failed to send error message")
	}
}

func statePayload(snap Snapshot) ws.SessionStatePayload {
	payload := ws.SessionStatePayload{
		Phase:          string(snap.Phase),
		Cursor:         snap.Cursor,
		QuestionCount:  snap.QuestionCount,
		Score:          snap.Score,
		TimeRemaining:  snap.TimeRemaining,
		Answered:       snap.Answered,
		SelectedOption: snap.SelectedOption,
		BonusAwarded:   snap.BonusAwarded,
		SaveInFlight:   snap.SaveInFlight,
		SaveDone:       snap.SaveDone,
	}
	if snap.Question != nil {
		payload.Question = &ws.QuestionPayload{
			ID:       snap.Question.ID,
			VideoURL: snap.Question.VideoURL,
			Prompt:   snap.Question.Prompt,
			Options:  snap.Question.Options,
		}
	}
	return payload
}
