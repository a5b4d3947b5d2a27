package ws

import "encoding/json"

// MessageType constants for the session WebSocket protocol.
const (
	// Client -> Server
	TypeStart        = "start"
	TypeSubmitAnswer = "submit_answer"
	TypeRestart      = "restart"
	TypeRetrySave    = "retry_save"
	TypePing         = "ping"

	// Server -> Client
	TypeSessionState = "session_state"
	TypePhaseChanged = "phase_changed"
	TypeTick         = "tick"
	TypeBonusAwarded = "bonus_awarded"
	TypeAnswerResult = "answer_result"
	TypeReconciled   = "reconciled"
	TypeError        = "error"
	TypePong         = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// Client Messages (incoming)

type SubmitAnswerPayload struct {
	Option int `json:"option"`
}

// Server Messages (outgoing)

// QuestionPayload is the client view of a question. The correct option index
// is server-side only and never leaves the session controller.
type QuestionPayload struct {
	ID       string   `json:"id"`
	VideoURL string   `json:"video_url"`
	Prompt   string   `json:"prompt"`
	Options  []string `json:"options"`
}

// SessionStatePayload is a read-only snapshot of the session.
type SessionStatePayload struct {
	Phase          string           `json:"phase"`
	Cursor         int              `json:"cursor"`
	QuestionCount  int              `json:"question_count"`
	Score          int              `json:"score"`
	TimeRemaining  int              `json:"time_remaining"`
	Answered       bool             `json:"answered"`
	SelectedOption *int             `json:"selected_option,omitempty"`
	BonusAwarded   bool             `json:"bonus_awarded"`
	SaveInFlight   bool             `json:"save_in_flight"`
	SaveDone       bool             `json:"save_done"`
	Question       *QuestionPayload `json:"question,omitempty"`
}

type PhaseChangedPayload struct {
	Phase string              `json:"phase"`
	State SessionStatePayload `json:"state"`
}

type TickPayload struct {
	TimeRemaining int `json:"time_remaining"`
}

type BonusAwardedPayload struct {
	Seconds       int `json:"seconds"`
	TimeRemaining int `json:"time_remaining"`
}

type AnswerResultPayload struct {
	Option  int  `json:"option"`
	Correct bool `json:"correct"`
	Score   int  `json:"score"`
}

type ReconciledPayload struct {
	TotalScore  int    `json:"total_score"`
	HighScore   int    `json:"high_score"`
	GamesPlayed int    `json:"games_played"`
	UpdatedAt   string `json:"updated_at"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
