package game

import (
	"time"

	"github.com/Surya-blippi/reelquiznew/internal/score"
)

// Phase is the session state-machine tag.
type Phase string

const (
	PhaseLoading       Phase = "loading"
	PhaseNotStarted    Phase = "not_started"
	PhasePlaying       Phase = "playing"
	PhaseAnswered      Phase = "answered"
	PhaseTransitioning Phase = "transitioning"
	PhaseComplete      Phase = "complete"
	PhaseTimeExpired   Phase = "time_expired"
	PhaseError         Phase = "error"
)

// Terminal reports whether gameplay is over. Both terminal phases still
// permit one reconciliation and a restart.
func (p Phase) Terminal() bool {
	return p == PhaseComplete || p == PhaseTimeExpired
}

// Rules groups the gameplay constants for one session.
type Rules struct {
	MaxTimeSeconds   int
	TimeBonusSeconds int
	PointsPerCorrect int
	AnswerDwell      time.Duration
	TransitionPause  time.Duration
	TickInterval     time.Duration
}

// DefaultRules returns the shipped gameplay constants.
func DefaultRules() Rules {
	return Rules{
		MaxTimeSeconds:   60,
		TimeBonusSeconds: 5,
		PointsPerCorrect: 100,
		AnswerDwell:      1500 * time.Millisecond,
		TransitionPause:  1 * time.Second,
		TickInterval:     1 * time.Second,
	}
}

// QuestionView is the collaborator-facing view of the current question.
// The correct option index never leaves the controller.
type QuestionView struct {
	ID       string
	VideoURL string
	Prompt   string
	Options  []string
}

// Snapshot is a read-only copy of the session state, emitted with every
// event so the presentation layer never touches the live state.
type Snapshot struct {
	Phase          Phase
	Cursor         int
	QuestionCount  int
	Score          int
	TimeRemaining  int
	Answered       bool
	SelectedOption *int
	BonusAwarded   bool
	SaveInFlight   bool
	SaveDone       bool
	Question       *QuestionView
}

// EventType enumerates the discrete events the session emits.
type EventType string

const (
	EventPhaseChanged EventType = "phase_changed"
	EventTick         EventType = "tick"
	EventBonusAwarded EventType = "bonus_awarded"
	EventAnswerResult EventType = "answer_result"
	EventReconciled   EventType = "reconciled"
	EventError        EventType = "error"
)

// Error kinds carried on EventError.
const (
	ErrorKindFetch         = "fetch_failed"
	ErrorKindEmptyCatalog  = "empty_catalog"
	ErrorKindStore         = "store_failed"
	ErrorKindInvalidOption = "invalid_option"
)

// AnswerResult reports the outcome of an accepted answer.
type AnswerResult struct {
	Option  int
	Correct bool
}

// Event is one discrete notification to the collaborator.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	Bonus    int
	Answer   *AnswerResult
	Record   *score.Record
	Code     string
	Message  string
}
