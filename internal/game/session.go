package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/Surya-blippi/reelquiznew/internal/catalog"
	"github.com/Surya-blippi/reelquiznew/internal/score"
)

// CatalogSource supplies the question records for a session.
type CatalogSource interface {
	FetchCatalog(ctx context.Context) ([]catalog.QuestionRecord, error)
}

// ScoreReconciler persists a finished session's score.
type ScoreReconciler interface {
	Reconcile(ctx context.Context, participantID uuid.UUID, sessionScore int) (score.Record, error)
}

type intentKind int

const (
	intentStart intentKind = iota
	intentSubmit
	intentRestart
	intentRetrySave
)

type intent struct {
	kind   intentKind
	option int
}

type saveOutcome struct {
	record score.Record
	err    error
}

// SessionConfig carries the collaborators for one session.
type SessionConfig struct {
	ParticipantID uuid.UUID
	Rules         Rules
	Clock         clockwork.Clock
	Source        CatalogSource
	Scores        ScoreReconciler
	RNG           *rand.Rand
	Logger        zerolog.Logger
}

// Session runs one participant's quiz as a single goroutine owning all
// mutable state. Collaborators talk to it through intents and listen on
// Events; nothing outside the loop reads the fields directly.
type Session struct {
	participantID uuid.UUID
	rules         Rules
	clock         clockwork.Clock
	source        CatalogSource
	scores        ScoreReconciler
	rng           *rand.Rand
	logger        zerolog.Logger

	// owned by Run's goroutine
	records   []catalog.QuestionRecord
	cursor    int
	score     int
	countdown Countdown
	phase     Phase
	answered  bool
	selected  *int
	bonus     bool

	saveInFlight bool
	saveDone     bool

	ticker     clockwork.Ticker
	dwellTimer clockwork.Timer
	pauseTimer clockwork.Timer

	intents    chan intent
	events     chan Event
	saveResult chan saveOutcome
}

// NewSession constructs a session; call Run to start it.
func NewSession(cfg SessionConfig) *Session {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.RNG == nil {
		cfg.RNG = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Session{
		participantID: cfg.ParticipantID,
		rules:         cfg.Rules,
		clock:         cfg.Clock,
		source:        cfg.Source,
		scores:        cfg.Scores,
		rng:           cfg.RNG,
		logger: cfg.Logger.With().
			Str("component", "session").
			Str("participant_id", cfg.ParticipantID.String()).
			Logger(),
		phase:      PhaseLoading,
		intents:    make(chan intent, 16),
		events:     make(chan Event, 64),
		saveResult: make(chan saveOutcome, 1),
	}
}

// Events is the session's outbound stream. It is closed when Run returns.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Start requests the NotStarted -> Playing transition.
func (s *Session) Start() {
	s.post(intent{kind: intentStart})
}

// SubmitAnswer requests scoring of the given option for the current question.
func (s *Session) SubmitAnswer(option int) {
	s.post(intent{kind: intentSubmit, option: option})
}

// Restart requests a fresh session after a terminal or error phase.
func (s *Session) Restart() {
	s.post(intent{kind: intentRestart})
}

// RetrySave requests another reconciliation attempt after a failed save.
func (s *Session) RetrySave() {
	s.post(intent{kind: intentRetrySave})
}

func (s *Session) post(in intent) {
	select {
	case s.intents <- in:
	default:
		s.logger.Warn().Int("kind", int(in.kind)).Msg("intent queue full, dropping")
	}
}

// Run executes the session loop until ctx is cancelled. Intents arriving in
// the same interval as a tick are applied after the tick, so an answer can
// never land on a clock that has already run out.
func (s *Session) Run(ctx context.Context) {
	defer close(s.events)

	s.load(ctx)

	s.ticker = s.clock.NewTicker(s.rules.TickInterval)
	defer s.ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.ticker.Chan():
			s.handleTick(ctx)
		case in := <-s.intents:
			select {
			case <-s.ticker.Chan():
				s.handleTick(ctx)
			default:
			}
			s.handleIntent(ctx, in)
		case <-timerChan(s.dwellTimer):
			s.dwellTimer = nil
			s.finishDwell()
		case <-timerChan(s.pauseTimer):
			s.pauseTimer = nil
			s.advance(ctx)
		case out := <-s.saveResult:
			s.handleSaveResult(out)
		}
	}
}

// timerChan gates a select arm on an optional timer; a nil channel never
// fires.
func timerChan(t clockwork.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.Chan()
}

func stopTimer(t clockwork.Timer) {
	if t != nil {
		t.Stop()
	}
}

func (s *Session) load(ctx context.Context) {
	s.stopTimers()
	s.phase = PhaseLoading
	s.cursor = 0
	s.score = 0
	s.answered = false
	s.selected = nil
	s.bonus = false
	s.saveInFlight = false
	s.saveDone = false
	s.countdown = NewCountdown(s.rules.MaxTimeSeconds)
	s.emitPhase()

	records, err := s.source.FetchCatalog(ctx)
	if err == nil && len(records) == 0 {
		err = catalog.ErrEmptyCatalog
	}
	if err == nil {
		records, err = catalog.Shuffle(records, s.rng)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load catalog")
		s.phase = PhaseError
		s.emit(Event{
			Type:     EventError,
			Code:     loadErrorKind(err),
			Message:  "Failed to load quiz questions",
			Snapshot: s.snapshot(),
		})
		s.emitPhase()
		return
	}

	s.records = records
	s.setPhase(PhaseNotStarted)
}

func loadErrorKind(err error) string {
	if errors.Is(err, catalog.ErrEmptyCatalog) {
		return ErrorKindEmptyCatalog
	}
	return ErrorKindFetch
}

func (s *Session) handleTick(ctx context.Context) {
	// The clock only runs while a question is on screen or its result is
	// dwelling; transitions and terminal phases freeze it.
	if s.phase != PhasePlaying && s.phase != PhaseAnswered {
		return
	}
	if s.countdown.Tick() {
		s.expire(ctx)
		return
	}
	s.emit(Event{Type: EventTick, Snapshot: s.snapshot()})
}

func (s *Session) handleIntent(ctx context.Context, in intent) {
	switch in.kind {
	case intentStart:
		if s.phase != PhaseNotStarted {
			return
		}
		sessionsStarted.Inc()
		s.logger.Info().Msg("session started")
		s.setPhase(PhasePlaying)
	case intentSubmit:
		s.submitAnswer(in.option)
	case intentRestart:
		s.restart(ctx)
	case intentRetrySave:
		if s.phase.Terminal() && !s.saveDone && !s.saveInFlight {
			s.beginSave(ctx)
		}
	}
}

func (s *Session) submitAnswer(option int) {
	if s.phase != PhasePlaying || s.answered {
		// Duplicate or out-of-phase submissions are dropped.
		return
	}
	q := s.records[s.cursor]
	if option < 0 || option >= len(q.Options) {
		s.emit(Event{
			Type:     EventError,
			Code:     ErrorKindInvalidOption,
			Message:  fmt.Sprintf("option %d out of range", option),
			Snapshot: s.snapshot(),
		})
		return
	}

	chosen := option
	s.answered = true
	s.selected = &chosen
	correct := option == q.CorrectIndex
	result := "incorrect"
	if correct {
		result = "correct"
		s.score += s.rules.PointsPerCorrect
		s.bonus = true
		s.countdown.Bonus(s.rules.TimeBonusSeconds)
	}
	answersTotal.WithLabelValues(result).Inc()

	if correct {
		s.emit(Event{Type: EventBonusAwarded, Bonus: s.rules.TimeBonusSeconds, Snapshot: s.snapshot()})
	}
	s.emit(Event{
		Type:     EventAnswerResult,
		Answer:   &AnswerResult{Option: option, Correct: correct},
		Snapshot: s.snapshot(),
	})

	s.setPhase(PhaseAnswered)
	s.dwellTimer = s.clock.NewTimer(s.rules.AnswerDwell)
}

// finishDwell ends the answer-reveal dwell and freezes the clock for the
// transition pause.
func (s *Session) finishDwell() {
	if s.phase != PhaseAnswered {
		return
	}
	s.setPhase(PhaseTransitioning)
	s.pauseTimer = s.clock.NewTimer(s.rules.TransitionPause)
}

// advance moves to the next question, or completes the session when the
// last question has been answered.
func (s *Session) advance(ctx context.Context) {
	if s.phase != PhaseTransitioning {
		return
	}
	if s.cursor+1 < len(s.records) {
		s.cursor++
		s.answered = false
		s.selected = nil
		s.bonus = false
		s.setPhase(PhasePlaying)
		return
	}
	sessionsFinished.WithLabelValues("complete").Inc()
	s.logger.Info().Int("score", s.score).Msg("session complete")
	s.setPhase(PhaseComplete)
	s.beginSave(ctx)
}

func (s *Session) expire(ctx context.Context) {
	s.stopTimers()
	sessionsFinished.WithLabelValues("time_expired").Inc()
	s.logger.Info().Int("score", s.score).Msg("session time expired")
	s.setPhase(PhaseTimeExpired)
	s.beginSave(ctx)
}

// beginSave launches reconciliation off the loop goroutine; the outcome
// comes back through saveResult. At most one save runs at a time and a
// completed save is never repeated, so gamesPlayed moves by exactly one
// per finished session.
func (s *Session) beginSave(ctx context.Context) {
	if s.saveDone || s.saveInFlight {
		return
	}
	s.saveInFlight = true
	finalScore := s.score
	participantID := s.participantID
	go func() {
		rec, err := s.scores.Reconcile(ctx, participantID, finalScore)
		select {
		case s.saveResult <- saveOutcome{record: rec, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (s *Session) handleSaveResult(out saveOutcome) {
	s.saveInFlight = false
	if out.err != nil {
		reconciliationsTotal.WithLabelValues("error").Inc()
		s.logger.Error().Err(out.err).Msg("score reconciliation failed")
		s.emit(Event{
			Type:     EventError,
			Code:     ErrorKindStore,
			Message:  "Failed to save score",
			Snapshot: s.snapshot(),
		})
		return
	}
	s.saveDone = true
	reconciliationsTotal.WithLabelValues("ok").Inc()
	rec := out.record
	s.emit(Event{Type: EventReconciled, Record: &rec, Snapshot: s.snapshot()})
}

func (s *Session) restart(ctx context.Context) {
	switch {
	case s.phase == PhaseError:
	case s.phase.Terminal() && !s.saveInFlight:
	default:
		// Mid-game restarts and restarts racing a save are refused.
		return
	}
	s.load(ctx)
}

func (s *Session) stopTimers() {
	stopTimer(s.dwellTimer)
	s.dwellTimer = nil
	stopTimer(s.pauseTimer)
	s.pauseTimer = nil
}

func (s *Session) setPhase(p Phase) {
	if s.phase == p {
		return
	}
	s.phase = p
	s.emitPhase()
}

func (s *Session) emitPhase() {
	s.emit(Event{Type: EventPhaseChanged, Snapshot: s.snapshot()})
}

func (s *Session) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
		s.logger.Warn().Str("event", string(ev.Type)).Msg("event queue full, dropping")
	}
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		Phase:         s.phase,
		Cursor:        s.cursor,
		QuestionCount: len(s.records),
		Score:         s.score,
		TimeRemaining: s.countdown.Remaining(),
		Answered:      s.answered,
		BonusAwarded:  s.bonus,
		SaveInFlight:  s.saveInFlight,
		SaveDone:      s.saveDone,
	}
	if s.selected != nil {
		chosen := *s.selected
		snap.SelectedOption = &chosen
	}
	switch s.phase {
	case PhasePlaying, PhaseAnswered, PhaseTransitioning:
		if s.cursor < len(s.records) {
			q := s.records[s.cursor]
			snap.Question = &QuestionView{
				ID:       q.ID,
				VideoURL: q.VideoURL,
				Prompt:   q.Prompt,
				Options:  append([]string(nil), q.Options...),
			}
		}
	}
	return snap
}
