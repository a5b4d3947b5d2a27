package game

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

type running struct {
	session *Session
	cancel  context.CancelFunc
}

// Manager enforces one live session per participant. Opening a session for
// a participant who already has one cancels the old loop first, so a
// reconnect always lands on a fresh session.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*running

	rules  Rules
	clock  clockwork.Clock
	source CatalogSource
	scores ScoreReconciler
	logger zerolog.Logger
}

// NewManager creates a session manager.
func NewManager(rules Rules, clock clockwork.Clock, source CatalogSource, scores ScoreReconciler, logger zerolog.Logger) *Manager {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Manager{
		sessions: make(map[uuid.UUID]*running),
		rules:    rules,
		clock:    clock,
		source:   source,
		scores:   scores,
		logger:   logger.With().Str("component", "session_manager").Logger(),
	}
}

// Open starts a session for the participant, replacing any existing one.
func (m *Manager) Open(ctx context.Context, participantID uuid.UUID) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, exists := m.sessions[participantID]; exists {
		old.cancel()
		m.logger.Info().
			Str("participant_id", participantID.String()).
			Msg("replacing existing session")
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	session := NewSession(SessionConfig{
		ParticipantID: participantID,
		Rules:         m.rules,
		Clock:         m.clock,
		Source:        m.source,
		Scores:        m.scores,
		Logger:        m.logger,
	})
	m.sessions[participantID] = &running{session: session, cancel: cancel}
	go session.Run(sessionCtx)
	return session
}

// Close stops the given session if it is still the participant's active one.
func (m *Manager) Close(participantID uuid.UUID, session *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.sessions[participantID]
	if !exists || current.session != session {
		return
	}
	current.cancel()
	delete(m.sessions, participantID)
}

// Shutdown cancels every live session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for participantID, r := range m.sessions {
		r.cancel()
		delete(m.sessions, participantID)
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
