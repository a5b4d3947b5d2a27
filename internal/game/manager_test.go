package game

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/Surya-blippi/reelquiznew/internal/catalog"
)

func newTestManager() *Manager {
	source := &stubCatalog{records: []catalog.QuestionRecord{testQuestion("v1", 0)}}
	return NewManager(testRules(), clockwork.NewFakeClock(), source, &stubReconciler{}, zerolog.Nop())
}

func TestManagerOneSessionPerParticipant(t *testing.T) {
	manager := newTestManager()
	participantID := uuid.New()

	first := manager.Open(context.Background(), participantID)
	second := manager.Open(context.Background(), participantID)

	assert.NotSame(t, first, second)
	assert.Equal(t, 1, manager.Count())

	// The replaced session's loop was cancelled; its stream must end.
	nextPhase(t, second, PhaseNotStarted)
	for range first.Events() {
	}
}

func TestManagerCloseIgnoresStaleSession(t *testing.T) {
	manager := newTestManager()
	participantID := uuid.New()

	stale := manager.Open(context.Background(), participantID)
	active := manager.Open(context.Background(), participantID)

	manager.Close(participantID, stale)
	assert.Equal(t, 1, manager.Count())

	manager.Close(participantID, active)
	assert.Equal(t, 0, manager.Count())
}

func TestManagerShutdown(t *testing.T) {
	manager := newTestManager()

	a := manager.Open(context.Background(), uuid.New())
	b := manager.Open(context.Background(), uuid.New())
	assert.Equal(t, 2, manager.Count())

	manager.Shutdown()
	assert.Equal(t, 0, manager.Count())
	for range a.Events() {
	}
	for range b.Events() {
	}
}
