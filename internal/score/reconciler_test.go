package score

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// memStore is an in-memory Store with optional injected conflicts.
type memStore struct {
	mu             sync.Mutex
	records        map[uuid.UUID]Record
	conflictsLeft  int
	getCalls       int
	updateAttempts int
}

func newMemStore() *memStore {
	return &memStore{records: make(map[uuid.UUID]Record)}
}

func (s *memStore) seed(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.Version == 0 {
		rec.Version = 1
	}
	s.records[rec.ParticipantID] = rec
}

func (s *memStore) Get(_ context.Context, participantID uuid.UUID) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	rec, ok := s.records[participantID]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *memStore) Insert(_ context.Context, record Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[record.ParticipantID]; exists {
		return Record{}, ErrVersionConflict
	}
	record.Version = 1
	record.UpdatedAt = time.Now()
	s.records[record.ParticipantID] = record
	return record, nil
}

func (s *memStore) Update(_ context.Context, record Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateAttempts++
	if s.conflictsLeft > 0 {
		s.conflictsLeft--
		// Simulate a concurrent writer bumping the version under us.
		stored := s.records[record.ParticipantID]
		stored.Version++
		s.records[record.ParticipantID] = stored
		return Record{}, ErrVersionConflict
	}
	stored, ok := s.records[record.ParticipantID]
	if !ok || stored.Version != record.Version {
		return Record{}, ErrVersionConflict
	}
	record.Version++
	record.UpdatedAt = time.Now()
	s.records[record.ParticipantID] = record
	return record, nil
}

func newTestReconciler(store Store) *Reconciler {
	return NewReconciler(store, nil, ReconcilerOptions{
		Timeout:    time.Second,
		RetryMax:   3,
		RetryDelay: time.Millisecond,
	}, zerolog.Nop())
}

func TestReconcileFirstPlay(t *testing.T) {
	store := newMemStore()
	participantID := uuid.New()

	rec, err := newTestReconciler(store).Reconcile(context.Background(), participantID, 300)
	assert.NoError(t, err)
	assert.Equal(t, 300, rec.TotalScore)
	assert.Equal(t, 300, rec.HighScore)
	assert.Equal(t, 1, rec.GamesPlayed)
}

func TestReconcileZeroScoreStillCountsAGame(t *testing.T) {
	store := newMemStore()
	participantID := uuid.New()

	rec, err := newTestReconciler(store).Reconcile(context.Background(), participantID, 0)
	assert.NoError(t, err)
	assert.Equal(t, 0, rec.TotalScore)
	assert.Equal(t, 0, rec.HighScore)
	assert.Equal(t, 1, rec.GamesPlayed)
}

func TestReconcileKeepsHighScore(t *testing.T) {
	store := newMemStore()
	participantID := uuid.New()
	store.seed(Record{ParticipantID: participantID, TotalScore: 300, HighScore: 150, GamesPlayed: 2})

	rec, err := newTestReconciler(store).Reconcile(context.Background(), participantID, 100)
	assert.NoError(t, err)
	assert.Equal(t, 400, rec.TotalScore)
	assert.Equal(t, 150, rec.HighScore)
	assert.Equal(t, 3, rec.GamesPlayed)
}

func TestReconcileRaisesHighScore(t *testing.T) {
	store := newMemStore()
	participantID := uuid.New()
	store.seed(Record{ParticipantID: participantID, TotalScore: 300, HighScore: 150, GamesPlayed: 2})

	rec, err := newTestReconciler(store).Reconcile(context.Background(), participantID, 200)
	assert.NoError(t, err)
	assert.Equal(t, 500, rec.TotalScore)
	assert.Equal(t, 200, rec.HighScore)
	assert.Equal(t, 3, rec.GamesPlayed)
}

func TestReconcileRetriesVersionConflict(t *testing.T) {
	store := newMemStore()
	participantID := uuid.New()
	store.seed(Record{ParticipantID: participantID, TotalScore: 100, HighScore: 100, GamesPlayed: 1})
	store.conflictsLeft = 1

	rec, err := newTestReconciler(store).Reconcile(context.Background(), participantID, 50)
	assert.NoError(t, err)
	assert.Equal(t, 150, rec.TotalScore)
	assert.Equal(t, 100, rec.HighScore)
	assert.Equal(t, 2, rec.GamesPlayed)
	assert.Equal(t, 2, store.updateAttempts)
}

func TestReconcileGivesUpAfterRetries(t *testing.T) {
	store := newMemStore()
	participantID := uuid.New()
	store.seed(Record{ParticipantID: participantID, TotalScore: 100, HighScore: 100, GamesPlayed: 1})
	store.conflictsLeft = 100

	_, err := newTestReconciler(store).Reconcile(context.Background(), participantID, 50)
	assert.Error(t, err)
}
