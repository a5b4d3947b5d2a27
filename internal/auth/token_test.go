package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenerateVerifyRoundTrip(t *testing.T) {
	manager := NewManager(TokenConfig{Secret: []byte("test-secret")})
	participantID := uuid.New()

	token, err := manager.Generate(participantID, "player one")
	assert.NoError(t, err)

	claims, err := manager.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, participantID, claims.ParticipantID)
	assert.Equal(t, "player one", claims.DisplayName)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewManager(TokenConfig{Secret: []byte("secret-a")})
	verifier := NewManager(TokenConfig{Secret: []byte("secret-b")})

	token, err := issuer.Generate(uuid.New(), "player")
	assert.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	manager := NewManager(TokenConfig{Secret: []byte("test-secret"), TTL: -time.Minute})

	token, err := manager.Generate(uuid.New(), "player")
	assert.NoError(t, err)

	_, err = manager.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyRejectsNilParticipant(t *testing.T) {
	manager := NewManager(TokenConfig{Secret: []byte("test-secret")})

	token, err := manager.Generate(uuid.Nil, "anonymous")
	assert.NoError(t, err)

	_, err = manager.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	manager := NewManager(TokenConfig{Secret: []byte("test-secret")})

	_, err := manager.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
