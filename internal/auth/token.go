package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carried by a participant token. The identity provider itself is
// external; this service only verifies what it issued.
type Claims struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	DisplayName   string    `json:"display_name"`
	jwt.RegisteredClaims
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// TokenConfig holds JWT signing configuration.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration // default: 1 hour
	Issuer string
}

// Manager handles participant token generation and validation.
type Manager struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewManager creates a token manager.
func NewManager(cfg TokenConfig) *Manager {
	if cfg.TTL == 0 {
		cfg.TTL = 1 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "reelquiz"
	}

	return &Manager{
		secret: cfg.Secret,
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
	}
}

// Generate creates a signed participant token. Used by tooling and tests;
// production tokens come from the upstream identity provider sharing the
// same secret.
func (m *Manager) Generate(participantID uuid.UUID, displayName string) (string, error) {
	now := time.Now()
	claims := Claims{
		ParticipantID: participantID,
		DisplayName:   displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   participantID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a participant token.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ParticipantID == uuid.Nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
