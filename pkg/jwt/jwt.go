package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("missing authorization token")
)

const devSecret = "dev-only-secret-change-me"

// Claims represents the JWT claims structure. OwnerID scopes every
// material, configuration and product the bearer can reach.
type Claims struct {
	OwnerID      uuid.UUID `json:"owner_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	TokenVersion string    `json:"token_version"`
	jwt.RegisteredClaims
}

// Manager signs and validates owner tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewManager falls back to a development secret when secret is empty and
// to 24 hours when ttl is zero.
func NewManager(secret string, ttl time.Duration, issuer string) *Manager {
	if secret == "" {
		secret = devSecret
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), ttl: ttl, issuer: issuer}
}

// GenerateToken creates a new JWT token for an owner
func (m *Manager) GenerateToken(ownerID uuid.UUID, email, name, tokenVersion string) (string, error) {
	now := time.Now()
	claims := &Claims{
		OwnerID:      ownerID,
		Email:        email,
		Name:         name,
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ownerID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken parses and validates a JWT token
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.OwnerID != uuid.Nil {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
