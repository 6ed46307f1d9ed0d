package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	domain "github.com/mohammadpnp/account-import/internal/domain/account"
)

const issuer = "account-import"

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrEmptySecret  = errors.New("session secret is empty")
)

type claims struct {
	Email    string `json:"email,omitempty"`
	Provider string `json:"provider"`
	jwt.RegisteredClaims
}

// Manager issues and parses HS256 session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (m *Manager) Issue(user domain.SignedInUser) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email:    user.Email,
		Provider: string(user.Provider),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

func (m *Manager) Parse(raw string) (domain.SignedInUser, error) {
	var parsed claims
	_, err := jwt.ParseWithClaims(raw, &parsed, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return domain.SignedInUser{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return domain.SignedInUser{
		UserID:   parsed.Subject,
		Email:    parsed.Email,
		Provider: domain.ProviderID(parsed.Provider),
	}, nil
}
