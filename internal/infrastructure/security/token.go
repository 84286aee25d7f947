package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cinefav/favorites-api/internal/core/domain"
)

// TokenConfig holds the signing material for both token kinds. Every field is
// mandatory; there are no fallback defaults.
type TokenConfig struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
}

// Validate rejects incomplete or ambiguous signing configuration.
func (c TokenConfig) Validate() error {
	switch {
	case c.AccessSecret == "":
		return errors.New("access token secret is required")
	case c.RefreshSecret == "":
		return errors.New("refresh token secret is required")
	case c.AccessSecret == c.RefreshSecret:
		return errors.New("access and refresh token secrets must differ")
	case c.AccessTTL <= 0:
		return errors.New("access token ttl must be positive")
	case c.RefreshTTL <= 0:
		return errors.New("refresh token ttl must be positive")
	}
	return nil
}

// Claims binds a token to a user id; expiry lives in the registered claims.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

type signingKey struct {
	secret []byte
	ttl    time.Duration
}

// JWTManager implements ports.TokenManager with HS256.
type JWTManager struct {
	keys map[domain.TokenKind]signingKey
	now  func() time.Time
}

// Option customises a JWTManager.
type Option func(*JWTManager)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(m *JWTManager) { m.now = now }
}

// NewJWTManager validates cfg and builds a manager for access and refresh tokens.
func NewJWTManager(cfg TokenConfig, opts ...Option) (*JWTManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("token config: %w", err)
	}
	m := &JWTManager{
		keys: map[domain.TokenKind]signingKey{
			domain.TokenAccess:  {secret: []byte(cfg.AccessSecret), ttl: cfg.AccessTTL},
			domain.TokenRefresh: {secret: []byte(cfg.RefreshSecret), ttl: cfg.RefreshTTL},
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Issue signs a token of the given kind for userID.
func (m *JWTManager) Issue(userID string, kind domain.TokenKind) (string, error) {
	key, ok := m.keys[kind]
	if !ok {
		return "", fmt.Errorf("issue token: unknown kind %q", kind)
	}
	now := m.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(key.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key.secret)
	if err != nil {
		return "", fmt.Errorf("issue %s token: %w", kind, err)
	}
	return signed, nil
}

// IssuePair signs a fresh access and refresh token for userID.
func (m *JWTManager) IssuePair(userID string) (domain.TokenPair, error) {
	access, err := m.Issue(userID, domain.TokenAccess)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := m.Issue(userID, domain.TokenRefresh)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify checks signature and expiry and returns the embedded user id.
// Failures are domain.ErrTokenExpired or domain.ErrInvalidToken.
func (m *JWTManager) Verify(token string, kind domain.TokenKind) (string, error) {
	key, ok := m.keys[kind]
	if !ok {
		return "", domain.ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return key.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrInvalidToken
	}
	if !parsed.Valid || claims.UserID == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.UserID, nil
}
