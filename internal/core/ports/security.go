package ports

import "github.com/cinefav/favorites-api/internal/core/domain"

// PasswordHasher is a one-way salted transform over plaintext passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenManager issues and verifies signed, time-limited bearer tokens.
type TokenManager interface {
	Issue(userID string, kind domain.TokenKind) (string, error)
	IssuePair(userID string) (domain.TokenPair, error)
	Verify(token string, kind domain.TokenKind) (string, error)
}
