package domain

// TokenKind selects the secret and lifetime a token is signed with.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

// TokenPair is handed out on register and login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
