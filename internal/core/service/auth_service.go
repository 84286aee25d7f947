package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinefav/favorites-api/internal/api/metrics"
	"github.com/cinefav/favorites-api/internal/core/domain"
	"github.com/cinefav/favorites-api/internal/core/ports"
)

// StructValidator checks tagged input structs and reports *domain.ValidationError.
type StructValidator interface {
	Validate(i any) error
}

// AuthService implements register, login, me, logout and refresh.
type AuthService struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenManager
	throttle ports.LoginThrottle
	audit    ports.AuditSink
	validate StructValidator
	log      zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenManager,
	throttle ports.LoginThrottle,
	audit ports.AuditSink,
	validate StructValidator,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		throttle: throttle,
		audit:    audit,
		validate: validate,
		log:      log,
	}
}

// Register validates the payload, creates the account and issues a token pair.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = domain.NormalizeEmail(in.Email)
	if err := s.validate.Validate(&in); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid").Inc()
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "exists").Inc()
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	start := time.Now()
	hash, err := s.hasher.Hash(in.Password)
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid").Inc()
			return nil, ve
		}
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	user, err := s.users.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		// The unique index catches a concurrent registration the pre-check missed.
		if errors.Is(err, domain.ErrUserExists) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "exists").Inc()
			return nil, domain.ErrUserExists
		}
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	tokens, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	s.audit.Enqueue(newAuthEvent(domain.EventRegistered, user.ID, user.Email, 0))
	s.log.Info().Str("user_id", user.ID).Msg("user registered")

	return &ports.AuthResult{Tokens: tokens, User: user.Public()}, nil
}

// Login verifies credentials. Unknown email and wrong password are the same
// error so callers cannot probe which accounts exist.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	in.Email = domain.NormalizeEmail(in.Email)
	if err := s.validate.Validate(&in); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
		return nil, err
	}

	blocked, err := s.throttle.Blocked(ctx, in.Email)
	if err != nil {
		s.log.Warn().Err(err).Msg("login throttle check failed, continuing")
	} else if blocked {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "throttled").Inc()
		s.audit.Enqueue(newAuthEvent(domain.EventLoginThrottled, "", in.Email, 0))
		return nil, domain.ErrTooManyAttempts
	}

	user, err := s.users.FindByEmailWithPassword(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.loginFailed(ctx, in.Email, "")
			return nil, domain.ErrInvalidCredentials
		}
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		s.loginFailed(ctx, in.Email, user.ID)
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.throttle.Reset(ctx, in.Email); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("login throttle reset failed")
	}

	tokens, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	s.audit.Enqueue(newAuthEvent(domain.EventLoginSucceeded, user.ID, user.Email, 0))

	return &ports.AuthResult{Tokens: tokens, User: user.Public()}, nil
}

func (s *AuthService) loginFailed(ctx context.Context, email, userID string) {
	metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("login throttle record failed")
	}
	s.audit.Enqueue(newAuthEvent(domain.EventLoginFailed, userID, email, 0))
}

// Me re-reads the user so favorites changed since the token was issued show up.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.PublicUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("me: %w", err)
	}
	pub := user.Public()
	return &pub, nil
}

// Logout keeps no server-side session: issued tokens stay valid until they
// expire and the client is expected to discard them.
func (s *AuthService) Logout(_ context.Context, userID string) error {
	s.audit.Enqueue(newAuthEvent(domain.EventLoggedOut, userID, "", 0))
	return nil
}

// Refresh exchanges a valid refresh token for a new access token. The refresh
// token itself is neither rotated nor revoked.
func (s *AuthService) Refresh(_ context.Context, refreshToken string) (string, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("refresh", "invalid").Inc()
		return "", domain.NewValidationError("refreshToken", "Refresh token is required")
	}

	userID, err := s.tokens.Verify(refreshToken, domain.TokenRefresh)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("refresh", "invalid").Inc()
		return "", domain.ErrInvalidRefreshToken
	}

	access, err := s.tokens.Issue(userID, domain.TokenAccess)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("refresh", "error").Inc()
		return "", fmt.Errorf("refresh: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("refresh", "success").Inc()
	s.audit.Enqueue(newAuthEvent(domain.EventTokenRefreshed, userID, "", 0))
	return access, nil
}
