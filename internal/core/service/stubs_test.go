package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/cinefav/favorites-api/internal/core/domain"
	"github.com/cinefav/favorites-api/internal/infrastructure/security"
	"github.com/cinefav/favorites-api/internal/pkg/validation"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	seq     int
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Favorites = slices.Clone(u.Favorites)
	return &clone
}

func withoutHash(u *domain.User) *domain.User {
	c := cloneUser(u)
	c.PasswordHash = ""
	return c
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("user-%d", r.seq)
	c.Favorites = []int{}
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	r.byID[c.ID] = c
	return withoutHash(c), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return withoutHash(u), nil
}

func (r *stubUserRepo) findByEmail(email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Email == domain.NormalizeEmail(email) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, err := r.findByEmail(email)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

func (r *stubUserRepo) FindByEmailWithPassword(_ context.Context, email string) (*domain.User, error) {
	return r.findByEmail(email)
}

func (r *stubUserRepo) AddFavorite(_ context.Context, userID string, movieID int) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if !slices.Contains(u.Favorites, movieID) {
		u.Favorites = append(u.Favorites, movieID)
	}
	return withoutHash(u), nil
}

func (r *stubUserRepo) AddFavoriteIfAbsent(_ context.Context, userID string, movieID int) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if slices.Contains(u.Favorites, movieID) {
		return nil, domain.ErrAlreadyFavorite
	}
	u.Favorites = append(u.Favorites, movieID)
	return withoutHash(u), nil
}

func (r *stubUserRepo) RemoveFavorite(_ context.Context, userID string, movieID int) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Favorites = slices.DeleteFunc(u.Favorites, func(id int) bool { return id == movieID })
	return withoutHash(u), nil
}

func (r *stubUserRepo) delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

type stubThrottle struct {
	failures map[string]int
	max      int
	err      error
}

func newStubThrottle(limit int) *stubThrottle {
	return &stubThrottle{failures: make(map[string]int), max: limit}
}

func (t *stubThrottle) Blocked(_ context.Context, email string) (bool, error) {
	if t.err != nil {
		return false, t.err
	}
	return t.failures[email] >= t.max, nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, email string) error {
	t.failures[email]++
	return t.err
}

func (t *stubThrottle) Reset(_ context.Context, email string) error {
	delete(t.failures, email)
	return t.err
}

type stubAudit struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (a *stubAudit) Enqueue(e domain.AuthEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *stubAudit) types() []domain.AuthEventType {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuthEventType, len(a.events))
	for i, e := range a.events {
		out[i] = e.Type
	}
	return out
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

const (
	testAccessSecret  = "access-secret"
	testRefreshSecret = "refresh-secret"
)

func newTestTokens(t *testing.T) *security.JWTManager {
	t.Helper()
	m, err := security.NewJWTManager(security.TokenConfig{
		AccessSecret:  testAccessSecret,
		AccessTTL:     time.Hour,
		RefreshSecret: testRefreshSecret,
		RefreshTTL:    24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	return m
}

type authFixture struct {
	svc      *AuthService
	repo     *stubUserRepo
	tokens   *security.JWTManager
	throttle *stubThrottle
	audit    *stubAudit
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		repo:     newStubUserRepo(),
		tokens:   newTestTokens(t),
		throttle: newStubThrottle(3),
		audit:    &stubAudit{},
	}
	f.svc = NewAuthService(
		f.repo,
		security.NewBcryptHasher(bcrypt.MinCost),
		f.tokens,
		f.throttle,
		f.audit,
		validation.New(),
		zerolog.Nop(),
	)
	return f
}
