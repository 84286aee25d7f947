package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cinefav/favorites-api/internal/core/domain"
	"github.com/cinefav/favorites-api/internal/infrastructure/security"
)

type stubFinder struct {
	users map[string]*domain.User
	err   error
}

func (f *stubFinder) FindByID(_ context.Context, id string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newGate(t *testing.T, finder *stubFinder) (echo.MiddlewareFunc, *security.JWTManager, *clock) {
	t.Helper()
	clk := &clock{now: time.Now()}
	tokens, err := security.NewJWTManager(security.TokenConfig{
		AccessSecret:  "access",
		AccessTTL:     time.Minute,
		RefreshSecret: "refresh",
		RefreshTTL:    time.Hour,
	}, security.WithClock(clk.Now))
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	return Protect(tokens, finder, zerolog.Nop()), tokens, clk
}

func runGate(mw echo.MiddlewareFunc, authHeader string, next echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := mw(next)(c)
	return rec, err
}

func mustNotReach(t *testing.T) echo.HandlerFunc {
	return func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	}
}

func TestProtect_ValidToken(t *testing.T) {
	alice := &domain.User{ID: "u1", Name: "Alice", Email: "alice@example.com"}
	mw, tokens, _ := newGate(t, &stubFinder{users: map[string]*domain.User{"u1": alice}})

	tok, err := tokens.Issue("u1", domain.TokenAccess)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	called := false
	rec, err := runGate(mw, "Bearer "+tok, func(c echo.Context) error {
		called = true
		u, ok := UserFromContext(c.Request().Context())
		if !ok || u.ID != "u1" {
			t.Fatalf("user not attached to context: %+v", u)
		}
		return c.NoContent(http.StatusOK)
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProtect_MissingHeader(t *testing.T) {
	mw, _, _ := newGate(t, &stubFinder{})

	_, err := runGate(mw, "", mustNotReach(t))
	if !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestProtect_InvalidHeaderFormat(t *testing.T) {
	mw, _, _ := newGate(t, &stubFinder{})

	for _, h := range []string{"Token abc", "Bearer", "Bearer   ", "Basic dXNlcjpwYXNz"} {
		_, err := runGate(mw, h, mustNotReach(t))
		if !errors.Is(err, domain.ErrNoToken) {
			t.Fatalf("%q: expected ErrNoToken, got %v", h, err)
		}
	}
}

func TestProtect_InvalidToken(t *testing.T) {
	mw, tokens, _ := newGate(t, &stubFinder{})

	_, err := runGate(mw, "Bearer not-a-token", mustNotReach(t))
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	refresh, _ := tokens.Issue("u1", domain.TokenRefresh)
	_, err = runGate(mw, "Bearer "+refresh, mustNotReach(t))
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("refresh token must not pass the gate, got %v", err)
	}
}

func TestProtect_ExpiredToken(t *testing.T) {
	mw, tokens, clk := newGate(t, &stubFinder{users: map[string]*domain.User{"u1": {ID: "u1"}}})

	tok, _ := tokens.Issue("u1", domain.TokenAccess)
	clk.now = clk.now.Add(2 * time.Minute)

	_, err := runGate(mw, "Bearer "+tok, mustNotReach(t))
	if !errors.Is(err, domain.ErrTokenExpired) || !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected expired invalid token, got %v", err)
	}
}

func TestProtect_UserGone(t *testing.T) {
	mw, tokens, _ := newGate(t, &stubFinder{users: map[string]*domain.User{}})

	tok, _ := tokens.Issue("deleted", domain.TokenAccess)
	_, err := runGate(mw, "Bearer "+tok, mustNotReach(t))
	if !errors.Is(err, domain.ErrTokenUserGone) {
		t.Fatalf("expected ErrTokenUserGone, got %v", err)
	}
}

func TestProtect_StoreFault(t *testing.T) {
	mw, tokens, _ := newGate(t, &stubFinder{err: errors.New("mongo unreachable")})

	tok, _ := tokens.Issue("u1", domain.TokenAccess)
	_, err := runGate(mw, "Bearer "+tok, mustNotReach(t))

	var gateErr *AuthGateError
	if !errors.As(err, &gateErr) {
		t.Fatalf("expected AuthGateError, got %v", err)
	}
	if errors.Is(err, domain.ErrInvalidToken) || errors.Is(err, domain.ErrTokenUserGone) {
		t.Fatalf("store fault must be distinct from auth failures: %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]struct {
		token string
		ok    bool
	}{
		"Bearer abc":  {"abc", true},
		"bearer abc":  {"abc", true},
		"BEARER  abc": {"abc", true},
		"Bearerabc":   {"", false},
		"":            {"", false},
	}
	for header, want := range cases {
		tok, ok := bearerToken(header)
		if tok != want.token || ok != want.ok {
			t.Fatalf("%q: got (%q,%v) want (%q,%v)", header, tok, ok, want.token, want.ok)
		}
	}
}
