package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/forgo/playlister/pkg/jwt"
)

// ============================================================================
// Mock TokenValidator
// ============================================================================

type mockValidator struct {
	validateFunc func(token string) (*jwt.Claims, error)
	seen         string
}

func (m *mockValidator) Validate(token string) (*jwt.Claims, error) {
	m.seen = token
	return m.validateFunc(token)
}

// successValidator returns valid claims for any token
func successValidator(userID, email string) *mockValidator {
	return &mockValidator{
		validateFunc: func(token string) (*jwt.Claims, error) {
			return &jwt.Claims{UserID: userID, Email: email}, nil
		},
	}
}

func errorValidator(err error) *mockValidator {
	return &mockValidator{
		validateFunc: func(token string) (*jwt.Claims, error) {
			return nil, err
		},
	}
}

// captureHandler captures the request context for inspection
type captureHandler struct {
	called bool
	ctx    context.Context
}

func (h *captureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.ctx = r.Context()
	w.WriteHeader(http.StatusOK)
}

// ============================================================================
// Session() Middleware Tests
// ============================================================================

func TestSession_NoToken_CallsNextAnonymously(t *testing.T) {
	t.Parallel()
	validator := successValidator("u1", "a@x.com")
	handler := &captureHandler{}

	Session(validator)(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

	if !handler.called {
		t.Fatal("handler should have been called")
	}
	if GetUserID(handler.ctx) != "" {
		t.Errorf("expected no user id, got %q", GetUserID(handler.ctx))
	}
	if validator.seen != "" {
		t.Error("validator should not be consulted without a token")
	}
}

func TestSession_Cookie_SetsContext(t *testing.T) {
	t.Parallel()
	validator := successValidator("u1", "a@x.com")
	handler := &captureHandler{}

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-token"})
	Session(validator)(handler).ServeHTTP(httptest.NewRecorder(), req)

	if validator.seen != "cookie-token" {
		t.Errorf("expected cookie token to be validated, got %q", validator.seen)
	}
	if GetUserID(handler.ctx) != "u1" {
		t.Errorf("expected UserID 'u1', got %q", GetUserID(handler.ctx))
	}
	if GetUserEmail(handler.ctx) != "a@x.com" {
		t.Errorf("expected email 'a@x.com', got %q", GetUserEmail(handler.ctx))
	}
	if GetClaims(handler.ctx) == nil {
		t.Error("expected claims in context")
	}
}

func TestSession_BearerHeader_SetsContext(t *testing.T) {
	t.Parallel()
	validator := successValidator("u2", "b@x.com")
	handler := &captureHandler{}

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "bearer header-token")
	Session(validator)(handler).ServeHTTP(httptest.NewRecorder(), req)

	if validator.seen != "header-token" {
		t.Errorf("expected header token to be validated, got %q", validator.seen)
	}
	if GetUserID(handler.ctx) != "u2" {
		t.Errorf("expected UserID 'u2', got %q", GetUserID(handler.ctx))
	}
}

func TestSession_CookieWinsOverHeader(t *testing.T) {
	t.Parallel()
	validator := successValidator("u1", "a@x.com")
	handler := &captureHandler{}

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-token"})
	req.Header.Set("Authorization", "Bearer header-token")
	Session(validator)(handler).ServeHTTP(httptest.NewRecorder(), req)

	if validator.seen != "cookie-token" {
		t.Errorf("expected cookie token, got %q", validator.seen)
	}
}

func TestSession_InvalidToken_CallsNextAnonymously(t *testing.T) {
	t.Parallel()
	handler := &captureHandler{}

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "bad"})
	rr := httptest.NewRecorder()
	Session(errorValidator(jwt.ErrTokenExpired))(handler).ServeHTTP(rr, req)

	if !handler.called {
		t.Fatal("handler should have been called")
	}
	if rr.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if GetUserID(handler.ctx) != "" {
		t.Errorf("expected no user id, got %q", GetUserID(handler.ctx))
	}
}

// ============================================================================
// TokenFromRequest Tests
// ============================================================================

func TestTokenFromRequest_MalformedHeaders(t *testing.T) {
	t.Parallel()

	for _, header := range []string{"Basic abc", "Bearer", "Bearertoken", ""} {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		if got := TokenFromRequest(req); got != "" {
			t.Errorf("header %q: expected no token, got %q", header, got)
		}
	}
}

// ============================================================================
// Context Getter Tests
// ============================================================================

func TestContextGetters_EmptyContext(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	if GetUserID(ctx) != "" {
		t.Error("expected empty user id")
	}
	if GetUserEmail(ctx) != "" {
		t.Error("expected empty email")
	}
	if GetClaims(ctx) != nil {
		t.Error("expected nil claims")
	}
}
