package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/forgo/playlister/internal/middleware"
	"github.com/forgo/playlister/internal/model"
	"github.com/forgo/playlister/internal/service"
)

// AuthHandler handles account endpoints. The session token is delivered
// in an HTTP-only cookie that the browser client sends back on every call.
type AuthHandler struct {
	authService  *service.AuthService
	cookieSecure bool
	tokenTTL     time.Duration
	logger       *slog.Logger
}

// AuthHandlerConfig holds configuration for the auth handler
type AuthHandlerConfig struct {
	AuthService  *service.AuthService
	CookieSecure bool
	TokenTTL     time.Duration
	Logger       *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg AuthHandlerConfig) *AuthHandler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		authService:  cfg.AuthService,
		cookieSecure: cfg.CookieSecure,
		tokenTTL:     cfg.TokenTTL,
		logger:       logger,
	}
}

// userResponse wraps a public user in the shape the client expects
type userResponse struct {
	Success bool             `json:"success"`
	User    model.PublicUser `json:"user"`
}

// loggedInResponse represents the GET /auth/loggedIn body
type loggedInResponse struct {
	LoggedIn bool              `json:"loggedIn"`
	User     *model.PublicUser `json:"user"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	result, err := h.authService.Register(r.Context(), req)
	if err != nil {
		h.handleAuthError(w, r, err)
		return
	}

	h.setSessionCookie(w, result.Token)
	WriteJSON(w, http.StatusCreated, userResponse{Success: true, User: result.User.ToPublic()})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		h.handleAuthError(w, r, err)
		return
	}

	h.setSessionCookie(w, result.Token)
	WriteJSON(w, http.StatusOK, userResponse{Success: true, User: result.User.ToPublic()})
}

// Logout handles GET /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: h.sameSite(),
	})
	WriteJSON(w, http.StatusOK, struct{}{})
}

// LoggedIn handles GET /auth/loggedIn
func (h *AuthHandler) LoggedIn(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.CurrentUser(r.Context(), middleware.GetUserID(r.Context()))
	switch {
	case err == nil:
		public := user.ToPublic()
		WriteJSON(w, http.StatusOK, loggedInResponse{LoggedIn: true, User: &public})
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrUserNotFound):
		WriteJSON(w, http.StatusOK, loggedInResponse{LoggedIn: false})
	default:
		h.handleAuthError(w, r, err)
	}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	cookie := &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: h.sameSite(),
	}
	if h.tokenTTL > 0 {
		cookie.MaxAge = int(h.tokenTTL.Seconds())
	}
	http.SetCookie(w, cookie)
}

// sameSite relaxes the policy for cross-site clients, which browsers only
// allow over secure cookies.
func (h *AuthHandler) sameSite() http.SameSite {
	if h.cookieSecure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

func (h *AuthHandler) handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	problem := MapServiceError(err)
	if problem.Status >= http.StatusInternalServerError {
		h.logger.Error("auth request failed",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
	}
	WriteError(w, problem)
}
