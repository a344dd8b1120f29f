package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/nafis/movielog/internal/auth"
	"github.com/nafis/movielog/internal/service"
)

// AuthHandler exposes the authentication flow over HTTP.
//
// ROUTES:
//   - POST /auth/register → create an account (no auto-login)
//   - POST /auth/login    → verify credentials, issue token + cookie
//   - POST /auth/logout   → clear the cookie (token stays valid until expiry)
//   - GET  /api/me        → current user's profile (auth required)
//
// The handler owns only HTTP concerns — parsing bodies, setting cookies,
// choosing status codes. All rules live in the AuthService.
type AuthHandler struct {
	authSvc  *service.AuthService
	tokenTTL time.Duration
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler. tokenTTL is used for the cookie
// Max-Age so the cookie dies when the token would anyway.
func NewAuthHandler(authSvc *service.AuthService, tokenTTL time.Duration, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authSvc:  authSvc,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /auth/register
// BODY: {"username": "alice", "email": "alice@example.com", "password": "..."}
//
// 201 with the new user on success (PasswordHash is json:"-" so the hash
// can't leak). 409 for a taken username/email, 400 for a weak password.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid register JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "bad_request", Message: "invalid JSON body",
		})
		return
	}

	user, err := h.authSvc.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleLogin verifies credentials and issues a token.
//
// HTTP: POST /auth/login
// BODY: {"username": "alice", "password": "..."}
//
// The token is returned in the body (for API clients using Authorization:
// Bearer) AND set as an HttpOnly cookie (for browsers). HttpOnly means page
// scripts can't read it, which keeps XSS from stealing sessions.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid login JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "bad_request", Message: "invalid JSON body",
		})
		return
	}

	token, user, err := h.authSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		// Secure: true, // enable in production behind HTTPS
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

// HandleLogout clears the token cookie.
//
// HTTP: POST /auth/logout
//
// POST, not GET: logout changes client state, and GET would be open to CSRF
// and browser prefetching. Always 200, with or without a token — logout is
// idempotent. The token itself stays valid until expiry (stateless JWTs, no
// revocation list); dropping the cookie just stops the browser sending it.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var tokenStr string
	if cookie, err := r.Cookie(auth.TokenCookie); err == nil {
		tokenStr = cookie.Value
	}
	_ = h.authSvc.Logout(r.Context(), tokenStr)

	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // delete the cookie immediately
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the currently authenticated user's profile.
//
// HTTP: GET /api/me
// Auth: required (RequireAuth middleware sets the identity in context)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but don't assume.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "unauthorized", Message: "valid authentication required",
		})
		return
	}

	user, err := h.authSvc.GetUserByID(r.Context(), userID)
	if err != nil {
		h.logger.Error("HandleMe: user lookup failed", slog.String("userID", userID))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
