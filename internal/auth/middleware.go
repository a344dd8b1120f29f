package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue takes any key. With a plain string key like "identity",
// ANY package that knows the string could read or shadow the value. A
// package-private type means only this package can create the key, so only
// this package controls what lives under it.
type contextKey string

const identityKey contextKey = "identity"

// TokenCookie is the cookie the login handler sets and the middleware reads.
// HttpOnly, so page scripts can never read the token (XSS protection).
const TokenCookie = "token"

// RequireAuth enforces authentication on protected routes.
//
// It extracts the token (Authorization: Bearer header first, then the
// cookie), verifies it, and stores the Identity in the request context.
// Missing or invalid token → 401, and the request chain stops.
//
// MIDDLEWARE PATTERN IN GO:
// A middleware takes an http.Handler and returns a new one that wraps it.
// Chi applies them in a chain: req → M1 → M2 → Handler → M2 → M1 → resp.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, err := extractIdentity(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				http.Error(w, `{"error":"unauthorized","message":"valid authentication required"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth extracts the identity if a valid token is present but never
// blocks the request.
//
// Used on public routes like GET /api/movies: anonymous visitors can read the
// list, logged-in users additionally get their own identity threaded through
// so the handler can mark which entries are theirs.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ident, err := extractIdentity(r, tokens); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), identityKey, ident))
			}
			// Always continue — no 401 even with no token at all
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext retrieves the verified identity from the request
// context. Returns (nil, false) if the request is anonymous.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	ident, ok := ctx.Value(identityKey).(*Identity)
	return ident, ok && ident != nil && ident.UserID != ""
}

// UserIDFromContext is a convenience wrapper for handlers that only need the
// user ID:
//
//	userID, ok := auth.UserIDFromContext(r.Context())
//	if !ok {
//	    // anonymous
//	}
func UserIDFromContext(ctx context.Context) (string, bool) {
	ident, ok := IdentityFromContext(ctx)
	if !ok {
		return "", false
	}
	return ident.UserID, true
}

// extractIdentity pulls the token off the request and verifies it.
// Shared by RequireAuth and OptionalAuth.
//
// Two transports are accepted:
//   - Authorization: Bearer <jwt>  (API clients)
//   - Cookie: token=<jwt>          (browsers; set HttpOnly on login)
func extractIdentity(r *http.Request, tokens *TokenService) (*Identity, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		if raw, ok := strings.CutPrefix(h, "Bearer "); ok {
			return tokens.Verify(strings.TrimSpace(raw))
		}
	}

	cookie, err := r.Cookie(TokenCookie)
	if err != nil {
		// http.ErrNoCookie — not an error, just an anonymous request
		return nil, err
	}
	return tokens.Verify(cookie.Value)
}
