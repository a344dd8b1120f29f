// Package auth provides JWT token issuance/verification and password hashing.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. User registers with username/email/password → password is bcrypt-hashed and stored
// 2. User logs in → server verifies the hash and issues a signed JWT
// 3. The JWT travels back on each request (Authorization: Bearer or the "token" cookie)
// 4. Middleware verifies the JWT and puts the identity in the request context
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — the server stores no session data. All
// the information needed (user ID, expiry, freshness) lives inside the signed
// token, and the signature ensures nobody can alter it without the secret key.
//
// THE FLIP SIDE — NO REVOCATION:
// Because the server stores nothing, it also cannot "forget" a token. A token
// stays valid for its whole window even after logout; logout only tells the
// client to discard it. Fixing that would need a server-side denylist, which
// this app deliberately does not have.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures, from least to most suspicious. The service layer
// collapses all three into Unauthorized before they reach a client; keeping
// them distinct here makes logs and tests precise about WHY a token failed.
var (
	// ErrTokenExpired: the token was genuine but its validity window has passed.
	ErrTokenExpired = errors.New("auth: token expired")
	// ErrTokenMalformed: the string cannot be parsed as a JWT at all.
	ErrTokenMalformed = errors.New("auth: token malformed")
	// ErrTokenSignatureInvalid: parseable, but tampered with or signed by
	// someone else (wrong secret, foreign issuer, unexpected algorithm).
	ErrTokenSignatureInvalid = errors.New("auth: token signature invalid")
)

// DefaultTokenTTL is the validity window applied when the config doesn't
// override it. Short on purpose: with no revocation list, the TTL is the only
// bound on how long a leaked token stays usable.
const DefaultTokenTTL = 15 * time.Minute

const issuer = "movielog"

// Identity is what a verified token proves: who the bearer is, and whether
// the token came straight from a password check.
//
// WHY TRACK FRESHNESS?
// A "fresh" token is issued directly from password verification. A refreshed
// or derived token would not be. Sensitive operations (changing a password,
// deleting an account) could later demand a fresh token, forcing re-entry of
// the password even with a valid session.
type Identity struct {
	UserID string
	Fresh  bool
}

// TokenService issues and verifies the signed identity tokens.
//
// It holds the HMAC secret used to sign and verify. The same secret must be
// used for both operations — it's process-wide configuration, loaded once at
// startup and never mutated.
type TokenService struct {
	secret []byte
	ttl    time.Duration

	// now is the clock used for both issuance and verification. Injectable so
	// tests can move time past the expiry window without sleeping.
	now func() time.Time
}

// NewTokenService creates a TokenService with the given secret and validity
// window. The secret should be at least 32 bytes of random data in production:
//
//	JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// claims is the JWT payload. jwt.RegisteredClaims supplies the standard
// fields (Subject, ExpiresAt, IssuedAt, Issuer); Fresh is our one custom claim.
type claims struct {
	Fresh bool `json:"fresh"`
	jwt.RegisteredClaims
}

// Issue creates and signs a token binding userID for the configured window.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key signs and
// verifies. Fine for a single-server deployment; multi-server key rotation
// would want RS256 instead.
func (s *TokenService) Issue(userID string, fresh bool) (string, error) {
	return s.IssueWithDuration(userID, fresh, s.ttl)
}

// IssueWithDuration creates a token with a custom validity window.
// Used by tests to mint already-expired tokens without waiting.
func (s *TokenService) IssueWithDuration(userID string, fresh bool, d time.Duration) (string, error) {
	now := s.now()

	c := claims{
		Fresh: fresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses and checks a token string, returning the identity it proves.
//
// CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired (against s.now, not the wall clock directly)
//   - Issuer matches ours (rejects tokens minted by other apps)
//   - Algorithm is HS256 (prevents algorithm-confusion attacks: without
//     jwt.WithValidMethods an attacker could present an alg=none token)
//
// Verification is a pure function of the token, the secret, and the clock —
// no database lookup, no shared mutable state.
func (s *TokenService) Verify(tokenStr string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			// Bad signature, foreign issuer, missing expiry — anything that
			// means "not a token we signed".
			return nil, fmt.Errorf("%w: %v", ErrTokenSignatureInvalid, err)
		}
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, ErrTokenSignatureInvalid
	}
	if c.Subject == "" {
		return nil, ErrTokenMalformed
	}

	return &Identity{UserID: c.Subject, Fresh: c.Fresh}, nil
}
