package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientLimiter holds two token buckets per client IP: a general one for the
// API and a stricter one for /auth, where slow-down matters most (login is
// the endpoint attackers hammer with password guesses).
type clientLimiter struct {
	general  *rate.Limiter
	auth     *rate.Limiter
	lastSeen time.Time
}

// RateLimit is a per-IP rate limiting middleware.
//
// WHY PER-IP?
// A single global limiter would let one abusive client starve everyone.
// Keying by client IP isolates clients from each other. The map of limiters
// is protected by a mutex and garbage-collected so idle IPs don't pile up.
type RateLimit struct {
	generalRPM int
	authRPM    int
	mu         sync.Mutex
	clients    map[string]*clientLimiter
}

// NewRateLimit creates the middleware. Requests-per-minute values at or
// below zero fall back to defaults.
func NewRateLimit(generalRPM, authRPM int) *RateLimit {
	if generalRPM <= 0 {
		generalRPM = 120
	}
	if authRPM <= 0 {
		authRPM = 10
	}

	return &RateLimit{
		generalRPM: generalRPM,
		authRPM:    authRPM,
		clients:    map[string]*clientLimiter{},
	}
}

// Handler wraps next with the rate limit check. Over-limit requests get a
// 429 with a Retry-After header and never reach the handler.
func (m *RateLimit) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := m.getLimiter(clientIP(r))

		target := limiter.general
		if strings.HasPrefix(r.URL.Path, "/auth/") {
			target = limiter.auth
		}

		if !target.Allow() {
			w.Header().Set("Retry-After", "60")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":   "rate_limited",
				"message": "too many requests, slow down",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getLimiter returns the limiter pair for an IP, creating it on first sight.
func (m *RateLimit) getLimiter(ip string) *clientLimiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limiter, ok := m.clients[ip]; ok {
		limiter.lastSeen = time.Now()
		return limiter
	}

	// rate.Every spreads the per-minute budget evenly; the burst equals the
	// full budget so short spikes within the limit aren't rejected.
	created := &clientLimiter{
		general:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(m.generalRPM)), m.generalRPM),
		auth:     rate.NewLimiter(rate.Every(time.Minute/time.Duration(m.authRPM)), m.authRPM),
		lastSeen: time.Now(),
	}
	m.clients[ip] = created
	m.gcLocked()

	return created
}

// gcLocked evicts limiters for IPs not seen recently. Caller holds m.mu.
func (m *RateLimit) gcLocked() {
	if len(m.clients) < 1000 {
		return
	}

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, limiter := range m.clients {
		if limiter.lastSeen.Before(cutoff) {
			delete(m.clients, ip)
		}
	}
}

// clientIP extracts the client address. chi's RealIP middleware runs first
// and rewrites RemoteAddr from X-Forwarded-For / X-Real-IP, so RemoteAddr is
// normally all we need; the port is stripped so one client maps to one key.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if addr := strings.TrimSpace(r.RemoteAddr); addr != "" {
		return addr
	}
	return "unknown"
}
