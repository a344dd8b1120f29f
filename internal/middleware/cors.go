package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS returns a middleware allowing cross-origin requests from the given
// origins. AllowCredentials is on because browser clients authenticate with
// the token cookie; that also means "*" can't be used as an origin (the
// fetch spec forbids wildcard + credentials), so with no origins configured
// we fall back to the local dev frontend.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	handler := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		MaxAge:           3600,
		AllowCredentials: true,
	})

	return handler.Handler
}
