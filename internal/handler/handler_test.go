package handler_test

// The handler tests drive the real router + middleware + service + sqlite
// stack through httptest, with an in-memory database per test. This catches
// wiring mistakes (wrong route, missing middleware) that mocking the service
// layer would hide.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nafis/movielog/internal/auth"
	"github.com/nafis/movielog/internal/handler"
	sqliteRepo "github.com/nafis/movielog/internal/repository/sqlite"
	"github.com/nafis/movielog/internal/service"
)

const testTokenTTL = 15 * time.Minute

// newTestAPI builds the full HTTP stack on an in-memory database, mirroring
// the route layout in internal/server.
func newTestAPI(t *testing.T) http.Handler {
	t.Helper()

	db, err := sqliteRepo.New(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	tokens, err := auth.NewTokenService("handler-test-secret-key", testTokenTTL)
	if err != nil {
		t.Fatalf("creating token service: %v", err)
	}
	passwords := auth.NewPasswordServiceForTest(4) // low bcrypt cost, fast tests

	authService := service.NewAuthService(db, tokens, passwords, logger)
	movieService := service.NewMovieService(db, logger)

	authHandler := handler.NewAuthHandler(authService, testTokenTTL, logger)
	movieHandler := handler.NewMovieHandler(movieService, logger)

	r := chi.NewRouter()
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
	})
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth(tokens))
			r.Get("/movies", movieHandler.HandleList)
			r.Get("/movies/{id}", movieHandler.HandleGetByID)
		})
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/me", authHandler.HandleMe)
			r.Post("/movies", movieHandler.HandleCreate)
			r.Put("/movies/{id}", movieHandler.HandleUpdate)
			r.Delete("/movies/{id}", movieHandler.HandleDelete)
		})
	})
	return r
}

// doJSON sends a JSON request through the router. token == "" means
// anonymous; otherwise it goes in the Authorization header.
func doJSON(t *testing.T, api http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	api.ServeHTTP(rr, req)
	return rr
}

// registerAndLogin creates an account and returns its token and user ID.
func registerAndLogin(t *testing.T, api http.Handler, username string) (token, userID string) {
	t.Helper()

	rr := doJSON(t, api, http.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"email":    fmt.Sprintf("%s@example.com", username),
		"password": "correct horse battery",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", username, rr.Code, rr.Body.String())
	}

	rr = doJSON(t, api, http.MethodPost, "/auth/login", "", map[string]string{
		"username": username,
		"password": "correct horse battery",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("login %s: status %d, body %s", username, rr.Code, rr.Body.String())
	}

	var res struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&res); err != nil {
		t.Fatalf("decoding login response: %v", err)
	}
	return res.Token, res.User.ID
}
