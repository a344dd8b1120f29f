package handler_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nafis/movielog/internal/model"
)

// createMovie posts a movie through the API and returns the decoded result.
func createMovie(t *testing.T, api http.Handler, token, content string) model.Movie {
	t.Helper()

	rr := doJSON(t, api, http.MethodPost, "/api/movies", token, map[string]string{"content": content})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create movie: status %d, body %s", rr.Code, rr.Body.String())
	}

	var movie model.Movie
	if err := json.NewDecoder(rr.Body).Decode(&movie); err != nil {
		t.Fatalf("decoding movie: %v", err)
	}
	return movie
}

func TestHandleCreateMovie(t *testing.T) {
	api := newTestAPI(t)
	token, userID := registerAndLogin(t, api, "alice")

	t.Run("authenticated create", func(t *testing.T) {
		movie := createMovie(t, api, token, "Blade Runner")

		assert.Equal(t, "Blade Runner", movie.Content)
		assert.Equal(t, userID, movie.OwnerID)
		assert.NotEmpty(t, movie.ID)
	})

	t.Run("anonymous create is rejected", func(t *testing.T) {
		rr := doJSON(t, api, http.MethodPost, "/api/movies", "", map[string]string{"content": "Alien"})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("empty content", func(t *testing.T) {
		rr := doJSON(t, api, http.MethodPost, "/api/movies", token, map[string]string{"content": "   "})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("content too long", func(t *testing.T) {
		rr := doJSON(t, api, http.MethodPost, "/api/movies", token, map[string]string{
			"content": strings.Repeat("x", 101),
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestHandleListMovies(t *testing.T) {
	api := newTestAPI(t)
	token, userID := registerAndLogin(t, api, "alice")
	createMovie(t, api, token, "first")
	createMovie(t, api, token, "second")

	t.Run("anonymous list", func(t *testing.T) {
		rr := doJSON(t, api, http.MethodGet, "/api/movies", "", nil)

		assert.Equal(t, http.StatusOK, rr.Code)

		var res struct {
			Movies        []model.Movie `json:"movies"`
			CurrentUserID string        `json:"currentUserId"`
		}
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Len(t, res.Movies, 2)
		assert.Empty(t, res.CurrentUserID)

		// Oldest first.
		assert.Equal(t, "first", res.Movies[0].Content)
	})

	t.Run("authenticated list carries the viewer ID", func(t *testing.T) {
		rr := doJSON(t, api, http.MethodGet, "/api/movies", token, nil)

		var res struct {
			CurrentUserID string `json:"currentUserId"`
		}
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, userID, res.CurrentUserID)
	})
}

func TestHandleGetMovie(t *testing.T) {
	api := newTestAPI(t)
	token, _ := registerAndLogin(t, api, "alice")
	movie := createMovie(t, api, token, "Stalker")

	t.Run("existing movie, no auth needed", func(t *testing.T) {
		rr := doJSON(t, api, http.MethodGet, "/api/movies/"+movie.ID, "", nil)

		assert.Equal(t, http.StatusOK, rr.Code)

		var got model.Movie
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, "Stalker", got.Content)
	})

	t.Run("missing movie", func(t *testing.T) {
		rr := doJSON(t, api, http.MethodGet, "/api/movies/no-such-id", "", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestHandleUpdateMovie(t *testing.T) {
	api := newTestAPI(t)
	ownerToken, _ := registerAndLogin(t, api, "owner")
	otherToken, _ := registerAndLogin(t, api, "other")
	movie := createMovie(t, api, ownerToken, "original")

	t.Run("owner can update", func(t *testing.T) {
		rr := doJSON(t, api, http.MethodPut, "/api/movies/"+movie.ID, ownerToken,
			map[string]string{"content": "revised"})

		assert.Equal(t, http.StatusOK, rr.Code)

		var got model.Movie
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, "revised", got.Content)
	})

	t.Run("non-owner gets 403", func(t *testing.T) {
		rr := doJSON(t, api, http.MethodPut, "/api/movies/"+movie.ID, otherToken,
			map[string]string{"content": "hijacked"})

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("anonymous gets 401, even for a missing movie", func(t *testing.T) {
		rr := doJSON(t, api, http.MethodPut, "/api/movies/no-such-id", "",
			map[string]string{"content": "whatever"})

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("authenticated but missing movie gets 404", func(t *testing.T) {
		rr := doJSON(t, api, http.MethodPut, "/api/movies/no-such-id", otherToken,
			map[string]string{"content": "whatever"})

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestHandleDeleteMovie(t *testing.T) {
	api := newTestAPI(t)
	ownerToken, _ := registerAndLogin(t, api, "owner")
	otherToken, _ := registerAndLogin(t, api, "other")

	t.Run("non-owner gets 403 and the movie survives", func(t *testing.T) {
		movie := createMovie(t, api, ownerToken, "protected")

		rr := doJSON(t, api, http.MethodDelete, "/api/movies/"+movie.ID, otherToken, nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)

		rr = doJSON(t, api, http.MethodGet, "/api/movies/"+movie.ID, "", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("owner delete is 204 and permanent", func(t *testing.T) {
		movie := createMovie(t, api, ownerToken, "doomed")

		rr := doJSON(t, api, http.MethodDelete, "/api/movies/"+movie.ID, ownerToken, nil)
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = doJSON(t, api, http.MethodGet, "/api/movies/"+movie.ID, "", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
