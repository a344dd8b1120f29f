package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/nafis/movielog/internal/auth"
	"github.com/nafis/movielog/internal/service"
)

// MovieHandler exposes the movie list over HTTP.
//
// ROUTES:
//   - GET    /api/movies       → list (public; OptionalAuth)
//   - GET    /api/movies/{id}  → single movie (public)
//   - POST   /api/movies       → create (RequireAuth)
//   - PUT    /api/movies/{id}  → update (RequireAuth + ownership)
//   - DELETE /api/movies/{id}  → delete (RequireAuth + ownership)
//
// The ownership decisions are NOT made here — the service's guard returns
// Unauthorized/NotFound/Forbidden and writeError translates them. The
// handler's only identity job is pulling the user ID out of the context the
// middleware populated.
type MovieHandler struct {
	movies *service.MovieService
	logger *slog.Logger
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(movies *service.MovieService, logger *slog.Logger) *MovieHandler {
	return &MovieHandler{movies: movies, logger: logger}
}

type movieRequest struct {
	Content string `json:"content"`
}

// listResponse pairs the page of movies with the viewer's ID (empty when
// anonymous) so a frontend can mark which entries the viewer owns.
type listResponse struct {
	Movies        []any  `json:"movies"`
	CurrentUserID string `json:"currentUserId,omitempty"`
}

// HandleList returns movies, oldest first.
//
// HTTP: GET /api/movies?limit=20&offset=0
// Auth: optional — anonymous users see the same list, just with no
// ownership information attached.
func (h *MovieHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	movies, err := h.movies.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	viewerID, _ := auth.UserIDFromContext(r.Context())

	out := listResponse{Movies: make([]any, 0, len(movies)), CurrentUserID: viewerID}
	for i := range movies {
		out.Movies = append(out.Movies, movies[i])
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetByID returns a single movie.
//
// HTTP: GET /api/movies/{id}
// r.PathValue("id") extracts the {id} URL parameter chi matched.
func (h *MovieHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	movie, err := h.movies.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, movie)
}

// HandleCreate saves a new movie owned by the authenticated user.
//
// HTTP: POST /api/movies
// BODY: {"content": "Blade Runner"}
func (h *MovieHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req movieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid movie JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "bad_request", Message: "invalid JSON body",
		})
		return
	}

	movie, err := h.movies.Create(r.Context(), userID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, movie)
}

// HandleUpdate rewrites a movie's content. Owner-only.
//
// HTTP: PUT /api/movies/{id}
// BODY: {"content": "new text"}
func (h *MovieHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req movieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid movie JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "bad_request", Message: "invalid JSON body",
		})
		return
	}

	movie, err := h.movies.Update(r.Context(), userID, r.PathValue("id"), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, movie)
}

// HandleDelete permanently removes a movie. Owner-only.
//
// HTTP: DELETE /api/movies/{id}
// 204 No Content on success — the body would have nothing to say.
func (h *MovieHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.movies.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
