package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nafis/movielog/internal/apperror"
	"github.com/nafis/movielog/internal/model"
	"github.com/nafis/movielog/internal/repository"
)

// Validation and pagination constants.
const (
	MaxMovieContentLength = 100
	DefaultListLimit      = 20
	MaxListLimit          = 100
)

// MovieService handles business logic for movie entries, including the
// ownership guard that protects every mutation.
type MovieService struct {
	movies repository.MovieRepository
	logger *slog.Logger
}

// NewMovieService creates a new MovieService. The caller decides which
// repository implementation to inject — SQLite in production, a fake in tests.
func NewMovieService(movies repository.MovieRepository, logger *slog.Logger) *MovieService {
	return &MovieService{
		movies: movies,
		logger: logger,
	}
}

// Create validates and saves a new movie entry owned by ownerID.
//
// The signature takes primitives, not *http.Request — the service has zero
// knowledge of HTTP and could be driven by a CLI or a job just as well.
func (s *MovieService) Create(ctx context.Context, ownerID, content string) (*model.Movie, error) {
	if ownerID == "" {
		return nil, apperror.Unauthorized("authentication required")
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.ValidationFailed("content", "movie content cannot be empty")
	}
	if len(content) > MaxMovieContentLength {
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("movie content must be %d characters or less", MaxMovieContentLength))
	}

	movie := &model.Movie{
		Content: content,
		OwnerID: ownerID,
	}

	if err := s.movies.Create(ctx, movie); err != nil {
		s.logger.Error("failed to create movie",
			slog.String("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating movie: %w", err)
	}

	s.logger.Info("movie created",
		slog.String("id", movie.ID),
		slog.String("ownerID", movie.OwnerID),
	)

	return movie, nil
}

// GetByID retrieves a movie. Reading is public — no identity needed.
func (s *MovieService) GetByID(ctx context.Context, id string) (*model.Movie, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "movie ID is required")
	}

	return s.movies.GetByID(ctx, id)
}

// List retrieves movies with pagination, oldest first. Public.
func (s *MovieService) List(ctx context.Context, limit, offset int) ([]model.Movie, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	movies, err := s.movies.List(ctx, repository.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.logger.Error("failed to list movies", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing movies: %w", err)
	}

	return movies, nil
}

// AuthorizeMutation is the gate in front of every update and delete.
//
// THE ORDER OF THE CHECKS IS THE CONTRACT:
//  1. No identity            → ErrUnauthorized (even for nonexistent movies)
//  2. Movie doesn't exist    → ErrNotFound
//  3. Identity isn't owner   → ErrForbidden
//
// Existence is checked before ownership, so when both could apply, NotFound
// wins. NotFound and Forbidden being distinguishable is a deliberate choice
// for this resource — unlike login, where revealing whether the username
// exists would be a credential-probing gift, telling a user "that movie is
// gone" vs "that movie isn't yours" leaks nothing useful.
//
// On success the loaded movie is returned so the mutation doesn't fetch twice.
func (s *MovieService) AuthorizeMutation(ctx context.Context, actorID, movieID string) (*model.Movie, error) {
	if actorID == "" {
		return nil, apperror.Unauthorized("authentication required")
	}

	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return nil, err // NotFound (or a storage fault) passes through
	}

	if movie.OwnerID != actorID {
		s.logger.Warn("ownership check failed",
			slog.String("movieID", movieID),
			slog.String("ownerID", movie.OwnerID),
			slog.String("actorID", actorID),
		)
		return nil, apperror.Forbidden("you do not own this movie")
	}

	return movie, nil
}

// Update rewrites a movie's content, owner-only.
func (s *MovieService) Update(ctx context.Context, actorID, movieID, content string) (*model.Movie, error) {
	movie, err := s.AuthorizeMutation(ctx, actorID, movieID)
	if err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.ValidationFailed("content", "movie content cannot be empty")
	}
	if len(content) > MaxMovieContentLength {
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("movie content must be %d characters or less", MaxMovieContentLength))
	}

	movie.Content = content
	if err := s.movies.Update(ctx, movie); err != nil {
		s.logger.Error("failed to update movie",
			slog.String("id", movieID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating movie: %w", err)
	}

	s.logger.Info("movie updated", slog.String("id", movie.ID))

	return movie, nil
}

// Delete permanently removes a movie, owner-only.
func (s *MovieService) Delete(ctx context.Context, actorID, movieID string) error {
	if _, err := s.AuthorizeMutation(ctx, actorID, movieID); err != nil {
		return err
	}

	if err := s.movies.Delete(ctx, movieID); err != nil {
		return err
	}

	s.logger.Info("movie deleted",
		slog.String("id", movieID),
		slog.String("actorID", actorID),
	)
	return nil
}
