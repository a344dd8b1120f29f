package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/nafis/movielog/internal/apperror"
	"github.com/nafis/movielog/internal/model"
	"github.com/nafis/movielog/internal/repository"
)

var _ repository.MovieRepository = (*DB)(nil)

// Create inserts a new movie entry.
//
// The movie arrives with Content and OwnerID set by the service; we fill in
// the ID and timestamps. Pointer receiver on the model matters: after
// Create() returns, the caller's struct carries the generated ID.
//
// PARAMETERIZED QUERIES (the ? placeholders):
// Never build SQL with fmt.Sprintf or concatenation — that's how SQL
// injection happens. The driver escapes placeholder values safely.
func (db *DB) Create(ctx context.Context, movie *model.Movie) error {
	movie.ID = xid.New().String()

	now := time.Now()
	movie.CreatedAt = now
	movie.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO movies (id, content, owner_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		movie.ID,
		movie.Content,
		movie.OwnerID,
		movie.CreatedAt,
		movie.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating movie: %w", err)
	}

	return nil
}

// GetByID retrieves a single movie by ID.
// Returns apperror.ErrNotFound if the row doesn't exist.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Movie, error) {
	var m model.Movie

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, content, owner_id, created_at, updated_at
		 FROM movies
		 WHERE id = ?`,
		id,
	).Scan(
		&m.ID,
		&m.Content,
		&m.OwnerID,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("movie", id)
		}
		return nil, fmt.Errorf("sqlite: getting movie %s: %w", id, err)
	}

	return &m, nil
}

// List retrieves movies with pagination, oldest first — the list reads like
// a log, so entries keep their position as new ones are appended.
//
// defer rows.Close() IS CRITICAL:
// sql.Rows holds a pooled connection. Forget Close() and the connection
// never returns to the pool; leak enough of them and the app hangs forever.
func (db *DB) List(ctx context.Context, opts repository.ListOptions) ([]model.Movie, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, content, owner_id, created_at, updated_at
		 FROM movies
		 ORDER BY created_at ASC, id ASC
		 LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing movies: %w", err)
	}
	defer rows.Close()

	movies := make([]model.Movie, 0, limit)

	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(
			&m.ID, &m.Content, &m.OwnerID,
			&m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning movie row: %w", err)
		}
		movies = append(movies, m)
	}

	// rows.Err() catches failures that happened DURING iteration
	// (e.g. the connection dropping mid-scan).
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating movies: %w", err)
	}

	return movies, nil
}

// Update rewrites a movie's content. ID, owner_id, and created_at are
// immutable; only content and updated_at change.
//
// RowsAffected tells us whether the WHERE clause matched anything — zero
// rows affected means the movie doesn't exist, one query instead of a
// SELECT-then-UPDATE pair.
func (db *DB) Update(ctx context.Context, movie *model.Movie) error {
	movie.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE movies
		 SET content = ?, updated_at = ?
		 WHERE id = ?`,
		movie.Content,
		movie.UpdatedAt,
		movie.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating movie %s: %w", movie.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("movie", movie.ID)
	}

	return nil
}

// Delete removes a movie permanently — no soft delete, no trash.
// Same RowsAffected pattern as Update to detect "not found".
func (db *DB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM movies WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting movie %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("movie", id)
	}

	return nil
}
