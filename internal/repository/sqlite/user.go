package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/nafis/movielog/internal/apperror"
	"github.com/nafis/movielog/internal/model"
	"github.com/nafis/movielog/internal/repository"
)

// COMPILE-TIME INTERFACE CHECK:
// `var _ X = (*Y)(nil)` assigns a nil *Y to a variable of interface type X.
// If *Y doesn't implement X, the compiler errors right here instead of at
// some distant call site. Standard Go practice for interface implementations.
var _ repository.UserRepository = (*DB)(nil)

// Create inserts a new user.
//
// ID GENERATION WITH xid:
// xid produces 20-char, URL-safe, creation-time-sortable IDs like
// "cv37rs3pp9olc6atsptg" — shorter than a UUID and friendlier in URLs.
//
// UNIQUENESS:
// We do NOT pre-check for duplicates here. The INSERT either succeeds or
// trips a UNIQUE constraint, which we translate into apperror.ErrConflict
// naming the offending field. Letting the database arbitrate means two
// concurrent registrations for the same username cannot both succeed —
// one INSERT wins, the other gets the constraint error.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// The constraint message names the column, e.g.
			// "UNIQUE constraint failed: users.username"
			if strings.Contains(err.Error(), "users.email") {
				return apperror.Conflict("email", "email already registered")
			}
			return apperror.Conflict("username", "username already taken")
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by internal ID.
// Returns apperror.ErrNotFound if no such user exists.
func (db *DB) GetByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx,
		`SELECT id, username, email, password_hash, created_at
		 FROM users WHERE id = ?`, id)
}

// GetByUsername retrieves a user by username — the login lookup.
// Returns apperror.ErrNotFound if no such user exists; the auth service is
// responsible for collapsing that into InvalidCredentials so clients can't
// probe which usernames are registered.
func (db *DB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return db.getUser(ctx,
		`SELECT id, username, email, password_hash, created_at
		 FROM users WHERE username = ?`, username)
}

func (db *DB) getUser(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		// sql.ErrNoRows is a sentinel, not a real failure — translate it to
		// our domain's NotFound so callers never see database/sql details.
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	return &u, nil
}
