package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bytebank/internal/models"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// CreateUser creates a new user with the given username and password.
func (db *DB) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	result, err := db.conn.ExecContext(ctx,
		"INSERT INTO users (username, password) VALUES (?, ?)",
		username, password,
	)
	if err != nil {
		var se *sqlite.Error
		if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return nil, fmt.Errorf("%w: %s", models.ErrDuplicateUser, username)
		}
		return nil, storageErr("insert user", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, storageErr("insert user", err)
	}

	return db.getUser(ctx, "SELECT id, username, password, created_at FROM users WHERE id = ?", id)
}

// GetUserByUsername retrieves a user by username.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return db.getUser(ctx, "SELECT id, username, password, created_at FROM users WHERE username = ?", username)
}

func (db *DB) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	err := db.conn.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Password, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %v: %w", arg, models.ErrNotFound)
	}
	if err != nil {
		return nil, storageErr("get user", err)
	}
	return &u, nil
}

// Authenticate returns the user whose credentials match.
func (db *DB) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := db.GetUserByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if u.Password != password {
		return nil, models.ErrInvalidCredentials
	}
	return u, nil
}

// UserCount returns the number of users in the database.
func (db *DB) UserCount(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, storageErr("count users", err)
	}
	return count, nil
}
