package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"blog_backend/internal/models"
)

type UserRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewUserRepository(db *sql.DB, dialect Dialect) *UserRepository {
	return &UserRepository{db: db, dialect: dialect}
}

// Ensure implementation of Authorization interface at compile time.
var _ Authorization = (*UserRepository)(nil)

const (
	insertUserSQL           = `INSERT INTO users (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)`
	selectUserByUsernameSQL = `SELECT id, username, password_hash, created_at FROM users WHERE username = ?`
)

// Create inserts a new user. A username taken in the meantime surfaces as
// models.ErrConflict through the table's unique index.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash string) (models.User, error) {
	u := models.User{
		ID:           models.NewID(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx, r.dialect.rebind(insertUserSQL), u.ID, u.Username, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("insert user %q: %w", username, models.ErrConflict)
		}
		return models.User{}, fmt.Errorf("insert user %q: %w", username, err)
	}
	return u, nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, r.dialect.rebind(selectUserByUsernameSQL), username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}
