package repository

import (
	"context"
	"database/sql"
	"time"

	"blog_backend/internal/models"
)

type Authorization interface {
	Create(ctx context.Context, username, passwordHash string) (models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type PostRepo interface {
	Create(ctx context.Context, p models.Post) (models.Post, error)
	GetByID(ctx context.Context, id string) (models.Post, error)
	List(ctx context.Context, f models.PostFilter, limit, offset int) ([]models.Post, error)
	Count(ctx context.Context, f models.PostFilter) (int, error)
	Update(ctx context.Context, id string, patch models.PostPatch) (models.Post, error)
	Delete(ctx context.Context, id string) error
}

// TokenRepo stores ids of session tokens that were logged out before they expired.
type TokenRepo interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type Repository struct {
	Auth   Authorization
	Posts  PostRepo
	Tokens TokenRepo
}

func NewRepository(db *sql.DB, dialect Dialect) *Repository {
	return &Repository{
		Auth:   NewUserRepository(db, dialect),
		Posts:  NewPostRepository(db, dialect),
		Tokens: NewTokenRepository(db, dialect),
	}
}
