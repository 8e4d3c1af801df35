package service

import (
	"context"
	"time"

	"blog_backend/internal/logger"
	"blog_backend/internal/models"
	"blog_backend/internal/repository"
)

type Authorization interface {
	Register(ctx context.Context, username, password string) (models.User, error)
	Login(ctx context.Context, username, password string) (models.User, error)
	GenerateToken(id models.Identity) (Token, error)
	ParseToken(ctx context.Context, accessToken string) (Session, error)
	NeedsRefresh(s Session) bool
	Logout(ctx context.Context, s Session) error
}

// Posts exposes the post operations; ownership is checked by callers before
// Update/Remove.
type Posts interface {
	Write(ctx context.Context, author models.Identity, in NewPost) (models.Post, error)
	List(ctx context.Context, f models.PostFilter, page int) (models.PostPage, error)
	Read(ctx context.Context, id string) (models.Post, error)
	Update(ctx context.Context, id string, patch models.PostPatch) (models.Post, error)
	Remove(ctx context.Context, id string) error
	CheckOwnership(user models.Identity, post models.Post) error
}

// Feed fans newly written posts out to live subscribers.
type Feed interface {
	Subscribe(f models.PostFilter) (<-chan models.Post, func())
	Publish(p models.Post)
}

// Janitor runs background housekeeping until ctx is canceled.
type Janitor interface {
	Run(ctx context.Context, tick time.Duration)
}

type Service struct {
	Authorization
	Posts
	Feed
	Janitor
}

func NewService(repos *repository.Repository, cfg AuthConfig, log *logger.Logger) *Service {
	feed := NewFeedService(defaultFeedBuffer)
	return &Service{
		Authorization: NewAuthService(repos.Auth, repos.Tokens, cfg),
		Posts:         NewPostService(repos.Posts, feed),
		Feed:          feed,
		Janitor:       NewTokenJanitor(repos.Tokens, log),
	}
}
