package service

import (
	"time"

	"blog_backend/internal/models"
)

// AuthConfig holds the token settings read from configuration.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

// Token is a signed access token and its expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Session is what a valid access token resolves to.
type Session struct {
	models.Identity
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// NewPost carries the validated fields of a post to be written.
type NewPost struct {
	Title string
	Body  string
	Tags  []string
}
