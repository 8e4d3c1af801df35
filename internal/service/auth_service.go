package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"blog_backend/internal/models"
	"blog_backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 7 * 24 * time.Hour

// Reasons wrapped under models.ErrInvalidCredentials / models.ErrUnauthenticated.
var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidToken    = errors.New("invalid token")
	ErrRevokedToken    = errors.New("token revoked")

	// ErrUnusablePassword is returned for passwords bcrypt cannot hash
	// (blank or longer than 72 bytes).
	ErrUnusablePassword = errors.New("password cannot be used")
)

// AuthService handles user auth logic
type AuthService struct {
	authRepo  repository.Authorization
	tokenRepo repository.TokenRepo
	key       []byte
	ttl       time.Duration
	now       func() time.Time
	verify    func(hash, password string) error
}

func NewAuthService(repo repository.Authorization, tokens repository.TokenRepo, cfg AuthConfig) *AuthService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{
		authRepo:  repo,
		tokenRepo: tokens,
		key:       []byte(cfg.SigningKey),
		ttl:       ttl,
		now:       time.Now,
		verify:    verifyPassword,
	}
}

// Register creates a user after checking the username is free. The lookup only
// gives an early, friendly conflict; the unique index decides races.
func (s *AuthService) Register(ctx context.Context, username, password string) (models.User, error) {
	existing, err := s.authRepo.GetByUsername(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	if existing != nil {
		return models.User{}, fmt.Errorf("username %q: %w", username, models.ErrConflict)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	return s.authRepo.Create(ctx, username, hash)
}

// Login verifies credentials and returns the user.
func (s *AuthService) Login(ctx context.Context, username, password string) (models.User, error) {
	u, err := s.authRepo.GetByUsername(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	if u == nil {
		// unknown users pay the same bcrypt cost as a wrong password
		_ = s.verify(dummyHash(), password)
		return models.User{}, fmt.Errorf("%w: %w", models.ErrInvalidCredentials, ErrUserNotFound)
	}
	if err := s.verify(u.PasswordHash, password); err != nil {
		return models.User{}, fmt.Errorf("%w: %w", models.ErrInvalidCredentials, ErrInvalidPassword)
	}
	return *u, nil
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// GenerateToken issues a signed JWT for id.
func (s *AuthService) GenerateToken(id models.Identity) (Token, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   id.ID,
		Username: id.Username,
	})
	signed, err := token.SignedString(s.key)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Value: signed, ExpiresAt: exp}, nil
}

// ParseToken validates accessToken and resolves it to a session. Every failure
// wraps models.ErrUnauthenticated except store errors while checking revocation.
func (s *AuthService) ParseToken(ctx context.Context, accessToken string) (Session, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.key, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", models.ErrUnauthenticated, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" || claims.ID == "" || claims.ExpiresAt == nil {
		return Session{}, fmt.Errorf("%w: %w", models.ErrUnauthenticated, ErrInvalidToken)
	}

	revoked, err := s.tokenRepo.IsRevoked(ctx, claims.ID)
	if err != nil {
		return Session{}, err
	}
	if revoked {
		return Session{}, fmt.Errorf("%w: %w", models.ErrUnauthenticated, ErrRevokedToken)
	}

	sess := Session{
		Identity:  models.Identity{ID: claims.UserID, Username: claims.Username},
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		sess.IssuedAt = claims.IssuedAt.Time
	}
	return sess, nil
}

// NeedsRefresh reports whether less than half of the token lifetime is left.
func (s *AuthService) NeedsRefresh(sess Session) bool {
	return sess.ExpiresAt.Sub(s.now()) < s.ttl/2
}

// Logout revokes the session's token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, sess Session) error {
	if sess.TokenID == "" {
		return nil
	}
	return s.tokenRepo.Revoke(ctx, sess.TokenID, sess.ExpiresAt)
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("%w: password is empty", ErrUnusablePassword)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: %w", ErrUnusablePassword, err)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// dummyHash is compared against when the user does not exist.
var dummyHash = sync.OnceValue(func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte("no-such-user"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("bcrypt dummy hash: %v", err))
	}
	return string(hash)
})

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
