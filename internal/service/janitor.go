package service

import (
	"context"
	"time"

	"blog_backend/internal/logger"
	"blog_backend/internal/repository"
)

// TokenJanitor periodically drops revocation records of tokens that have
// expired on their own.
type TokenJanitor struct {
	tokenRepo repository.TokenRepo
	log       *logger.Logger
}

func NewTokenJanitor(tokenRepo repository.TokenRepo, log *logger.Logger) *TokenJanitor {
	return &TokenJanitor{tokenRepo: tokenRepo, log: log}
}

// Run ticks at the given interval until ctx is canceled.
func (j *TokenJanitor) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			j.sweep(ctx, now)
		}
	}
}

func (j *TokenJanitor) sweep(ctx context.Context, now time.Time) {
	n, err := j.tokenRepo.PurgeExpired(ctx, now.UTC())
	if j.log == nil {
		return
	}
	if err != nil {
		j.log.Errorw("revoked_tokens_purge_failed", "err", err)
		return
	}
	if n > 0 {
		j.log.Debugw("revoked_tokens_purged", "count", n)
	}
}
