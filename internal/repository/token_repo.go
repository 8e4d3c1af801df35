package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type TokenSQL struct {
	db      *sql.DB
	dialect Dialect
}

func NewTokenRepository(db *sql.DB, dialect Dialect) *TokenSQL {
	return &TokenSQL{db: db, dialect: dialect}
}

var _ TokenRepo = (*TokenSQL)(nil)

const (
	insertRevokedTokenSQL = `INSERT INTO revoked_tokens (id, expires_at) VALUES (?, ?) ON CONFLICT (id) DO NOTHING`
	selectRevokedTokenSQL = `SELECT 1 FROM revoked_tokens WHERE id = ?`
	purgeRevokedTokensSQL = `DELETE FROM revoked_tokens WHERE expires_at < ?`
)

// Revoke records tokenID; revoking the same id twice is a no-op.
func (r *TokenSQL) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if _, err := r.db.ExecContext(ctx, r.dialect.rebind(insertRevokedTokenSQL), tokenID, expiresAt.UTC()); err != nil {
		return fmt.Errorf("revoke token %q: %w", tokenID, err)
	}
	return nil
}

func (r *TokenSQL) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, r.dialect.rebind(selectRevokedTokenSQL), tokenID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("select revoked token %q: %w", tokenID, err)
	}
	return true, nil
}

// PurgeExpired drops revocations whose token would have expired anyway.
func (r *TokenSQL) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.dialect.rebind(purgeRevokedTokensSQL), now.UTC())
	if err != nil {
		return 0, fmt.Errorf("purge revoked tokens: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge revoked tokens rows affected: %w", err)
	}
	return n, nil
}
