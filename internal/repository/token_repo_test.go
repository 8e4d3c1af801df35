package repository

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestTokenRepository_Revoke(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewTokenRepository(db, DialectSQLite)

	exp := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(insertRevokedTokenSQL)).
		WithArgs("jti-1", exp).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Revoke(testCtx(t), "jti-1", exp); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
}

func TestTokenRepository_IsRevoked(t *testing.T) {
	cases := []struct {
		name    string
		expect  func(sqlmock.Sqlmock)
		want    bool
		wantErr bool
	}{
		{
			name: "revoked",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectRevokedTokenSQL)).
					WithArgs("jti").
					WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
			},
			want: true,
		},
		{
			name: "not revoked",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectRevokedTokenSQL)).
					WithArgs("jti").
					WillReturnError(sql.ErrNoRows)
			},
			want: false,
		},
		{
			name: "query error",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectRevokedTokenSQL)).
					WithArgs("jti").
					WillReturnError(errors.New("down"))
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, cleanup := newMockDB(t)
			defer cleanup()
			repo := NewTokenRepository(db, DialectSQLite)
			tc.expect(mock)

			got, err := repo.IsRevoked(testCtx(t), "jti")
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("IsRevoked: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTokenRepository_PurgeExpired(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewTokenRepository(db, DialectSQLite)

	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(purgeRevokedTokensSQL)).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.PurgeExpired(testCtx(t), now)
	if err != nil {
		t.Fatalf("PurgeExpired: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 purged, got %d", n)
	}
}
