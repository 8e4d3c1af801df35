package repository

import (
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect selects the SQL flavour of the configured driver. Queries are
// written with '?' placeholders and rebound for drivers that need it.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

const pgUniqueViolation = "23505"

// rebind rewrites '?' placeholders into $1..$n for Postgres.
func (d Dialect) rebind(q string) string {
	if d != DialectPostgres {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// tagCondition matches posts whose JSON tags array contains the bound value.
func (d Dialect) tagCondition() string {
	if d == DialectPostgres {
		return "posts.tags::jsonb @> jsonb_build_array(?::text)"
	}
	return "EXISTS (SELECT 1 FROM json_each(posts.tags) WHERE json_each.value = ?)"
}

// isUniqueViolation reports whether err is a unique/primary key constraint failure.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			// extended result codes disabled
			return strings.Contains(liteErr.Error(), "UNIQUE constraint failed")
		}
	}
	return false
}
