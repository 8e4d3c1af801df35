package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"blog_backend/internal/models"
	"blog_backend/internal/repository/db"
)

// newSQLiteRepo opens a real on-disk SQLite database for end-to-end repository checks.
func newSQLiteRepo(t *testing.T) (*Repository, *sql.DB) {
	t.Helper()
	conn, err := db.InitDB(db.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewRepository(conn, DialectSQLite), conn
}

func TestSQLite_UsernameUniqueIndexIsAuthoritative(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := testCtx(t)

	if _, err := repo.Auth.Create(ctx, "alice", "h1"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := repo.Auth.Create(ctx, "alice", "h2")
	if !errors.Is(err, models.ErrConflict) {
		t.Fatalf("expected ErrConflict from unique index, got %v", err)
	}

	u, err := repo.Auth.GetByUsername(ctx, "alice")
	if err != nil || u == nil {
		t.Fatalf("GetByUsername: %v %v", u, err)
	}
	if u.PasswordHash != "h1" {
		t.Fatalf("second insert must not overwrite the first user")
	}
}

func TestSQLite_PostLifecycle(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := testCtx(t)
	alice := models.Identity{ID: models.NewID(), Username: "alice"}
	bob := models.Identity{ID: models.NewID(), Username: "bob"}

	var ids []string
	for i := 0; i < 23; i++ {
		author := alice
		tags := []string{"go"}
		if i%2 == 1 {
			author = bob
			tags = []string{"rust", "go"}
		}
		p, err := repo.Posts.Create(ctx, models.Post{
			Title: fmt.Sprintf("post %d", i), Body: "body", Tags: tags, User: author,
		})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		ids = append(ids, p.ID)
	}

	total, err := repo.Posts.Count(ctx, models.PostFilter{})
	if err != nil || total != 23 {
		t.Fatalf("Count all: %d %v", total, err)
	}
	if lp := models.LastPage(total); lp != 3 {
		t.Fatalf("expected last page 3, got %d", lp)
	}

	page, err := repo.Posts.List(ctx, models.PostFilter{}, models.PageSize, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page) != 10 || page[0].ID != ids[22] || page[9].ID != ids[13] {
		t.Fatalf("first page not newest-first: got first=%s", page[0].ID)
	}

	last, err := repo.Posts.List(ctx, models.PostFilter{}, models.PageSize, 20)
	if err != nil || len(last) != 3 {
		t.Fatalf("last page: %d %v", len(last), err)
	}

	rust, err := repo.Posts.Count(ctx, models.PostFilter{Tag: "rust"})
	if err != nil || rust != 11 {
		t.Fatalf("Count rust: %d %v", rust, err)
	}
	aliceGo, err := repo.Posts.Count(ctx, models.PostFilter{Username: "alice", Tag: "go"})
	if err != nil || aliceGo != 12 {
		t.Fatalf("Count alice+go: %d %v", aliceGo, err)
	}

	newTitle := "renamed"
	updated, err := repo.Posts.Update(ctx, ids[1], models.PostPatch{Title: &newTitle})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "renamed" || updated.Body != "body" || len(updated.Tags) != 2 || updated.Tags[0] != "rust" {
		t.Fatalf("unexpected updated post: %+v", updated)
	}
	if updated.User != bob {
		t.Fatalf("author snapshot changed: %+v", updated.User)
	}

	if _, err := repo.Posts.Update(ctx, models.NewID(), models.PostPatch{Title: &newTitle}); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating missing post, got %v", err)
	}

	if err := repo.Posts.Delete(ctx, ids[1]); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Posts.GetByID(ctx, ids[1]); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Posts.Delete(ctx, ids[1]); err != nil {
		t.Fatalf("second Delete should be a no-op, got %v", err)
	}
}

func TestSQLite_TokenRevocation(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := testCtx(t)
	now := time.Now().UTC()

	if err := repo.Tokens.Revoke(ctx, "old", now.Add(-time.Hour)); err != nil {
		t.Fatalf("Revoke old: %v", err)
	}
	if err := repo.Tokens.Revoke(ctx, "fresh", now.Add(time.Hour)); err != nil {
		t.Fatalf("Revoke fresh: %v", err)
	}
	if err := repo.Tokens.Revoke(ctx, "fresh", now.Add(time.Hour)); err != nil {
		t.Fatalf("Revoke twice: %v", err)
	}

	n, err := repo.Tokens.PurgeExpired(ctx, now)
	if err != nil || n != 1 {
		t.Fatalf("PurgeExpired: %d %v", n, err)
	}
	if revoked, _ := repo.Tokens.IsRevoked(ctx, "fresh"); !revoked {
		t.Fatalf("fresh token should still be revoked")
	}
	if revoked, _ := repo.Tokens.IsRevoked(ctx, "old"); revoked {
		t.Fatalf("old revocation should have been purged")
	}
}
