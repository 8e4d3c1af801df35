package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"blog_backend/internal/models"
)

type PostSQL struct {
	db      *sql.DB
	dialect Dialect
}

func NewPostRepository(db *sql.DB, dialect Dialect) *PostSQL {
	return &PostSQL{db: db, dialect: dialect}
}

var _ PostRepo = (*PostSQL)(nil)

const (
	postColumns = `id, title, body, tags, user_id, username, created_at`

	insertPostSQL     = `INSERT INTO posts (` + postColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	selectPostByIDSQL = `SELECT ` + postColumns + ` FROM posts WHERE id = ?`
	selectPostsSQL    = `SELECT ` + postColumns + ` FROM posts`
	countPostsSQL     = `SELECT COUNT(*) FROM posts`
	deletePostSQL     = `DELETE FROM posts WHERE id = ?`
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// marshalTags converts the slice to a JSON array; nil becomes "[]".
func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// unmarshalTags parses a JSON array into a slice; never returns nil on success.
func unmarshalTags(s string) ([]string, error) {
	tags := []string{}
	if s == "" {
		return tags, nil
	}
	if err := json.Unmarshal([]byte(s), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func scanPost(s rowScanner) (models.Post, error) {
	var (
		p       models.Post
		rawTags string
	)
	if err := s.Scan(&p.ID, &p.Title, &p.Body, &rawTags, &p.User.ID, &p.User.Username, &p.CreatedAt); err != nil {
		return models.Post{}, err
	}
	tags, err := unmarshalTags(rawTags)
	if err != nil {
		return models.Post{}, fmt.Errorf("decode tags of post %q: %w", p.ID, err)
	}
	p.Tags = tags
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}

// Create inserts p with a fresh id and creation time and returns the stored post.
func (r *PostSQL) Create(ctx context.Context, p models.Post) (models.Post, error) {
	p.ID = models.NewID()
	p.CreatedAt = time.Now().UTC()
	if p.Tags == nil {
		p.Tags = []string{}
	}

	tags, err := marshalTags(p.Tags)
	if err != nil {
		return models.Post{}, fmt.Errorf("encode tags: %w", err)
	}

	_, err = r.db.ExecContext(ctx, r.dialect.rebind(insertPostSQL),
		p.ID, p.Title, p.Body, tags, p.User.ID, p.User.Username, p.CreatedAt)
	if err != nil {
		return models.Post{}, fmt.Errorf("insert post: %w", err)
	}
	return p, nil
}

// GetByID returns models.ErrNotFound when no post has the id.
func (r *PostSQL) GetByID(ctx context.Context, id string) (models.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, r.dialect.rebind(selectPostByIDSQL), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Post{}, models.ErrNotFound
		}
		return models.Post{}, fmt.Errorf("select post %q: %w", id, err)
	}
	return p, nil
}

// where builds the WHERE clause for f; absent filters are left out entirely.
func (r *PostSQL) where(f models.PostFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if u := strings.TrimSpace(f.Username); u != "" {
		conds = append(conds, "posts.username = ?")
		args = append(args, u)
	}
	if t := strings.TrimSpace(f.Tag); t != "" {
		conds = append(conds, r.dialect.tagCondition())
		args = append(args, t)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns posts matching f, newest first.
func (r *PostSQL) List(ctx context.Context, f models.PostFilter, limit, offset int) ([]models.Post, error) {
	where, args := r.where(f)
	q := selectPostsSQL + where + " ORDER BY id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("select posts: %w", err)
	}
	defer rows.Close()

	out := make([]models.Post, 0, limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return out, nil
}

func (r *PostSQL) Count(ctx context.Context, f models.PostFilter) (int, error) {
	where, args := r.where(f)
	var n int
	if err := r.db.QueryRowContext(ctx, r.dialect.rebind(countPostsSQL+where), args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

// Update applies the non-nil fields of patch and returns the post as stored
// afterwards. An empty patch just reads the post back.
func (r *PostSQL) Update(ctx context.Context, id string, patch models.PostPatch) (models.Post, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}

	var (
		sets []string
		args []any
	)
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Body != nil {
		sets = append(sets, "body = ?")
		args = append(args, *patch.Body)
	}
	if patch.Tags != nil {
		tags, err := marshalTags(*patch.Tags)
		if err != nil {
			return models.Post{}, fmt.Errorf("encode tags: %w", err)
		}
		sets = append(sets, "tags = ?")
		args = append(args, tags)
	}
	args = append(args, id)

	q := "UPDATE posts SET " + strings.Join(sets, ", ") + " WHERE id = ? RETURNING " + postColumns
	p, err := scanPost(r.db.QueryRowContext(ctx, r.dialect.rebind(q), args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Post{}, models.ErrNotFound
		}
		return models.Post{}, fmt.Errorf("update post %q: %w", id, err)
	}
	return p, nil
}

// Delete removes the post if present; a missing id is not an error.
func (r *PostSQL) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, r.dialect.rebind(deletePostSQL), id); err != nil {
		return fmt.Errorf("delete post %q: %w", id, err)
	}
	return nil
}
