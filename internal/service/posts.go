package service

import (
	"context"
	"fmt"

	"blog_backend/internal/models"
	"blog_backend/internal/repository"

	"golang.org/x/sync/errgroup"
)

type PostService struct {
	postRepo repository.PostRepo
	feed     Feed
}

func NewPostService(postRepo repository.PostRepo, feed Feed) *PostService {
	return &PostService{postRepo: postRepo, feed: feed}
}

// Write stores a post authored by author and announces it on the feed.
func (s *PostService) Write(ctx context.Context, author models.Identity, in NewPost) (models.Post, error) {
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	p, err := s.postRepo.Create(ctx, models.Post{
		Title: in.Title,
		Body:  in.Body,
		Tags:  tags,
		User:  author,
	})
	if err != nil {
		return models.Post{}, err
	}
	if s.feed != nil {
		s.feed.Publish(p)
	}
	return p, nil
}

// List returns one page of posts, newest first, with bodies shortened for
// preview. The page and the total count are fetched concurrently.
func (s *PostService) List(ctx context.Context, f models.PostFilter, page int) (models.PostPage, error) {
	if page < 1 || page > models.MaxPage {
		return models.PostPage{}, models.ErrInvalidPage
	}

	var (
		posts []models.Post
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = s.postRepo.List(gctx, f, models.PageSize, (page-1)*models.PageSize)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.postRepo.Count(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.PostPage{}, fmt.Errorf("list posts: %w", err)
	}

	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Preview())
	}
	return models.PostPage{Posts: out, LastPage: models.LastPage(total)}, nil
}

// Read returns the full post. Malformed ids fail before any query.
func (s *PostService) Read(ctx context.Context, id string) (models.Post, error) {
	if !models.ValidID(id) {
		return models.Post{}, models.ErrInvalidID
	}
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) Update(ctx context.Context, id string, patch models.PostPatch) (models.Post, error) {
	if !models.ValidID(id) {
		return models.Post{}, models.ErrInvalidID
	}
	return s.postRepo.Update(ctx, id, patch)
}

// Remove deletes the post; removing a missing post succeeds.
func (s *PostService) Remove(ctx context.Context, id string) error {
	if !models.ValidID(id) {
		return models.ErrInvalidID
	}
	return s.postRepo.Delete(ctx, id)
}

// CheckOwnership returns models.ErrForbidden unless user wrote post.
func (s *PostService) CheckOwnership(user models.Identity, post models.Post) error {
	if user.ID == "" || user.ID != post.User.ID {
		return models.ErrForbidden
	}
	return nil
}
