package service

import (
	"context"
	"sync"
	"time"

	"blog_backend/internal/models"
)

// mockAuthRepo is a lightweight in-test mock for repository.Authorization.
type mockAuthRepo struct {
	CreateFn        func(username, hash string) (models.User, error)
	GetByUsernameFn func(username string) (*models.User, error)

	createCalls []struct {
		username string
		hash     string
	}
	getCalls []string
}

func (m *mockAuthRepo) Create(_ context.Context, username, hash string) (models.User, error) {
	m.createCalls = append(m.createCalls, struct {
		username string
		hash     string
	}{username: username, hash: hash})
	return m.CreateFn(username, hash)
}

func (m *mockAuthRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	m.getCalls = append(m.getCalls, username)
	return m.GetByUsernameFn(username)
}

// mockTokenRepo keeps revocations in memory.
type mockTokenRepo struct {
	mu       sync.Mutex
	revoked  map[string]time.Time
	err      error
	purged   int
	purgeErr error
}

func newMockTokenRepo() *mockTokenRepo {
	return &mockTokenRepo{revoked: map[string]time.Time{}}
}

func (m *mockTokenRepo) Revoke(_ context.Context, id string, exp time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.revoked[id] = exp
	return nil
}

func (m *mockTokenRepo) IsRevoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.revoked[id]
	return ok, nil
}

func (m *mockTokenRepo) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purged++
	if m.purgeErr != nil {
		return 0, m.purgeErr
	}
	var n int64
	for id, exp := range m.revoked {
		if exp.Before(now) {
			delete(m.revoked, id)
			n++
		}
	}
	return n, nil
}

// mockPostRepo is safe for the concurrent List/Count calls made by PostService.List.
type mockPostRepo struct {
	mu sync.Mutex

	created  []models.Post
	createFn func(p models.Post) (models.Post, error)

	posts    []models.Post
	listErr  error
	total    int
	countErr error

	getFn    func(id string) (models.Post, error)
	updateFn func(id string, patch models.PostPatch) (models.Post, error)
	deleteFn func(id string) error

	calls      int
	lastFilter models.PostFilter
	lastLimit  int
	lastOffset int
}

func (m *mockPostRepo) Create(_ context.Context, p models.Post) (models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.created = append(m.created, p)
	if m.createFn != nil {
		return m.createFn(p)
	}
	p.ID = models.NewID()
	p.CreatedAt = time.Now().UTC()
	return p, nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id string) (models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.getFn(id)
}

func (m *mockPostRepo) List(_ context.Context, f models.PostFilter, limit, offset int) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastFilter, m.lastLimit, m.lastOffset = f, limit, offset
	return m.posts, m.listErr
}

func (m *mockPostRepo) Count(_ context.Context, _ models.PostFilter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.total, m.countErr
}

func (m *mockPostRepo) Update(_ context.Context, id string, patch models.PostPatch) (models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.updateFn(id, patch)
}

func (m *mockPostRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return nil
}
