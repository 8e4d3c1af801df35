package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"blog_backend/internal/models"
	"blog_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerUser models.User
	registerErr  error
	loginUser    models.User
	loginErr     error
	token        service.Token
	tokenErr     error
	sessions     map[string]service.Session
	parseErr     error
	refresh      bool
	logoutErr    error

	registerCalls int
	lastUsername  string
	lastPassword  string
	loggedOut     []service.Session
}

func (m *mockAuth) Register(ctx context.Context, username, password string) (models.User, error) {
	m.registerCalls++
	m.lastUsername, m.lastPassword = username, password
	return m.registerUser, m.registerErr
}

func (m *mockAuth) Login(ctx context.Context, username, password string) (models.User, error) {
	m.lastUsername, m.lastPassword = username, password
	return m.loginUser, m.loginErr
}

func (m *mockAuth) GenerateToken(id models.Identity) (service.Token, error) {
	return m.token, m.tokenErr
}

func (m *mockAuth) ParseToken(ctx context.Context, accessToken string) (service.Session, error) {
	if m.parseErr != nil {
		return service.Session{}, m.parseErr
	}
	if s, ok := m.sessions[accessToken]; ok {
		return s, nil
	}
	return service.Session{}, fmt.Errorf("%w: unknown token", models.ErrUnauthenticated)
}

func (m *mockAuth) NeedsRefresh(s service.Session) bool { return m.refresh }

func (m *mockAuth) Logout(ctx context.Context, s service.Session) error {
	m.loggedOut = append(m.loggedOut, s)
	return m.logoutErr
}

// mockPosts keeps posts in memory and mirrors the service's id and page checks.
type mockPosts struct {
	mu    sync.Mutex
	posts map[string]models.Post

	listPage   models.PostPage
	listErr    error
	writeErr   error
	lastFilter models.PostFilter
	lastPage   int
	listCalls  int
	writeCalls int
}

func newMockPosts(seed ...models.Post) *mockPosts {
	m := &mockPosts{posts: make(map[string]models.Post)}
	for _, p := range seed {
		m.posts[p.ID] = p
	}
	return m
}

func (m *mockPosts) Write(ctx context.Context, author models.Identity, in service.NewPost) (models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeCalls++
	if m.writeErr != nil {
		return models.Post{}, m.writeErr
	}
	p := models.Post{
		ID:        models.NewID(),
		Title:     in.Title,
		Body:      in.Body,
		Tags:      in.Tags,
		User:      author,
		CreatedAt: time.Now().UTC(),
	}
	m.posts[p.ID] = p
	return p, nil
}

func (m *mockPosts) List(ctx context.Context, f models.PostFilter, page int) (models.PostPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	m.lastFilter, m.lastPage = f, page
	if page < 1 || page > models.MaxPage {
		return models.PostPage{}, models.ErrInvalidPage
	}
	return m.listPage, m.listErr
}

func (m *mockPosts) Read(ctx context.Context, id string) (models.Post, error) {
	if !models.ValidID(id) {
		return models.Post{}, models.ErrInvalidID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return models.Post{}, models.ErrNotFound
	}
	return p, nil
}

func (m *mockPosts) Update(ctx context.Context, id string, patch models.PostPatch) (models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return models.Post{}, models.ErrNotFound
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Body != nil {
		p.Body = *patch.Body
	}
	if patch.Tags != nil {
		p.Tags = *patch.Tags
	}
	m.posts[id] = p
	return p, nil
}

func (m *mockPosts) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.posts, id)
	return nil
}

func (m *mockPosts) CheckOwnership(user models.Identity, post models.Post) error {
	if user.ID == "" || user.ID != post.User.ID {
		return models.ErrForbidden
	}
	return nil
}

func (m *mockPosts) get(id string) (models.Post, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	return p, ok
}

// ---- Shared Test Helpers ----

var (
	alice = models.Identity{ID: "64b7f0c2a1b2c3d4e5f60001", Username: "alice"}
	bob   = models.Identity{ID: "64b7f0c2a1b2c3d4e5f60002", Username: "bob"}
)

// sessionsFor maps "<username>-token" to a session for each identity.
func sessionsFor(ids ...models.Identity) map[string]service.Session {
	out := make(map[string]service.Session, len(ids))
	for _, id := range ids {
		out[id.Username+"-token"] = service.Session{
			Identity:  id,
			TokenID:   "jti-" + id.Username,
			ExpiresAt: time.Now().Add(time.Hour),
		}
	}
	return out
}

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, Options{RequestTimeout: 2 * time.Second})
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func doRequest(r http.Handler, method, path, body string, hdr http.Header) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
