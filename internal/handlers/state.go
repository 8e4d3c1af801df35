package handlers

import (
	"blog_backend/internal/models"
	"blog_backend/internal/service"

	"github.com/gin-gonic/gin"
)

const stateKey = "blog_backend.request_state"

// requestState is what the middlewares learn about a request. It is created
// once per request and only touched through the accessors below.
type requestState struct {
	requestID string
	session   *service.Session
	post      *models.Post
}

func stateOf(c *gin.Context) *requestState {
	if v, ok := c.Get(stateKey); ok {
		if st, ok := v.(*requestState); ok {
			return st
		}
	}
	st := &requestState{}
	c.Set(stateKey, st)
	return st
}

func requestIDFrom(c *gin.Context) string {
	return stateOf(c).requestID
}

func setSession(c *gin.Context, s service.Session) {
	stateOf(c).session = &s
}

func currentSession(c *gin.Context) (service.Session, bool) {
	st := stateOf(c)
	if st.session == nil {
		return service.Session{}, false
	}
	return *st.session, true
}

func currentUser(c *gin.Context) (models.Identity, bool) {
	s, ok := currentSession(c)
	return s.Identity, ok
}

func setPost(c *gin.Context, p models.Post) {
	stateOf(c).post = &p
}

func currentPost(c *gin.Context) (models.Post, bool) {
	st := stateOf(c)
	if st.post == nil {
		return models.Post{}, false
	}
	return *st.post, true
}
