package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"blog_backend/internal/models"
	"blog_backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	cookieName      = "access_token"
)

// requestID tags the request with the caller's X-Request-ID or a fresh one.
func (h *Handler) requestID(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" || len(id) > 128 {
		id = uuid.NewString()
	}
	stateOf(c).requestID = id
	c.Header(requestIDHeader, id)
	c.Next()
}

func (h *Handler) accessLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
		"request_id", requestIDFrom(c),
	)
}

// requestTimeout bounds every request except the long-lived post stream.
func (h *Handler) requestTimeout(c *gin.Context) {
	if h.opts.RequestTimeout <= 0 || c.FullPath() == streamPath {
		c.Next()
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.opts.RequestTimeout)
	defer cancel()
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

// identify resolves the access token, if any, into a session. Requests with a
// missing or bad token continue anonymously; gates decide whether that is ok.
func (h *Handler) identify(c *gin.Context) {
	raw, fromCookie := accessToken(c)
	if raw == "" {
		c.Next()
		return
	}

	sess, err := h.services.ParseToken(c.Request.Context(), raw)
	if err != nil {
		if !errors.Is(err, models.ErrUnauthenticated) {
			h.respondError(c, "auth_identify_failed", err)
			return
		}
		if fromCookie {
			h.clearCookie(c)
		}
		c.Next()
		return
	}
	setSession(c, sess)

	// a token refreshed on logout would outlive the revoked one
	if fromCookie && c.FullPath() != logoutPath && h.services.NeedsRefresh(sess) {
		tok, err := h.services.GenerateToken(sess.Identity)
		if err != nil {
			h.log.Warnw("auth_token_refresh_failed", "err", err, "user_id", sess.ID)
		} else {
			h.setCookie(c, tok)
		}
	}
	c.Next()
}

// requireAuthenticated stops anonymous requests with 401.
func (h *Handler) requireAuthenticated(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthenticated})
		return
	}
	c.Next()
}

// loadPost fetches the post named by :id into the request state.
func (h *Handler) loadPost(c *gin.Context) {
	post, err := h.services.Posts.Read(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "post_load_failed", err, "post_id", c.Param("id"))
		return
	}
	setPost(c, post)
	c.Next()
}

// requireOwnership lets only the author of the loaded post through.
func (h *Handler) requireOwnership(c *gin.Context) {
	user, _ := currentUser(c)
	post, _ := currentPost(c)
	if err := h.services.Posts.CheckOwnership(user, post); err != nil {
		h.respondError(c, "post_ownership_failed", err)
		return
	}
	c.Next()
}

// accessToken reads a bearer token first, then the session cookie.
func accessToken(c *gin.Context) (token string, fromCookie bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		scheme, value, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(value), false
		}
		return "", false
	}
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v, true
	}
	return "", false
}

func (h *Handler) setCookie(c *gin.Context, tok service.Token) {
	maxAge := int(time.Until(tok.ExpiresAt).Seconds())
	if maxAge <= 0 {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, tok.Value, maxAge, "/", "", h.opts.CookieSecure, true)
}

func (h *Handler) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, "", -1, "/", "", h.opts.CookieSecure, true)
}
