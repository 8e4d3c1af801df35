package handlers

import (
	"errors"
	"net/http"

	"blog_backend/internal/models"
	"blog_backend/internal/service"
	"blog_backend/internal/validation"

	"github.com/gin-gonic/gin"
)

const (
	errValidation      = "validation failed"
	errInternal        = "internal server error"
	errUnauthenticated = "unauthenticated"
)

// respondError maps err onto a status and aborts the chain. Only unexpected
// errors are logged, under logKey.
func (h *Handler) respondError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	var vErr *validation.Error
	switch {
	case errors.As(err, &vErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errValidation, "details": vErr.Violations})
	case errors.Is(err, models.ErrInvalidID):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": models.ErrInvalidID.Error()})
	case errors.Is(err, models.ErrInvalidPage):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": models.ErrInvalidPage.Error()})
	case errors.Is(err, service.ErrUnusablePassword):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrConflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": models.ErrNotFound.Error()})
	case errors.Is(err, models.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": models.ErrForbidden.Error()})
	case errors.Is(err, models.ErrInvalidCredentials):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": models.ErrInvalidCredentials.Error()})
	case errors.Is(err, models.ErrUnauthenticated):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthenticated})
	default:
		fields := append([]interface{}{"err", err, "request_id", requestIDFrom(c)}, kv...)
		h.log.Errorw(logKey, fields...)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errInternal})
	}
}
