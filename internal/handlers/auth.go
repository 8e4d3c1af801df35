package handlers

import (
	"net/http"

	"blog_backend/internal/validation"

	"github.com/gin-gonic/gin"
)

// Credentials is the Swagger model of the register/login payload.
type Credentials struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"s3cret"`
}

// @Summary      Register
// @Description  Creates a user and starts a session (access_token cookie).
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      Credentials  true  "Credentials"
// @Success      200   {object}  models.Identity
// @Failure      400   {object}  map[string]interface{}
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var in validation.RegisterInput
	if err := validation.Bind(c.Request.Body, &in); err != nil {
		h.respondError(c, "auth_register_bad_body", err)
		return
	}

	user, err := h.services.Register(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		h.respondError(c, "auth_register_failed", err, "username", in.Username)
		return
	}

	tok, err := h.services.GenerateToken(user.Identity())
	if err != nil {
		h.respondError(c, "auth_token_failed", err, "user_id", user.ID)
		return
	}
	h.setCookie(c, tok)
	h.log.Infow("auth_registered", "user_id", user.ID, "username", user.Username)

	c.JSON(http.StatusOK, user.Identity())
}

// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      Credentials  true  "Credentials"
// @Success      200   {object}  map[string]interface{}  "user, token"
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var in validation.LoginInput
	if err := validation.Bind(c.Request.Body, &in); err != nil {
		h.respondError(c, "auth_login_bad_body", err)
		return
	}

	user, err := h.services.Login(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		h.respondError(c, "auth_login_failed", err, "username", in.Username)
		return
	}

	tok, err := h.services.GenerateToken(user.Identity())
	if err != nil {
		h.respondError(c, "auth_token_failed", err, "user_id", user.ID)
		return
	}
	h.setCookie(c, tok)

	c.JSON(http.StatusOK, gin.H{"user": user.Identity(), "token": tok.Value})
}

// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  models.Identity
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/check [get]
// @Security     BearerAuth
func (h *Handler) check(c *gin.Context) {
	user, _ := currentUser(c)
	c.JSON(http.StatusOK, user)
}

// @Summary      Logout
// @Description  Revokes the current token, if any, and clears the cookie.
// @Tags         auth
// @Success      204
// @Failure      500  {object}  map[string]string
// @Router       /api/auth/logout [post]
func (h *Handler) logout(c *gin.Context) {
	if sess, ok := currentSession(c); ok {
		if err := h.services.Logout(c.Request.Context(), sess); err != nil {
			h.respondError(c, "auth_logout_failed", err, "user_id", sess.ID)
			return
		}
	}
	h.clearCookie(c)
	c.Status(http.StatusNoContent)
}
