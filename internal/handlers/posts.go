package handlers

import (
	"net/http"
	"strconv"

	"blog_backend/internal/models"
	"blog_backend/internal/service"
	"blog_backend/internal/validation"

	"github.com/gin-gonic/gin"
)

const lastPageHeader = "Last-Page"

// PostRequest is the Swagger model of the create/update payload.
type PostRequest struct {
	Title string   `json:"title" example:"Hello"`
	Body  string   `json:"body" example:"First post"`
	Tags  []string `json:"tags" example:"go,web"`
}

// @Summary      Write post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        body  body      PostRequest  true  "Post"
// @Success      200   {object}  models.Post
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/posts [post]
// @Security     BearerAuth
func (h *Handler) writePost(c *gin.Context) {
	var in validation.CreatePostInput
	if err := validation.Bind(c.Request.Body, &in); err != nil {
		h.respondError(c, "post_write_bad_body", err)
		return
	}

	author, _ := currentUser(c)
	post, err := h.services.Posts.Write(c.Request.Context(), author, service.NewPost{
		Title: in.Title,
		Body:  in.Body,
		Tags:  in.Tags,
	})
	if err != nil {
		h.respondError(c, "post_write_failed", err, "user_id", author.ID)
		return
	}
	c.JSON(http.StatusOK, post)
}

// @Summary      List posts
// @Description  Newest first, 10 per page, bodies shortened to 200 characters.
// @Tags         posts
// @Produce      json
// @Param        page      query     int     false  "Page, starting at 1"
// @Param        username  query     string  false  "Author"
// @Param        tag       query     string  false  "Tag"
// @Success      200       {array}   models.Post
// @Header       200       {integer}  Last-Page  "Number of the last page"
// @Failure      400       {object}  map[string]string
// @Failure      500       {object}  map[string]string
// @Router       /api/posts [get]
func (h *Handler) listPosts(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		h.respondError(c, "post_list_bad_page", models.ErrInvalidPage)
		return
	}
	filter := postFilter(c)

	res, err := h.services.Posts.List(c.Request.Context(), filter, page)
	if err != nil {
		h.respondError(c, "post_list_failed", err, "page", page)
		return
	}
	c.Header(lastPageHeader, strconv.Itoa(res.LastPage))
	c.JSON(http.StatusOK, res.Posts)
}

// @Summary      Read post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  models.Post
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/posts/{id} [get]
func (h *Handler) readPost(c *gin.Context) {
	post, _ := currentPost(c)
	c.JSON(http.StatusOK, post)
}

// @Summary      Update post
// @Description  Only the fields present in the body change.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        id    path      string       true  "Post id"
// @Param        body  body      PostRequest  true  "Fields to change"
// @Success      200   {object}  models.Post
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/posts/{id} [patch]
// @Security     BearerAuth
func (h *Handler) updatePost(c *gin.Context) {
	var in validation.UpdatePostInput
	if err := validation.Bind(c.Request.Body, &in); err != nil {
		h.respondError(c, "post_update_bad_body", err)
		return
	}

	post, _ := currentPost(c)
	updated, err := h.services.Posts.Update(c.Request.Context(), post.ID, in.Patch())
	if err != nil {
		h.respondError(c, "post_update_failed", err, "post_id", post.ID)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary      Delete post
// @Tags         posts
// @Param        id   path  string  true  "Post id"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/posts/{id} [delete]
// @Security     BearerAuth
func (h *Handler) removePost(c *gin.Context) {
	post, _ := currentPost(c)
	if err := h.services.Posts.Remove(c.Request.Context(), post.ID); err != nil {
		h.respondError(c, "post_remove_failed", err, "post_id", post.ID)
		return
	}
	c.Status(http.StatusNoContent)
}

func postFilter(c *gin.Context) models.PostFilter {
	return models.PostFilter{
		Username: c.Query("username"),
		Tag:      c.Query("tag"),
	}
}
