package validation

import "blog_backend/internal/models"

// RegisterInput is the body of POST /auth/register.
type RegisterInput struct {
	Username string `json:"username" validate:"required,alphanum,min=3,max=20"`
	Password string `json:"password" validate:"required"`
}

// LoginInput is the body of POST /auth/login.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreatePostInput is the body of POST /posts. An empty tags array is accepted,
// a missing one is not.
type CreatePostInput struct {
	Title string   `json:"title" validate:"required"`
	Body  string   `json:"body" validate:"required"`
	Tags  []string `json:"tags" validate:"required,dive,required"`
}

// UpdatePostInput is the body of PATCH /posts/:id. Absent fields are left
// untouched; present ones follow the create rules.
type UpdatePostInput struct {
	Title *string   `json:"title" validate:"omitempty,min=1"`
	Body  *string   `json:"body" validate:"omitempty,min=1"`
	Tags  *[]string `json:"tags" validate:"omitempty,dive,required"`
}

// Patch converts the input into a repository patch.
func (in UpdatePostInput) Patch() models.PostPatch {
	return models.PostPatch{Title: in.Title, Body: in.Body, Tags: in.Tags}
}
