package models

import (
	"math"
	"time"
)

const (
	// PageSize is the number of posts returned per list page.
	PageSize = 10
	// PreviewLength is the number of characters of body kept in list views.
	PreviewLength = 200

	previewEllipsis = "..."
)

// MaxPage is the largest page whose offset fits in an int.
const MaxPage = math.MaxInt / PageSize

type Post struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags"`
	User      Identity  `json:"user"`
	CreatedAt time.Time `json:"publishedDate"`
}

// PostPatch carries the fields of a partial update; nil means "leave as is".
type PostPatch struct {
	Title *string
	Body  *string
	Tags  *[]string
}

// Empty reports whether the patch changes nothing.
func (p PostPatch) Empty() bool {
	return p.Title == nil && p.Body == nil && p.Tags == nil
}

// PostFilter narrows a post listing. Empty fields are not applied.
type PostFilter struct {
	Username string
	Tag      string
}

// PostPage is one page of a post listing.
type PostPage struct {
	Posts    []Post
	LastPage int
}

// Preview returns a copy of p whose body is cut to PreviewLength characters
// followed by an ellipsis when it is longer than that.
func (p Post) Preview() Post {
	p.Body = truncateBody(p.Body)
	return p
}

func truncateBody(body string) string {
	runes := []rune(body)
	if len(runes) <= PreviewLength {
		return body
	}
	return string(runes[:PreviewLength]) + previewEllipsis
}

// LastPage returns ceil(total / PageSize).
func LastPage(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}
