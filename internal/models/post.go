package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Post represents a bulletin board post
type Post struct {
	ID        uuid.UUID `json:"id"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	FileURLs  []string  `json:"file_urls"`
	Views     int       `json:"views"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Post search fields
const (
	PostFieldAll     = "all"
	PostFieldTitle   = "title"
	PostFieldContent = "content"
)

// PostSearchFields lists the fields a post listing may be searched by
var PostSearchFields = []string{PostFieldAll, PostFieldTitle, PostFieldContent}

// FieldValue returns the searchable text of the named field
func (p Post) FieldValue(field string) (string, bool) {
	switch field {
	case PostFieldTitle:
		return p.Title, true
	case PostFieldContent:
		return p.Content, true
	case PostFieldAll:
		return strings.Join([]string{p.Title, p.Content}, "\n"), true
	}
	return "", false
}

// ItemStatus returns an empty status, posts have no workflow
func (p Post) ItemStatus() string { return "" }

// CreatedTime returns the creation timestamp
func (p Post) CreatedTime() time.Time { return p.CreatedAt }

// ItemKey returns the stable identifier used to break ordering ties
func (p Post) ItemKey() string { return p.ID.String() }

// CreatePostRequest represents the request to create a post.
// Number is optional, the store assigns the next one when it is zero.
type CreatePostRequest struct {
	Number   int      `json:"number" binding:"omitempty,min=1"`
	Title    string   `json:"title" binding:"required,max=200,nospaces"`
	Content  string   `json:"content" binding:"required"`
	FileURLs []string `json:"file_urls" binding:"omitempty,dive,url"`
}

// UpdatePostRequest represents the request to update a post
type UpdatePostRequest struct {
	Title    *string   `json:"title,omitempty" binding:"omitempty,max=200,nospaces"`
	Content  *string   `json:"content,omitempty"`
	FileURLs *[]string `json:"file_urls,omitempty" binding:"omitempty,dive,url"`
}
