package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// User is a registered account. The password is only ever held as a hash.
type User struct {
	ID           int       `json:"id" db:"id" validate:"gte=0"`
	Username     string    `json:"username" db:"username" validate:"required,max=20"`
	Name         string    `json:"name" db:"name" validate:"max=200"`
	Email        string    `json:"email" db:"email" validate:"required,max=120"`
	AboutAuthor  string    `json:"about_author" db:"about_author"`
	DateAdded    time.Time `json:"date_added" db:"date_added" validate:"required"`
	ProfilePic   string    `json:"profile_pic" db:"profile_pic"`
	PasswordHash string    `json:"-" db:"password_hash" validate:"required"`
}

// Post represents a blog post.
type Post struct {
	ID      int       `json:"id" db:"id" validate:"gte=0"`
	Title   string    `json:"title" db:"title" validate:"required,max=200"`
	Slug    string    `json:"slug" db:"slug" validate:"max=50"`
	Content string    `json:"content" db:"content" validate:"max=200"`
	Created time.Time `json:"created" db:"created" validate:"required"`
}

// PostSummary is the public JSON projection of a post.
type PostSummary struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}
