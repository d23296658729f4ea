// Package forms declares the HTML forms the application accepts and the
// rules each field must satisfy.
package forms

import (
	"net/http"
	"strings"

	"blogdesk/app/models"
)

// RegistrationForm is submitted to /user_register.
type RegistrationForm struct {
	Username    string `label:"Username" validate:"required,max=20"`
	Name        string `label:"Name" validate:"max=200"`
	Email       string `label:"Email" validate:"required,max=120"`
	AboutAuthor string `label:"About author"`
	Password    string `label:"Password" validate:"required,bcryptlen"`
	Confirm     string `label:"Confirm password" validate:"required,eqfield=Password"`
}

// RegistrationFromRequest reads the registration fields from a parsed POST body.
func RegistrationFromRequest(r *http.Request) *RegistrationForm {
	return &RegistrationForm{
		Username:    strings.TrimSpace(r.PostFormValue("username")),
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Email:       strings.TrimSpace(r.PostFormValue("email")),
		AboutAuthor: strings.TrimSpace(r.PostFormValue("about_author")),
		Password:    r.PostFormValue("password_hash"),
		Confirm:     r.PostFormValue("password_hash2"),
	}
}

// Validate runs the structural checks first and the password match second.
func (f *RegistrationForm) Validate() error {
	return check(f)
}

// Redacted returns a copy safe to render back into the page.
func (f *RegistrationForm) Redacted() *RegistrationForm {
	c := *f
	c.Password = ""
	c.Confirm = ""
	return &c
}

// NewUser builds an unsaved user from the form. The password is not copied;
// callers hash it with SetPassword.
func (f *RegistrationForm) NewUser() *models.User {
	return &models.User{
		Username:    f.Username,
		Name:        f.Name,
		Email:       f.Email,
		AboutAuthor: f.AboutAuthor,
	}
}

// PostForm is submitted to /post_create and /post_edit/{id}.
type PostForm struct {
	Title   string `label:"Title" validate:"required,max=200"`
	Slug    string `label:"Slug" validate:"required,max=50"`
	Content string `label:"Content" validate:"required,max=200"`
}

// PostFromRequest reads the post fields from a parsed POST body.
func PostFromRequest(r *http.Request) *PostForm {
	return &PostForm{
		Title:   strings.TrimSpace(r.PostFormValue("title")),
		Slug:    strings.TrimSpace(r.PostFormValue("slug")),
		Content: strings.TrimSpace(r.PostFormValue("content")),
	}
}

// PostFromModel pre-populates an edit form.
func PostFromModel(p *models.Post) *PostForm {
	return &PostForm{Title: p.Title, Slug: p.Slug, Content: p.Content}
}

func (f *PostForm) Validate() error {
	return check(f)
}

// Apply copies the editable fields onto p.
func (f *PostForm) Apply(p *models.Post) {
	p.Title = f.Title
	p.Slug = f.Slug
	p.Content = f.Content
}

// SearchForm is submitted to /search.
type SearchForm struct {
	Term string `label:"Search" validate:"required,max=200"`
}

func SearchFromRequest(r *http.Request) *SearchForm {
	return &SearchForm{Term: strings.TrimSpace(r.PostFormValue("search_input"))}
}

func (f *SearchForm) Validate() error {
	return check(f)
}
