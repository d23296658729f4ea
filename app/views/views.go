// Package views renders the embedded HTML pages.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var files embed.FS

// Page names accepted by Render.
const (
	Base        = "base"
	Register    = "register"
	UserList    = "user_list"
	UserDetails = "user_details"
	PostCreate  = "post_create"
	PostList    = "post_list"
	PostEdit    = "post_edit"
	PostDetails = "post_details"
	Search      = "search"
	Example     = "example"
	NotFound    = "404"
	ServerError = "500"
)

var pages = []string{
	Base, Register, UserList, UserDetails, PostCreate, PostList,
	PostEdit, PostDetails, Search, Example, NotFound, ServerError,
}

// Page is the data every template receives.
type Page struct {
	Flashes   []string
	Errors    []string
	CSRFField template.HTML
	// Form holds the in-progress input of the page's form, if any.
	Form any
	Data any
}

// Renderer holds one parsed template set per page, each sharing the layout.
type Renderer struct {
	templates map[string]*template.Template
}

// New parses every page. It fails if any template is malformed.
func New() (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		t, err := template.ParseFS(files,
			"templates/layout.html",
			"templates/post_form.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		templates[name] = t
	}
	return &Renderer{templates: templates}, nil
}

// Render executes the named page into w. Output is buffered so a failing
// template never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, name string, page *Page) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	if page == nil {
		page = &Page{}
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
