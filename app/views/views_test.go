package views

import (
	"bytes"
	"html/template"
	"strings"
	"testing"
	"time"

	"blogdesk/app/forms"
	"blogdesk/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, name string, page *Page) string {
	t.Helper()
	r, err := New()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, name, page))
	return buf.String()
}

func TestEveryPageRendersEmpty(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	for _, name := range []string{Base, Register, UserList, PostCreate, PostList, Search, Example, NotFound, ServerError} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.NoError(t, r.Render(&buf, name, nil))
			assert.Contains(t, buf.String(), "<html")
		})
	}
}

func TestUnknownTemplate(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	var buf bytes.Buffer
	assert.Error(t, r.Render(&buf, "missing", nil))
	assert.Empty(t, buf.String())
}

func TestFlashesAndErrors(t *testing.T) {
	out := render(t, Base, &Page{
		Flashes: []string{"Post Deleted"},
		Errors:  []string{"Please input all data"},
	})
	assert.Contains(t, out, "Post Deleted")
	assert.Contains(t, out, "Please input all data")
}

func TestCSRFFieldIsRendered(t *testing.T) {
	field := template.HTML(`<input type="hidden" name="gorilla.csrf.Token" value="tok">`)
	out := render(t, PostCreate, &Page{CSRFField: field})
	assert.Contains(t, out, `name="gorilla.csrf.Token"`)
}

func TestRegisterKeepsInputButNotPasswords(t *testing.T) {
	form := (&forms.RegistrationForm{Username: "alice", Email: "a@x.io", Password: "secret-pw", Confirm: "secret-pw"}).Redacted()
	out := render(t, Register, &Page{Form: form})
	assert.Contains(t, out, `value="alice"`)
	assert.Contains(t, out, `value="a@x.io"`)
	assert.NotContains(t, out, "secret-pw")
}

func TestListsAndDetails(t *testing.T) {
	created := time.Date(2024, 5, 6, 7, 8, 0, 0, time.UTC)
	post := &models.Post{ID: 3, Title: "Hello", Slug: "hello", Content: "World", Created: created}

	out := render(t, PostList, &Page{Data: []*models.Post{post}})
	assert.Contains(t, out, `href="/post_details/3"`)
	assert.Contains(t, out, "Hello")

	out = render(t, PostDetails, &Page{Data: post})
	assert.Contains(t, out, "World")
	assert.Contains(t, out, `href="/post_edit/3"`)

	out = render(t, PostEdit, &Page{Data: post, Form: forms.PostFromModel(post)})
	assert.Contains(t, out, `action="/post_edit/3"`)
	assert.Contains(t, out, `value="hello"`)

	user := &models.User{ID: 1, Username: "alice", Email: "a@x.io", DateAdded: created}
	out = render(t, UserList, &Page{Data: []*models.User{user}})
	assert.Contains(t, out, `href="/user_details/1"`)
	out = render(t, UserDetails, &Page{Data: user})
	assert.Contains(t, out, "a@x.io")
}

func TestOutputIsEscaped(t *testing.T) {
	out := render(t, Example, &Page{Data: "<script>alert(1)</script>"})
	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.True(t, strings.Contains(out, "&lt;script&gt;"))

	out = render(t, Search, &Page{Form: &forms.SearchForm{Term: `"><b>`}, Data: []*models.Post{}})
	assert.NotContains(t, out, `"><b>`)
	assert.Contains(t, out, "No posts match.")
}
