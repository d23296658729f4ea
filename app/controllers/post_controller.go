package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"blogdesk/app/forms"
	"blogdesk/app/middleware"
	"blogdesk/app/models"
	"blogdesk/app/services"
	"blogdesk/app/views"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	*Base
	posts *services.PostService
}

// NewPostController creates a new PostController
func NewPostController(base *Base, posts *services.PostService) *PostController {
	return &PostController{Base: base, posts: posts}
}

// Create shows the new post form and handles its submission
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		pc.render(w, r, http.StatusOK, views.PostCreate, nil)
		return
	}

	form := forms.PostFromRequest(r)
	_, err := pc.posts.Create(r.Context(), form)

	var formErr *forms.Error
	switch {
	case err == nil:
		pc.redirect(w, r, "/post_list")
	case errors.As(err, &formErr):
		pc.render(w, r, http.StatusOK, views.PostCreate, &views.Page{Form: form, Errors: formErr.Messages})
	default:
		pc.fail(w, r, err)
	}
}

// List renders every post
func (pc *PostController) List(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.posts.List(r.Context())
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	pc.render(w, r, http.StatusOK, views.PostList, &views.Page{Data: posts})
}

// Details renders one post
func (pc *PostController) Details(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		pc.NotFound(w, r)
		return
	}
	post, err := pc.posts.Get(r.Context(), id)
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	pc.render(w, r, http.StatusOK, views.PostDetails, &views.Page{Data: post})
}

// Edit shows a post's form prefilled and handles its submission
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		pc.NotFound(w, r)
		return
	}

	if r.Method != http.MethodPost {
		post, err := pc.posts.Get(r.Context(), id)
		if err != nil {
			pc.fail(w, r, err)
			return
		}
		pc.render(w, r, http.StatusOK, views.PostEdit, &views.Page{Form: forms.PostFromModel(post), Data: post})
		return
	}

	form := forms.PostFromRequest(r)
	_, err := pc.posts.Update(r.Context(), id, form)

	var formErr *forms.Error
	switch {
	case err == nil:
		pc.redirect(w, r, "/post_details/"+strconv.Itoa(id))
	case errors.As(err, &formErr):
		page := &views.Page{Form: form, Data: &models.Post{ID: id}, Errors: formErr.Messages}
		pc.render(w, r, http.StatusOK, views.PostEdit, page)
	default:
		pc.fail(w, r, err)
	}
}

// Delete removes a post and returns to the list
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		pc.NotFound(w, r)
		return
	}
	if err := pc.posts.Delete(r.Context(), id); err != nil {
		pc.fail(w, r, err)
		return
	}
	pc.flash(w, r, "Post Deleted")
	pc.redirect(w, r, "/post_list")
}

// API lists every post as JSON
func (pc *PostController) API(w http.ResponseWriter, r *http.Request) {
	summaries, err := pc.posts.Summaries(r.Context())
	if err != nil {
		pc.sendJSONError(w, r, err)
		return
	}
	pc.sendJSON(w, r, map[string][]models.PostSummary{"post_data": summaries})
}

// Search lists posts whose title contains the submitted term. Anything but a
// POST with a non-blank term goes back to the post list.
func (pc *PostController) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		pc.redirect(w, r, "/post_list")
		return
	}
	form := forms.SearchFromRequest(r)
	if form.Term == "" {
		pc.redirect(w, r, "/post_list")
		return
	}

	posts, err := pc.posts.Search(r.Context(), form)
	var formErr *forms.Error
	switch {
	case err == nil:
		pc.render(w, r, http.StatusOK, views.Search, &views.Page{Form: form, Data: posts})
	case errors.As(err, &formErr):
		pc.render(w, r, http.StatusOK, views.Search, &views.Page{Form: form, Errors: formErr.Messages})
	default:
		pc.fail(w, r, err)
	}
}

// Helper methods for consistent response handling

func (pc *PostController) sendJSON(w http.ResponseWriter, r *http.Request, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		middleware.Entry(pc.log, r).WithError(err).Warn("could not write json response")
	}
}

func (pc *PostController) sendJSONError(w http.ResponseWriter, r *http.Request, err error) {
	middleware.Entry(pc.log, r).WithError(err).Error("post api failed")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
}
