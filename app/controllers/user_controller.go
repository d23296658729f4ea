package controllers

import (
	"errors"
	"net/http"

	"blogdesk/app/forms"
	"blogdesk/app/services"
	"blogdesk/app/views"
)

// MsgAccountExists is shown when registration hits a taken username or email.
const MsgAccountExists = "Username or email already exists"

// UserController handles HTTP requests for users
type UserController struct {
	*Base
	users *services.UserService
}

// NewUserController creates a new UserController
func NewUserController(base *Base, users *services.UserService) *UserController {
	return &UserController{Base: base, users: users}
}

// Register shows the registration form and handles its submission
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		uc.render(w, r, http.StatusOK, views.Register, nil)
		return
	}

	form := forms.RegistrationFromRequest(r)
	_, err := uc.users.Register(r.Context(), form)

	var formErr *forms.Error
	switch {
	case err == nil:
		uc.redirect(w, r, "/user_list")
	case errors.As(err, &formErr):
		uc.render(w, r, http.StatusOK, views.Register, &views.Page{Form: form.Redacted(), Errors: formErr.Messages})
	case errors.Is(err, services.ErrAccountExists):
		uc.render(w, r, http.StatusOK, views.Register, &views.Page{Form: form.Redacted(), Errors: []string{MsgAccountExists}})
	default:
		uc.fail(w, r, err)
	}
}

// List renders every user
func (uc *UserController) List(w http.ResponseWriter, r *http.Request) {
	users, err := uc.users.List(r.Context())
	if err != nil {
		uc.fail(w, r, err)
		return
	}
	uc.render(w, r, http.StatusOK, views.UserList, &views.Page{Data: users})
}

// Details renders one user
func (uc *UserController) Details(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		uc.NotFound(w, r)
		return
	}
	user, err := uc.users.Get(r.Context(), id)
	if err != nil {
		uc.fail(w, r, err)
		return
	}
	uc.render(w, r, http.StatusOK, views.UserDetails, &views.Page{Data: user})
}

// Delete removes a user and returns to the list
func (uc *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		uc.NotFound(w, r)
		return
	}
	if err := uc.users.Delete(r.Context(), id); err != nil {
		uc.fail(w, r, err)
		return
	}
	uc.flash(w, r, "User Deleted")
	uc.redirect(w, r, "/user_list")
}
