package controllers

import (
	"net/http"

	"blogdesk/app/views"

	"github.com/gorilla/mux"
)

// PageController serves the static pages
type PageController struct {
	*Base
}

func NewPageController(base *Base) *PageController {
	return &PageController{Base: base}
}

// Home renders the landing page
func (pc *PageController) Home(w http.ResponseWriter, r *http.Request) {
	pc.render(w, r, http.StatusOK, views.Base, nil)
}

// Example echoes the path value back into a page
func (pc *PageController) Example(w http.ResponseWriter, r *http.Request) {
	pc.render(w, r, http.StatusOK, views.Example, &views.Page{Data: mux.Vars(r)["value"]})
}
