// Package controllers translates HTTP requests into service calls and
// service results into pages, redirects and JSON.
package controllers

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"blogdesk/app/logging"
	"blogdesk/app/middleware"
	"blogdesk/app/repositories"
	"blogdesk/app/views"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

// FlashSession names the cookie that carries flash messages between requests.
const FlashSession = "blogdesk_flash"

// Base carries what every controller needs to answer a request.
type Base struct {
	views    *views.Renderer
	sessions sessions.Store
	log      logrus.FieldLogger
}

// NewBase creates the shared controller state
func NewBase(renderer *views.Renderer, store sessions.Store, log logrus.FieldLogger) *Base {
	return &Base{views: renderer, sessions: store, log: log}
}

// render writes the named page with status. Pending flashes are consumed and
// the CSRF field is filled in for the page's forms.
func (b *Base) render(w http.ResponseWriter, r *http.Request, status int, name string, page *views.Page) {
	if page == nil {
		page = &views.Page{}
	}
	page.CSRFField = csrf.TemplateField(r)
	page.Flashes = b.takeFlashes(w, r)

	var buf bytes.Buffer
	if err := b.views.Render(&buf, name, page); err != nil {
		logging.LogError(middleware.Entry(b.log, r), "template failed", err, logrus.Fields{"template": name})
		if name != views.ServerError {
			b.render(w, r, http.StatusInternalServerError, views.ServerError, nil)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (b *Base) session(r *http.Request) *sessions.Session {
	// a tampered or stale cookie yields a fresh session alongside the error
	s, err := b.sessions.Get(r, FlashSession)
	if err != nil {
		middleware.Entry(b.log, r).WithError(err).Debug("discarding unreadable flash session")
	}
	return s
}

// flash queues msg for the next rendered page.
func (b *Base) flash(w http.ResponseWriter, r *http.Request, msg string) {
	s := b.session(r)
	s.AddFlash(msg)
	if err := s.Save(r, w); err != nil {
		middleware.Entry(b.log, r).WithError(err).Warn("could not save flash")
	}
}

func (b *Base) takeFlashes(w http.ResponseWriter, r *http.Request) []string {
	s := b.session(r)
	pending := s.Flashes()
	if len(pending) == 0 {
		return nil
	}
	if err := s.Save(r, w); err != nil {
		middleware.Entry(b.log, r).WithError(err).Warn("could not clear flashes")
	}
	messages := make([]string, 0, len(pending))
	for _, f := range pending {
		if msg, ok := f.(string); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}

func (b *Base) redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// NotFound renders the 404 page
func (b *Base) NotFound(w http.ResponseWriter, r *http.Request) {
	b.render(w, r, http.StatusNotFound, views.NotFound, nil)
}

// ServerError renders the generic 500 page
func (b *Base) ServerError(w http.ResponseWriter, r *http.Request) {
	b.render(w, r, http.StatusInternalServerError, views.ServerError, nil)
}

// CSRFFailure answers requests rejected by the CSRF check.
func (b *Base) CSRFFailure(w http.ResponseWriter, r *http.Request) {
	middleware.Entry(b.log, r).WithField("reason", csrf.FailureReason(r)).Warn("csrf check failed")
	http.Error(w, "Forbidden - invalid CSRF token", http.StatusForbidden)
}

// fail maps an unexpected or not-found error onto a response.
func (b *Base) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repositories.ErrNotFound) {
		b.NotFound(w, r)
		return
	}
	logging.LogError(middleware.Entry(b.log, r), "request failed", err, nil)
	b.ServerError(w, r)
}

// pathID parses the {id} route variable. The route pattern only admits
// digits, so the only failure left is overflow, which cannot name a record.
func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return 0, false
	}
	return id, true
}
