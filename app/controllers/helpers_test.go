package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"blogdesk/app/repositories/mock"
	"blogdesk/app/services"
	"blogdesk/app/views"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	router *mux.Router
	store  *mock.Store
	hook   *test.Hook
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	renderer, err := views.New()
	require.NoError(t, err)
	log, hook := test.NewNullLogger()
	base := NewBase(renderer, sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef")), log)

	store := mock.NewStore()
	pages := NewPageController(base)
	users := NewUserController(base, services.NewUserService(store))
	posts := NewPostController(base, services.NewPostService(store))

	router := mux.NewRouter()
	router.HandleFunc("/", pages.Home).Methods(http.MethodGet)
	router.HandleFunc("/example/{value}", pages.Example).Methods(http.MethodGet)
	router.HandleFunc("/user_register", users.Register).Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc("/user_list", users.List).Methods(http.MethodGet)
	router.HandleFunc("/user_details/{id:[0-9]+}", users.Details).Methods(http.MethodGet)
	router.HandleFunc("/user_delete/{id:[0-9]+}", users.Delete).Methods(http.MethodGet)
	router.HandleFunc("/post_create", posts.Create).Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc("/post_list", posts.List).Methods(http.MethodGet)
	router.HandleFunc("/post_edit/{id:[0-9]+}", posts.Edit).Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc("/post_details/{id:[0-9]+}", posts.Details).Methods(http.MethodGet)
	router.HandleFunc("/post_delete/{id:[0-9]+}", posts.Delete).Methods(http.MethodGet)
	router.HandleFunc("/post_api", posts.API).Methods(http.MethodGet)
	router.HandleFunc("/search", posts.Search).Methods(http.MethodGet, http.MethodPost)
	router.NotFoundHandler = http.HandlerFunc(base.NotFound)

	return &testApp{router: router, store: store, hook: hook}
}

func (a *testApp) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) post(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func postValues(title, slug, content string) url.Values {
	return url.Values{"title": {title}, "slug": {slug}, "content": {content}}
}
