// Package routes wires controllers and middleware into the HTTP router.
package routes

import (
	"net/http"

	"blogdesk/app/controllers"
	"blogdesk/app/middleware"
	"blogdesk/app/repositories"
	"blogdesk/app/services"
	"blogdesk/app/views"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

// Options carries the dependencies the router is built from.
type Options struct {
	Store   repositories.Store
	Logger  logrus.FieldLogger
	Metrics *middleware.Metrics
	// CSRFKey must be 32 bytes.
	CSRFKey    []byte
	SessionKey []byte
	// Secure marks cookies Secure and enforces the HTTPS Referer check.
	Secure bool
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(opts Options) (*mux.Router, error) {
	renderer, err := views.New()
	if err != nil {
		return nil, err
	}

	cookies := sessions.NewCookieStore(opts.SessionKey)
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	base := controllers.NewBase(renderer, cookies, opts.Logger)
	pages := controllers.NewPageController(base)
	users := controllers.NewUserController(base, services.NewUserService(opts.Store))
	posts := controllers.NewPostController(base, services.NewPostService(opts.Store))

	chain := []mux.MiddlewareFunc{
		middleware.RequestID,
		middleware.Logger(opts.Logger),
		middleware.Recoverer(opts.Logger, http.HandlerFunc(base.ServerError)),
	}
	if opts.Metrics != nil {
		chain = append(chain, opts.Metrics.Instrument)
	}
	if !opts.Secure {
		chain = append(chain, middleware.Plaintext)
	}
	chain = append(chain, csrf.Protect(opts.CSRFKey,
		csrf.Secure(opts.Secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(base.CSRFFailure)),
	))

	router := mux.NewRouter()
	router.Use(chain...)

	router.HandleFunc("/", pages.Home).Methods(http.MethodGet)
	router.HandleFunc("/example/{value}", pages.Example).Methods(http.MethodGet)

	// Users
	router.HandleFunc("/user_register", users.Register).Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc("/user_list", users.List).Methods(http.MethodGet)
	router.HandleFunc("/user_details/{id:[0-9]+}", users.Details).Methods(http.MethodGet)
	router.HandleFunc("/user_delete/{id:[0-9]+}", users.Delete).Methods(http.MethodGet)

	// Posts
	router.HandleFunc("/post_create", posts.Create).Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc("/post_list", posts.List).Methods(http.MethodGet)
	router.HandleFunc("/post_edit/{id:[0-9]+}", posts.Edit).Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc("/post_details/{id:[0-9]+}", posts.Details).Methods(http.MethodGet)
	router.HandleFunc("/post_delete/{id:[0-9]+}", posts.Delete).Methods(http.MethodGet)
	router.HandleFunc("/search", posts.Search).Methods(http.MethodGet, http.MethodPost)
	router.Handle("/post_api", middleware.ContentTypeJSON(http.HandlerFunc(posts.API))).Methods(http.MethodGet)

	if opts.Metrics != nil {
		router.Handle("/metrics", opts.Metrics.Handler()).Methods(http.MethodGet)
	}

	// mux skips middleware for unmatched requests, so wrap the 404 page
	var notFound http.Handler = http.HandlerFunc(base.NotFound)
	for i := len(chain) - 1; i >= 0; i-- {
		notFound = chain[i](notFound)
	}
	router.NotFoundHandler = notFound

	return router, nil
}
