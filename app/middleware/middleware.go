// Package middleware holds the HTTP middleware shared by every route.
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/sirupsen/logrus"
)

type contextKey int

const requestIDKey contextKey = iota

// RequestIDHeader carries the request id back to the client.
const RequestIDHeader = "X-Request-ID"

// statusRecorder remembers the status code written by the wrapped handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestID tags every request with a fresh uuid, stored in the context and
// echoed in the response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFrom returns the id set by RequestID, or "" outside of it.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Entry returns a log entry carrying the request's id, method and path.
func Entry(log logrus.FieldLogger, r *http.Request) *logrus.Entry {
	return log.WithFields(logrus.Fields{
		"request_id": RequestIDFrom(r.Context()),
		"method":     r.Method,
		"path":       r.URL.Path,
	})
}

// Logger logs information about each request
func Logger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			Entry(log, r).WithFields(logrus.Fields{
				"status":   rec.status,
				"duration": time.Since(start).String(),
			}).Info("request handled")
		})
	}
}

// Recoverer recovers from panics, logs them and hands the request to
// fallback, which should render a generic error page.
func Recoverer(log logrus.FieldLogger, fallback http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					Entry(log, r).WithField("panic", err).Error("recovered from panic")
					if fallback == nil {
						http.Error(w, "Internal Server Error", http.StatusInternalServerError)
						return
					}
					fallback.ServeHTTP(w, r)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// ContentTypeJSON sets the Content-Type header to application/json for API routes
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Plaintext marks requests as served over plain HTTP so the CSRF check
// skips its HTTPS-only Referer validation. Only for non-TLS deployments.
func Plaintext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
