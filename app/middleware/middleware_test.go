package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	assert.Empty(t, RequestIDFrom(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}

func TestLogger(t *testing.T) {
	log, hook := test.NewNullLogger()
	handler := RequestID(Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "GET", entry.Data["method"])
	assert.Equal(t, "/test", entry.Data["path"])
	assert.Equal(t, http.StatusTeapot, entry.Data["status"])
	assert.NotEmpty(t, entry.Data["request_id"])
	assert.Contains(t, entry.Data, "duration")
}

func TestRecoverer(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	})

	t.Run("fallback renders the response", func(t *testing.T) {
		log, hook := test.NewNullLogger()
		fallback := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("generic error page"))
		})

		rec := httptest.NewRecorder()
		Recoverer(log, fallback)(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "generic error page", rec.Body.String())
		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
		assert.Equal(t, "test panic", hook.LastEntry().Data["panic"])
	})

	t.Run("without fallback", func(t *testing.T) {
		log, _ := test.NewNullLogger()
		rec := httptest.NewRecorder()
		Recoverer(log, nil)(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Internal Server Error")
	})

	t.Run("no panic passes through", func(t *testing.T) {
		log, hook := test.NewNullLogger()
		rec := httptest.NewRecorder()
		Recoverer(log, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, hook.AllEntries())
	})
}

func TestContentTypeJSON(t *testing.T) {
	handler := ContentTypeJSON(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/post_api", nil))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestMetricsInstrument(t *testing.T) {
	metrics := NewMetrics("test")
	router := mux.NewRouter()
	router.Use(metrics.Instrument)
	router.HandleFunc("/post_details/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", metrics.Handler())

	for _, path := range []string{"/post_details/1", "/post_details/2"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	families, err := metrics.Registry().Gather()
	require.NoError(t, err)

	var total float64
	found := false
	for _, family := range families {
		if family.GetName() != "test_http_requests_total" {
			continue
		}
		found = true
		for _, m := range family.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			assert.Equal(t, "/post_details/{id:[0-9]+}", labels["route"])
			assert.Equal(t, "200", labels["status"])
			total += m.GetCounter().GetValue()
		}
	}
	assert.True(t, found)
	assert.Equal(t, float64(2), total)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_http_requests_total")
}
