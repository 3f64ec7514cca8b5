package web

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func Test_RequestIDInjector(t *testing.T) {
	testCases := []struct {
		name     string
		incoming string
	}{
		{name: "generates an ID", incoming: ""},
		{name: "keeps the client ID", incoming: "client-id-1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			var seen string
			handler := RequestIDInjector(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				id, ok := GetRequestID(r.Context())
				assert.True(t, ok, "request ID should be in context")
				seen = id
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.incoming != "" {
				req.Header.Set(RequestIDHeader, tc.incoming)
			}
			rr := httptest.NewRecorder()
			// when
			handler.ServeHTTP(rr, req)
			// then
			require.NotEmpty(t, seen)
			if tc.incoming != "" {
				assert.Equal(t, tc.incoming, seen)
			}
			assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))
		})
	}
}

func Test_GetRequestID_OutsideInjector(t *testing.T) {
	_, ok := GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil).Context())

	assert.False(t, ok)
}

func Test_StructuredLogger_LogsRequest(t *testing.T) {
	// given
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	handler := StructuredLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
	// when
	handler.ServeHTTP(httptest.NewRecorder(), req)
	// then
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Request completed", entry["msg"])
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/api/products", entry["path"])
	assert.EqualValues(t, http.StatusTeapot, entry["status"])
	assert.Contains(t, entry, "time")
}

func Test_Recoverer(t *testing.T) {
	// given
	handler := Recoverer(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	// when
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	// then
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"Internal Server Error"}`, rr.Body.String())
}

func Test_RespondJSON(t *testing.T) {
	t.Run("nil payload writes status only", func(t *testing.T) {
		rr := httptest.NewRecorder()
		RespondJSON(rr, discardLogger(), http.StatusNoContent, nil)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
	})
	t.Run("envelope omits empty fields", func(t *testing.T) {
		rr := httptest.NewRecorder()
		count := 0
		RespondJSON(rr, discardLogger(), http.StatusOK, Envelope{Success: true, Count: &count, Data: []string{}})
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"success":true,"count":0,"data":[]}`, rr.Body.String())
	})
}

func Test_Metrics_Middleware(t *testing.T) {
	// given
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	mux := chi.NewRouter()
	mux.Use(metrics.Middleware)
	mux.Get("/api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	// when
	for _, id := range []string{"1", "2", "3"} {
		mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products/"+id, nil))
	}
	// then
	counter := metrics.requests.WithLabelValues(http.MethodGet, "/api/products/{id}", "200")
	assert.Equal(t, 3.0, testutil.ToFloat64(counter))

	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "http_requests_total")
}
