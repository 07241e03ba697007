package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth(t *testing.T) {
	tests := []struct {
		name      string
		companyID string
		role      string
		status    int
	}{
		{"staff", "7", "staff", http.StatusOK},
		{"owner upper case", "7", "OWNER", http.StatusOK},
		{"missing company", "", "staff", http.StatusUnauthorized},
		{"bad company", "abc", "staff", http.StatusUnauthorized},
		{"zero company", "0", "staff", http.StatusUnauthorized},
		{"client role", "7", "client", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotCompany int64
			var gotRole string
			handler := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotCompany, _ = GetCompanyID(r.Context())
				gotRole, _ = GetRole(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			r := httptest.NewRequest(http.MethodGet, "/api/v1/appointments", nil)
			if tt.companyID != "" {
				r.Header.Set(HeaderCompanyID, tt.companyID)
			}
			r.Header.Set(HeaderUserRole, tt.role)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, int64(7), gotCompany)
				assert.Contains(t, []string{"staff", "owner"}, gotRole)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(HeaderRequestID))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(HeaderRequestID, "req-1")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, "req-1", seen)
	assert.Equal(t, "req-1", w.Header().Get(HeaderRequestID))
}

type observation struct {
	method string
	route  string
	status int
}

type fakeMetrics struct{ observed []observation }

func (f *fakeMetrics) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	f.observed = append(f.observed, observation{method, route, status})
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := &fakeMetrics{}
	router := mux.NewRouter()
	router.Use(MetricsMiddleware(m))
	router.HandleFunc("/api/v1/appointments/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/appointments/42", nil))

	require.Len(t, m.observed, 1)
	assert.Equal(t, observation{http.MethodGet, "/api/v1/appointments/{id}", http.StatusNotFound}, m.observed[0])
}
