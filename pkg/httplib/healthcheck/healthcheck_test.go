package healthcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck_Handler(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	testCases := []struct {
		name       string
		path       string
		checks     map[string]Check
		wantStatus int
		assertFn   func(t *testing.T, report Report)
	}{
		{
			name:       "liveness ignores checks",
			path:       "/health",
			checks:     map[string]Check{"postgres": func(context.Context) error { return fmt.Errorf("down") }},
			wantStatus: http.StatusOK,
			assertFn: func(t *testing.T, report Report) {
				assert.Equal(t, "ok", report.Status)
				assert.Empty(t, report.Checks)
			},
		},
		{
			name: "ready when every check passes",
			path: "/ready",
			checks: map[string]Check{
				"engine": func(context.Context) error { return nil },
				"redis":  func(context.Context) error { return nil },
			},
			wantStatus: http.StatusOK,
			assertFn: func(t *testing.T, report Report) {
				assert.Equal(t, map[string]string{"engine": "ok", "redis": "ok"}, report.Checks)
			},
		},
		{
			name: "one failing check",
			path: "/ready",
			checks: map[string]Check{
				"engine":   func(context.Context) error { return nil },
				"postgres": func(context.Context) error { return fmt.Errorf("connection refused") },
			},
			wantStatus: http.StatusServiceUnavailable,
			assertFn: func(t *testing.T, report Report) {
				assert.Equal(t, "unavailable", report.Status)
				assert.Equal(t, "connection refused", report.Checks["postgres"])
				assert.Equal(t, "ok", report.Checks["engine"])
			},
		},
		{
			name: "slow check times out",
			path: "/ready",
			checks: map[string]Check{
				"kafka": func(ctx context.Context) error {
					<-ctx.Done()
					return ctx.Err()
				},
			},
			wantStatus: http.StatusServiceUnavailable,
			assertFn: func(t *testing.T, report Report) {
				assert.Equal(t, context.DeadlineExceeded.Error(), report.Checks["kafka"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hc := New(50 * time.Millisecond)
			for name, check := range tc.checks {
				hc.Register(name, check)
			}

			rec := httptest.NewRecorder()
			hc.Handler(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

			assert.Equal(t, tc.wantStatus, rec.Code)
			var report Report
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
			tc.assertFn(t, report)
		})
	}
}

func TestHealthCheck_PassesThroughOtherRequests(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	New(time.Second).Handler(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
