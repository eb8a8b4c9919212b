// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/pigment/internal/metrics"
)

func newMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/fail", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.WriteHeader(http.StatusOK) // second call is ignored by net/http
	})
	return r
}

func TestPrometheusMetrics(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		path      string
		wantRoute string
		wantCode  string
	}{
		{name: "route pattern label", method: http.MethodGet, path: "/items/42", wantRoute: "/items/{id}", wantCode: "200"},
		{name: "first status code wins", method: http.MethodPost, path: "/fail", wantRoute: "/fail", wantCode: "500"},
		{name: "unknown path", method: http.MethodGet, path: "/nope/123", wantRoute: unmatchedRoute, wantCode: "404"},
	}

	router := newMetricsRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := metrics.APIRequestsTotal.WithLabelValues(tt.method, tt.wantRoute, tt.wantCode)
			before := testutil.ToFloat64(counter)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if got := testutil.ToFloat64(counter) - before; got != 1 {
				t.Errorf("api_requests_total{%s,%s,%s} delta = %f, want 1", tt.method, tt.wantRoute, tt.wantCode, got)
			}
		})
	}
}

func TestPrometheusMetrics_ActiveRequestsBalanced(t *testing.T) {
	before := testutil.ToFloat64(metrics.APIActiveRequests)

	var during float64
	handler := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		during = testutil.ToFloat64(metrics.APIActiveRequests)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if during != before+1 {
		t.Errorf("active requests during = %f, want %f", during, before+1)
	}
	if after := testutil.ToFloat64(metrics.APIActiveRequests); after != before {
		t.Errorf("active requests after = %f, want %f", after, before)
	}
}

func TestRoutePattern_NoChiContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/raw", nil)
	if got := routePattern(req); got != unmatchedRoute {
		t.Errorf("routePattern() = %q, want %q", got, unmatchedRoute)
	}
}
