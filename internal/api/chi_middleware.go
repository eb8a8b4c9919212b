// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/pigment/internal/middleware"
)

// CORSConfig configures go-chi/cors.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int // seconds
}

// RateLimitConfig configures the per-client limiter.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Disabled bool

	// PerEndpoint gives each route pattern its own budget, so polling
	// /status does not consume the recommendation budget.
	PerEndpoint bool

	// KeyFunc identifies the client. Default: httprate.KeyByIP.
	KeyFunc httprate.KeyFunc
}

// ChiMiddlewareConfig holds configuration for Chi middleware factories.
type ChiMiddlewareConfig struct {
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

// DefaultChiMiddlewareConfig returns the default configuration.
// No CORS origin is allowed until one is configured.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORS: CORSConfig{
			AllowedOrigins: []string{},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
			ExposedHeaders: []string{middleware.RequestIDHeader},
			MaxAge:         86400,
		},
		RateLimit: RateLimitConfig{
			Requests:    100,
			Window:      time.Minute,
			PerEndpoint: true,
		},
	}
}

// ChiMiddleware provides Chi-compatible middleware factories.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewChiMiddleware creates the middleware factory. A nil config uses
// DefaultChiMiddlewareConfig.
func NewChiMiddleware(config *ChiMiddlewareConfig) *ChiMiddleware {
	if config == nil {
		config = DefaultChiMiddlewareConfig()
	}

	c := config.CORS
	return &ChiMiddleware{
		config: config,
		cors: cors.Handler(cors.Options{
			AllowedOrigins:   c.AllowedOrigins,
			AllowedMethods:   c.AllowedMethods,
			AllowedHeaders:   c.AllowedHeaders,
			ExposedHeaders:   c.ExposedHeaders,
			AllowCredentials: c.AllowCredentials,
			MaxAge:           c.MaxAge,
		}),
	}
}

// NewChiMiddlewareFromServer builds the middleware from server settings,
// keeping defaults for everything the server does not configure.
func NewChiMiddlewareFromServer(corsOrigins []string, rateLimitReqs int, rateLimitWindow time.Duration, rateLimitDisabled bool) *ChiMiddleware {
	config := DefaultChiMiddlewareConfig()
	config.CORS.AllowedOrigins = corsOrigins
	config.RateLimit.Requests = rateLimitReqs
	config.RateLimit.Window = rateLimitWindow
	config.RateLimit.Disabled = rateLimitDisabled

	return NewChiMiddleware(config)
}

// CORS returns the go-chi/cors middleware.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit returns a go-chi/httprate limiter. Rejected requests receive
// the standard JSON error envelope with a TOO_MANY_REQUESTS code.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	rl := m.config.RateLimit
	if rl.Disabled {
		return func(next http.Handler) http.Handler { return next }
	}

	keys := []httprate.KeyFunc{rl.KeyFunc}
	if rl.KeyFunc == nil {
		keys[0] = httprate.KeyByIP
	}
	if rl.PerEndpoint {
		keys = append(keys, httprate.KeyByEndpoint)
	}

	return httprate.Limit(
		rl.Requests,
		rl.Window,
		httprate.WithKeyFuncs(keys...),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			respondError(w, r, http.StatusTooManyRequests, ErrCodeTooManyRequests, "Rate limit exceeded", nil)
		}),
	)
}

// APISecurityHeaders sets headers appropriate for a JSON-only API.
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			h.Set("Referrer-Policy", "no-referrer")
			next.ServeHTTP(w, r)
		})
	}
}
