// Package middleware provides HTTP middleware for the gateway.
package middleware

import (
	"encoding/json"
	"net/http"
)

// The gateway's verb set plus preflight, and the headers clients may send.
// The API is unauthenticated; the signing key lives server-side, so no
// Authorization header is accepted.
const (
	corsAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowHeaders = "Content-Type, X-Trace-ID"
)

// CORS controls which browser origins may call the gateway. Origins are
// matched exactly against the allowlist; a suffix or substring match would
// let a hostile registration like evil-trusted.example.com shadow a real
// entry. "*" allows every origin.
type CORS struct {
	origins  map[string]struct{}
	allowAll bool
}

// NewCORSMiddleware builds the middleware from the configured origin list.
func NewCORSMiddleware(allowedOrigins []string) *CORS {
	c := &CORS{origins: make(map[string]struct{}, len(allowedOrigins))}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			c.allowAll = true
			continue
		}
		c.origins[origin] = struct{}{}
	}
	return c
}

// Handler returns the CORS middleware handler. Preflights from allowed
// origins answer 204; preflights from anywhere else are rejected with the
// API's error envelope. Requests without an Origin header pass through
// untouched.
func (c *CORS) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowed := origin != "" && c.originAllowed(origin)

		if allowed {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Expose-Headers", "X-Trace-ID")
			h.Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == http.MethodOptions && origin != "" {
			if !allowed {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"success": false,
					"error":   "origin not allowed",
				})
				return
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (c *CORS) originAllowed(origin string) bool {
	if c.allowAll {
		return true
	}
	_, ok := c.origins[origin]
	return ok
}
