// Package middleware provides HTTP middleware for request handling.
package middleware

import (
	"net/http"
	"slices"
)

// CORS headers sent on every response.
const (
	corsAllowMethods = "POST, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization"
)

// CORS applies an exact-match Origin allow-list. Preflight requests are
// answered here: 200 when the origin is allowed, 403 otherwise, never a body.
// An empty allow-list emits no CORS headers at all and rejects every preflight.
func CORS(origins []string) func(http.Handler) http.Handler {
	allowed := slices.Clone(origins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if len(allowed) > 0 {
				h.Set("Access-Control-Allow-Methods", corsAllowMethods)
				h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			}

			origin := r.Header.Get("Origin")
			ok := origin != "" && slices.Contains(allowed, origin)
			if ok {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				if ok {
					w.WriteHeader(http.StatusOK)
				} else {
					w.WriteHeader(http.StatusForbidden)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Chain wraps h so that mws[0] is the outermost middleware.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
