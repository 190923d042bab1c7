package middleware

import (
	"net/http"
	"strings"

	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/util"
)

// BodyLimit rejects oversized requests. Declared lengths are checked up front;
// chunked bodies are capped with MaxBytesReader so a lying client cannot
// stream past the limit.
func BodyLimit(maxBytes int64) util.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				util.Error(w, "Request entity too large", http.StatusBadRequest)
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireJSON enforces an application/json content type on every mutating
// request.
func RequireJSON() util.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
			default:
				next.ServeHTTP(w, r)
				return
			}
			ct := r.Header.Get("Content-Type")
			if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
				util.Error(w, "Content-Type must be application/json", http.StatusBadRequest)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthHeader is a cheap shape check for API routes: a bearer header
// must at least be present and well-formed before any token parsing runs.
// Public auth paths are exempt.
func RequireAuthHeader(publicPaths []string) util.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/api/v1/") || hasPrefix(r.URL.Path, publicPaths) {
				next.ServeHTTP(w, r)
				return
			}
			header := r.Header.Get("Authorization")
			if header == "" {
				util.WriteError(w, util.Unauthorized("Access token is required"))
				return
			}
			if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
				util.WriteError(w, util.Unauthorized("Authorization header must use the Bearer scheme"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
