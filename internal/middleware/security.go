package middleware

import (
	"net/http"

	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/util"
)

// SecurityHeaders applies a conservative header baseline to every response.
// The CSP only governs gateway-rendered pages (docs, health); proxied APIs
// return JSON and are unaffected.
func SecurityHeaders() util.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-XSS-Protection", "0")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Content-Security-Policy", "default-src 'self'")
			next.ServeHTTP(w, r)
		})
	}
}
