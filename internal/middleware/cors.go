package middleware

import (
	"net/http"
	"strings"

	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/util"
)

// CORSOptions configures cross-origin access. Origins is an allow-list; "*"
// allows any origin but is incompatible with credentials.
type CORSOptions struct {
	Origins     []string
	Credentials bool
}

var corsExposedHeaders = strings.Join([]string{
	"X-Request-ID",
	"X-Response-Time",
	"X-Service-Name",
	"X-Service-Version",
}, ", ")

// CORS answers preflight requests and stamps the allow headers on everything
// else. Disallowed origins get no CORS headers at all, which makes the browser
// block the response.
func CORS(opts CORSOptions) util.Middleware {
	allowAll := len(opts.Origins) == 1 && opts.Origins[0] == "*"

	allowed := func(origin string) bool {
		if allowAll {
			return true
		}
		for _, o := range opts.Origins {
			if o == origin {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && allowed(origin) {
				h := w.Header()
				if allowAll && !opts.Credentials {
					h.Set("Access-Control-Allow-Origin", "*")
				} else {
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
				if opts.Credentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				h.Set("Access-Control-Expose-Headers", corsExposedHeaders)

				if r.Method == http.MethodOptions {
					h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
					h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
					h.Set("Access-Control-Max-Age", "86400")
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
