package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/request"
	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/util"
)

// RequestID tags every request with a correlation ID and seeds the per-request
// info that later stages (auth, routing, logging) mutate. A caller-supplied
// X-Request-ID is honored so IDs stay stable across retries.
func RequestID() util.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if id == "" {
				id = uuid.NewString()
			}

			info := &request.Info{ID: id, Start: time.Now()}
			r = r.WithContext(request.WithInfo(r.Context(), info))
			r.Header.Set("X-Request-ID", id)
			w.Header().Set("X-Request-ID", id)

			next.ServeHTTP(w, r)
		})
	}
}

// ResponseTime reports how long the gateway spent on the request. The header
// has to be set before the status line goes out, so the write is deferred to
// the wrapped writer's WriteHeader.
func ResponseTime() util.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrapWriter(w)
			rw.beforeHeader = func() {
				rw.Header().Set("X-Response-Time", time.Since(start).String())
			}
			next.ServeHTTP(rw, r)
		})
	}
}
