package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"

	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/request"
	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/util"
)

// RequestLogger emits one structured line per request when it finishes,
// enriched with whatever later stages attached to the request info (identity,
// target service).
func RequestLogger(logger zerolog.Logger) util.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrapWriter(w)
			next.ServeHTTP(rw, r)

			evt := logger.Info()
			if rw.status >= http.StatusInternalServerError {
				evt = logger.Error()
			} else if rw.status >= http.StatusBadRequest {
				evt = logger.Warn()
			}

			evt = evt.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.status).
				Int("bytes", rw.size).
				Dur("duration", time.Since(start)).
				Str("ip", clientIP(r)).
				Str("user_agent", r.UserAgent())

			if info := request.FromContext(r.Context()); info != nil {
				evt = evt.Str("request_id", info.ID)
				if info.TargetService != "" {
					evt = evt.Str("service", info.TargetService)
				}
				if info.Identity != nil {
					evt = evt.Str("user_id", info.Identity.UserID).Str("role", info.Identity.Role)
				}
			}
			evt.Msg("request completed")
		})
	}
}

// Recover turns panics into 500 envelopes instead of dropped connections. The
// panic message is only exposed in development; production clients get the
// generic message.
func Recover(logger zerolog.Logger, development bool) util.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				logger.Error().
					Interface("panic", rec).
					Str("path", r.URL.Path).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				message := "Internal server error"
				if development {
					if err, ok := rec.(error); ok {
						message = err.Error()
					}
				}
				util.Error(w, message, http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
