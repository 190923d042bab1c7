// Package proxy routes matched requests to backend services and relays their
// responses.
package proxy

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/registry"
	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/request"
	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/util"
)

// HealthSource reports last-known service health. Routing never blocks on an
// unhealthy record; it only logs, since the probe may be stale.
type HealthSource interface {
	IsHealthy(key string) bool
}

type svcKey struct{}

// Route resolves the target service for each request by longest path prefix.
// Unroutable paths get a 404 envelope; matched requests carry the descriptor
// in context and record the target on the request info for logging.
func Route(reg *registry.Registry) util.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			svc, ok := reg.Match(r.URL.Path)
			if !ok {
				util.WriteError(w, util.NotFound(fmt.Sprintf("Route %s not found", r.URL.Path)))
				return
			}
			if info := request.FromContext(r.Context()); info != nil {
				info.TargetService = svc.Name
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), svcKey{}, svc)))
		})
	}
}

// Result describes a completed relay.
type Result struct {
	StatusCode int
	Duration   time.Duration
}

// Forwarder relays requests to backends. The transport is injectable for
// tests; per-service timeouts are derived from the inbound request context so
// a client disconnect cancels the outbound call too.
type Forwarder struct {
	transport http.RoundTripper
	health    HealthSource
	logger    zerolog.Logger
}

func NewForwarder(transport http.RoundTripper, health HealthSource, logger zerolog.Logger) *Forwarder {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Forwarder{transport: transport, health: health, logger: logger}
}

// Handler is the terminal pipeline stage: it forwards the routed request and
// writes either the relayed response or a 503 envelope.
func (f *Forwarder) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		svc, ok := r.Context().Value(svcKey{}).(registry.ServiceDescriptor)
		if !ok {
			util.WriteError(w, util.NotFound(fmt.Sprintf("Route %s not found", r.URL.Path)))
			return
		}

		if f.health != nil && !f.health.IsHealthy(svc.Key) {
			f.logger.Warn().
				Str("service", svc.Name).
				Str("path", r.URL.Path).
				Msg("forwarding to service with failing health checks")
		}

		res, err := f.Forward(w, r, svc)
		if err != nil {
			f.logger.Error().
				Err(err).
				Str("service", svc.Name).
				Str("path", r.URL.Path).
				Msg("proxy request failed")
			util.WriteError(w, util.ServiceUnavailable(
				fmt.Sprintf("Service %s is currently unavailable", svc.Name)))
			return
		}

		f.logger.Debug().
			Str("service", svc.Name).
			Int("status", res.StatusCode).
			Dur("upstream_duration", res.Duration).
			Msg("proxied request")
	})
}

// Forward relays one request to svc and streams the response back. It returns
// the relay result, or an error if the backend could not be reached; once the
// upstream response header has been relayed, failures mid-body cannot be
// turned into an envelope anymore and only terminate the copy.
func (f *Forwarder) Forward(w http.ResponseWriter, r *http.Request, svc registry.ServiceDescriptor) (Result, error) {
	ctx, cancel := context.WithTimeout(r.Context(), svc.Timeout)
	defer cancel()

	target := svc.BaseURL + r.URL.Path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	out, err := http.NewRequestWithContext(ctx, r.Method, target, r.Body)
	if err != nil {
		return Result{}, err
	}
	out.Header = outboundHeaders(r, svc)
	out.ContentLength = r.ContentLength

	start := time.Now()
	resp, err := f.transport.RoundTrip(out)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	dst := w.Header()
	for name, values := range resp.Header {
		if isHopByHop(name) {
			continue
		}
		dst[name] = values
	}
	dst.Set("X-Service-Name", svc.Name)
	if dst.Get("X-Service-Version") == "" {
		dst.Set("X-Service-Version", "1.0.0")
	}

	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
	return Result{StatusCode: resp.StatusCode, Duration: time.Since(start)}, nil
}

// outboundHeaders clones the inbound headers minus hop-by-hop ones and stamps
// the gateway's identification headers on top. Identity headers are always
// reset so a client can never smuggle its own X-User-* values through.
func outboundHeaders(r *http.Request, svc registry.ServiceDescriptor) http.Header {
	out := http.Header{}
	for name, values := range r.Header {
		if isHopByHop(name) {
			continue
		}
		out[name] = values
	}

	out.Del("X-User-ID")
	out.Del("X-User-Role")
	out.Del("X-User-Email")
	out.Del("X-User-Employee-ID")

	info := request.FromContext(r.Context())
	if info != nil {
		out.Set("X-Gateway-Request-ID", info.ID)
		if id := info.Identity; id != nil {
			out.Set("X-User-ID", id.UserID)
			out.Set("X-User-Role", id.Role)
			out.Set("X-User-Email", id.Email)
			if id.EmployeeID != "" {
				out.Set("X-User-Employee-ID", id.EmployeeID)
			}
		}
	}
	out.Set("X-Gateway-Service", svc.Key)

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		if prior := r.Header.Get("X-Forwarded-For"); prior != "" {
			out.Set("X-Forwarded-For", prior+", "+host)
		} else {
			out.Set("X-Forwarded-For", host)
		}
	}
	out.Set("X-Forwarded-Host", r.Host)

	return out
}

var hopByHop = map[string]struct{}{
	"Connection":          {},
	"Keep-Alive":          {},
	"Proxy-Authenticate":  {},
	"Proxy-Authorization": {},
	"Te":                  {},
	"Trailer":             {},
	"Transfer-Encoding":   {},
	"Upgrade":             {},
}

func isHopByHop(name string) bool {
	_, ok := hopByHop[http.CanonicalHeaderKey(name)]
	return ok
}
