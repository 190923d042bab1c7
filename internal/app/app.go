// Package app assembles the gateway's HTTP pipeline and local endpoints.
package app

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/auth"
	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/config"
	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/docs"
	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/health"
	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/middleware"
	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/proxy"
	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/registry"
	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/util"
	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/validate"
)

// localPrefixes are the endpoints served by the gateway itself rather than
// proxied. Only these are gzip-candidates.
var localPrefixes = []string{"/health", "/api-docs"}

// App wires configuration, registry, health checking, auth and the proxy into
// one handler.
type App struct {
	cfg       config.Config
	reg       *registry.Registry
	checker   *health.Checker
	verifier  *auth.Verifier
	limiter   *middleware.RateLimiter
	logger    zerolog.Logger
	started   time.Time
	transport http.RoundTripper
}

// Options carries the assembled dependencies. Transport overrides the proxy
// transport in tests; nil means the default HTTP transport.
type Options struct {
	Config    config.Config
	Registry  *registry.Registry
	Checker   *health.Checker
	Verifier  *auth.Verifier
	Logger    zerolog.Logger
	Transport http.RoundTripper
}

func New(opts Options) *App {
	return &App{
		cfg:       opts.Config,
		reg:       opts.Registry,
		checker:   opts.Checker,
		verifier:  opts.Verifier,
		limiter:   middleware.NewRateLimiter(opts.Config.RateLimitMax, opts.Config.RateLimitWindow, opts.Logger),
		logger:    opts.Logger,
		started:   time.Now(),
		transport: opts.Transport,
	}
}

// Close releases background resources owned by the app.
func (a *App) Close() { a.limiter.Stop() }

// Handler builds the complete gateway handler. Middleware runs outermost
// first: recovery and logging wrap everything, then the protection layers,
// then per-request metadata, and finally validation, auth and routing for
// proxied paths.
func (a *App) Handler() http.Handler {
	forwarder := proxy.NewForwarder(a.transport, a.checker, a.logger)

	apiPipeline := util.Chain(
		middleware.BodyLimit(a.cfg.BodyLimit),
		middleware.RequireJSON(),
		middleware.RequireAuthHeader(a.cfg.PublicPaths),
		middleware.Sanitize(),
		validate.Middleware(validate.DefaultRules()),
		auth.Authenticate(a.verifier, a.cfg.PublicPaths, a.logger),
		auth.Authorize(auth.NewPolicy(a.cfg.RoleGates), a.logger),
		proxy.Route(a.reg),
	)(forwarder.Handler())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.HandleFunc("GET /health/services", a.handleServiceHealth)
	mux.Handle("GET /api-docs.json", docs.SpecHandler(a.reg, a.checker))
	mux.Handle("GET /api-docs/", docs.UIHandler())
	mux.Handle("/api/v1/", apiPipeline)
	mux.HandleFunc("/", a.handleNotFound)

	return util.Chain(
		middleware.Recover(a.logger, a.cfg.Development()),
		middleware.RequestID(),
		middleware.RequestLogger(a.logger),
		middleware.SecurityHeaders(),
		middleware.Gzip(localPrefixes),
		middleware.CORS(middleware.CORSOptions{
			Origins:     a.cfg.CORSOrigins,
			Credentials: a.cfg.CORSCredentials,
		}),
		a.limiter.Middleware(),
		middleware.ResponseTime(),
	)(mux)
}

// handleHealth reports the gateway's own liveness plus the aggregate of the
// backend probes. Degraded still returns 200: the gateway itself is up and
// routing what it can.
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	overall := a.checker.OverallHealth()

	status := http.StatusOK
	if overall.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	util.JSON(w, status, util.SuccessResponse{
		Success: overall.Status != health.StatusUnhealthy,
		Message: "API Gateway is " + string(overall.Status),
		Data: map[string]any{
			"service":  "api-gateway",
			"status":   overall.Status,
			"uptime":   time.Since(a.started).Seconds(),
			"services": overall.Services,
			"summary":  overall.Summary,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *App) handleServiceHealth(w http.ResponseWriter, r *http.Request) {
	util.Success(w, map[string]any{
		"services": a.checker.AllServiceHealth(),
	})
}

func (a *App) handleNotFound(w http.ResponseWriter, r *http.Request) {
	util.WriteError(w, util.NotFound("Route "+r.URL.Path+" not found"))
}
