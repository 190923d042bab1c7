package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/auth"
	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/config"
	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/health"
	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/registry"
)

const testSecret = "itest-secret"

func mintToken(t *testing.T, role string, expiresIn time.Duration) string {
	t.Helper()
	claims := &auth.Claims{
		UserID: "user-1",
		Email:  "user@example.com",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

// testGateway assembles a full gateway against httptest backends for the auth
// and payroll services.
func testGateway(t *testing.T, authBackend, payrollBackend string) http.Handler {
	t.Helper()

	cfg := config.Config{
		Port: "0",
		Env:  "test",
		Services: map[string]config.Service{
			"auth":    {Name: "auth-service", URL: authBackend, HealthPath: "/health", Timeout: 2 * time.Second},
			"payroll": {Name: "payroll-service", URL: payrollBackend, HealthPath: "/health", Timeout: 2 * time.Second},
		},
		Routes: []config.Route{
			{PathPrefix: "/api/v1/auth", ServiceKey: "auth"},
			{PathPrefix: "/api/v1/payroll", ServiceKey: "payroll"},
		},
		RoleGates: []config.RoleGate{
			{PathPrefix: "/api/v1/payroll", Roles: []string{"admin", "hr_manager"}},
		},
		PublicPaths:         []string{"/api/v1/auth/login"},
		JWTSecret:           testSecret,
		CORSOrigins:         []string{"*"},
		RateLimitWindow:     time.Minute,
		RateLimitMax:        1000,
		BodyLimit:           1 << 20,
		HealthCheckInterval: time.Minute,
	}

	reg, err := registry.New(cfg.Services, cfg.Routes)
	require.NoError(t, err)

	checker := health.New(reg, cfg.HealthCheckInterval, zerolog.Nop())
	checker.CheckAll(context.Background())

	a := New(Options{
		Config:   cfg,
		Registry: reg,
		Checker:  checker,
		Verifier: auth.NewVerifier(auth.Options{Secret: cfg.JWTSecret, Logger: zerolog.Nop()}),
		Logger:   zerolog.Nop(),
	})
	t.Cleanup(a.Close)
	return a.Handler()
}

func okBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"path":"` + r.URL.Path + `"}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginIsProxiedWithoutToken(t *testing.T) {
	authSrv := okBackend(t)
	paySrv := okBackend(t)
	h := testGateway(t, authSrv.URL, paySrv.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"user@example.com","password":"secret1"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/v1/auth/login")
	assert.Equal(t, "auth-service", rec.Header().Get("X-Service-Name"))
}

func TestInvalidLoginPayloadRejectedAtGateway(t *testing.T) {
	authSrv := okBackend(t)
	paySrv := okBackend(t)
	h := testGateway(t, authSrv.URL, paySrv.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestMissingTokenIs401(t *testing.T) {
	h := testGateway(t, okBackend(t).URL, okBackend(t).URL)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/payroll", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access token is required")
}

func TestExpiredTokenIs401(t *testing.T) {
	h := testGateway(t, okBackend(t).URL, okBackend(t).URL)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payroll", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "admin", -time.Minute))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access token expired")
}

func TestEmployeeRoleCannotReachPayroll(t *testing.T) {
	h := testGateway(t, okBackend(t).URL, okBackend(t).URL)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payroll", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "employee", time.Hour))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Insufficient permissions")
}

func TestHRManagerReachesPayroll(t *testing.T) {
	h := testGateway(t, okBackend(t).URL, okBackend(t).URL)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payroll", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "hr_manager", time.Hour))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "payroll-service", rec.Header().Get("X-Service-Name"))
}

func TestUnknownAPIRouteIs404(t *testing.T) {
	h := testGateway(t, okBackend(t).URL, okBackend(t).URL)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/widgets", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "admin", time.Hour))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Route /api/v1/widgets not found")
}

func TestUpstreamDownIs503(t *testing.T) {
	authSrv := okBackend(t)
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	downURL := down.URL
	down.Close()

	h := testGateway(t, authSrv.URL, downURL)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payroll", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "admin", time.Hour))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Service payroll-service is currently unavailable")
}

func TestRequestIDEchoedAndPropagated(t *testing.T) {
	var upstreamID string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamID = r.Header.Get("X-Gateway-Request-ID")
	}))
	t.Cleanup(backend.Close)

	h := testGateway(t, backend.URL, okBackend(t).URL)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"user@example.com","password":"secret1"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "trace-me")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "trace-me", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "trace-me", upstreamID)
}

func TestHealthEndpointHealthy(t *testing.T) {
	h := testGateway(t, okBackend(t).URL, okBackend(t).URL)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Service string `json:"service"`
			Status  string `json:"status"`
			Summary struct {
				Total   int `json:"total"`
				Healthy int `json:"healthy"`
			} `json:"summary"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "api-gateway", body.Data.Service)
	assert.Equal(t, "healthy", body.Data.Status)
	assert.Equal(t, 2, body.Data.Summary.Total)
	assert.Equal(t, 2, body.Data.Summary.Healthy)
}

func TestHealthEndpointAllBackendsDown(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	downURL := down.URL
	down.Close()

	h := testGateway(t, downURL, downURL)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "unhealthy")
}

func TestServiceHealthEndpoint(t *testing.T) {
	h := testGateway(t, okBackend(t).URL, okBackend(t).URL)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/services", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "auth-service")
	assert.Contains(t, rec.Body.String(), "payroll-service")
}

func TestSecurityHeadersOnEveryResponse(t *testing.T) {
	h := testGateway(t, okBackend(t).URL, okBackend(t).URL)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestRootFallbackIs404Envelope(t *testing.T) {
	h := testGateway(t, okBackend(t).URL, okBackend(t).URL)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}
