// Package config loads the gateway's environment-driven configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variable names used by the gateway.
const (
	EnvPort                  = "PORT"
	EnvAppEnv                = "APP_ENV"
	EnvAuthServiceURL        = "AUTH_SERVICE_URL"
	EnvEmployeeServiceURL    = "EMPLOYEE_SERVICE_URL"
	EnvLeaveServiceURL       = "LEAVE_SERVICE_URL"
	EnvPayrollServiceURL     = "PAYROLL_SERVICE_URL"
	EnvRecruitmentServiceURL = "RECRUITMENT_SERVICE_URL"
	EnvServiceTimeout        = "SERVICE_TIMEOUT"
	EnvHealthCheckInterval   = "HEALTH_CHECK_INTERVAL"
	EnvJWTSecret             = "JWT_SECRET"
	EnvAuthValidateRemote    = "AUTH_VALIDATE_REMOTE"
	EnvAuthCacheTTL          = "AUTH_CACHE_TTL"
	EnvRedisAddr             = "REDIS_ADDR"
	EnvCORSOrigin            = "CORS_ORIGIN"
	EnvCORSCredentials       = "CORS_CREDENTIALS"
	EnvRateLimitWindowMS     = "RATE_LIMIT_WINDOW_MS"
	EnvRateLimitMaxRequests  = "RATE_LIMIT_MAX_REQUESTS"
	EnvBodyLimit             = "BODY_LIMIT"
)

// Service describes one backend microservice reachable from the gateway.
type Service struct {
	Name       string
	URL        string
	HealthPath string
	Timeout    time.Duration
}

// Route maps a public path prefix to a service key. Ordering is resolved by
// prefix length at registry construction, longest first.
type Route struct {
	PathPrefix string
	ServiceKey string
}

// RoleGate lists the roles allowed under a path prefix.
type RoleGate struct {
	PathPrefix string
	Roles      []string
}

// Config is read once at startup and read-only thereafter.
type Config struct {
	Port string
	Env  string

	Services map[string]Service
	Routes   []Route

	// RoleGates restrict path prefixes to roles; PublicPaths bypass
	// authentication entirely.
	RoleGates   []RoleGate
	PublicPaths []string

	JWTSecret          string
	AuthValidateRemote bool
	AuthCacheTTL       time.Duration

	RedisAddr string

	CORSOrigins     []string
	CORSCredentials bool

	RateLimitWindow time.Duration
	RateLimitMax    int

	BodyLimit int64

	HealthCheckInterval time.Duration
}

// Development reports whether error messages may be echoed verbatim.
func (c Config) Development() bool { return c.Env == "development" }

// Load builds the configuration from the environment, applying defaults that
// mirror the local docker-compose port layout.
func Load() Config {
	timeout := durationMS(getenv(EnvServiceTimeout, "5000"))

	services := map[string]Service{
		"auth": {
			Name:       "auth-service",
			URL:        getenv(EnvAuthServiceURL, "http://localhost:3001"),
			HealthPath: "/health",
			Timeout:    timeout,
		},
		"employee": {
			Name:       "employee-service",
			URL:        getenv(EnvEmployeeServiceURL, "http://localhost:3002"),
			HealthPath: "/health",
			Timeout:    timeout,
		},
		"leave": {
			Name:       "leave-service",
			URL:        getenv(EnvLeaveServiceURL, "http://localhost:3003"),
			HealthPath: "/health",
			Timeout:    timeout,
		},
		"payroll": {
			Name:       "payroll-service",
			URL:        getenv(EnvPayrollServiceURL, "http://localhost:3004"),
			HealthPath: "/health",
			Timeout:    timeout,
		},
		"recruitment": {
			Name:       "recruitment-service",
			URL:        getenv(EnvRecruitmentServiceURL, "http://localhost:3005"),
			HealthPath: "/health",
			Timeout:    timeout,
		},
	}

	routes := []Route{
		{PathPrefix: "/api/v1/auth", ServiceKey: "auth"},
		{PathPrefix: "/api/v1/employees", ServiceKey: "employee"},
		{PathPrefix: "/api/v1/departments", ServiceKey: "employee"},
		{PathPrefix: "/api/v1/positions", ServiceKey: "employee"},
		{PathPrefix: "/api/v1/leaves", ServiceKey: "leave"},
		{PathPrefix: "/api/v1/leave-types", ServiceKey: "leave"},
		{PathPrefix: "/api/v1/payroll", ServiceKey: "payroll"},
		{PathPrefix: "/api/v1/payslips", ServiceKey: "payroll"},
		{PathPrefix: "/api/v1/salary-structures", ServiceKey: "payroll"},
		{PathPrefix: "/api/v1/jobs", ServiceKey: "recruitment"},
		{PathPrefix: "/api/v1/applications", ServiceKey: "recruitment"},
		{PathPrefix: "/api/v1/interviews", ServiceKey: "recruitment"},
		{PathPrefix: "/api/v1/recruitment", ServiceKey: "recruitment"},
	}

	roleGates := []RoleGate{
		{PathPrefix: "/api/v1/payroll", Roles: []string{"admin", "hr_manager"}},
		{PathPrefix: "/api/v1/payslips", Roles: []string{"admin", "hr_manager"}},
		{PathPrefix: "/api/v1/salary-structures", Roles: []string{"admin", "hr_manager"}},
		{PathPrefix: "/api/v1/recruitment", Roles: []string{"admin", "hr_manager", "recruiter"}},
		{PathPrefix: "/api/v1/jobs", Roles: []string{"admin", "hr_manager", "recruiter"}},
		{PathPrefix: "/api/v1/applications", Roles: []string{"admin", "hr_manager", "recruiter"}},
		{PathPrefix: "/api/v1/interviews", Roles: []string{"admin", "hr_manager", "recruiter"}},
		{PathPrefix: "/api/v1/employees", Roles: []string{"admin", "hr_manager", "employee"}},
		{PathPrefix: "/api/v1/leaves", Roles: []string{"admin", "hr_manager", "employee"}},
	}

	publicPaths := []string{
		"/api/v1/auth/login",
		"/api/v1/auth/refresh",
		"/api/v1/auth/forgot-password",
		"/api/v1/auth/reset-password",
		"/api/v1/auth/health",
	}

	return Config{
		Port:        getenv(EnvPort, "3000"),
		Env:         getenv(EnvAppEnv, "development"),
		Services:    services,
		Routes:      routes,
		RoleGates:   roleGates,
		PublicPaths: publicPaths,

		JWTSecret:          getenv(EnvJWTSecret, "your-secret-key"),
		AuthValidateRemote: getenv(EnvAuthValidateRemote, "true") == "true",
		AuthCacheTTL:       durationMS(getenv(EnvAuthCacheTTL, "300000")),

		RedisAddr: getenv(EnvRedisAddr, ""),

		CORSOrigins:     splitCSV(getenv(EnvCORSOrigin, "http://localhost:3000")),
		CORSCredentials: getenv(EnvCORSCredentials, "false") == "true",

		RateLimitWindow: durationMS(getenv(EnvRateLimitWindowMS, "900000")),
		RateLimitMax:    atoiOr(getenv(EnvRateLimitMaxRequests, "100"), 100),

		BodyLimit: parseSize(getenv(EnvBodyLimit, "10mb")),

		HealthCheckInterval: durationMS(getenv(EnvHealthCheckInterval, "30000")),
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func durationMS(s string) time.Duration {
	ms, err := strconv.Atoi(s)
	if err != nil || ms <= 0 {
		panic(fmt.Sprintf("invalid millisecond duration %q", s))
	}
	return time.Duration(ms) * time.Millisecond
}

// parseSize understands values like "10mb", "512kb" or a plain byte count.
func parseSize(s string) int64 {
	s = strings.ToLower(strings.TrimSpace(s))
	mult := int64(1)
	switch {
	case strings.HasSuffix(s, "mb"):
		mult, s = 1024*1024, strings.TrimSuffix(s, "mb")
	case strings.HasSuffix(s, "kb"):
		mult, s = 1024, strings.TrimSuffix(s, "kb")
	case strings.HasSuffix(s, "b"):
		s = strings.TrimSuffix(s, "b")
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 10 * 1024 * 1024
	}
	return n * mult
}
