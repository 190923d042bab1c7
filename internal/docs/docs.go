// Package docs serves the gateway's OpenAPI document and the Swagger UI.
package docs

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/health"
	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/registry"
	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/util"
)

// UIHandler serves the interactive Swagger UI backed by the JSON document.
func UIHandler() http.Handler {
	return httpSwagger.Handler(httpSwagger.URL("/api-docs.json"))
}

// SpecHandler serves the OpenAPI document. The path list is derived from the
// live routing table so docs cannot drift from what the gateway actually
// routes, and the current probe results ride along so the doc doubles as a
// service directory.
func SpecHandler(reg *registry.Registry, checker *health.Checker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doc := Spec(reg)
		if checker != nil {
			doc["x-service-health"] = checker.AllServiceHealth()
		}
		util.JSON(w, http.StatusOK, doc)
	})
}

// Spec builds the OpenAPI 3 document.
func Spec(reg *registry.Registry) map[string]any {
	paths := map[string]any{
		"/health": map[string]any{
			"get": operation("Gateway and aggregate service health", "Health", false),
		},
		"/health/services": map[string]any{
			"get": operation("Per-service health records", "Health", false),
		},
		"/api/v1/auth/login": map[string]any{
			"post": operation("Authenticate and obtain tokens", "Auth", false),
		},
		"/api/v1/auth/refresh": map[string]any{
			"post": operation("Exchange a refresh token", "Auth", false),
		},
	}

	for _, svc := range reg.Services() {
		if svc.Key == "auth" {
			continue
		}
		paths["/api/v1/"+svc.Key] = map[string]any{
			"get": operation("Proxied to "+svc.Name, "Services", true),
		}
	}

	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":       "HRM API Gateway",
			"description": "Single entry point for the HRM microservices. All /api/v1 traffic is authenticated, validated and proxied to the owning service.",
			"version":     "1.0.0",
		},
		"servers": []map[string]any{
			{"url": "/", "description": "Gateway"},
		},
		"components": map[string]any{
			"securitySchemes": map[string]any{
				"bearerAuth": map[string]any{
					"type":         "http",
					"scheme":       "bearer",
					"bearerFormat": "JWT",
				},
			},
		},
		"paths": paths,
	}
}

func operation(summary, tag string, secured bool) map[string]any {
	op := map[string]any{
		"summary": summary,
		"tags":    []string{tag},
		"responses": map[string]any{
			"200": map[string]any{"description": "Success envelope"},
		},
	}
	if secured {
		op["security"] = []map[string]any{{"bearerAuth": []any{}}}
	}
	return op
}
