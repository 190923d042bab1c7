// Package registry holds the static service table and the prefix route table.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/config"
)

// ServiceDescriptor describes one registered backend. Immutable after startup.
type ServiceDescriptor struct {
	Key        string
	Name       string
	BaseURL    string
	HealthPath string
	Timeout    time.Duration
}

// HealthURL is the absolute URL probed by the health checker.
func (s ServiceDescriptor) HealthURL() string {
	return strings.TrimRight(s.BaseURL, "/") + s.HealthPath
}

// RouteRule maps a public path prefix to a service key.
type RouteRule struct {
	PathPrefix string
	ServiceKey string
}

// Registry resolves service keys and matches request paths to services.
// It is built once at startup and read-only thereafter, so no locking.
type Registry struct {
	byKey map[string]ServiceDescriptor
	keys  []string
	// rules sorted by prefix length descending so the longest prefix wins
	rules []RouteRule
}

// New validates that every route rule references a registered service and
// returns a ready registry. An unresolved reference is a configuration error
// the caller must treat as fatal.
func New(services map[string]config.Service, routes []config.Route) (*Registry, error) {
	byKey := make(map[string]ServiceDescriptor, len(services))
	keys := make([]string, 0, len(services))
	for key, svc := range services {
		byKey[key] = ServiceDescriptor{
			Key:        key,
			Name:       svc.Name,
			BaseURL:    strings.TrimRight(svc.URL, "/"),
			HealthPath: svc.HealthPath,
			Timeout:    svc.Timeout,
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rules := make([]RouteRule, 0, len(routes))
	for _, rt := range routes {
		if _, ok := byKey[rt.ServiceKey]; !ok {
			return nil, fmt.Errorf("route %s references unknown service %q", rt.PathPrefix, rt.ServiceKey)
		}
		rules = append(rules, RouteRule{PathPrefix: rt.PathPrefix, ServiceKey: rt.ServiceKey})
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return len(rules[i].PathPrefix) > len(rules[j].PathPrefix)
	})

	return &Registry{byKey: byKey, keys: keys, rules: rules}, nil
}

// Resolve returns the descriptor for a service key.
func (r *Registry) Resolve(key string) (ServiceDescriptor, bool) {
	svc, ok := r.byKey[key]
	return svc, ok
}

// Match finds the service responsible for a request path, longest prefix first.
func (r *Registry) Match(path string) (ServiceDescriptor, bool) {
	for _, rule := range r.rules {
		if strings.HasPrefix(path, rule.PathPrefix) {
			return r.byKey[rule.ServiceKey], true
		}
	}
	return ServiceDescriptor{}, false
}

// Keys returns the registered service keys in stable order.
func (r *Registry) Keys() []string { return r.keys }

// Services returns all descriptors in key order.
func (r *Registry) Services() []ServiceDescriptor {
	out := make([]ServiceDescriptor, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.byKey[k])
	}
	return out
}
