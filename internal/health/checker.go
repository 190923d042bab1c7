// Package health maintains a best-effort liveness view of every backend.
package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/registry"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusUnknown   Status = "unknown"
	// StatusDegraded only appears as an aggregate, never per service.
	StatusDegraded Status = "degraded"
)

// ServiceHealth is the last probe result for one service. Records are replaced
// whole on every check so readers never see a partial update.
type ServiceHealth struct {
	Name           string    `json:"name"`
	Status         Status    `json:"status"`
	ResponseTimeMs int64     `json:"responseTimeMs"`
	LastChecked    time.Time `json:"lastChecked"`
	Error          string    `json:"error,omitempty"`
}

// Overall is the aggregate view served by the gateway's health endpoints.
type Overall struct {
	Status   Status          `json:"status"`
	Services []ServiceHealth `json:"services"`
	Summary  Summary         `json:"summary"`
}

type Summary struct {
	Total     int `json:"total"`
	Healthy   int `json:"healthy"`
	Unhealthy int `json:"unhealthy"`
}

// Checker polls every registered service on a fixed interval. One checker
// instance is owned by the process and injected where needed, so tests can
// construct isolated instances with their own registries and clocks.
type Checker struct {
	reg      *registry.Registry
	interval time.Duration
	logger   zerolog.Logger

	client *http.Client
	now    func() time.Time

	mu     sync.RWMutex
	status map[string]ServiceHealth

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

func New(reg *registry.Registry, interval time.Duration, logger zerolog.Logger) *Checker {
	c := &Checker{
		reg:      reg,
		interval: interval,
		logger:   logger,
		client:   &http.Client{},
		now:      time.Now,
		status:   make(map[string]ServiceHealth),
		done:     make(chan struct{}),
	}
	for _, svc := range reg.Services() {
		c.status[svc.Key] = ServiceHealth{Name: svc.Name, Status: StatusUnknown}
	}
	return c
}

// Start runs an immediate check of all services and then checks on every
// interval until Stop is called. Request handling is never blocked: probes run
// on their own goroutines and results land in the status map.
func (c *Checker) Start() {
	c.startOnce.Do(func() {
		go func() {
			c.CheckAll(context.Background())
			ticker := time.NewTicker(c.interval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					c.CheckAll(context.Background())
				case <-c.done:
					return
				}
			}
		}()
		c.logger.Info().Dur("interval", c.interval).Msg("health checker started")
	})
}

// Stop cancels the periodic checks. Used during graceful shutdown.
func (c *Checker) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		c.logger.Info().Msg("health checker stopped")
	})
}

// CheckAll probes every service concurrently and waits for all probes to
// settle. One service's failure never blocks or invalidates another's result.
func (c *Checker) CheckAll(ctx context.Context) {
	var wg sync.WaitGroup
	for _, svc := range c.reg.Services() {
		wg.Add(1)
		go func(svc registry.ServiceDescriptor) {
			defer wg.Done()
			c.check(ctx, svc)
		}(svc)
	}
	wg.Wait()
}

func (c *Checker) check(ctx context.Context, svc registry.ServiceDescriptor) {
	ctx, cancel := context.WithTimeout(ctx, svc.Timeout)
	defer cancel()

	start := c.now()
	record := ServiceHealth{Name: svc.Name, LastChecked: start}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, svc.HealthURL(), nil)
	if err != nil {
		record.Status = StatusUnhealthy
		record.Error = err.Error()
		c.set(svc.Key, record)
		return
	}

	resp, err := c.client.Do(req)
	record.ResponseTimeMs = c.now().Sub(start).Milliseconds()
	if err != nil {
		record.Status = StatusUnhealthy
		record.Error = err.Error()
		c.set(svc.Key, record)
		c.logger.Warn().Str("service", svc.Name).Err(err).Msg("service is unhealthy")
		return
	}
	defer resp.Body.Close()

	// 4xx still proves the process is up; only 5xx and transport errors count
	// against the service.
	if resp.StatusCode < http.StatusInternalServerError {
		record.Status = StatusHealthy
		c.set(svc.Key, record)
		c.logger.Debug().Str("service", svc.Name).Int64("response_time_ms", record.ResponseTimeMs).Msg("service is healthy")
		return
	}

	record.Status = StatusUnhealthy
	record.Error = resp.Status
	c.set(svc.Key, record)
	c.logger.Warn().Str("service", svc.Name).Str("status", resp.Status).Msg("service is unhealthy")
}

func (c *Checker) set(key string, record ServiceHealth) {
	c.mu.Lock()
	c.status[key] = record
	c.mu.Unlock()
}

// ServiceHealth returns the last known state for one service key.
func (c *Checker) ServiceHealth(key string) (ServiceHealth, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.status[key]
	return h, ok
}

// AllServiceHealth returns every record in registry key order.
func (c *Checker) AllServiceHealth() []ServiceHealth {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ServiceHealth, 0, len(c.status))
	for _, key := range c.reg.Keys() {
		out = append(out, c.status[key])
	}
	return out
}

// IsHealthy reports whether the given service passed its last probe.
func (c *Checker) IsHealthy(key string) bool {
	h, ok := c.ServiceHealth(key)
	return ok && h.Status == StatusHealthy
}

// OverallHealth aggregates: healthy when every service is healthy, unhealthy
// when none are, degraded otherwise.
func (c *Checker) OverallHealth() Overall {
	services := c.AllServiceHealth()
	healthy := 0
	for _, s := range services {
		if s.Status == StatusHealthy {
			healthy++
		}
	}
	total := len(services)

	status := StatusHealthy
	switch {
	case healthy == 0:
		status = StatusUnhealthy
	case healthy < total:
		status = StatusDegraded
	}

	return Overall{
		Status:   status,
		Services: services,
		Summary:  Summary{Total: total, Healthy: healthy, Unhealthy: total - healthy},
	}
}
