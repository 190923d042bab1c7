// Package request carries per-request metadata between pipeline stages.
package request

import (
	"context"
	"time"
)

// Identity is the verified caller for the lifetime of one request. It is
// derived from a JWT (locally or by the auth service) and never stored.
type Identity struct {
	UserID     string `json:"userId"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	EmployeeID string `json:"employeeId,omitempty"`
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// Info is created when a request enters the pipeline and mutated in place by
// later stages (auth attaches Identity, routing attaches TargetService).
// Stages within one request run sequentially, so no locking is needed.
type Info struct {
	ID            string
	Start         time.Time
	Identity      *Identity
	TargetService string
}

type ctxKey struct{}

// WithInfo returns a context carrying info.
func WithInfo(ctx context.Context, info *Info) context.Context {
	return context.WithValue(ctx, ctxKey{}, info)
}

// FromContext returns the request info, or nil outside the pipeline.
func FromContext(ctx context.Context) *Info {
	info, _ := ctx.Value(ctxKey{}).(*Info)
	return info
}

// IdentityFromContext is a convenience accessor for the authenticated caller.
func IdentityFromContext(ctx context.Context) *Identity {
	if info := FromContext(ctx); info != nil {
		return info.Identity
	}
	return nil
}
