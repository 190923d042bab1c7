package auth

import (
	"strings"

	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/config"
)

// Policy is the data-driven authorization table: path prefix to allowed roles.
// Authorization itself is a pure decision over (role, path), independent of
// any HTTP machinery.
type Policy struct {
	gates []config.RoleGate
}

func NewPolicy(gates []config.RoleGate) *Policy {
	return &Policy{gates: gates}
}

// RolesFor returns the allowed roles for the first gate whose prefix matches
// the path, and whether the path is gated at all.
func (p *Policy) RolesFor(path string) ([]string, bool) {
	for _, g := range p.gates {
		if strings.HasPrefix(path, g.PathPrefix) {
			return g.Roles, true
		}
	}
	return nil, false
}

// Allowed reports whether a caller with the given role may access the path.
// Ungated paths are open to any authenticated caller.
func (p *Policy) Allowed(role, path string) bool {
	roles, gated := p.RolesFor(path)
	if !gated {
		return true
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
