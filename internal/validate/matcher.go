// Package validate checks requests against per-route rules before they are
// proxied. Each rule pairs a route matcher with a schema; the first matching
// rule wins.
package validate

import (
	"strings"

	"github.com/google/uuid"

	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/util"
)

// Matcher decides whether a rule applies to a request. The variants are
// closed: Exact, Prefix and Template cover every rule the gateway declares.
// Match reports captured path parameters; err is non-nil when the path shape
// matches but a typed segment fails its check.
type Matcher interface {
	Match(method, path string) (params map[string]string, ok bool, err error)
}

// Exact matches one method and path literally.
type Exact struct {
	Method string
	Path   string
}

func (m Exact) Match(method, path string) (map[string]string, bool, error) {
	if method != m.Method || path != m.Path {
		return nil, false, nil
	}
	return nil, true, nil
}

// Prefix matches any path under a prefix, for any method when Method is empty.
type Prefix struct {
	Method string
	Path   string
}

func (m Prefix) Match(method, path string) (map[string]string, bool, error) {
	if m.Method != "" && method != m.Method {
		return nil, false, nil
	}
	if !strings.HasPrefix(path, m.Path) {
		return nil, false, nil
	}
	return nil, true, nil
}

// SegmentKind types a captured template segment.
type SegmentKind int

const (
	SegmentString SegmentKind = iota
	SegmentUUID
)

type segment struct {
	literal string
	name    string
	kind    SegmentKind
}

// Template matches a path pattern such as "/api/v1/employees/{id:uuid}".
// Captured segments are typed: a shape match with an invalid UUID segment is
// reported as a validation error, not a miss, so the caller gets a 400 instead
// of falling through to the proxy.
type Template struct {
	Method   string
	segments []segment
	pattern  string
}

// NewTemplate parses a pattern. Segments of the form {name} capture strings;
// {name:uuid} additionally requires a valid UUID. Panics on a malformed
// pattern, which is a programming error in the rule table.
func NewTemplate(method, pattern string) Template {
	parts := strings.Split(strings.Trim(pattern, "/"), "/")
	segs := make([]segment, 0, len(parts))
	for _, p := range parts {
		if !strings.HasPrefix(p, "{") || !strings.HasSuffix(p, "}") {
			segs = append(segs, segment{literal: p})
			continue
		}
		spec := p[1 : len(p)-1]
		name, kindName, _ := strings.Cut(spec, ":")
		if name == "" {
			panic("validate: empty segment name in pattern " + pattern)
		}
		kind := SegmentString
		switch kindName {
		case "", "string":
		case "uuid":
			kind = SegmentUUID
		default:
			panic("validate: unknown segment kind " + kindName + " in pattern " + pattern)
		}
		segs = append(segs, segment{name: name, kind: kind})
	}
	return Template{Method: method, segments: segs, pattern: pattern}
}

func (m Template) Match(method, path string) (map[string]string, bool, error) {
	if m.Method != "" && method != m.Method {
		return nil, false, nil
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != len(m.segments) {
		return nil, false, nil
	}

	params := map[string]string{}
	for i, seg := range m.segments {
		if seg.name == "" {
			if parts[i] != seg.literal {
				return nil, false, nil
			}
			continue
		}
		params[seg.name] = parts[i]
	}

	for _, seg := range m.segments {
		if seg.kind != SegmentUUID {
			continue
		}
		if _, err := uuid.Parse(params[seg.name]); err != nil {
			detail := []FieldError{{Field: seg.name, Message: seg.name + " must be a valid UUID"}}
			return params, true, util.Validation("Validation failed").WithDetails(detail)
		}
	}
	return params, true, nil
}
