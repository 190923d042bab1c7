package validate

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/util"
)

var validate = newValidator()

// newValidator reports field errors under their JSON names so envelope details
// match what the client actually sent.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// FieldError is one entry in the details list of a 400 envelope.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Schema validates (and may normalize) a matched request. Implementations
// rewrite parsed and defaulted values back onto the request so downstream
// services always see canonical input.
type Schema interface {
	Apply(r *http.Request, params map[string]string) error
}

// Body validates a JSON request body against a tagged struct. The factory
// returns a fresh pointer per request. Unknown keys are dropped when the body
// is re-serialized, so backends only ever see declared fields.
type Body struct {
	New func() any
}

// defaulter lets a schema struct fill optional fields before validation.
type defaulter interface {
	applyDefaults()
}

func (s Body) Apply(r *http.Request, _ map[string]string) error {
	if r.Body == nil {
		return util.Validation("Request body is required")
	}
	raw, err := io.ReadAll(r.Body)
	r.Body.Close()
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return util.Validation("Request body is required")
	}

	target := s.New()
	if err := json.Unmarshal(raw, target); err != nil {
		return util.Validation("Request body is not valid JSON").WithDetails(
			[]FieldError{{Field: "body", Message: err.Error()}})
	}
	if d, ok := target.(defaulter); ok {
		d.applyDefaults()
	}

	if err := validate.Struct(target); err != nil {
		return util.Validation("Validation failed").WithDetails(fieldErrors(err))
	}

	// Re-serialize so the backend receives exactly what was validated.
	clean, err := json.Marshal(target)
	if err != nil {
		return util.Validation("Request body is not valid JSON")
	}
	r.Body = io.NopCloser(bytes.NewReader(clean))
	r.ContentLength = int64(len(clean))
	return nil
}

// Pagination validates list query parameters and writes the defaulted values
// back onto the URL. An optional free-form sort field name passes through
// untouched.
type Pagination struct{}

type pageQuery struct {
	Page  int    `json:"page" validate:"min=1"`
	Limit int    `json:"limit" validate:"min=1,max=100"`
	Order string `json:"order" validate:"oneof=asc desc"`
}

func (Pagination) Apply(r *http.Request, _ map[string]string) error {
	q := r.URL.Query()
	pq := pageQuery{Page: 1, Limit: 10, Order: "asc"}

	var details []FieldError
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			details = append(details, FieldError{Field: "page", Message: "page must be an integer"})
		} else {
			pq.Page = n
		}
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			details = append(details, FieldError{Field: "limit", Message: "limit must be an integer"})
		} else {
			pq.Limit = n
		}
	}
	if v := q.Get("order"); v != "" {
		pq.Order = v
	}
	if len(details) > 0 {
		return util.Validation("Validation failed").WithDetails(details)
	}

	if err := validate.Struct(pq); err != nil {
		return util.Validation("Validation failed").WithDetails(fieldErrors(err))
	}

	q.Set("page", strconv.Itoa(pq.Page))
	q.Set("limit", strconv.Itoa(pq.Limit))
	q.Set("order", pq.Order)
	r.URL.RawQuery = normalizeQuery(q)
	return nil
}

func normalizeQuery(q url.Values) string { return q.Encode() }

func fieldErrors(err error) []FieldError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		if fe.Kind().String() == "string" {
			return fe.Field() + " must be at least " + fe.Param() + " characters"
		}
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		if fe.Kind().String() == "string" {
			return fe.Field() + " must be at most " + fe.Param() + " characters"
		}
		return fe.Field() + " must be at most " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "uuid":
		return fe.Field() + " must be a valid UUID"
	default:
		return fe.Field() + " is invalid"
	}
}
