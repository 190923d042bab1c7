package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/util"
)

var scriptTag = regexp.MustCompile(`(?is)<script\b.*?</script>`)

// Sanitize strips script tags from string values in JSON bodies and from query
// parameters before anything downstream sees them. Non-JSON bodies pass
// through untouched.
func Sanitize() util.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if q := r.URL.RawQuery; q != "" {
				values := r.URL.Query()
				changed := false
				for key, vs := range values {
					for i, v := range vs {
						if clean := scriptTag.ReplaceAllString(v, ""); clean != v {
							vs[i] = clean
							changed = true
						}
					}
					values[key] = vs
				}
				if changed {
					r.URL.RawQuery = values.Encode()
				}
			}

			if r.Body != nil && r.ContentLength != 0 &&
				strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
				body, err := io.ReadAll(r.Body)
				r.Body.Close()
				if err != nil {
					util.Error(w, "Unable to read request body", http.StatusBadRequest)
					return
				}
				if clean, ok := sanitizeJSON(body); ok {
					body = clean
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
				r.ContentLength = int64(len(body))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// sanitizeJSON rewrites string values in place. Invalid JSON is left alone;
// validation rejects it later with a proper field error.
func sanitizeJSON(body []byte) ([]byte, bool) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, false
	}
	cleaned, err := json.Marshal(sanitizeValue(doc))
	if err != nil {
		return nil, false
	}
	return cleaned, true
}

func sanitizeValue(v any) any {
	switch val := v.(type) {
	case string:
		return scriptTag.ReplaceAllString(val, "")
	case map[string]any:
		for k, inner := range val {
			val[k] = sanitizeValue(inner)
		}
		return val
	case []any:
		for i, inner := range val {
			val[i] = sanitizeValue(inner)
		}
		return val
	default:
		return v
	}
}
