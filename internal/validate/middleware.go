package validate

import (
	"net/http"

	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/util"
)

// Middleware runs the first matching rule against each request. Requests that
// match no rule pass through unvalidated; the backend owns their contract.
func Middleware(rules []Rule) util.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, rule := range rules {
				params, ok, err := rule.Matcher.Match(r.Method, r.URL.Path)
				if !ok {
					continue
				}
				if err != nil {
					util.WriteError(w, err)
					return
				}
				if rule.Schema != nil {
					if err := rule.Schema.Apply(r, params); err != nil {
						util.WriteError(w, err)
						return
					}
				}
				break
			}
			next.ServeHTTP(w, r)
		})
	}
}
