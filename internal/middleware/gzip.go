package middleware

import (
	"compress/gzip"
	"net/http"
	"strings"

	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/util"
)

type gzipWriter struct {
	http.ResponseWriter
	gz *gzip.Writer
}

func (gw *gzipWriter) Write(b []byte) (int, error) { return gw.gz.Write(b) }

// Gzip compresses gateway-local responses (health, docs) for clients that
// accept it. Proxied responses pass through untouched: the backend already
// negotiated encoding with the client via the forwarded Accept-Encoding.
func Gzip(localPrefixes []string) util.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") || !hasPrefix(r.URL.Path, localPrefixes) {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Content-Encoding", "gzip")
			w.Header().Add("Vary", "Accept-Encoding")
			gz := gzip.NewWriter(w)
			defer gz.Close()
			next.ServeHTTP(&gzipWriter{ResponseWriter: w, gz: gz}, r)
		})
	}
}

func hasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
