// Package middleware provides the gateway's HTTP pipeline stages.
package middleware

import "net/http"

// responseWriter captures the status code and bytes written, and lets timing
// middleware set trailers-style headers at the last possible moment.
type responseWriter struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
	// beforeHeader runs once, right before the status line is written. Headers
	// set inside it still make it onto the wire.
	beforeHeader func()
}

func wrapWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(status int) {
	if rw.wroteHeader {
		return
	}
	rw.wroteHeader = true
	rw.status = status
	if rw.beforeHeader != nil {
		rw.beforeHeader()
	}
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
