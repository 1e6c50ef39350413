package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pomgrid/pomgrid/pkg/observability"
)

// headerRequestID is the header the request id is read from and echoed
// back on.
const headerRequestID = "X-Request-Id"

// requestIDKey is the context key for the request id.
type requestIDKey struct{}

// RequestID returns the request id stored in ctx, or "" when the
// request did not pass through the middleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// requestID assigns each request an id (honoring an incoming
// X-Request-Id), echoes it on the response, and logs the request with
// its final status and duration.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(headerRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		w.Header().Set(headerRequestID, id)

		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		observability.Server().OnRequest(ctx, r.Method, r.URL.Path)
		next.ServeHTTP(ww, r.WithContext(ctx))
		duration := time.Since(start)
		observability.Server().OnResponse(ctx, r.Method, r.URL.Path, ww.status, duration)

		s.logger.Info("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"duration", duration,
		)
	})
}

// recoverer turns handler panics into 500 responses instead of killing
// the connection.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "path", r.URL.Path, "panic", rec)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// statusWriter captures the status code written by a handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
