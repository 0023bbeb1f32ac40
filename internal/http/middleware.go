package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/shopping-list-service/internal/obs"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
)

// RequestIDFromContext returns the request id set by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID).(string)
	return v
}

type statusRecorder struct {
	h     http.ResponseWriter
	st    int
	n     int
	wrote bool
}

func (w *statusRecorder) Header() http.Header { return w.h.Header() }
func (w *statusRecorder) WriteHeader(code int) {
	w.st = code
	w.wrote = true
	w.h.WriteHeader(code)
}
func (w *statusRecorder) Write(b []byte) (int, error) {
	w.wrote = true
	n, err := w.h.Write(b)
	w.n += n
	return n, err
}

// WithRequestID propagates X-Request-Id, generating one when absent.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", reqID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyRequestID, reqID)))
	})
}

// WithLogging logs one line per request and turns handler panics into 500s
// when the handler has not started its response yet.
func WithLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{h: w, st: http.StatusOK}
		defer func() {
			if rec := recover(); rec != nil {
				obs.Logger.Error("http_panic", "panic", rec, "request_id", RequestIDFromContext(r.Context()))
				if !sr.wrote {
					WriteJSONError(sr, http.StatusInternalServerError, "internal_error", "")
				}
			}
			obs.Logger.Info("http_request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sr.st,
				"bytes", sr.n,
				"latency_ms", float64(time.Since(start).Microseconds())/1000.0,
				"request_id", RequestIDFromContext(r.Context()),
			)
		}()
		next.ServeHTTP(sr, r)
	})
}
