package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// Logging stores a request-scoped logger in the context and writes one line
// per request with it. Handlers add fields (cycle seq, outcome) through
// zerolog.Ctx(r.Context()).UpdateContext and they appear on that line.
// Must run after RequestID.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		ctx := log.With().Str("request_id", GetRequestID(r.Context())).Logger().WithContext(r.Context())
		reqLog := zerolog.Ctx(ctx)

		next.ServeHTTP(rw, r.WithContext(ctx))

		evt := reqLog.Info()
		if rw.status >= http.StatusInternalServerError {
			evt = reqLog.Error()
		}
		evt.
			Str("method", r.Method).
			Str("route", routePattern(r)).
			Str("path", r.URL.Path).
			Int("status", rw.status).
			Int("size", rw.size).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("request")
	})
}

// routePattern is the matched chi pattern ("/api/ask"), or "" outside a router.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}
