package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/cortexai/sqlconsole/internal/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Recovery turns a handler panic into a 500 that carries the request id.
// Placed inside Logging, the panic is logged with every field the handler
// had already attached (cycle seq, state) and the request line shows the 500.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger := zerolog.Ctx(r.Context())
			if logger.GetLevel() == zerolog.Disabled {
				logger = &log.Logger
			}
			logger.Error().
				Interface("panic", rec).
				Str("stack", string(debug.Stack())).
				Str("route", routePattern(r)).
				Msg("handler panicked")
			models.WriteError(w, http.StatusInternalServerError, "internal server error")
		}()
		next.ServeHTTP(w, r)
	})
}
