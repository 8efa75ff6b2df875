package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"talenthub/internal/platform/requestctx"
	"talenthub/internal/transport/http/api"
)

// Recoverer converts panics into 500 responses so a single bad request
// cannot take the server down.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				reqID := requestctx.GetRequestID(r.Context())
				slog.Error("panic recovered",
					"panic", rec,
					"path", r.URL.Path,
					"requestId", reqID,
					"stack", string(debug.Stack()),
				)
				api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", reqID)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
