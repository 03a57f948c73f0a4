package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/pasarkita/marketplace-api/internal/handler"
	"github.com/pasarkita/marketplace-api/internal/logging"
)

// Recovery turns handler panics into a 500 response instead of killing
// the connection. http.ErrAbortHandler is re-raised so aborted streams
// keep their net/http semantics.
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

			logging.FromContext(r.Context()).Error("panic recovered",
				"error", rec,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)
			handler.RespondAppError(w, handler.ErrInternalError)
		}()
		next.ServeHTTP(w, r)
	})
}
