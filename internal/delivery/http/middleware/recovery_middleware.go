package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"go-therapy-platform/pkg/response"

	"github.com/sirupsen/logrus"
)

// Recovery turns a handler panic into a logged 500 with the standard error
// envelope. http.ErrAbortHandler is re-raised so net/http can abort the
// connection as intended.
func Recovery(log *logrus.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				log.WithFields(logrus.Fields{
					"panic":     rec,
					"stack":     string(debug.Stack()),
					"method":    r.Method,
					"path":      r.URL.Path,
					"client_ip": peerIP(r),
				}).Error("Request panic recovered")

				response.InternalServerError(w, "Internal server error")
			}()
			next.ServeHTTP(w, r)
		})
	}
}
