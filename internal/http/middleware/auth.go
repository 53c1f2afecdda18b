package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/league-service/internal/http/requestutil"
	"github.com/preston-bernstein/league-service/internal/http/respond"
	"github.com/preston-bernstein/league-service/internal/logging"
)

// AdminAuth requires "Authorization: Bearer <token>" on every request it wraps.
// An empty token lets every request through.
func AdminAuth(token string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := requestutil.BearerToken(r)
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				log := logging.FromContext(r.Context(), logger)
				logging.Warn(log, "admin unauthorized",
					slog.String("path", r.URL.Path),
					slog.String("client_ip", requestutil.ClientIP(r)),
				)
				respond.Error(w, r, http.StatusUnauthorized, "unauthorized", log)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
