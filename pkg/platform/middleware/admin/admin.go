// Package admin guards operator endpoints with a shared token whose bcrypt
// hash is configured at startup.
package admin

import (
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	dErrors "welcome/pkg/domain-errors"
	"welcome/pkg/platform/httputil"
	"welcome/pkg/requestcontext"
)

// RequireAdminToken admits requests whose X-Admin-Token matches tokenHash.
// An empty tokenHash disables the routes entirely and they answer 404.
func RequireAdminToken(tokenHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	hash := []byte(tokenHash)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(hash) == 0 {
				http.NotFound(w, r)
				return
			}

			ctx := r.Context()
			token := r.Header.Get("X-Admin-Token")
			if token == "" || bcrypt.CompareHashAndPassword(hash, []byte(token)) != nil {
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", requestcontext.RequestID(ctx),
					"path", r.URL.Path,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin token required"))
				return
			}

			if actor := r.Header.Get("X-Admin-Actor-ID"); actor != "" {
				ctx = requestcontext.WithAdminActor(ctx, actor)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
