// Package identity extracts the authenticated actor from the request.
// Authentication itself happens upstream; the gateway forwards the verified
// identity in X-User-Id / X-User-Name / X-User-Email / X-User-Role headers.
package identity

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	"playgrounds/internal/lib/api/response"
	"playgrounds/internal/models"
)

type ctxKey struct{}

// New rejects requests without a forwarded identity and stores the actor in
// the request context for handlers to pick up via UserFromContext.
func New() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.ParseInt(r.Header.Get("X-User-Id"), 10, 64)
			if err != nil || id <= 0 {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing user identity"))
				return
			}

			user := models.User{
				ID:    id,
				Name:  r.Header.Get("X-User-Name"),
				Email: r.Header.Get("X-User-Email"),
				Role:  models.Role(r.Header.Get("X-User-Role")),
			}
			if user.Role == "" {
				user.Role = models.RoleSportsman
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		}

		return http.HandlerFunc(fn)
	}
}

// UserFromContext returns the actor placed by New.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(ctxKey{}).(models.User)
	return user, ok
}
