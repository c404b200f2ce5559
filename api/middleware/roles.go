package middleware

import (
	"fmt"
	"net/http"

	"github.com/moodpath/moodpath-backend/api/responses"
	pkgerrors "github.com/moodpath/moodpath-backend/pkg/errors"
	"github.com/moodpath/moodpath-backend/pkg/logger"
)

// RequireRole gates a route group on the role carried by the access token.
// The admin surface mounts it after Auth, so the context role is always set
// by the time it runs.
func RequireRole(role string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != role {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, fmt.Sprintf("%s access required", role)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
