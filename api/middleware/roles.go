package middleware

import (
	"fmt"
	"net/http"

	"github.com/maisonessence/parfumerie-backend/api/responses"
	pkgerrors "github.com/maisonessence/parfumerie-backend/pkg/errors"
	"github.com/maisonessence/parfumerie-backend/pkg/logger"
)

// RequireRole gates a route group on the role carried by the access
// token. Auth must run first; a missing role fails closed.
func RequireRole(role string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actual := RoleFromContext(r.Context())
			if actual != role {
				err := pkgerrors.New(pkgerrors.CodeForbidden, fmt.Sprintf("role %q required", role))
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
