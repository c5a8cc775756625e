package middleware

import (
	"net/http"

	"github.com/payvault-io/payvault-backend/api/responses"
	"github.com/payvault-io/payvault-backend/pkg/auth"
	pkgerrors "github.com/payvault-io/payvault-backend/pkg/errors"
	"github.com/payvault-io/payvault-backend/pkg/logger"
)

type adminChecker interface {
	IsAdmin(claims *auth.AccessClaims) bool
}

// RequireAdmin gates a route group on the admin capability.
func RequireAdmin(authz adminChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authz == nil || !authz.IsAdmin(ClaimsFromContext(r.Context())) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin capability required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
