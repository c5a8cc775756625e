package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/payvault-io/payvault-backend/api/middleware"
	"github.com/payvault-io/payvault-backend/api/responses"
	"github.com/payvault-io/payvault-backend/api/validators"
	"github.com/payvault-io/payvault-backend/internal/identity"
	"github.com/payvault-io/payvault-backend/internal/stripeconfig"
	"github.com/payvault-io/payvault-backend/pkg/auth"
	pkgerrors "github.com/payvault-io/payvault-backend/pkg/errors"
	"github.com/payvault-io/payvault-backend/pkg/logger"
)

type adminChecker interface {
	IsAdmin(claims *auth.AccessClaims) bool
}

// IsCallerAdmin reports whether the authenticated caller holds the admin
// capability.
func IsCallerAdmin(authz adminChecker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if authz == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "authz service unavailable"))
			return
		}
		admin := authz.IsAdmin(middleware.ClaimsFromContext(r.Context()))
		responses.WriteSuccess(w, map[string]bool{"admin": admin})
	}
}

// StripeConfigStatus exposes the configured/unconfigured flag. No secret
// material crosses this endpoint.
func StripeConfigStatus(svc stripeconfig.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "configuration service unavailable"))
			return
		}
		configured, err := svc.IsConfigured(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stripeconfig.StatusDTO{Configured: configured})
	}
}

// SetStripeConfig replaces the provider configuration wholesale. The route
// sits behind RequireAdmin; the service checks the capability again.
func SetStripeConfig(svc stripeconfig.Service, profiles identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "configuration service unavailable"))
			return
		}

		var payload stripeconfig.SetConfigurationInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// Attribute the write to the admin's profile when one exists.
		configuredBy := uuid.Nil
		if profiles != nil {
			if profile, err := profiles.GetCallerProfile(r.Context(), middleware.PrincipalFromContext(r.Context())); err == nil && profile != nil {
				if parsed, parseErr := uuid.Parse(profile.UserID); parseErr == nil {
					configuredBy = parsed
				}
			}
		}

		if err := svc.Set(r.Context(), middleware.ClaimsFromContext(r.Context()), configuredBy, payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stripeconfig.StatusDTO{Configured: true})
	}
}
