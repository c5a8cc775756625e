package controllers

import (
	"net/http"

	"github.com/payvault-io/payvault-backend/api/middleware"
	"github.com/payvault-io/payvault-backend/api/responses"
	"github.com/payvault-io/payvault-backend/api/validators"
	"github.com/payvault-io/payvault-backend/internal/identity"
	pkgerrors "github.com/payvault-io/payvault-backend/pkg/errors"
	"github.com/payvault-io/payvault-backend/pkg/logger"
)

// GetProfile returns the caller's profile, or data:null when the caller has
// not registered yet.
func GetProfile(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		profile, err := svc.GetCallerProfile(r.Context(), middleware.PrincipalFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if profile == nil {
			responses.WriteSuccess(w, nil)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// RegisterProfile creates the caller's one profile.
func RegisterProfile(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		var payload identity.RegisterInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Register(r.Context(), middleware.PrincipalFromContext(r.Context()), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, profile)
	}
}

// SaveProfile updates the caller's own profile.
func SaveProfile(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		var payload identity.SaveProfileInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.SaveCallerProfile(r.Context(), middleware.PrincipalFromContext(r.Context()), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}
