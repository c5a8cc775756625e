package controllers

import (
	"net/http"

	"github.com/payvault-io/payvault-backend/api/responses"
	"github.com/payvault-io/payvault-backend/api/validators"
	checkoutsvc "github.com/payvault-io/payvault-backend/internal/checkout"
	pkgerrors "github.com/payvault-io/payvault-backend/pkg/errors"
	"github.com/payvault-io/payvault-backend/pkg/logger"
)

// CreateCheckoutSession opens a hosted checkout session with the provider
// and returns its id/url pair. Nothing is persisted.
func CreateCheckoutSession(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutsvc.CreateSessionInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.CreateSession(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}
