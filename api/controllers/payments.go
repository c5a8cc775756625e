package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/payvault-io/payvault-backend/api/middleware"
	"github.com/payvault-io/payvault-backend/api/responses"
	"github.com/payvault-io/payvault-backend/api/validators"
	"github.com/payvault-io/payvault-backend/internal/ledger"
	pkgerrors "github.com/payvault-io/payvault-backend/pkg/errors"
	"github.com/payvault-io/payvault-backend/pkg/logger"
)

// RecordPayment appends one immutable ledger entry.
func RecordPayment(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		var payload ledger.RecordPaymentInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Record(r.Context(), payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"transactionId": payload.TransactionID})
	}
}

// PaymentHistory returns the caller's own records ascending by recorded
// time.
func PaymentHistory(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		requestedUserID := chi.URLParam(r, "userId")
		if requestedUserID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "user id is required"))
			return
		}

		history, err := svc.History(r.Context(), middleware.PrincipalFromContext(r.Context()), requestedUserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}
