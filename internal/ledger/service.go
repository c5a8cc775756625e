package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/payvault-io/payvault-backend/internal/identity"
	"github.com/payvault-io/payvault-backend/pkg/db"
	"github.com/payvault-io/payvault-backend/pkg/db/models"
	"github.com/payvault-io/payvault-backend/pkg/enums"
	pkgerrors "github.com/payvault-io/payvault-backend/pkg/errors"
	"github.com/payvault-io/payvault-backend/pkg/money"
	"github.com/payvault-io/payvault-backend/pkg/outbox"
)

const transactionConstraint = "ux_payment_records_transaction_id"

// RecordPaymentInput is the append payload. Amount is integer minor units.
type RecordPaymentInput struct {
	UserID        string `json:"userId" validate:"required,uuid"`
	TransactionID string `json:"transactionId" validate:"required"`
	Amount        int64  `json:"amount" validate:"required"`
	Currency      string `json:"currency" validate:"required"`
	Status        string `json:"status" validate:"required"`
	PaymentMethod string `json:"paymentMethod" validate:"required"`
	Description   string `json:"description"`
}

// PaymentRecordDTO is the wire form of a ledger entry. Timestamp is integer
// nanoseconds since epoch; amountDisplay is derived, display-only.
type PaymentRecordDTO struct {
	TransactionID string `json:"transactionId"`
	UserID        string `json:"userId"`
	Amount        int64  `json:"amount"`
	AmountDisplay string `json:"amountDisplay"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
	PaymentMethod string `json:"paymentMethod"`
	Description   string `json:"description"`
	Timestamp     int64  `json:"timestamp"`
}

// Service defines the ledger operations.
type Service interface {
	Record(ctx context.Context, input RecordPaymentInput) error
	History(ctx context.Context, principal, requestedUserID string) ([]PaymentRecordDTO, error)
}

type repository interface {
	CreateTx(tx *gorm.DB, record *models.PaymentRecord) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.PaymentRecord, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(tx *gorm.DB, eventType enums.OutboxEventType, aggregateType enums.OutboxAggregateType, aggregateID uuid.UUID, actor outbox.ActorRef, data any) error
}

type profileSource interface {
	GetCallerProfile(ctx context.Context, principal string) (*identity.UserProfileDTO, error)
}

type service struct {
	repo     repository
	tx       txRunner
	events   eventEmitter
	profiles profileSource
	now      func() time.Time
}

// NewService wires the ledger service with its collaborators.
func NewService(repo repository, tx txRunner, events eventEmitter, profiles profileSource) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter is required")
	}
	if profiles == nil {
		return nil, fmt.Errorf("profile source is required")
	}
	return &service{repo: repo, tx: tx, events: events, profiles: profiles, now: time.Now}, nil
}

// Record appends one immutable ledger entry stamped with the current time.
// The insert and its outbox event commit atomically; a duplicate
// transactionId surfaces CONFLICT and leaves exactly one record behind.
func (s *service) Record(ctx context.Context, input RecordPaymentInput) error {
	if input.Amount <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be a positive number of minor units")
	}
	if strings.TrimSpace(input.TransactionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}
	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id must be a valid uuid")
	}
	for field, value := range map[string]string{
		"currency":      input.Currency,
		"status":        input.Status,
		"paymentMethod": input.PaymentMethod,
	} {
		if strings.TrimSpace(value) == "" {
			return pkgerrors.
				New(pkgerrors.CodeValidation, "required field is empty").
				WithDetails(map[string]string{"field": field})
		}
	}

	record := &models.PaymentRecord{
		TransactionID: strings.TrimSpace(input.TransactionID),
		UserID:        userID,
		AmountCents:   input.Amount,
		Currency:      strings.ToUpper(strings.TrimSpace(input.Currency)),
		Status:        strings.TrimSpace(input.Status),
		PaymentMethod: strings.TrimSpace(input.PaymentMethod),
		Description:   strings.TrimSpace(input.Description),
		RecordedAt:    s.now().UTC(),
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if createErr := s.repo.CreateTx(tx, record); createErr != nil {
			if db.IsUniqueViolation(createErr, transactionConstraint) {
				return pkgerrors.
					New(pkgerrors.CodeConflict, "transaction id already recorded").
					WithDetails(map[string]string{"transactionId": record.TransactionID})
			}
			return createErr
		}

		return s.events.Emit(tx, enums.EventPaymentRecorded, enums.AggregatePaymentRecord, record.ID,
			outbox.ActorRef{UserID: record.UserID.String()},
			map[string]any{
				"transactionId": record.TransactionID,
				"userId":        record.UserID.String(),
				"amount":        record.AmountCents,
				"amountDisplay": money.FormatMinorUnits(record.AmountCents, record.Currency),
				"currency":      record.Currency,
				"status":        record.Status,
				"recordedAt":    record.RecordedAt.UnixNano(),
			})
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return typed
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording payment")
	}
	return nil
}

// History returns the caller's own records ascending by recorded time. The
// result is a fully materialized snapshot.
func (s *service) History(ctx context.Context, principal, requestedUserID string) ([]PaymentRecordDTO, error) {
	profile, err := s.profiles.GetCallerProfile(ctx, principal)
	if err != nil {
		return nil, err
	}
	if profile == nil || profile.UserID != requestedUserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "payment history is owner-only")
	}

	userID, err := uuid.Parse(requestedUserID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id must be a valid uuid")
	}

	records, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading payment history")
	}

	history := make([]PaymentRecordDTO, 0, len(records))
	for _, record := range records {
		history = append(history, PaymentRecordDTO{
			TransactionID: record.TransactionID,
			UserID:        record.UserID.String(),
			Amount:        record.AmountCents,
			AmountDisplay: money.FormatMinorUnits(record.AmountCents, record.Currency),
			Currency:      record.Currency,
			Status:        record.Status,
			PaymentMethod: record.PaymentMethod,
			Description:   record.Description,
			Timestamp:     record.RecordedAt.UnixNano(),
		})
	}
	return history, nil
}
