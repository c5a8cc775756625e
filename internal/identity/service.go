package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/payvault-io/payvault-backend/pkg/db"
	"github.com/payvault-io/payvault-backend/pkg/db/models"
	"github.com/payvault-io/payvault-backend/pkg/enums"
	pkgerrors "github.com/payvault-io/payvault-backend/pkg/errors"
	"github.com/payvault-io/payvault-backend/pkg/outbox"
)

const principalConstraint = "ux_user_profiles_principal"

// Service defines the profile operations exposed to controllers.
type Service interface {
	GetCallerProfile(ctx context.Context, principal string) (*UserProfileDTO, error)
	Register(ctx context.Context, principal string, input RegisterInput) (*UserProfileDTO, error)
	SaveCallerProfile(ctx context.Context, principal string, input SaveProfileInput) (*UserProfileDTO, error)
}

type repository interface {
	FindByPrincipal(ctx context.Context, principal string) (*models.UserProfile, error)
	FindByPrincipalTx(tx *gorm.DB, principal string) (*models.UserProfile, error)
	CreateTx(tx *gorm.DB, profile *models.UserProfile) error
	UpdateTx(tx *gorm.DB, profile *models.UserProfile) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(tx *gorm.DB, eventType enums.OutboxEventType, aggregateType enums.OutboxAggregateType, aggregateID uuid.UUID, actor outbox.ActorRef, data any) error
}

type service struct {
	repo   repository
	tx     txRunner
	events eventEmitter
}

// NewService wires the identity service with its collaborators.
func NewService(repo repository, tx txRunner, events eventEmitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("identity repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter is required")
	}
	return &service{repo: repo, tx: tx, events: events}, nil
}

// GetCallerProfile returns the caller's profile, or nil when the caller has
// not registered yet. Absence is not an error.
func (s *service) GetCallerProfile(ctx context.Context, principal string) (*UserProfileDTO, error) {
	profile, err := s.repo.FindByPrincipal(ctx, principal)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading profile")
	}
	return toDTO(profile), nil
}

// Register creates the caller's profile. Check-then-create runs inside one
// transaction; the unique index on principal decides concurrent races, so the
// loser always surfaces CONFLICT.
func (s *service) Register(ctx context.Context, principal string, input RegisterInput) (*UserProfileDTO, error) {
	masked, err := MaskAadhaar(input.NationalID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	profile := &models.UserProfile{
		Principal:     principal,
		Name:          strings.TrimSpace(input.Name),
		Email:         strings.TrimSpace(input.Email),
		AadhaarMasked: masked,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, findErr := s.repo.FindByPrincipalTx(tx, principal)
		if findErr == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "profile already registered")
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		if createErr := s.repo.CreateTx(tx, profile); createErr != nil {
			if db.IsUniqueViolation(createErr, principalConstraint) {
				return pkgerrors.New(pkgerrors.CodeConflict, "profile already registered")
			}
			return createErr
		}

		return s.events.Emit(tx, enums.EventProfileRegistered, enums.AggregateUserProfile, profile.ID,
			outbox.ActorRef{UserID: profile.ID.String(), Principal: principal},
			map[string]any{
				"userId":        profile.ID.String(),
				"email":         profile.Email,
				"aadhaarMasked": profile.AadhaarMasked,
			})
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "registering profile")
	}

	return toDTO(profile), nil
}

// SaveCallerProfile updates the caller's own profile. The masked national id
// is derived at registration and never mutable.
func (s *service) SaveCallerProfile(ctx context.Context, principal string, input SaveProfileInput) (*UserProfileDTO, error) {
	var updated *models.UserProfile

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		existing, findErr := s.repo.FindByPrincipalTx(tx, principal)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "profile not registered")
			}
			return findErr
		}
		if existing.ID.String() != input.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "profile does not belong to caller")
		}

		existing.Name = strings.TrimSpace(input.Name)
		existing.Email = strings.TrimSpace(input.Email)
		if existing.Name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		if existing.Email == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
		}

		if updateErr := s.repo.UpdateTx(tx, existing); updateErr != nil {
			return updateErr
		}
		updated = existing
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving profile")
	}

	return toDTO(updated), nil
}
