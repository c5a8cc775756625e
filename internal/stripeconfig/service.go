package stripeconfig

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/payvault-io/payvault-backend/pkg/auth"
	"github.com/payvault-io/payvault-backend/pkg/db/models"
	pkgerrors "github.com/payvault-io/payvault-backend/pkg/errors"
	"github.com/payvault-io/payvault-backend/pkg/stripe"
)

var countryPattern = regexp.MustCompile(`^[A-Z]{2}$`)

// RuntimeConfiguration is the decrypted form handed to the checkout
// orchestrator. It never leaves the process.
type RuntimeConfiguration struct {
	SecretKey        string
	AllowedCountries []string
}

// SetConfigurationInput is the admin write payload.
type SetConfigurationInput struct {
	SecretKey        string   `json:"secretKey" validate:"required"`
	AllowedCountries []string `json:"allowedCountries" validate:"required,min=1"`
}

// StatusDTO is the non-secret configuration view any caller may read.
type StatusDTO struct {
	Configured bool `json:"configured"`
}

// Service defines the configuration operations.
type Service interface {
	IsConfigured(ctx context.Context) (bool, error)
	Set(ctx context.Context, claims *auth.AccessClaims, configuredBy uuid.UUID, input SetConfigurationInput) error
	Configuration(ctx context.Context) (*RuntimeConfiguration, error)
}

type repository interface {
	Get(ctx context.Context) (*models.StripeConfiguration, error)
	Exists(ctx context.Context) (bool, error)
	ReplaceTx(tx *gorm.DB, cfg *models.StripeConfiguration) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type adminChecker interface {
	IsAdmin(claims *auth.AccessClaims) bool
}

type sealer interface {
	Seal(plaintext string) ([]byte, error)
	Open(sealed []byte) (string, error)
}

type service struct {
	repo  repository
	tx    txRunner
	authz adminChecker
	box   sealer
	now   func() time.Time
}

// NewService wires the configuration service with its collaborators.
func NewService(repo repository, tx txRunner, authz adminChecker, box sealer) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("configuration repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if authz == nil {
		return nil, fmt.Errorf("authz service is required")
	}
	if box == nil {
		return nil, fmt.Errorf("secret box is required")
	}
	return &service{repo: repo, tx: tx, authz: authz, box: box, now: time.Now}, nil
}

// IsConfigured reports whether checkout can run. Readable by any
// authenticated caller; it exposes no secret material.
func (s *service) IsConfigured(ctx context.Context) (bool, error) {
	exists, err := s.repo.Exists(ctx)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking configuration")
	}
	return exists, nil
}

// Set replaces the configuration wholesale. Admin-only; the previous secret
// key and country set are gone after commit. In-flight checkout sessions
// created under the old key stay valid on the provider side.
func (s *service) Set(ctx context.Context, claims *auth.AccessClaims, configuredBy uuid.UUID, input SetConfigurationInput) error {
	if !s.authz.IsAdmin(claims) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin capability required")
	}

	secretKey := strings.TrimSpace(input.SecretKey)
	if secretKey == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "secret key is required")
	}
	if !stripe.LooksLikeSecretKey(secretKey) {
		return pkgerrors.New(pkgerrors.CodeValidation, "secret key must be a Stripe secret or restricted key")
	}

	countries, err := normalizeCountries(input.AllowedCountries)
	if err != nil {
		return err
	}

	ciphertext, err := s.box.Seal(secretKey)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sealing secret key")
	}

	cfg := &models.StripeConfiguration{
		SecretKeyCiphertext: ciphertext,
		AllowedCountries:    countries,
		ConfiguredBy:        configuredBy,
		ConfiguredAt:        s.now().UTC(),
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.ReplaceTx(tx, cfg)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing configuration")
	}
	return nil
}

// Configuration returns the decrypted runtime configuration, or
// CONFIGURATION_REQUIRED when no admin has configured the provider yet.
func (s *service) Configuration(ctx context.Context) (*RuntimeConfiguration, error) {
	stored, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeConfiguration, "payment provider has not been configured")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading configuration")
	}

	secretKey, err := s.box.Open(stored.SecretKeyCiphertext)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unsealing secret key")
	}

	return &RuntimeConfiguration{
		SecretKey:        secretKey,
		AllowedCountries: append([]string(nil), stored.AllowedCountries...),
	}, nil
}

func normalizeCountries(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one allowed country is required")
	}
	seen := map[string]struct{}{}
	countries := make([]string, 0, len(raw))
	for _, country := range raw {
		normalized := strings.ToUpper(strings.TrimSpace(country))
		if !countryPattern.MatchString(normalized) {
			return nil, pkgerrors.
				New(pkgerrors.CodeValidation, "country codes must be 2-letter uppercase ISO codes").
				WithDetails(map[string]string{"country": country})
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		countries = append(countries, normalized)
	}
	sort.Strings(countries)
	return countries, nil
}
