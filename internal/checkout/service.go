package checkout

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/payvault-io/payvault-backend/internal/stripeconfig"
	pkgerrors "github.com/payvault-io/payvault-backend/pkg/errors"
	"github.com/payvault-io/payvault-backend/pkg/stripe"
)

// ShoppingItem is a transient purchasable entry. Nothing here is persisted.
type ShoppingItem struct {
	Currency           string `json:"currency" validate:"required"`
	ProductName        string `json:"productName" validate:"required"`
	ProductDescription string `json:"productDescription"`
	PriceInCents       int64  `json:"priceInCents" validate:"required"`
	Quantity           int64  `json:"quantity" validate:"required"`
}

// CreateSessionInput is the checkout submission payload.
type CreateSessionInput struct {
	Items      []ShoppingItem `json:"items" validate:"required"`
	SuccessURL string         `json:"successUrl" validate:"required,url"`
	CancelURL  string         `json:"cancelUrl" validate:"required,url"`
}

// SessionDTO is the ephemeral session handle returned to the caller.
type SessionDTO struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Service issues hosted checkout sessions.
type Service interface {
	CreateSession(ctx context.Context, input CreateSessionInput) (*SessionDTO, error)
}

type configurationSource interface {
	Configuration(ctx context.Context) (*stripeconfig.RuntimeConfiguration, error)
}

type provider interface {
	CreateCheckoutSession(ctx context.Context, secretKey string, req stripe.SessionRequest) (*stripe.Session, error)
}

type service struct {
	configs  configurationSource
	provider provider
}

// NewService wires the checkout orchestrator.
func NewService(configs configurationSource, prov provider) (Service, error) {
	if configs == nil {
		return nil, fmt.Errorf("configuration source is required")
	}
	if prov == nil {
		return nil, fmt.Errorf("payment provider is required")
	}
	return &service{configs: configs, provider: prov}, nil
}

// CreateSession validates the submission, loads the stored credentials and
// delegates to the provider. The provider call happens outside any
// transaction or lock, and the session is never persisted. There is no retry
// and no dedup: two identical calls open two sessions.
func (s *service) CreateSession(ctx context.Context, input CreateSessionInput) (*SessionDTO, error) {
	cfg, err := s.configs.Configuration(ctx)
	if err != nil {
		return nil, err
	}

	if err := validateInput(input); err != nil {
		return nil, err
	}

	req := stripe.SessionRequest{
		SuccessURL:       input.SuccessURL,
		CancelURL:        input.CancelURL,
		AllowedCountries: cfg.AllowedCountries,
	}
	for _, item := range input.Items {
		req.LineItems = append(req.LineItems, stripe.LineItem{
			Currency:           item.Currency,
			ProductName:        item.ProductName,
			ProductDescription: item.ProductDescription,
			UnitAmountCents:    item.PriceInCents,
			Quantity:           item.Quantity,
		})
	}

	session, err := s.provider.CreateCheckoutSession(ctx, cfg.SecretKey, req)
	if err != nil {
		return nil, err
	}
	return &SessionDTO{ID: session.ID, URL: session.URL}, nil
}

func validateInput(input CreateSessionInput) error {
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}
	for i, item := range input.Items {
		if item.PriceInCents <= 0 {
			return pkgerrors.
				New(pkgerrors.CodeValidation, "item price must be a positive amount of minor units").
				WithDetails(map[string]any{"index": i})
		}
		if item.Quantity <= 0 {
			return pkgerrors.
				New(pkgerrors.CodeValidation, "item quantity must be positive").
				WithDetails(map[string]any{"index": i})
		}
		if strings.TrimSpace(item.Currency) == "" {
			return pkgerrors.
				New(pkgerrors.CodeValidation, "item currency is required").
				WithDetails(map[string]any{"index": i})
		}
		if strings.TrimSpace(item.ProductName) == "" {
			return pkgerrors.
				New(pkgerrors.CodeValidation, "item product name is required").
				WithDetails(map[string]any{"index": i})
		}
	}
	if err := validateRedirectURL("successUrl", input.SuccessURL); err != nil {
		return err
	}
	return validateRedirectURL("cancelUrl", input.CancelURL)
}

func validateRedirectURL(field, raw string) error {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return pkgerrors.
			New(pkgerrors.CodeValidation, "redirect url must be an absolute http(s) url").
			WithDetails(map[string]string{"field": field})
	}
	return nil
}
