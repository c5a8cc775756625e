package stripe

import (
	"context"
	"errors"
	"strings"
	"time"

	stripesdk "github.com/stripe/stripe-go/v84"

	pkgerrors "github.com/payvault-io/payvault-backend/pkg/errors"
)

const defaultTimeout = 30 * time.Second

// LineItem is one purchasable entry forwarded to the provider. Amounts are
// integer minor units throughout.
type LineItem struct {
	Currency           string
	ProductName        string
	ProductDescription string
	UnitAmountCents    int64
	Quantity           int64
}

// SessionRequest carries everything the provider needs to open a hosted
// checkout page.
type SessionRequest struct {
	LineItems        []LineItem
	SuccessURL       string
	CancelURL        string
	AllowedCountries []string
}

// Session is the ephemeral provider handle returned to the caller. It is
// never persisted.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Client creates checkout sessions against Stripe. The secret key is runtime
// data (admin-configured), so it is bound per call rather than at boot.
type Client struct {
	timeout time.Duration
}

// NewClient builds a provider client with the given per-call timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{timeout: timeout}
}

// CreateCheckoutSession opens a hosted checkout session. Provider failures
// come back as PROVIDER_ERROR with the Stripe diagnostic preserved for logs.
func (c *Client) CreateCheckoutSession(ctx context.Context, secretKey string, req SessionRequest) (*Session, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := &stripesdk.CheckoutSessionCreateParams{
		Mode:       stripesdk.String(string(stripesdk.CheckoutSessionModePayment)),
		SuccessURL: stripesdk.String(req.SuccessURL),
		CancelURL:  stripesdk.String(req.CancelURL),
	}
	for _, item := range req.LineItems {
		params.LineItems = append(params.LineItems, &stripesdk.CheckoutSessionCreateLineItemParams{
			Quantity: stripesdk.Int64(item.Quantity),
			PriceData: &stripesdk.CheckoutSessionCreateLineItemPriceDataParams{
				Currency:   stripesdk.String(strings.ToLower(item.Currency)),
				UnitAmount: stripesdk.Int64(item.UnitAmountCents),
				ProductData: &stripesdk.CheckoutSessionCreateLineItemPriceDataProductDataParams{
					Name:        stripesdk.String(item.ProductName),
					Description: stripesdk.String(item.ProductDescription),
				},
			},
		})
	}
	if len(req.AllowedCountries) > 0 {
		params.ShippingAddressCollection = &stripesdk.CheckoutSessionCreateShippingAddressCollectionParams{
			AllowedCountries: stripesdk.StringSlice(req.AllowedCountries),
		}
	}

	sc := stripesdk.NewClient(secretKey)
	session, err := sc.V1CheckoutSessions.Create(ctx, params)
	if err != nil {
		return nil, mapProviderError(err)
	}
	return &Session{ID: session.ID, URL: session.URL}, nil
}

// LooksLikeSecretKey reports whether the value has the shape of a Stripe
// secret/restricted key. Used at configuration time; the authoritative check
// is the provider rejecting the key on first use.
func LooksLikeSecretKey(key string) bool {
	key = strings.TrimSpace(key)
	return strings.HasPrefix(key, "sk_") || strings.HasPrefix(key, "rk_")
}

func mapProviderError(err error) error {
	var stripeErr *stripesdk.Error
	if errors.As(err, &stripeErr) {
		msg := stripeErr.Msg
		if msg == "" {
			msg = "provider rejected the request"
		}
		return pkgerrors.Wrap(pkgerrors.CodeProvider, err, msg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeProvider, err, "provider request failed")
}
