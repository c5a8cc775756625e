package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/payvault-io/payvault-backend/api/controllers"
	"github.com/payvault-io/payvault-backend/api/middleware"
	"github.com/payvault-io/payvault-backend/internal/authz"
	checkoutsvc "github.com/payvault-io/payvault-backend/internal/checkout"
	"github.com/payvault-io/payvault-backend/internal/identity"
	"github.com/payvault-io/payvault-backend/internal/ledger"
	"github.com/payvault-io/payvault-backend/internal/stripeconfig"
	"github.com/payvault-io/payvault-backend/pkg/config"
	"github.com/payvault-io/payvault-backend/pkg/db"
	"github.com/payvault-io/payvault-backend/pkg/logger"
	"github.com/payvault-io/payvault-backend/pkg/metrics"
	"github.com/payvault-io/payvault-backend/pkg/redis"
)

// RouterParams carries everything the HTTP surface needs.
type RouterParams struct {
	Config  *config.Config
	Logger  *logger.Logger
	Metrics *metrics.Registry

	DB    db.Pinger
	Redis *redis.Client

	Authz        *authz.Service
	Identity     identity.Service
	StripeConfig stripeconfig.Service
	Checkout     checkoutsvc.Service
	Ledger       ledger.Service
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
		middleware.Metrics(p.Metrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(p.Config))
		r.Get("/ready", controllers.HealthReady(p.Config, p.Logger, p.DB, p.Redis))
	})

	if p.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", p.Metrics.Handler())
	}

	store := p.Redis
	registerLimit := middleware.NewRateLimitPolicy("register", p.Config.RateLimits.RegisterWindow, p.Config.RateLimits.RegisterLimit)
	checkoutLimit := middleware.NewRateLimitPolicy("checkout", p.Config.RateLimits.CheckoutWindow, p.Config.RateLimits.CheckoutLimit)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(p.Config.JWT, p.Logger))
		r.Use(idempotencyMiddleware(store, p.Logger))

		r.Route("/v1", func(r chi.Router) {
			r.Get("/profile", controllers.GetProfile(p.Identity, p.Logger))
			r.With(rateLimitMiddleware(registerLimit, store, p.Logger)).
				Post("/profile/register", controllers.RegisterProfile(p.Identity, p.Logger))
			r.Put("/profile", controllers.SaveProfile(p.Identity, p.Logger))

			r.Get("/me/admin", controllers.IsCallerAdmin(p.Authz, p.Logger))
			r.Get("/config/stripe/status", controllers.StripeConfigStatus(p.StripeConfig, p.Logger))

			r.With(rateLimitMiddleware(checkoutLimit, store, p.Logger)).
				Post("/checkout/session", controllers.CreateCheckoutSession(p.Checkout, p.Logger))

			r.Post("/payments", controllers.RecordPayment(p.Ledger, p.Logger))
			r.Get("/payments/{userId}", controllers.PaymentHistory(p.Ledger, p.Logger))
		})

		r.Route("/admin/v1", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(p.Authz, p.Logger))
			r.Put("/config/stripe", controllers.SetStripeConfig(p.StripeConfig, p.Identity, p.Logger))
		})
	})

	return r
}

// The middleware interfaces are satisfied by *redis.Client; a nil pointer
// must become a nil interface so the middleware's disabled path applies.
func idempotencyMiddleware(store *redis.Client, logg *logger.Logger) func(http.Handler) http.Handler {
	if store == nil {
		return middleware.Idempotency(nil, logg)
	}
	return middleware.Idempotency(store, logg)
}

func rateLimitMiddleware(policy middleware.RateLimitPolicy, store *redis.Client, logg *logger.Logger) func(http.Handler) http.Handler {
	if store == nil {
		return middleware.RateLimit(policy, nil, logg)
	}
	return middleware.RateLimit(policy, store, logg)
}
