package router

import (
	"net/http"

	"jewelbook/internal/handler"
	"jewelbook/internal/middleware"
	"jewelbook/internal/ratelimit"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Invoice *handler.InvoiceHandler
	Loyalty *handler.LoyaltyHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(
	h Handlers,
	verifier middleware.TokenVerifier,
	limiter ratelimit.Limiter,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Recovery -> RequestID -> Logging -> CORS -> Authenticate
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.Authenticate(verifier, logger))

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.With(middleware.RateLimit(limiter, logger)).Post("/invoices", h.Invoice.Create)

		r.Route("/shops/{shopId}", func(r chi.Router) {
			r.Get("/invoices/{invoiceId}", h.Invoice.GetByID)
			r.Get("/customers/{customerId}/loyalty", h.Loyalty.Summary)
		})
	})

	return r
}
