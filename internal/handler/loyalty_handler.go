package handler

import (
	"net/http"

	"jewelbook/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// LoyaltyHandler serves customer loyalty balances.
type LoyaltyHandler struct {
	service service.LoyaltyService
	logger  zerolog.Logger
}

// NewLoyaltyHandler creates a new loyalty handler.
func NewLoyaltyHandler(service service.LoyaltyService, logger zerolog.Logger) *LoyaltyHandler {
	return &LoyaltyHandler{
		service: service,
		logger:  logger.With().Str("handler", "loyalty").Logger(),
	}
}

// Summary handles GET /api/v1/shops/{shopId}/customers/{customerId}/loyalty requests.
func (h *LoyaltyHandler) Summary(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r, h.logger)
	if !ok {
		return
	}

	shopID, ok := pathUUID(w, chi.URLParam(r, "shopId"), "shopId", h.logger)
	if !ok {
		return
	}
	customerID, ok := pathUUID(w, chi.URLParam(r, "customerId"), "customerId", h.logger)
	if !ok {
		return
	}

	summary, err := h.service.Summary(r.Context(), actorID, shopID, customerID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
