package handler

import (
	"net/http"

	"jewelbook/internal/model"
	"jewelbook/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// InvoiceHandler handles invoice-related HTTP requests.
type InvoiceHandler struct {
	service service.InvoiceService
	logger  zerolog.Logger
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(service service.InvoiceService, logger zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		service: service,
		logger:  logger.With().Str("handler", "invoice").Logger(),
	}
}

// Create handles POST /api/v1/invoices requests.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r, h.logger)
	if !ok {
		return
	}

	var req model.InvoiceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	resp, err := h.service.CreateInvoice(r.Context(), actorID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// GetByID handles GET /api/v1/shops/{shopId}/invoices/{invoiceId} requests.
func (h *InvoiceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r, h.logger)
	if !ok {
		return
	}

	shopID, ok := pathUUID(w, chi.URLParam(r, "shopId"), "shopId", h.logger)
	if !ok {
		return
	}
	invoiceID, ok := pathUUID(w, chi.URLParam(r, "invoiceId"), "invoiceId", h.logger)
	if !ok {
		return
	}

	invoice, err := h.service.GetByID(r.Context(), actorID, shopID, invoiceID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, invoice)
}
