package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"jewelbook/internal/auth"
	"jewelbook/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent
		return
	}
}

// writeError writes an error response with the given status code and code.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Warn().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: message, Code: code})
}

// writeServiceError maps a service error onto the HTTP error contract.
// Unknown errors become a 500 without leaking their message.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		logger.Warn().Interface("fields", verr.Fields).Msg("validation failed")
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error:  "validation failed",
			Code:   model.ErrCodeValidationFailed,
			Fields: verr.Fields,
		})
		return
	}

	var qerr *model.QuotaExceededError
	if errors.As(err, &qerr) {
		used, limit := qerr.Used, qerr.Limit
		logger.Warn().Str("metric", qerr.Metric).Int("used", used).Int("limit", limit).Msg("plan limit reached")
		writeJSON(w, http.StatusForbidden, model.ErrorResponse{
			Error: qerr.Error(),
			Code:  model.ErrCodePlanLimitExceeded,
			Used:  &used,
			Limit: &limit,
		})
		return
	}

	var derr *model.DomainError
	if errors.As(err, &derr) {
		if derr.Status >= http.StatusInternalServerError {
			logger.Error().Err(err).Str("code", derr.Code).Msg("request failed")
		}
		writeError(w, derr.Status, derr.Code, derr.Message, logger)
		return
	}

	logger.Error().Err(err).Msg("unexpected error")
	writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
		Error: "internal server error",
		Code:  model.ErrCodeInternalError,
	})
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// actorFrom returns the authenticated user or writes a 401.
func actorFrom(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (uuid.UUID, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, model.ErrUnauthorised.Message, logger)
		return uuid.Nil, false
	}
	return id, true
}

// pathUUID parses a URL parameter as a UUID or writes a 400.
func pathUUID(w http.ResponseWriter, raw, name string, logger zerolog.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		verr := model.NewValidationError()
		verr.Add(name, "must be a valid UUID")
		writeServiceError(w, verr, logger)
		return uuid.Nil, false
	}
	return id, true
}
