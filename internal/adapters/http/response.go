package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/KOSASIH/nexus-revoluter/internal/contracts"
	"github.com/KOSASIH/nexus-revoluter/internal/domain"
)

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, contracts.SuccessResponse{Status: "success", Data: data})
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, contracts.SuccessResponse{Status: "success", Message: message})
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, contracts.ErrorResponse{
		Status: "error",
		Error:  contracts.ErrorPayload{Code: code, Message: message},
	})
}

func mapDomainError(err error) (int, string, string) {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	case domain.KindAuthorization:
		if errors.Is(err, domain.ErrUnauthorized) {
			return http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials"
		}
		return http.StatusForbidden, "FORBIDDEN", err.Error()
	case domain.KindState:
		return http.StatusConflict, "STATE_CONFLICT", err.Error()
	case domain.KindTransfer:
		return http.StatusBadGateway, "TRANSFER_FAILED", err.Error()
	case domain.KindNotFound:
		return http.StatusNotFound, "NOT_FOUND", err.Error()
	case domain.KindConflict:
		return http.StatusConflict, "CONFLICT", err.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}
}
