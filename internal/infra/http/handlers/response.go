package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/bizdev-chatbot/internal/usecase"
)

const msgInternal = "Internal server error."

type errorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeErrorResponse(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message, Code: status})
}

// writeError maps use case errors to status codes. Only DomainError
// messages reach the client.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		status := http.StatusBadRequest
		if de.Code == usecase.CodeNotFound {
			status = http.StatusNotFound
		}
		logger.Debug("request rejected", zap.String("code", de.Code), zap.String("field", de.Field), zap.String("message", de.Message))
		writeErrorResponse(w, status, de.Message)
		return
	}

	logger.Error("request failed", zap.Error(err))
	writeErrorResponse(w, http.StatusInternalServerError, msgInternal)
}
