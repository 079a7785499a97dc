package utils

import (
	"encoding/json"
	"net/http"

	"branchdesk-backend/internal/apperr"

	"go.uber.org/zap"
)

type ErrorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Error writes err with the status of its kind. Internal errors are logged
// in full and reach the client only as a generic message.
func Error(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.Error("request failed", zap.Error(err))
	}
	code, message := apperr.Public(err)
	JSON(w, status, ErrorBody{Error: http.StatusText(status), Code: code, Message: message})
}
