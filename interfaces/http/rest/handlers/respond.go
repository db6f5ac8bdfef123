package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	pkgerrors "factsaura-backend/pkg/errors"
)

func respondJSON(logger *zap.Logger, w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func respondError(logger *zap.Logger, w http.ResponseWriter, status int, message string) {
	respondJSON(logger, w, status, map[string]interface{}{
		"error":   true,
		"message": message,
		"code":    status,
	})
}

// respondMappedError translates domain errors to their HTTP status;
// anything unrecognized is an opaque 500
func respondMappedError(logger *zap.Logger, w http.ResponseWriter, err error) {
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		payload := map[string]interface{}{
			"error":   true,
			"type":    appErr.Type,
			"message": appErr.Message,
		}
		if appErr.Code != "" {
			payload["code"] = appErr.Code
		}
		if len(appErr.Details) > 0 {
			payload["details"] = appErr.Details
		}
		respondJSON(logger, w, appErr.HTTPStatus, payload)
		return
	}
	logger.Error("unhandled error", zap.Error(err))
	respondError(logger, w, http.StatusInternalServerError, "internal error")
}
