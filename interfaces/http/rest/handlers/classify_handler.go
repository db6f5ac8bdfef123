package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"factsaura-backend/application/services"
	"factsaura-backend/pkg/observability"
	"factsaura-backend/pkg/utils"
)

// ClassifyHandler handles classification requests
type ClassifyHandler struct {
	classifier *services.Classifier
	collector  *observability.Collector
	logger     *zap.Logger
}

// NewClassifyHandler creates a new classify handler
func NewClassifyHandler(classifier *services.Classifier, collector *observability.Collector, logger *zap.Logger) *ClassifyHandler {
	return &ClassifyHandler{classifier: classifier, collector: collector, logger: logger}
}

// ClassifyRequest is the request body for POST /classify
type ClassifyRequest struct {
	Content string `json:"content" validate:"required,min=1,max=50000"`
	Hints   struct {
		Source        string `json:"source,omitempty" validate:"max=200"`
		UserID        string `json:"user_id,omitempty" validate:"max=100"`
		TimestampHint string `json:"timestamp_hint,omitempty" validate:"max=64"`
	} `json:"hints"`
}

// Classify handles POST /classify. It is a pure decision endpoint: no
// store mutation happens here.
func (h *ClassifyHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "validation error: "+err.Error())
		return
	}

	start := time.Now()
	classification, err := h.classifier.Classify(r.Context(), req.Content, services.Hints{
		Source:        req.Hints.Source,
		UserID:        req.Hints.UserID,
		TimestampHint: req.Hints.TimestampHint,
	})
	if err != nil {
		respondMappedError(h.logger, w, err)
		return
	}

	h.collector.ClassificationDuration.Observe(time.Since(start).Seconds())
	h.collector.CandidatesScored.Observe(float64(classification.CandidatesScored))

	respondJSON(h.logger, w, http.StatusOK, classification)
}
