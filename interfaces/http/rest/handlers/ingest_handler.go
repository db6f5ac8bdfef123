package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"factsaura-backend/application/commands"
	"factsaura-backend/application/commands/bus"
)

// IngestHandler handles the classify-and-apply endpoint
type IngestHandler struct {
	commandBus *bus.CommandBus
	logger     *zap.Logger
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(commandBus *bus.CommandBus, logger *zap.Logger) *IngestHandler {
	return &IngestHandler{commandBus: commandBus, logger: logger}
}

// IngestRequest is the request body for POST /ingest
type IngestRequest struct {
	Content string `json:"content"`
	Source  string `json:"source,omitempty"`
	UserID  string `json:"user_id,omitempty"`
}

// Ingest handles POST /ingest: the content is classified and the decision
// applied in one call
func (h *IngestHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.commandBus.Send(r.Context(), commands.IngestContentCommand{
		Content: req.Content,
		Source:  req.Source,
		UserID:  req.UserID,
	})
	if err != nil {
		respondMappedError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, result)
}
