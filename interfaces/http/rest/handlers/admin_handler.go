package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"factsaura-backend/application/commands"
	"factsaura-backend/application/commands/bus"
	"factsaura-backend/application/ports"
	"factsaura-backend/pkg/observability"
)

// AdminHandler exposes operator endpoints
type AdminHandler struct {
	commandBus *bus.CommandBus
	store      ports.GenealogyStore
	collector  *observability.Collector
	logger     *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(commandBus *bus.CommandBus, store ports.GenealogyStore, collector *observability.Collector, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{commandBus: commandBus, store: store, collector: collector, logger: logger}
}

// ClearSimilarityCache handles POST /admin/similarity-cache/clear
func (h *AdminHandler) ClearSimilarityCache(w http.ResponseWriter, r *http.Request) {
	result, err := h.commandBus.Send(r.Context(), commands.ClearSimilarityCacheCommand{})
	if err != nil {
		respondMappedError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, result)
}

// Stats handles GET /admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := h.store.Stats(r.Context())
	h.collector.TrackedFamilies.Set(float64(stats.FamilyCount))
	h.collector.TrackedNodes.Set(float64(stats.NodeCount))
	respondJSON(h.logger, w, http.StatusOK, stats)
}
