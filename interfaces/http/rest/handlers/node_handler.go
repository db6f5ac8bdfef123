package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"factsaura-backend/application/queries"
	querybus "factsaura-backend/application/queries/bus"
)

// NodeHandler handles node-level genealogy queries
type NodeHandler struct {
	queryBus *querybus.QueryBus
	logger   *zap.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(queryBus *querybus.QueryBus, logger *zap.Logger) *NodeHandler {
	return &NodeHandler{queryBus: queryBus, logger: logger}
}

// GetAncestry handles GET /nodes/{nodeID}/ancestry
func (h *NodeHandler) GetAncestry(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetAncestryQuery{
		NodeID: chi.URLParam(r, "nodeID"),
	})
	if err != nil {
		respondMappedError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{"path": result})
}

// GetDescendants handles GET /nodes/{nodeID}/descendants
func (h *NodeHandler) GetDescendants(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetDescendantsQuery{
		NodeID:     chi.URLParam(r, "nodeID"),
		MaxDepth:   queryInt(r, "max_depth", 0),
		TypeFilter: r.URL.Query().Get("type"),
	})
	if err != nil {
		respondMappedError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{"descendants": result})
}

// FindCommonAncestor handles GET /nodes/common-ancestor?a=&b=
func (h *NodeHandler) FindCommonAncestor(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.FindCommonAncestorQuery{
		NodeA: r.URL.Query().Get("a"),
		NodeB: r.URL.Query().Get("b"),
	})
	if err != nil {
		respondMappedError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, result)
}
