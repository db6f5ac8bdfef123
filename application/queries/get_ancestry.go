package queries

import (
	"context"

	"factsaura-backend/application/ports"
	"factsaura-backend/domain/core/valueobjects"
	"factsaura-backend/pkg/utils"
)

// GetAncestryQuery fetches the path from a node to its family root
type GetAncestryQuery struct {
	NodeID string `json:"node_id" validate:"required,uuid"`
}

// Validate implements bus.Query
func (q GetAncestryQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// GetAncestryHandler handles GetAncestryQuery
type GetAncestryHandler struct {
	store ports.GenealogyStore
}

// NewGetAncestryHandler creates a new handler instance
func NewGetAncestryHandler(store ports.GenealogyStore) *GetAncestryHandler {
	return &GetAncestryHandler{store: store}
}

// Handle executes the query. Unknown nodes yield an empty path, not an
// error.
func (h *GetAncestryHandler) Handle(ctx context.Context, q GetAncestryQuery) ([]ports.NodeView, error) {
	nodeID, err := valueobjects.NewNodeIDFromString(q.NodeID)
	if err != nil {
		return nil, err
	}
	return h.store.GetAncestryPath(ctx, nodeID)
}
