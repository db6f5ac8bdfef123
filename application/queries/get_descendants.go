package queries

import (
	"context"

	"factsaura-backend/application/ports"
	"factsaura-backend/domain/core/entities"
	"factsaura-backend/domain/core/valueobjects"
	"factsaura-backend/pkg/utils"
)

// GetDescendantsQuery enumerates nodes below a starting node
type GetDescendantsQuery struct {
	NodeID     string `json:"node_id" validate:"required,uuid"`
	MaxDepth   int    `json:"max_depth" validate:"gte=0"`
	TypeFilter string `json:"type_filter" validate:"omitempty,oneof=lexical_variant semantic_variant structural_variant contextual_variant"`
}

// Validate implements bus.Query
func (q GetDescendantsQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// GetDescendantsHandler handles GetDescendantsQuery
type GetDescendantsHandler struct {
	store ports.GenealogyStore
}

// NewGetDescendantsHandler creates a new handler instance
func NewGetDescendantsHandler(store ports.GenealogyStore) *GetDescendantsHandler {
	return &GetDescendantsHandler{store: store}
}

// Handle executes the query
func (h *GetDescendantsHandler) Handle(ctx context.Context, q GetDescendantsQuery) ([]ports.NodeView, error) {
	nodeID, err := valueobjects.NewNodeIDFromString(q.NodeID)
	if err != nil {
		return nil, err
	}
	return h.store.GetDescendants(ctx, nodeID, ports.DescendantOptions{
		MaxDepth:   q.MaxDepth,
		TypeFilter: entities.MutationType(q.TypeFilter),
	})
}
