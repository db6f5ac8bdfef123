package queries

import (
	"context"

	"factsaura-backend/application/ports"
	"factsaura-backend/domain/core/valueobjects"
	"factsaura-backend/pkg/utils"
)

// FindCommonAncestorQuery resolves the closest shared ancestor of two nodes
type FindCommonAncestorQuery struct {
	NodeA string `json:"node_a" validate:"required,uuid"`
	NodeB string `json:"node_b" validate:"required,uuid"`
}

// Validate implements bus.Query
func (q FindCommonAncestorQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// FindCommonAncestorHandler handles FindCommonAncestorQuery
type FindCommonAncestorHandler struct {
	store ports.GenealogyStore
}

// NewFindCommonAncestorHandler creates a new handler instance
func NewFindCommonAncestorHandler(store ports.GenealogyStore) *FindCommonAncestorHandler {
	return &FindCommonAncestorHandler{store: store}
}

// Handle executes the query. Nodes from different families report found
// as false rather than an error.
func (h *FindCommonAncestorHandler) Handle(ctx context.Context, q FindCommonAncestorQuery) (ports.CommonAncestorResult, error) {
	nodeA, err := valueobjects.NewNodeIDFromString(q.NodeA)
	if err != nil {
		return ports.CommonAncestorResult{}, err
	}
	nodeB, err := valueobjects.NewNodeIDFromString(q.NodeB)
	if err != nil {
		return ports.CommonAncestorResult{}, err
	}
	return h.store.FindCommonAncestor(ctx, nodeA, nodeB)
}
