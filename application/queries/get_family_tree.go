package queries

import (
	"context"

	"factsaura-backend/application/ports"
	"factsaura-backend/domain/core/valueobjects"
	"factsaura-backend/pkg/utils"
)

// GetFamilyTreeQuery fetches a full family snapshot
type GetFamilyTreeQuery struct {
	FamilyID       string `json:"family_id" validate:"required"`
	MaxDepth       int    `json:"max_depth" validate:"gte=0"`
	IncludeContent bool   `json:"include_content"`
}

// Validate implements bus.Query
func (q GetFamilyTreeQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// GetFamilyTreeHandler handles GetFamilyTreeQuery
type GetFamilyTreeHandler struct {
	store ports.GenealogyStore
}

// NewGetFamilyTreeHandler creates a new handler instance
func NewGetFamilyTreeHandler(store ports.GenealogyStore) *GetFamilyTreeHandler {
	return &GetFamilyTreeHandler{store: store}
}

// Handle executes the query
func (h *GetFamilyTreeHandler) Handle(ctx context.Context, q GetFamilyTreeQuery) (ports.FamilyTreeView, error) {
	return h.store.GetFamilyTree(ctx, valueobjects.FamilyID(q.FamilyID), ports.TreeOptions{
		MaxDepth:       q.MaxDepth,
		IncludeContent: q.IncludeContent,
	})
}
