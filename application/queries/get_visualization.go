package queries

import (
	"context"

	"factsaura-backend/application/ports"
	"factsaura-backend/domain/core/aggregates"
	"factsaura-backend/domain/core/valueobjects"
	"factsaura-backend/pkg/utils"
)

// GetVisualizationQuery builds the render-ready export for a family
type GetVisualizationQuery struct {
	FamilyID string `json:"family_id" validate:"required"`
}

// Validate implements bus.Query
func (q GetVisualizationQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// GetVisualizationHandler handles GetVisualizationQuery
type GetVisualizationHandler struct {
	store ports.GenealogyStore
}

// NewGetVisualizationHandler creates a new handler instance
func NewGetVisualizationHandler(store ports.GenealogyStore) *GetVisualizationHandler {
	return &GetVisualizationHandler{store: store}
}

// Handle executes the query
func (h *GetVisualizationHandler) Handle(ctx context.Context, q GetVisualizationQuery) (aggregates.Visualization, error) {
	return h.store.GenerateVisualization(ctx, valueobjects.FamilyID(q.FamilyID))
}
