package queries

import (
	"context"

	"factsaura-backend/application/ports"
	"factsaura-backend/domain/core/aggregates"
	"factsaura-backend/domain/core/valueobjects"
	"factsaura-backend/pkg/utils"
)

// AnalyzePatternsQuery builds the mutation-pattern report for a family
type AnalyzePatternsQuery struct {
	FamilyID string `json:"family_id" validate:"required"`
}

// Validate implements bus.Query
func (q AnalyzePatternsQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// AnalyzePatternsHandler handles AnalyzePatternsQuery
type AnalyzePatternsHandler struct {
	store ports.GenealogyStore
}

// NewAnalyzePatternsHandler creates a new handler instance
func NewAnalyzePatternsHandler(store ports.GenealogyStore) *AnalyzePatternsHandler {
	return &AnalyzePatternsHandler{store: store}
}

// Handle executes the query
func (h *AnalyzePatternsHandler) Handle(ctx context.Context, q AnalyzePatternsQuery) (aggregates.PatternReport, error) {
	return h.store.AnalyzePatterns(ctx, valueobjects.FamilyID(q.FamilyID))
}
