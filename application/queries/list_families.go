package queries

import (
	"context"

	"factsaura-backend/application/ports"
)

// ListFamiliesQuery fetches the summary of every tracked family
type ListFamiliesQuery struct{}

// Validate implements bus.Query
func (q ListFamiliesQuery) Validate() error {
	return nil
}

// ListFamiliesHandler handles ListFamiliesQuery
type ListFamiliesHandler struct {
	store ports.GenealogyStore
}

// NewListFamiliesHandler creates a new handler instance
func NewListFamiliesHandler(store ports.GenealogyStore) *ListFamiliesHandler {
	return &ListFamiliesHandler{store: store}
}

// Handle executes the query
func (h *ListFamiliesHandler) Handle(ctx context.Context, q ListFamiliesQuery) ([]ports.FamilySummary, error) {
	return h.store.ListFamilies(ctx)
}
