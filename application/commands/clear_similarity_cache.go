package commands

import (
	"context"

	"go.uber.org/zap"

	"factsaura-backend/domain/services"
)

// ClearSimilarityCacheCommand drops every cached pair score. Operator
// initiated; never runs automatically.
type ClearSimilarityCacheCommand struct{}

// Validate implements bus.Command
func (c ClearSimilarityCacheCommand) Validate() error {
	return nil
}

// ClearCacheResult reports how many entries were evicted
type ClearCacheResult struct {
	Evicted int `json:"evicted"`
}

// ClearSimilarityCacheHandler handles ClearSimilarityCacheCommand
type ClearSimilarityCacheHandler struct {
	calculator services.SimilarityCalculator
	logger     *zap.Logger
}

// NewClearSimilarityCacheHandler creates a new handler instance
func NewClearSimilarityCacheHandler(calculator services.SimilarityCalculator, logger *zap.Logger) *ClearSimilarityCacheHandler {
	return &ClearSimilarityCacheHandler{calculator: calculator, logger: logger}
}

// Handle executes the cache clear command
func (h *ClearSimilarityCacheHandler) Handle(ctx context.Context, cmd ClearSimilarityCacheCommand) (ClearCacheResult, error) {
	return ClearCacheResult{Evicted: h.calculator.ClearCache()}, nil
}
