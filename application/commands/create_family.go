package commands

import (
	"context"

	"go.uber.org/zap"

	"factsaura-backend/application/ports"
	"factsaura-backend/domain/services"
	"factsaura-backend/pkg/utils"
)

// CreateFamilyCommand seeds a new misinformation family from its first
// observed content
type CreateFamilyCommand struct {
	Content string `json:"content" validate:"required,min=1,max=50000"`
	Source  string `json:"source" validate:"max=200"`
}

// Validate implements bus.Command
func (c CreateFamilyCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// CreateFamilyHandler handles CreateFamilyCommand
type CreateFamilyHandler struct {
	store    ports.GenealogyStore
	analyzer services.TextAnalyzer
	logger   *zap.Logger
}

// NewCreateFamilyHandler creates a new handler instance
func NewCreateFamilyHandler(store ports.GenealogyStore, analyzer services.TextAnalyzer, logger *zap.Logger) *CreateFamilyHandler {
	return &CreateFamilyHandler{store: store, analyzer: analyzer, logger: logger}
}

// Handle executes the create family command
func (h *CreateFamilyHandler) Handle(ctx context.Context, cmd CreateFamilyCommand) (ports.CreateFamilyResult, error) {
	fingerprint, err := h.analyzer.Fingerprint(cmd.Content)
	if err != nil {
		return ports.CreateFamilyResult{}, err
	}

	result, err := h.store.CreateFamily(ctx, cmd.Content, fingerprint)
	if err != nil {
		return ports.CreateFamilyResult{}, err
	}

	h.logger.Info("family created",
		zap.String("family_id", result.FamilyID.String()),
		zap.String("root_node_id", result.RootNodeID.String()),
		zap.String("domain", string(fingerprint.Domain)))
	return result, nil
}
