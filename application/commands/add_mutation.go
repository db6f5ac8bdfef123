package commands

import (
	"context"

	"go.uber.org/zap"

	"factsaura-backend/application/ports"
	"factsaura-backend/domain/core/entities"
	"factsaura-backend/domain/core/valueobjects"
	"factsaura-backend/domain/services"
	"factsaura-backend/pkg/utils"
)

// AddMutationCommand inserts a new variant under an existing parent node.
// When no descriptor is supplied, one is derived by scoring the content
// against the parent.
type AddMutationCommand struct {
	FamilyID     string                       `json:"family_id" validate:"required"`
	ParentNodeID string                       `json:"parent_node_id" validate:"required,uuid"`
	Content      string                       `json:"content" validate:"required,min=1,max=50000"`
	Descriptor   *entities.MutationDescriptor `json:"descriptor,omitempty"`
}

// Validate implements bus.Command
func (c AddMutationCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// AddMutationHandler handles AddMutationCommand
type AddMutationHandler struct {
	store      ports.GenealogyStore
	analyzer   services.TextAnalyzer
	calculator services.SimilarityCalculator
	logger     *zap.Logger
}

// NewAddMutationHandler creates a new handler instance
func NewAddMutationHandler(
	store ports.GenealogyStore,
	analyzer services.TextAnalyzer,
	calculator services.SimilarityCalculator,
	logger *zap.Logger,
) *AddMutationHandler {
	return &AddMutationHandler{store: store, analyzer: analyzer, calculator: calculator, logger: logger}
}

// Handle executes the add mutation command
func (h *AddMutationHandler) Handle(ctx context.Context, cmd AddMutationCommand) (ports.AddMutationResult, error) {
	parentID, err := valueobjects.NewNodeIDFromString(cmd.ParentNodeID)
	if err != nil {
		return ports.AddMutationResult{}, err
	}
	familyID := valueobjects.FamilyID(cmd.FamilyID)

	fingerprint, err := h.analyzer.Fingerprint(cmd.Content)
	if err != nil {
		return ports.AddMutationResult{}, err
	}

	descriptor := cmd.Descriptor
	if descriptor == nil {
		parentFingerprint, err := h.store.NodeFingerprint(ctx, parentID)
		if err != nil {
			return ports.AddMutationResult{}, err
		}
		derived := services.DeriveDescriptor(h.calculator.Score(parentFingerprint, fingerprint))
		descriptor = &derived
	}

	result, err := h.store.AddMutation(ctx, familyID, parentID, cmd.Content, fingerprint, *descriptor)
	if err != nil {
		return ports.AddMutationResult{}, err
	}

	h.logger.Info("mutation attached",
		zap.String("family_id", cmd.FamilyID),
		zap.String("node_id", result.NodeID.String()),
		zap.Int("generation", result.Generation),
		zap.String("mutation_type", string(descriptor.Type)))
	return result, nil
}
