package commands

import (
	"context"

	"go.uber.org/zap"

	"factsaura-backend/application/ports"
	appservices "factsaura-backend/application/services"
	"factsaura-backend/domain/core/valueobjects"
	"factsaura-backend/domain/services"
	pkgerrors "factsaura-backend/pkg/errors"
	"factsaura-backend/pkg/utils"
)

// IngestContentCommand classifies content and immediately applies the
// decision: duplicates are acknowledged, variants attached, unknown
// content seeds a new family.
type IngestContentCommand struct {
	Content string `json:"content" validate:"required,min=1,max=50000"`
	Source  string `json:"source" validate:"max=200"`
	UserID  string `json:"user_id" validate:"max=100"`
}

// Validate implements bus.Command
func (c IngestContentCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// IngestResult combines the classification with the ids it produced
type IngestResult struct {
	Classification appservices.Classification `json:"classification"`
	FamilyID       valueobjects.FamilyID      `json:"family_id"`
	NodeID         valueobjects.NodeID        `json:"node_id"`
	Created        bool                       `json:"created"`
}

// IngestContentHandler handles IngestContentCommand
type IngestContentHandler struct {
	classifier *appservices.Classifier
	store      ports.GenealogyStore
	analyzer   services.TextAnalyzer
	logger     *zap.Logger
}

// NewIngestContentHandler creates a new handler instance
func NewIngestContentHandler(
	classifier *appservices.Classifier,
	store ports.GenealogyStore,
	analyzer services.TextAnalyzer,
	logger *zap.Logger,
) *IngestContentHandler {
	return &IngestContentHandler{classifier: classifier, store: store, analyzer: analyzer, logger: logger}
}

// Handle classifies the content and performs the store mutation the
// decision calls for. Classification and mutation stay separate steps so
// a failed insert can be retried without re-scoring.
func (h *IngestContentHandler) Handle(ctx context.Context, cmd IngestContentCommand) (IngestResult, error) {
	classification, err := h.classifier.Classify(ctx, cmd.Content, appservices.Hints{
		Source: cmd.Source,
		UserID: cmd.UserID,
	})
	if err != nil {
		return IngestResult{}, err
	}

	switch classification.Decision {
	case appservices.DecisionDuplicate:
		return IngestResult{
			Classification: classification,
			FamilyID:       classification.FamilyID,
			NodeID:         *classification.ParentNodeID,
			Created:        false,
		}, nil

	case appservices.DecisionAttachAsChild:
		fingerprint, err := h.analyzer.Fingerprint(cmd.Content)
		if err != nil {
			return IngestResult{}, err
		}
		added, err := h.store.AddMutation(ctx, classification.FamilyID, *classification.ParentNodeID,
			cmd.Content, fingerprint, *classification.Descriptor)
		if err != nil {
			return IngestResult{}, err
		}
		return IngestResult{
			Classification: classification,
			FamilyID:       classification.FamilyID,
			NodeID:         added.NodeID,
			Created:        true,
		}, nil

	case appservices.DecisionNewFamily:
		fingerprint, err := h.analyzer.Fingerprint(cmd.Content)
		if err != nil {
			return IngestResult{}, err
		}
		created, err := h.store.CreateFamily(ctx, cmd.Content, fingerprint)
		if err != nil {
			return IngestResult{}, err
		}
		return IngestResult{
			Classification: classification,
			FamilyID:       created.FamilyID,
			NodeID:         created.RootNodeID,
			Created:        true,
		}, nil

	default:
		return IngestResult{}, pkgerrors.NewInternalError("classifier returned an unknown decision")
	}
}
