package commands

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appservices "factsaura-backend/application/services"
	"factsaura-backend/domain/config"
	"factsaura-backend/domain/core/aggregates"
	"factsaura-backend/domain/core/entities"
	domainservices "factsaura-backend/domain/services"
	"factsaura-backend/infrastructure/persistence/memory"
)

type openPolicy struct{}

func (openPolicy) Limits() aggregates.Limits              { return aggregates.Limits{} }
func (openPolicy) Insights() aggregates.InsightThresholds { return aggregates.InsightThresholds{} }

func newIngestHandler(t *testing.T) (*IngestContentHandler, *memory.FamilyStore) {
	t.Helper()
	logger := zap.NewNop()
	cfg := config.DefaultDomainConfig()
	store := memory.NewFamilyStore(openPolicy{}, nil, logger)
	analyzer := domainservices.NewTextAnalyzer(cfg, logger)
	calculator := domainservices.NewSimilarityCalculator(cfg, logger)
	classifier := appservices.NewClassifier(store, analyzer, calculator, nil, cfg, logger)
	return NewIngestContentHandler(classifier, store, analyzer, logger), store
}

func TestIngestSeedsThenAttachesThenDeduplicates(t *testing.T) {
	handler, store := newIngestHandler(t)
	ctx := context.Background()

	original := IngestContentCommand{Content: "Turmeric cures cancer naturally say doctors", Source: "twitter"}
	seeded, err := handler.Handle(ctx, original)
	require.NoError(t, err)
	assert.Equal(t, appservices.DecisionNewFamily, seeded.Classification.Decision)
	assert.True(t, seeded.Created)

	variant := IngestContentCommand{Content: "URGENT: Turmeric cures cancer naturally say doctors, share immediately!!!"}
	attached, err := handler.Handle(ctx, variant)
	require.NoError(t, err)
	assert.Equal(t, appservices.DecisionAttachAsChild, attached.Classification.Decision)
	assert.Equal(t, seeded.FamilyID, attached.FamilyID)
	assert.True(t, attached.Created)
	assert.NotEqual(t, seeded.NodeID, attached.NodeID)

	duplicate, err := handler.Handle(ctx, variant)
	require.NoError(t, err)
	assert.Equal(t, appservices.DecisionDuplicate, duplicate.Classification.Decision)
	assert.Equal(t, attached.NodeID, duplicate.NodeID)
	assert.False(t, duplicate.Created)

	stats := store.Stats(ctx)
	assert.Equal(t, 1, stats.FamilyCount)
	assert.Equal(t, 2, stats.NodeCount)
}

func TestIngestAttachedNodeRecordsDescriptor(t *testing.T) {
	handler, store := newIngestHandler(t)
	ctx := context.Background()

	_, err := handler.Handle(ctx, IngestContentCommand{Content: "Turmeric cures cancer naturally say doctors"})
	require.NoError(t, err)
	attached, err := handler.Handle(ctx, IngestContentCommand{
		Content: "URGENT: Turmeric cures cancer naturally say doctors, share immediately!!!",
	})
	require.NoError(t, err)

	fp, err := store.NodeFingerprint(ctx, attached.NodeID)
	require.NoError(t, err)
	assert.NotEmpty(t, fp.Hash)

	require.NotNil(t, attached.Classification.Descriptor)
	assert.Equal(t, entities.MutationContextual, attached.Classification.Descriptor.Type)
}

func TestIngestCommandValidation(t *testing.T) {
	assert.Error(t, IngestContentCommand{}.Validate())
	assert.Error(t, IngestContentCommand{Content: strings.Repeat("a", 50001)}.Validate())
	assert.NoError(t, IngestContentCommand{Content: "valid claim"}.Validate())
}
