package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"

	"factsaura-backend/application/ports"
	"factsaura-backend/domain/config"
	"factsaura-backend/domain/core/aggregates"
	"factsaura-backend/domain/core/entities"
	"factsaura-backend/domain/events"
	domainservices "factsaura-backend/domain/services"
	"factsaura-backend/infrastructure/persistence/memory"
	pkgerrors "factsaura-backend/pkg/errors"
)

type fixedPolicy struct{}

func (fixedPolicy) Limits() aggregates.Limits              { return aggregates.Limits{} }
func (fixedPolicy) Insights() aggregates.InsightThresholds { return aggregates.InsightThresholds{} }

type capturedEvents struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (p *capturedEvents) Publish(ctx context.Context, evts ...events.DomainEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evts...)
}

func (p *capturedEvents) all() []events.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.DomainEvent{}, p.events...)
}

type classifierFixture struct {
	classifier *Classifier
	store      ports.GenealogyStore
	analyzer   domainservices.TextAnalyzer
	published  *capturedEvents
}

func newClassifierFixture(t *testing.T) classifierFixture {
	t.Helper()
	logger := zap.NewNop()
	cfg := config.DefaultDomainConfig()
	store := memory.NewFamilyStore(fixedPolicy{}, nil, logger)
	analyzer := domainservices.NewTextAnalyzer(cfg, logger)
	calculator := domainservices.NewSimilarityCalculator(cfg, logger)
	published := &capturedEvents{}
	return classifierFixture{
		classifier: NewClassifier(store, analyzer, calculator, published, cfg, logger),
		store:      store,
		analyzer:   analyzer,
		published:  published,
	}
}

func (f classifierFixture) seedFamily(t *testing.T, content string) ports.CreateFamilyResult {
	t.Helper()
	fp, err := f.analyzer.Fingerprint(content)
	require.NoError(t, err)
	created, err := f.store.CreateFamily(context.Background(), content, fp)
	require.NoError(t, err)
	return created
}

func TestClassifyEmptyStoreStartsNewFamily(t *testing.T) {
	f := newClassifierFixture(t)

	classification, err := f.classifier.Classify(context.Background(), "Turmeric cures cancer naturally say doctors", Hints{})
	require.NoError(t, err)

	assert.Equal(t, DecisionNewFamily, classification.Decision)
	assert.True(t, classification.FamilyID.IsZero())
	assert.Nil(t, classification.ParentNodeID)
	assert.Zero(t, classification.CandidatesScored)
}

func TestClassifyExactDuplicateShortCircuits(t *testing.T) {
	f := newClassifierFixture(t)
	created := f.seedFamily(t, "Turmeric cures cancer naturally say doctors")

	// differs only in case and whitespace, so the normalized hash matches
	classification, err := f.classifier.Classify(context.Background(),
		"  turmeric CURES cancer   naturally say doctors ", Hints{Source: "whatsapp"})
	require.NoError(t, err)

	assert.Equal(t, DecisionDuplicate, classification.Decision)
	assert.Equal(t, created.FamilyID, classification.FamilyID)
	require.NotNil(t, classification.ParentNodeID)
	assert.Equal(t, created.RootNodeID, *classification.ParentNodeID)
	assert.Equal(t, 1.0, classification.Confidence)
	assert.Equal(t, entities.SimilarityBreakdown{Lexical: 1, Syntactic: 1, Semantic: 1, Contextual: 1},
		classification.Breakdown)
	assert.Equal(t, "whatsapp", classification.Hints.Source)
}

func TestClassifyVariantAttachesAsChild(t *testing.T) {
	f := newClassifierFixture(t)
	created := f.seedFamily(t, "Turmeric cures cancer naturally say doctors")

	classification, err := f.classifier.Classify(context.Background(),
		"URGENT: Turmeric cures cancer naturally say doctors, share immediately!!!", Hints{})
	require.NoError(t, err)

	assert.Equal(t, DecisionAttachAsChild, classification.Decision)
	assert.Equal(t, created.FamilyID, classification.FamilyID)
	require.NotNil(t, classification.ParentNodeID)
	assert.Equal(t, created.RootNodeID, *classification.ParentNodeID)
	assert.GreaterOrEqual(t, classification.Confidence, 0.45)
	assert.Equal(t, 1, classification.CandidatesScored)
	require.NotNil(t, classification.Descriptor)
	assert.Equal(t, entities.MutationContextual, classification.Descriptor.Type)
	assert.Contains(t, classification.Descriptor.Patterns, entities.PatternAmplification)
}

func TestClassifyUnrelatedContentStartsNewFamily(t *testing.T) {
	f := newClassifierFixture(t)
	f.seedFamily(t, "Turmeric cures cancer naturally say doctors")

	classification, err := f.classifier.Classify(context.Background(),
		"The weather today is sunny and warm", Hints{})
	require.NoError(t, err)

	assert.Equal(t, DecisionNewFamily, classification.Decision)
	assert.Less(t, classification.Confidence, 0.45)
	assert.Equal(t, 1, classification.CandidatesScored)
	assert.Nil(t, classification.Descriptor)
}

func TestClassifyPicksClosestCandidate(t *testing.T) {
	f := newClassifierFixture(t)
	f.seedFamily(t, "Bitcoin will crash next week warn traders")
	medical := f.seedFamily(t, "Turmeric cures cancer naturally say doctors")

	classification, err := f.classifier.Classify(context.Background(),
		"Turmeric cures cancer naturally say doctors everywhere", Hints{})
	require.NoError(t, err)

	assert.Equal(t, DecisionAttachAsChild, classification.Decision)
	assert.Equal(t, medical.FamilyID, classification.FamilyID)
	assert.Equal(t, 2, classification.CandidatesScored)
}

func TestClassifyNeverMutatesStore(t *testing.T) {
	f := newClassifierFixture(t)
	f.seedFamily(t, "Turmeric cures cancer naturally say doctors")
	before := f.store.Stats(context.Background())

	_, err := f.classifier.Classify(context.Background(),
		"URGENT: Turmeric cures cancer naturally say doctors, share immediately!!!", Hints{})
	require.NoError(t, err)

	assert.Equal(t, before, f.store.Stats(context.Background()))
}

func TestClassifyPublishesClassificationEvent(t *testing.T) {
	f := newClassifierFixture(t)
	created := f.seedFamily(t, "Turmeric cures cancer naturally say doctors")

	_, err := f.classifier.Classify(context.Background(),
		"  turmeric CURES cancer   naturally say doctors ", Hints{})
	require.NoError(t, err)

	published := f.published.all()
	require.Len(t, published, 1)
	classified, ok := published[0].(events.ContentClassified)
	require.True(t, ok)
	assert.Equal(t, events.EventContentClassified, classified.EventType())
	assert.Equal(t, string(DecisionDuplicate), classified.Action)
	assert.Equal(t, created.FamilyID, classified.FamilyID)
	assert.Equal(t, created.RootNodeID, classified.MatchedID)
	assert.Equal(t, 1.0, classified.Confidence)

	_, err = f.classifier.Classify(context.Background(),
		"The weather today is sunny and warm", Hints{})
	require.NoError(t, err)

	published = f.published.all()
	require.Len(t, published, 2)
	classified, ok = published[1].(events.ContentClassified)
	require.True(t, ok)
	assert.Equal(t, string(DecisionNewFamily), classified.Action)
}

func TestClassifyRecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	defer otel.SetTracerProvider(previous)

	f := newClassifierFixture(t)
	_, err := f.classifier.Classify(context.Background(),
		"Turmeric cures cancer naturally say doctors", Hints{})
	require.NoError(t, err)

	spans := recorder.Ended()
	require.NotEmpty(t, spans)
	span := spans[len(spans)-1]
	assert.Equal(t, "classifier.Classify", span.Name())
	assert.Contains(t, span.Attributes(),
		attribute.String("classification.decision", string(DecisionNewFamily)))
}

func TestClassifyRejectsEmptyContent(t *testing.T) {
	f := newClassifierFixture(t)

	_, err := f.classifier.Classify(context.Background(), "   ", Hints{})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}
