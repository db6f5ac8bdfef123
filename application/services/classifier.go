package services

import (
	"context"
	"runtime"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"factsaura-backend/application/ports"
	"factsaura-backend/domain/config"
	"factsaura-backend/domain/core/entities"
	"factsaura-backend/domain/core/valueobjects"
	"factsaura-backend/domain/events"
	domainservices "factsaura-backend/domain/services"
)

var tracer = otel.Tracer("factsaura-backend/classifier")

// Decision is the classifier's verdict for a piece of content
type Decision string

const (
	DecisionDuplicate     Decision = "duplicate"
	DecisionAttachAsChild Decision = "attachAsChild"
	DecisionNewFamily     Decision = "newFamily"
)

// Hints carries optional caller-provided context. It never changes the
// decision; it is recorded for downstream consumers.
type Hints struct {
	Source        string `json:"source,omitempty"`
	UserID        string `json:"user_id,omitempty"`
	TimestampHint string `json:"timestamp_hint,omitempty"`
}

// Classification is the full decision returned to the caller. The caller,
// not the classifier, performs the resulting store mutation.
type Classification struct {
	Decision         Decision                     `json:"decision"`
	FamilyID         valueobjects.FamilyID        `json:"family_id,omitempty"`
	ParentNodeID     *valueobjects.NodeID         `json:"parent_node_id,omitempty"`
	Confidence       float64                      `json:"confidence"`
	Breakdown        entities.SimilarityBreakdown `json:"similarity_breakdown"`
	MutationType     entities.MutationType        `json:"mutation_type,omitempty"`
	Patterns         []entities.MutationPattern   `json:"mutation_patterns,omitempty"`
	Descriptor       *entities.MutationDescriptor `json:"descriptor,omitempty"`
	CandidatesScored int                          `json:"candidates_scored"`
	Degraded         bool                         `json:"degraded,omitempty"`
	Hints            Hints                        `json:"hints,omitempty"`
}

// Classifier decides whether incoming content duplicates, descends from,
// or is unrelated to anything already tracked. It only reads the store.
type Classifier struct {
	store      ports.GenealogyStore
	analyzer   domainservices.TextAnalyzer
	calculator domainservices.SimilarityCalculator
	publisher  ports.EventPublisher
	cfg        *config.DomainConfig
	logger     *zap.Logger
}

// NewClassifier creates a classifier over the given store and engine. A
// nil publisher disables classification events.
func NewClassifier(
	store ports.GenealogyStore,
	analyzer domainservices.TextAnalyzer,
	calculator domainservices.SimilarityCalculator,
	publisher ports.EventPublisher,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *Classifier {
	return &Classifier{
		store:      store,
		analyzer:   analyzer,
		calculator: calculator,
		publisher:  publisher,
		cfg:        cfg,
		logger:     logger,
	}
}

// Classify scores content against the bounded candidate set and returns a
// decision. Each resolved classification is traced and announced as a
// ContentClassified event; the classifier itself never writes to the store.
func (c *Classifier) Classify(ctx context.Context, content string, hints Hints) (Classification, error) {
	ctx, span := tracer.Start(ctx, "classifier.Classify")
	defer span.End()

	classification, err := c.classify(ctx, content, hints)
	if err != nil {
		span.RecordError(err)
		return Classification{}, err
	}

	span.SetAttributes(
		attribute.String("classification.decision", string(classification.Decision)),
		attribute.Float64("classification.confidence", classification.Confidence),
		attribute.Int("classification.candidates_scored", classification.CandidatesScored),
	)
	c.announce(ctx, classification)
	return classification, nil
}

// announce publishes the ContentClassified event for subscribers
func (c *Classifier) announce(ctx context.Context, classification Classification) {
	if c.publisher == nil {
		return
	}
	var matched valueobjects.NodeID
	if classification.ParentNodeID != nil {
		matched = *classification.ParentNodeID
	}
	c.publisher.Publish(ctx, events.NewContentClassified(
		string(classification.Decision), classification.FamilyID, matched, classification.Confidence))
}

// classify runs the decision pipeline. Exact hash matches short-circuit
// with confidence 1.0.
func (c *Classifier) classify(ctx context.Context, content string, hints Hints) (Classification, error) {
	fingerprint, err := c.analyzer.Fingerprint(content)
	if err != nil {
		return Classification{}, err
	}

	if existing, ok := c.store.LookupByHash(ctx, fingerprint.Hash); ok {
		parentID := existing.NodeID
		return Classification{
			Decision:     DecisionDuplicate,
			FamilyID:     existing.FamilyID,
			ParentNodeID: &parentID,
			Confidence:   1.0,
			Breakdown: entities.SimilarityBreakdown{
				Lexical: 1, Syntactic: 1, Semantic: 1, Contextual: 1,
			},
			Hints: hints,
		}, nil
	}

	candidates := c.store.Candidates(ctx, fingerprint, c.cfg.MaxCandidates)
	if len(candidates) == 0 {
		return Classification{
			Decision: DecisionNewFamily,
			Degraded: fingerprint.Degraded,
			Hints:    hints,
		}, nil
	}

	best, scored, err := c.scoreCandidates(ctx, fingerprint, candidates)
	if err != nil {
		return Classification{}, err
	}

	result := Classification{
		Confidence:       best.result.Overall,
		Breakdown:        best.result.Breakdown,
		CandidatesScored: scored,
		Degraded:         best.result.Degraded,
		Hints:            hints,
	}
	if !best.result.IsVariant {
		result.Decision = DecisionNewFamily
		return result, nil
	}

	descriptor := domainservices.DeriveDescriptor(best.result)
	parentID := best.candidate.NodeID
	result.Decision = DecisionAttachAsChild
	result.FamilyID = best.candidate.FamilyID
	result.ParentNodeID = &parentID
	result.MutationType = descriptor.Type
	result.Patterns = descriptor.Patterns
	result.Descriptor = &descriptor

	c.logger.Debug("content classified as variant",
		zap.String("family_id", best.candidate.FamilyID.String()),
		zap.String("parent_node_id", parentID.String()),
		zap.Float64("confidence", best.result.Overall),
		zap.Int("candidates_scored", scored))
	return result, nil
}

type scoredCandidate struct {
	candidate ports.Candidate
	result    domainservices.SimilarityResult
}

// scoreCandidates runs the similarity engine over the candidate set in
// parallel and keeps the highest overall score. Ties keep the first
// candidate in store order, which is deterministic.
func (c *Classifier) scoreCandidates(
	ctx context.Context,
	fingerprint valueobjects.Fingerprint,
	candidates []ports.Candidate,
) (scoredCandidate, int, error) {
	var (
		mu       sync.Mutex
		best     scoredCandidate
		bestRank = len(candidates)
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range candidates {
		candidate := candidates[i]
		rank := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result := c.calculator.Score(candidate.Fingerprint, fingerprint)

			mu.Lock()
			defer mu.Unlock()
			if result.Overall > best.result.Overall ||
				(result.Overall == best.result.Overall && rank < bestRank) {
				best = scoredCandidate{candidate: candidate, result: result}
				bestRank = rank
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return scoredCandidate{}, 0, err
	}
	return best, len(candidates), nil
}
