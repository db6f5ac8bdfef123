package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"factsaura-backend/domain/config"
	"factsaura-backend/domain/core/entities"
	"factsaura-backend/domain/core/valueobjects"
)

func newTestCalculator(t *testing.T) *DefaultSimilarityCalculator {
	t.Helper()
	return NewSimilarityCalculator(config.DefaultDomainConfig(), zap.NewNop())
}

func fingerprintOf(t *testing.T, text string) valueobjects.Fingerprint {
	t.Helper()
	fp, err := newTestAnalyzer(t).Fingerprint(text)
	require.NoError(t, err)
	return fp
}

func TestScoreSelfSimilarityIsOne(t *testing.T) {
	calc := newTestCalculator(t)
	fp := fingerprintOf(t, "Turmeric can cure cancer says doctor. Share this with everyone!")

	result := calc.Score(fp, fp)

	assert.InDelta(t, 1.0, result.Overall, 1e-9)
	assert.InDelta(t, 1.0, result.Breakdown.Lexical, 1e-9)
	assert.InDelta(t, 1.0, result.Breakdown.Syntactic, 1e-9)
	assert.InDelta(t, 1.0, result.Breakdown.Semantic, 1e-9)
	assert.InDelta(t, 1.0, result.Breakdown.Contextual, 1e-9)
	assert.True(t, result.IsVariant)
}

func TestScoreIsSymmetric(t *testing.T) {
	calc := newTestCalculator(t)
	a := fingerprintOf(t, "Turmeric cures cancer naturally say doctors")
	b := fingerprintOf(t, "URGENT: Turmeric cures cancer naturally say doctors, share immediately!!!")

	ab := calc.Score(a, b)
	ba := calc.Score(b, a)

	assert.InDelta(t, ab.Overall, ba.Overall, 1e-9)
	assert.Equal(t, ab.Breakdown, ba.Breakdown)
}

func TestScoreDetectsAmplifiedVariant(t *testing.T) {
	calc := newTestCalculator(t)
	parent := fingerprintOf(t, "Turmeric cures cancer naturally say doctors")
	child := fingerprintOf(t, "URGENT: Turmeric cures cancer naturally say doctors, share immediately!!!")

	result := calc.Score(parent, child)

	assert.True(t, result.IsVariant)
	assert.GreaterOrEqual(t, result.Overall, 0.45)
	assert.Contains(t, result.Patterns, entities.PatternAmplification)
	assert.Equal(t, entities.MutationContextual, result.VariantType)
}

func TestScoreRejectsUnrelatedContent(t *testing.T) {
	calc := newTestCalculator(t)
	parent := fingerprintOf(t, "Turmeric cures cancer naturally say doctors")
	unrelated := fingerprintOf(t, "The weather today is sunny and warm")

	result := calc.Score(parent, unrelated)

	assert.False(t, result.IsVariant)
	assert.Less(t, result.Overall, 0.45)
	assert.Empty(t, result.VariantType)
}

func TestScoreDetectsExpansionAndContraction(t *testing.T) {
	calc := newTestCalculator(t)
	parent := fingerprintOf(t, "Turmeric cures cancer naturally")
	expanded := fingerprintOf(t,
		"Turmeric cures cancer naturally according to several studies published by researchers who examined patient outcomes")
	contracted := fingerprintOf(t, "Turmeric cures")

	assert.Contains(t, calc.Score(parent, expanded).Patterns, entities.PatternExpansion)
	assert.Contains(t, calc.Score(parent, contracted).Patterns, entities.PatternContraction)
}

func TestScoreDetectsNumericAndLocationChanges(t *testing.T) {
	calc := newTestCalculator(t)
	parent := fingerprintOf(t, "Cases rose 50% in Delhi last week")
	child := fingerprintOf(t, "Cases rose 90% in Mumbai last week")

	result := calc.Score(parent, child)

	assert.Contains(t, result.Patterns, entities.PatternNumericChange)
	assert.Contains(t, result.Patterns, entities.PatternLocationChange)
}

func TestPatternsAreDirectional(t *testing.T) {
	calc := newTestCalculator(t)
	short := fingerprintOf(t, "Turmeric cures cancer")
	long := fingerprintOf(t,
		"Turmeric cures cancer naturally according to multiple studies from respected researchers worldwide")

	assert.Contains(t, calc.Score(short, long).Patterns, entities.PatternExpansion)
	assert.Contains(t, calc.Score(long, short).Patterns, entities.PatternContraction)
}

func TestScorePropagatesDegradedFingerprints(t *testing.T) {
	calc := newTestCalculator(t)
	fp := fingerprintOf(t, "Turmeric cures cancer naturally")
	degraded := fp
	degraded.Degraded = true

	assert.True(t, calc.Score(fp, degraded).Degraded)
	assert.False(t, calc.Score(fp, fp).Degraded)
}

func TestClearCache(t *testing.T) {
	calc := newTestCalculator(t)
	a := fingerprintOf(t, "Turmeric cures cancer naturally")
	b := fingerprintOf(t, "Turmeric heals cancer naturally")

	calc.Score(a, b)
	assert.GreaterOrEqual(t, calc.ClearCache(), 1)
	assert.Zero(t, calc.ClearCache())
}

func TestCachedScoreMatchesFreshScore(t *testing.T) {
	calc := newTestCalculator(t)
	a := fingerprintOf(t, "Turmeric cures cancer naturally say doctors")
	b := fingerprintOf(t, "Turmeric heals cancer naturally say doctors")

	fresh := calc.Score(a, b)
	cached := calc.Score(a, b)

	assert.Equal(t, fresh, cached)
}

func TestDeriveDescriptorAlwaysAssignsType(t *testing.T) {
	calc := newTestCalculator(t)
	parent := fingerprintOf(t, "Turmeric cures cancer naturally say doctors")
	unrelated := fingerprintOf(t, "The weather today is sunny and warm")

	descriptor := DeriveDescriptor(calc.Score(parent, unrelated))

	assert.True(t, descriptor.Type.IsValid())
	assert.Equal(t, calc.Score(parent, unrelated).Overall, descriptor.Confidence)
}
