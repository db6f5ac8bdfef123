package services

import (
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"

	"factsaura-backend/domain/config"
	"factsaura-backend/domain/core/entities"
	"factsaura-backend/domain/core/valueobjects"
)

// SimilarityResult is the full scoring outcome for one fingerprint pair
type SimilarityResult struct {
	Overall     float64                      `json:"overall"`
	IsVariant   bool                         `json:"is_variant"`
	Breakdown   entities.SimilarityBreakdown `json:"breakdown"`
	VariantType entities.MutationType        `json:"variant_type,omitempty"`
	Patterns    []entities.MutationPattern   `json:"mutation_patterns,omitempty"`
	Degraded    bool                         `json:"degraded,omitempty"`
}

// SimilarityCalculator scores how related two fingerprints are.
// Overall and Breakdown are symmetric in the arguments; Patterns treat the
// first argument as the parent and the second as the candidate child.
type SimilarityCalculator interface {
	Score(parent, child valueobjects.Fingerprint) SimilarityResult
	ClearCache() int
}

// DefaultSimilarityCalculator combines four independent axes with fixed
// weights. Each axis is fault-isolated: a panic inside one sub-score
// yields 0 for that axis and marks the result degraded.
type DefaultSimilarityCalculator struct {
	cfg    *config.DomainConfig
	logger *zap.Logger
	cache  *scoreCache
}

// NewSimilarityCalculator creates a calculator with a bounded result cache
func NewSimilarityCalculator(cfg *config.DomainConfig, logger *zap.Logger) *DefaultSimilarityCalculator {
	return &DefaultSimilarityCalculator{
		cfg:    cfg,
		logger: logger,
		cache:  newScoreCache(cfg.ScoreCacheSize),
	}
}

// symmetricScore is the cacheable, order-independent part of a result
type symmetricScore struct {
	overall   float64
	breakdown entities.SimilarityBreakdown
	degraded  bool
}

// Score computes the weighted similarity between two fingerprints
func (c *DefaultSimilarityCalculator) Score(parent, child valueobjects.Fingerprint) SimilarityResult {
	key := pairKey(parent.Hash, child.Hash)

	core, hit := c.cache.get(key)
	if !hit {
		core = c.computeAxes(parent, child)
		c.cache.put(key, core)
	}

	result := SimilarityResult{
		Overall:   core.overall,
		IsVariant: core.overall >= c.cfg.SimilarityThreshold,
		Breakdown: core.breakdown,
		Degraded:  core.degraded || parent.Degraded || child.Degraded,
	}
	// Patterns depend on argument order, so they are never served from
	// the symmetric cache.
	result.Patterns = detectPatterns(parent, child)
	if result.IsVariant {
		result.VariantType = qualifyVariantType(core.breakdown, result.Patterns)
	}
	return result
}

// ClearCache drops all cached pair scores and returns how many were held
func (c *DefaultSimilarityCalculator) ClearCache() int {
	n := c.cache.clear()
	c.logger.Info("similarity score cache cleared", zap.Int("evicted", n))
	return n
}

func (c *DefaultSimilarityCalculator) computeAxes(a, b valueobjects.Fingerprint) symmetricScore {
	var core symmetricScore

	core.breakdown.Lexical = c.safeAxis("lexical", &core, func() float64 {
		return lexicalSimilarity(a, b)
	})
	core.breakdown.Syntactic = c.safeAxis("syntactic", &core, func() float64 {
		return syntacticSimilarity(a, b)
	})
	core.breakdown.Semantic = c.safeAxis("semantic", &core, func() float64 {
		return semanticSimilarity(a, b)
	})
	core.breakdown.Contextual = c.safeAxis("contextual", &core, func() float64 {
		return contextualSimilarity(a, b)
	})

	core.overall = c.cfg.LexicalWeight*core.breakdown.Lexical +
		c.cfg.SyntacticWeight*core.breakdown.Syntactic +
		c.cfg.SemanticWeight*core.breakdown.Semantic +
		c.cfg.ContextualWeight*core.breakdown.Contextual
	return core
}

// safeAxis isolates sub-score failures: one broken axis scores 0 instead
// of failing the whole call
func (c *DefaultSimilarityCalculator) safeAxis(axis string, core *symmetricScore, fn func() float64) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("similarity axis failed, scoring it zero",
				zap.String("axis", axis), zap.Any("panic", r))
			core.degraded = true
			score = 0
		}
	}()
	return clamp01(fn())
}

// Lexical axis: average of Jaccard overlap and cosine similarity over the
// word-frequency vectors
func lexicalSimilarity(a, b valueobjects.Fingerprint) float64 {
	return (jaccardSets(a.Words, b.Words) + cosineFrequencies(a.WordFrequencies, b.WordFrequencies)) / 2
}

// Syntactic axis: sentence-length similarity, n-gram overlap and
// sentence-type distribution similarity
func syntacticSimilarity(a, b valueobjects.Fingerprint) float64 {
	lengthSim := relativeSimilarity(a.Sentences.AvgLength, b.Sentences.AvgLength)
	ngramSim := ngramOverlap(a.NGrams, b.NGrams)
	typeSim := sentenceTypeSimilarity(a.Sentences, b.Sentences)
	return (lengthSim + ngramSim + typeSim) / 3
}

// Semantic axis: domain agreement, entity overlap and synonym-aware word
// matching
func semanticSimilarity(a, b valueobjects.Fingerprint) float64 {
	domainSim := domainAgreement(a, b)
	entitySim := entityOverlap(a.Entities, b.Entities)
	synonymSim := synonymMatch(a, b)
	return (domainSim + entitySim + synonymSim) / 3
}

// Contextual axis: emotional buckets, urgency indicators and intent cues
func contextualSimilarity(a, b valueobjects.Fingerprint) float64 {
	emotionSim := emotionOverlap(a.Words, b.Words)
	urgencySim := cueOverlap(a.Words, b.Words, urgencyIndicators)
	intentSim := intentOverlap(a.Words, b.Words)
	return (emotionSim + urgencySim + intentSim) / 3
}

func jaccardSets(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for word := range a {
		if b[word] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

func cosineFrequencies(a, b map[string]int) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	dot, normA, normB := 0.0, 0.0, 0.0
	for word, fa := range a {
		normA += float64(fa * fa)
		if fb, ok := b[word]; ok {
			dot += float64(fa * fb)
		}
	}
	for _, fb := range b {
		normB += float64(fb * fb)
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// relativeSimilarity compares two magnitudes as 1 minus their relative gap
func relativeSimilarity(a, b float64) float64 {
	if a == 0 && b == 0 {
		return 1
	}
	max := math.Max(a, b)
	if max == 0 {
		return 0
	}
	return 1 - math.Abs(a-b)/max
}

func ngramOverlap(a, b map[int]map[string]int) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	sizes := make(map[int]bool)
	for n := range a {
		sizes[n] = true
	}
	for n := range b {
		sizes[n] = true
	}
	total, count := 0.0, 0
	for n := range sizes {
		total += jaccardSets(gramKeys(a[n]), gramKeys(b[n]))
		count++
	}
	if count == 0 {
		return 1
	}
	return total / float64(count)
}

func gramKeys(grams map[string]int) map[string]bool {
	keys := make(map[string]bool, len(grams))
	for g := range grams {
		keys[g] = true
	}
	return keys
}

func sentenceTypeSimilarity(a, b valueobjects.SentenceStats) float64 {
	va := []float64{float64(a.Questions), float64(a.Exclamations), float64(a.Statements)}
	vb := []float64{float64(b.Questions), float64(b.Exclamations), float64(b.Statements)}
	normA, normB, dot := 0.0, 0.0, 0.0
	for i := range va {
		dot += va[i] * vb[i]
		normA += va[i] * va[i]
		normB += vb[i] * vb[i]
	}
	if normA == 0 && normB == 0 {
		return 1
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// domainAgreement scores 0 for different labels; same labels score by how
// closely the two classifications agree in confidence
func domainAgreement(a, b valueobjects.Fingerprint) float64 {
	if a.Domain != b.Domain {
		return 0
	}
	return 1 - math.Abs(a.DomainConfidence-b.DomainConfidence)
}

func entityOverlap(a, b map[valueobjects.EntityType][]string) float64 {
	types := make(map[valueobjects.EntityType]bool)
	for t := range a {
		types[t] = true
	}
	for t := range b {
		types[t] = true
	}
	if len(types) == 0 {
		return 1
	}
	total := 0.0
	for t := range types {
		total += jaccardSets(toSet(a[t]), toSet(b[t]))
	}
	return total / float64(len(types))
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// synonymMatch scores word coverage in both directions: an exact match
// counts 1.0 and a listed domain synonym 0.8
func synonymMatch(a, b valueobjects.Fingerprint) float64 {
	synonyms := synonymTableFor(a, b)
	return (directedSynonymMatch(a.Words, b.Words, synonyms) +
		directedSynonymMatch(b.Words, a.Words, synonyms)) / 2
}

func synonymTableFor(a, b valueobjects.Fingerprint) map[string][]string {
	if a.Domain == b.Domain {
		return domainSynonyms[a.Domain]
	}
	return nil
}

func directedSynonymMatch(from, to map[string]bool, synonyms map[string][]string) float64 {
	if len(from) == 0 {
		return 1
	}
	total := 0.0
	for word := range from {
		switch {
		case to[word]:
			total += 1.0
		case hasSynonymIn(word, to, synonyms):
			total += 0.8
		}
	}
	return total / float64(len(from))
}

func hasSynonymIn(word string, to map[string]bool, synonyms map[string][]string) bool {
	for _, syn := range synonyms[word] {
		if to[syn] {
			return true
		}
	}
	// reverse direction: word may itself be a listed synonym
	for canonical, syns := range synonyms {
		if to[canonical] && containsWord(syns, word) {
			return true
		}
	}
	return false
}

func emotionOverlap(a, b map[string]bool) float64 {
	total, buckets := 0.0, 0
	for _, words := range emotionBuckets {
		setA := presentWords(a, words)
		setB := presentWords(b, words)
		if len(setA) == 0 && len(setB) == 0 {
			continue
		}
		total += jaccardSets(setA, setB)
		buckets++
	}
	if buckets == 0 {
		return 1
	}
	return total / float64(buckets)
}

func cueOverlap(a, b map[string]bool, cues []string) float64 {
	return jaccardSets(presentWords(a, cues), presentWords(b, cues))
}

func intentOverlap(a, b map[string]bool) float64 {
	total, groups := 0.0, 0
	for _, cues := range intentCues {
		setA := presentWords(a, cues)
		setB := presentWords(b, cues)
		if len(setA) == 0 && len(setB) == 0 {
			continue
		}
		total += jaccardSets(setA, setB)
		groups++
	}
	if groups == 0 {
		return 1
	}
	return total / float64(groups)
}

func presentWords(words map[string]bool, vocabulary []string) map[string]bool {
	present := make(map[string]bool)
	for _, w := range vocabulary {
		if words[w] {
			present[w] = true
		}
	}
	return present
}

// detectPatterns flags concrete changes from parent to child, independent
// of the axis scores
func detectPatterns(parent, child valueobjects.Fingerprint) []entities.MutationPattern {
	var patterns []entities.MutationPattern

	if entitySetChanged(parent.Entities[valueobjects.EntityNumber], child.Entities[valueobjects.EntityNumber]) {
		patterns = append(patterns, entities.PatternNumericChange)
	}
	if entitySetChanged(parent.Entities[valueobjects.EntityLocation], child.Entities[valueobjects.EntityLocation]) {
		patterns = append(patterns, entities.PatternLocationChange)
	}
	if intensifiersAdded(parent.Words, child.Words) {
		patterns = append(patterns, entities.PatternAmplification)
	}
	if parent.ContentLength > 0 {
		ratio := float64(child.ContentLength) / float64(parent.ContentLength)
		if ratio > 1.3 {
			patterns = append(patterns, entities.PatternExpansion)
		} else if ratio < 0.7 {
			patterns = append(patterns, entities.PatternContraction)
		}
	}
	return patterns
}

func entitySetChanged(parent, child []string) bool {
	if len(parent) == 0 && len(child) == 0 {
		return false
	}
	setA, setB := toSet(parent), toSet(child)
	if len(setA) != len(setB) {
		return true
	}
	for v := range setA {
		if !setB[v] {
			return true
		}
	}
	return false
}

func intensifiersAdded(parent, child map[string]bool) bool {
	for _, word := range intensifiers {
		if child[word] && !parent[word] {
			return true
		}
	}
	return false
}

// qualifyVariantType picks the mutation label from the axis scores,
// qualified by pattern checks. Added intensifiers mark a framing change
// even when the underlying words barely moved.
func qualifyVariantType(breakdown entities.SimilarityBreakdown, patterns []entities.MutationPattern) entities.MutationType {
	if hasPattern(patterns, entities.PatternAmplification) {
		return entities.MutationContextual
	}
	if breakdown.Lexical > 0.8 {
		return entities.MutationLexical
	}

	switch highestAxis(breakdown) {
	case "semantic":
		return entities.MutationSemantic
	case "syntactic":
		return entities.MutationStructural
	case "contextual":
		return entities.MutationContextual
	default:
		return entities.MutationLexical
	}
}

// DeriveDescriptor builds the mutation descriptor recorded on a child node
// from a scoring result. A type is always assigned, even below the variant
// threshold, so direct insertions stay well-formed.
func DeriveDescriptor(result SimilarityResult) entities.MutationDescriptor {
	variantType := result.VariantType
	if variantType == "" {
		variantType = qualifyVariantType(result.Breakdown, result.Patterns)
	}
	return entities.MutationDescriptor{
		Type:       variantType,
		Confidence: result.Overall,
		Breakdown:  result.Breakdown,
		Patterns:   result.Patterns,
	}
}

func hasPattern(patterns []entities.MutationPattern, target entities.MutationPattern) bool {
	for _, p := range patterns {
		if p == target {
			return true
		}
	}
	return false
}

func highestAxis(b entities.SimilarityBreakdown) string {
	axes := []struct {
		name  string
		score float64
	}{
		{"lexical", b.Lexical},
		{"syntactic", b.Syntactic},
		{"semantic", b.Semantic},
		{"contextual", b.Contextual},
	}
	sort.SliceStable(axes, func(i, j int) bool { return axes[i].score > axes[j].score })
	return axes[0].name
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// pairKey builds an order-independent cache key from two content hashes
func pairKey(hashA, hashB string) string {
	if hashA == "" || hashB == "" {
		return ""
	}
	if hashA > hashB {
		hashA, hashB = hashB, hashA
	}
	return hashA + ":" + hashB
}

// scoreCache is a bounded, best-effort cache of symmetric pair scores.
// Lost updates under contention are acceptable.
type scoreCache struct {
	mu      sync.RWMutex
	entries map[string]symmetricScore
	maxSize int
}

func newScoreCache(maxSize int) *scoreCache {
	return &scoreCache{
		entries: make(map[string]symmetricScore),
		maxSize: maxSize,
	}
}

func (c *scoreCache) get(key string) (symmetricScore, bool) {
	if key == "" {
		return symmetricScore{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	score, ok := c.entries[key]
	return score, ok
}

func (c *scoreCache) put(key string, score symmetricScore) {
	if key == "" || c.maxSize <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.maxSize {
		for evict := range c.entries {
			delete(c.entries, evict)
			break
		}
	}
	c.entries[key] = score
}

func (c *scoreCache) clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[string]symmetricScore)
	return n
}
