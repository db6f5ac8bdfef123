package services

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"factsaura-backend/domain/config"
	"factsaura-backend/domain/core/valueobjects"
	pkgerrors "factsaura-backend/pkg/errors"
)

// TextAnalyzer turns raw content into a comparable fingerprint
type TextAnalyzer interface {
	Fingerprint(text string) (valueobjects.Fingerprint, error)
	ContentHash(text string) string
}

// DefaultTextAnalyzer is the deterministic, pure fingerprint builder.
// It never panics into the caller: a failure in full analysis degrades
// to a minimal fingerprint instead.
type DefaultTextAnalyzer struct {
	cfg    *config.DomainConfig
	logger *zap.Logger
}

var (
	numberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?%?`)
	datePattern   = regexp.MustCompile(`(?i)\b(?:\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}-\d{2}-\d{2}|(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2})\b`)
)

// NewTextAnalyzer creates a text analyzer with the given domain config
func NewTextAnalyzer(cfg *config.DomainConfig, logger *zap.Logger) *DefaultTextAnalyzer {
	return &DefaultTextAnalyzer{cfg: cfg, logger: logger}
}

// Fingerprint extracts tokens, n-grams, domain, entities and sentence
// statistics from text. Empty or oversized input is rejected; any other
// analysis failure yields a degraded fingerprint, never an error.
func (a *DefaultTextAnalyzer) Fingerprint(text string) (fp valueobjects.Fingerprint, err error) {
	if strings.TrimSpace(text) == "" {
		return valueobjects.Fingerprint{}, pkgerrors.NewValidationError("content cannot be empty")
	}
	if a.cfg.MaxContentLength > 0 && len(text) > a.cfg.MaxContentLength {
		return valueobjects.Fingerprint{}, pkgerrors.NewValidationError("content exceeds maximum length").
			WithDetails(map[string]interface{}{"max_length": a.cfg.MaxContentLength})
	}

	defer func() {
		if r := recover(); r != nil {
			a.logger.Warn("full text analysis failed, falling back to minimal fingerprint",
				zap.Any("panic", r))
			fp = a.minimalFingerprint(text)
			err = nil
		}
	}()

	tokens := a.tokenize(text)
	words := make(map[string]bool, len(tokens))
	frequencies := make(map[string]int, len(tokens))
	for _, token := range tokens {
		words[token] = true
		frequencies[token]++
	}

	domain, confidence := classifyDomain(words)

	fp = valueobjects.Fingerprint{
		Hash:             a.ContentHash(text),
		Words:            words,
		WordFrequencies:  frequencies,
		NGrams:           a.extractNGrams(tokens),
		Domain:           domain,
		DomainConfidence: confidence,
		Entities:         extractEntities(text),
		Sentences:        analyzeSentences(text),
		TokenCount:       len(tokens),
		ContentLength:    len(text),
	}
	return fp, nil
}

// ContentHash returns the SHA-256 of the normalized text. Two texts that
// differ only in case or whitespace hash identically.
func (a *DefaultTextAnalyzer) ContentHash(text string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// tokenize splits text into lowercase word tokens, dropping short tokens,
// pure digits and stop words
func (a *DefaultTextAnalyzer) tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		token := current.String()
		current.Reset()
		if len(token) < a.cfg.MinTokenLength {
			return
		}
		if isPureDigits(token) {
			return
		}
		if stopWords[token] {
			return
		}
		tokens = append(tokens, token)
	}

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

func isPureDigits(token string) bool {
	for _, r := range token {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// extractNGrams builds 2..MaxNGramSize token sequences with counts
func (a *DefaultTextAnalyzer) extractNGrams(tokens []string) map[int]map[string]int {
	ngrams := make(map[int]map[string]int)
	for n := 2; n <= a.cfg.MaxNGramSize; n++ {
		if len(tokens) < n {
			break
		}
		grams := make(map[string]int)
		for i := 0; i+n <= len(tokens); i++ {
			grams[strings.Join(tokens[i:i+n], " ")]++
		}
		ngrams[n] = grams
	}
	return ngrams
}

// classifyDomain picks the domain vocabulary with the largest token
// overlap; confidence is the matched share of the token set
func classifyDomain(words map[string]bool) (valueobjects.DomainLabel, float64) {
	if len(words) == 0 {
		return valueobjects.DomainGeneral, 0
	}

	best := valueobjects.DomainGeneral
	bestOverlap := 0
	for domain, vocabulary := range domainVocabularies {
		overlap := 0
		for _, keyword := range vocabulary {
			if words[keyword] {
				overlap++
			}
		}
		if overlap > bestOverlap {
			best = domain
			bestOverlap = overlap
		}
	}
	if bestOverlap == 0 {
		return valueobjects.DomainGeneral, 0
	}
	return best, float64(bestOverlap) / float64(len(words))
}

func extractEntities(text string) map[valueobjects.EntityType][]string {
	lower := strings.ToLower(text)
	entities := make(map[valueobjects.EntityType][]string)

	if numbers := numberPattern.FindAllString(lower, -1); len(numbers) > 0 {
		entities[valueobjects.EntityNumber] = dedupe(numbers)
	}
	if dates := datePattern.FindAllString(lower, -1); len(dates) > 0 {
		entities[valueobjects.EntityDate] = dedupe(dates)
	}

	var locations, organizations []string
	for _, field := range strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		if containsWord(locationGazetteer, field) {
			locations = append(locations, field)
		}
		if containsWord(organizationAcronyms, field) {
			organizations = append(organizations, field)
		}
	}
	if len(locations) > 0 {
		entities[valueobjects.EntityLocation] = dedupe(locations)
	}
	if len(organizations) > 0 {
		entities[valueobjects.EntityOrganization] = dedupe(organizations)
	}
	return entities
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func analyzeSentences(text string) valueobjects.SentenceStats {
	var stats valueobjects.SentenceStats
	totalWords := 0
	current := strings.Builder{}

	classify := func(sentence string, terminator rune) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			return
		}
		stats.Count++
		totalWords += len(strings.Fields(sentence))
		switch terminator {
		case '?':
			stats.Questions++
		case '!':
			stats.Exclamations++
		default:
			stats.Statements++
		}
	}

	for _, r := range text {
		switch r {
		case '.', '!', '?':
			// runs of terminators count once
			if current.Len() > 0 {
				classify(current.String(), r)
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	classify(current.String(), 0)

	if stats.Count > 0 {
		stats.AvgLength = float64(totalWords) / float64(stats.Count)
	}
	return stats
}

// minimalFingerprint is the conservative fallback used when full analysis
// cannot run
func (a *DefaultTextAnalyzer) minimalFingerprint(text string) valueobjects.Fingerprint {
	words := make(map[string]bool)
	frequencies := make(map[string]int)
	for _, field := range strings.Fields(strings.ToLower(text)) {
		words[field] = true
		frequencies[field]++
	}
	return valueobjects.Fingerprint{
		Hash:            a.ContentHash(text),
		Words:           words,
		WordFrequencies: frequencies,
		NGrams:          map[int]map[string]int{},
		Domain:          valueobjects.DomainGeneral,
		ContentLength:   len(text),
		TokenCount:      len(words),
		Degraded:        true,
	}
}
