package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Cue sets are matched against fingerprint words, so an entry that the
// tokenizer would drop can never fire.
func TestCueWordsSurviveTokenization(t *testing.T) {
	sets := map[string][]string{
		"intensifiers":      intensifiers,
		"urgencyIndicators": urgencyIndicators,
	}
	for bucket, words := range emotionBuckets {
		sets["emotion/"+bucket] = words
	}
	for intent, cues := range intentCues {
		sets["intent/"+intent] = cues
	}

	for name, words := range sets {
		for _, word := range words {
			assert.False(t, stopWords[word], "%s: %q is a stop word", name, word)
			assert.GreaterOrEqual(t, len(word), 3, "%s: %q is too short to tokenize", name, word)
			assert.Regexp(t, "^[a-z]+$", word, "%s: %q would not survive tokenization", name, word)
		}
	}
}
