package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	domaincfg "factsaura-backend/domain/config"
)

// domainOverrides mirrors the overridable subset of the domain
// configuration. Pointer fields distinguish "absent" from zero values.
type domainOverrides struct {
	Similarity struct {
		Threshold        *float64 `yaml:"threshold"`
		LexicalWeight    *float64 `yaml:"lexicalWeight"`
		SyntacticWeight  *float64 `yaml:"syntacticWeight"`
		SemanticWeight   *float64 `yaml:"semanticWeight"`
		ContextualWeight *float64 `yaml:"contextualWeight"`
	} `yaml:"similarity"`
	Preprocessing struct {
		MinTokenLength *int `yaml:"minTokenLength"`
		MaxNGramSize   *int `yaml:"maxNGramSize"`
	} `yaml:"preprocessing"`
	Tree struct {
		MaxDepth         *int `yaml:"maxDepth"`
		MaxChildren      *int `yaml:"maxChildren"`
		MaxContentLength *int `yaml:"maxContentLength"`
	} `yaml:"tree"`
	Classification struct {
		MaxCandidates  *int `yaml:"maxCandidates"`
		ScoreCacheSize *int `yaml:"scoreCacheSize"`
	} `yaml:"classification"`
}

// ApplyDomainOverrides reads the YAML overrides file at path and applies
// any values it sets onto cfg. The merged result is validated so a bad
// file fails startup instead of silently corrupting scoring.
func ApplyDomainOverrides(path string, cfg *domaincfg.DomainConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read domain overrides: %w", err)
	}

	var overrides domainOverrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("failed to parse domain overrides: %w", err)
	}

	setFloat(&cfg.SimilarityThreshold, overrides.Similarity.Threshold)
	setFloat(&cfg.LexicalWeight, overrides.Similarity.LexicalWeight)
	setFloat(&cfg.SyntacticWeight, overrides.Similarity.SyntacticWeight)
	setFloat(&cfg.SemanticWeight, overrides.Similarity.SemanticWeight)
	setFloat(&cfg.ContextualWeight, overrides.Similarity.ContextualWeight)
	setInt(&cfg.MinTokenLength, overrides.Preprocessing.MinTokenLength)
	setInt(&cfg.MaxNGramSize, overrides.Preprocessing.MaxNGramSize)
	setInt(&cfg.MaxTreeDepth, overrides.Tree.MaxDepth)
	setInt(&cfg.MaxChildrenPerNode, overrides.Tree.MaxChildren)
	setInt(&cfg.MaxContentLength, overrides.Tree.MaxContentLength)
	setInt(&cfg.MaxCandidates, overrides.Classification.MaxCandidates)
	setInt(&cfg.ScoreCacheSize, overrides.Classification.ScoreCacheSize)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid domain configuration after overrides: %w", err)
	}
	return nil
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
