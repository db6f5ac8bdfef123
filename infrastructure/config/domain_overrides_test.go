package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domaincfg "factsaura-backend/domain/config"
)

func writeOverrides(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "domain.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestApplyDomainOverrides(t *testing.T) {
	cfg := domaincfg.DefaultDomainConfig()
	path := writeOverrides(t, `
similarity:
  threshold: 0.6
tree:
  maxDepth: 12
classification:
  maxCandidates: 25
`)

	require.NoError(t, ApplyDomainOverrides(path, cfg))

	assert.Equal(t, 0.6, cfg.SimilarityThreshold)
	assert.Equal(t, 12, cfg.MaxTreeDepth)
	assert.Equal(t, 25, cfg.MaxCandidates)

	// untouched keys keep their defaults
	assert.Equal(t, 0.4, cfg.LexicalWeight)
	assert.Equal(t, 50, cfg.MaxChildrenPerNode)
}

func TestApplyDomainOverridesRejectsInvalidResult(t *testing.T) {
	cfg := domaincfg.DefaultDomainConfig()
	path := writeOverrides(t, "similarity:\n  threshold: 1.5\n")

	assert.Error(t, ApplyDomainOverrides(path, cfg))
}

func TestApplyDomainOverridesMissingFile(t *testing.T) {
	cfg := domaincfg.DefaultDomainConfig()
	assert.Error(t, ApplyDomainOverrides(filepath.Join(t.TempDir(), "absent.yaml"), cfg))
}
