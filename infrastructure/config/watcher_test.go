package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeRuntimeConfig(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

const validRuntimeConfig = `{
  "limits": {"maxTreeDepth": 10, "maxChildrenPerNode": 20, "maxCandidates": 50},
  "insights": {"deepLineageDepth": 4, "viralBranchingFactor": 2.5, "highDiversityTypeCount": 3},
  "metadata": {"version": "2.0.0"}
}`

func TestConfigWatcherLoadsInitialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runtime.json")
	writeRuntimeConfig(t, path, validRuntimeConfig)

	watcher, err := NewConfigWatcher(path, zap.NewNop())
	require.NoError(t, err)
	defer watcher.Stop()

	current := watcher.Current()
	assert.Equal(t, 10, current.Limits.MaxTreeDepth)
	assert.Equal(t, 20, current.Limits.MaxChildrenPerNode)
	assert.Equal(t, 50, current.Limits.MaxCandidates)
	assert.Equal(t, "2.0.0", current.Metadata.Version)
}

func TestConfigWatcherMissingFile(t *testing.T) {
	_, err := NewConfigWatcher(filepath.Join(t.TempDir(), "absent.json"), zap.NewNop())
	assert.Error(t, err)
}

func TestConfigWatcherReloadSwapsValidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runtime.json")
	writeRuntimeConfig(t, path, validRuntimeConfig)

	watcher, err := NewConfigWatcher(path, zap.NewNop())
	require.NoError(t, err)
	defer watcher.Stop()

	writeRuntimeConfig(t, path, `{
  "limits": {"maxTreeDepth": 30, "maxChildrenPerNode": 20, "maxCandidates": 50},
  "insights": {"deepLineageDepth": 4, "viralBranchingFactor": 2.5, "highDiversityTypeCount": 3},
  "metadata": {"version": "2.1.0"}
}`)
	watcher.reload()

	assert.Equal(t, 30, watcher.Current().Limits.MaxTreeDepth)
	assert.Equal(t, "2.1.0", watcher.Current().Metadata.Version)
}

func TestConfigWatcherKeepsCurrentOnInvalidReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runtime.json")
	writeRuntimeConfig(t, path, validRuntimeConfig)

	watcher, err := NewConfigWatcher(path, zap.NewNop())
	require.NoError(t, err)
	defer watcher.Stop()

	// negative depth fails validation, so the previous config survives
	writeRuntimeConfig(t, path, `{
  "limits": {"maxTreeDepth": -1, "maxChildrenPerNode": 20, "maxCandidates": 50}
}`)
	watcher.reload()
	assert.Equal(t, 10, watcher.Current().Limits.MaxTreeDepth)

	// malformed JSON is also ignored
	writeRuntimeConfig(t, path, `{not json`)
	watcher.reload()
	assert.Equal(t, 10, watcher.Current().Limits.MaxTreeDepth)
}

func TestValidateRuntimeConfig(t *testing.T) {
	valid := &RuntimeConfig{Limits: RuntimeLimits{MaxTreeDepth: 1, MaxChildrenPerNode: 1, MaxCandidates: 1}}
	assert.NoError(t, validateRuntimeConfig(valid))

	assert.Error(t, validateRuntimeConfig(&RuntimeConfig{
		Limits: RuntimeLimits{MaxTreeDepth: 0, MaxChildrenPerNode: 1, MaxCandidates: 1},
	}))
	assert.Error(t, validateRuntimeConfig(&RuntimeConfig{
		Limits: RuntimeLimits{MaxTreeDepth: 1, MaxChildrenPerNode: 1, MaxCandidates: 0},
	}))
}
