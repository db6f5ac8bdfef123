package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// RuntimeConfig is the hot-reloadable slice of configuration: values an
// operator may retune without restarting the service
type RuntimeConfig struct {
	Limits   RuntimeLimits   `json:"limits"`
	Insights RuntimeInsights `json:"insights"`
	Metadata ConfigMetadata  `json:"metadata"`
}

// RuntimeLimits bounds tree growth and classification fan-out
type RuntimeLimits struct {
	MaxTreeDepth       int `json:"maxTreeDepth"`
	MaxChildrenPerNode int `json:"maxChildrenPerNode"`
	MaxCandidates      int `json:"maxCandidates"`
}

// RuntimeInsights holds the thresholds for evolution insight flags
type RuntimeInsights struct {
	DeepLineageDepth       int     `json:"deepLineageDepth"`
	ViralBranchingFactor   float64 `json:"viralBranchingFactor"`
	HighDiversityTypeCount int     `json:"highDiversityTypeCount"`
}

// ConfigMetadata records provenance of the loaded file
type ConfigMetadata struct {
	Version   string    `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy string    `json:"updatedBy"`
}

// ConfigWatcher watches the runtime config file and swaps in validated
// versions as they change
type ConfigWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	current  *RuntimeConfig
	mu       sync.RWMutex
	onChange []func(*RuntimeConfig)
	logger   *zap.Logger
	stopCh   chan struct{}
}

// NewConfigWatcher loads the initial file and prepares the fsnotify watch
func NewConfigWatcher(configPath string, logger *zap.Logger) (*ConfigWatcher, error) {
	cfg, err := loadRuntimeConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial runtime config: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(configPath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch config file: %w", err)
	}
	// Watch the directory too: atomic saves arrive as renames
	if err := watcher.Add(filepath.Dir(configPath)); err != nil {
		logger.Warn("failed to watch config directory", zap.Error(err))
	}

	return &ConfigWatcher{
		path:    configPath,
		watcher: watcher,
		current: cfg,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}, nil
}

// Start begins watching for changes
func (w *ConfigWatcher) Start() {
	go w.watchLoop()
	w.logger.Info("runtime config watcher started", zap.String("path", w.path))
}

// Stop stops watching
func (w *ConfigWatcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
}

func (w *ConfigWatcher) watchLoop() {
	var debounce *time.Timer
	const debounceDuration = 100 * time.Millisecond

	for {
		select {
		case <-w.stopCh:
			if debounce != nil {
				debounce.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceDuration, w.reload)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("config watcher error", zap.Error(err))
		}
	}
}

func (w *ConfigWatcher) reload() {
	newCfg, err := loadRuntimeConfig(w.path)
	if err != nil {
		w.logger.Error("failed to reload runtime config, keeping current", zap.Error(err))
		return
	}
	if err := validateRuntimeConfig(newCfg); err != nil {
		w.logger.Error("invalid runtime config, keeping current", zap.Error(err))
		return
	}

	w.mu.Lock()
	old := w.current
	w.current = newCfg
	handlers := w.onChange
	w.mu.Unlock()

	if old.Limits != newCfg.Limits {
		w.logger.Info("tree limits changed",
			zap.Int("max_tree_depth", newCfg.Limits.MaxTreeDepth),
			zap.Int("max_children_per_node", newCfg.Limits.MaxChildrenPerNode),
			zap.Int("max_candidates", newCfg.Limits.MaxCandidates))
	}
	for _, handler := range handlers {
		go handler(newCfg)
	}
}

// OnChange registers a callback for config swaps
func (w *ConfigWatcher) OnChange(handler func(*RuntimeConfig)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, handler)
}

// Current returns the active runtime config
func (w *ConfigWatcher) Current() *RuntimeConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

func loadRuntimeConfig(path string) (*RuntimeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg RuntimeConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if cfg.Metadata.Version == "" {
		cfg.Metadata.Version = "1.0.0"
	}
	return &cfg, nil
}

func validateRuntimeConfig(cfg *RuntimeConfig) error {
	if cfg.Limits.MaxTreeDepth <= 0 {
		return fmt.Errorf("maxTreeDepth must be positive")
	}
	if cfg.Limits.MaxChildrenPerNode <= 0 {
		return fmt.Errorf("maxChildrenPerNode must be positive")
	}
	if cfg.Limits.MaxCandidates <= 0 {
		return fmt.Errorf("maxCandidates must be positive")
	}
	return nil
}
