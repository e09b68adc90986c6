// Package config holds the runtime configuration for watchdiff.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the per-project config file looked up under the watched root.
const FileName = ".watchdiff.yaml"

// Config is the top-level configuration.
type Config struct {
	Watcher WatcherConfig `yaml:"watcher"`
	Cache   CacheConfig   `yaml:"cache"`
	UI      UIConfig      `yaml:"ui"`
	AI      AIConfig      `yaml:"ai"`
}

// WatcherConfig tunes the event pipeline.
type WatcherConfig struct {
	// EventDebounceMS gates per-path notifications before any disk read.
	EventDebounceMS int `yaml:"event_debounce_ms"`
	// MaxEvents bounds the in-memory event feed.
	MaxEvents int `yaml:"max_events"`
	// ChannelBuffer is the outbound FileEvent channel capacity. The pipeline
	// blocks on send when the consumer falls this far behind.
	ChannelBuffer int `yaml:"channel_buffer"`
	// DiffEngine selects the diff implementation ("difflib" or "dmp").
	DiffEngine string `yaml:"diff_engine"`
}

// CacheConfig sizes the derived-artifact caches.
type CacheConfig struct {
	DiffCacheSize    int     `yaml:"diff_cache_size"`
	FileContentSize  int     `yaml:"file_content_size"`
	SyntaxCacheSize  int     `yaml:"syntax_cache_size"`
	CleanupThreshold float64 `yaml:"cleanup_threshold"`
}

// UIConfig tunes the consumer-side debouncing and search.
type UIConfig struct {
	SearchDebounceMS int `yaml:"search_debounce_ms"`
	MaxSearchResults int `yaml:"max_search_results"`
}

// AIConfig tunes origin detection and batch grouping.
type AIConfig struct {
	BatchTimeGapSecs int `yaml:"batch_time_gap_secs"`
	BatchMaxAgeSecs  int `yaml:"batch_max_age_secs"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Watcher: WatcherConfig{
			EventDebounceMS: 100,
			MaxEvents:       1000,
			ChannelBuffer:   1024,
			DiffEngine:      "difflib",
		},
		Cache: CacheConfig{
			DiffCacheSize:    100,
			FileContentSize:  200,
			SyntaxCacheSize:  100,
			CleanupThreshold: 0.8,
		},
		UI: UIConfig{
			SearchDebounceMS: 300,
			MaxSearchResults: 1000,
		},
		AI: AIConfig{
			BatchTimeGapSecs: 5,
			BatchMaxAgeSecs:  30,
		},
	}
}

// Load reads the config file under root if present, applies environment
// overrides, and validates the result. A missing file is not an error.
func Load(root string) (Config, error) {
	cfg := Default()

	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides individual knobs from WATCHDIFF_* variables.
func (c *Config) applyEnv() {
	envInt("WATCHDIFF_EVENT_DEBOUNCE_MS", &c.Watcher.EventDebounceMS)
	envInt("WATCHDIFF_MAX_EVENTS", &c.Watcher.MaxEvents)
	envInt("WATCHDIFF_DIFF_CACHE_SIZE", &c.Cache.DiffCacheSize)
	envInt("WATCHDIFF_SEARCH_DEBOUNCE_MS", &c.UI.SearchDebounceMS)
	if v := os.Getenv("WATCHDIFF_DIFF_ENGINE"); v != "" {
		c.Watcher.DiffEngine = v
	}
}

func envInt(name string, dst *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}

// Validate rejects configurations the caches and pipeline cannot run with.
func (c Config) Validate() error {
	if c.Cache.DiffCacheSize <= 0 {
		return fmt.Errorf("diff_cache_size must be greater than 0")
	}
	if c.Cache.FileContentSize <= 0 {
		return fmt.Errorf("file_content_size must be greater than 0")
	}
	if c.Cache.SyntaxCacheSize <= 0 {
		return fmt.Errorf("syntax_cache_size must be greater than 0")
	}
	if c.Watcher.MaxEvents <= 0 {
		return fmt.Errorf("max_events must be greater than 0")
	}
	if c.Cache.CleanupThreshold <= 0 || c.Cache.CleanupThreshold > 1 {
		return fmt.Errorf("cleanup_threshold must be in (0, 1], got %v", c.Cache.CleanupThreshold)
	}
	return nil
}

// EventDebounce returns the pipeline debounce window.
func (c WatcherConfig) EventDebounce() time.Duration {
	return time.Duration(c.EventDebounceMS) * time.Millisecond
}

// SearchDebounce returns the UI-side debounce window.
func (c UIConfig) SearchDebounce() time.Duration {
	return time.Duration(c.SearchDebounceMS) * time.Millisecond
}

// BatchTimeGap returns the maximum quiet period inside one batch.
func (c AIConfig) BatchTimeGap() time.Duration {
	return time.Duration(c.BatchTimeGapSecs) * time.Second
}

// BatchMaxAge returns how long changes stay in the batch window.
func (c AIConfig) BatchMaxAge() time.Duration {
	return time.Duration(c.BatchMaxAgeSecs) * time.Second
}
