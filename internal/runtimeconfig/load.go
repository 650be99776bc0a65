package runtimeconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvSiteBaseURL     = "SITEFEED_SITE_BASE_URL"
	EnvFeedBaseURL     = "SITEFEED_FEED_BASE_URL"
	EnvFeedRoot        = "SITEFEED_FEED_ROOT"
	EnvFeedTimeout     = "SITEFEED_FEED_TIMEOUT"
	EnvSnapshotEnabled = "SITEFEED_SNAPSHOT_ENABLED"
	EnvSnapshotDSN     = "SITEFEED_SNAPSHOT_DSN"
	EnvMarkdownEngine  = "SITEFEED_MARKDOWN_ENGINE"
	EnvLogProvider     = "SITEFEED_LOG_PROVIDER"
	EnvLogLevel        = "SITEFEED_LOG_LEVEL"
	EnvLogFormat       = "SITEFEED_LOG_FORMAT"
)

// Load builds a configuration from defaults, an optional YAML file and the
// process environment, then validates it. Env files are loaded first and
// never override variables already set in the environment.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := DefaultConfig()

	if err := LoadEnv(envFiles...); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("sitefeed config: read %s: %w", path, err)
		}
		if err := Decode(raw, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode overlays YAML content onto cfg. Collections in the document replace
// the default collection list wholesale.
func Decode(raw []byte, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("sitefeed config: decode target is nil")
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("sitefeed config: decode yaml: %w", err)
	}
	return nil
}

// LoadEnv reads dotenv files into the process environment. Missing files are
// skipped.
func LoadEnv(files ...string) error {
	for _, file := range files {
		file = strings.TrimSpace(file)
		if file == "" {
			continue
		}
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := gotenv.Load(file); err != nil {
			return fmt.Errorf("sitefeed config: load env %s: %w", file, err)
		}
	}
	return nil
}

// ApplyEnv copies recognised SITEFEED_* variables onto cfg.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if cfg == nil || lookup == nil {
		return nil
	}
	str := func(key string, target *string) {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			*target = strings.TrimSpace(value)
		}
	}

	str(EnvSiteBaseURL, &cfg.Site.BaseURL)
	str(EnvFeedBaseURL, &cfg.Feed.BaseURL)
	str(EnvFeedRoot, &cfg.Feed.Root)
	str(EnvSnapshotDSN, &cfg.Snapshot.DSN)
	str(EnvMarkdownEngine, &cfg.Markdown.Engine)
	str(EnvLogProvider, &cfg.Logging.Provider)
	str(EnvLogLevel, &cfg.Logging.Level)
	str(EnvLogFormat, &cfg.Logging.Format)

	if value, ok := lookup(EnvFeedTimeout); ok && strings.TrimSpace(value) != "" {
		timeout, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("sitefeed config: %s: %w", EnvFeedTimeout, err)
		}
		cfg.Feed.Timeout = timeout
	}
	if value, ok := lookup(EnvSnapshotEnabled); ok && strings.TrimSpace(value) != "" {
		enabled, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("sitefeed config: %s: %w", EnvSnapshotEnabled, err)
		}
		cfg.Snapshot.Enabled = enabled
	}
	return nil
}
