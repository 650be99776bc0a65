package bootstrap

import (
	"fmt"
	"strings"

	"github.com/bitcheongmo/sitefeed"
	"github.com/bitcheongmo/sitefeed/pkg/interfaces"
)

// Options captures configuration for CLI bootstraps.
type Options struct {
	ConfigPath     string
	EnvFiles       []string
	LogProvider    string
	LogLevel       string
	LogFormat      string
	FeedRoot       string
	LoggerProvider interfaces.LoggerProvider
}

// LoadConfig resolves the configuration for opts: defaults, the optional
// config file, env files and SITEFEED_* variables, then the flag overrides.
func LoadConfig(opts Options) (sitefeed.Config, error) {
	cfg, err := sitefeed.LoadConfig(strings.TrimSpace(opts.ConfigPath), opts.EnvFiles...)
	if err != nil {
		return sitefeed.Config{}, err
	}
	if value := strings.TrimSpace(opts.LogProvider); value != "" {
		cfg.Logging.Provider = value
	}
	if value := strings.TrimSpace(opts.LogLevel); value != "" {
		cfg.Logging.Level = value
	}
	if value := strings.TrimSpace(opts.LogFormat); value != "" {
		cfg.Logging.Format = value
	}
	if value := strings.TrimSpace(opts.FeedRoot); value != "" {
		cfg.Feed.Root = value
	}
	return cfg, cfg.Validate()
}

// BuildModule constructs a sitefeed module for CLI commands.
func BuildModule(opts Options) (*sitefeed.Module, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	moduleOpts := []sitefeed.Option{}
	if opts.LoggerProvider != nil {
		moduleOpts = append(moduleOpts, sitefeed.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := sitefeed.New(cfg, moduleOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise sitefeed module: %w", err)
	}
	return module, nil
}
