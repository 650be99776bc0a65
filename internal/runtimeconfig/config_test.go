package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bitcheongmo/sitefeed/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_RequiresCollections(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Collections = nil

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrCollectionsRequired) {
		t.Fatalf("expected ErrCollectionsRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidCollection(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Collections[0].Param = ""

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrCollectionInvalid) {
		t.Fatalf("expected ErrCollectionInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsDuplicateCollections(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Collections[1].Name = cfg.Collections[0].Name

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrCollectionDuplicate) {
		t.Fatalf("expected ErrCollectionDuplicate, got %v", err)
	}
}

func TestConfigValidate_RejectsRelativeBaseURL(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Site.BaseURL = "example.org"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrSiteBaseURLInvalid) {
		t.Fatalf("expected ErrSiteBaseURLInvalid, got %v", err)
	}
}

func TestConfigValidate_RequiresSnapshotDSNWhenEnabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Snapshot.Enabled = true
	cfg.Snapshot.DSN = " "

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrSnapshotDSNRequired) {
		t.Fatalf("expected ErrSnapshotDSNRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownMarkdownEngine(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Markdown.Engine = "blackfriday"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrMarkdownEngineUnknown) {
		t.Fatalf("expected ErrMarkdownEngineUnknown, got %v", err)
	}
}

func TestConfigValidate_Logging(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{"missing provider", func(c *runtimeconfig.Config) { c.Logging.Provider = "" }, runtimeconfig.ErrLoggingProviderRequired},
		{"unknown provider", func(c *runtimeconfig.Config) { c.Logging.Provider = "syslog" }, runtimeconfig.ErrLoggingProviderUnknown},
		{"bad level", func(c *runtimeconfig.Config) { c.Logging.Level = "loud" }, runtimeconfig.ErrLoggingLevelInvalid},
		{"bad format", func(c *runtimeconfig.Config) {
			c.Logging.Provider = "gologger"
			c.Logging.Format = "xml"
		}, runtimeconfig.ErrLoggingFormatInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLoad_OverlaysYAMLAndEnvFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "sitefeed.yaml")
	yamlDoc := `
site:
  name: 빛청모
  base_url: https://example.org
feed:
  timeout: 3s
markdown:
  engine: goldmark
`
	if err := os.WriteFile(configPath, []byte(yamlDoc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("SITEFEED_LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv(runtimeconfig.EnvLogLevel, "")
	os.Unsetenv(runtimeconfig.EnvLogLevel)
	t.Setenv(runtimeconfig.EnvSnapshotEnabled, "true")

	cfg, err := runtimeconfig.Load(configPath, envPath, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Site.BaseURL != "https://example.org" {
		t.Fatalf("expected yaml base url, got %q", cfg.Site.BaseURL)
	}
	if cfg.Feed.Timeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %s", cfg.Feed.Timeout)
	}
	if cfg.Markdown.Engine != runtimeconfig.MarkdownEngineGoldmark {
		t.Fatalf("expected goldmark engine, got %q", cfg.Markdown.Engine)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected env file log level, got %q", cfg.Logging.Level)
	}
	if !cfg.Snapshot.Enabled {
		t.Fatal("expected snapshot enabled from environment")
	}
	if len(cfg.Collections) != 2 {
		t.Fatalf("expected default collections to be kept, got %d", len(cfg.Collections))
	}
}

func TestApplyEnv_RejectsBadDuration(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	lookup := func(key string) (string, bool) {
		if key == runtimeconfig.EnvFeedTimeout {
			return "soon", true
		}
		return "", false
	}
	if err := runtimeconfig.ApplyEnv(&cfg, lookup); err == nil {
		t.Fatal("expected duration parse error")
	}
}

func TestConfigCollectionLookup(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	collection, ok := cfg.Collection("statements")
	if !ok || collection.ContainerID != "statement-list" {
		t.Fatalf("expected statements collection, got %+v ok=%v", collection, ok)
	}
	if _, ok := cfg.Collection("missing"); ok {
		t.Fatal("expected missing collection lookup to fail")
	}
}
