package runtimeconfig

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var ErrSiteNameRequired = errors.New("sitefeed config: site name is required")
var ErrSiteBaseURLInvalid = errors.New("sitefeed config: site base url must be absolute")
var ErrCollectionsRequired = errors.New("sitefeed config: at least one collection is required")
var ErrCollectionInvalid = errors.New("sitefeed config: collection is invalid")
var ErrCollectionDuplicate = errors.New("sitefeed config: collection names must be unique")
var ErrFeedTimeoutInvalid = errors.New("sitefeed config: feed timeout must be zero or positive")
var ErrSnapshotDSNRequired = errors.New("sitefeed config: snapshot dsn is required when snapshots are enabled")
var ErrMarkdownEngineUnknown = errors.New("sitefeed config: markdown engine is invalid")
var ErrLoggingProviderRequired = errors.New("sitefeed config: logging provider is required")
var ErrLoggingProviderUnknown = errors.New("sitefeed config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("sitefeed config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("sitefeed config: logging format is invalid")

// Markdown engines understood by the renderer service.
const (
	MarkdownEngineRestricted = "restricted"
	MarkdownEngineGoldmark   = "goldmark"
)

var identifierPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// Config aggregates the settings for a site publishing one or more content
// collections.
type Config struct {
	Site        SiteConfig         `yaml:"site"`
	Collections []CollectionConfig `yaml:"collections"`
	Feed        FeedConfig         `yaml:"feed"`
	Snapshot    SnapshotConfig     `yaml:"snapshot"`
	Markdown    MarkdownConfig     `yaml:"markdown"`
	Logging     LoggingConfig      `yaml:"logging"`
}

// SiteConfig describes the publishing organisation.
type SiteConfig struct {
	Name     string `yaml:"name"`
	BaseURL  string `yaml:"base_url"`
	LogoPath string `yaml:"logo_path"`
	Locale   string `yaml:"locale"`
}

// CollectionConfig binds a collection to its data document, page and
// container element.
type CollectionConfig struct {
	Name        string       `yaml:"name"`
	Param       string       `yaml:"param"`
	DataPath    string       `yaml:"data_path"`
	PagePath    string       `yaml:"page_path"`
	ContainerID string       `yaml:"container_id"`
	Fresh       bool         `yaml:"fresh"`
	Fallback    string       `yaml:"fallback"`
	Labels      LabelsConfig `yaml:"labels"`
	SEO         SEOConfig    `yaml:"seo"`
}

// LabelsConfig holds the user-facing nouns for a collection.
type LabelsConfig struct {
	Noun    string `yaml:"noun"`
	Section string `yaml:"section"`
}

// SEOConfig captures list page defaults for a collection.
type SEOConfig struct {
	Description       string   `yaml:"description"`
	Keywords          []string `yaml:"keywords"`
	DetailDescription string   `yaml:"detail_description"`
}

// FeedConfig configures how collection documents are fetched.
type FeedConfig struct {
	BaseURL string        `yaml:"base_url"`
	Root    string        `yaml:"root"`
	Timeout time.Duration `yaml:"timeout"`
}

// SnapshotConfig configures last-known-good persistence.
type SnapshotConfig struct {
	Enabled  bool          `yaml:"enabled"`
	DSN      string        `yaml:"dsn"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// MarkdownConfig selects the body renderer.
type MarkdownConfig struct {
	Engine            string   `yaml:"engine"`
	EscapePassthrough bool     `yaml:"escape_passthrough"`
	Extensions        []string `yaml:"extensions"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns the configuration used by the community site.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			Name:     "빛청모",
			BaseURL:  "http://localhost:8080",
			LogoPath: "/assets/img/logo.jpg",
			Locale:   "ko_KR",
		},
		Collections: []CollectionConfig{
			{
				Name:        "activities",
				Param:       "activity",
				DataPath:    "data/activities.json",
				PagePath:    "activities.html",
				ContainerID: "activities-list",
				Labels: LabelsConfig{
					Noun:    "활동",
					Section: "활동공유",
				},
				SEO: SEOConfig{
					Description:       "빛청모의 다양한 활동과 소식을 공유하는 공간입니다.",
					Keywords:          []string{"빛청모", "성소수자", "공조", "활동", "커뮤니티"},
					DetailDescription: "빛청모의 활동을 확인하세요.",
				},
			},
			{
				Name:        "statements",
				Param:       "statement",
				DataPath:    "data/statements.json",
				PagePath:    "statements.html",
				ContainerID: "statement-list",
				Fresh:       true,
				Labels: LabelsConfig{
					Noun:    "성명",
					Section: "성명",
				},
				SEO: SEOConfig{
					Description:       "빛청모가 발표한 성명을 모아보는 공간입니다.",
					Keywords:          []string{"빛청모", "성소수자", "성명", "커뮤니티"},
					DetailDescription: "빛청모의 성명을 확인하세요.",
				},
			},
		},
		Feed: FeedConfig{
			Root:    ".",
			Timeout: 10 * time.Second,
		},
		Snapshot: SnapshotConfig{
			Enabled:  false,
			DSN:      "file::memory:?cache=shared",
			CacheTTL: time.Minute,
		},
		Markdown: MarkdownConfig{
			Engine: MarkdownEngineRestricted,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Collection returns the named collection configuration.
func (cfg Config) Collection(name string) (CollectionConfig, bool) {
	name = strings.TrimSpace(name)
	for _, collection := range cfg.Collections {
		if collection.Name == name {
			return collection, true
		}
	}
	return CollectionConfig{}, false
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Site.Name) == "" {
		return ErrSiteNameRequired
	}
	if base := strings.TrimSpace(cfg.Site.BaseURL); !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return fmt.Errorf("%w: %q", ErrSiteBaseURLInvalid, cfg.Site.BaseURL)
	}
	if len(cfg.Collections) == 0 {
		return ErrCollectionsRequired
	}
	seen := map[string]struct{}{}
	for _, collection := range cfg.Collections {
		if err := collection.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrCollectionInvalid, collection.Name, err)
		}
		if _, ok := seen[collection.Name]; ok {
			return fmt.Errorf("%w: %s", ErrCollectionDuplicate, collection.Name)
		}
		seen[collection.Name] = struct{}{}
	}
	if cfg.Feed.Timeout < 0 {
		return ErrFeedTimeoutInvalid
	}
	if cfg.Snapshot.Enabled && strings.TrimSpace(cfg.Snapshot.DSN) == "" {
		return ErrSnapshotDSNRequired
	}
	if engine := normalizeName(cfg.Markdown.Engine); engine != "" && !isSupportedEngine(engine) {
		return fmt.Errorf("%w: %s", ErrMarkdownEngineUnknown, engine)
	}

	provider := normalizeName(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// Validate checks a single collection entry.
func (c CollectionConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Match(identifierPattern)),
		validation.Field(&c.Param, validation.Required, validation.Match(identifierPattern)),
		validation.Field(&c.DataPath, validation.Required),
		validation.Field(&c.PagePath, validation.Required),
		validation.Field(&c.ContainerID, validation.Required),
		validation.Field(&c.Labels, validation.By(func(any) error {
			if strings.TrimSpace(c.Labels.Noun) == "" {
				return validation.NewError("labels_noun_required", "noun label is required")
			}
			return nil
		})),
	)
}

func normalizeName(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedEngine(engine string) bool {
	switch engine {
	case MarkdownEngineRestricted, MarkdownEngineGoldmark:
		return true
	default:
		return false
	}
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
