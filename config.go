package sitefeed

import "github.com/bitcheongmo/sitefeed/internal/runtimeconfig"

var (
	ErrSiteNameRequired        = runtimeconfig.ErrSiteNameRequired
	ErrSiteBaseURLInvalid      = runtimeconfig.ErrSiteBaseURLInvalid
	ErrCollectionsRequired     = runtimeconfig.ErrCollectionsRequired
	ErrCollectionInvalid       = runtimeconfig.ErrCollectionInvalid
	ErrCollectionDuplicate     = runtimeconfig.ErrCollectionDuplicate
	ErrFeedTimeoutInvalid      = runtimeconfig.ErrFeedTimeoutInvalid
	ErrSnapshotDSNRequired     = runtimeconfig.ErrSnapshotDSNRequired
	ErrMarkdownEngineUnknown   = runtimeconfig.ErrMarkdownEngineUnknown
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config           = runtimeconfig.Config
	SiteConfig       = runtimeconfig.SiteConfig
	CollectionConfig = runtimeconfig.CollectionConfig
	LabelsConfig     = runtimeconfig.LabelsConfig
	SEOConfig        = runtimeconfig.SEOConfig
	FeedConfig       = runtimeconfig.FeedConfig
	SnapshotConfig   = runtimeconfig.SnapshotConfig
	MarkdownConfig   = runtimeconfig.MarkdownConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
)

const (
	MarkdownEngineRestricted = runtimeconfig.MarkdownEngineRestricted
	MarkdownEngineGoldmark   = runtimeconfig.MarkdownEngineGoldmark
)

// DefaultConfig returns the configuration of the community site.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML config file, applying env files and SITEFEED_*
// overrides.
func LoadConfig(path string, envFiles ...string) (Config, error) {
	return runtimeconfig.Load(path, envFiles...)
}
