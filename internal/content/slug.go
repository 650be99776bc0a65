package content

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-slug"
)

var (
	slugStrip     = regexp.MustCompile(`[^\w\s-]`)
	slugSeparator = regexp.MustCompile(`[\s_-]+`)
)

// Slugify derives a URL-safe slug from a title. Characters outside ASCII
// letters, digits, underscores, whitespace and hyphens are removed, so a
// title written entirely in another script yields an empty slug.
func Slugify(title string) string {
	value := strings.TrimSpace(strings.ToLower(title))
	value = slugStrip.ReplaceAllString(value, "")
	value = slugSeparator.ReplaceAllString(value, "-")
	return strings.Trim(value, "-")
}

// CanonicalSlug reports whether value already matches the canonical slug
// shape produced by the slug normalizer.
func CanonicalSlug(value string) bool {
	return slug.IsValid(value)
}
