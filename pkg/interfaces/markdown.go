package interfaces

import "html/template"

// MarkdownEngine converts a markdown body into HTML.
type MarkdownEngine interface {
	Convert(source string) (template.HTML, error)
}

// MarkdownOptions customises the alternate engine, keeping option names
// readable for configuration unmarshalling and CLI flags.
type MarkdownOptions struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
}

// BodyRenderer resolves an item body into display HTML, choosing between
// passthrough and markdown conversion.
type BodyRenderer interface {
	RenderBody(body string) template.HTML
}
