package markdown

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/bitcheongmo/sitefeed/pkg/interfaces"
)

// goldmarkExtensions lists the extension names accepted in
// markdown.extensions.
var goldmarkExtensions = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

// Used when no extension is configured. Bare links in exported bodies become
// anchors, as they do in the restricted dialect.
var defaultGoldmarkExtensions = []string{"strikethrough", "linkify", "table"}

// GoldmarkEngine converts bodies with goldmark. It is safe for concurrent
// use.
type GoldmarkEngine struct {
	md goldmark.Markdown
}

// NewGoldmarkEngine builds an engine. Raw HTML inside bodies is kept unless
// opts.SafeMode is set.
func NewGoldmarkEngine(opts interfaces.MarkdownOptions) *GoldmarkEngine {
	rendering := []renderer.Option{}
	if opts.HardWraps {
		rendering = append(rendering, html.WithHardWraps())
	}
	if !opts.SafeMode {
		rendering = append(rendering, html.WithUnsafe())
	}
	return &GoldmarkEngine{md: goldmark.New(
		goldmark.WithExtensions(resolveExtensions(opts.Extensions)...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendering...),
	)}
}

// Convert renders source into HTML without the trailing newline goldmark
// emits.
func (e *GoldmarkEngine) Convert(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := e.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("markdown: goldmark convert: %w", err)
	}
	return template.HTML(strings.TrimRight(buf.String(), "\n")), nil
}

// resolveExtensions maps names onto extenders, skipping unknown and repeated
// names.
func resolveExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		names = defaultGoldmarkExtensions
	}
	seen := make(map[string]bool, len(names))
	extenders := make([]goldmark.Extender, 0, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		ext, ok := goldmarkExtensions[key]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		extenders = append(extenders, ext)
	}
	return extenders
}
