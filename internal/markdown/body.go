package markdown

import (
	"html/template"
	"regexp"
	"strings"

	"github.com/bitcheongmo/sitefeed/internal/logging"
	"github.com/bitcheongmo/sitefeed/pkg/interfaces"
)

// EmptyBody is rendered in place of a blank body.
const EmptyBody template.HTML = "<p>내용이 없습니다.</p>"

var htmlTagPattern = regexp.MustCompile(`(?i)<[a-z][\s\S]*>`)

// LooksLikeHTML reports whether body already contains markup and should be
// passed through rather than converted.
func LooksLikeHTML(body string) bool {
	return htmlTagPattern.MatchString(body)
}

// RestrictedEngine exposes Render as an interfaces.MarkdownEngine.
type RestrictedEngine struct{}

func (RestrictedEngine) Convert(source string) (template.HTML, error) {
	return Render(source), nil
}

// Options configures a BodyRenderer.
type Options struct {
	Engine            interfaces.MarkdownEngine
	EscapePassthrough bool
	Logger            interfaces.Logger
}

// Renderer decides how an item body is displayed. Bodies that already look
// like HTML are emitted verbatim and are not sanitized; everything else is
// converted by the configured engine.
type Renderer struct {
	engine            interfaces.MarkdownEngine
	escapePassthrough bool
	logger            interfaces.Logger
}

var _ interfaces.BodyRenderer = (*Renderer)(nil)

// NewRenderer builds a body renderer. A nil engine selects the restricted
// dialect.
func NewRenderer(opts Options) *Renderer {
	engine := opts.Engine
	if engine == nil {
		engine = RestrictedEngine{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Renderer{
		engine:            engine,
		escapePassthrough: opts.EscapePassthrough,
		logger:            logger,
	}
}

// RenderBody returns display HTML for body.
func (r *Renderer) RenderBody(body string) template.HTML {
	if strings.TrimSpace(body) == "" {
		return EmptyBody
	}
	if LooksLikeHTML(body) {
		if r.escapePassthrough {
			r.logger.Debug("markdown.body.escaped")
			return template.HTML("<p>" + Escape(body) + "</p>")
		}
		r.logger.Debug("markdown.body.passthrough")
		return template.HTML(body)
	}
	out, err := r.engine.Convert(body)
	if err != nil {
		r.logger.Warn("markdown.body.engine_failed", "error", err)
		return Render(body)
	}
	return out
}

// RenderBody renders body with the restricted engine and passthrough enabled.
func RenderBody(body string) template.HTML {
	return defaultRenderer.RenderBody(body)
}

var defaultRenderer = NewRenderer(Options{})
