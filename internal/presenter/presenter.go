// Package presenter turns collection items into the markup fragments placed
// in a page container. Output is produced with html/template so every text
// value is escaped; only rendered bodies are inserted verbatim.
package presenter

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/bitcheongmo/sitefeed/internal/content"
	"github.com/bitcheongmo/sitefeed/internal/markdown"
	"github.com/bitcheongmo/sitefeed/pkg/interfaces"
)

const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// Config describes the collection a presenter renders.
type Config struct {
	// Noun is the user-facing name of one item, e.g. 활동.
	Noun string
	// Param is the query parameter carrying a detail slug. It doubles as the
	// CSS class prefix.
	Param string
	// PagePath is the page hosting the collection, relative to the site root.
	PagePath string
}

// Presenter renders list and detail views for one collection.
type Presenter struct {
	cfg  Config
	body interfaces.BodyRenderer
	tmpl *template.Template
}

// New builds a presenter. A nil body renderer uses the restricted markdown
// renderer with passthrough.
func New(cfg Config, body interfaces.BodyRenderer) (*Presenter, error) {
	if strings.TrimSpace(cfg.Param) == "" || strings.TrimSpace(cfg.PagePath) == "" {
		return nil, fmt.Errorf("presenter: param and page path are required")
	}
	if body == nil {
		body = markdown.NewRenderer(markdown.Options{})
	}
	source := strings.ReplaceAll(templateSource, prefixToken, cfg.Param)
	tmpl, err := template.New(cfg.Param).Parse(source)
	if err != nil {
		return nil, fmt.Errorf("presenter: parse templates: %w", err)
	}
	return &Presenter{cfg: cfg, body: body, tmpl: tmpl}, nil
}

// FormatDate renders t as "<year>년 <month>월 <day>일" in local time.
func FormatDate(t time.Time) string {
	return content.FormatDate(t)
}

// ListURL is the relative URL of the list view.
func (p *Presenter) ListURL() string {
	return "./" + p.cfg.PagePath
}

// DetailURL is the relative URL of the detail view for slug.
func (p *Presenter) DetailURL(slug string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(slug), "+", "%20")
	return p.ListURL() + "?" + p.cfg.Param + "=" + escaped
}

// DetailBodyClass is the class of the element holding a rendered body.
func (p *Presenter) DetailBodyClass() string {
	return p.cfg.Param + "-detail-body"
}

type card struct {
	Slug        string
	URL         string
	Title       string
	Summary     string
	ISODate     string
	DisplayDate string
}

type labels struct {
	Noun        string
	Subject     string
	Object      string
	Topic       string
	ListURL     string
	Message     string
	LastUpdated string
}

type detail struct {
	Slug        string
	Title       string
	Summary     string
	Category    string
	Image       string
	ISODate     string
	DisplayDate string
	Body        template.HTML
	ListURL     string
}

// List renders one card per item in the given order, or the empty state.
func (p *Presenter) List(items []content.Item) (template.HTML, error) {
	if len(items) == 0 {
		return p.Empty()
	}
	cards := make([]card, 0, len(items))
	for _, item := range items {
		cards = append(cards, card{
			Slug:        item.Slug,
			URL:         p.DetailURL(item.Slug),
			Title:       item.Title,
			Summary:     item.Summary,
			ISODate:     isoDate(item.Date),
			DisplayDate: FormatDate(item.Date),
		})
	}
	return p.execute("list", cards)
}

// Empty renders the empty-collection state.
func (p *Presenter) Empty() (template.HTML, error) {
	return p.execute("empty", p.labels())
}

// Loading renders the loading state.
func (p *Presenter) Loading() (template.HTML, error) {
	return p.execute("loading", p.labels())
}

// Error renders the list error state. lastUpdated may be nil.
func (p *Presenter) Error(message string, lastUpdated *time.Time) (template.HTML, error) {
	data := p.labels()
	data.Message = message
	if lastUpdated != nil {
		data.LastUpdated = FormatDate(*lastUpdated)
	}
	return p.execute("error", data)
}

// Detail renders the full view of item, or the not-published state.
func (p *Presenter) Detail(item content.Item) (template.HTML, error) {
	if !item.Published {
		return p.execute("unpublished", p.labels())
	}
	data := detail{
		Slug:        item.Slug,
		Title:       item.Title,
		Summary:     item.Summary,
		ISODate:     isoDate(item.Date),
		DisplayDate: FormatDate(item.Date),
		Body:        p.body.RenderBody(item.Body),
		ListURL:     p.ListURL(),
	}
	if item.Category != nil {
		data.Category = *item.Category
	}
	if item.Image != nil {
		data.Image = *item.Image
	}
	return p.execute("detail", data)
}

// DetailError renders the detail error state.
func (p *Presenter) DetailError(message string) (template.HTML, error) {
	data := p.labels()
	data.Message = message
	return p.execute("detail_error", data)
}

// NotFound renders the unknown-slug state.
func (p *Presenter) NotFound(message string) (template.HTML, error) {
	data := p.labels()
	data.Message = message
	return p.execute("not_found", data)
}

// NotFoundMessage is the default explanation shown with NotFound.
func (p *Presenter) NotFoundMessage() string {
	return "요청하신 " + withParticle(p.cfg.Noun, "을", "를") + " 찾을 수 없습니다."
}

func (p *Presenter) labels() labels {
	return labels{
		Noun:    p.cfg.Noun,
		Subject: withParticle(p.cfg.Noun, "이", "가"),
		Object:  withParticle(p.cfg.Noun, "을", "를"),
		Topic:   withParticle(p.cfg.Noun, "은", "는"),
		ListURL: p.ListURL(),
	}
}

func (p *Presenter) execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("presenter: render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

func isoDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(isoLayout)
}
