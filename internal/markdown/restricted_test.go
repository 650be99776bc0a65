package markdown

import (
	"errors"
	"html/template"
	"strings"
	"testing"

	"github.com/bitcheongmo/sitefeed/pkg/interfaces"
)

func TestRenderInlineFormatting(t *testing.T) {
	got := Render("This is **bold** and *soft*.")
	want := template.HTML("<p>This is <strong>bold</strong> and <em>soft</em>.</p>")
	if got != want {
		t.Fatalf("unexpected output:\n got %q\nwant %q", got, want)
	}
}

func TestRenderEscapesText(t *testing.T) {
	got := Render("a < b & c")
	if got != "<p>a &lt; b &amp; c</p>" {
		t.Fatalf("expected escaped paragraph, got %q", got)
	}
}

func TestRenderHeadingsAndParagraphs(t *testing.T) {
	got := Render("# Title\n\nBody text\r\n\r\n## Sub")
	want := template.HTML("<h1>Title</h1><p>Body text</p><h2>Sub</h2>")
	if got != want {
		t.Fatalf("unexpected output:\n got %q\nwant %q", got, want)
	}
}

func TestRenderBulletList(t *testing.T) {
	got := string(Render("- one\n- two\n\nafter"))
	for _, fragment := range []string{"<ul>", "<li>one</li>", "<li>two</li>", "</ul>", "<p>after</p>"} {
		if !strings.Contains(got, fragment) {
			t.Fatalf("expected %q in %q", fragment, got)
		}
	}
	if strings.Count(got, "<ul>") != 1 {
		t.Fatalf("expected a single list, got %q", got)
	}
}

func TestRenderCodeFenceIsEscapedAndUnformatted(t *testing.T) {
	got := Render("before\n\n```\nx := 1 < 2 **not bold**\n```\n\nafter")
	want := template.HTML("<p>before</p><pre><code>x := 1 &lt; 2 **not bold**</code></pre><p>after</p>")
	if got != want {
		t.Fatalf("unexpected output:\n got %q\nwant %q", got, want)
	}
}

func TestRenderInlineCode(t *testing.T) {
	got := Render("run `go <cmd>` now")
	if got != "<p>run <code>go &lt;cmd&gt;</code> now</p>" {
		t.Fatalf("unexpected inline code output %q", got)
	}
}

func TestRenderLinks(t *testing.T) {
	got := string(Render("See [site](https://example.com) and [home](/about)"))
	external := `<a href="https://example.com" target="_blank" rel="noopener noreferrer">site</a>`
	internal := `<a href="/about">home</a>`
	if !strings.Contains(got, external) {
		t.Fatalf("expected external link in %q", got)
	}
	if !strings.Contains(got, internal) {
		t.Fatalf("expected internal link in %q", got)
	}
}

func TestRenderInlineCodeIsNotFormatted(t *testing.T) {
	got := Render("`*not em*` and `**not bold**`")
	if got != "<p><code>*not em*</code> and <code>**not bold**</code></p>" {
		t.Fatalf("unexpected inline code output %q", got)
	}
}

func TestRenderDropsUnsafeLinkTargets(t *testing.T) {
	cases := map[string]string{
		"[x](javascript:alert(1))":        "<p>x</p>",
		"[x](JavaScript:alert(1))":        "<p>x</p>",
		"[x](data:text/html,hi)":          "<p>x</p>",
		"[x](vbscript:msgbox)":            "<p>x</p>",
		"[mail](mailto:team@example.org)": `<p><a href="mailto:team@example.org">mail</a></p>`,
		"[rel](./contact.html?a=b:c)":     `<p><a href="./contact.html?a=b:c">rel</a></p>`,
	}
	for source, want := range cases {
		if got := string(Render(source)); got != want {
			t.Fatalf("Render(%q) = %q, want %q", source, got, want)
		}
	}
}

func TestRenderLinkWithParentheses(t *testing.T) {
	got := string(Render("[wiki](https://ko.wikipedia.org/wiki/A_(B))"))
	want := `<p><a href="https://ko.wikipedia.org/wiki/A_(B)" target="_blank" rel="noopener noreferrer">wiki</a></p>`
	if got != want {
		t.Fatalf("unexpected link output\n got %q\nwant %q", got, want)
	}
}

func TestRenderHardBreak(t *testing.T) {
	got := Render("line one  \nline two")
	if got != "<p>line one<br>line two</p>" {
		t.Fatalf("unexpected hard break output %q", got)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	src := "# A\n\n- x\n- y\n\n```\ncode\n```\n\n*e* **b**"
	if Render(src) != Render(src) {
		t.Fatalf("expected identical output for identical input")
	}
	if Render("") != "" {
		t.Fatalf("expected empty output for empty input")
	}
}

func TestIsExternalURL(t *testing.T) {
	cases := map[string]bool{
		"https://a.b": true,
		"http://a.b":  true,
		"//cdn.a.b":   true,
		"/local":      false,
		"page.html":   false,
	}
	for href, want := range cases {
		if got := IsExternalURL(href); got != want {
			t.Fatalf("IsExternalURL(%q) = %v, want %v", href, got, want)
		}
	}
}

func TestRenderBodyPassthrough(t *testing.T) {
	body := "<script>x</script>"
	if got := RenderBody(body); got != template.HTML(body) {
		t.Fatalf("expected passthrough, got %q", got)
	}
	if got := RenderBody("   "); got != EmptyBody {
		t.Fatalf("expected empty placeholder, got %q", got)
	}
	if got := RenderBody("plain"); got != "<p>plain</p>" {
		t.Fatalf("expected markdown conversion, got %q", got)
	}
}

func TestRendererEscapePassthrough(t *testing.T) {
	r := NewRenderer(Options{EscapePassthrough: true})
	if got := r.RenderBody("<b>x</b>"); got != "<p>&lt;b&gt;x&lt;/b&gt;</p>" {
		t.Fatalf("expected escaped markup, got %q", got)
	}
}

type failingEngine struct{}

func (failingEngine) Convert(string) (template.HTML, error) {
	return "", errors.New("boom")
}

var _ interfaces.MarkdownEngine = failingEngine{}

func TestRendererFallsBackOnEngineError(t *testing.T) {
	r := NewRenderer(Options{Engine: failingEngine{}})
	if got := r.RenderBody("**x** y"); got != "<strong>x</strong> y" {
		t.Fatalf("expected restricted fallback, got %q", got)
	}
}

func TestGoldmarkEngine(t *testing.T) {
	engine := NewGoldmarkEngine(interfaces.MarkdownOptions{HardWraps: true})
	out, err := engine.Convert("# Hello\n\n**world**\nline two")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<strong>world</strong>") {
		t.Fatalf("unexpected goldmark output %q", html)
	}
	if !strings.Contains(html, "<br>") {
		t.Fatalf("expected hard wrap, got %q", html)
	}
}

func TestGoldmarkSafeModeDropsRawHTML(t *testing.T) {
	engine := NewGoldmarkEngine(interfaces.MarkdownOptions{SafeMode: true})
	out, err := engine.Convert("<script>alert(1)</script>\n\ntext")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Fatalf("expected raw html to be omitted, got %q", out)
	}
}

func TestResolveExtensionsIgnoresUnknown(t *testing.T) {
	if got := resolveExtensions([]string{"table", "Table", "bogus", ""}); len(got) != 1 {
		t.Fatalf("expected one extension, got %d", len(got))
	}
	if got := resolveExtensions(nil); len(got) != len(defaultGoldmarkExtensions) {
		t.Fatalf("expected default extensions, got %d", len(got))
	}
}
