package markdown

import (
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strconv"
	"strings"
)

var (
	fencePattern      = regexp.MustCompile("(?s)```(.*?)```")
	inlineCodePattern = regexp.MustCompile("`([^`]+)`")
	boldPattern       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	linkPattern       = regexp.MustCompile(`\[([^\]]+)\]\(((?:[^()]|\([^()]*\))+)\)`)
	paragraphBreak    = regexp.MustCompile(`\n\n+`)
	placeholderMarker = regexp.MustCompile(`\x00code(\d+)\x00`)
	inlineMarker      = regexp.MustCompile(`\x00inline(\d+)\x00`)
)

// linkSchemes lists the schemes a rendered link may carry. Links without a
// scheme are relative and always allowed.
var linkSchemes = map[string]bool{"http": true, "https": true, "mailto": true}

// Escape replaces the characters significant to HTML with entities.
func Escape(text string) string {
	return html.EscapeString(text)
}

// Render converts restricted markdown into HTML. The function is pure: the
// same input always yields the same output. Text outside recognised
// constructs is escaped.
func Render(source string) template.HTML {
	if source == "" {
		return ""
	}
	text := strings.ReplaceAll(source, "\r\n", "\n")

	var blocks []string
	text = fencePattern.ReplaceAllStringFunc(text, func(match string) string {
		code := fencePattern.FindStringSubmatch(match)[1]
		blocks = append(blocks, Escape(strings.TrimSpace(code)))
		return placeholder("code", len(blocks)-1)
	})
	var spans []string
	text = inlineCodePattern.ReplaceAllStringFunc(text, func(match string) string {
		spans = append(spans, Escape(inlineCodePattern.FindStringSubmatch(match)[1]))
		return placeholder("inline", len(spans)-1)
	})

	text = Escape(text)
	text = renderLines(text)
	text = boldPattern.ReplaceAllString(text, "<strong>$1</strong>")
	text = renderItalic(text)
	text = linkPattern.ReplaceAllStringFunc(text, renderLink)
	text = strings.ReplaceAll(text, "  \n", "<br>")
	text = renderParagraphs(text)

	text = restore(text, inlineMarker, spans, "<code>", "</code>")
	text = restore(text, placeholderMarker, blocks, "<pre><code>", "</code></pre>")

	return template.HTML(text)
}

func placeholder(kind string, index int) string {
	return fmt.Sprintf("\x00%s%d\x00", kind, index)
}

func restore(text string, marker *regexp.Regexp, values []string, openTag, closeTag string) string {
	return marker.ReplaceAllStringFunc(text, func(match string) string {
		index, err := strconv.Atoi(marker.FindStringSubmatch(match)[1])
		if err != nil || index >= len(values) {
			return ""
		}
		return openTag + values[index] + closeTag
	})
}

// renderLines turns heading and bullet lines into block elements. A blank
// line or any other line closes an open list.
func renderLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines)+2)
	inList := false
	closeList := func() {
		if inList {
			out = append(out, "</ul>")
			inList = false
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			closeList()
			out = append(out, "")
		case strings.HasPrefix(trimmed, "### "):
			closeList()
			out = append(out, "<h3>"+trimmed[4:]+"</h3>")
		case strings.HasPrefix(trimmed, "## "):
			closeList()
			out = append(out, "<h2>"+trimmed[3:]+"</h2>")
		case strings.HasPrefix(trimmed, "# "):
			closeList()
			out = append(out, "<h1>"+trimmed[2:]+"</h1>")
		case strings.HasPrefix(trimmed, "- "):
			if !inList {
				out = append(out, "<ul>")
				inList = true
			}
			out = append(out, "<li>"+trimmed[2:]+"</li>")
		default:
			closeList()
			out = append(out, line)
		}
	}
	closeList()
	return strings.Join(out, "\n")
}

// renderItalic wraps *text* in <em> when neither asterisk touches another
// asterisk. Bold spans must already be replaced.
func renderItalic(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		if text[i] == '*' && (i == 0 || text[i-1] != '*') {
			if end := strings.IndexByte(text[i+1:], '*'); end > 0 {
				j := i + 1 + end
				if j+1 >= len(text) || text[j+1] != '*' {
					b.WriteString("<em>")
					b.WriteString(text[i+1 : j])
					b.WriteString("</em>")
					i = j + 1
					continue
				}
			}
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String()
}

func renderLink(match string) string {
	parts := linkPattern.FindStringSubmatch(match)
	label, href := parts[1], strings.TrimSpace(parts[2])
	if !SafeLinkURL(href) {
		return label
	}
	if IsExternalURL(href) {
		return `<a href="` + href + `" target="_blank" rel="noopener noreferrer">` + label + `</a>`
	}
	return `<a href="` + href + `">` + label + `</a>`
}

// SafeLinkURL reports whether href may be emitted as a link target: a
// relative URL or one whose scheme is http, https or mailto.
func SafeLinkURL(href string) bool {
	end := strings.IndexAny(href, "/?#")
	if end < 0 {
		end = len(href)
	}
	colon := strings.IndexByte(href[:end], ':')
	if colon < 0 {
		return true
	}
	return linkSchemes[strings.ToLower(href[:colon])]
}

// IsExternalURL reports whether href is absolute (http, https or
// protocol-relative).
func IsExternalURL(href string) bool {
	return strings.HasPrefix(href, "http://") ||
		strings.HasPrefix(href, "https://") ||
		strings.HasPrefix(href, "//")
}

func renderParagraphs(text string) string {
	var b strings.Builder
	for _, para := range paragraphBreak.Split(text, -1) {
		para = strings.TrimSpace(para)
		switch {
		case para == "":
		case strings.HasPrefix(para, "<"), placeholderMarker.FindString(para) == para:
			b.WriteString(para)
		default:
			b.WriteString("<p>")
			b.WriteString(para)
			b.WriteString("</p>")
		}
	}
	return b.String()
}
