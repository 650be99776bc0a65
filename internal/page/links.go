package page

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NewWindowSuffix is appended to the accessible name of links opening a new
// window.
const NewWindowSuffix = "(새 창에서 열림)"

// IsExternalLink reports whether href resolves to a different origin than
// pageURL. Unparseable hrefs are treated as internal.
func IsExternalLink(href string, pageURL *url.URL) bool {
	href = strings.TrimSpace(href)
	if href == "" || pageURL == nil {
		return false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return false
	}
	resolved := pageURL.ResolveReference(ref)
	return !strings.EqualFold(resolved.Scheme, pageURL.Scheme) || !strings.EqualFold(resolved.Host, pageURL.Host)
}

// EnhanceExternalLinks marks external links below root to open in a new
// window. Links that already declare a target are left untouched. It returns
// the number of links changed.
func EnhanceExternalLinks(root *html.Node, pageURL *url.URL) int {
	if root == nil {
		return 0
	}
	links := FindAll(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.A && HasAttr(n, "href")
	})
	changed := 0
	for _, link := range links {
		href := Attr(link, "href")
		if href == "" || HasAttr(link, "target") || !IsExternalLink(href, pageURL) {
			continue
		}
		SetAttr(link, "target", "_blank")
		SetAttr(link, "rel", "noopener noreferrer")
		if Attr(link, "aria-label") == "" {
			SetAttr(link, "aria-label", strings.TrimSpace(TextContent(link))+" "+NewWindowSuffix)
		}
		changed++
	}
	return changed
}

// EnhanceByClass applies EnhanceExternalLinks to every element with class.
func (d *Document) EnhanceByClass(class string, pageURL *url.URL) int {
	total := 0
	for _, node := range FindAll(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && HasClass(n, class)
	}) {
		total += EnhanceExternalLinks(node, pageURL)
	}
	return total
}
