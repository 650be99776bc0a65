package seo

import (
	"encoding/json"
	"fmt"

	"github.com/bitcheongmo/sitefeed/internal/page"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// JSONLDType is the script type of structured data blocks.
const JSONLDType = "application/ld+json"

// detailProperties are only emitted for detail views. Apply removes them when
// the tags being applied do not carry them.
var detailProperties = []string{"article:published_time"}

// Apply upserts tags into the head of doc. Meta elements with empty content
// are left untouched, except detail-only properties which are removed when
// tags lacks them. Any existing structured data block is replaced so the
// document carries exactly one.
func Apply(doc *page.Document, tags Tags) error {
	if doc == nil {
		return fmt.Errorf("seo: document is nil")
	}
	head := doc.Head()
	if head == nil {
		return fmt.Errorf("seo: document has no head")
	}

	if tags.Title != "" {
		setTitle(head, tags.Title)
	}
	for _, meta := range tags.Names {
		setMeta(head, "name", meta.Key, meta.Content)
	}
	for _, meta := range tags.Properties {
		setMeta(head, "property", meta.Key, meta.Content)
	}
	for _, key := range detailProperties {
		if tags.Property(key) == "" {
			removeMeta(head, "property", key)
		}
	}
	if tags.Canonical != "" {
		setLink(head, "canonical", tags.Canonical)
	}
	return setStructuredData(doc, head, tags.JSONLD)
}

func setTitle(head *html.Node, title string) {
	node := first(head, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Title
	})
	if node == nil {
		node = element(atom.Title)
		head.AppendChild(node)
	}
	for child := node.FirstChild; child != nil; {
		next := child.NextSibling
		node.RemoveChild(child)
		child = next
	}
	node.AppendChild(&html.Node{Type: html.TextNode, Data: title})
}

func setMeta(head *html.Node, attr, key, value string) {
	if value == "" {
		return
	}
	node := first(head, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Meta && page.Attr(n, attr) == key
	})
	if node == nil {
		node = element(atom.Meta)
		page.SetAttr(node, attr, key)
		head.AppendChild(node)
	}
	page.SetAttr(node, "content", value)
}

func removeMeta(head *html.Node, attr, key string) {
	for _, node := range page.FindAll(head, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Meta && page.Attr(n, attr) == key
	}) {
		if node.Parent != nil {
			node.Parent.RemoveChild(node)
		}
	}
}

func setLink(head *html.Node, rel, href string) {
	node := first(head, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Link && page.Attr(n, "rel") == rel
	})
	if node == nil {
		node = element(atom.Link)
		page.SetAttr(node, "rel", rel)
		head.AppendChild(node)
	}
	page.SetAttr(node, "href", href)
}

func setStructuredData(doc *page.Document, head *html.Node, data map[string]any) error {
	for _, script := range StructuredData(doc) {
		if script.Parent != nil {
			script.Parent.RemoveChild(script)
		}
	}
	if data == nil {
		return nil
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("seo: encode structured data: %w", err)
	}
	script := element(atom.Script)
	page.SetAttr(script, "type", JSONLDType)
	script.AppendChild(&html.Node{Type: html.TextNode, Data: string(payload)})
	head.AppendChild(script)
	return nil
}

// StructuredData returns every JSON-LD script element in doc.
func StructuredData(doc *page.Document) []*html.Node {
	if doc == nil || doc.Head() == nil {
		return nil
	}
	root := doc.Head()
	for root.Parent != nil {
		root = root.Parent
	}
	return page.FindAll(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Script && page.Attr(n, "type") == JSONLDType
	})
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func first(root *html.Node, match func(*html.Node) bool) *html.Node {
	nodes := page.FindAll(root, match)
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}
