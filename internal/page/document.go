// Package page models the HTML page a session renders into. Markup stays a
// node tree until Render; fragments produced by presenters are parsed in the
// context of the element that receives them.
package page

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML page.
type Document struct {
	root *html.Node
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("page: parse: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString parses markup as a full HTML document.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// Render writes the document.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String renders the document to a string.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// ElementByID returns the element with id, or nil.
func (d *Document) ElementByID(id string) *html.Node {
	return findNode(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && Attr(n, "id") == id
	})
}

// Head returns the head element. html.Parse always synthesizes one.
func (d *Document) Head() *html.Node {
	return findNode(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Head
	})
}

// Title returns the text of the title element.
func (d *Document) Title() string {
	title := findNode(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Title
	})
	if title == nil {
		return ""
	}
	return TextContent(title)
}

// Remove detaches the element with id. It reports whether it existed.
func (d *Document) Remove(id string) bool {
	node := d.ElementByID(id)
	if node == nil || node.Parent == nil {
		return false
	}
	node.Parent.RemoveChild(node)
	return true
}

// Replace swaps the children of the element with id for fragment.
func (d *Document) Replace(id string, fragment template.HTML) error {
	target := d.ElementByID(id)
	if target == nil {
		return &RenderError{ContainerID: id}
	}
	nodes, err := html.ParseFragment(strings.NewReader(string(fragment)), target)
	if err != nil {
		return fmt.Errorf("page: parse fragment: %w", err)
	}
	for child := target.FirstChild; child != nil; {
		next := child.NextSibling
		target.RemoveChild(child)
		child = next
	}
	for _, node := range nodes {
		target.AppendChild(node)
	}
	return nil
}

// InnerHTML renders the children of the element with id.
func (d *Document) InnerHTML(id string) (string, error) {
	target := d.ElementByID(id)
	if target == nil {
		return "", &RenderError{ContainerID: id}
	}
	var buf bytes.Buffer
	for child := target.FirstChild; child != nil; child = child.NextSibling {
		if err := html.Render(&buf, child); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// Attr returns the value of attribute key on n.
func Attr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// HasAttr reports whether n carries attribute key.
func HasAttr(n *html.Node, key string) bool {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return true
		}
	}
	return false
}

// SetAttr sets or replaces attribute key on n.
func SetAttr(n *html.Node, key, value string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

// HasClass reports whether n lists class in its class attribute.
func HasClass(n *html.Node, class string) bool {
	for _, field := range strings.Fields(Attr(n, "class")) {
		if field == class {
			return true
		}
	}
	return false
}

// TextContent concatenates the text below n.
func TextContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return b.String()
}

// FindAll returns every node below n (inclusive) matching match, in
// document order.
func FindAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if match(node) {
			out = append(out, node)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return out
}

func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n == nil {
		return nil
	}
	if match(n) {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findNode(child, match); found != nil {
			return found
		}
	}
	return nil
}
