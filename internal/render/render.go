// Package render serializes page documents to HTML.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/docsite/internal/doctree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Renderer writes a finished page document.
type Renderer interface {
	Render(w io.Writer, doc *doctree.Node, title string) error
}

// HTML renders documents as standalone HTML5 pages.
type HTML struct {
	Stylesheet string // linked, not embedded; empty omits the link
}

// DefaultStylesheet is linked from every page unless overridden.
const DefaultStylesheet = "doc.css"

// Bytes is a convenience wrapper around Render.
func (r HTML) Bytes(doc *doctree.Node, title string) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, doc, title); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r HTML) Render(w io.Writer, doc *doctree.Node, title string) error {
	if doc == nil || doc.Kind != doctree.KindDocument {
		return fmt.Errorf("render: expected document node")
	}

	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	htmlEl := element(atom.Html)
	root.AppendChild(htmlEl)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, attr("charset", "utf-8")))
	titleEl := element(atom.Title)
	titleEl.AppendChild(text(title))
	head.AppendChild(titleEl)
	if r.Stylesheet != "" {
		head.AppendChild(element(atom.Link, attr("rel", "stylesheet"), attr("href", r.Stylesheet)))
	}
	htmlEl.AppendChild(head)

	body := element(atom.Body)
	htmlEl.AppendChild(body)

	docEl := element(atom.Div, attr("class", "document"))
	identify(docEl, doc)
	body.AppendChild(docEl)
	renderChildren(docEl, doc, 1)

	if err := html.Render(w, root); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// renderChildren renders the children of n into parent. level is the heading
// level used for titles at this nesting depth.
func renderChildren(parent *html.Node, n *doctree.Node, level int) {
	for _, c := range n.Children {
		if c.Kind == doctree.KindRaw {
			// Raw markup cannot carry attributes; anchor its ids just before it.
			for _, id := range c.Attrs.IDs {
				parent.AppendChild(element(atom.Span, attr("id", id)))
			}
		}
		if el := renderNode(c, level); el != nil {
			parent.AppendChild(el)
		}
	}
}

func renderNode(n *doctree.Node, level int) *html.Node {
	var el *html.Node
	switch n.Kind {
	case doctree.KindText:
		return text(n.Text)
	case doctree.KindRaw:
		if n.Attrs.Format != "" && n.Attrs.Format != "html" {
			return nil
		}
		return &html.Node{Type: html.RawNode, Data: n.Text}
	case doctree.KindSection:
		el = element(atom.Div, attr("class", classes(n, "section")))
		identify(el, n)
		renderChildren(el, n, level+1)
		return el
	case doctree.KindTitle:
		el = element(heading(level))
		if level == 1 {
			el.Attr = append(el.Attr, attr("class", classes(n, "title")))
		}
	case doctree.KindParagraph:
		el = element(atom.P)
	case doctree.KindEmphasis:
		el = element(atom.Em)
	case doctree.KindStrong:
		el = element(atom.Strong)
	case doctree.KindLiteral:
		el = element(atom.Code, attr("class", classes(n, "literal")))
		el.AppendChild(text(n.Text))
	case doctree.KindTitleReference:
		el = element(atom.Code, attr("class", classes(n, "title-reference")))
	case doctree.KindReference:
		el = element(atom.A, attr("class", classes(n, referenceClass(n))), attr("href", href(n)))
	case doctree.KindImage:
		el = element(atom.Img, attr("src", n.Attrs.URI), attr("alt", n.Attrs.Alt))
	case doctree.KindLiteralBlock:
		el = element(atom.Pre, attr("class", classes(n, "literal-block")))
		el.AppendChild(text(n.Text))
	case doctree.KindContainer:
		el = element(atom.Div, attr("class", classes(n, "container")))
	case doctree.KindInline:
		el = element(atom.Span)
		if len(n.Attrs.Classes) > 0 {
			el.Attr = append(el.Attr, attr("class", classes(n, "")))
		}
	case doctree.KindBulletList:
		el = element(atom.Ul)
	case doctree.KindEnumeratedList:
		el = element(atom.Ol)
	case doctree.KindListItem:
		el = element(atom.Li)
	case doctree.KindBlockQuote:
		el = element(atom.Blockquote)
	default:
		el = element(atom.Div)
	}
	if n.Kind != doctree.KindSection {
		identify(el, n)
	}
	renderChildren(el, n, level)
	return el
}

// identify puts the first structural id on el and the rest on empty anchor
// spans. Void elements only carry the first id.
func identify(el *html.Node, n *doctree.Node) {
	ids := n.Attrs.IDs
	if len(ids) == 0 {
		return
	}
	el.Attr = append(el.Attr, attr("id", ids[0]))
	if el.DataAtom == atom.Img {
		return
	}
	for _, id := range ids[1:] {
		el.AppendChild(element(atom.Span, attr("id", id)))
	}
}

func href(n *doctree.Node) string {
	switch {
	case n.Attrs.RefURI != "":
		return n.Attrs.RefURI
	case n.Attrs.Resolved != nil:
		return n.Attrs.Resolved.String()
	case n.Attrs.RefID != "":
		return "#" + n.Attrs.RefID
	}
	return ""
}

func referenceClass(n *doctree.Node) string {
	if n.Attrs.RefURI != "" && strings.Contains(n.Attrs.RefURI, "://") {
		return "reference external"
	}
	return "reference internal"
}

func classes(n *doctree.Node, base string) string {
	all := make([]string, 0, len(n.Attrs.Classes)+1)
	if base != "" {
		all = append(all, base)
	}
	all = append(all, n.Attrs.Classes...)
	return strings.Join(all, " ")
}

func heading(level int) atom.Atom {
	if level > 6 {
		level = 6
	}
	return atom.Lookup([]byte("h" + strconv.Itoa(level)))
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
