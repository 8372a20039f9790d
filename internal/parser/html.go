package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docsite/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.Node, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := doctree.NewDocument(filename)
	sections := newSectionStack(doc, nil)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			level := headingLevel(n.Data)
			if level > 0 {
				title := doctree.New(doctree.KindTitle, htmlInlines(n)...)
				sections.open(level, attrValue(n, "id"), title)
				return // Don't recurse into heading children (already converted).
			}

			// Skip non-content elements.
			switch n.Data {
			case "script", "style", "nav", "footer", "header", "head":
				return
			}
			if b := htmlBlock(n); b != nil {
				sections.add(b)
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	// Find <body> or use whole document.
	if body := findBody(root); body != nil {
		walk(body)
	} else {
		walk(root)
	}

	// A page without headings still gets its <title> as document title.
	if len(doctree.Filter(doc, doctree.KindSection)) == 0 {
		if title := findTitle(root); title != "" {
			doc.Insert(0, titleNode(title))
		}
	}
	doctree.PromoteTitle(doc)
	return doc, nil
}

// htmlBlock converts a block-level element, or returns nil when n is not
// one the parser understands.
func htmlBlock(n *html.Node) *doctree.Node {
	var out *doctree.Node
	switch n.Data {
	case "p", "td", "dd", "dt":
		out = doctree.New(doctree.KindParagraph, htmlInlines(n)...)
		if len(out.Children) == 0 {
			return nil
		}
	case "pre":
		out = &doctree.Node{Kind: doctree.KindLiteralBlock, Text: rawText(n)}
		if code := firstElement(n, "code"); code != nil {
			out.Attrs.Language = strings.TrimPrefix(attrValue(code, "class"), "language-")
		}
	case "img":
		out = htmlImage(n)
	case "ul", "ol":
		kind := doctree.KindBulletList
		if n.Data == "ol" {
			kind = doctree.KindEnumeratedList
		}
		out = doctree.New(kind)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == "li" {
				out.Append(htmlListItem(c))
			}
		}
	case "blockquote":
		out = doctree.New(doctree.KindBlockQuote, doctree.New(doctree.KindParagraph, htmlInlines(n)...))
	default:
		return nil
	}
	if id := attrValue(n, "id"); id != "" {
		out.Attrs.IDs = []string{id}
	}
	return out
}

func htmlListItem(li *html.Node) *doctree.Node {
	item := doctree.New(doctree.KindListItem)
	if id := attrValue(li, "id"); id != "" {
		item.Attrs.IDs = []string{id}
	}
	var inline []*doctree.Node
	flush := func() {
		if len(inline) > 0 {
			item.Append(doctree.New(doctree.KindParagraph, inline...))
			inline = nil
		}
	}
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			if b := htmlBlock(c); b != nil {
				flush()
				item.Append(b)
				continue
			}
		}
		inline = append(inline, htmlInline(c)...)
	}
	flush()
	return item
}

func htmlInlines(n *html.Node) []*doctree.Node {
	var out []*doctree.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, htmlInline(c)...)
	}
	return out
}

func htmlInline(n *html.Node) []*doctree.Node {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" && !strings.Contains(n.Data, " ") {
			return nil
		}
		return []*doctree.Node{doctree.NewText(n.Data)}
	case html.ElementNode:
	default:
		return nil
	}

	var out *doctree.Node
	switch n.Data {
	case "a":
		out = doctree.New(doctree.KindReference, htmlInlines(n)...)
		href := attrValue(n, "href")
		if strings.HasPrefix(href, "#") && len(href) > 1 {
			out.Attrs.RefID = href[1:]
		} else {
			out.Attrs.RefURI = href
		}
	case "img":
		out = htmlImage(n)
	case "cite":
		out = doctree.New(doctree.KindTitleReference, doctree.NewText(textContent(n)))
	case "code", "tt", "kbd", "samp":
		out = &doctree.Node{Kind: doctree.KindLiteral, Text: textContent(n)}
	case "em", "i":
		out = doctree.New(doctree.KindEmphasis, htmlInlines(n)...)
	case "strong", "b":
		out = doctree.New(doctree.KindStrong, htmlInlines(n)...)
	case "br":
		return []*doctree.Node{doctree.NewText("\n")}
	case "script", "style":
		return nil
	default:
		return htmlInlines(n)
	}
	if id := attrValue(n, "id"); id != "" {
		out.Attrs.IDs = []string{id}
	}
	return []*doctree.Node{out}
}

func htmlImage(n *html.Node) *doctree.Node {
	img := doctree.New(doctree.KindImage)
	img.Attrs.URI = attrValue(n, "src")
	img.Attrs.Alt = attrValue(n, "alt")
	return img
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func firstElement(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
	}
	return nil
}

// rawText returns the text under n with whitespace preserved.
func rawText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func textContent(n *html.Node) string {
	return strings.TrimSpace(rawText(n))
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
