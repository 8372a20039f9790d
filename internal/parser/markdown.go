package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/docsite/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark.
//
// Headings open sections nested by level, code spans become title
// references (candidate symbol mentions), and links to "#id" become pending
// references resolved once the page forest is laid out.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Node, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	ids := &headingIDs{set: doctree.NewIDSet()}
	md := goldmark.New(goldmark.WithParserOptions(
		gmparser.WithAutoHeadingID(),
		gmparser.WithAttribute(),
	))
	ctx := gmparser.NewContext(gmparser.WithIDs(ids))
	root := md.Parser().Parse(text.NewReader(src), gmparser.WithContext(ctx))

	doc := doctree.NewDocument(filename)
	c := &mdConverter{src: src}
	sections := newSectionStack(doc, ids.set)

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			title := doctree.New(doctree.KindTitle, c.inlines(h)...)
			sections.open(h.Level, headingID(h), title)
			continue
		}
		if b := c.block(n); b != nil {
			sections.add(b)
		}
	}

	doctree.PromoteTitle(doc)
	return doc, nil
}

// headingIDs routes goldmark's heading id generation through
// doctree.MakeID so every input format produces ids the same way.
type headingIDs struct {
	set *doctree.IDSet
}

func (h *headingIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	id := doctree.MakeID(string(value))
	if id == "" && kind == ast.KindHeading {
		id = "heading"
	}
	return []byte(h.set.Unique(id))
}

func (h *headingIDs) Put(value []byte) {
	h.set.Reserve(string(value))
}

func headingID(h *ast.Heading) string {
	v, ok := h.AttributeString("id")
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case []byte:
		return string(id)
	case string:
		return id
	}
	return ""
}

type mdConverter struct {
	src []byte
}

func (c *mdConverter) block(n ast.Node) *doctree.Node {
	switch node := n.(type) {
	case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
		return doctree.New(doctree.KindParagraph, c.inlines(node)...)
	case *ast.FencedCodeBlock:
		lb := &doctree.Node{Kind: doctree.KindLiteralBlock, Text: c.lines(node)}
		lb.Attrs.Language = string(node.Language(c.src))
		return lb
	case *ast.CodeBlock:
		return &doctree.Node{Kind: doctree.KindLiteralBlock, Text: c.lines(node)}
	case *ast.List:
		kind := doctree.KindBulletList
		if node.IsOrdered() {
			kind = doctree.KindEnumeratedList
		}
		list := doctree.New(kind)
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			list.Append(c.container(doctree.KindListItem, item))
		}
		return list
	case *ast.Blockquote:
		return c.container(doctree.KindBlockQuote, node)
	case *ast.HTMLBlock:
		raw := c.lines(node)
		if node.HasClosure() {
			raw += string(node.ClosureLine.Value(c.src))
		}
		return &doctree.Node{Kind: doctree.KindRaw, Text: raw, Attrs: doctree.Attributes{Format: "html"}}
	}
	return nil
}

func (c *mdConverter) container(kind doctree.Kind, n ast.Node) *doctree.Node {
	out := doctree.New(kind)
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if b := c.block(child); b != nil {
			out.Append(b)
		}
	}
	return out
}

func (c *mdConverter) lines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(c.src))
	}
	return buf.String()
}

func (c *mdConverter) inlines(n ast.Node) []*doctree.Node {
	var out []*doctree.Node
	appendText := func(s string) {
		if s == "" {
			return
		}
		if len(out) > 0 && out[len(out)-1].Kind == doctree.KindText {
			out[len(out)-1].Text += s
			return
		}
		out = append(out, doctree.NewText(s))
	}

	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *ast.Text:
			s := string(node.Segment.Value(c.src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				s += "\n"
			}
			appendText(s)
		case *ast.String:
			appendText(string(node.Value))
		case *ast.CodeSpan:
			out = append(out, doctree.New(doctree.KindTitleReference, doctree.NewText(c.plain(node))))
		case *ast.Emphasis:
			kind := doctree.KindEmphasis
			if node.Level >= 2 {
				kind = doctree.KindStrong
			}
			out = append(out, doctree.New(kind, c.inlines(node)...))
		case *ast.Link:
			ref := doctree.New(doctree.KindReference, c.inlines(node)...)
			dest := string(node.Destination)
			if strings.HasPrefix(dest, "#") && len(dest) > 1 {
				ref.Attrs.RefID = dest[1:]
			} else {
				ref.Attrs.RefURI = dest
			}
			out = append(out, ref)
		case *ast.AutoLink:
			ref := doctree.New(doctree.KindReference, doctree.NewText(string(node.Label(c.src))))
			ref.Attrs.RefURI = string(node.URL(c.src))
			out = append(out, ref)
		case *ast.Image:
			img := doctree.New(doctree.KindImage)
			img.Attrs.URI = string(node.Destination)
			img.Attrs.Alt = c.plain(node)
			out = append(out, img)
		case *ast.RawHTML:
			var buf bytes.Buffer
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				buf.Write(seg.Value(c.src))
			}
			out = append(out, &doctree.Node{Kind: doctree.KindRaw, Text: buf.String(), Attrs: doctree.Attributes{Format: "html"}})
		default:
			out = append(out, c.inlines(node)...)
		}
	}
	return out
}

// plain returns the text content of an inline subtree without markup.
func (c *mdConverter) plain(n ast.Node) string {
	var buf bytes.Buffer
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(c.src))
		case *ast.String:
			buf.Write(node.Value)
		default:
			buf.WriteString(c.plain(node))
		}
	}
	return buf.String()
}
