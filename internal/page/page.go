// Package page splits a document tree into a forest of output pages.
package page

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docsite/internal/doctree"
)

// Page is one output file. It owns its document and its children; Parent is
// a lookup link only.
type Page struct {
	Doc      *doctree.Node
	Filename string
	Title    string
	IDs      []string
	Parent   *Page
	Children []*Page
}

func newPage(doc *doctree.Node, filename string, parent *Page, ids []string) *Page {
	p := &Page{
		Doc:      doc,
		Filename: filename,
		Parent:   parent,
		IDs:      ids,
	}
	if title := doc.FirstChild(doctree.KindTitle); title != nil {
		p.Title = title.AsText()
	}
	if p.Title == "" {
		p.Title = filename
	}
	return p
}

// RootFilename derives the root page filename from the input path.
func RootFilename(inputPath string) string {
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".html"
}

// Build wraps doc in a root page named rootFilename and splits it depth
// levels deep. doc is mutated: split sections are detached from it.
func Build(doc *doctree.Node, rootFilename string, depth int) *Page {
	root := newPage(doc, rootFilename, nil, nil)
	names := newNamer(rootFilename)
	root.split(depth, names)
	return root
}

// split moves every direct section child of p.Doc into a page of its own.
func (p *Page) split(depth int, names *namer) {
	if depth <= 0 {
		return
	}
	sections := make([]*doctree.Node, 0, len(p.Doc.Children))
	for _, c := range p.Doc.Children {
		if c.Kind == doctree.KindSection {
			sections = append(sections, c)
		}
	}

	for _, section := range sections {
		p.Doc.Remove(section)

		filename := names.forIDs(section.Attrs.IDs)
		doc := doctree.NewDocument(filename)
		doc.Attrs.Source = p.Doc.Attrs.Source
		for _, child := range section.Children {
			doc.Append(child.Clone())
		}

		child := newPage(doc, filename, p, section.Attrs.IDs)
		p.Children = append(p.Children, child)
		child.split(depth-1, names)
	}
}

// Preorder returns p followed by all descendants depth-first, children in
// order. This is the global navigation order.
func (p *Page) Preorder() []*Page {
	var out []*Page
	p.Walk(func(pg *Page) {
		out = append(out, pg)
	})
	return out
}

// Walk calls fn for p and every descendant in preorder.
func (p *Page) Walk(fn func(*Page)) {
	fn(p)
	for _, c := range p.Children {
		c.Walk(fn)
	}
}

// Ancestors returns the parent chain root-first, excluding p itself.
func (p *Page) Ancestors() []*Page {
	var chain []*Page
	for a := p.Parent; a != nil; a = a.Parent {
		chain = append(chain, a)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Reference returns a link node pointing at p, labelled with its title.
func (p *Page) Reference() *doctree.Node {
	ref := doctree.New(doctree.KindReference, doctree.NewText(p.Title))
	ref.Attrs.RefURI = p.Filename
	ref.Attrs.Names = []string{p.Title}
	return ref
}

func (p *Page) String() string {
	return fmt.Sprintf("%s (%q)", p.Filename, p.Title)
}
