// Package xref resolves pending references across a page forest.
//
// Resolution is two-phase: Collect registers every structural id of the
// whole forest, and only then does Resolve rewrite references. Running the
// phases interleaved per page would make the outcome depend on whether a
// reference is visited before or after its target.
package xref

import (
	"github.com/dgallion1/docsite/internal/doctree"
	"github.com/dgallion1/docsite/internal/page"
)

// Map maps structural ids to the address they were laid out at.
type Map map[string]doctree.Address

// Dangling is a reference whose target id appears nowhere in the forest.
type Dangling struct {
	Page  string
	RefID string
}

// Collect builds the id map for the forest rooted at root.
func Collect(root *page.Page) Map {
	m := make(Map)
	m.collect(root)
	return m
}

func (m Map) collect(p *page.Page) {
	for _, id := range p.IDs {
		m[id] = doctree.Address{Filename: p.Filename}
	}
	doctree.Walk(p.Doc, func(n *doctree.Node) bool {
		for _, id := range n.Attrs.IDs {
			m[id] = doctree.Address{Filename: p.Filename, Anchor: id}
		}
		return true
	})
	for _, c := range p.Children {
		m.collect(c)
	}
}

// Resolve attaches an address to every pending reference in the forest
// whose target is in m. Unknown targets are left untouched and returned.
func Resolve(root *page.Page, m Map) []Dangling {
	var dangling []Dangling
	root.Walk(func(p *page.Page) {
		doctree.Walk(p.Doc, func(n *doctree.Node) bool {
			if n.Attrs.RefID == "" {
				return true
			}
			if addr, ok := m[n.Attrs.RefID]; ok {
				a := addr
				n.Attrs.Resolved = &a
			} else {
				dangling = append(dangling, Dangling{Page: p.Filename, RefID: n.Attrs.RefID})
			}
			return true
		})
	})
	return dangling
}

// Link runs Collect over the entire forest and then Resolve.
func Link(root *page.Page) (Map, []Dangling) {
	m := Collect(root)
	return m, Resolve(root, m)
}
