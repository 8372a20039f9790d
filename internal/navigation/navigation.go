// Package navigation injects previous/next links and breadcrumbs into pages.
package navigation

import (
	"github.com/dgallion1/docsite/internal/doctree"
	"github.com/dgallion1/docsite/internal/page"
)

// Separator is placed between breadcrumb entries.
const Separator = " » "

// Weave walks the forest in global preorder and prepends a navigation block
// to each page. Previous and next follow that single order, so a page's next
// page may be its own first child.
func Weave(root *page.Page) {
	pages := root.Preorder()
	for i, p := range pages {
		var prev, next *page.Page
		if i > 0 {
			prev = pages[i-1]
		}
		if i+1 < len(pages) {
			next = pages[i+1]
		}
		p.Doc.Insert(0, Block(p, prev, next))
	}
}

// Block builds the navigation container for p.
func Block(p, prev, next *page.Page) *doctree.Node {
	para := doctree.New(doctree.KindParagraph)

	if prev != nil {
		para.Append(linkInline("previous", "Previous: ", prev))
	}
	if next != nil {
		para.Append(linkInline("next", "Next: ", next))
	}
	if crumbs := Breadcrumbs(p); crumbs != nil {
		para.Append(crumbs)
	}

	return doctree.New(doctree.KindContainer, para).AddClass("navigation")
}

func linkInline(class, label string, target *page.Page) *doctree.Node {
	return doctree.New(doctree.KindInline, doctree.NewText(label), target.Reference()).AddClass(class)
}

// Breadcrumbs returns the ancestor trail of p, root first, ending in p's own
// title as plain text. The root page has no trail and gets nil.
func Breadcrumbs(p *page.Page) *doctree.Node {
	ancestors := p.Ancestors()
	if len(ancestors) == 0 {
		return nil
	}
	inline := doctree.New(doctree.KindInline).AddClass("breadcrumbs")
	for _, a := range ancestors {
		inline.Append(a.Reference(), doctree.NewText(Separator))
	}
	return inline.Append(doctree.NewText(p.Title))
}
