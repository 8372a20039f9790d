package symbols

import (
	"path"

	"github.com/dgallion1/docsite/internal/doctree"
)

// Linker turns title references naming known symbols into hyperlinks.
type Linker struct {
	index  *Index
	prefix string
}

// NewLinker returns a linker over index. prefix is joined in front of every
// index url, e.g. the apidoc directory relative to the output directory.
func NewLinker(index *Index, prefix string) *Linker {
	return &Linker{index: index, prefix: prefix}
}

// LinkPage links the first mention of each symbol url in doc. Later
// mentions of the same url, and unknown names, stay plain. It returns the
// number of links made.
func (l *Linker) LinkPage(doc *doctree.Node) int {
	linked := make(map[string]bool)
	count := 0
	for _, n := range doctree.Filter(doc, doctree.KindTitleReference) {
		url, ok := l.index.Lookup(n.AsText())
		if !ok {
			continue
		}
		if l.prefix != "" {
			url = path.Join(l.prefix, url)
		}
		if linked[url] {
			continue
		}
		linked[url] = true

		n.Kind = doctree.KindReference
		n.Attrs.RefURI = url
		n.AddClass("symbol")
		count++
	}
	return count
}
