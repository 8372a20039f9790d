package parser

import (
	"path/filepath"
	"strings"

	"github.com/dgallion1/docsite/internal/doctree"
)

// sectionStack nests sections by heading level as they are encountered.
// The document itself sits at level 0.
type sectionStack struct {
	entries []stackEntry
	ids     *doctree.IDSet
}

type stackEntry struct {
	node  *doctree.Node
	level int
}

func newSectionStack(doc *doctree.Node, ids *doctree.IDSet) *sectionStack {
	if ids == nil {
		ids = doctree.NewIDSet()
	}
	return &sectionStack{
		entries: []stackEntry{{node: doc, level: 0}},
		ids:     ids,
	}
}

// open starts a new section at level titled by title. A non-empty id is
// taken as already unique; otherwise one is derived from the title text.
func (s *sectionStack) open(level int, id string, title *doctree.Node) *doctree.Node {
	for len(s.entries) > 1 && s.entries[len(s.entries)-1].level >= level {
		s.entries = s.entries[:len(s.entries)-1]
	}
	if id == "" {
		id = s.ids.Unique(doctree.MakeID(title.AsText()))
	} else {
		s.ids.Reserve(id)
	}
	sec := doctree.New(doctree.KindSection, title)
	sec.Attrs.IDs = []string{id}
	sec.Attrs.Names = []string{strings.ToLower(strings.TrimSpace(title.AsText()))}

	parent := s.top()
	parent.Append(sec)
	s.entries = append(s.entries, stackEntry{node: sec, level: level})
	return sec
}

// top returns the innermost open section, or the document.
func (s *sectionStack) top() *doctree.Node {
	return s.entries[len(s.entries)-1].node
}

// add appends block-level content to the innermost open section.
func (s *sectionStack) add(n ...*doctree.Node) {
	s.top().Append(n...)
}

func titleNode(text string) *doctree.Node {
	return doctree.New(doctree.KindTitle, doctree.NewText(text))
}

func paragraph(text string) *doctree.Node {
	return doctree.New(doctree.KindParagraph, doctree.NewText(text))
}

// baseName strips the directory and any of exts from filename.
func baseName(filename string, exts ...string) string {
	name := filepath.Base(filename)
	for _, ext := range exts {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}
