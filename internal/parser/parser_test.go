package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/docsite/internal/doctree"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"a.md", "*parser.MarkdownParser"},
		{"a.MARKDOWN", "*parser.MarkdownParser"},
		{"a.txt", "*parser.TextParser"},
		{"a.csv", "*parser.CSVParser"},
		{"a.htm", "*parser.HTMLParser"},
		{"a.pdf", "*parser.PDFParser"},
		{"a.docx", "*parser.DOCXParser"},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.filename)
		if err != nil {
			t.Errorf("ForFile(%q): unexpected error: %v", tt.filename, err)
			continue
		}
		if got := typeName(p); got != tt.want {
			t.Errorf("ForFile(%q) = %s, want %s", tt.filename, got, tt.want)
		}
	}

	if _, err := ForFile("image.png"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
	if IsSupportedExtension("x.rst") {
		t.Error("rst should not be supported")
	}
}

func typeName(p Parser) string {
	switch p.(type) {
	case *MarkdownParser:
		return "*parser.MarkdownParser"
	case *TextParser:
		return "*parser.TextParser"
	case *CSVParser:
		return "*parser.CSVParser"
	case *HTMLParser:
		return "*parser.HTMLParser"
	case *PDFParser:
		return "*parser.PDFParser"
	case *DOCXParser:
		return "*parser.DOCXParser"
	}
	return "unknown"
}

func TestCSVParser_RowSections(t *testing.T) {
	input := "name,age\nalice,30\nbob,25\n"
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader(input), "data/people.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := doc.FirstChild(doctree.KindTitle).AsText(); got != "people" {
		t.Errorf("expected title %q, got %q", "people", got)
	}
	secs := sectionsOf(doc)
	if len(secs) != 1 {
		t.Fatalf("expected 1 section, got %d", len(secs))
	}
	if secs[0].Attrs.IDs[0] != "rows-2-3" {
		t.Errorf("expected id rows-2-3, got %q", secs[0].Attrs.IDs[0])
	}
	paras := doctree.Filter(secs[0], doctree.KindParagraph)
	if len(paras) != 2 || paras[0].AsText() != "name: alice, age: 30" {
		t.Errorf("unexpected rows %d", len(paras))
	}
}
