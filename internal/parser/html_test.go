package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/docsite/internal/doctree"
)

func TestHTMLParser_Sections(t *testing.T) {
	input := `<html><head><title>Guide</title><style>p{}</style></head><body>
<h1 id="guide">Guide</h1>
<p>Intro <a href="#setup">setup</a> and <cite>pkg.Run</cite>.</p>
<h2>Setup</h2>
<pre><code class="language-sh">make install</code></pre>
<ul><li>one</li><li>two <code>x</code></li></ul>
<script>var x = 1;</script>
</body></html>`

	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "guide.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.Attrs.IDs) != 1 || doc.Attrs.IDs[0] != "guide" {
		t.Errorf("expected promoted id guide, got %v", doc.Attrs.IDs)
	}
	if got := doc.FirstChild(doctree.KindTitle).AsText(); got != "Guide" {
		t.Errorf("expected title %q, got %q", "Guide", got)
	}

	refs := doctree.Filter(doc, doctree.KindReference)
	if len(refs) != 1 || refs[0].Attrs.RefID != "setup" {
		t.Fatalf("expected one pending reference to setup, got %d", len(refs))
	}
	cites := doctree.Filter(doc, doctree.KindTitleReference)
	if len(cites) != 1 || cites[0].AsText() != "pkg.Run" {
		t.Errorf("expected title reference pkg.Run, got %d", len(cites))
	}

	secs := sectionsOf(doc)
	if len(secs) != 1 || secs[0].Attrs.IDs[0] != "setup" {
		t.Fatalf("expected one section with id setup, got %d", len(secs))
	}
	blocks := doctree.Filter(secs[0], doctree.KindLiteralBlock)
	if len(blocks) != 1 || blocks[0].Text != "make install" || blocks[0].Attrs.Language != "sh" {
		t.Errorf("unexpected literal blocks %+v", blocks)
	}
	lists := doctree.Filter(secs[0], doctree.KindBulletList)
	if len(lists) != 1 || len(lists[0].Children) != 2 {
		t.Errorf("expected one bullet list with two items")
	}
	if strings.Contains(doc.AsText(), "var x") {
		t.Error("script content should be dropped")
	}
}

func TestHTMLParser_TitleWithoutHeadings(t *testing.T) {
	input := `<html><head><title>Notes</title></head><body><p>Hello <em>there</em></p></body></html>`

	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "notes.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Children) != 2 {
		t.Fatalf("expected title and paragraph, got %d children", len(doc.Children))
	}
	if doc.Children[0].Kind != doctree.KindTitle || doc.Children[0].AsText() != "Notes" {
		t.Errorf("expected title Notes first, got %s %q", doc.Children[0].Kind, doc.Children[0].AsText())
	}
	if got := doc.Children[1].AsText(); got != "Hello there" {
		t.Errorf("expected paragraph text %q, got %q", "Hello there", got)
	}
}
