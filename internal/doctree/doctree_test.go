package doctree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleDoc() *Node {
	title := New(KindTitle, NewText("Guide"))
	para := New(KindParagraph, NewText("See "), New(KindTitleReference, NewText("Foo")))
	sec := New(KindSection, title, para)
	sec.Attrs.IDs = []string{"guide"}
	doc := NewDocument("guide.md")
	doc.Append(sec)
	return doc
}

func TestClone_IsDeep(t *testing.T) {
	doc := sampleDoc()
	c := doc.Clone()

	require.Equal(t, Count(doc), Count(c))
	c.Children[0].Attrs.IDs[0] = "changed"
	c.Children[0].Children[1].Children[0].Text = "changed"

	require.Equal(t, "guide", doc.Children[0].Attrs.IDs[0])
	require.Equal(t, "See ", doc.Children[0].Children[1].Children[0].Text)
}

func TestClone_CopiesResolvedAddress(t *testing.T) {
	n := New(KindReference)
	n.Attrs.Resolved = &Address{Filename: "a.html", Anchor: "x"}
	c := n.Clone()
	c.Attrs.Resolved.Anchor = "y"
	require.Equal(t, "x", n.Attrs.Resolved.Anchor)
}

func TestFilter_SnapshotAllowsMutation(t *testing.T) {
	doc := sampleDoc()
	secs := Filter(doc, KindSection)
	require.Len(t, secs, 1)
	for _, s := range secs {
		require.True(t, doc.Remove(s))
	}
	require.Empty(t, doc.Children)
}

func TestAsText(t *testing.T) {
	doc := sampleDoc()
	require.Equal(t, "GuideSee Foo", doc.AsText())
}

func TestInsert(t *testing.T) {
	n := New(KindParagraph, NewText("b"), NewText("c"))
	n.Insert(0, NewText("a"))
	require.Equal(t, "abc", n.AsText())
}

func TestPromoteTitle(t *testing.T) {
	doc := sampleDoc()
	require.True(t, PromoteTitle(doc))
	require.Equal(t, []string{"guide"}, doc.Attrs.IDs)
	require.Equal(t, KindTitle, doc.Children[0].Kind)

	two := NewDocument("x")
	two.Append(New(KindSection, New(KindTitle)), New(KindSection, New(KindTitle)))
	require.False(t, PromoteTitle(two))
}

func TestAddressString(t *testing.T) {
	require.Equal(t, "api.html", Address{Filename: "api.html"}.String())
	require.Equal(t, "api.html#sec-1", Address{Filename: "api.html", Anchor: "sec-1"}.String())
}

func TestMakeID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Section A", "section-a"},
		{"Héllo Wörld", "hello-world"},
		{"1. Getting started", "getting-started"},
		{"  --weird__name!! ", "weird-name"},
		{"", ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, MakeID(tt.in), "input %q", tt.in)
	}
}

func TestIDSet_Unique(t *testing.T) {
	s := NewIDSet()
	require.Equal(t, "intro", s.Unique("intro"))
	require.Equal(t, "intro-1", s.Unique("intro"))
	require.Equal(t, "intro-2", s.Unique("intro"))
	require.Equal(t, "id", s.Unique(""))
	s.Reserve("usage")
	require.Equal(t, "usage-1", s.Unique("usage"))
}
