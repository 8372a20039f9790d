package page

import (
	"testing"

	"github.com/dgallion1/docsite/internal/doctree"
	"github.com/stretchr/testify/require"
)

func section(id, title string, children ...*doctree.Node) *doctree.Node {
	s := doctree.New(doctree.KindSection, doctree.New(doctree.KindTitle, doctree.NewText(title)))
	if id != "" {
		s.Attrs.IDs = []string{id}
	}
	return s.Append(children...)
}

func para(text string) *doctree.Node {
	return doctree.New(doctree.KindParagraph, doctree.NewText(text))
}

// guide.md:
//
//	intro
//	# Install (install)
//	  ## Linux (on-linux)
//	  ## Mac (on-mac)
//	# Usage (usage)
func sampleDoc() *doctree.Node {
	doc := doctree.NewDocument("guide.md")
	doc.Append(
		para("intro"),
		section("install", "Install",
			para("how to install"),
			section("on-linux", "Linux", para("apt")),
			section("on-mac", "Mac", para("brew")),
		),
		section("usage", "Usage", para("run it")),
	)
	return doc
}

func filenames(pages []*Page) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.Filename
	}
	return out
}

func TestRootFilename(t *testing.T) {
	require.Equal(t, "guide.html", RootFilename("docs/guide.md"))
	require.Equal(t, "notes.html", RootFilename("notes.txt"))
}

func TestBuild_DepthZeroKeepsSinglePage(t *testing.T) {
	doc := sampleDoc()
	before := doctree.Count(doc)
	root := Build(doc, "guide.html", 0)

	require.Empty(t, root.Children)
	require.Equal(t, before, doctree.Count(root.Doc))
	require.Equal(t, "guide.html", root.Title, "title falls back to filename")
}

func TestBuild_SplitsRecursively(t *testing.T) {
	root := Build(sampleDoc(), "guide.html", 2)

	require.Equal(t,
		[]string{"guide.html", "install.html", "on_linux.html", "on_mac.html", "usage.html"},
		filenames(root.Preorder()))

	install := root.Children[0]
	require.Equal(t, "Install", install.Title)
	require.Equal(t, []string{"install"}, install.IDs)
	require.Same(t, root, install.Parent)
	require.Len(t, install.Children, 2)
	require.Same(t, install, install.Children[1].Parent)

	// Root keeps only the non-section content.
	require.Len(t, root.Doc.Children, 1)
	require.Equal(t, "intro", root.Doc.AsText())
}

func TestBuild_DepthLimitsSplitting(t *testing.T) {
	root := Build(sampleDoc(), "guide.html", 1)
	require.Equal(t, []string{"guide.html", "install.html", "usage.html"}, filenames(root.Preorder()))
	require.Len(t, doctree.Filter(root.Children[0].Doc, doctree.KindSection), 2)
}

func TestBuild_PreservesNodeCount(t *testing.T) {
	for depth := 0; depth <= 3; depth++ {
		doc := sampleDoc()
		want := doctree.Count(doc)
		root := Build(doc, "guide.html", depth)

		// Every discarded section wrapper is replaced one-for-one by the
		// new page's document root.
		got := 0
		root.Walk(func(p *Page) {
			got += doctree.Count(p.Doc)
		})
		require.Equal(t, want, got, "depth %d", depth)
	}
}

func TestBuild_SplitPagesAreCopies(t *testing.T) {
	doc := sampleDoc()
	install := doc.Children[1]
	root := Build(doc, "guide.html", 1)

	install.Children[1].Children[0].Text = "mutated"
	require.NotContains(t, root.Children[0].Doc.AsText(), "mutated")
}

func TestBuild_FilenamesUnique(t *testing.T) {
	doc := doctree.NewDocument("guide.md")
	doc.Append(
		section("a-b", "Dash"),
		section("a_b", "Underscore"),
		section("guide", "Clashes with root"),
		section("", "No id"),
		section("", "No id either"),
	)
	root := Build(doc, "guide.html", 1)

	names := filenames(root.Preorder())
	require.Equal(t,
		[]string{"guide.html", "a_b.html", "a_b_2.html", "guide_2.html", "section_1.html", "section_2.html"},
		names)

	seen := map[string]bool{}
	for _, n := range names {
		require.False(t, seen[n], "duplicate filename %s", n)
		seen[n] = true
	}
}

func TestAncestors(t *testing.T) {
	root := Build(sampleDoc(), "guide.html", 2)
	linux := root.Children[0].Children[0]
	require.Equal(t, []string{"guide.html", "install.html"}, filenames(linux.Ancestors()))
	require.Empty(t, root.Ancestors())
}

func TestReference(t *testing.T) {
	root := Build(sampleDoc(), "guide.html", 1)
	ref := root.Children[1].Reference()
	require.Equal(t, doctree.KindReference, ref.Kind)
	require.Equal(t, "usage.html", ref.Attrs.RefURI)
	require.Equal(t, "Usage", ref.AsText())
}
