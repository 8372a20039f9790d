package colorize

import (
	"testing"

	"github.com/dgallion1/docsite/internal/doctree"
	"github.com/stretchr/testify/require"
)

func TestDoctest_Session(t *testing.T) {
	got := Doctest{}.Colorize(">>> print(1 < 2)\nTrue\n", "")
	require.Equal(t,
		`<pre class="literal-block"><span class="py-prompt">&gt;&gt;&gt;</span> print(1 &lt; 2)`+"\n"+`<span class="py-output">True</span></pre>`,
		got)
}

func TestDoctest_PlainCode(t *testing.T) {
	got := Doctest{}.Colorize("a && b\n...\n", "go")
	require.Equal(t, `<pre class="literal-block language-go">a &amp;&amp; b`+"\n"+`...</pre>`, got)
}

func TestDoctest_ContinuationLines(t *testing.T) {
	got := Doctest{}.Colorize(">>> def f():\n...     return 1\n>>> f()\n1\n", "python")
	require.Equal(t,
		`<pre class="literal-block language-python">`+
			`<span class="py-prompt">&gt;&gt;&gt;</span> def f():`+"\n"+
			`<span class="py-prompt">...</span>     return 1`+"\n"+
			`<span class="py-prompt">&gt;&gt;&gt;</span> f()`+"\n"+
			`<span class="py-output">1</span></pre>`,
		got)
}

func TestApply(t *testing.T) {
	block := doctree.New(doctree.KindLiteralBlock)
	block.Text = "x = 1"
	doc := doctree.NewDocument("d").Append(block)

	require.Equal(t, 1, Apply(doc, Doctest{}))
	require.Equal(t, doctree.KindRaw, block.Kind)
	require.Equal(t, "html", block.Attrs.Format)
	require.Equal(t, `<pre class="literal-block">x = 1</pre>`, block.Text)
}
