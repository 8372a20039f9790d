// Package colorize turns literal code blocks into highlighted HTML.
package colorize

import (
	"strings"

	"github.com/dgallion1/docsite/internal/doctree"
	"golang.org/x/net/html"
)

// Colorizer renders a code block as an HTML fragment.
type Colorizer interface {
	Colorize(code, language string) string
}

// Doctest marks up interactive-session transcripts: prompt lines (">>>",
// "...") and their output get distinct classes. Anything else is escaped
// verbatim.
type Doctest struct{}

func (Doctest) Colorize(code, language string) string {
	var sb strings.Builder
	sb.WriteString(`<pre class="literal-block`)
	if language != "" {
		sb.WriteString(" language-")
		sb.WriteString(html.EscapeString(language))
	}
	sb.WriteString(`">`)

	lines := strings.Split(strings.TrimRight(code, "\n"), "\n")
	session := isSession(lines)
	for i, line := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		switch {
		case strings.HasPrefix(line, ">>>") || (strings.HasPrefix(line, "...") && session):
			sb.WriteString(`<span class="py-prompt">`)
			sb.WriteString(html.EscapeString(line[:3]))
			sb.WriteString(`</span>`)
			sb.WriteString(html.EscapeString(line[3:]))
		case session && line != "":
			sb.WriteString(`<span class="py-output">`)
			sb.WriteString(html.EscapeString(line))
			sb.WriteString(`</span>`)
		default:
			sb.WriteString(html.EscapeString(line))
		}
	}
	sb.WriteString("</pre>")
	return sb.String()
}

func isSession(lines []string) bool {
	for _, l := range lines {
		if strings.HasPrefix(l, ">>>") {
			return true
		}
	}
	return false
}

// Apply replaces every literal block under doc with a raw HTML node produced
// by c. It returns the number of blocks replaced.
func Apply(doc *doctree.Node, c Colorizer) int {
	count := 0
	for _, block := range doctree.Filter(doc, doctree.KindLiteralBlock) {
		out := c.Colorize(block.Text, block.Attrs.Language)
		block.Kind = doctree.KindRaw
		block.Text = out
		block.Attrs.Format = "html"
		block.Attrs.Language = ""
		count++
	}
	return count
}
