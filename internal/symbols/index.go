// Package symbols loads the API symbol index and auto-links bare symbol
// mentions in page documents.
package symbols

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ObjectsFile is the index filename looked up inside an apidoc directory.
const ObjectsFile = "api-objects.txt"

// Index maps dotted names to documentation urls.
//
// Fully qualified names always resolve. Every shorter dotted suffix of a
// name resolves too, until two names share a suffix with different urls;
// from then on that suffix never resolves. A name registered exactly keeps
// resolving: after Foo→x.html and pkg.Foo→y.html, Lookup("Foo") is x.html.
type Index struct {
	exact     map[string]string
	suffix    map[string]string
	ambiguous map[string]bool
}

// Stats summarises a load.
type Stats struct {
	Entries   int
	Skipped   int
	Ambiguous int
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		exact:     make(map[string]string),
		suffix:    make(map[string]string),
		ambiguous: make(map[string]bool),
	}
}

// Add registers a fully qualified name.
func (ix *Index) Add(name, url string) {
	ix.exact[name] = url
	for {
		i := strings.IndexByte(name, '.')
		if i < 0 {
			return
		}
		name = name[i+1:]
		if ix.ambiguous[name] {
			continue
		}
		if prev, ok := ix.suffix[name]; ok && prev != url {
			delete(ix.suffix, name)
			ix.ambiguous[name] = true
			continue
		}
		ix.suffix[name] = url
	}
}

// Lookup returns the url for name, exact names first.
func (ix *Index) Lookup(name string) (string, bool) {
	if ix == nil {
		return "", false
	}
	if url, ok := ix.exact[name]; ok {
		return url, true
	}
	url, ok := ix.suffix[name]
	return url, ok
}

// Len returns the number of fully qualified names.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.exact)
}

// Ambiguous returns the number of suffixes excluded for ambiguity.
func (ix *Index) Ambiguous() int {
	if ix == nil {
		return 0
	}
	return len(ix.ambiguous)
}

// Load reads tab-separated "name<TAB>url" lines. Blank lines are ignored;
// lines without a tab or with an empty field are skipped and counted.
func Load(r io.Reader) (*Index, Stats, error) {
	ix := NewIndex()
	var st Stats

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		name, url, ok := strings.Cut(line, "\t")
		name, url = strings.TrimSpace(name), strings.TrimSpace(url)
		if !ok || name == "" || url == "" {
			st.Skipped++
			continue
		}
		ix.Add(name, url)
		st.Entries++
	}
	if err := scanner.Err(); err != nil {
		return nil, st, fmt.Errorf("read symbol index: %w", err)
	}
	st.Ambiguous = ix.Ambiguous()
	return ix, st, nil
}

// LoadFile loads an index file. An empty path yields an empty index.
func LoadFile(path string) (*Index, Stats, error) {
	if path == "" {
		return NewIndex(), Stats{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open symbol index: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// LoadDir loads ObjectsFile from an apidoc directory.
func LoadDir(dir string) (*Index, Stats, error) {
	if dir == "" {
		return NewIndex(), Stats{}, nil
	}
	return LoadFile(filepath.Join(dir, ObjectsFile))
}
