package page

import (
	"strconv"
	"strings"
)

// namer hands out filenames that are unique across one forest.
type namer struct {
	used      map[string]bool
	anonymous int
}

func newNamer(root string) *namer {
	return &namer{used: map[string]bool{root: true}}
}

// FilenameForID maps a structural id to its page filename.
func FilenameForID(id string) string {
	return strings.ReplaceAll(id, "-", "_") + ".html"
}

// forIDs derives a filename from the first id. Sections without ids are
// numbered section_1.html, section_2.html, ... in split order. A clash with
// an earlier filename gets _2, _3, ... appended to the stem.
func (n *namer) forIDs(ids []string) string {
	var name string
	if len(ids) > 0 && ids[0] != "" {
		name = FilenameForID(ids[0])
	} else {
		n.anonymous++
		name = "section_" + strconv.Itoa(n.anonymous) + ".html"
	}
	if !n.used[name] {
		n.used[name] = true
		return name
	}
	stem := strings.TrimSuffix(name, ".html")
	for k := 2; ; k++ {
		candidate := stem + "_" + strconv.Itoa(k) + ".html"
		if !n.used[candidate] {
			n.used[candidate] = true
			return candidate
		}
	}
}
