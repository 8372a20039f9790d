package doctree

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MakeID turns arbitrary title text into a structural id: accents are
// folded to ASCII, letters lowercased, and every run of other characters
// collapsed to a single dash. Leading digits and dashes are dropped so the
// id is a valid HTML anchor.
func MakeID(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}

	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			dash = false
			sb.WriteRune(r)
		default:
			dash = true
		}
	}
	return strings.TrimLeft(sb.String(), "0123456789-")
}

// IDSet hands out ids that are unique within one document.
type IDSet struct {
	seen map[string]int
}

// NewIDSet returns an empty set.
func NewIDSet() *IDSet {
	return &IDSet{seen: make(map[string]int)}
}

// Unique returns id, or id with a numeric suffix when id was already taken,
// and records the result. An empty id falls back to "id".
func (s *IDSet) Unique(id string) string {
	if id == "" {
		id = "id"
	}
	if _, taken := s.seen[id]; !taken {
		s.seen[id] = 0
		return id
	}
	for {
		s.seen[id]++
		candidate := id + "-" + strconv.Itoa(s.seen[id])
		if _, taken := s.seen[candidate]; !taken {
			s.seen[candidate] = 0
			return candidate
		}
	}
}

// Reserve marks id as used without altering it.
func (s *IDSet) Reserve(id string) {
	if _, ok := s.seen[id]; !ok {
		s.seen[id] = 0
	}
}
