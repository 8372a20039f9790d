package doctree

import "strings"

// Kind tags the variant a Node represents.
type Kind int

const (
	KindDocument Kind = iota
	KindSection
	KindTitle
	KindParagraph
	KindText
	KindEmphasis
	KindStrong
	KindLiteral
	KindTitleReference
	KindReference
	KindImage
	KindLiteralBlock
	KindRaw
	KindContainer
	KindInline
	KindBulletList
	KindEnumeratedList
	KindListItem
	KindBlockQuote
)

var kindNames = [...]string{
	KindDocument:       "document",
	KindSection:        "section",
	KindTitle:          "title",
	KindParagraph:      "paragraph",
	KindText:           "text",
	KindEmphasis:       "emphasis",
	KindStrong:         "strong",
	KindLiteral:        "literal",
	KindTitleReference: "title_reference",
	KindReference:      "reference",
	KindImage:          "image",
	KindLiteralBlock:   "literal_block",
	KindRaw:            "raw",
	KindContainer:      "container",
	KindInline:         "inline",
	KindBulletList:     "bullet_list",
	KindEnumeratedList: "enumerated_list",
	KindListItem:       "list_item",
	KindBlockQuote:     "block_quote",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Address is where a structural id lives once the forest is laid out.
type Address struct {
	Filename string
	Anchor   string // empty for page-level ids
}

func (a Address) String() string {
	if a.Anchor == "" {
		return a.Filename
	}
	return a.Filename + "#" + a.Anchor
}

// Attributes holds the optional per-node attributes. Which fields are
// meaningful depends on the node's Kind.
type Attributes struct {
	IDs     []string // structural ids, usable as reference targets
	Classes []string
	Names   []string

	URI string // image source
	Alt string

	RefID    string   // pending reference to a structural id
	RefURI   string   // external or cross-linked url
	Resolved *Address // set once RefID has been resolved

	Format   string // raw content format, e.g. "html"
	Language string // literal block language hint
	Source   string // document source path
}

// Node is one element of a parsed document. Children are owned by their parent.
type Node struct {
	Kind     Kind
	Text     string // leaf content for Text, Literal, LiteralBlock and Raw
	Attrs    Attributes
	Children []*Node
}

// NewDocument returns an empty document root for source.
func NewDocument(source string) *Node {
	return &Node{Kind: KindDocument, Attrs: Attributes{Source: source}}
}

// NewText returns a text leaf.
func NewText(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

// New returns a node of kind k with the given children.
func New(k Kind, children ...*Node) *Node {
	return &Node{Kind: k, Children: children}
}

// Append adds children at the end of n and returns n.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Insert places child at index i.
func (n *Node) Insert(i int, child *Node) {
	n.Children = append(n.Children, nil)
	copy(n.Children[i+1:], n.Children[i:])
	n.Children[i] = child
}

// Remove detaches child from n. It reports whether child was found.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return true
		}
	}
	return false
}

// AddClass appends a class name.
func (n *Node) AddClass(class string) *Node {
	n.Attrs.Classes = append(n.Attrs.Classes, class)
	return n
}

// HasClass reports whether class is set on n.
func (n *Node) HasClass(class string) bool {
	for _, c := range n.Attrs.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of n. Attribute slices are copied so the clone
// shares no mutable state with the original.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{Kind: n.Kind, Text: n.Text, Attrs: n.Attrs}
	c.Attrs.IDs = cloneStrings(n.Attrs.IDs)
	c.Attrs.Classes = cloneStrings(n.Attrs.Classes)
	c.Attrs.Names = cloneStrings(n.Attrs.Names)
	if n.Attrs.Resolved != nil {
		addr := *n.Attrs.Resolved
		c.Attrs.Resolved = &addr
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// AsText returns the concatenated text content of n and its descendants.
func (n *Node) AsText() string {
	var sb strings.Builder
	Walk(n, func(c *Node) bool {
		switch c.Kind {
		case KindText, KindLiteral, KindLiteralBlock:
			sb.WriteString(c.Text)
		}
		return true
	})
	return sb.String()
}

// FirstChild returns the first direct child of kind k, or nil.
func (n *Node) FirstChild(k Kind) *Node {
	for _, c := range n.Children {
		if c.Kind == k {
			return c
		}
	}
	return nil
}
