package doctree

// WalkFunc is called for every node in preorder. Returning false skips the
// node's children.
type WalkFunc func(n *Node) bool

// Walk visits root and its descendants depth-first in document order.
func Walk(root *Node, fn WalkFunc) {
	if root == nil {
		return
	}
	if !fn(root) {
		return
	}
	for _, c := range root.Children {
		Walk(c, fn)
	}
}

// Filter returns every node under root (root included) whose kind is one of
// kinds. The result is a snapshot, so callers may mutate the tree while
// iterating over it.
func Filter(root *Node, kinds ...Kind) []*Node {
	var out []*Node
	Walk(root, func(n *Node) bool {
		for _, k := range kinds {
			if n.Kind == k {
				out = append(out, n)
				break
			}
		}
		return true
	})
	return out
}

// Count returns the number of nodes in the subtree rooted at n.
func Count(n *Node) int {
	total := 0
	Walk(n, func(*Node) bool {
		total++
		return true
	})
	return total
}

// PromoteTitle lifts a lone top-level section into the document: the
// document takes over the section's ids and children so its title becomes
// the document title. It reports whether a promotion happened.
func PromoteTitle(doc *Node) bool {
	if doc == nil || len(doc.Children) != 1 {
		return false
	}
	sec := doc.Children[0]
	if sec.Kind != KindSection {
		return false
	}
	if first := sec.firstOrNil(); first == nil || first.Kind != KindTitle {
		return false
	}
	doc.Attrs.IDs = append(doc.Attrs.IDs, sec.Attrs.IDs...)
	doc.Attrs.Names = append(doc.Attrs.Names, sec.Attrs.Names...)
	doc.Children = sec.Children
	return true
}

func (n *Node) firstOrNil() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}
