package directory

import "sort"

// TreeNode is a materialized hierarchy node with its children resolved.
// Trees are built fresh from a flat node listing on every request; callers
// receive plain values with no back-references into storage.
type TreeNode struct {
	Node
	Children []*TreeNode
}

// BuildTree assembles the flat node list into root subtrees. Children and
// roots are ordered by name for stable display. Nodes referencing a missing
// parent are treated as roots rather than dropped, so a partially-listed
// hierarchy still renders.
func BuildTree(nodes []Node) []*TreeNode {
	byID := make(map[string]*TreeNode, len(nodes))
	for _, n := range nodes {
		byID[string(n.ID)] = &TreeNode{Node: n}
	}

	var roots []*TreeNode
	for _, n := range nodes {
		tn := byID[string(n.ID)]
		if n.ParentID == "" {
			roots = append(roots, tn)
			continue
		}
		parent, ok := byID[string(n.ParentID)]
		if !ok {
			roots = append(roots, tn)
			continue
		}
		parent.Children = append(parent.Children, tn)
	}

	sortTree(roots)
	return roots
}

func sortTree(nodes []*TreeNode) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	for _, n := range nodes {
		sortTree(n.Children)
	}
}

// Rooms returns every room node in the subtree rooted at n, depth-first.
func (n *TreeNode) Rooms() []Node {
	var rooms []Node
	if n.Kind == KindRoom {
		rooms = append(rooms, n.Node)
	}
	for _, c := range n.Children {
		rooms = append(rooms, c.Rooms()...)
	}
	return rooms
}
