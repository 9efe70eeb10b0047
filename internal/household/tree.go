package household

import "github.com/umehtaji1981-tech/samaj-setu/internal/models"

// Node is one person in a family tree
type Node struct {
	Member   models.FamilyMember `json:"member"`
	Children []*Node             `json:"children,omitempty"`
}

// Tree links family members through parentId. Flagged heads are always
// roots. Members whose parent is missing, outside the family or would
// close a loop are roots as well.
func Tree(members []models.FamilyMember) []*Node {
	nodes := make(map[string]*Node, len(members))
	for _, m := range members {
		nodes[m.ID] = &Node{Member: m}
	}

	var roots []*Node
	for _, m := range members {
		n := nodes[m.ID]
		parent, ok := nodes[m.ParentID]
		switch {
		case m.IsHeadOfFamily:
			roots = append(roots, n)
		case ok && !createsCycle(nodes, m.ID, m.ParentID):
			parent.Children = append(parent.Children, n)
		default:
			roots = append(roots, n)
		}
	}
	return roots
}

// createsCycle reports whether linking child under parent would make the
// child its own ancestor
func createsCycle(nodes map[string]*Node, child, parent string) bool {
	seen := map[string]bool{}
	for cur := parent; cur != ""; {
		if cur == child {
			return true
		}
		if seen[cur] {
			return true
		}
		seen[cur] = true
		n, ok := nodes[cur]
		if !ok {
			return false
		}
		cur = n.Member.ParentID
	}
	return false
}
