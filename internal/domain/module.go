package domain

// ModuleNode is one entry of the authorization-scoped navigation tree. A leaf
// carries a Path and no Children; a group carries Children and no Path.
type ModuleNode struct {
	Name     string       `json:"name"`
	Title    string       `json:"title"`
	Path     string       `json:"path,omitempty"`
	Icon     string       `json:"icon,omitempty"`
	Children []ModuleNode `json:"children"`
}

// IsLeaf reports whether the node is a route target without children.
func (n ModuleNode) IsLeaf() bool {
	return n.Path != "" && n.Children == nil
}

// IsGroup reports whether the node is a container. An empty, non-nil Children
// slice still makes a group.
func (n ModuleNode) IsGroup() bool {
	return n.Children != nil && n.Path == ""
}

// Label returns the display title, falling back to the name.
func (n ModuleNode) Label() string {
	if n.Title != "" {
		return n.Title
	}
	return n.Name
}

// CloneTree deep-copies a slice of nodes.
func CloneTree(nodes []ModuleNode) []ModuleNode {
	if nodes == nil {
		return nil
	}
	out := make([]ModuleNode, len(nodes))
	for i, n := range nodes {
		out[i] = n
		out[i].Children = CloneTree(n.Children)
	}
	return out
}
