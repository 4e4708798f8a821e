// Package navigation turns the module tree into registered routes and holds
// the drawer's expand/selection state.
package navigation

import (
	"errors"
	"fmt"

	"github.com/spec-kit/backoffice/internal/domain"
)

var (
	// ErrDuplicateName reports two nodes sharing a name anywhere in the tree.
	ErrDuplicateName = errors.New("duplicate module name")
	// ErrAmbiguousNode reports a node that is both leaf and group, or neither.
	ErrAmbiguousNode = errors.New("module is neither a leaf nor a group")
)

// Flatten lists every node of the tree in depth-first pre-order: a group is
// emitted before its descendants, children keep their array order. The input
// is not modified; returned nodes share their Children slices with it.
func Flatten(nodes []domain.ModuleNode) []domain.ModuleNode {
	out := make([]domain.ModuleNode, 0, countNodes(nodes))
	return appendPreOrder(out, nodes)
}

func appendPreOrder(out, nodes []domain.ModuleNode) []domain.ModuleNode {
	for _, n := range nodes {
		out = append(out, n)
		if len(n.Children) > 0 {
			out = appendPreOrder(out, n.Children)
		}
	}
	return out
}

func countNodes(nodes []domain.ModuleNode) int {
	total := len(nodes)
	for _, n := range nodes {
		total += countNodes(n.Children)
	}
	return total
}

// Validate checks the tree's data contract: every node is exactly a leaf or a
// group and names are unique across the whole tree. All violations are joined.
func Validate(nodes []domain.ModuleNode) error {
	seen := make(map[string]struct{})
	var errs []error
	var walk func([]domain.ModuleNode)
	walk = func(level []domain.ModuleNode) {
		for _, n := range level {
			if _, dup := seen[n.Name]; dup {
				errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateName, n.Name))
			}
			seen[n.Name] = struct{}{}
			if n.IsLeaf() == n.IsGroup() {
				errs = append(errs, fmt.Errorf("%w: %q", ErrAmbiguousNode, n.Name))
			}
			walk(n.Children)
		}
	}
	walk(nodes)
	return errors.Join(errs...)
}
