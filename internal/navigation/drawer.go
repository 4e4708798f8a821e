package navigation

import (
	"fmt"

	"github.com/spec-kit/backoffice/internal/domain"
)

// Row is one visible drawer line.
type Row struct {
	Node     domain.ModuleNode
	Depth    int
	Group    bool
	Expanded bool
	Active   bool
	Glyph    string
}

// Drawer holds the collapsible navigation state for one tree: which groups are
// expanded, which leaf is active and whether the overlay is open. It walks the
// nested tree, never the flattened route list. Not safe for concurrent use;
// the UI loop owns it.
type Drawer struct {
	nav      Navigator
	icons    Icons
	tree     []domain.ModuleNode
	index    map[string]domain.ModuleNode
	expanded map[string]bool
	active   string
	open     bool
}

// NewDrawer builds an empty, closed drawer.
func NewDrawer(nav Navigator, icons Icons) *Drawer {
	return &Drawer{
		nav:      nav,
		icons:    icons,
		index:    map[string]domain.ModuleNode{},
		expanded: map[string]bool{},
	}
}

// SetTree installs a new tree. When the drawer had no tree before, the first
// leaf in pre-order becomes the highlighted selection without navigating: the
// first top-level node when it is a leaf, otherwise the first leaf beneath it,
// since only leaves can be active.
// Expansion entries and a selection that no longer exist are dropped.
func (d *Drawer) SetTree(tree []domain.ModuleNode) {
	hadTree := len(d.tree) > 0
	d.tree = domain.CloneTree(tree)
	d.index = make(map[string]domain.ModuleNode)
	for _, n := range Flatten(d.tree) {
		d.index[n.Name] = n
	}

	for name := range d.expanded {
		if n, ok := d.index[name]; !ok || !n.IsGroup() {
			delete(d.expanded, name)
		}
	}
	if d.Active() == "" {
		d.active = ""
	}
	if !hadTree && d.active == "" {
		d.active = firstLeaf(d.tree)
	}
}

// Tree returns the installed tree.
func (d *Drawer) Tree() []domain.ModuleNode {
	return d.tree
}

// ToggleExpand flips the expansion of the named group and returns the new
// state. Siblings and ancestors keep theirs. Leaves and unknown names are
// left alone.
func (d *Drawer) ToggleExpand(name string) bool {
	n, ok := d.index[name]
	if !ok || !n.IsGroup() {
		return false
	}
	d.expanded[name] = !d.expanded[name]
	return d.expanded[name]
}

// Expanded reports whether the named group is open.
func (d *Drawer) Expanded(name string) bool {
	return d.expanded[name]
}

// SelectLeaf marks node active, replaces the current route with its path and
// closes the drawer.
func (d *Drawer) SelectLeaf(node domain.ModuleNode) error {
	if !node.IsLeaf() {
		return fmt.Errorf("navigation: %q is not a leaf", node.Name)
	}
	d.active = node.Name
	if err := d.nav.Replace(node.Path); err != nil {
		return err
	}
	d.open = false
	return nil
}

// Active returns the selected leaf name, or "" when nothing valid is selected.
func (d *Drawer) Active() string {
	n, ok := d.index[d.active]
	if !ok || !n.IsLeaf() {
		return ""
	}
	return d.active
}

// Open shows the drawer overlay.
func (d *Drawer) Open() { d.open = true }

// Close hides the drawer overlay.
func (d *Drawer) Close() { d.open = false }

// IsOpen reports whether the overlay is shown.
func (d *Drawer) IsOpen() bool { return d.open }

// Rows lists the visible lines: every top-level node, plus the children of
// expanded groups, in tree order.
func (d *Drawer) Rows() []Row {
	var rows []Row
	active := d.Active()
	var walk func([]domain.ModuleNode, int)
	walk = func(nodes []domain.ModuleNode, depth int) {
		for _, n := range nodes {
			group := n.IsGroup()
			expanded := group && d.expanded[n.Name]
			rows = append(rows, Row{
				Node:     n,
				Depth:    depth,
				Group:    group,
				Expanded: expanded,
				Active:   !group && n.Name == active,
				Glyph:    d.icons.Glyph(n.Icon),
			})
			if expanded {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(d.tree, 0)
	return rows
}

func firstLeaf(nodes []domain.ModuleNode) string {
	for _, n := range Flatten(nodes) {
		if n.IsLeaf() {
			return n.Name
		}
	}
	return ""
}
