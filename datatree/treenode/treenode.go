package treenode

import (
	"fmt"

	"github.com/npillmayer/yangtree/data"
	"github.com/npillmayer/yangtree/persistent/btree"
	"github.com/npillmayer/yangtree/yid"
	tp "github.com/xlab/treeprint"
)

// TreeNode is an immutable node of a data tree.
type TreeNode struct {
	data           data.Node
	version        Version
	subtreeVersion Version
	children       btree.Map[string, *TreeNode]
}

// New creates a tree node for a data node, stamping it and all of its descendants with
// version v. Descendants are created with an explicit stack, to support deeply nested data.
func New(d data.Node, v Version) *TreeNode {
	assertThat(d != nil, "cannot create tree node without data")
	type frame struct {
		parent   *data.Parent
		children []data.Node
		pos      int
		built    btree.Map[string, *TreeNode]
	}
	leaf := func(d data.Node) *TreeNode {
		return &TreeNode{data: d, version: v, subtreeVersion: v}
	}
	p, ok := d.(*data.Parent)
	if !ok {
		return leaf(d)
	}
	stack := []*frame{{parent: p, children: p.Children()}}
	for {
		top := stack[len(stack)-1]
		if top.pos < len(top.children) {
			ch := top.children[top.pos]
			top.pos++
			if chp, ok := ch.(*data.Parent); ok {
				stack = append(stack, &frame{parent: chp, children: chp.Children()})
			} else {
				top.built = top.built.With(ch.Identifier().Key(), leaf(ch))
			}
			continue
		}
		node := &TreeNode{data: top.parent, version: v, subtreeVersion: v, children: top.built}
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			return node
		}
		up := stack[len(stack)-1]
		up.built = up.built.With(node.Identifier().Key(), node)
	}
}

// Identifier returns the path argument of the node.
func (n *TreeNode) Identifier() yid.PathArgument { return n.data.Identifier() }

// Data returns the data node wrapped by n.
func (n *TreeNode) Data() data.Node { return n.data }

// Version returns the version of the commit which wrote this node.
func (n *TreeNode) Version() Version { return n.version }

// SubtreeVersion returns the version of the latest commit touching this node or
// any of its descendants.
func (n *TreeNode) SubtreeVersion() Version { return n.subtreeVersion }

// Child returns a child of n, if present.
func (n *TreeNode) Child(id yid.PathArgument) (*TreeNode, bool) {
	return n.children.Find(id.Key())
}

// ChildCount returns the number of children of n.
func (n *TreeNode) ChildCount() int {
	return n.children.Len()
}

// EachChild calls f for every child, ordered by key, until f returns false.
func (n *TreeNode) EachChild(f func(*TreeNode) bool) {
	n.children.Each(func(_ string, ch *TreeNode) bool {
		return f(ch)
	})
}

func (n *TreeNode) String() string {
	return fmt.Sprintf("(%s %s/%s #ch=%d)", n.Identifier(), n.version, n.subtreeVersion, n.ChildCount())
}

// Find follows a relative path, starting at root.
func Find(root *TreeNode, path yid.Path) (*TreeNode, bool) {
	current := root
	for _, arg := range path {
		var found bool
		if current, found = current.Child(arg); !found {
			return nil, false
		}
	}
	return current, current != nil
}

// ToStringTree prints a tree node and its descendants, including version stamps.
func ToStringTree(n *TreeNode) string {
	if n == nil {
		return "<nil>"
	}
	printer := tp.New()
	printer.SetValue(n.String())
	type item struct {
		branch tp.Tree
		node   *TreeNode
	}
	stack := []item{{printer, n}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		top.node.EachChild(func(ch *TreeNode) bool {
			if ch.ChildCount() == 0 {
				top.branch.AddNode(ch.String())
			} else {
				stack = append(stack, item{top.branch.AddBranch(ch.String()), ch})
			}
			return true
		})
	}
	return printer.String()
}
