package datatree

import (
	"fmt"

	"github.com/npillmayer/yangtree/data"
	"github.com/npillmayer/yangtree/datatree/treenode"
	"github.com/npillmayer/yangtree/persistent/btree"
	"github.com/npillmayer/yangtree/yid"
)

// ModifiedNode is a node of a pending modification. It records the operation for a node,
// the data to write or merge, and pending modifications of children.
//
// Modified nodes remember the node of the snapshot they have been created against. This
// is used to detect modifications of the same nodes by other, concurrent, transactions.
type ModifiedNode struct {
	id       yid.PathArgument
	op       LogicalOperation
	value    data.Node          // data for OpWrite and OpMerge; nil for OpWrite of an empty node
	original *treenode.TreeNode // node in the snapshot, nil if absent
	children btree.Map[string, *ModifiedNode]
}

func newModifiedNode(id yid.PathArgument, original *treenode.TreeNode) *ModifiedNode {
	return &ModifiedNode{id: id, original: original}
}

// Identifier returns the path argument of the modified node.
func (n *ModifiedNode) Identifier() yid.PathArgument { return n.id }

// Operation returns the operation recorded for the node.
func (n *ModifiedNode) Operation() LogicalOperation { return n.op }

// Value returns the data written or merged, if any.
func (n *ModifiedNode) Value() (data.Node, bool) { return n.value, n.value != nil }

// Original returns the node of the snapshot the modification was created against.
func (n *ModifiedNode) Original() (*treenode.TreeNode, bool) { return n.original, n.original != nil }

// Child returns the modification of a child, if any.
func (n *ModifiedNode) Child(id yid.PathArgument) (*ModifiedNode, bool) {
	return n.children.Find(id.Key())
}

// ChildCount returns the number of modified children.
func (n *ModifiedNode) ChildCount() int {
	return n.children.Len()
}

// EachChild calls f for every modified child, ordered by key, until f returns false.
func (n *ModifiedNode) EachChild(f func(*ModifiedNode) bool) {
	n.children.Each(func(_ string, ch *ModifiedNode) bool {
		return f(ch)
	})
}

func (n *ModifiedNode) String() string {
	return fmt.Sprintf("(%s %s #ch=%d)", n.op, n.id, n.children.Len())
}

// modifyChild returns the modification for a child, creating it if necessary. A node with
// a modified child is at least touched. A deleted node becomes an empty written node.
func (n *ModifiedNode) modifyChild(id yid.PathArgument, original *treenode.TreeNode) *ModifiedNode {
	if ch, found := n.children.Find(id.Key()); found {
		return ch
	}
	switch n.op {
	case OpNone:
		n.op = OpTouch
	case OpDelete:
		n.op, n.value = OpWrite, nil
	}
	ch := newModifiedNode(id, original)
	n.children = n.children.With(id.Key(), ch)
	return ch
}

// write replaces all former modifications of n.
func (n *ModifiedNode) write(value data.Node) {
	n.op, n.value = OpWrite, value
	n.children = btree.Map[string, *ModifiedNode]{}
}

// delete replaces all former modifications of n. A node created within this modification
// and deleted afterwards is left unmodified.
func (n *ModifiedNode) delete() {
	switch n.op {
	case OpTouch, OpWrite, OpMerge:
		if n.original == nil {
			n.op = OpNone
		} else {
			n.op = OpDelete
		}
	default:
		n.op = OpDelete
	}
	n.value = nil
	n.children = btree.Map[string, *ModifiedNode]{}
}

// merge folds data into n. Data for children with pending modifications is merged into
// those, so a later merge always wins over earlier modifications.
func (n *ModifiedNode) merge(value data.Node) {
	type item struct {
		mod   *ModifiedNode
		value data.Node
	}
	stack := []item{{n, value}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		mod := top.mod
		switch mod.op {
		case OpDelete:
			mod.write(top.value)
			continue
		case OpWrite, OpMerge:
			if mod.value == nil {
				mod.value = top.value
			} else {
				mod.value = data.Merge(mod.value, top.value)
			}
		default:
			mod.op, mod.value = OpMerge, top.value
		}
		if p, ok := top.value.(*data.Parent); ok {
			p.EachChild(func(ch data.Node) bool {
				if cm, found := mod.children.Find(ch.Identifier().Key()); found {
					stack = append(stack, item{cm, ch})
				}
				return true
			})
		}
	}
}

// onlyDeletes is true if the subtree of modifications rooted at n does nothing but delete
// nodes.
func (n *ModifiedNode) onlyDeletes() bool {
	stack := []*ModifiedNode{n}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch top.op {
		case OpWrite, OpMerge:
			return false
		}
		top.EachChild(func(ch *ModifiedNode) bool {
			stack = append(stack, ch)
			return true
		})
	}
	return true
}
