package treenode

import (
	"github.com/npillmayer/yangtree/data"
	"github.com/npillmayer/yangtree/yid"
)

// MergeVisitor follows a merge down the tree. Visitors see every parent merged child by
// child, before and after it is sealed, and every node created from overlay data.
type MergeVisitor interface {
	// Child returns the visitor for a child of the current node.
	Child(id yid.PathArgument) MergeVisitor
	// Merged is called for a merged parent, before it is sealed.
	Merged(m *Mutable, overlay *data.Parent) error
	// Sealed is called for a merged parent after sealing it.
	Sealed(n *TreeNode) error
	// Created is called for a node created from overlay data, with all its descendants.
	Created(n *TreeNode) error
}

// Merge overlays data onto a tree node, following the rules of data.Merge: parents of the
// same kind are merged child by child, everything else is replaced by overlay. Nodes
// created or merged are stamped with version v. Children of current not mentioned in
// overlay are shared with the result, including their version stamps.
//
// current may be nil, in which case a new tree node for overlay is created.
func Merge(current *TreeNode, overlay data.Node, v Version) *TreeNode {
	n, _ := MergeWith(current, overlay, v, nil)
	return n
}

// MergeWith is Merge with a visitor, which may be nil. Merging stops at the first error
// returned by the visitor.
func MergeWith(current *TreeNode, overlay data.Node, v Version, visitor MergeVisitor) (*TreeNode, error) {
	type frame struct {
		m        *Mutable
		overlay  *data.Parent
		visitor  MergeVisitor
		children []data.Node
		pos      int
	}
	mergeable := func(cur *TreeNode, ov data.Node) (*data.Parent, bool) {
		p, ok := ov.(*data.Parent)
		if !ok || cur == nil {
			return nil, false
		}
		cp, ok := cur.data.(*data.Parent)
		return p, ok && cp.Kind() == p.Kind()
	}
	start := func(cur *TreeNode, p *data.Parent, vis MergeVisitor) *frame {
		m := cur.Mutable()
		m.SetVersion(v)
		m.SetSubtreeVersion(v)
		return &frame{m: m, overlay: p, visitor: vis, children: p.Children()}
	}
	created := func(ov data.Node, vis MergeVisitor) (*TreeNode, error) {
		n := New(ov, v)
		if vis != nil {
			if err := vis.Created(n); err != nil {
				return nil, err
			}
		}
		return n, nil
	}
	p, ok := mergeable(current, overlay)
	if !ok {
		return created(overlay, visitor)
	}
	stack := []*frame{start(current, p, visitor)}
	for {
		top := stack[len(stack)-1]
		if top.pos < len(top.children) {
			ch := top.children[top.pos]
			top.pos++
			var chvis MergeVisitor
			if top.visitor != nil {
				chvis = top.visitor.Child(ch.Identifier())
			}
			existing, _ := top.m.Child(ch.Identifier())
			if chp, ok := mergeable(existing, ch); ok {
				stack = append(stack, start(existing, chp, chvis))
				continue
			}
			n, err := created(ch, chvis)
			if err != nil {
				return nil, err
			}
			top.m.SetChild(n)
			continue
		}
		if top.visitor != nil {
			if err := top.visitor.Merged(top.m, top.overlay); err != nil {
				return nil, err
			}
		}
		node := top.m.Seal()
		if top.visitor != nil {
			if err := top.visitor.Sealed(node); err != nil {
				return nil, err
			}
		}
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			return node, nil
		}
		stack[len(stack)-1].m.SetChild(node)
	}
}
