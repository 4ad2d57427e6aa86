package treenode

import (
	"github.com/npillmayer/yangtree/data"
	"github.com/npillmayer/yangtree/persistent/btree"
	"github.com/npillmayer/yangtree/yid"
)

// Mutable is a tree node under construction. It is created from an existing tree node,
// collects child replacements and removals, and is sealed into a new tree node.
// A Mutable is not safe for concurrent use.
type Mutable struct {
	data           data.Node
	builder        *data.Builder // nil for leaf-like nodes
	version        Version
	subtreeVersion Version
	children       btree.Map[string, *TreeNode]
	dirty          bool
}

// Mutable starts a rebuild of n. Sealing the Mutable without changes results in a node
// with the same data and children as n, but possibly different version stamps.
func (n *TreeNode) Mutable() *Mutable {
	m := &Mutable{
		data:           n.data,
		version:        n.version,
		subtreeVersion: n.subtreeVersion,
		children:       n.children,
	}
	if p, ok := n.data.(*data.Parent); ok {
		m.builder = data.BuilderFrom(p)
	}
	return m
}

// Child returns the current child of the node under construction.
func (m *Mutable) Child(id yid.PathArgument) (*TreeNode, bool) {
	return m.children.Find(id.Key())
}

// ChildCount returns the current number of children.
func (m *Mutable) ChildCount() int {
	return m.children.Len()
}

// EachChild calls f for every current child, ordered by key, until f returns false.
func (m *Mutable) EachChild(f func(*TreeNode) bool) {
	m.children.Each(func(_ string, ch *TreeNode) bool {
		return f(ch)
	})
}

// Changed is true if children have been set or removed.
func (m *Mutable) Changed() bool {
	return m.dirty
}

// SetChild adds or replaces a child.
func (m *Mutable) SetChild(child *TreeNode) {
	assertThat(m.builder != nil, "cannot set child on leaf-like node %s", m.data.Identifier())
	m.children = m.children.With(child.Identifier().Key(), child)
	m.builder.With(child.data)
	m.dirty = true
}

// RemoveChild removes a child, if present.
func (m *Mutable) RemoveChild(id yid.PathArgument) {
	assertThat(m.builder != nil, "cannot remove child from leaf-like node %s", m.data.Identifier())
	if _, found := m.children.Find(id.Key()); !found {
		return
	}
	m.children = m.children.WithDeleted(id.Key())
	m.builder.Without(id)
	m.dirty = true
}

// SetVersion sets the version of the node itself.
func (m *Mutable) SetVersion(v Version) {
	m.version = v
}

// SetSubtreeVersion sets the version of the node's subtree.
func (m *Mutable) SetSubtreeVersion(v Version) {
	m.subtreeVersion = v
}

// Seal creates the new tree node. The Mutable must not be used afterwards.
func (m *Mutable) Seal() *TreeNode {
	d := m.data
	if m.dirty {
		d = m.builder.Build()
	}
	tracer().Debugf("sealing %s at %s/%s", d.Identifier(), m.version, m.subtreeVersion)
	n := &TreeNode{
		data:           d,
		version:        m.version,
		subtreeVersion: m.subtreeVersion,
		children:       m.children,
	}
	m.builder = nil
	return n
}
