package candidate

import (
	"sync"

	"github.com/npillmayer/yangtree/data"
	"github.com/npillmayer/yangtree/yid"
)

// ModificationType is the kind of change a candidate node describes.
type ModificationType uint8

// Modification types.
const (
	Unmodified      ModificationType = iota // node and subtree are unchanged
	SubtreeModified                         // node is unchanged, some descendants changed
	Write                                   // node has been written, replacing its former content
	Delete                                  // node has been deleted
	Appeared                                // node appeared as a side effect of a child modification
	Disappeared                             // node disappeared as a side effect of a child modification
)

func (t ModificationType) String() string {
	switch t {
	case Unmodified:
		return "UNMODIFIED"
	case SubtreeModified:
		return "SUBTREE_MODIFIED"
	case Write:
		return "WRITE"
	case Delete:
		return "DELETE"
	case Appeared:
		return "APPEARED"
	case Disappeared:
		return "DISAPPEARED"
	}
	return "<unknown modification type>"
}

// Node is a node of a candidate tree.
type Node interface {
	Identifier() yid.PathArgument
	ModificationType() ModificationType
	DataBefore() (data.Node, bool)
	DataAfter() (data.Node, bool)
	// ChildNodes returns candidate nodes for children, ordered by key. Nodes of type
	// Delete have no children.
	ChildNodes() []Node
	ModifiedChild(id yid.PathArgument) (Node, bool)
}

// Candidate is the result of a commit: a candidate root node together with the path
// of the node in the data tree.
type Candidate struct {
	rootPath yid.Path
	root     Node
}

// New creates a candidate for a root node at a path.
func New(rootPath yid.Path, root Node) Candidate {
	return Candidate{rootPath: rootPath, root: root}
}

// RootPath returns the path of the candidate's root node.
func (c Candidate) RootPath() yid.Path { return c.rootPath }

// RootNode returns the candidate's root node.
func (c Candidate) RootNode() Node { return c.root }

// --- Immutable candidate nodes ---------------------------------------------

// ChildrenFunc produces the child candidates of a node on demand.
type ChildrenFunc func() []Node

type immutableNode struct {
	id       yid.PathArgument
	typ      ModificationType
	before   data.Node
	after    data.Node
	once     sync.Once
	produce  ChildrenFunc
	children []Node
}

func (n *immutableNode) Identifier() yid.PathArgument       { return n.id }
func (n *immutableNode) ModificationType() ModificationType { return n.typ }
func (n *immutableNode) DataBefore() (data.Node, bool)      { return n.before, n.before != nil }
func (n *immutableNode) DataAfter() (data.Node, bool)       { return n.after, n.after != nil }

func (n *immutableNode) ChildNodes() []Node {
	n.once.Do(func() {
		if n.produce != nil {
			n.children = n.produce()
			n.produce = nil
		}
	})
	return n.children
}

func (n *immutableNode) ModifiedChild(id yid.PathArgument) (Node, bool) {
	for _, ch := range n.ChildNodes() {
		if yid.Equal(ch.Identifier(), id) {
			return ch, true
		}
	}
	return nil, false
}

func (n *immutableNode) String() string {
	return n.typ.String() + " " + n.id.String()
}

func fixed(children []Node) ChildrenFunc {
	if len(children) == 0 {
		return nil
	}
	return func() []Node { return children }
}

// NewUnmodified creates a candidate node for an unchanged node.
func NewUnmodified(id yid.PathArgument, current data.Node) Node {
	return &immutableNode{id: id, typ: Unmodified, before: current, after: current}
}

// Written creates a candidate node for a node written with data after, replacing before
// (which may be nil). Child candidates are produced on demand by children, which may be nil.
func Written(id yid.PathArgument, before, after data.Node, children ChildrenFunc) Node {
	assertThat(after != nil, "written node %s must carry data", id)
	return &immutableNode{id: id, typ: Write, before: before, after: after, produce: children}
}

// Deleted creates a candidate node for a deleted node.
func Deleted(id yid.PathArgument, before data.Node) Node {
	return &immutableNode{id: id, typ: Delete, before: before}
}

// Modified creates a candidate node for a node with modified descendants.
func Modified(id yid.PathArgument, before, after data.Node, children []Node) Node {
	return &immutableNode{id: id, typ: SubtreeModified, before: before, after: after, produce: fixed(children)}
}

// ModifiedLazily is like Modified, but produces child candidates on demand.
func ModifiedLazily(id yid.PathArgument, before, after data.Node, children ChildrenFunc) Node {
	return &immutableNode{id: id, typ: SubtreeModified, before: before, after: after, produce: children}
}

// NewAppeared creates a candidate node for a node which appeared as a consequence of
// modified children.
func NewAppeared(id yid.PathArgument, after data.Node, children []Node) Node {
	return &immutableNode{id: id, typ: Appeared, after: after, produce: fixed(children)}
}

// NewDisappeared creates a candidate node for a node which disappeared as a consequence
// of modified children.
func NewDisappeared(id yid.PathArgument, before data.Node, children []Node) Node {
	return &immutableNode{id: id, typ: Disappeared, before: before, produce: fixed(children)}
}

// FromNode wraps a data node as a candidate writing the node and all of its descendants.
// Child candidates are created on demand.
func FromNode(node data.Node) Node {
	var children ChildrenFunc
	if p, ok := node.(*data.Parent); ok && p.ChildCount() > 0 {
		children = func() []Node {
			chs := make([]Node, 0, p.ChildCount())
			p.EachChild(func(ch data.Node) bool {
				chs = append(chs, FromNode(ch))
				return true
			})
			return chs
		}
	}
	return Written(node.Identifier(), nil, node, children)
}
