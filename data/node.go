package data

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/npillmayer/yangtree/persistent/btree"
	"github.com/npillmayer/yangtree/yid"
	"github.com/shopspring/decimal"
)

// Kind enumerates the structural kinds of data nodes.
type Kind int8

const (
	LeafKind Kind = iota
	LeafSetEntryKind
	LeafSetKind
	ContainerKind
	MapKind
	MapEntryKind
	ChoiceKind
	AugmentationKind
)

var kindNames = [...]string{"leaf", "leaf-set-entry", "leaf-set", "container", "map",
	"map-entry", "choice", "augmentation"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsLeafLike is true for kinds which carry a value instead of children.
func (k Kind) IsLeafLike() bool {
	return k == LeafKind || k == LeafSetEntryKind
}

// Node is the common interface of all data nodes.
type Node interface {
	Identifier() yid.PathArgument
	Kind() Kind
}

// --- Leafs -----------------------------------------------------------------

// Leaf is a leaf-like node, i.e. either a leaf or a leaf-set entry.
type Leaf struct {
	id    yid.PathArgument
	kind  Kind
	value interface{}
}

var _ Node = (*Leaf)(nil)

// NewLeaf creates a leaf node.
func NewLeaf(id yid.NodeIdentifier, value interface{}) *Leaf {
	return &Leaf{id: id, kind: LeafKind, value: value}
}

// NewLeafSetEntry creates an entry of a leaf-set. The entry is identified by its value.
func NewLeafSetEntry(qname yid.QName, value interface{}) *Leaf {
	return &Leaf{id: yid.NewNodeWithValue(qname, value), kind: LeafSetEntryKind, value: value}
}

func (l *Leaf) Identifier() yid.PathArgument { return l.id }
func (l *Leaf) Kind() Kind                   { return l.kind }

// Value returns the scalar value of a leaf.
func (l *Leaf) Value() interface{} { return l.value }

func (l *Leaf) String() string {
	return fmt.Sprintf("(%s %s=%v)", l.kind, l.id, l.value)
}

// --- Parents ---------------------------------------------------------------

// Parent is a node holding children: containers, maps, map entries, leaf-sets,
// choices and augmentations.
type Parent struct {
	id       yid.PathArgument
	kind     Kind
	children btree.Map[string, Node]
}

var _ Node = (*Parent)(nil)

func newParent(kind Kind, id yid.PathArgument, children []Node) *Parent {
	b := NewBuilder(kind, id)
	for _, ch := range children {
		b.With(ch)
	}
	return b.Build()
}

// NewContainer creates a container node.
func NewContainer(id yid.NodeIdentifier, children ...Node) *Parent {
	return newParent(ContainerKind, id, children)
}

// NewMapEntry creates an entry of a map (list).
func NewMapEntry(id yid.NodeIdentifierWithPredicates, children ...Node) *Parent {
	return newParent(MapEntryKind, id, children)
}

// NewMap creates a map (list) node. All children have to be map entries.
func NewMap(id yid.NodeIdentifier, entries ...Node) *Parent {
	for _, e := range entries {
		assertThat(e.Kind() == MapEntryKind, "map %s cannot hold child of kind %s", id, e.Kind())
	}
	return newParent(MapKind, id, entries)
}

// NewLeafSet creates a leaf-set (leaf-list) node. All children have to be leaf-set entries.
func NewLeafSet(id yid.NodeIdentifier, entries ...Node) *Parent {
	for _, e := range entries {
		assertThat(e.Kind() == LeafSetEntryKind, "leaf-set %s cannot hold child of kind %s", id, e.Kind())
	}
	return newParent(LeafSetKind, id, entries)
}

// NewChoice creates a choice node. Children are the data nodes of the active case.
func NewChoice(id yid.NodeIdentifier, children ...Node) *Parent {
	return newParent(ChoiceKind, id, children)
}

// NewAugmentation creates an augmentation node.
func NewAugmentation(id yid.AugmentationIdentifier, children ...Node) *Parent {
	return newParent(AugmentationKind, id, children)
}

// Empty creates a parent node of a given kind without children.
func Empty(kind Kind, id yid.PathArgument) *Parent {
	assertThat(!kind.IsLeafLike(), "cannot create empty node of kind %s", kind)
	return &Parent{id: id, kind: kind}
}

func (p *Parent) Identifier() yid.PathArgument { return p.id }
func (p *Parent) Kind() Kind                   { return p.kind }

// Child returns the child identified by id, if present.
func (p *Parent) Child(id yid.PathArgument) (Node, bool) {
	return p.children.Find(id.Key())
}

// ChildCount returns the number of children.
func (p *Parent) ChildCount() int {
	return p.children.Len()
}

// Children returns the children ordered by their keys.
func (p *Parent) Children() []Node {
	return p.children.Values()
}

// EachChild calls f for every child, ordered by keys, until f returns false.
func (p *Parent) EachChild(f func(Node) bool) {
	p.children.Each(func(_ string, ch Node) bool {
		return f(ch)
	})
}

func (p *Parent) String() string {
	return fmt.Sprintf("(%s %s #ch=%d)", p.kind, p.id, p.children.Len())
}

// --- Builder ---------------------------------------------------------------

// Builder assembles a parent node. Starting a builder from an existing node is cheap,
// and the resulting node shares every child not replaced or removed.
type Builder struct {
	id       yid.PathArgument
	kind     Kind
	children btree.Map[string, Node]
}

// NewBuilder starts an empty parent node of a given kind.
func NewBuilder(kind Kind, id yid.PathArgument) *Builder {
	assertThat(!kind.IsLeafLike(), "cannot build children for node of kind %s", kind)
	return &Builder{id: id, kind: kind}
}

// BuilderFrom starts a builder with all the children of p.
func BuilderFrom(p *Parent) *Builder {
	return &Builder{id: p.id, kind: p.kind, children: p.children}
}

// With adds or replaces a child.
func (b *Builder) With(child Node) *Builder {
	b.children = b.children.With(child.Identifier().Key(), child)
	return b
}

// Without removes a child, if present.
func (b *Builder) Without(id yid.PathArgument) *Builder {
	b.children = b.children.WithDeleted(id.Key())
	return b
}

// Child returns a child of the node under construction.
func (b *Builder) Child(id yid.PathArgument) (Node, bool) {
	return b.children.Find(id.Key())
}

// Build returns the parent node. The builder may continue to be used afterwards,
// without affecting the returned node.
func (b *Builder) Build() *Parent {
	return &Parent{id: b.id, kind: b.kind, children: b.children}
}

// --- Values ----------------------------------------------------------------

// ValuesEqual compares two leaf values.
func ValuesEqual(a, b interface{}) bool {
	switch x := a.(type) {
	case decimal.Decimal:
		y, ok := b.(decimal.Decimal)
		return ok && x.Equal(y)
	case []byte:
		y, ok := b.([]byte)
		return ok && bytes.Equal(x, y)
	}
	return reflect.DeepEqual(a, b)
}
