package schema

import (
	"fmt"

	"github.com/npillmayer/yangtree/yid"
	"golang.org/x/exp/slices"
)

// Kind enumerates the structural kinds of schema nodes.
type Kind int8

const (
	LeafKind Kind = iota
	LeafListKind
	ContainerKind
	ListKind
	ChoiceKind
	CaseKind
	AugmentationKind
)

var kindNames = [...]string{"leaf", "leaf-list", "container", "list", "choice", "case", "augmentation"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Node is a node of a schema tree. Nodes are built with the constructor functions of
// this package and are considered immutable once they are part of a Context.
type Node struct {
	name          yid.QName
	kind          Kind
	typ           Type
	mandatory     bool
	presence      bool
	keys          []yid.QName
	children      []*Node // data children; cases for choices
	augmentations []*Node
}

// Leaf creates a leaf schema node.
func Leaf(name string, t Type) *Node {
	return &Node{name: yid.Name(name), kind: LeafKind, typ: t}
}

// LeafList creates a leaf-list schema node.
func LeafList(name string, t Type) *Node {
	return &Node{name: yid.Name(name), kind: LeafListKind, typ: t}
}

// Container creates a (non-presence) container schema node.
func Container(name string, children ...*Node) *Node {
	return &Node{name: yid.Name(name), kind: ContainerKind, children: children}
}

// List creates a list schema node, with entries identified by key leafs.
func List(name string, keys []string, children ...*Node) *Node {
	n := &Node{name: yid.Name(name), kind: ListKind, children: children}
	for _, k := range keys {
		n.keys = append(n.keys, yid.Name(k))
	}
	return n
}

// Choice creates a choice schema node. All children have to be cases.
func Choice(name string, cases ...*Node) *Node {
	return &Node{name: yid.Name(name), kind: ChoiceKind, children: cases}
}

// Case creates a case of a choice.
func Case(name string, children ...*Node) *Node {
	return &Node{name: yid.Name(name), kind: CaseKind, children: children}
}

// Required marks a leaf as mandatory.
func (n *Node) Required() *Node {
	n.mandatory = true
	return n
}

// WithPresence marks a container as presence container.
func (n *Node) WithPresence() *Node {
	n.presence = true
	return n
}

// Augmented attaches an augmentation, contributing children to a container, a list
// or a case.
func (n *Node) Augmented(children ...*Node) *Node {
	n.augmentations = append(n.augmentations, &Node{kind: AugmentationKind, children: children})
	return n
}

// --- Accessors -------------------------------------------------------------

func (n *Node) Name() yid.QName   { return n.name }
func (n *Node) Kind() Kind        { return n.kind }
func (n *Node) Type() Type        { return n.typ }
func (n *Node) IsMandatory() bool { return n.mandatory }
func (n *Node) IsPresence() bool  { return n.presence }

// Keys returns the key leaf names of a list.
func (n *Node) Keys() []yid.QName { return slices.Clone(n.keys) }

// Children returns the schema children; for choices these are the cases.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Augmentations returns the augmentations attached to n.
func (n *Node) Augmentations() []*Node { return slices.Clone(n.augmentations) }

// Child finds a data child by name. For choices, the children of all cases are searched.
// Children contributed by augmentations are not found; they have to be addressed through
// their augmentation.
func (n *Node) Child(name yid.QName) (*Node, bool) {
	if n.kind == ChoiceKind {
		if c, found := n.CaseOf(name); found {
			return c.Child(name)
		}
		return nil, false
	}
	for _, ch := range n.children {
		if ch.name == name {
			return ch, true
		}
	}
	return nil, false
}

// Case returns the case of a choice named name.
func (n *Node) Case(name yid.QName) (*Node, bool) {
	if n.kind != ChoiceKind {
		return nil, false
	}
	for _, c := range n.children {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

// CaseOf returns the case of a choice which contains a data child named name.
func (n *Node) CaseOf(name yid.QName) (*Node, bool) {
	if n.kind != ChoiceKind {
		return nil, false
	}
	for _, c := range n.children {
		for _, ch := range c.children {
			if ch.name == name {
				return c, true
			}
		}
	}
	return nil, false
}

// Augmentation finds the augmentation identified by id.
func (n *Node) Augmentation(id yid.AugmentationIdentifier) (*Node, bool) {
	for _, aug := range n.augmentations {
		if yid.Equal(aug.AugmentationIdentifier(), id) {
			return aug, true
		}
	}
	return nil, false
}

// AugmentationIdentifier returns the path argument addressing an augmentation.
func (n *Node) AugmentationIdentifier() yid.AugmentationIdentifier {
	names := make([]yid.QName, len(n.children))
	for i, ch := range n.children {
		names[i] = ch.name
	}
	return yid.NewAugmentationIdentifier(names...)
}

// MandatoryLeaves collects the paths to all leafs of n which have to be present in
// data for n. Keys of lists are mandatory. Paths descend into non-presence containers,
// but not into lists, choices or presence containers.
func (n *Node) MandatoryLeaves() []yid.Path {
	var paths []yid.Path
	if n.kind == ListKind {
		for _, k := range n.keys {
			paths = append(paths, yid.Path{yid.NewNodeIdentifier(k)})
		}
	}
	type frame struct {
		node *Node
		path yid.Path
	}
	stack := []frame{{node: n, path: yid.RootPath}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, ch := range top.node.children {
			switch {
			case ch.kind == LeafKind && ch.mandatory:
				if n.kind == ListKind && top.node == n && slices.Contains(n.keys, ch.name) {
					continue // already collected as key
				}
				paths = append(paths, top.path.Append(yid.NewNodeIdentifier(ch.name)))
			case ch.kind == ContainerKind && !ch.presence:
				stack = append(stack, frame{node: ch, path: top.path.Append(yid.NewNodeIdentifier(ch.name))})
			}
		}
	}
	return paths
}

func (n *Node) String() string {
	return fmt.Sprintf("(%s %s)", n.kind, n.name)
}

// inNamespace sets the namespace for n and all of its descendants.
func (n *Node) inNamespace(namespace string) {
	stack := []*Node{n}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.kind != AugmentationKind {
			top.name = yid.NewQName(namespace, top.name.Local)
		}
		for i, k := range top.keys {
			top.keys[i] = yid.NewQName(namespace, k.Local)
		}
		stack = append(stack, top.children...)
		stack = append(stack, top.augmentations...)
	}
}
