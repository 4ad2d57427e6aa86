package schema

import (
	"github.com/npillmayer/yangtree/yid"
	"github.com/pkg/errors"
)

// Context is a complete schema, rooted at a conceptual top-level container.
type Context struct {
	namespace string
	root      *Node
}

// NewContext creates a schema context for top-level schema nodes. Every node is put
// into namespace. NewContext panics if the schema is inconsistent; use Build to check
// for errors.
func NewContext(namespace string, nodes ...*Node) *Context {
	ctx, err := Build(namespace, nodes...)
	if err != nil {
		panic(err.Error())
	}
	return ctx
}

// Build creates a schema context for top-level schema nodes, checking the schema for
// consistency.
func Build(namespace string, nodes ...*Node) (*Context, error) {
	root := &Node{kind: ContainerKind, children: nodes}
	root.inNamespace(namespace)
	root.name = yid.QName{}
	if err := check(root); err != nil {
		return nil, err
	}
	tracer().Debugf("schema context for namespace %q with %d top-level nodes", namespace, len(nodes))
	return &Context{namespace: namespace, root: root}, nil
}

// Namespace returns the namespace of all nodes of the context.
func (ctx *Context) Namespace() string {
	return ctx.namespace
}

// Root returns the conceptual root container.
func (ctx *Context) Root() *Node {
	return ctx.root
}

// ForPath finds the schema node for a data path. Map entries and leaf-set entries map to
// their list or leaf-list schema node, augmentation identifiers to the augmentation.
func (ctx *Context) ForPath(path yid.Path) (*Node, bool) {
	current := ctx.root
	for _, arg := range path {
		next, found := ChildFor(current, arg)
		if !found {
			return nil, false
		}
		current = next
	}
	return current, true
}

// ChildFor resolves a single step of a data path.
func ChildFor(n *Node, arg yid.PathArgument) (*Node, bool) {
	switch id := arg.(type) {
	case yid.AugmentationIdentifier:
		return n.Augmentation(id)
	case yid.NodeIdentifierWithPredicates:
		if n.kind == ListKind && n.name == id.NodeType() {
			return n, true
		}
	case yid.NodeWithValue:
		if n.kind == LeafListKind && n.name == id.NodeType() {
			return n, true
		}
	}
	return n.Child(arg.NodeType())
}

func check(root *Node) error {
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch n.kind {
		case LeafKind, LeafListKind:
			if !n.typ.valid() {
				return errors.Wrapf(ErrInvalidSchema, "%s has invalid type %q", n, n.typ)
			}
		case ListKind:
			for _, k := range n.keys {
				key, found := n.Child(k)
				if !found || key.kind != LeafKind {
					return errors.Wrapf(ErrInvalidSchema, "key %s of %s is not a leaf", k, n)
				}
			}
		case ChoiceKind:
			for _, c := range n.children {
				if c.kind != CaseKind {
					return errors.Wrapf(ErrInvalidSchema, "choice %s has non-case child %s", n, c)
				}
			}
		case CaseKind:
			for _, ch := range n.children {
				if ch.kind == CaseKind {
					return errors.Wrapf(ErrInvalidSchema, "case %s must not contain cases", n)
				}
			}
		}
		if n.kind != ChoiceKind && n.kind != CaseKind {
			seen := map[yid.QName]bool{}
			for _, ch := range n.children {
				if ch.kind == CaseKind {
					return errors.Wrapf(ErrInvalidSchema, "case %s outside of choice", ch)
				}
				if seen[ch.name] {
					return errors.Wrapf(ErrInvalidSchema, "duplicate child %s of %s", ch.name, n)
				}
				seen[ch.name] = true
			}
		}
		for _, aug := range n.augmentations {
			if n.kind != ContainerKind && n.kind != ListKind && n.kind != CaseKind {
				return errors.Wrapf(ErrInvalidSchema, "%s cannot be augmented", n)
			}
			if len(aug.children) == 0 {
				return errors.Wrapf(ErrInvalidSchema, "empty augmentation of %s", n)
			}
		}
		stack = append(stack, n.children...)
		stack = append(stack, n.augmentations...)
	}
	return nil
}
