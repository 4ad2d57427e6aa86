package data

import (
	"fmt"

	"github.com/npillmayer/yangtree/yid"
	tp "github.com/xlab/treeprint"
)

// DirectChild returns the child of node identified by arg. Leaf-like nodes have no children.
func DirectChild(node Node, arg yid.PathArgument) (Node, bool) {
	if p, ok := node.(*Parent); ok {
		return p.Child(arg)
	}
	return nil, false
}

// FindNode follows a relative path, starting at root.
func FindNode(root Node, path yid.Path) (Node, bool) {
	current := root
	for _, arg := range path {
		if current == nil {
			return nil, false
		}
		var found bool
		if current, found = DirectChild(current, arg); !found {
			return nil, false
		}
	}
	return current, current != nil
}

// Equal compares two data trees structurally. It walks the trees with an explicit stack,
// so deep trees do not exhaust the call stack.
func Equal(a, b Node) bool {
	type pair struct{ a, b Node }
	stack := []pair{{a, b}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.a == top.b {
			continue // shared subtree
		}
		if top.a == nil || top.b == nil {
			return false
		}
		if top.a.Kind() != top.b.Kind() || !yid.Equal(top.a.Identifier(), top.b.Identifier()) {
			return false
		}
		switch x := top.a.(type) {
		case *Leaf:
			if !ValuesEqual(x.value, top.b.(*Leaf).value) {
				return false
			}
		case *Parent:
			y := top.b.(*Parent)
			if x.ChildCount() != y.ChildCount() {
				return false
			}
			equal := true
			x.children.Each(func(key string, ch Node) bool {
				other, found := y.children.Find(key)
				if !found {
					equal = false
					return false
				}
				stack = append(stack, pair{ch, other})
				return true
			})
			if !equal {
				return false
			}
		}
	}
	return true
}

// Merge overlays data onto base. Parents of the same kind are merged child by child,
// everything else is replaced by overlay. Children of base not mentioned in overlay are
// shared with the result.
func Merge(base, overlay Node) Node {
	if base == nil {
		return overlay
	}
	bp, ok1 := base.(*Parent)
	op, ok2 := overlay.(*Parent)
	if !ok1 || !ok2 || bp.kind != op.kind {
		return overlay
	}
	b := BuilderFrom(bp)
	op.EachChild(func(ch Node) bool {
		if existing, found := bp.Child(ch.Identifier()); found {
			b.With(Merge(existing, ch))
		} else {
			b.With(ch)
		}
		return true
	})
	return b.Build()
}

// ToStringTree converts a data subtree into a human-readable string.
func ToStringTree(node Node) string {
	if node == nil {
		return "<nil>"
	}
	printer := tp.New()
	printer.SetValue(label(node))
	if p, ok := node.(*Parent); ok {
		printChildren(printer, p)
	}
	return printer.String()
}

func printChildren(branch tp.Tree, p *Parent) {
	p.EachChild(func(ch Node) bool {
		if chp, ok := ch.(*Parent); ok {
			printChildren(branch.AddBranch(label(chp)), chp)
		} else {
			branch.AddNode(label(ch))
		}
		return true
	})
}

func label(node Node) string {
	switch n := node.(type) {
	case *Leaf:
		if n.kind == LeafSetEntryKind {
			return fmt.Sprintf("%v", n.value)
		}
		return fmt.Sprintf("%s = %v", n.id, n.value)
	case *Parent:
		switch id := n.id.(type) {
		case yid.AugmentationIdentifier:
			return "augmentation"
		case yid.NodeIdentifierWithPredicates:
			return id.String()
		}
		return n.id.String()
	}
	return fmt.Sprintf("%v", node)
}
