package datatree

import (
	"github.com/npillmayer/yangtree/data"
	"github.com/npillmayer/yangtree/datatree/candidate"
	"github.com/npillmayer/yangtree/datatree/treenode"
)

// candidateNode creates the candidate node for an applied modification, from the
// tree nodes before and after applying it (either of which may be nil).
func candidateNode(mod *ModifiedNode, before, after *treenode.TreeNode) candidate.Node {
	dBefore, dAfter := dataOf(before), dataOf(after)
	switch mod.op {
	case OpNone:
		return candidate.NewUnmodified(mod.id, dBefore)
	case OpDelete:
		if dBefore == nil {
			return candidate.NewUnmodified(mod.id, nil)
		}
		return candidate.Deleted(mod.id, dBefore)
	}
	switch {
	case dAfter == nil && dBefore == nil:
		return candidate.NewUnmodified(mod.id, nil)
	case dAfter == nil:
		return candidate.Deleted(mod.id, dBefore)
	case dAfter == dBefore:
		return candidate.NewUnmodified(mod.id, dBefore)
	}
	switch mod.op {
	case OpWrite:
		return candidate.Written(mod.id, dBefore, dAfter, deltaChildren(dBefore, dAfter))
	case OpMerge:
		if dBefore == nil {
			return candidate.Written(mod.id, nil, dAfter, deltaChildren(nil, dAfter))
		}
		return candidate.ModifiedLazily(mod.id, dBefore, dAfter, deltaChildren(dBefore, dAfter))
	}
	// touched: the changes are described by the modified children
	var children []candidate.Node
	expected := 0
	if before != nil {
		expected = before.ChildCount()
	}
	mod.EachChild(func(cm *ModifiedNode) bool {
		var b, a *treenode.TreeNode
		if before != nil {
			if b, _ = before.Child(cm.id); b != nil {
				expected--
			}
		}
		if a, _ = after.Child(cm.id); a != nil {
			expected++
		}
		children = append(children, candidateNode(cm, b, a))
		return true
	})
	if before != nil && after.ChildCount() != expected {
		// choices drop the children of replaced cases
		children = append(children, droppedChildren(mod, before, after)...)
	}
	return candidate.Modified(mod.id, dBefore, dAfter, children)
}

func dataOf(n *treenode.TreeNode) data.Node {
	if n == nil {
		return nil
	}
	return n.Data()
}

// droppedChildren returns delete candidates for children of before which have been
// removed without being modified themselves.
func droppedChildren(mod *ModifiedNode, before, after *treenode.TreeNode) []candidate.Node {
	var dropped []candidate.Node
	before.EachChild(func(ch *treenode.TreeNode) bool {
		if _, modified := mod.Child(ch.Identifier()); modified {
			return true
		}
		if _, found := after.Child(ch.Identifier()); !found {
			dropped = append(dropped, candidate.Deleted(ch.Identifier(), ch.Data()))
		}
		return true
	})
	return dropped
}

// deltaChildren derives child candidates from comparing two data nodes. Children shared
// by both nodes are unchanged and not reported. Candidates are produced on demand.
func deltaChildren(before, after data.Node) candidate.ChildrenFunc {
	pa, ok := after.(*data.Parent)
	if !ok {
		return nil
	}
	pb, _ := before.(*data.Parent)
	return func() []candidate.Node {
		var delta []candidate.Node
		pa.EachChild(func(ch data.Node) bool {
			var old data.Node
			if pb != nil {
				old, _ = pb.Child(ch.Identifier())
			}
			switch {
			case old == ch:
				// shared
			case old != nil && sameParentKind(old, ch):
				delta = append(delta, candidate.ModifiedLazily(ch.Identifier(), old, ch, deltaChildren(old, ch)))
			default:
				delta = append(delta, candidate.Written(ch.Identifier(), old, ch, deltaChildren(old, ch)))
			}
			return true
		})
		if pb != nil {
			pb.EachChild(func(ch data.Node) bool {
				if _, found := pa.Child(ch.Identifier()); !found {
					delta = append(delta, candidate.Deleted(ch.Identifier(), ch))
				}
				return true
			})
		}
		return delta
	}
}

func sameParentKind(a, b data.Node) bool {
	_, ok1 := a.(*data.Parent)
	_, ok2 := b.(*data.Parent)
	return ok1 && ok2 && a.Kind() == b.Kind()
}
