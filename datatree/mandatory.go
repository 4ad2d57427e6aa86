package datatree

import (
	"github.com/npillmayer/yangtree/data"
	"github.com/npillmayer/yangtree/datatree/treenode"
	"github.com/npillmayer/yangtree/schema"
	"github.com/npillmayer/yangtree/yid"
	"github.com/pkg/errors"
)

// newListEntryStrategy creates the operation shared by all the entries of a map. Entries
// of configuration trees have to carry all of their mandatory leafs.
func newListEntryStrategy(r *resolver, sn *schema.Node) ApplyOperation {
	s := newParentStrategy(r, sn, data.MapEntryKind)
	s.enforcer = newMandatoryEnforcer(sn, r.treeType)
	return s
}

// mandatoryEnforcer checks the presence of mandatory leafs in map entries.
type mandatoryEnforcer struct {
	paths []yid.Path // relative to the entry
}

// newMandatoryEnforcer returns an enforcer for a list, or nil if nothing is to be enforced.
func newMandatoryEnforcer(sn *schema.Node, treeType TreeType) *mandatoryEnforcer {
	if treeType != Configuration {
		return nil
	}
	paths := sn.MandatoryLeaves()
	if len(paths) == 0 {
		return nil
	}
	return &mandatoryEnforcer{paths: paths}
}

func (e *mandatoryEnforcer) enforce(entry data.Node) error {
	for _, p := range e.paths {
		if _, found := data.FindNode(entry, p); !found {
			return errors.Wrapf(ErrMissingMandatory, "entry %s lacks %s", entry.Identifier(), p)
		}
	}
	return nil
}

// enforceMandatory checks all the map entries in the tree below n, including n itself.
func (r *resolver) enforceMandatory(op ApplyOperation, n *treenode.TreeNode) error {
	if r.treeType != Configuration {
		return nil
	}
	type item struct {
		op ApplyOperation
		n  *treenode.TreeNode
	}
	stack := []item{{op, n}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s, ok := top.op.(*parentStrategy)
		if !ok {
			continue
		}
		if s.enforcer != nil {
			if err := s.enforcer.enforce(top.n.Data()); err != nil {
				return err
			}
		}
		top.n.EachChild(func(ch *treenode.TreeNode) bool {
			chop, found := s.Child(ch.Identifier())
			assertThat(found, "no apply operation for child %s", ch.Identifier())
			stack = append(stack, item{chop, ch})
			return true
		})
	}
	return nil
}
