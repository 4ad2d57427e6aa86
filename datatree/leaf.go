package datatree

import (
	"github.com/npillmayer/yangtree/codec"
	"github.com/npillmayer/yangtree/data"
	"github.com/npillmayer/yangtree/datatree/treenode"
	"github.com/npillmayer/yangtree/schema"
	"github.com/npillmayer/yangtree/yid"
	"github.com/pkg/errors"
)

// leafStrategy applies modifications to leafs and to entries of leaf-sets. Leaf-like
// nodes have no children, so merging is writing.
type leafStrategy struct {
	r    *resolver
	sn   *schema.Node
	kind data.Kind
}

func newLeafStrategy(r *resolver, sn *schema.Node) ApplyOperation {
	return &leafStrategy{r: r, sn: sn, kind: data.LeafKind}
}

func (s *leafStrategy) Child(yid.PathArgument) (ApplyOperation, bool) {
	return nil, false
}

func (s *leafStrategy) CheckApplicable(path yid.Path, mod *ModifiedNode, current *treenode.TreeNode) error {
	switch mod.op {
	case OpNone:
		return nil
	case OpWrite, OpMerge:
		return checkNotConflicting(path, mod.original, current)
	case OpDelete:
		return s.r.checkDeleteApplicable(path, mod, current)
	}
	return validationError(path, ErrSchemaMismatch, "leaf %s cannot have children", s.sn.Name())
}

func (s *leafStrategy) Apply(mod *ModifiedNode, current *treenode.TreeNode, v treenode.Version) (*treenode.TreeNode, error) {
	switch mod.op {
	case OpNone:
		return current, nil
	case OpWrite, OpMerge:
		assertThat(mod.value != nil, "leaf-like node %s written without data", mod.id)
		return treenode.New(mod.value, v), nil
	case OpDelete:
		return nil, nil
	}
	return nil, errors.Wrapf(ErrSchemaMismatch, "leaf %s cannot have children", s.sn.Name())
}

func (s *leafStrategy) VerifyStructure(d data.Node) error {
	return verifyTree(s, d)
}

func (s *leafStrategy) verifyNode(d data.Node) error {
	if err := checkIdentifier(d, s.sn, s.kind); err != nil {
		return err
	}
	leaf := d.(*data.Leaf)
	if s.kind == data.LeafSetEntryKind {
		id, ok := d.Identifier().(yid.NodeWithValue)
		if !ok || !data.ValuesEqual(id.Value(), leaf.Value()) {
			return errors.Wrapf(ErrSchemaMismatch, "leaf-set entry %s has value %v", d.Identifier(), leaf.Value())
		}
	}
	if err := codec.CheckValue(s.sn.Type(), leaf.Value()); err != nil {
		return errors.Wrapf(err, "leaf %s", d.Identifier())
	}
	return nil
}

func newLeafSetStrategy(r *resolver, sn *schema.Node) ApplyOperation {
	s := newParentStrategy(r, sn, data.LeafSetKind)
	s.entries = &leafStrategy{r: r, sn: sn, kind: data.LeafSetEntryKind}
	return s
}
