package datatree

import (
	"sync"

	"github.com/npillmayer/yangtree/data"
	"github.com/npillmayer/yangtree/datatree/treenode"
	"github.com/npillmayer/yangtree/schema"
	"github.com/npillmayer/yangtree/yid"
	"github.com/pkg/errors"
)

// parentStrategy applies modifications to nodes with children: containers, maps, map
// entries, leaf-sets, choices and augmentations. The kinds differ in how children are
// resolved and in the checks run after applying.
type parentStrategy struct {
	r          *resolver
	sn         *schema.Node
	kind       data.Kind
	structural bool               // touching an absent node creates it
	entries    ApplyOperation     // maps and leaf-sets: the operation shared by all entries
	children   sync.Map           // child key → ApplyOperation
	enforcer   *mandatoryEnforcer // map entries of configuration trees
}

func newParentStrategy(r *resolver, sn *schema.Node, kind data.Kind) *parentStrategy {
	return &parentStrategy{r: r, sn: sn, kind: kind, structural: kind != data.MapEntryKind}
}

func newContainerStrategy(r *resolver, sn *schema.Node) ApplyOperation {
	s := newParentStrategy(r, sn, data.ContainerKind)
	s.structural = !sn.IsPresence()
	return s
}

func newAugmentationStrategy(r *resolver, sn *schema.Node) ApplyOperation {
	return newParentStrategy(r, sn, data.AugmentationKind)
}

func newMapStrategy(r *resolver, sn *schema.Node) ApplyOperation {
	s := newParentStrategy(r, sn, data.MapKind)
	s.entries = newListEntryStrategy(r, sn)
	return s
}

func (s *parentStrategy) String() string {
	return s.kind.String() + " strategy for " + s.sn.Name().String()
}

// Child resolves the operation for a child node. Operations for children are created on
// first use and cached.
func (s *parentStrategy) Child(id yid.PathArgument) (ApplyOperation, bool) {
	switch s.kind {
	case data.MapKind:
		entry, ok := id.(yid.NodeIdentifierWithPredicates)
		if !ok || entry.NodeType() != s.sn.Name() || !hasKeys(entry, s.sn.Keys()) {
			return nil, false
		}
		return s.entries, true
	case data.LeafSetKind:
		entry, ok := id.(yid.NodeWithValue)
		if !ok || entry.NodeType() != s.sn.Name() {
			return nil, false
		}
		return s.entries, true
	}
	if op, ok := s.children.Load(id.Key()); ok {
		return op.(ApplyOperation), true
	}
	var sn *schema.Node
	var found bool
	switch id := id.(type) {
	case yid.AugmentationIdentifier:
		sn, found = s.sn.Augmentation(id)
	case yid.NodeIdentifier:
		sn, found = s.sn.Child(id.NodeType())
	}
	if !found {
		return nil, false
	}
	op, ok := s.r.strategyFor(sn)
	if !ok {
		return nil, false
	}
	actual, _ := s.children.LoadOrStore(id.Key(), op)
	return actual.(ApplyOperation), true
}

func hasKeys(id yid.NodeIdentifierWithPredicates, keys []yid.QName) bool {
	kvs := id.KeyValues()
	if len(kvs) != len(keys) {
		return false
	}
	for _, k := range keys {
		if _, found := id.Value(k); !found {
			return false
		}
	}
	return true
}

// --- Validation ------------------------------------------------------------

func (s *parentStrategy) CheckApplicable(path yid.Path, mod *ModifiedNode, current *treenode.TreeNode) error {
	switch mod.op {
	case OpNone:
		return nil
	case OpDelete:
		return s.r.checkDeleteApplicable(path, mod, current)
	case OpWrite:
		if err := checkNotConflicting(path, mod.original, current); err != nil {
			return err
		}
		return s.checkByApplying(path, mod, current)
	case OpMerge:
		if err := s.checkByApplying(path, mod, current); err != nil || current == nil {
			return err
		}
	case OpTouch:
		if current == nil && !(s.r.policy == TolerateAbsent && mod.onlyDeletes()) {
			if mod.original != nil {
				return validationError(path, ErrNodeDoesNotExist, "node was deleted by other transaction")
			}
			if !s.structural {
				return validationError(path, ErrNodeDoesNotExist, "cannot modify children of absent node")
			}
		}
	}
	if err := s.checkChildren(path, mod, current); err != nil {
		return err
	}
	if s.kind == data.ChoiceKind {
		if cases := s.newCases(mod); len(cases) > 1 {
			return validationError(path, ErrMultipleCases, "cases %v modified together", cases)
		}
	}
	if s.enforcer != nil {
		return s.checkByApplying(path, mod, current)
	}
	return nil
}

func (s *parentStrategy) checkChildren(path yid.Path, mod *ModifiedNode, current *treenode.TreeNode) error {
	var err error
	mod.EachChild(func(cm *ModifiedNode) bool {
		op, ok := s.Child(cm.id)
		assertThat(ok, "no apply operation for modified child %s", cm.id)
		var cur *treenode.TreeNode
		if current != nil {
			cur, _ = current.Child(cm.id)
		}
		err = op.CheckApplicable(path.Append(cm.id), cm, cur)
		return err == nil
	})
	return err
}

// checkByApplying applies mod to a scratch result, to find failures which show only in
// the complete new node.
func (s *parentStrategy) checkByApplying(path yid.Path, mod *ModifiedNode, current *treenode.TreeNode) error {
	_, err := s.Apply(mod, current, treenode.Initial)
	if err == nil {
		return nil
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return err
	}
	tracer().Errorf("validation failed at %s: %v", path, err)
	return &ValidationError{Path: path, Err: err}
}

// --- Applying --------------------------------------------------------------

func (s *parentStrategy) Apply(mod *ModifiedNode, current *treenode.TreeNode, v treenode.Version) (*treenode.TreeNode, error) {
	var base *treenode.TreeNode
	created := false
	switch mod.op {
	case OpNone:
		return current, nil
	case OpDelete:
		return nil, nil
	case OpWrite:
		if mod.value == nil {
			base = treenode.New(data.Empty(s.kind, mod.id), v)
			break
		}
		base = treenode.New(mod.value, v)
		if err := s.r.enforceMandatory(s, base); err != nil {
			return nil, err
		}
	case OpMerge:
		var err error
		if base, err = treenode.MergeWith(current, mod.value, v, mergeVisitor{s}); err != nil {
			return nil, err
		}
	case OpTouch:
		if base = current; base == nil {
			if !s.structural && !(s.r.policy == TolerateAbsent && mod.onlyDeletes()) {
				return nil, errors.Wrapf(ErrNodeDoesNotExist, "cannot modify children of absent node %s", mod.id)
			}
			base, created = treenode.New(data.Empty(s.kind, mod.id), v), true
		}
	}
	tracer().Debugf("apply %s to %s at %s", mod.op, mod.id, v)
	m := base.Mutable()
	if err := s.applyChildren(mod, base, m, v); err != nil {
		return nil, err
	}
	if s.kind == data.ChoiceKind {
		if err := s.enforceSingleCase(mod, m); err != nil {
			return nil, err
		}
	}
	if mod.op == OpTouch && !created && !m.Changed() {
		return current, nil
	}
	if mod.op != OpTouch {
		m.SetVersion(v)
	}
	m.SetSubtreeVersion(v)
	if created && m.ChildCount() == 0 {
		return nil, nil // nothing left of an implicitly created node
	}
	node := m.Seal()
	if s.enforcer != nil {
		if err := s.enforcer.enforce(node.Data()); err != nil {
			return nil, err
		}
	}
	return node, nil
}

func (s *parentStrategy) applyChildren(mod *ModifiedNode, base *treenode.TreeNode, m *treenode.Mutable,
	v treenode.Version) error {
	//
	var err error
	mod.EachChild(func(cm *ModifiedNode) bool {
		op, ok := s.Child(cm.id)
		assertThat(ok, "no apply operation for modified child %s", cm.id)
		before, _ := base.Child(cm.id)
		var after *treenode.TreeNode
		if after, err = op.Apply(cm, before, v); err != nil {
			return false
		}
		if after == nil {
			m.RemoveChild(cm.id)
		} else if after != before {
			m.SetChild(after)
		}
		return true
	})
	return err
}

// mergeVisitor follows a data merge with the apply operations of the merged nodes, so
// choices and map entries nested in merged data are checked like modified ones.
type mergeVisitor struct {
	op ApplyOperation
}

func (v mergeVisitor) Child(id yid.PathArgument) treenode.MergeVisitor {
	op, ok := v.op.Child(id)
	assertThat(ok, "no apply operation for merged child %s", id)
	return mergeVisitor{op}
}

func (v mergeVisitor) Merged(m *treenode.Mutable, overlay *data.Parent) error {
	if s, ok := v.op.(*parentStrategy); ok && s.kind == data.ChoiceKind {
		return s.keepSingleCase(overlay.Identifier(), s.casesOf(overlay), m)
	}
	return nil
}

func (v mergeVisitor) Sealed(n *treenode.TreeNode) error {
	if s, ok := v.op.(*parentStrategy); ok && s.enforcer != nil {
		return s.enforcer.enforce(n.Data())
	}
	return nil
}

func (v mergeVisitor) Created(n *treenode.TreeNode) error {
	if s, ok := v.op.(*parentStrategy); ok {
		return s.r.enforceMandatory(s, n)
	}
	return nil
}

// --- Structure -------------------------------------------------------------

func (s *parentStrategy) VerifyStructure(d data.Node) error {
	return verifyTree(s, d)
}

func (s *parentStrategy) verifyNode(d data.Node) error {
	if err := checkIdentifier(d, s.sn, s.kind); err != nil {
		return err
	}
	switch s.kind {
	case data.MapEntryKind:
		return verifyEntryKeys(d.(*data.Parent), s.sn)
	case data.AugmentationKind:
		if !yid.Equal(d.Identifier(), s.sn.AugmentationIdentifier()) {
			return errors.Wrapf(ErrSchemaMismatch, "augmentation %s does not match %s",
				d.Identifier(), s.sn.AugmentationIdentifier())
		}
	case data.ChoiceKind:
		if cases := s.casesOf(d.(*data.Parent)); len(cases) > 1 {
			return errors.Wrapf(ErrMultipleCases, "choice %s holds data for cases %v", d.Identifier(), cases)
		}
	}
	return nil
}

// verifyEntryKeys checks that key leafs present in a map entry carry the values of the
// entry's key predicates.
func verifyEntryKeys(entry *data.Parent, sn *schema.Node) error {
	id, ok := entry.Identifier().(yid.NodeIdentifierWithPredicates)
	if !ok || !hasKeys(id, sn.Keys()) {
		return errors.Wrapf(ErrSchemaMismatch, "%s is not a valid identifier for entries of %s", entry.Identifier(), sn.Name())
	}
	for _, kv := range id.KeyValues() {
		leaf, found := entry.Child(yid.NewNodeIdentifier(kv.Name))
		if !found {
			continue
		}
		if l, ok := leaf.(*data.Leaf); !ok || !data.ValuesEqual(l.Value(), kv.Value) {
			return errors.Wrapf(ErrSchemaMismatch, "key %s of %s does not match its predicate", kv.Name, id)
		}
	}
	return nil
}
