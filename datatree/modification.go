package datatree

import (
	"github.com/npillmayer/yangtree/data"
	"github.com/npillmayer/yangtree/datatree/candidate"
	"github.com/npillmayer/yangtree/datatree/treenode"
	"github.com/npillmayer/yangtree/yid"
	"github.com/pkg/errors"
)

// Modification collects writes, merges and deletes against a snapshot. Written data is
// checked against the schema at once; checks against the state of the tree are done by
// DataTree.Validate.
//
// A modification is not safe for concurrent use.
type Modification struct {
	snapshot  *Snapshot
	op        RootApplyOperation
	root      *ModifiedNode
	sealed    bool
	validated *treenode.TreeNode // tree root the modification has last been validated against
}

// Snapshot returns the snapshot the modification is based on.
func (m *Modification) Snapshot() *Snapshot {
	return m.snapshot
}

// RootModification returns the root of the pending modifications.
func (m *Modification) RootModification() *ModifiedNode {
	return m.root
}

// upgradeIfPossible picks up a new schema as long as nothing has been recorded.
func (m *Modification) upgradeIfPossible() {
	if m.root.op == OpNone {
		m.op.UpgradeIfPossible()
	}
}

// Write replaces the node at path with d.
func (m *Modification) Write(path yid.Path, d data.Node) error {
	if err := m.checkWritable(path, d); err != nil {
		return err
	}
	tracer().Debugf("write %s", path)
	m.modify(path).write(d)
	return nil
}

// Merge merges d into the node at path. If there is no node at path, merging is writing.
func (m *Modification) Merge(path yid.Path, d data.Node) error {
	if err := m.checkWritable(path, d); err != nil {
		return err
	}
	tracer().Debugf("merge %s", path)
	m.modify(path).merge(d)
	return nil
}

// Delete removes the node at path. The root node cannot be deleted.
func (m *Modification) Delete(path yid.Path) error {
	if m.sealed {
		return ErrModificationSealed
	}
	if path.IsEmpty() {
		return ErrRootDelete
	}
	m.upgradeIfPossible()
	if _, err := m.resolve(path); err != nil {
		return err
	}
	tracer().Debugf("delete %s", path)
	m.modify(path).delete()
	return nil
}

func (m *Modification) checkWritable(path yid.Path, d data.Node) error {
	if m.sealed {
		return ErrModificationSealed
	}
	assertThat(d != nil, "cannot write nil data to %s", path)
	m.upgradeIfPossible()
	op, err := m.resolve(path)
	if err != nil {
		return err
	}
	last := yid.PathArgument(RootIdentifier)
	if !path.IsEmpty() {
		last = path.Last()
	}
	if !yid.Equal(d.Identifier(), last) {
		return errors.Wrapf(ErrSchemaMismatch, "cannot write %s to %s", d.Identifier(), path)
	}
	return op.VerifyStructure(d)
}

// resolve finds the apply operation for a path.
func (m *Modification) resolve(path yid.Path) (ApplyOperation, error) {
	var op ApplyOperation = m.op
	for i, arg := range path {
		child, found := op.Child(arg)
		if !found {
			return nil, errors.Wrapf(ErrSchemaMismatch, "no schema node for %s", path[:i+1])
		}
		op = child
	}
	return op, nil
}

// modify returns the modified node for a path, creating modified nodes on the way.
func (m *Modification) modify(path yid.Path) *ModifiedNode {
	mod, current := m.root, m.snapshot.root
	for _, arg := range path {
		var child *treenode.TreeNode
		if current != nil {
			child, _ = current.Child(arg)
		}
		mod, current = mod.modifyChild(arg, child), child
	}
	return mod
}

// ReadNode returns the data at path, as it would be after applying the modification to
// its snapshot.
func (m *Modification) ReadNode(path yid.Path) (data.Node, bool, error) {
	mod, current := m.root, m.snapshot.root
	var op ApplyOperation = m.op
	for i := 0; ; i++ {
		switch {
		case mod == nil || mod.op == OpNone:
			if current == nil {
				return nil, false, nil
			}
			n, found := treenode.Find(current, path[i:])
			if !found {
				return nil, false, nil
			}
			return n.Data(), true, nil
		case mod.op != OpTouch || i == len(path):
			n, err := op.Apply(mod, current, m.snapshot.Version().Next())
			if err != nil || n == nil {
				return nil, false, err
			}
			d, found := data.FindNode(n.Data(), path[i:])
			return d, found, nil
		}
		arg := path[i]
		child, found := op.Child(arg)
		if !found {
			return nil, false, errors.Wrapf(ErrSchemaMismatch, "no schema node for %s", path[:i+1])
		}
		op = child
		mod, _ = mod.Child(arg)
		if current != nil {
			current, _ = current.Child(arg)
		}
	}
}

// Ready seals the modification. Sealed modifications may be validated, prepared and
// committed, but not changed any more.
func (m *Modification) Ready() {
	m.sealed = true
}

// validate checks the modification against a tree root and remembers the root on success.
func (m *Modification) validate(root *treenode.TreeNode) error {
	if err := m.op.CheckApplicable(yid.RootPath, m.root, root); err != nil {
		return err
	}
	m.validated = root
	return nil
}

// IsReady is true for sealed modifications.
func (m *Modification) IsReady() bool {
	return m.sealed
}

// ApplyCandidate replays a candidate onto the modification.
func (m *Modification) ApplyCandidate(c candidate.Candidate) error {
	if c.RootPath().IsEmpty() {
		cursor, err := m.OpenCursor(yid.RootPath)
		if err != nil {
			return err
		}
		return candidate.ApplyRootToCursor(cursor, c.RootNode())
	}
	cursor, err := m.OpenCursor(c.RootPath().Parent())
	if err != nil {
		return err
	}
	return candidate.ApplyToCursor(cursor, c.RootNode())
}
