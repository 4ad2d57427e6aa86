package datatree

import (
	"sync"

	"github.com/npillmayer/yangtree/data"
	"github.com/npillmayer/yangtree/datatree/candidate"
	"github.com/npillmayer/yangtree/datatree/treenode"
	"github.com/npillmayer/yangtree/schema"
	"github.com/npillmayer/yangtree/yid"
	"github.com/pkg/errors"
)

// RootIdentifier identifies the root node of every data tree.
var RootIdentifier = yid.NewNodeIdentifier(yid.QName{})

// Listener receives the candidate of every commit to a data tree.
type Listener func(candidate.Candidate)

// DataTree is an in-memory, versioned data tree. The root node of a data tree always
// exists, as an empty container for a fresh tree.
//
// Readers work on snapshots and never block commits. Commits are serialized.
type DataTree struct {
	props
	mu        sync.RWMutex
	holder    *LatestOperationHolder
	schemaCtx *schema.Context
	root      *treenode.TreeNode
	listeners []registration
	nextID    int
}

type registration struct {
	id int
	l  Listener
}

// New creates an empty data tree.
//
//	tree := datatree.New(datatree.WithSchemaContext(ctx), datatree.WithTreeType(datatree.Operational))
func New(opts ...Option) *DataTree {
	var p props
	for _, option := range opts {
		p = option.config(p)
	}
	t := &DataTree{
		props:  p,
		holder: NewLatestOperationHolder(),
		root:   treenode.New(data.Empty(data.ContainerKind, RootIdentifier), treenode.Initial),
	}
	if p.schema != nil {
		t.SetSchemaContext(p.schema)
	}
	return t
}

// TreeType returns the type of the tree.
func (t *DataTree) TreeType() TreeType {
	return t.treeType
}

// SetSchemaContext attaches a new schema context. Modifications opened afterwards, and
// modifications without any operations yet, will use it.
func (t *DataTree) SetSchemaContext(ctx *schema.Context) {
	op := NewApplyOperation(ctx, t.treeType, t.deletePolicy)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.schemaCtx = ctx
	t.holder.SetCurrent(op)
}

// SchemaContext returns the schema context attached last, or nil.
func (t *DataTree) SchemaContext() *schema.Context {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.schemaCtx
}

// Version returns the version of the latest commit.
func (t *DataTree) Version() treenode.Version {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root.SubtreeVersion()
}

// TakeSnapshot returns an immutable snapshot of the current state of the tree.
func (t *DataTree) TakeSnapshot() *Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return &Snapshot{root: t.root, op: t.holder.NewSnapshot(), schemaCtx: t.schemaCtx}
}

// RegisterListener registers a listener for candidates of future commits. The function
// returned unregisters the listener.
func (t *DataTree) RegisterListener(l Listener) (unregister func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	id := t.nextID
	t.listeners = append(t.listeners, registration{id: id, l: l})
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, reg := range t.listeners {
			if reg.id == id {
				t.listeners = append(t.listeners[:i:i], t.listeners[i+1:]...)
				return
			}
		}
	}
}

func (t *DataTree) currentRoot() *treenode.TreeNode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root
}

// Validate checks if a ready modification can be applied to the current state of the tree.
// Failures are of type *ValidationError.
func (t *DataTree) Validate(m *Modification) error {
	if !m.sealed {
		return ErrModificationNotReady
	}
	return m.validate(t.currentRoot())
}

// CandidateTip is a prepared modification, ready to be committed.
type CandidateTip struct {
	candidate candidate.Candidate
	base      *treenode.TreeNode
	root      *treenode.TreeNode
}

// Candidate returns the changes the tip will commit.
func (tip *CandidateTip) Candidate() candidate.Candidate {
	return tip.candidate
}

// Root returns the root data node the tree will have after committing the tip.
func (tip *CandidateTip) Root() data.Node {
	return tip.root.Data()
}

// Version returns the version the tree will have after committing the tip.
func (tip *CandidateTip) Version() treenode.Version {
	return tip.root.SubtreeVersion()
}

// Prepare applies a modification to the current state of the tree, without publishing
// the result. Modifications not yet validated against the current state are validated
// first.
func (t *DataTree) Prepare(m *Modification) (*CandidateTip, error) {
	if !m.sealed {
		return nil, ErrModificationNotReady
	}
	base := t.currentRoot()
	if m.validated != base {
		if err := m.validate(base); err != nil {
			return nil, err
		}
	}
	v := base.SubtreeVersion().Next()
	root, err := m.op.Apply(m.root, base, v)
	if err != nil {
		return nil, errors.Wrap(err, "prepare")
	}
	assertThat(root != nil, "modification removed the root node")
	tracer().Debugf("prepared modification at %s", v)
	return &CandidateTip{
		candidate: candidate.New(yid.RootPath, candidateNode(m.root, base, root)),
		base:      base,
		root:      root,
	}, nil
}

// Commit publishes a prepared tip and notifies listeners. Committing fails if the tree
// has changed since the tip was prepared.
func (t *DataTree) Commit(tip *CandidateTip) error {
	t.mu.Lock()
	if t.root != tip.base {
		t.mu.Unlock()
		return ErrStalePreparation
	}
	t.root = tip.root
	listeners := make([]Listener, len(t.listeners))
	for i, reg := range t.listeners {
		listeners[i] = reg.l
	}
	t.mu.Unlock()
	tracer().Infof("committed version %s", tip.Version())
	for _, l := range listeners {
		l(tip.candidate)
	}
	return nil
}

// Snapshot is an immutable state of a data tree.
type Snapshot struct {
	root      *treenode.TreeNode
	op        RootApplyOperation
	schemaCtx *schema.Context
}

// SchemaContext returns the schema context of the snapshot, or nil.
func (s *Snapshot) SchemaContext() *schema.Context {
	return s.schemaCtx
}

// Version returns the version of the snapshot.
func (s *Snapshot) Version() treenode.Version {
	return s.root.SubtreeVersion()
}

// ReadNode returns the data node at path, if present.
func (s *Snapshot) ReadNode(path yid.Path) (data.Node, bool) {
	n, found := treenode.Find(s.root, path)
	if !found {
		return nil, false
	}
	return n.Data(), true
}

// NewModification opens a modification based on the snapshot.
func (s *Snapshot) NewModification() *Modification {
	return &Modification{
		snapshot: s,
		op:       RootFrom(s.op),
		root:     newModifiedNode(RootIdentifier, s.root),
	}
}
