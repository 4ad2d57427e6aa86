package datatree

import (
	"sync/atomic"

	"github.com/npillmayer/yangtree/data"
	"github.com/npillmayer/yangtree/datatree/treenode"
	"github.com/npillmayer/yangtree/yid"
	"github.com/pkg/errors"
)

// RootApplyOperation is the apply operation at the root of a data tree. It forwards to a
// delegate, which may be replaced by an upgrade to the operation for a newer schema
// context. A root operation never changes its delegate except by an explicit call to
// UpgradeIfPossible.
type RootApplyOperation interface {
	ApplyOperation
	// Snapshot returns a root operation bound to the same delegate, with an upgrade
	// lifecycle independent from this one.
	Snapshot() RootApplyOperation
	// UpgradeIfPossible binds the root operation to the latest published delegate.
	UpgradeIfPossible()
	// Delegate returns the operation currently bound.
	Delegate() ApplyOperation
}

// RootFrom returns a root operation for op. Root operations are snapshotted, every other
// operation is wrapped into a root operation which will never be upgraded.
func RootFrom(op ApplyOperation) RootApplyOperation {
	if root, ok := op.(RootApplyOperation); ok {
		return root.Snapshot()
	}
	return &notUpgradable{delegate: op}
}

// --- Upgradable ------------------------------------------------------------

// generation is an operation published by a holder. Generations are compared by identity.
type generation struct {
	op ApplyOperation
}

type upgradable struct {
	holder *LatestOperationHolder
	bound  atomic.Pointer[generation]
}

func newUpgradable(holder *LatestOperationHolder, g *generation) *upgradable {
	u := &upgradable{holder: holder}
	u.bound.Store(g)
	return u
}

func (u *upgradable) Child(id yid.PathArgument) (ApplyOperation, bool) {
	return u.Delegate().Child(id)
}

func (u *upgradable) CheckApplicable(path yid.Path, mod *ModifiedNode, current *treenode.TreeNode) error {
	return u.Delegate().CheckApplicable(path, mod, current)
}

func (u *upgradable) Apply(mod *ModifiedNode, current *treenode.TreeNode, v treenode.Version) (*treenode.TreeNode, error) {
	return u.Delegate().Apply(mod, current, v)
}

func (u *upgradable) VerifyStructure(d data.Node) error {
	return u.Delegate().VerifyStructure(d)
}

func (u *upgradable) Delegate() ApplyOperation {
	return u.bound.Load().op
}

func (u *upgradable) Snapshot() RootApplyOperation {
	return newUpgradable(u.holder, u.bound.Load())
}

func (u *upgradable) UpgradeIfPossible() {
	latest := u.holder.current.Load()
	if bound := u.bound.Load(); bound != latest && u.bound.CompareAndSwap(bound, latest) {
		tracer().Infof("root apply operation upgraded")
	}
}

// --- Not upgradable --------------------------------------------------------

type notUpgradable struct {
	delegate ApplyOperation
}

func (n *notUpgradable) Child(id yid.PathArgument) (ApplyOperation, bool) {
	return n.delegate.Child(id)
}

func (n *notUpgradable) CheckApplicable(path yid.Path, mod *ModifiedNode, current *treenode.TreeNode) error {
	return n.delegate.CheckApplicable(path, mod, current)
}

func (n *notUpgradable) Apply(mod *ModifiedNode, current *treenode.TreeNode, v treenode.Version) (*treenode.TreeNode, error) {
	return n.delegate.Apply(mod, current, v)
}

func (n *notUpgradable) VerifyStructure(d data.Node) error {
	return n.delegate.VerifyStructure(d)
}

func (n *notUpgradable) Snapshot() RootApplyOperation { return n }
func (n *notUpgradable) UpgradeIfPossible()           {}
func (n *notUpgradable) Delegate() ApplyOperation     { return n.delegate }

// --- Holder ----------------------------------------------------------------

// LatestOperationHolder holds the latest root apply operation of a data tree. A fresh holder
// holds an operation which fails every modification, as no schema is attached.
type LatestOperationHolder struct {
	current atomic.Pointer[generation]
}

// NewLatestOperationHolder creates a holder without a schema attached.
func NewLatestOperationHolder() *LatestOperationHolder {
	h := &LatestOperationHolder{}
	h.current.Store(&generation{op: alwaysFail{}})
	return h
}

// Current returns the operation published last.
func (h *LatestOperationHolder) Current() ApplyOperation {
	return h.current.Load().op
}

// SetCurrent publishes an operation. Root operations will pick it up when upgraded.
func (h *LatestOperationHolder) SetCurrent(op ApplyOperation) {
	h.current.Store(&generation{op: op})
}

// NewSnapshot creates an upgradable root operation bound to the current operation.
func (h *LatestOperationHolder) NewSnapshot() RootApplyOperation {
	return newUpgradable(h, h.current.Load())
}

// alwaysFail is the operation of data trees without a schema.
type alwaysFail struct{}

func (alwaysFail) Child(yid.PathArgument) (ApplyOperation, bool) {
	return alwaysFail{}, true
}

func (alwaysFail) CheckApplicable(path yid.Path, _ *ModifiedNode, _ *treenode.TreeNode) error {
	return validationError(path, ErrSchemaNotAttached, "cannot validate modification")
}

func (alwaysFail) Apply(mod *ModifiedNode, _ *treenode.TreeNode, _ treenode.Version) (*treenode.TreeNode, error) {
	return nil, errors.Wrapf(ErrSchemaNotAttached, "cannot apply modification of %s", mod.id)
}

func (alwaysFail) VerifyStructure(d data.Node) error {
	return errors.Wrapf(ErrSchemaNotAttached, "cannot verify %s", d.Identifier())
}
