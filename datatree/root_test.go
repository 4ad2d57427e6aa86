package datatree

import (
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/yangtree/datatree/treenode"
	"github.com/npillmayer/yangtree/schema"
	"github.com/npillmayer/yangtree/yid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func extendedSchema() *schema.Context {
	return schema.NewContext("",
		schema.Container("a", schema.Leaf("b", schema.Int32)),
		schema.Container("extra", schema.Leaf("e", schema.String)),
	)
}

func TestUpgradeIsolation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.datatree")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	holder := NewLatestOperationHolder()
	op1 := NewApplyOperation(testSchema(), Configuration, TolerateAbsent)
	holder.SetCurrent(op1)
	s1 := holder.NewSnapshot()
	_, found := s1.Child(yid.Id("extra"))
	assert.False(t, found)
	//
	op2 := NewApplyOperation(extendedSchema(), Configuration, TolerateAbsent)
	holder.SetCurrent(op2)
	s2 := s1.Snapshot()
	assert.True(t, s2.Delegate() == op1, "snapshot is bound to the delegate of its origin")
	s2.UpgradeIfPossible()
	assert.True(t, s2.Delegate() == op2)
	_, found = s2.Child(yid.Id("extra"))
	assert.True(t, found)
	//
	assert.True(t, s1.Delegate() == op1, "upgrading a snapshot must not upgrade its origin")
	_, found = s1.Child(yid.Id("extra"))
	assert.False(t, found)
	s1.UpgradeIfPossible()
	_, found = s1.Child(yid.Id("extra"))
	assert.True(t, found)
	//
	s1.UpgradeIfPossible()
	assert.True(t, s1.Delegate() == op2, "upgrading without a new operation is a no-op")
}

func TestNotUpgradableRoot(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.datatree")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	op := NewApplyOperation(testSchema(), Configuration, TolerateAbsent)
	root := RootFrom(op)
	assert.True(t, root.Snapshot() == root)
	root.UpgradeIfPossible()
	assert.True(t, root.Delegate() == op)
	//
	holder := NewLatestOperationHolder()
	holder.SetCurrent(op)
	up := holder.NewSnapshot()
	derived := RootFrom(up)
	assert.True(t, derived != up, "root operations are snapshotted")
	assert.True(t, derived.Delegate() == op)
}

func TestHolderWithoutSchemaFails(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.datatree")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	root := NewLatestOperationHolder().NewSnapshot()
	mod := newModifiedNode(RootIdentifier, nil)
	err := root.CheckApplicable(yid.RootPath, mod, nil)
	assert.True(t, errors.Is(err, ErrSchemaNotAttached))
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	_, err = root.Apply(mod, nil, treenode.Initial)
	assert.True(t, errors.Is(err, ErrSchemaNotAttached))
	assert.True(t, errors.Is(root.VerifyStructure(leaf("b", 1)), ErrSchemaNotAttached))
}

func TestModificationUpgradesUntilFirstOperation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.datatree")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	tree := New()
	m1 := tree.TakeSnapshot().NewModification()
	m2 := tree.TakeSnapshot().NewModification()
	assert.NoError(t, m2.Delete(path("/a")), "deletes are recorded without schema")
	err := m2.Write(path("/a/b"), leaf("b", int32(1)))
	assert.True(t, errors.Is(err, ErrSchemaNotAttached))
	//
	tree.SetSchemaContext(testSchema())
	assert.NoError(t, m1.Write(path("/a/b"), leaf("b", int32(1))), "fresh modification picks up schema")
	err = m2.Write(path("/a/b"), leaf("b", int32(1)))
	assert.True(t, errors.Is(err, ErrSchemaNotAttached), "modification with operations keeps its schema")
	assert.NoError(t, tryCommit(tree, m1))
}
