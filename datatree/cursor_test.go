package datatree

import (
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/yangtree/data"
	"github.com/npillmayer/yangtree/datatree/candidate"
	"github.com/npillmayer/yangtree/yid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModificationCursor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.datatree")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	tree := New(WithSchemaContext(testSchema()))
	m := tree.TakeSnapshot().NewModification()
	cursor, err := m.OpenCursor(yid.RootPath)
	require.NoError(t, err)
	require.NoError(t, cursor.Enter(yid.Id("a")))
	assert.Equal(t, "/a", cursor.Path().String())
	require.NoError(t, cursor.Write(yid.Id("b"), leaf("b", int32(5))))
	cursor.Exit()
	require.NoError(t, cursor.Enter(yid.Id("user")))
	require.NoError(t, cursor.Merge(userID("bob"), user("bob", "bob@example.com")))
	cursor.Exit()
	assert.True(t, errors.Is(cursor.Enter(yid.Id("nowhere")), ErrSchemaMismatch))
	assert.Panics(t, func() { cursor.Exit() }, "exit above the opening position must panic")
	require.NoError(t, tryCommit(tree, m))
	//
	b, found := read(t, tree, path("/a/b"))
	require.True(t, found)
	assert.Equal(t, int32(5), b.(*data.Leaf).Value())
	_, found = read(t, tree, userPath("bob").Append(yid.Id("email")))
	assert.True(t, found)
	//
	m = tree.TakeSnapshot().NewModification()
	cursor, err = m.OpenCursor(path("/a"))
	require.NoError(t, err)
	require.NoError(t, cursor.Delete(yid.Id("b")))
	assert.Panics(t, func() { cursor.Exit() })
	m.Ready()
	_, err = m.OpenCursor(path("/a"))
	assert.True(t, errors.Is(err, ErrModificationSealed))
}

// mirror keeps a second tree in sync with a first one by replaying candidates.
func mirror(source, target *DataTree) *[]error {
	var errs []error
	source.RegisterListener(func(c candidate.Candidate) {
		m := target.TakeSnapshot().NewModification()
		if err := m.ApplyCandidate(c); err != nil {
			errs = append(errs, err)
			return
		}
		if err := tryCommit(target, m); err != nil {
			errs = append(errs, err)
		}
	})
	return &errs
}

func TestCandidatesReplayOntoOtherTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.datatree")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	tree1 := New(WithSchemaContext(testSchema()))
	tree2 := New(WithSchemaContext(testSchema()))
	errs := mirror(tree1, tree2)
	steps := []func(m *Modification){
		func(m *Modification) {
			require.NoError(t, m.Write(path("/a/b"), leaf("b", int32(1))))
			require.NoError(t, m.Write(userPath("alice"), user("alice", "alice@example.com")))
			require.NoError(t, m.Write(path("/transport/protocol/port"), leaf("port", uint16(22))))
		},
		func(m *Modification) {
			require.NoError(t, m.Merge(path("/a"), container("a", leaf("c", "merged"))))
			require.NoError(t, m.Write(userPath("bob"), user("bob", "bob@example.com")))
			require.NoError(t, m.Write(path("/box/x3"), leaf("x3", int32(3))))
		},
		func(m *Modification) {
			require.NoError(t, m.Write(path("/transport/protocol/datagram-size"), leaf("datagram-size", uint16(9000))))
			require.NoError(t, m.Delete(userPath("alice")))
			require.NoError(t, m.Write(path("/a"), container("a", leaf("b", int32(2)))))
		},
		func(m *Modification) {
			require.NoError(t, m.Delete(path("/box")))
			require.NoError(t, m.Delete(path("/settings")))
		},
	}
	for i, step := range steps {
		commit(t, tree1, step)
		require.Empty(t, *errs, "replaying step %d", i)
		r1, _ := read(t, tree1, yid.RootPath)
		r2, _ := read(t, tree2, yid.RootPath)
		assert.True(t, data.Equal(r1, r2), "trees differ after step %d:\n%s\n%s", i,
			data.ToStringTree(r1), data.ToStringTree(r2))
	}
	//
	r1, _ := read(t, tree1, yid.RootPath)
	tree3 := New(WithSchemaContext(testSchema()))
	m := tree3.TakeSnapshot().NewModification()
	require.NoError(t, m.ApplyCandidate(candidate.New(yid.RootPath, candidate.FromNode(r1))))
	require.NoError(t, tryCommit(tree3, m))
	r3, _ := read(t, tree3, yid.RootPath)
	assert.True(t, data.Equal(r1, r3))
}

func TestApplySubtreeCandidate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.datatree")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	tree1 := New(WithSchemaContext(testSchema()))
	c := commit(t, tree1, func(m *Modification) {
		require.NoError(t, m.Write(path("/a/b"), leaf("b", int32(4))))
	})
	a, ok := c.RootNode().ModifiedChild(yid.Id("a"))
	require.True(t, ok)
	tree2 := New(WithSchemaContext(testSchema()))
	m := tree2.TakeSnapshot().NewModification()
	require.NoError(t, m.ApplyCandidate(candidate.New(path("/a"), a)))
	require.NoError(t, tryCommit(tree2, m))
	b, found := read(t, tree2, path("/a/b"))
	require.True(t, found)
	assert.Equal(t, int32(4), b.(*data.Leaf).Value())
}
