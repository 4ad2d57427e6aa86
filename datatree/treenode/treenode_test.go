package treenode

import (
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/yangtree/data"
	"github.com/npillmayer/yangtree/yid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func id(name string) yid.NodeIdentifier {
	return yid.NewNodeIdentifier(yid.Name(name))
}

func sample() data.Node {
	return data.NewContainer(id("top"),
		data.NewLeaf(id("a"), 1),
		data.NewContainer(id("b"),
			data.NewLeaf(id("c"), "x"),
			data.NewLeaf(id("d"), "y"),
		),
		data.NewLeaf(id("e"), true),
	)
}

func TestNewMirrorsData(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.treenode")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	d := sample()
	n := New(d, 3)
	assert.Equal(t, 3, n.ChildCount())
	assert.Equal(t, Version(3), n.Version())
	assert.Equal(t, Version(3), n.SubtreeVersion())
	c, ok := Find(n, yid.Path{id("b"), id("c")})
	require.True(t, ok)
	assert.Equal(t, "x", c.Data().(*data.Leaf).Value())
	b, _ := n.Child(id("b"))
	bdata, _ := data.DirectChild(d, id("b"))
	assert.True(t, b.Data() == bdata, "tree nodes wrap the original data nodes")
	_, ok = Find(n, yid.Path{id("b"), id("zz")})
	assert.False(t, ok)
	t.Logf("\n%s", ToStringTree(n))
}

func TestNewHandlesDeepNesting(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.treenode")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	var d data.Node = data.NewLeaf(id("bottom"), 0)
	const depth = 10000
	for i := 0; i < depth; i++ {
		d = data.NewContainer(id("c"), d)
	}
	n := New(d, 1)
	count := 0
	for n.ChildCount() > 0 {
		n.EachChild(func(ch *TreeNode) bool {
			n = ch
			return false
		})
		count++
	}
	assert.Equal(t, depth, count)
	assert.Equal(t, "bottom", n.Identifier().NodeType().Local)
}

func TestMutableSharesUntouchedChildren(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.treenode")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	n := New(sample(), 1)
	m := n.Mutable()
	m.SetChild(New(data.NewLeaf(id("a"), 2), 2))
	m.RemoveChild(id("e"))
	m.RemoveChild(id("not-there"))
	m.SetSubtreeVersion(2)
	n2 := m.Seal()
	//
	assert.Equal(t, Version(1), n2.Version())
	assert.Equal(t, Version(2), n2.SubtreeVersion())
	assert.Equal(t, 2, n2.ChildCount())
	b1, _ := n.Child(id("b"))
	b2, _ := n2.Child(id("b"))
	assert.True(t, b1 == b2, "untouched child must be shared")
	a, _ := data.FindNode(n2.Data(), yid.Path{id("a")})
	assert.Equal(t, 2, a.(*data.Leaf).Value())
	_, found := data.DirectChild(n2.Data(), id("e"))
	assert.False(t, found, "removed child must be gone from data")
	// the original is unchanged
	assert.Equal(t, 3, n.ChildCount())
	a, _ = data.FindNode(n.Data(), yid.Path{id("a")})
	assert.Equal(t, 1, a.(*data.Leaf).Value())
}

func TestMutableWithoutChangesKeepsData(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.treenode")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	n := New(sample(), 1)
	m := n.Mutable()
	m.SetVersion(4)
	m.SetSubtreeVersion(4)
	n2 := m.Seal()
	assert.True(t, n.Data() == n2.Data())
	assert.Equal(t, Version(4), n2.Version())
	assert.True(t, Version(4).After(n.Version()))
	assert.Equal(t, "v4", n2.Version().String())
}

func TestLeafMutableRejectsChildren(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.treenode")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	m := New(data.NewLeaf(id("x"), 1), 1).Mutable()
	assert.Panics(t, func() {
		m.SetChild(New(data.NewLeaf(id("y"), 1), 1))
	})
}

func TestMergeSharesUnmentionedChildren(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.treenode")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	n := New(sample(), 1)
	overlay := data.NewContainer(id("top"),
		data.NewContainer(id("b"), data.NewLeaf(id("d"), "z")),
		data.NewLeaf(id("f"), 7),
	)
	n2 := Merge(n, overlay, 2)
	assert.Equal(t, Version(2), n2.Version())
	assert.Equal(t, 4, n2.ChildCount())
	a1, _ := n.Child(id("a"))
	a2, _ := n2.Child(id("a"))
	assert.True(t, a1 == a2, "unmentioned child must be shared")
	assert.Equal(t, Version(1), a2.Version())
	c1, _ := Find(n, yid.Path{id("b"), id("c")})
	c2, _ := Find(n2, yid.Path{id("b"), id("c")})
	assert.True(t, c1 == c2)
	d, _ := Find(n2, yid.Path{id("b"), id("d")})
	assert.Equal(t, "z", d.Data().(*data.Leaf).Value())
	assert.Equal(t, Version(2), d.Version())
	// tree nodes and data agree
	assert.True(t, data.Equal(data.Merge(sample(), overlay), n2.Data()))
	// merging twice is the same as merging once
	n3 := Merge(n2, overlay, 3)
	assert.True(t, data.Equal(n2.Data(), n3.Data()))
}

func TestMergeIntoNothing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.treenode")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	n := Merge(nil, sample(), 5)
	assert.Equal(t, Version(5), n.SubtreeVersion())
	assert.True(t, data.Equal(sample(), n.Data()))
	leaf := Merge(New(data.NewLeaf(id("x"), 1), 1), data.NewLeaf(id("x"), 2), 2)
	assert.Equal(t, 2, leaf.Data().(*data.Leaf).Value())
}

// pruner removes child c of every merged parent and records what it sees.
type pruner struct {
	path   string
	events *[]string
	fail   string
}

func (p pruner) Child(id yid.PathArgument) MergeVisitor {
	return pruner{path: p.path + "/" + id.String(), events: p.events, fail: p.fail}
}

func (p pruner) Merged(m *Mutable, overlay *data.Parent) error {
	*p.events = append(*p.events, "merged "+p.path)
	m.RemoveChild(id("c"))
	return nil
}

func (p pruner) Sealed(n *TreeNode) error {
	*p.events = append(*p.events, "sealed "+p.path)
	return nil
}

func (p pruner) Created(n *TreeNode) error {
	*p.events = append(*p.events, "created "+p.path)
	if p.path == p.fail {
		return errFailed
	}
	return nil
}

var errFailed = errors.New("failed")

func TestMergeWithVisitor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.treenode")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	n := New(sample(), 1)
	overlay := data.NewContainer(id("top"),
		data.NewContainer(id("b"), data.NewLeaf(id("d"), "z")),
		data.NewLeaf(id("f"), 7),
	)
	var events []string
	n2, err := MergeWith(n, overlay, 2, pruner{events: &events})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"merged /b", "sealed /b", "created /f", "merged ", "sealed ",
	}, events)
	_, found := Find(n2, yid.Path{id("b"), id("c")})
	assert.False(t, found, "visitor removes children before sealing")
	d, _ := Find(n2, yid.Path{id("b"), id("d")})
	assert.Equal(t, "z", d.Data().(*data.Leaf).Value())
	//
	events = nil
	_, err = MergeWith(n, overlay, 2, pruner{events: &events, fail: "/f"})
	assert.True(t, errors.Is(err, errFailed))
}
