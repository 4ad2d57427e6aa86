package btree

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tp "github.com/xlab/treeprint"
)

func TestMapCreateEmpty(t *testing.T) {
	m := Immutable[int, string](Degree(3))
	if m.lowWaterMark != 2 || m.highWaterMark != 5 {
		t.Logf("empty map =\n%s", printMap(m))
		t.Error("expected empty map to have water marks 2 | 5, hasn't")
	}
	if m.Len() != 0 {
		t.Errorf("expected empty map to have length 0, has %d", m.Len())
	}
}

func TestMapFindInEmptyMap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.btree")
	defer teardown()
	//
	v, found := Map[int, string]{}.Find(7)
	if found {
		t.Error("did not expect to find '7' in empty map")
	}
	if v != "" {
		t.Errorf("expected value for '7' in empty map to be void, is %v", v)
	}
}

func TestMapInsertInEmptyMap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.btree")
	defer teardown()
	//
	m := Map[int, string]{}.With(7, "7")
	if m.root == nil {
		t.Fatalf("expected to have m.With(…) to have a root, hasn't:\n%#v", m)
	}
	if m.depth != 1 {
		t.Errorf("expected m.With(…) to produce depth=1, has %d", m.depth)
	}
	v, found := m.Find(7)
	assert.True(t, found)
	assert.Equal(t, "7", v)
}

func TestMapReplaceKeepsOriginal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.btree")
	defer teardown()
	//
	m1 := Map[string, int]{}.With("a", 1).With("b", 2)
	m2 := m1.With("a", 10)
	v1, _ := m1.Find("a")
	v2, _ := m2.Find("a")
	assert.Equal(t, 1, v1)
	assert.Equal(t, 10, v2)
	assert.Equal(t, 2, m2.Len())
}

func TestMapManyInsertsAndDeletes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.btree")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	rnd := rand.New(rand.NewSource(4711))
	for _, degree := range []int{3, 4, 8} {
		m := Immutable[int, int](Degree(degree))
		shadow := map[int]int{}
		versions := []Map[int, int]{}
		shadows := []map[int]int{}
		for i := 0; i < 2000; i++ {
			key := rnd.Intn(300)
			if rnd.Intn(3) == 0 {
				m = m.WithDeleted(key)
				delete(shadow, key)
			} else {
				m = m.With(key, i)
				shadow[key] = i
			}
			if i%250 == 0 {
				versions = append(versions, m)
				shadows = append(shadows, copyOf(shadow))
			}
			checkInvariants(t, m)
		}
		requireSameContent(t, m, shadow)
		for i, v := range versions { // older incarnations must be unaffected
			requireSameContent(t, v, shadows[i])
		}
	}
}

func TestMapDeleteAll(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.btree")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	m := Immutable[int, string](Degree(3))
	for i := 0; i < 100; i++ {
		m = m.With(i, fmt.Sprint(i))
	}
	t.Logf("map =\n%s", printMap(m))
	for i := 99; i >= 0; i -= 2 {
		m = m.WithDeleted(i)
	}
	for i := 0; i < 100; i += 2 {
		m = m.WithDeleted(i)
		checkInvariants(t, m)
	}
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.root)
	assert.Equal(t, uint(0), m.depth)
}

func TestMapEachIsOrdered(t *testing.T) {
	m := Map[string, int]{}
	for i, k := range []string{"d", "b", "x", "a", "c", "y", "e", "f", "g", "h", "m"} {
		m = m.With(k, i)
	}
	keys := m.Keys()
	assert.True(t, sort.StringsAreSorted(keys), "keys not sorted: %v", keys)
	assert.Len(t, m.Values(), 11)
	var n int
	m.Each(func(string, int) bool {
		n++
		return n < 3
	})
	assert.Equal(t, 3, n)
}

func TestMapSharesUntouchedNodes(t *testing.T) {
	m := Immutable[int, int](Degree(3))
	for i := 0; i < 200; i++ {
		m = m.With(i, i)
	}
	m2 := m.With(0, -1)
	require.False(t, m.root.isLeaf())
	last := len(m.root.children) - 1
	assert.Same(t, m.root.children[last], m2.root.children[last])
}

// --- Helpers ---------------------------------------------------------------

func copyOf(m map[int]int) map[int]int {
	c := make(map[int]int, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func requireSameContent(t *testing.T, m Map[int, int], shadow map[int]int) {
	require.Equal(t, len(shadow), m.Len(), "size mismatch")
	for k, v := range shadow {
		w, found := m.Find(k)
		require.True(t, found, "expected to find key %d", k)
		require.Equal(t, v, w)
	}
	require.Len(t, m.Keys(), len(shadow))
}

func checkInvariants[K int, V any](t *testing.T, m Map[K, V]) {
	if m.root == nil {
		require.Equal(t, 0, m.Len())
		return
	}
	leafDepth := -1
	var walk func(node *xnode[K, V], depth int, isRoot bool)
	walk = func(node *xnode[K, V], depth int, isRoot bool) {
		if !isRoot {
			require.False(t, node.underfull(m.lowWaterMark), "underfull node %s", node)
		}
		require.False(t, node.overfull(m.highWaterMark), "overfull node %s", node)
		for i := 1; i < len(node.items); i++ {
			require.Less(t, node.items[i-1].key, node.items[i].key)
		}
		if node.isLeaf() {
			if leafDepth < 0 {
				leafDepth = depth
			}
			require.Equal(t, leafDepth, depth, "leaves at different depths")
			return
		}
		require.Equal(t, len(node.items)+1, len(node.children))
		for _, ch := range node.children {
			walk(ch, depth+1, false)
		}
	}
	walk(m.root, 1, true)
	require.Equal(t, int(m.depth), leafDepth)
}

func printMap[K int | string, V any](m Map[K, V]) string {
	header := fmt.Sprintf("\nMap(depth=%d ⊥%d ⊤%d)\n", m.depth, m.lowWaterMark, m.highWaterMark)
	p := tp.New()
	ppt(p, m.root)
	return header + p.String() + "\n"
}

func ppt[K int | string, V any](p tp.Tree, node *xnode[K, V]) {
	if node == nil {
		return
	}
	if node.isLeaf() {
		p.AddNode(node.String())
		return
	}
	branch := p.AddBranch(node.String())
	for _, ch := range node.children {
		ppt(branch, ch)
	}
}
