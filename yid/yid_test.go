package yid

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredicatesAreOrdered(t *testing.T) {
	a := NewNodeIdentifierWithPredicates(Name("l"),
		KeyValue{Name: Name("b"), Value: 2}, KeyValue{Name: Name("a"), Value: "x"})
	b := NewNodeIdentifierWithPredicates(Name("l"),
		KeyValue{Name: Name("a"), Value: "x"}, KeyValue{Name: Name("b"), Value: 2})
	assert.Equal(t, "l[a=x,b=2]", a.Key())
	assert.True(t, Equal(a, b))
	v, ok := a.Value(Name("b"))
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestPathArgumentKeysDiffer(t *testing.T) {
	keys := map[string]bool{}
	for _, arg := range []PathArgument{
		Id("x"),
		Entry("x", "k", 1),
		NewNodeWithValue(Name("x"), 1),
		NewAugmentationIdentifier(Name("x")),
		NewNodeIdentifier(NewQName("urn:test", "x")),
	} {
		assert.False(t, keys[arg.Key()], "duplicate key %s", arg.Key())
		keys[arg.Key()] = true
	}
}

func TestAugmentationIdentifier(t *testing.T) {
	aug := NewAugmentationIdentifier(Name("y"), Name("x"), Name("y"))
	assert.Equal(t, []QName{Name("x"), Name("y")}, aug.ChildNames())
	assert.True(t, aug.Contains(Name("y")))
	assert.False(t, aug.Contains(Name("z")))
}

func TestParsePath(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.yid")
	defer teardown()
	//
	p, err := ParsePath("/a/list[name=x,id=1]/tags[.=blue]/augmentation(q,p)/b")
	require.NoError(t, err)
	require.Len(t, p, 5)
	assert.Equal(t, Id("a"), p[0])
	assert.Equal(t, "list[id=1,name=x]", p[1].Key())
	assert.Equal(t, NewNodeWithValue(Name("tags"), "blue"), p[2])
	assert.Equal(t, "augmentation(p,q)", p[3].Key())
	assert.Equal(t, "/a/list[id=1,name=x]/tags[.=blue]/augmentation(p,q)/b", p.String())
	//
	root, err := ParsePath("/")
	require.NoError(t, err)
	assert.True(t, root.IsEmpty())
}

func TestParsePathErrors(t *testing.T) {
	for _, s := range []string{"a/b", "/a//b", "/a[x=1", "/a]", "/[x=1]", "/a[=1]"} {
		_, err := ParsePath(s)
		assert.True(t, errors.Is(err, ErrInvalidPath), "expected %q to be invalid, got %v", s, err)
	}
}

func TestPathOperations(t *testing.T) {
	p := MustParsePath("/a/b/c")
	assert.Equal(t, "/a/b", p.Parent().String())
	assert.Equal(t, Id("c"), p.Last())
	assert.Equal(t, "/", RootPath.Parent().String())
	q := p.Parent().Append(Id("d"))
	assert.Equal(t, "/a/b/c", p.String(), "Append must not modify its receiver's parent")
	assert.Equal(t, "/a/b/d", q.String())
	rel, ok := p.RelativeTo(MustParsePath("/a"))
	assert.True(t, ok)
	assert.Equal(t, "/b/c", rel.String())
	_, ok = p.RelativeTo(MustParsePath("/x"))
	assert.False(t, ok)
	assert.True(t, p.Equal(MustParsePath("/a/b/c")))
}
