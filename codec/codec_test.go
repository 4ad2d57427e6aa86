package codec

import (
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/yangtree/data"
	"github.com/npillmayer/yangtree/schema"
	"github.com/npillmayer/yangtree/yid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegerLiterals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.codec")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	c, err := For(schema.Int32)
	require.NoError(t, err)
	for text, expected := range map[string]int32{
		"42":    42,
		"-42":   -42,
		"+7":    7,
		"0x1F":  31,
		"-0x10": -16,
		"010":   8,
		"0":     0,
	} {
		v, err := c.Deserialize(text)
		require.NoError(t, err, text)
		assert.Equal(t, expected, v, text)
	}
	for _, text := range []string{"", "abc", "+-5", "08", "0x", "4294967296"} {
		_, err := c.Deserialize(text)
		assert.True(t, errors.Is(err, ErrInvalidValue), "expected %q to be rejected", text)
	}
}

func TestUnsignedRange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.codec")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	c, err := For(schema.Uint8)
	require.NoError(t, err)
	v, err := c.Deserialize("255")
	require.NoError(t, err)
	assert.Equal(t, uint8(255), v)
	_, err = c.Deserialize("256")
	assert.Error(t, err)
	_, err = c.Deserialize("-1")
	assert.Error(t, err)
	s, err := c.Serialize(uint8(17))
	require.NoError(t, err)
	assert.Equal(t, "17", s)
	assert.Error(t, c.Check(17), "untyped int is not a uint8")
	assert.Error(t, c.Check(uint16(17)))
}

func TestDecimal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.codec")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	c, err := For(schema.Decimal64(2))
	require.NoError(t, err)
	v, err := c.Deserialize("3.5")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("3.50").Equal(v.(decimal.Decimal)))
	s, err := c.Serialize(v)
	require.NoError(t, err)
	assert.Equal(t, "3.50", s)
	_, err = c.Deserialize("3.505")
	assert.True(t, errors.Is(err, ErrInvalidValue))
	assert.Error(t, c.Check(3.5))
}

func TestEnumerationAndBits(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.codec")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	enum, err := For(schema.Enumeration("red", "green"))
	require.NoError(t, err)
	assert.NoError(t, enum.Check("red"))
	_, err = enum.Deserialize("blue")
	assert.Error(t, err)
	//
	bits, err := For(schema.Bits("read", "write", "exec"))
	require.NoError(t, err)
	v, err := bits.Deserialize("write read write")
	require.NoError(t, err)
	assert.Equal(t, []string{"read", "write"}, v)
	s, err := bits.Serialize(v)
	require.NoError(t, err)
	assert.Equal(t, "read write", s)
	_, err = bits.Deserialize("read delete")
	assert.Error(t, err)
}

func TestBinaryBooleanEmpty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.codec")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	bin, _ := For(schema.Binary)
	s, err := bin.Serialize([]byte("yang"))
	require.NoError(t, err)
	assert.Equal(t, "eWFuZw==", s)
	v, err := bin.Deserialize(s)
	require.NoError(t, err)
	assert.Equal(t, []byte("yang"), v)
	_, err = bin.Deserialize("not base64!")
	assert.Error(t, err)
	//
	b, _ := For(schema.Boolean)
	v, err = b.Deserialize("true")
	require.NoError(t, err)
	assert.Equal(t, true, v)
	_, err = b.Deserialize("yes")
	assert.Error(t, err)
	//
	e, _ := For(schema.Empty)
	v, err = e.Deserialize("")
	require.NoError(t, err)
	assert.Equal(t, EmptyValue{}, v)
	_, err = e.Deserialize("x")
	assert.Error(t, err)
}

func TestUnionTriesMembersInOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.codec")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	c, err := For(schema.Union(schema.Int32, schema.Enumeration("unbounded")))
	require.NoError(t, err)
	v, err := c.Deserialize("12")
	require.NoError(t, err)
	assert.Equal(t, int32(12), v)
	v, err = c.Deserialize("unbounded")
	require.NoError(t, err)
	assert.Equal(t, "unbounded", v)
	_, err = c.Deserialize("bounded")
	assert.Error(t, err)
	assert.NoError(t, c.Check(int32(1)))
	assert.Error(t, c.Check(int64(1)))
}

func TestCodecsAreCached(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.codec")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	c1, err := For(schema.Decimal64(3))
	require.NoError(t, err)
	c2, err := For(schema.Decimal64(3))
	require.NoError(t, err)
	assert.Equal(t, c1, c2)
	_, ok := codecs.Get(schema.Decimal64(3).String())
	assert.True(t, ok)
	_, err = For(schema.Type{Name: "identityref"})
	assert.True(t, errors.Is(err, ErrUnsupportedType))
}

func TestParseLeaf(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yangtree.codec")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	ctx := schema.NewContext("urn:test",
		schema.Leaf("port", schema.Uint16),
		schema.LeafList("tag", schema.String),
		schema.Container("box"),
	)
	port, _ := ctx.Root().Child(yid.NewQName("urn:test", "port"))
	n, err := ParseLeaf(port, "8080")
	require.NoError(t, err)
	assert.Equal(t, data.LeafKind, n.Kind())
	assert.Equal(t, uint16(8080), n.(*data.Leaf).Value())
	//
	tag, _ := ctx.Root().Child(yid.NewQName("urn:test", "tag"))
	n, err = ParseLeaf(tag, "blue")
	require.NoError(t, err)
	assert.Equal(t, data.LeafSetEntryKind, n.Kind())
	assert.Equal(t, "{urn:test}tag[.=blue]", n.Identifier().String())
	//
	box, _ := ctx.Root().Child(yid.NewQName("urn:test", "box"))
	_, err = ParseLeaf(box, "x")
	assert.Error(t, err)
	_, err = ParseLeaf(port, "-1")
	assert.Error(t, err)
}
