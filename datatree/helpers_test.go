package datatree

import (
	"testing"

	"github.com/npillmayer/yangtree/data"
	"github.com/npillmayer/yangtree/datatree/candidate"
	"github.com/npillmayer/yangtree/schema"
	"github.com/npillmayer/yangtree/yid"
	"github.com/stretchr/testify/require"
)

var auditedID = yid.NewAugmentationIdentifier(yid.Name("audited"))

func testSchema() *schema.Context {
	return schema.NewContext("",
		schema.Container("a",
			schema.Leaf("b", schema.Int32),
			schema.Leaf("c", schema.String),
		),
		schema.Container("box",
			schema.Leaf("x1", schema.Int32),
			schema.Leaf("x2", schema.Int32),
			schema.Leaf("x3", schema.Int32),
			schema.Leaf("x4", schema.Int32),
			schema.Leaf("x5", schema.Int32),
		),
		schema.List("user", []string{"name"},
			schema.Leaf("name", schema.String),
			schema.Leaf("email", schema.String).Required(),
			schema.Leaf("age", schema.Uint8),
		),
		schema.LeafList("tag", schema.String),
		schema.Container("transport",
			schema.Choice("protocol",
				schema.Case("tcp", schema.Leaf("port", schema.Uint16)),
				schema.Case("udp", schema.Leaf("datagram-size", schema.Uint16)),
			),
		),
		schema.Container("settings", schema.Leaf("mode", schema.String)).WithPresence(),
		schema.Container("inventory", schema.Leaf("count", schema.Int32)).
			Augmented(schema.Leaf("audited", schema.Boolean)),
	)
}

func path(s string) yid.Path {
	return yid.MustParsePath(s)
}

func leaf(name string, value interface{}) *data.Leaf {
	return data.NewLeaf(yid.Id(name), value)
}

func container(name string, children ...data.Node) *data.Parent {
	return data.NewContainer(yid.Id(name), children...)
}

func userID(name string) yid.NodeIdentifierWithPredicates {
	return yid.Entry("user", "name", name)
}

func user(name, email string) *data.Parent {
	if email == "" {
		return data.NewMapEntry(userID(name), leaf("name", name))
	}
	return data.NewMapEntry(userID(name), leaf("name", name), leaf("email", email))
}

func userPath(name string) yid.Path {
	return yid.NewPath(yid.Id("user"), userID(name))
}

// commit runs a modification through validation, preparation and commit.
func commit(t *testing.T, tree *DataTree, modify func(m *Modification)) candidate.Candidate {
	t.Helper()
	m := tree.TakeSnapshot().NewModification()
	modify(m)
	m.Ready()
	require.NoError(t, tree.Validate(m))
	tip, err := tree.Prepare(m)
	require.NoError(t, err)
	require.NoError(t, tree.Commit(tip))
	return tip.Candidate()
}

// tryCommit is like commit, but returns the first error.
func tryCommit(tree *DataTree, m *Modification) error {
	m.Ready()
	if err := tree.Validate(m); err != nil {
		return err
	}
	tip, err := tree.Prepare(m)
	if err != nil {
		return err
	}
	return tree.Commit(tip)
}

func read(t *testing.T, tree *DataTree, p yid.Path) (data.Node, bool) {
	t.Helper()
	return tree.TakeSnapshot().ReadNode(p)
}
