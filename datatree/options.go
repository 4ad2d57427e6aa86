package datatree

import "github.com/npillmayer/yangtree/schema"

// TreeType distinguishes configuration trees from operational state trees.
// Mandatory nodes are enforced for configuration trees only.
type TreeType uint8

const (
	Configuration TreeType = iota
	Operational
)

func (t TreeType) String() string {
	if t == Operational {
		return "operational"
	}
	return "configuration"
}

// DeletePolicy governs deletes of nodes which do not exist.
type DeletePolicy uint8

const (
	TolerateAbsent DeletePolicy = iota // deleting an absent node is a no-op
	StrictAbsent                       // deleting an absent node fails validation
)

// Option is a type to help initializing data trees at creation time.
type Option struct {
	config func(props) props
}

type props struct {
	treeType     TreeType
	deletePolicy DeletePolicy
	schema       *schema.Context
}

// WithTreeType is an option to set the type of a data tree. The default is Configuration.
func WithTreeType(t TreeType) Option {
	return Option{config: func(p props) props {
		p.treeType = t
		return p
	}}
}

// WithDeletePolicy is an option to set the policy for deletes of absent nodes.
// The default is TolerateAbsent.
func WithDeletePolicy(policy DeletePolicy) Option {
	return Option{config: func(p props) props {
		p.deletePolicy = policy
		return p
	}}
}

// WithSchemaContext is an option to attach a schema context at creation time.
//
//	tree := datatree.New(datatree.WithSchemaContext(ctx))
func WithSchemaContext(ctx *schema.Context) Option {
	return Option{config: func(p props) props {
		p.schema = ctx
		return p
	}}
}
