package datatree

import (
	"github.com/npillmayer/yangtree/data"
	"github.com/npillmayer/yangtree/datatree/treenode"
	"github.com/npillmayer/yangtree/yid"
)

// ApplyOperation validates and applies pending modifications for one kind of schema node.
// Operations are stateless with respect to data and may be shared between goroutines.
type ApplyOperation interface {
	// Child returns the operation for a child node.
	Child(id yid.PathArgument) (ApplyOperation, bool)
	// CheckApplicable checks if mod can be applied to current, which is nil for absent
	// nodes. It does not change any state.
	CheckApplicable(path yid.Path, mod *ModifiedNode, current *treenode.TreeNode) error
	// Apply applies mod to current, producing the new node, or nil if the node is absent
	// after applying mod. Neither mod nor current are changed. New and rebuilt nodes are
	// stamped with version v.
	Apply(mod *ModifiedNode, current *treenode.TreeNode, v treenode.Version) (*treenode.TreeNode, error)
	// VerifyStructure checks a data node and its descendants against the schema.
	VerifyStructure(d data.Node) error
}

// LogicalOperation is the operation recorded for a node of a pending modification.
type LogicalOperation uint8

const (
	OpNone   LogicalOperation = iota // node is not modified
	OpTouch                          // some descendants are modified
	OpWrite                          // node is replaced
	OpMerge                          // data is merged into the node
	OpDelete                         // node is removed
)

func (op LogicalOperation) String() string {
	switch op {
	case OpNone:
		return "NONE"
	case OpTouch:
		return "TOUCH"
	case OpWrite:
		return "WRITE"
	case OpMerge:
		return "MERGE"
	case OpDelete:
		return "DELETE"
	}
	return "<unknown operation>"
}
