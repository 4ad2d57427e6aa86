package datatree

import (
	"github.com/npillmayer/yangtree/data"
	"github.com/npillmayer/yangtree/datatree/treenode"
	"github.com/npillmayer/yangtree/schema"
	"github.com/npillmayer/yangtree/yid"
	"github.com/pkg/errors"
)

// resolver carries the settings shared by all the operations created for a schema context.
type resolver struct {
	treeType TreeType
	policy   DeletePolicy
}

type factory func(r *resolver, sn *schema.Node) ApplyOperation

// strategies is the dispatch table from schema node kinds to apply operations.
var strategies map[schema.Kind]factory

func init() {
	strategies = map[schema.Kind]factory{
		schema.LeafKind:         newLeafStrategy,
		schema.LeafListKind:     newLeafSetStrategy,
		schema.ContainerKind:    newContainerStrategy,
		schema.ListKind:         newMapStrategy,
		schema.ChoiceKind:       newChoiceStrategy,
		schema.AugmentationKind: newAugmentationStrategy,
	}
}

// NewApplyOperation creates the root apply operation for a schema context.
func NewApplyOperation(ctx *schema.Context, treeType TreeType, policy DeletePolicy) ApplyOperation {
	r := &resolver{treeType: treeType, policy: policy}
	root := newParentStrategy(r, ctx.Root(), data.ContainerKind)
	tracer().Infof("created %s apply operation for schema %q", treeType, ctx.Namespace())
	return root
}

func (r *resolver) strategyFor(sn *schema.Node) (ApplyOperation, bool) {
	f, ok := strategies[sn.Kind()]
	if !ok {
		return nil, false
	}
	return f(r, sn), true
}

// --- Structure verification ------------------------------------------------

// nodeVerifier checks a single data node, without descending into children.
type nodeVerifier interface {
	verifyNode(d data.Node) error
}

// verifyTree checks a data node and all of its descendants, with an explicit stack.
func verifyTree(op ApplyOperation, d data.Node) error {
	type item struct {
		op ApplyOperation
		d  data.Node
	}
	stack := []item{{op, d}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		v, ok := top.op.(nodeVerifier)
		assertThat(ok, "apply operation for %s cannot verify data", top.d.Identifier())
		if err := v.verifyNode(top.d); err != nil {
			return err
		}
		p, ok := top.d.(*data.Parent)
		if !ok {
			continue
		}
		var err error
		p.EachChild(func(ch data.Node) bool {
			chop, found := top.op.Child(ch.Identifier())
			if !found {
				err = errors.Wrapf(ErrSchemaMismatch, "%s is not a valid child of %s", ch.Identifier(), p.Identifier())
				return false
			}
			stack = append(stack, item{chop, ch})
			return true
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func checkIdentifier(d data.Node, sn *schema.Node, kind data.Kind) error {
	if d.Kind() != kind {
		return errors.Wrapf(ErrSchemaMismatch, "%s is a %s, expected %s", d.Identifier(), d.Kind(), kind)
	}
	if _, isAug := d.Identifier().(yid.AugmentationIdentifier); !isAug && d.Identifier().NodeType() != sn.Name() {
		return errors.Wrapf(ErrSchemaMismatch, "%s does not match schema node %s", d.Identifier(), sn.Name())
	}
	return nil
}

// --- Conflict detection ----------------------------------------------------

// checkNotConflicting checks that the node a modification has been created against is
// still current.
func checkNotConflicting(path yid.Path, original, current *treenode.TreeNode) error {
	switch {
	case original == current:
		return nil
	case original != nil && current != nil:
		if original.Version() != current.Version() {
			return validationError(path, ErrConflictingModification, "node was replaced by other transaction")
		}
		if original.SubtreeVersion() != current.SubtreeVersion() {
			return validationError(path, ErrConflictingModification, "node children were modified by other transaction")
		}
	case original != nil:
		return validationError(path, ErrConflictingModification, "node was deleted by other transaction")
	case current != nil:
		return validationError(path, ErrNodeAlreadyExists, "node was created by other transaction")
	}
	return nil
}

// checkDeleteApplicable checks a delete according to the delete policy.
func (r *resolver) checkDeleteApplicable(path yid.Path, mod *ModifiedNode, current *treenode.TreeNode) error {
	if current == nil {
		if r.policy == StrictAbsent {
			return validationError(path, ErrNodeDoesNotExist, "cannot delete absent node")
		}
		return nil
	}
	return checkNotConflicting(path, mod.original, current)
}
