package datatree

import (
	"github.com/npillmayer/yangtree/data"
	"github.com/npillmayer/yangtree/datatree/treenode"
	"github.com/npillmayer/yangtree/schema"
	"github.com/npillmayer/yangtree/yid"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// Choices hold the data children of exactly one of their cases. Writing or merging data
// of a case removes the data of all other cases.

func newChoiceStrategy(r *resolver, sn *schema.Node) ApplyOperation {
	return newParentStrategy(r, sn, data.ChoiceKind)
}

// caseOf returns the name of the case a child belongs to.
func (s *parentStrategy) caseOf(id yid.PathArgument) (yid.QName, bool) {
	c, found := s.sn.CaseOf(id.NodeType())
	if !found {
		return yid.QName{}, false
	}
	return c.Name(), true
}

func (s *parentStrategy) addCase(cases []yid.QName, id yid.PathArgument) []yid.QName {
	if c, found := s.caseOf(id); found && !slices.Contains(cases, c) {
		cases = append(cases, c)
	}
	return cases
}

// casesOf returns the cases a choice's data children belong to.
func (s *parentStrategy) casesOf(p *data.Parent) []yid.QName {
	var cases []yid.QName
	p.EachChild(func(ch data.Node) bool {
		cases = s.addCase(cases, ch.Identifier())
		return true
	})
	return cases
}

// newCases returns the cases receiving data from a modification of a choice.
func (s *parentStrategy) newCases(mod *ModifiedNode) []yid.QName {
	var cases []yid.QName
	if p, ok := mod.value.(*data.Parent); ok && (mod.op == OpWrite || mod.op == OpMerge) {
		cases = s.casesOf(p)
	}
	mod.EachChild(func(cm *ModifiedNode) bool {
		if cm.op != OpNone && cm.op != OpDelete {
			cases = s.addCase(cases, cm.id)
		}
		return true
	})
	return cases
}

// enforceSingleCase removes the children of all cases but the one receiving data.
func (s *parentStrategy) enforceSingleCase(mod *ModifiedNode, m *treenode.Mutable) error {
	return s.keepSingleCase(mod.id, s.newCases(mod), m)
}

// keepSingleCase removes the children of all cases but the one in cases. More than one
// case receiving data is an error.
func (s *parentStrategy) keepSingleCase(id yid.PathArgument, cases []yid.QName, m *treenode.Mutable) error {
	switch len(cases) {
	case 0:
		return nil
	case 1:
	default:
		return errors.Wrapf(ErrMultipleCases, "choice %s: cases %v modified together", id, cases)
	}
	var stale []yid.PathArgument
	m.EachChild(func(ch *treenode.TreeNode) bool {
		if c, _ := s.caseOf(ch.Identifier()); c != cases[0] {
			stale = append(stale, ch.Identifier())
		}
		return true
	})
	for _, ch := range stale {
		tracer().Debugf("case %s of choice %s replaces %s", cases[0], id, ch)
		m.RemoveChild(ch)
	}
	return nil
}
