package datatree

import (
	"github.com/npillmayer/yangtree/data"
	"github.com/npillmayer/yangtree/datatree/candidate"
	"github.com/npillmayer/yangtree/yid"
	"github.com/pkg/errors"
)

// ModificationCursor is a cursor writing to a modification. Positions need not exist in
// the modification's snapshot: writing below an absent node creates it.
type ModificationCursor struct {
	mod   *Modification
	base  int // length of the path the cursor has been opened at
	path  yid.Path
	steps []ApplyOperation
}

var _ candidate.Cursor = (*ModificationCursor)(nil)

// OpenCursor opens a cursor positioned at path.
func (m *Modification) OpenCursor(path yid.Path) (*ModificationCursor, error) {
	if m.sealed {
		return nil, ErrModificationSealed
	}
	op, err := m.resolve(path)
	if err != nil {
		return nil, err
	}
	return &ModificationCursor{
		mod:   m,
		base:  len(path),
		path:  path.Append(),
		steps: []ApplyOperation{op},
	}, nil
}

// Path returns the current position of the cursor.
func (c *ModificationCursor) Path() yid.Path {
	return c.path.Append()
}

// Enter moves the cursor to a child of the current position.
func (c *ModificationCursor) Enter(id yid.PathArgument) error {
	op, found := c.steps[len(c.steps)-1].Child(id)
	if !found {
		return errors.Wrapf(ErrSchemaMismatch, "cannot enter %s at %s", id, c.path)
	}
	c.path = c.path.Append(id)
	c.steps = append(c.steps, op)
	return nil
}

// Exit moves the cursor to the parent of the current position. Exiting above the position
// the cursor has been opened at is a contract violation.
func (c *ModificationCursor) Exit() {
	assertThat(len(c.path) > c.base, "unbalanced exit from cursor at %s", c.path)
	c.path = c.path.Parent()
	c.steps = c.steps[:len(c.steps)-1]
}

// Write writes a child of the current position.
func (c *ModificationCursor) Write(id yid.PathArgument, node data.Node) error {
	return c.mod.Write(c.path.Append(id), node)
}

// Merge merges data into a child of the current position.
func (c *ModificationCursor) Merge(id yid.PathArgument, node data.Node) error {
	return c.mod.Merge(c.path.Append(id), node)
}

// Delete deletes a child of the current position.
func (c *ModificationCursor) Delete(id yid.PathArgument) error {
	return c.mod.Delete(c.path.Append(id))
}
