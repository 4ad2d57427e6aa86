package candidate

import (
	"github.com/npillmayer/yangtree/data"
	"github.com/npillmayer/yangtree/yid"
)

// Cursor is a positioned handle for editing a mutable tree. Writes and deletes always
// address a child of the current position. Every Enter has to be balanced by an Exit.
type Cursor interface {
	// Enter moves the cursor to a child of the current position. The child need not
	// exist yet.
	Enter(id yid.PathArgument) error
	// Exit moves the cursor back to the parent of the current position.
	Exit()
	// Write replaces the child id of the current position with a data node.
	Write(id yid.PathArgument, node data.Node) error
	// Delete removes the child id of the current position.
	Delete(id yid.PathArgument) error
}

// ApplyToCursor replays a (non-root) candidate node onto a cursor positioned at the
// node's parent.
//
// Only Delete, Write, SubtreeModified and Unmodified nodes may be replayed this way.
// Other modification types are a contract violation and panic.
func ApplyToCursor(cursor Cursor, node Node) error {
	switch node.ModificationType() {
	case Delete:
		return cursor.Delete(node.Identifier())
	case SubtreeModified:
		if err := cursor.Enter(node.Identifier()); err != nil {
			return err
		}
		return replay(cursor, &frame{children: node.ChildNodes(), exits: true})
	case Unmodified:
		return nil
	case Write:
		after, _ := node.DataAfter()
		return cursor.Write(node.Identifier(), after)
	}
	panic("candidate: unsupported modification " + node.ModificationType().String())
}

// ApplyRootToCursor replays a root candidate node onto a cursor positioned at the root.
// Children of the root are applied directly at the cursor's position, without
// entering or exiting the root.
//
// Deleting the root is a contract violation and panics.
func ApplyRootToCursor(cursor Cursor, node Node) error {
	switch node.ModificationType() {
	case Delete:
		panic("candidate: cannot delete root")
	case Write, SubtreeModified:
		return replay(cursor, &frame{children: node.ChildNodes()})
	case Unmodified:
		return nil
	}
	panic("candidate: unsupported modification " + node.ModificationType().String())
}

// frame iterates over the child candidates at one depth of a candidate tree.
// Frames of entered nodes exit the cursor when exhausted, the root frame does not.
type frame struct {
	parent   *frame
	children []Node
	pos      int
	exits    bool
}

// replay walks a candidate tree iteratively, starting with frame f.
func replay(cursor Cursor, f *frame) error {
	for f != nil {
		next, err := f.next(cursor)
		if err != nil {
			return err
		}
		f = next
	}
	return nil
}

// next processes children of f until it either descends into a child, returning the
// child's frame, or is exhausted, returning the parent frame.
func (f *frame) next(cursor Cursor) (*frame, error) {
	for f.pos < len(f.children) {
		node := f.children[f.pos]
		f.pos++
		typ := node.ModificationType()
		tracer().Debugf("replay %s %s", typ, node.Identifier())
		switch typ {
		case Delete:
			if err := cursor.Delete(node.Identifier()); err != nil {
				return nil, err
			}
		case Appeared, Disappeared, SubtreeModified:
			if children := node.ChildNodes(); len(children) > 0 {
				if err := cursor.Enter(node.Identifier()); err != nil {
					return nil, err
				}
				return &frame{parent: f, children: children, exits: true}, nil
			}
		case Unmodified:
		case Write:
			after, _ := node.DataAfter()
			if err := cursor.Write(node.Identifier(), after); err != nil {
				return nil, err
			}
		default:
			assertThat(false, "unsupported modification %s", typ)
		}
	}
	if f.exits {
		cursor.Exit()
	}
	return f.parent, nil
}
