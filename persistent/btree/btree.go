package btree

import (
	"golang.org/x/exp/constraints"
)

/*
Remarks:
--------

- 'cow' stands for copy-on-write and is used throughout the code for variables holding clones of nodes.

- We use a programming-style reminiscent of functional programming (see remarks on
  re-balancing) where it makes things easier to understand.

- A new modified incarnation of a map always is reflected by a new map.root.

*/

const defaultLowWaterMark uint = 3

var defaultHighWaterMark uint = 2*defaultLowWaterMark + 1

// Map is a persistent ordered map. An empty instance is usable as an empty map, i.e.
// this is legal:
//
//	m := btree.Map[string,int]{}.With("a", 42)
//
// returning a map containing a single item ⟨"a"⟩ associated with value 42.
type Map[K constraints.Ordered, V any] struct {
	root          *xnode[K, V]
	depth         uint
	size          int
	lowWaterMark  uint
	highWaterMark uint
}

// Immutable constructs a map with options, if you need any.
// Use it like this:
//
//	m := btree.Immutable[int, string](Degree(16))
//	m = m.With(42, "Galaxy")
//	value, found := m.Find(42)   // returns "Galaxy"
func Immutable[K constraints.Ordered, V any](opts ...Option) Map[K, V] {
	m := Map[K, V]{}.withWaterMarks(props{
		lowWaterMark:  defaultLowWaterMark,
		highWaterMark: defaultHighWaterMark,
	})
	for _, option := range opts {
		m = m.withWaterMarks(option.config(m.props()))
	}
	return m
}

// Option is a type to help initializing maps at creation time.
type Option struct {
	config func(props) props
}

type props struct {
	lowWaterMark  uint
	highWaterMark uint
}

// Degree is an option to set the minimum number of children an inner node of the
// tree owns. The lower bound for the degree is 3.
//
// Use it like this:
//
//	m := btree.Immutable[int, string](Degree(16))
func Degree(n int) Option {
	return Option{config: func(p props) props {
		low := uint(max(2, n-1))
		return props{lowWaterMark: low, highWaterMark: 2*low + 1}
	}}
}

// --- API -------------------------------------------------------------------

// Len returns the number of items in the map.
func (m Map[K, V]) Len() int {
	return m.size
}

// Find locates a key in a map, if present, and returns the value associated with the key.
// If `key` is not found, the zero value for type V will be returned, together with found=false.
func (m Map[K, V]) Find(key K) (V, bool) {
	node := m.root
	for node != nil {
		found, index := node.findSlot(key)
		if found {
			return node.items[index].value, true
		}
		if node.isLeaf() {
			break
		}
		node = node.children[index]
	}
	var none V
	return none, false
}

// With returns a copy of a map with a new key inserted, which is associated with `value`.
// If an entry for key is already present, the associated value will be replaced
// (in a new incarnation of the map, nevertheless).
func (m Map[K, V]) With(key K, value V) Map[K, V] {
	m = m.withDefaults()
	var found bool
	var path slotPath[K, V]
	if found, path = m.findKeyAndPath(key, make(slotPath[K, V], 0, m.depth)); found {
		return m.replacing(key, value, path) // copy with replaced value
	}
	tracer().Debugf("insert: slot path = %s", path)
	item := xitem[K, V]{key: key, value: value}
	if m.root == nil { // virgin map => insert first node and return
		root := xnode[K, V]{}.withInsertedItem(item, 0)
		return m.shallowCloneWithRoot(&root, 1, 1)
	}
	leafSlot := path.last()
	assertThat(leafSlot.node.isLeaf(), "attempt to insert item at non-leaf")
	cow := leafSlot.node.withInsertedItem(item, leafSlot.index) // copy-on-write
	newRoot := path.dropLast().foldR(splitAndClone[K, V](m.highWaterMark),
		slot[K, V]{node: &cow, index: leafSlot.index},
	)
	depth := m.depth
	if newRoot.node.overfull(m.highWaterMark) {
		newRoot = xnode[K, V]{children: []*xnode[K, V]{newRoot.node}}.splitChild(0)
		depth++
	}
	return m.shallowCloneWithRoot(newRoot.node, depth, m.size+1)
}

// WithDeleted returns a copy of a map with key deleted, if present, together with its
// associated value. If key is not found, m is returned unchanged.
func (m Map[K, V]) WithDeleted(key K) Map[K, V] {
	m = m.withDefaults()
	var found bool
	var path slotPath[K, V]
	if found, path = m.findKeyAndPath(key, make(slotPath[K, V], 0, m.depth)); !found {
		return m // no need for modification
	}
	tracer().Debugf("deletion: slot path = %s", path)
	del := path.last()
	var leafSlot slot[K, V]
	if del.node.isLeaf() {
		cow := del.node.withDeletedItem(del.index) // copy-on-write
		leafSlot = slot[K, V]{node: &cow, index: del.index}
		path = path.dropLast()
	} else { // for inner node:
		// swap item with rightmost item of left subtree
		cow := del.node.clone()
		path[len(path)-1].node = &cow // remember clone in path
		path = path.descendRightmost(del.node.children[del.index])
		pred := path.last()
		cow.items[del.index] = pred.item() // insert stolen item
		cowLeaf := pred.node.withDeletedItem(pred.index)
		leafSlot = slot[K, V]{node: &cowLeaf, index: pred.index}
		path = path.dropLast()
	}
	// balance from leaf-node upwards, starting at the leaf where we deleted an item
	newRoot := path.foldR(balance[K, V](m.lowWaterMark), leafSlot)
	depth := m.depth
	root := newRoot.node
	switch { // catch border cases where root is empty after deletion
	case len(root.items) == 0 && !root.isLeaf():
		root = root.children[0]
		depth--
	case len(root.items) == 0:
		root = nil
		depth = 0
	}
	return m.shallowCloneWithRoot(root, depth, m.size-1)
}

// Each calls f for every item of the map in ascending key order, until f returns false.
func (m Map[K, V]) Each(f func(K, V) bool) {
	if m.root == nil {
		return
	}
	type frame struct {
		node *xnode[K, V]
		next int // next item index to visit
	}
	stack := make([]frame, 0, m.depth+1)
	descend := func(node *xnode[K, V]) {
		for node != nil {
			stack = append(stack, frame{node: node})
			if node.isLeaf() {
				return
			}
			node = node.children[0]
		}
	}
	descend(m.root)
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.node.items) {
			stack = stack[:len(stack)-1]
			continue
		}
		item := top.node.items[top.next]
		top.next++
		if !f(item.key, item.value) {
			return
		}
		if !top.node.isLeaf() {
			descend(top.node.children[top.next])
		}
	}
}

// Keys returns the keys of the map in ascending order.
func (m Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.size)
	m.Each(func(k K, _ V) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Values returns the values of the map in ascending order of their keys.
func (m Map[K, V]) Values() []V {
	values := make([]V, 0, m.size)
	m.Each(func(_ K, v V) bool {
		values = append(values, v)
		return true
	})
	return values
}

// --- Internals -------------------------------------------------------------

func (m Map[K, V]) props() props {
	return props{lowWaterMark: m.lowWaterMark, highWaterMark: m.highWaterMark}
}

func (m Map[K, V]) withWaterMarks(p props) Map[K, V] {
	m.lowWaterMark, m.highWaterMark = p.lowWaterMark, p.highWaterMark
	return m
}

// withDefaults makes a zero map usable.
func (m Map[K, V]) withDefaults() Map[K, V] {
	if m.highWaterMark == 0 {
		m.lowWaterMark, m.highWaterMark = defaultLowWaterMark, defaultHighWaterMark
	}
	return m
}

func (m Map[K, V]) shallowCloneWithRoot(root *xnode[K, V], depth uint, size int) Map[K, V] {
	return Map[K, V]{
		root:          root,
		depth:         depth,
		size:          size,
		lowWaterMark:  m.lowWaterMark,
		highWaterMark: m.highWaterMark,
	}
}
