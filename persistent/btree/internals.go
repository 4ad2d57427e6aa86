package btree

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/constraints"
)

// xitem is a key-value pair stored in a node.
type xitem[K constraints.Ordered, V any] struct {
	key   K
	value V
}

// xnode is a node of a B-tree. Leaf nodes have no children.
// Nodes are never modified once they are linked into a map.
type xnode[K constraints.Ordered, V any] struct {
	items    []xitem[K, V]
	children []*xnode[K, V]
}

func (node *xnode[K, V]) isLeaf() bool {
	return len(node.children) == 0
}

func (node *xnode[K, V]) overfull(highWaterMark uint) bool {
	return uint(len(node.items)) > highWaterMark
}

func (node *xnode[K, V]) underfull(lowWaterMark uint) bool {
	return node == nil || uint(len(node.items)) < lowWaterMark
}

func (node xnode[K, V]) clone() xnode[K, V] {
	cow := xnode[K, V]{items: make([]xitem[K, V], len(node.items))}
	copy(cow.items, node.items)
	if len(node.children) > 0 {
		cow.children = make([]*xnode[K, V], len(node.children))
		copy(cow.children, node.children)
	}
	return cow
}

func (node *xnode[K, V]) String() string {
	if node == nil {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteRune('[')
	for i, item := range node.items {
		if i > 0 {
			sb.WriteRune(',')
		}
		sb.WriteString(fmt.Sprintf("%v", item.key))
	}
	sb.WriteRune(']')
	return sb.String()
}

// findSlot returns the index of the first item with a key ≥ `key`, and whether the
// item at this index matches `key` exactly.
func (node *xnode[K, V]) findSlot(key K) (bool, int) {
	items, itemcnt := node.items, len(node.items)
	slotinx := sort.Search(itemcnt, func(i int) bool {
		return items[i].key >= key // sort.Search will find the smallest i for which this is true
	})
	return slotinx < itemcnt && key == items[slotinx].key, slotinx
}

func (m Map[K, V]) findKeyAndPath(key K, pathBuf slotPath[K, V]) (found bool, path slotPath[K, V]) {
	path = pathBuf[:0] // we track the path to the key's slot
	if m.root == nil {
		return
	}
	var index int
	var node *xnode[K, V] = m.root // walking nodes, start search at the top
	for {
		found, index = node.findSlot(key)
		path = append(path, slot[K, V]{node: node, index: index})
		if found || node.isLeaf() {
			return
		}
		node = node.children[index]
	}
}

func (m Map[K, V]) replacing(key K, value V, path slotPath[K, V]) Map[K, V] {
	assertThat(len(path) > 0, "cannot replace item without path")
	hit := path.last() // slot where `key` lives
	cow := hit.node.withReplacedValue(xitem[K, V]{key: key, value: value}, hit.index)
	newRoot := path.dropLast().foldR(cloneSeam[K, V], slot[K, V]{node: &cow, index: hit.index})
	return m.shallowCloneWithRoot(newRoot.node, m.depth, m.size)
}

func splitAndClone[K constraints.Ordered, V any](highWaterMark uint) func(slot[K, V], slot[K, V]) slot[K, V] {
	return func(parent, child slot[K, V]) slot[K, V] {
		seam := cloneSeam(parent, child)
		if child.node.overfull(highWaterMark) {
			tracer().Debugf("child is overfull: %v", child)
			return seam.node.splitChild(parent.index)
		}
		return seam
	}
}

func cloneSeam[K constraints.Ordered, V any](parent, child slot[K, V]) slot[K, V] {
	cowParent := parent.node.clone()
	cowParent.children[parent.index] = child.node
	return slot[K, V]{node: &cowParent, index: parent.index}
}

func balance[K constraints.Ordered, V any](lowWaterMark uint) func(slot[K, V], slot[K, V]) slot[K, V] {
	return func(parent, child slot[K, V]) slot[K, V] {
		seam := cloneSeam(parent, child)
		if child.node.underfull(lowWaterMark) {
			tracer().Debugf("child is underfull: %v", child)
			seam.node.rebalance(parent.index, lowWaterMark)
		}
		return seam
	}
}

func (node xnode[K, V]) withReplacedValue(item xitem[K, V], at int) xnode[K, V] {
	assertThat(at < len(node.items), "given item index out of range: %d ≤ %d", len(node.items), at)
	cow := node.clone()
	cow.items[at].value = item.value
	return cow
}

// withInsertedItem inserts an item into a leaf.
func (node xnode[K, V]) withInsertedItem(item xitem[K, V], at int) xnode[K, V] {
	assertThat(at <= len(node.items), "given item index out of range: %d < %d", len(node.items), at)
	cow := xnode[K, V]{items: make([]xitem[K, V], 0, len(node.items)+1)}
	cow.items = append(cow.items, node.items[:at]...)
	cow.items = append(cow.items, item)
	cow.items = append(cow.items, node.items[at:]...)
	return cow
}

// withDeletedItem removes an item from a leaf.
func (node xnode[K, V]) withDeletedItem(at int) xnode[K, V] {
	assertThat(at < len(node.items), "given item index out of range: %d ≤ %d", len(node.items), at)
	cow := xnode[K, V]{items: make([]xitem[K, V], 0, len(node.items)-1)}
	cow.items = append(cow.items, node.items[:at]...)
	cow.items = append(cow.items, node.items[at+1:]...)
	return cow
}

func (node *xnode[K, V]) withCutRight() (xnode[K, V], xitem[K, V], *xnode[K, V]) {
	assertThat(len(node.items) > 0, "attempt to cut right item from empty node")
	cow := node.clone()
	item := cow.items[len(cow.items)-1]
	cow.items = cow.items[:len(cow.items)-1]
	var grandChild *xnode[K, V]
	if !cow.isLeaf() {
		grandChild = cow.children[len(cow.children)-1]
		cow.children = cow.children[:len(cow.children)-1]
	}
	return cow, item, grandChild
}

func (node *xnode[K, V]) withCutLeft() (xnode[K, V], xitem[K, V], *xnode[K, V]) {
	assertThat(len(node.items) > 0, "attempt to cut left item from empty node")
	cow := node.clone()
	item := cow.items[0]
	cow.items = cow.items[1:]
	var grandChild *xnode[K, V]
	if !cow.isLeaf() {
		grandChild = cow.children[0]
		cow.children = cow.children[1:]
	}
	return cow, item, grandChild
}

func (node *xnode[K, V]) withPrepended(item xitem[K, V], grandChild *xnode[K, V]) xnode[K, V] {
	cow := xnode[K, V]{items: make([]xitem[K, V], 0, len(node.items)+1)}
	cow.items = append(append(cow.items, item), node.items...)
	if grandChild != nil {
		cow.children = make([]*xnode[K, V], 0, len(node.children)+1)
		cow.children = append(append(cow.children, grandChild), node.children...)
	}
	return cow
}

func (node *xnode[K, V]) withAppended(item xitem[K, V], grandChild *xnode[K, V]) xnode[K, V] {
	cow := node.clone()
	cow.items = append(cow.items, item)
	if grandChild != nil {
		cow.children = append(cow.children, grandChild)
	}
	return cow
}

// splitChild splits the overfull child at index i. It is not checked if the child is indeed
// overfull. Returns a modified copy of node with 2 new children, where the left one
// substitutes the original child.
//
// It's legal to call this on a node with no items and a single child (in order to
// create a new root).
func (node xnode[K, V]) splitChild(i int) slot[K, V] {
	child := node.children[i]
	half := len(child.items) / 2
	median := child.items[half]
	siblingL := xnode[K, V]{items: append([]xitem[K, V](nil), child.items[:half]...)}
	siblingR := xnode[K, V]{items: append([]xitem[K, V](nil), child.items[half+1:]...)}
	if !child.isLeaf() {
		siblingL.children = append([]*xnode[K, V](nil), child.children[:half+1]...)
		siblingR.children = append([]*xnode[K, V](nil), child.children[half+1:]...)
	}
	cow := xnode[K, V]{
		items:    make([]xitem[K, V], 0, len(node.items)+1),
		children: make([]*xnode[K, V], 0, len(node.children)+1),
	}
	cow.items = append(cow.items, node.items[:i]...)
	cow.items = append(cow.items, median)
	cow.items = append(cow.items, node.items[i:]...)
	cow.children = append(cow.children, node.children[:i]...)
	cow.children = append(cow.children, &siblingL, &siblingR)
	cow.children = append(cow.children, node.children[i+1:]...)
	return slot[K, V]{node: &cow, index: i}
}

// rebalance fixes an underfull child at index i. node must be a fresh copy, as it will
// be modified in place.
func (node *xnode[K, V]) rebalance(i int, lowWaterMark uint) {
	assertThat(len(node.children) > 1, "attempt to balance parent with less than 2 children")
	child := node.children[i]
	if i > 0 && !node.children[i-1].underfull(lowWaterMark+1) {
		// steal item from left sibling ⇒ rotate right
		cowL, item, grandChild := node.children[i-1].withCutRight()
		cowC := child.withPrepended(node.items[i-1], grandChild)
		node.items[i-1] = item
		node.children[i-1], node.children[i] = &cowL, &cowC
		return
	}
	if i < len(node.children)-1 && !node.children[i+1].underfull(lowWaterMark+1) {
		// steal item from right sibling ⇒ rotate left
		cowR, item, grandChild := node.children[i+1].withCutLeft()
		cowC := child.withAppended(node.items[i], grandChild)
		node.items[i] = item
		node.children[i], node.children[i+1] = &cowC, &cowR
		return
	}
	// steal item from parent and merge child with a sibling
	l := i
	if i > 0 {
		l = i - 1
	}
	left, right := node.children[l], node.children[l+1]
	merged := xnode[K, V]{items: make([]xitem[K, V], 0, len(left.items)+len(right.items)+1)}
	merged.items = append(merged.items, left.items...)
	merged.items = append(merged.items, node.items[l])
	merged.items = append(merged.items, right.items...)
	if !left.isLeaf() {
		merged.children = make([]*xnode[K, V], 0, len(left.children)+len(right.children))
		merged.children = append(merged.children, left.children...)
		merged.children = append(merged.children, right.children...)
	}
	node.items = append(node.items[:l], node.items[l+1:]...)
	node.children = append(node.children[:l+1], node.children[l+2:]...)
	node.children[l] = &merged
}

// --- Helpers ---------------------------------------------------------------

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("btree: "+msg, msgargs...)
		panic(msg)
	}
}
