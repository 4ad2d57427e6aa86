package btree

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// --- Slot ------------------------------------------------------------------

// slot holds a step of a path. For inner nodes, index denotes the child we descended
// into; for the last slot of a path, index denotes an item.
type slot[K constraints.Ordered, V any] struct {
	node  *xnode[K, V]
	index int
}

func (s slot[K, V]) String() string {
	return strconv.Itoa(s.index) + "@" + s.node.String()
}

func (s slot[K, V]) item() xitem[K, V] {
	return s.node.items[s.index]
}

// --- Path ------------------------------------------------------------------

type slotPath[K constraints.Ordered, V any] []slot[K, V]

func (path slotPath[K, V]) String() string {
	var sb = strings.Builder{}
	sb.WriteRune('[')
	for _, s := range path {
		sb.WriteString(fmt.Sprintf("⟨%s⟩", s))
	}
	sb.WriteRune(']')
	return sb.String()
}

func (path slotPath[K, V]) last() slot[K, V] {
	if len(path) == 0 {
		return slot[K, V]{}
	}
	return path[len(path)-1]
}

func (path slotPath[K, V]) foldR(f func(slot[K, V], slot[K, V]) slot[K, V], zero slot[K, V]) slot[K, V] {
	r := zero
	for i := len(path) - 1; i >= 0; i-- {
		r = f(path[i], r)
	}
	return r
}

func (path slotPath[K, V]) dropLast() slotPath[K, V] {
	if len(path) == 0 {
		return path
	}
	return path[:len(path)-1]
}

// descendRightmost extends a path from node down to the rightmost item of its subtree.
func (path slotPath[K, V]) descendRightmost(node *xnode[K, V]) slotPath[K, V] {
	for !node.isLeaf() {
		path = append(path, slot[K, V]{node: node, index: len(node.children) - 1})
		node = node.children[len(node.children)-1]
	}
	return append(path, slot[K, V]{node: node, index: len(node.items) - 1})
}
