package data

import (
	"encoding/binary"
	"fmt"

	"github.com/npillmayer/yangtree/yid"
	"github.com/zeebo/xxh3"
)

// Fingerprint computes a structural hash of a data subtree. Structurally equal subtrees
// have equal fingerprints.
func Fingerprint(node Node) uint64 {
	return fingerprints(node, nil)[node]
}

// fingerprints computes fingerprints for every node of a subtree, post-order, using an
// explicit stack. If visit is non-nil, it is called for every node with its path.
func fingerprints(root Node, visit func(Node, yid.Path)) map[Node]uint64 {
	type frame struct {
		node     Node
		path     yid.Path
		expanded bool
	}
	memo := make(map[Node]uint64)
	if root == nil {
		return memo
	}
	stack := []frame{{node: root, path: yid.RootPath}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		p, isParent := top.node.(*Parent)
		if isParent && !top.expanded {
			top.expanded = true
			node, path := top.node, top.path
			if visit != nil {
				visit(node, path)
			}
			p.EachChild(func(ch Node) bool {
				stack = append(stack, frame{node: ch, path: path.Append(ch.Identifier())})
				return true
			})
			continue
		}
		stack = stack[:len(stack)-1]
		if !isParent && visit != nil {
			visit(top.node, top.path)
		}
		if _, done := memo[top.node]; done {
			continue
		}
		h := xxh3.New()
		_, _ = h.Write([]byte{byte(top.node.Kind())})
		_, _ = h.WriteString(top.node.Identifier().Key())
		if isParent {
			var buf [8]byte
			p.EachChild(func(ch Node) bool {
				binary.LittleEndian.PutUint64(buf[:], memo[ch])
				_, _ = h.Write(buf[:])
				return true
			})
		} else {
			_, _ = h.WriteString(fmt.Sprintf("%v", top.node.(*Leaf).value))
		}
		memo[top.node] = h.Sum64()
	}
	return memo
}

// DuplicateEntry lists the places where a subtree occurs. Identical holds paths where the
// very same node instance occurs, Duplicates holds paths of structurally equal, but
// distinct instances.
type DuplicateEntry struct {
	Node       Node
	Identical  []yid.Path
	Duplicates []yid.Path
}

// FindDuplicates finds data node instances within a subtree which compare as equal,
// but do not refer to the same object.
func FindDuplicates(root Node) []DuplicateEntry {
	type occurrence struct {
		node Node
		path yid.Path
	}
	var all []occurrence
	memo := fingerprints(root, func(n Node, path yid.Path) {
		all = append(all, occurrence{node: n, path: path})
	})
	entries := make(map[uint64][]*DuplicateEntry)
	var result []*DuplicateEntry
	for _, occ := range all {
		fp := memo[occ.node]
		var entry *DuplicateEntry
		for _, e := range entries[fp] {
			if e.Node == occ.node {
				e.Identical = append(e.Identical, occ.path)
				entry = e
				break
			}
			if Equal(e.Node, occ.node) {
				e.Duplicates = append(e.Duplicates, occ.path)
				entry = e
				break
			}
		}
		if entry == nil {
			entry = &DuplicateEntry{Node: occ.node, Identical: []yid.Path{occ.path}}
			entries[fp] = append(entries[fp], entry)
			result = append(result, entry)
		}
	}
	var dups []DuplicateEntry
	for _, e := range result {
		if len(e.Duplicates) > 0 {
			dups = append(dups, *e)
		}
	}
	tracer().Debugf("found %d duplicated subtrees", len(dups))
	return dups
}
