/*
Package btree implements a persistent (immutable) in-memory ordered map, organized as a B-tree.

Every “modification” of a map (insertion, replacement or deletion) creates a new incarnation,
leaving the original unchanged. Only the nodes on the path from the root to the modified
slot are copied; all other nodes are shared between the old and the new incarnation.
Maps are therefore inherently concurrency-safe for readers.

The data tree engine uses maps of this package to hold the children of data nodes and of
persistent tree nodes, keyed by the canonical key of a child's path argument.

A good introduction to B-trees and their algorithms may be found at
https://algorithmtutor.com/Data-Structures/Tree/B-Trees/.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package btree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'yangtree.btree'.
func tracer() tracing.Trace {
	return tracing.Select("yangtree.btree")
}
