/*
Package treenode implements persistent tree nodes, the versioned nodes a data tree is made of.

A tree node wraps a data node and adds two version stamps: the version of the commit which
last wrote the node itself, and the version of the commit which last touched the node or any
of its descendants (the subtree version). Tree nodes are never modified after construction.
Changes are done on a Mutable, which is sealed into a new tree node. Sealing shares every
child which has not been replaced or removed.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package treenode

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'yangtree.treenode'.
func tracer() tracing.Trace {
	return tracing.Select("yangtree.treenode")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("treenode: "+msg, msgargs...)
		panic(msg)
	}
}
