/*
Package data implements immutable normalized data nodes, the payload of a data tree.

Data nodes come in two flavours: leaf-like nodes carry a scalar value, while parent nodes
carry a collection of children, keyed by the canonical key of their path arguments.
Children collections are persistent maps: building a parent node from another one by
replacing or removing a single child shares every other child by reference.

Nodes are never modified after construction and may be shared freely between goroutines.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package data

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'yangtree.data'.
func tracer() tracing.Trace {
	return tracing.Select("yangtree.data")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("data: "+msg, msgargs...)
		panic(msg)
	}
}
