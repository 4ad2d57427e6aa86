/*
Package datatree implements an in-memory, schema-governed and versioned data tree.

Clients take snapshots of a data tree and open modifications on them. A modification
collects writes, merges and deletes against paths. Once ready, a modification is validated
against the current state of the tree, prepared into a candidate and committed. Committing
publishes a new version of the tree and notifies listeners of the candidate, an immutable
description of the changes.

Every node kind of the schema has its own apply strategy, which checks a pending
modification against the current persistent node and applies it. Untouched subtrees are
shared between versions. Strategies are bound to a schema context; the strategy at the root
of a tree may be upgraded when a new schema context is attached, without disturbing
modifications opened before.

Snapshots and committed trees may be read by any number of goroutines. A single
modification is not safe for concurrent use, and commits to a data tree are serialized.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package datatree

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'yangtree.datatree'.
func tracer() tracing.Trace {
	return tracing.Select("yangtree.datatree")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("datatree: "+msg, msgargs...)
		panic(msg)
	}
}
