/*
Package candidate implements data tree candidates, immutable trees describing the
changes of a commit, and their replay onto cursors.

A candidate node carries the modification type of a data node, the data before and after
the modification, and candidate nodes for modified children. Candidates are independent of
the persistent nodes of the tree they originate from: listeners may replay them onto
any mutable tree implementing Cursor.

Replay does not recurse on the call stack. Deeply nested candidates are walked with an
explicit stack of frames, each frame holding the siblings still to process at one depth.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package candidate

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'yangtree.candidate'.
func tracer() tracing.Trace {
	return tracing.Select("yangtree.candidate")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("candidate: "+msg, msgargs...)
		panic(msg)
	}
}
