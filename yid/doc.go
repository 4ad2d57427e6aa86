/*
Package yid implements structured identifiers for nodes of a data tree.

A data tree is addressed by paths. Every step of a path is a path argument, which
identifies a child node uniquely among its siblings. There are four kinds of path arguments:

	NodeIdentifier                // containers, leafs, choices, maps, leaf-sets
	NodeIdentifierWithPredicates  // map entries, identified by their key values
	NodeWithValue                 // leaf-set entries, identified by their value
	AugmentationIdentifier        // augmentations, identified by the children they contribute

Every path argument has a canonical string key, which is used for ordering and
looking up children.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package yid

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"
)

// tracer traces with key 'yangtree.yid'.
func tracer() tracing.Trace {
	return tracing.Select("yangtree.yid")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("yid: "+msg, msgargs...)
		panic(msg)
	}
}

func wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}
