/*
Package schema implements the schema model a data tree is governed by.

The model is deliberately small: it knows about the structural kinds of schema nodes
(containers, lists, leaf-lists, leafs, choices with cases, augmentations), keys of lists,
mandatory leafs, presence containers and the types of leafs. It does not know anything
about a schema language. Clients build a schema Context either programmatically

	ctx := schema.NewContext("urn:example",
	    schema.Container("top",
	        schema.Leaf("name", schema.String).Required(),
	        schema.List("users", []string{"id"},
	            schema.Leaf("id", schema.Uint32),
	        ),
	    ),
	)

or by loading a YAML schema descriptor (see LoadYAML).

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package schema

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"
)

// tracer traces with key 'yangtree.schema'.
func tracer() tracing.Trace {
	return tracing.Select("yangtree.schema")
}

// ErrInvalidSchema is returned for inconsistent schema definitions.
var ErrInvalidSchema = errors.New("invalid schema")
