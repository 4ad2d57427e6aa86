/*
Package codec implements string codecs for the values of leafs and leaf-set entries.

Every leaf type of a schema has a codec, which serializes typed Go values to their
canonical string representation and parses string representations into typed values.
Values within a data tree are always typed:

	int8 … int64, uint8 … uint64   Go integers of the corresponding size
	string, enumeration            string
	boolean                        bool
	empty                          codec.EmptyValue
	binary                         []byte
	decimal64                      decimal.Decimal (github.com/shopspring/decimal)
	bits                           []string
	union                          the value of the first member type accepting it

Codecs are looked up with For, which caches codecs per type.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package codec

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"
)

// tracer traces with key 'yangtree.codec'.
func tracer() tracing.Trace {
	return tracing.Select("yangtree.codec")
}

// ErrInvalidValue is returned for values not matching a leaf type.
var ErrInvalidValue = errors.New("invalid value")

// ErrUnsupportedType is returned for leaf types without a codec.
var ErrUnsupportedType = errors.New("unsupported type")
