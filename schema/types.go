package schema

import (
	"strconv"
	"strings"
)

// Type is the type of a leaf or leaf-list.
type Type struct {
	Name           string   // base type name, e.g. "int32" or "enumeration"
	Enum           []string // names for enumerations
	Bits           []string // names of bits
	FractionDigits int      // for decimal64
	Union          []Type   // member types for unions
}

// Base type names.
const (
	NameInt8        = "int8"
	NameInt16       = "int16"
	NameInt32       = "int32"
	NameInt64       = "int64"
	NameUint8       = "uint8"
	NameUint16      = "uint16"
	NameUint32      = "uint32"
	NameUint64      = "uint64"
	NameString      = "string"
	NameBoolean     = "boolean"
	NameEmpty       = "empty"
	NameBinary      = "binary"
	NameDecimal64   = "decimal64"
	NameEnumeration = "enumeration"
	NameBits        = "bits"
	NameUnion       = "union"
)

// Predefined types without parameters.
var (
	Int8    = Type{Name: NameInt8}
	Int16   = Type{Name: NameInt16}
	Int32   = Type{Name: NameInt32}
	Int64   = Type{Name: NameInt64}
	Uint8   = Type{Name: NameUint8}
	Uint16  = Type{Name: NameUint16}
	Uint32  = Type{Name: NameUint32}
	Uint64  = Type{Name: NameUint64}
	String  = Type{Name: NameString}
	Boolean = Type{Name: NameBoolean}
	Empty   = Type{Name: NameEmpty}
	Binary  = Type{Name: NameBinary}
)

// Decimal64 creates a decimal type with a number of fraction digits.
func Decimal64(fractionDigits int) Type {
	return Type{Name: NameDecimal64, FractionDigits: fractionDigits}
}

// Enumeration creates an enumeration type.
func Enumeration(names ...string) Type {
	return Type{Name: NameEnumeration, Enum: names}
}

// Bits creates a bits type.
func Bits(names ...string) Type {
	return Type{Name: NameBits, Bits: names}
}

// Union creates a union of member types.
func Union(members ...Type) Type {
	return Type{Name: NameUnion, Union: members}
}

// String returns a canonical representation of a type, suitable as a lookup key.
func (t Type) String() string {
	switch t.Name {
	case NameDecimal64:
		return t.Name + "(" + strconv.Itoa(t.FractionDigits) + ")"
	case NameEnumeration:
		return t.Name + "{" + strings.Join(t.Enum, ",") + "}"
	case NameBits:
		return t.Name + "{" + strings.Join(t.Bits, ",") + "}"
	case NameUnion:
		parts := make([]string, len(t.Union))
		for i, m := range t.Union {
			parts[i] = m.String()
		}
		return t.Name + "<" + strings.Join(parts, "|") + ">"
	}
	return t.Name
}

func (t Type) valid() bool {
	switch t.Name {
	case NameInt8, NameInt16, NameInt32, NameInt64, NameUint8, NameUint16, NameUint32,
		NameUint64, NameString, NameBoolean, NameEmpty, NameBinary:
		return true
	case NameDecimal64:
		return t.FractionDigits >= 1 && t.FractionDigits <= 18
	case NameEnumeration:
		return len(t.Enum) > 0
	case NameBits:
		return len(t.Bits) > 0
	case NameUnion:
		if len(t.Union) == 0 {
			return false
		}
		for _, m := range t.Union {
			if !m.valid() {
				return false
			}
		}
		return true
	}
	return false
}
