package yid

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// QName is a qualified name of a schema node.
type QName struct {
	Namespace string
	Local     string
}

// Name creates a QName without a namespace.
func Name(local string) QName {
	return QName{Local: local}
}

// NewQName creates a QName within a namespace.
func NewQName(namespace, local string) QName {
	return QName{Namespace: namespace, Local: local}
}

func (q QName) String() string {
	if q.Namespace == "" {
		return q.Local
	}
	return "{" + q.Namespace + "}" + q.Local
}

// compare orders QNames by namespace first, then by local name.
func (q QName) compare(other QName) int {
	if c := strings.Compare(q.Namespace, other.Namespace); c != 0 {
		return c
	}
	return strings.Compare(q.Local, other.Local)
}

// PathArgument is a step of a path, identifying a node among its siblings.
type PathArgument interface {
	// NodeType is the QName of the schema node the argument refers to.
	// Augmentation identifiers return the zero QName.
	NodeType() QName
	// Key is a canonical string, unique among the siblings of a node.
	Key() string
	String() string
	isPathArgument()
}

// Equal returns true if two path arguments identify the same node.
func Equal(a, b PathArgument) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Key() == b.Key()
}

// --- NodeIdentifier --------------------------------------------------------

// NodeIdentifier identifies a node by its QName only.
type NodeIdentifier struct {
	qname QName
}

var _ PathArgument = NodeIdentifier{}

// NewNodeIdentifier creates an identifier for a node type.
func NewNodeIdentifier(qname QName) NodeIdentifier {
	return NodeIdentifier{qname: qname}
}

// Id is a shortcut for an identifier of a node type without namespace.
func Id(local string) NodeIdentifier {
	return NodeIdentifier{qname: Name(local)}
}

func (id NodeIdentifier) NodeType() QName { return id.qname }
func (id NodeIdentifier) Key() string     { return id.qname.String() }
func (id NodeIdentifier) String() string  { return id.qname.String() }
func (id NodeIdentifier) isPathArgument() {}

// --- NodeIdentifierWithPredicates ------------------------------------------

// KeyValue is a predicate of a map entry identifier.
type KeyValue struct {
	Name  QName
	Value interface{}
}

// NodeIdentifierWithPredicates identifies a map entry by the values of its keys.
type NodeIdentifierWithPredicates struct {
	qname QName
	keys  []KeyValue // sorted by name
	key   string
}

var _ PathArgument = NodeIdentifierWithPredicates{}

// NewNodeIdentifierWithPredicates creates an identifier for a map entry.
func NewNodeIdentifierWithPredicates(qname QName, keys ...KeyValue) NodeIdentifierWithPredicates {
	sorted := slices.Clone(keys)
	slices.SortFunc(sorted, func(a, b KeyValue) int {
		return a.Name.compare(b.Name)
	})
	var sb strings.Builder
	sb.WriteString(qname.String())
	sb.WriteRune('[')
	for i, kv := range sorted {
		if i > 0 {
			sb.WriteRune(',')
		}
		sb.WriteString(kv.Name.String())
		sb.WriteRune('=')
		sb.WriteString(fmt.Sprintf("%v", kv.Value))
	}
	sb.WriteRune(']')
	return NodeIdentifierWithPredicates{qname: qname, keys: sorted, key: sb.String()}
}

// Entry is a shortcut for a map entry identifier with a single key, without namespace.
func Entry(local string, keyName string, keyValue interface{}) NodeIdentifierWithPredicates {
	return NewNodeIdentifierWithPredicates(Name(local), KeyValue{Name: Name(keyName), Value: keyValue})
}

func (id NodeIdentifierWithPredicates) NodeType() QName { return id.qname }
func (id NodeIdentifierWithPredicates) Key() string     { return id.key }
func (id NodeIdentifierWithPredicates) String() string  { return id.key }
func (id NodeIdentifierWithPredicates) isPathArgument() {}

// KeyValues returns the key predicates, ordered by key name.
func (id NodeIdentifierWithPredicates) KeyValues() []KeyValue {
	return slices.Clone(id.keys)
}

// Value returns the value of a key predicate.
func (id NodeIdentifierWithPredicates) Value(name QName) (interface{}, bool) {
	for _, kv := range id.keys {
		if kv.Name == name {
			return kv.Value, true
		}
	}
	return nil, false
}

// --- NodeWithValue ---------------------------------------------------------

// NodeWithValue identifies a leaf-set entry by its value.
type NodeWithValue struct {
	qname QName
	value interface{}
}

var _ PathArgument = NodeWithValue{}

// NewNodeWithValue creates an identifier for a leaf-set entry.
func NewNodeWithValue(qname QName, value interface{}) NodeWithValue {
	return NodeWithValue{qname: qname, value: value}
}

func (id NodeWithValue) NodeType() QName    { return id.qname }
func (id NodeWithValue) Key() string        { return fmt.Sprintf("%s[.=%v]", id.qname, id.value) }
func (id NodeWithValue) String() string     { return id.Key() }
func (id NodeWithValue) Value() interface{} { return id.value }
func (id NodeWithValue) isPathArgument()    {}

// --- AugmentationIdentifier ------------------------------------------------

// AugmentationIdentifier identifies an augmentation by the set of child node types
// it contributes to its parent.
type AugmentationIdentifier struct {
	names []QName // sorted
	key   string
}

var _ PathArgument = AugmentationIdentifier{}

// NewAugmentationIdentifier creates an identifier for an augmentation.
func NewAugmentationIdentifier(childNames ...QName) AugmentationIdentifier {
	assertThat(len(childNames) > 0, "augmentation identifier needs at least one child name")
	sorted := slices.Clone(childNames)
	slices.SortFunc(sorted, func(a, b QName) int {
		return a.compare(b)
	})
	sorted = slices.Compact(sorted)
	parts := make([]string, len(sorted))
	for i, n := range sorted {
		parts[i] = n.String()
	}
	return AugmentationIdentifier{names: sorted, key: "augmentation(" + strings.Join(parts, ",") + ")"}
}

func (id AugmentationIdentifier) NodeType() QName { return QName{} }
func (id AugmentationIdentifier) Key() string     { return id.key }
func (id AugmentationIdentifier) String() string  { return id.key }
func (id AugmentationIdentifier) isPathArgument() {}

// ChildNames returns the sorted set of child node types of the augmentation.
func (id AugmentationIdentifier) ChildNames() []QName {
	return slices.Clone(id.names)
}

// Contains returns true if the augmentation contributes a child of type name.
func (id AugmentationIdentifier) Contains(name QName) bool {
	_, found := slices.BinarySearchFunc(id.names, name, func(a, b QName) int {
		return a.compare(b)
	})
	return found
}
