package codec

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cristalhq/base64"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/npillmayer/yangtree/data"
	"github.com/npillmayer/yangtree/schema"
	"github.com/npillmayer/yangtree/yid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// Codec converts between typed leaf values and their string representation.
type Codec interface {
	Serialize(value interface{}) (string, error)
	Deserialize(text string) (interface{}, error)
	// Check tests if a typed value is acceptable for the codec's type.
	Check(value interface{}) error
}

// EmptyValue is the only value of leafs of type 'empty'.
type EmptyValue struct{}

const cacheSize = 256

var codecs *lru.Cache[string, Codec]

func init() {
	var err error
	if codecs, err = lru.New[string, Codec](cacheSize); err != nil {
		panic(err.Error())
	}
}

// For returns the codec for a leaf type.
func For(t schema.Type) (Codec, error) {
	key := t.String()
	if c, ok := codecs.Get(key); ok {
		return c, nil
	}
	c, err := newCodec(t)
	if err != nil {
		return nil, err
	}
	codecs.Add(key, c)
	tracer().Debugf("created codec for type %s", key)
	return c, nil
}

// CheckValue tests if a typed value is acceptable for a leaf type.
func CheckValue(t schema.Type, value interface{}) error {
	c, err := For(t)
	if err != nil {
		return err
	}
	return c.Check(value)
}

// ParseLeaf creates a leaf or leaf-set entry data node from a string representation,
// according to the type of schema node sn.
func ParseLeaf(sn *schema.Node, text string) (data.Node, error) {
	if sn.Kind() != schema.LeafKind && sn.Kind() != schema.LeafListKind {
		return nil, errors.Wrapf(ErrUnsupportedType, "cannot parse value for %s", sn)
	}
	c, err := For(sn.Type())
	if err != nil {
		return nil, err
	}
	v, err := c.Deserialize(text)
	if err != nil {
		return nil, errors.Wrapf(err, "value for %s", sn.Name())
	}
	if sn.Kind() == schema.LeafListKind {
		return data.NewLeafSetEntry(sn.Name(), v), nil
	}
	return data.NewLeaf(yid.NewNodeIdentifier(sn.Name()), v), nil
}

func newCodec(t schema.Type) (Codec, error) {
	switch t.Name {
	case schema.NameInt8:
		return intCodec{bits: 8, conv: func(n int64) interface{} { return int8(n) }}, nil
	case schema.NameInt16:
		return intCodec{bits: 16, conv: func(n int64) interface{} { return int16(n) }}, nil
	case schema.NameInt32:
		return intCodec{bits: 32, conv: func(n int64) interface{} { return int32(n) }}, nil
	case schema.NameInt64:
		return intCodec{bits: 64, conv: func(n int64) interface{} { return n }}, nil
	case schema.NameUint8:
		return uintCodec{bits: 8, conv: func(n uint64) interface{} { return uint8(n) }}, nil
	case schema.NameUint16:
		return uintCodec{bits: 16, conv: func(n uint64) interface{} { return uint16(n) }}, nil
	case schema.NameUint32:
		return uintCodec{bits: 32, conv: func(n uint64) interface{} { return uint32(n) }}, nil
	case schema.NameUint64:
		return uintCodec{bits: 64, conv: func(n uint64) interface{} { return n }}, nil
	case schema.NameString:
		return stringCodec{}, nil
	case schema.NameBoolean:
		return boolCodec{}, nil
	case schema.NameEmpty:
		return emptyCodec{}, nil
	case schema.NameBinary:
		return binaryCodec{}, nil
	case schema.NameDecimal64:
		return decimalCodec{fractionDigits: int32(t.FractionDigits)}, nil
	case schema.NameEnumeration:
		return enumCodec{names: t.Enum}, nil
	case schema.NameBits:
		return bitsCodec{names: t.Bits}, nil
	case schema.NameUnion:
		u := unionCodec{}
		for _, m := range t.Union {
			c, err := For(m)
			if err != nil {
				return nil, err
			}
			u.members = append(u.members, c)
		}
		return u, nil
	}
	return nil, errors.Wrapf(ErrUnsupportedType, "no codec for type %q", t.Name)
}

func invalid(value interface{}, what string) error {
	return errors.Wrapf(ErrInvalidValue, "%#v is not a valid %s", value, what)
}

// --- Integers --------------------------------------------------------------

// provideBase determines the base of an integer literal: hexadecimal for "0x…",
// octal for "0…", decimal otherwise. It returns the literal without sign and prefix.
func provideBase(s string) (digits string, negative bool, base int) {
	if strings.HasPrefix(s, "-") {
		negative, s = true, s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		return s[2:], negative, 16
	case len(s) > 1 && s[0] == '0':
		return s[1:], negative, 8
	}
	return s, negative, 10
}

type intCodec struct {
	bits int
	conv func(int64) interface{}
}

func (c intCodec) Deserialize(text string) (interface{}, error) {
	digits, negative, base := provideBase(strings.TrimSpace(text))
	if digits == "" || strings.ContainsAny(digits[:1], "+-") {
		return nil, invalid(text, "int"+strconv.Itoa(c.bits))
	}
	if negative {
		digits = "-" + digits
	}
	n, err := strconv.ParseInt(digits, base, c.bits)
	if err != nil {
		return nil, invalid(text, "int"+strconv.Itoa(c.bits))
	}
	return c.conv(n), nil
}

func (c intCodec) Serialize(value interface{}) (string, error) {
	if err := c.Check(value); err != nil {
		return "", err
	}
	n, _ := toInt64(value)
	return strconv.FormatInt(n, 10), nil
}

func (c intCodec) Check(value interface{}) error {
	if _, ok := toInt64(value); !ok || intBits(value) != c.bits {
		return invalid(value, "int"+strconv.Itoa(c.bits))
	}
	return nil
}

func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

func intBits(value interface{}) int {
	switch value.(type) {
	case int8, uint8:
		return 8
	case int16, uint16:
		return 16
	case int32, uint32:
		return 32
	case int64, uint64:
		return 64
	}
	return 0
}

type uintCodec struct {
	bits int
	conv func(uint64) interface{}
}

func (c uintCodec) Deserialize(text string) (interface{}, error) {
	digits, negative, base := provideBase(strings.TrimSpace(text))
	if negative || digits == "" || strings.ContainsAny(digits[:1], "+-") {
		return nil, invalid(text, "uint"+strconv.Itoa(c.bits))
	}
	n, err := strconv.ParseUint(digits, base, c.bits)
	if err != nil {
		return nil, invalid(text, "uint"+strconv.Itoa(c.bits))
	}
	return c.conv(n), nil
}

func (c uintCodec) Serialize(value interface{}) (string, error) {
	if err := c.Check(value); err != nil {
		return "", err
	}
	n, _ := toUint64(value)
	return strconv.FormatUint(n, 10), nil
}

func (c uintCodec) Check(value interface{}) error {
	if _, ok := toUint64(value); !ok || intBits(value) != c.bits {
		return invalid(value, "uint"+strconv.Itoa(c.bits))
	}
	return nil
}

func toUint64(value interface{}) (uint64, bool) {
	switch v := value.(type) {
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint64:
		return v, true
	}
	return 0, false
}

// --- Strings, booleans, empty ----------------------------------------------

type stringCodec struct{}

func (stringCodec) Deserialize(text string) (interface{}, error) { return text, nil }

func (c stringCodec) Serialize(value interface{}) (string, error) {
	if err := c.Check(value); err != nil {
		return "", err
	}
	return value.(string), nil
}

func (stringCodec) Check(value interface{}) error {
	if _, ok := value.(string); !ok {
		return invalid(value, "string")
	}
	return nil
}

type boolCodec struct{}

func (boolCodec) Deserialize(text string) (interface{}, error) {
	switch text {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return nil, invalid(text, "boolean")
}

func (c boolCodec) Serialize(value interface{}) (string, error) {
	if err := c.Check(value); err != nil {
		return "", err
	}
	return strconv.FormatBool(value.(bool)), nil
}

func (boolCodec) Check(value interface{}) error {
	if _, ok := value.(bool); !ok {
		return invalid(value, "boolean")
	}
	return nil
}

type emptyCodec struct{}

func (emptyCodec) Deserialize(text string) (interface{}, error) {
	if text != "" {
		return nil, invalid(text, "empty")
	}
	return EmptyValue{}, nil
}

func (c emptyCodec) Serialize(value interface{}) (string, error) {
	return "", c.Check(value)
}

func (emptyCodec) Check(value interface{}) error {
	if _, ok := value.(EmptyValue); !ok {
		return invalid(value, "empty")
	}
	return nil
}

// --- Binary ----------------------------------------------------------------

type binaryCodec struct{}

func (binaryCodec) Deserialize(text string) (interface{}, error) {
	b, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, invalid(text, "binary")
	}
	return b, nil
}

func (c binaryCodec) Serialize(value interface{}) (string, error) {
	if err := c.Check(value); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(value.([]byte)), nil
}

func (binaryCodec) Check(value interface{}) error {
	if _, ok := value.([]byte); !ok {
		return invalid(value, "binary")
	}
	return nil
}

// --- Decimals --------------------------------------------------------------

type decimalCodec struct {
	fractionDigits int32
}

func (c decimalCodec) Deserialize(text string) (interface{}, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return nil, invalid(text, "decimal64")
	}
	if err := c.Check(d); err != nil {
		return nil, err
	}
	return d, nil
}

func (c decimalCodec) Serialize(value interface{}) (string, error) {
	if err := c.Check(value); err != nil {
		return "", err
	}
	return value.(decimal.Decimal).StringFixed(c.fractionDigits), nil
}

func (c decimalCodec) Check(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok || !d.Equal(d.Round(c.fractionDigits)) {
		return invalid(value, "decimal64 with "+strconv.Itoa(int(c.fractionDigits))+" fraction digits")
	}
	return nil
}

// --- Enumerations and bits -------------------------------------------------

type enumCodec struct {
	names []string
}

func (c enumCodec) Deserialize(text string) (interface{}, error) {
	if err := c.Check(text); err != nil {
		return nil, err
	}
	return text, nil
}

func (c enumCodec) Serialize(value interface{}) (string, error) {
	if err := c.Check(value); err != nil {
		return "", err
	}
	return value.(string), nil
}

func (c enumCodec) Check(value interface{}) error {
	s, ok := value.(string)
	if !ok || !slices.Contains(c.names, s) {
		return errors.Wrapf(ErrInvalidValue, "%#v for enumeration type; allowed values are %v", value, c.names)
	}
	return nil
}

type bitsCodec struct {
	names []string
}

func (c bitsCodec) Deserialize(text string) (interface{}, error) {
	bits := strings.Fields(text)
	if err := c.Check(bits); err != nil {
		return nil, err
	}
	sort.Strings(bits)
	return slices.Compact(bits), nil
}

func (c bitsCodec) Serialize(value interface{}) (string, error) {
	if err := c.Check(value); err != nil {
		return "", err
	}
	return strings.Join(value.([]string), " "), nil
}

func (c bitsCodec) Check(value interface{}) error {
	bits, ok := value.([]string)
	if !ok {
		return invalid(value, "bits")
	}
	for _, b := range bits {
		if !slices.Contains(c.names, b) {
			return errors.Wrapf(ErrInvalidValue, "%q for bits type; allowed values are %v", b, c.names)
		}
	}
	return nil
}

// --- Unions ----------------------------------------------------------------

type unionCodec struct {
	members []Codec
}

func (c unionCodec) Deserialize(text string) (interface{}, error) {
	for _, m := range c.members {
		if v, err := m.Deserialize(text); err == nil {
			return v, nil
		}
	}
	return nil, invalid(text, "union member")
}

func (c unionCodec) Serialize(value interface{}) (string, error) {
	for _, m := range c.members {
		if m.Check(value) == nil {
			return m.Serialize(value)
		}
	}
	return "", invalid(value, "union member")
}

func (c unionCodec) Check(value interface{}) error {
	for _, m := range c.members {
		if m.Check(value) == nil {
			return nil
		}
	}
	return invalid(value, "union member")
}
