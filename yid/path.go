package yid

import (
	"github.com/pkg/errors"
	"strings"
)

// ErrInvalidPath is returned if a textual path cannot be parsed.
var ErrInvalidPath = errors.New("invalid path")

// Path is an instance identifier: a sequence of path arguments, starting at the
// (conceptual) root of a data tree. The empty path denotes the root.
//
// Paths are treated as values; operations never modify the receiver.
type Path []PathArgument

// RootPath is the empty path.
var RootPath = Path{}

// NewPath creates a path from a sequence of path arguments.
func NewPath(args ...PathArgument) Path {
	return append(Path{}, args...)
}

// Append returns a new path extended by args.
func (p Path) Append(args ...PathArgument) Path {
	np := make(Path, 0, len(p)+len(args))
	np = append(np, p...)
	return append(np, args...)
}

// IsEmpty returns true for the root path.
func (p Path) IsEmpty() bool {
	return len(p) == 0
}

// Last returns the last path argument, or nil for the root path.
func (p Path) Last() PathArgument {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}

// Parent returns the path without its last argument. The parent of the root path
// is the root path.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return p
	}
	return p[: len(p)-1 : len(p)-1]
}

// Equal compares two paths argument by argument.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if !Equal(p[i], other[i]) {
			return false
		}
	}
	return true
}

// RelativeTo returns the remainder of p, if base is a prefix of p.
func (p Path) RelativeTo(base Path) (Path, bool) {
	if len(base) > len(p) {
		return nil, false
	}
	for i := range base {
		if !Equal(p[i], base[i]) {
			return nil, false
		}
	}
	return append(Path{}, p[len(base):]...), true
}

func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, arg := range p {
		sb.WriteRune('/')
		sb.WriteString(arg.String())
	}
	return sb.String()
}

// --- Parsing ---------------------------------------------------------------

// ParsePath parses a textual path without namespaces. Examples:
//
//	/a/b                   // container a, child b
//	/a/list[name=x,id=1]   // map entry with keys name and id
//	/a/tags[.=blue]        // leaf-set entry with value "blue"
//	/a/augmentation(x,y)   // augmentation contributing x and y
//
// Predicate values are always strings.
func ParsePath(s string) (Path, error) {
	return ParsePathNS("", s)
}

// ParsePathNS parses a textual path, putting every name into a namespace.
func ParsePathNS(namespace, s string) (Path, error) {
	if !strings.HasPrefix(s, "/") {
		return nil, wrapf(ErrInvalidPath, "path must start with '/': %q", s)
	}
	segments, err := splitSegments(s[1:])
	if err != nil {
		return nil, err
	}
	path := make(Path, 0, len(segments))
	for _, seg := range segments {
		arg, err := parseSegment(namespace, seg)
		if err != nil {
			return nil, err
		}
		path = append(path, arg)
	}
	tracer().Debugf("parsed path %q -> %s", s, path)
	return path, nil
}

// MustParsePath parses a path and panics on error. Intended for tests and static paths.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	assertThat(err == nil, "cannot parse path %q: %v", s, err)
	return p
}

func splitSegments(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var segments []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
			if depth < 0 {
				return nil, wrapf(ErrInvalidPath, "unbalanced brackets in %q", s)
			}
		case '/':
			if depth == 0 {
				segments = append(segments, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, wrapf(ErrInvalidPath, "unbalanced brackets in %q", s)
	}
	return append(segments, s[start:]), nil
}

func parseSegment(namespace, seg string) (PathArgument, error) {
	if seg == "" {
		return nil, wrapf(ErrInvalidPath, "empty path segment")
	}
	if strings.HasPrefix(seg, "augmentation(") && strings.HasSuffix(seg, ")") {
		inner := seg[len("augmentation(") : len(seg)-1]
		var names []QName
		for _, n := range strings.Split(inner, ",") {
			if n = strings.TrimSpace(n); n == "" {
				return nil, wrapf(ErrInvalidPath, "empty name in %q", seg)
			}
			names = append(names, NewQName(namespace, n))
		}
		return NewAugmentationIdentifier(names...), nil
	}
	open := strings.IndexRune(seg, '[')
	if open < 0 {
		return NewNodeIdentifier(NewQName(namespace, seg)), nil
	}
	if !strings.HasSuffix(seg, "]") || open == 0 {
		return nil, wrapf(ErrInvalidPath, "malformed predicate in %q", seg)
	}
	qname := NewQName(namespace, seg[:open])
	preds := seg[open+1 : len(seg)-1]
	if strings.HasPrefix(preds, ".=") {
		return NewNodeWithValue(qname, preds[2:]), nil
	}
	var keys []KeyValue
	for _, pred := range strings.Split(preds, ",") {
		k, v, ok := strings.Cut(pred, "=")
		if !ok || k == "" {
			return nil, wrapf(ErrInvalidPath, "malformed predicate %q in %q", pred, seg)
		}
		keys = append(keys, KeyValue{Name: NewQName(namespace, strings.TrimSpace(k)), Value: v})
	}
	return NewNodeIdentifierWithPredicates(qname, keys...), nil
}
