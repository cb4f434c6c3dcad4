// FILE: lixenwraith/libconfig/path.go
package libconfig

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/libconfig/internal/grammar"
)

// splitPath splits a dotted path. The empty path has no segments; empty segments are invalid.
func splitPath(path string) ([]string, bool) {
	if path == "" {
		return nil, true
	}
	segments := strings.Split(path, ".")
	for _, segment := range segments {
		if segment == "" {
			return nil, false
		}
	}
	return segments, true
}

// parseIndex accepts only plain non-negative decimal indices.
func parseIndex(s string) (int, bool) {
	if s == "" || len(s) > 9 {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// isValidName checks a member name against the grammar's identifier rule.
func isValidName(s string) bool {
	return grammar.IsName(s)
}

func displayPath(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}

// resolve walks path from start: group segments match member names exactly,
// array and list segments are positional indices. It never mutates the tree.
func (d *Document) resolve(start ref, path string) (ref, bool) {
	segments, ok := splitPath(path)
	if !ok {
		return ref{}, false
	}

	cur := start
	if _, err := d.arena.get(cur); err != nil {
		return ref{}, false
	}
	for _, segment := range segments {
		nd, err := d.arena.get(cur)
		if err != nil {
			return ref{}, false
		}
		switch nd.kind {
		case KindGroup:
			next, ok := d.arena.member(nd, segment)
			if !ok {
				return ref{}, false
			}
			cur = next
		case KindArray, KindList:
			i, ok := parseIndex(segment)
			if !ok || i >= len(nd.children) {
				return ref{}, false
			}
			cur = nd.children[i]
		default:
			return ref{}, false
		}
	}
	return cur, true
}

// CreatePath walks path from s creating missing intermediate groups, then creates the final
// segment with the given kind and value. An existing final setting of the same kind is returned,
// with its value replaced for scalars. The tree is unchanged when an error is returned.
func (s Setting) CreatePath(path string, kind Kind, val Value) (Setting, error) {
	d := s.doc
	if _, err := s.node(); err != nil {
		return Setting{}, err
	}
	segments, ok := splitPath(path)
	if !ok || len(segments) == 0 {
		return Setting{}, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	switch {
	case kind.IsScalar():
		if val.Kind() != kind {
			return Setting{}, fmt.Errorf("%w: value of kind %s for %s setting %q", ErrTypeMismatch, val.Kind(), kind, path)
		}
		if err := checkScalar(val, "create"); err != nil {
			return Setting{}, err
		}
	case kind.IsAggregate():
		val = Value{}
	default:
		return Setting{}, fmt.Errorf("%w: cannot create setting of kind %s", ErrTypeMismatch, kind)
	}
	for _, segment := range segments {
		if !isValidName(segment) {
			return Setting{}, fmt.Errorf("%w: segment %q in path %q", ErrInvalidName, segment, path)
		}
	}

	// Validate the existing prefix before creating anything.
	cur := s.ref
	created := len(segments)
	for i, segment := range segments {
		nd, _ := d.arena.get(cur)
		if nd.kind != KindGroup {
			return Setting{}, fmt.Errorf("%w: %s is a %s", ErrNotAGroup, displayPath(View{doc: d, ref: cur}.Path()), nd.kind)
		}
		next, ok := d.arena.member(nd, segment)
		if !ok {
			created = i
			break
		}
		cur = next
	}

	if created == len(segments) {
		nd, _ := d.arena.get(cur)
		if nd.kind != kind {
			return Setting{}, &TypeError{Path: View{doc: d, ref: cur}.Path(), Expected: kind, Actual: nd.kind}
		}
		if kind.IsScalar() {
			nd.value = val
		}
		return Setting{View{doc: d, ref: cur}}, nil
	}

	for _, segment := range segments[created : len(segments)-1] {
		cur = d.arena.attach(cur, segment, KindGroup, Value{})
	}
	cur = d.arena.attach(cur, segments[len(segments)-1], kind, val)
	return Setting{View{doc: d, ref: cur}}, nil
}
