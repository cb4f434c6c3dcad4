// FILE: lixenwraith/libconfig/view.go
package libconfig

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// View is a read-only handle to a setting inside a Document.
// It holds no state beyond the reference and is validated on every access:
// a View to a removed setting reports ErrStaleReference, and the zero View
// (or the result of a failed lookup) reports ErrElementNotExists.
// Handles must not be shared across goroutines while the document is being mutated.
type View struct {
	doc *Document
	ref ref
}

func (v View) node() (*node, error) {
	if v.doc == nil {
		return nil, ErrElementNotExists
	}
	return v.doc.arena.get(v.ref)
}

// Exists reports whether the handle refers to a live setting.
func (v View) Exists() bool {
	_, err := v.node()
	return err == nil
}

// Err returns nil for a live setting, ErrElementNotExists or ErrStaleReference otherwise.
func (v View) Err() error {
	_, err := v.node()
	return err
}

// Kind returns the setting kind, KindNone if the handle is not live.
func (v View) Kind() Kind {
	nd, err := v.node()
	if err != nil {
		return KindNone
	}
	return nd.kind
}

// IsGroup reports whether the setting is a group.
func (v View) IsGroup() bool { return v.Kind() == KindGroup }

// IsArray reports whether the setting is an array.
func (v View) IsArray() bool { return v.Kind() == KindArray }

// IsList reports whether the setting is a list.
func (v View) IsList() bool { return v.Kind() == KindList }

// IsScalar reports whether the setting holds a single value.
func (v View) IsScalar() bool { return v.Kind().IsScalar() }

// IsAggregate reports whether the setting is a group, array or list.
func (v View) IsAggregate() bool { return v.Kind().IsAggregate() }

// IsNumber reports whether the setting holds an integer or float.
func (v View) IsNumber() bool { return v.Kind().IsNumber() }

// IsRoot reports whether the setting is the document root.
func (v View) IsRoot() bool {
	nd, err := v.node()
	return err == nil && nd.parent.isNil()
}

// Parent returns the enclosing setting; false for the root.
func (v View) Parent() (View, bool) {
	nd, err := v.node()
	if err != nil || nd.parent.isNil() {
		return View{}, false
	}
	return View{doc: v.doc, ref: nd.parent}, true
}

// Name returns the member name; false for the root and for array or list elements.
func (v View) Name() (string, bool) {
	nd, err := v.node()
	if err != nil || nd.name == "" {
		return "", false
	}
	return nd.name, true
}

// Index returns the position among the parent's children; false for the root.
func (v View) Index() (int, bool) {
	nd, err := v.node()
	if err != nil || nd.parent.isNil() {
		return 0, false
	}
	pn, err := v.doc.arena.get(nd.parent)
	if err != nil {
		return 0, false
	}
	i := indexOf(pn, v.ref)
	return i, i >= 0
}

// Len returns the number of children, 0 for scalars.
func (v View) Len() int {
	nd, err := v.node()
	if err != nil {
		return 0
	}
	return len(nd.children)
}

// SourceLine returns the line the setting was parsed from, 0 if built programmatically.
func (v View) SourceLine() int {
	nd, err := v.node()
	if err != nil {
		return 0
	}
	return nd.line
}

// SourceFile returns the file the setting was parsed from, empty if unknown.
func (v View) SourceFile() string {
	nd, err := v.node()
	if err != nil {
		return ""
	}
	return nd.file
}

// Format returns the integer display hint.
func (v View) Format() Format {
	nd, err := v.node()
	if err != nil {
		return FormatDefault
	}
	return nd.format
}

// Path returns the dotted path from the root, with element indices as numeric segments.
func (v View) Path() string {
	var segs []string
	cur := v
	for {
		nd, err := cur.node()
		if err != nil || nd.parent.isNil() {
			break
		}
		if nd.name != "" {
			segs = append(segs, nd.name)
		} else if i, ok := cur.Index(); ok {
			segs = append(segs, strconv.Itoa(i))
		}
		cur = View{doc: v.doc, ref: nd.parent}
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return strings.Join(segs, ".")
}

// Member returns the named member of a group.
func (v View) Member(name string) (View, bool) {
	nd, err := v.node()
	if err != nil || nd.kind != KindGroup {
		return View{}, false
	}
	r, ok := v.doc.arena.member(nd, name)
	if !ok {
		return View{}, false
	}
	return View{doc: v.doc, ref: r}, true
}

// Elem returns the i-th child of an aggregate.
func (v View) Elem(i int) (View, bool) {
	nd, err := v.node()
	if err != nil || i < 0 || i >= len(nd.children) {
		return View{}, false
	}
	return View{doc: v.doc, ref: nd.children[i]}, true
}

// Lookup resolves a dotted path relative to v. The empty path returns v itself.
func (v View) Lookup(path string) (View, bool) {
	if v.doc == nil {
		return View{}, false
	}
	r, ok := v.doc.resolve(v.ref, path)
	if !ok {
		return View{}, false
	}
	return View{doc: v.doc, ref: r}, true
}

// Value returns the scalar payload.
func (v View) Value() (Value, error) {
	nd, err := v.node()
	if err != nil {
		return Value{}, err
	}
	if !nd.kind.IsScalar() {
		return Value{}, fmt.Errorf("%w: %s is a %s, not a scalar", ErrTypeMismatch, displayPath(v.Path()), nd.kind)
	}
	return nd.value, nil
}

// Children iterates over the children of any aggregate in order.
// Each iteration snapshots the child list, so the sequence can be restarted.
func (v View) Children() iter.Seq[View] {
	return func(yield func(View) bool) {
		nd, err := v.node()
		if err != nil {
			return
		}
		snapshot := append([]ref(nil), nd.children...)
		for _, r := range snapshot {
			if !yield(View{doc: v.doc, ref: r}) {
				return
			}
		}
	}
}

// Elements iterates over array or list elements; it is empty for other kinds.
func (v View) Elements() iter.Seq[View] {
	if k := v.Kind(); k != KindArray && k != KindList {
		return func(func(View) bool) {}
	}
	return v.Children()
}

// Members iterates over group members by name; it is empty for other kinds.
func (v View) Members() iter.Seq2[string, View] {
	return func(yield func(string, View) bool) {
		if v.Kind() != KindGroup {
			return
		}
		for c := range v.Children() {
			nd, err := c.node()
			if err != nil {
				continue
			}
			if !yield(nd.name, c) {
				return
			}
		}
	}
}
