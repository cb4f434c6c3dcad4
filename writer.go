// FILE: lixenwraith/libconfig/writer.go
package libconfig

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"
)

// Setting is a mutable handle to a setting inside a Document. It embeds the
// read-only View and re-declares navigation so that walking from a Setting
// yields Settings. Use ReadOnly to hand out read-only access.
type Setting struct {
	View
}

// ReadOnly narrows the handle to read-only access.
func (s Setting) ReadOnly() View { return s.View }

// Parent returns the enclosing setting; false for the root.
func (s Setting) Parent() (Setting, bool) {
	v, ok := s.View.Parent()
	return Setting{v}, ok
}

// Member returns the named member of a group.
func (s Setting) Member(name string) (Setting, bool) {
	v, ok := s.View.Member(name)
	return Setting{v}, ok
}

// Elem returns the i-th child of an aggregate.
func (s Setting) Elem(i int) (Setting, bool) {
	v, ok := s.View.Elem(i)
	return Setting{v}, ok
}

// Lookup resolves a dotted path relative to s.
func (s Setting) Lookup(path string) (Setting, bool) {
	v, ok := s.View.Lookup(path)
	return Setting{v}, ok
}

// Children iterates over the children of any aggregate in order.
func (s Setting) Children() iter.Seq[Setting] {
	return func(yield func(Setting) bool) {
		for v := range s.View.Children() {
			if !yield(Setting{v}) {
				return
			}
		}
	}
}

// Elements iterates over array or list elements.
func (s Setting) Elements() iter.Seq[Setting] {
	return func(yield func(Setting) bool) {
		for v := range s.View.Elements() {
			if !yield(Setting{v}) {
				return
			}
		}
	}
}

// AddGroup adds an empty group named name to a group, or appends an unnamed one to a list.
func (s Setting) AddGroup(name string) (Setting, error) {
	return s.addAggregate(name, KindGroup)
}

// AddArray adds an empty array named name to a group, or appends one to a list.
func (s Setting) AddArray(name string) (Setting, error) {
	return s.addAggregate(name, KindArray)
}

// AddList adds an empty list named name to a group, or appends one to a list.
func (s Setting) AddList(name string) (Setting, error) {
	return s.addAggregate(name, KindList)
}

func (s Setting) addAggregate(name string, kind Kind) (Setting, error) {
	nd, err := s.node()
	if err != nil {
		return Setting{}, err
	}
	switch nd.kind {
	case KindGroup:
		if !isValidName(name) {
			return Setting{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
		if _, exists := s.doc.arena.member(nd, name); exists {
			return Setting{}, fmt.Errorf("%w: %q in %s", ErrDuplicateName, name, displayPath(s.Path()))
		}
	case KindList:
		name = ""
	default:
		return Setting{}, fmt.Errorf("%w: cannot add %s to %s %s", ErrNotAGroup, kind, nd.kind, displayPath(s.Path()))
	}
	r := s.doc.arena.attach(s.ref, name, kind, Value{})
	return Setting{View{doc: s.doc, ref: r}}, nil
}

// Add writes a scalar child. In a group an existing scalar member of the same name
// is overwritten; an existing aggregate member fails with ErrDuplicateName.
// In an array or list the name is ignored and the value is appended; arrays only
// accept the kind of their first element.
func (s Setting) Add(name string, val Value) (Setting, error) {
	if err := checkScalar(val, "add"); err != nil {
		return Setting{}, err
	}
	nd, err := s.node()
	if err != nil {
		return Setting{}, err
	}

	switch nd.kind {
	case KindGroup:
		if !isValidName(name) {
			return Setting{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
		if existing, ok := s.doc.arena.member(nd, name); ok {
			en := &s.doc.arena.nodes[existing.idx]
			if en.kind.IsAggregate() {
				return Setting{}, fmt.Errorf("%w: %q in %s is a %s", ErrDuplicateName, name, displayPath(s.Path()), en.kind)
			}
			if en.kind != val.Kind() {
				en.format = FormatDefault
			}
			en.kind, en.value = val.Kind(), val
			return Setting{View{doc: s.doc, ref: existing}}, nil
		}
	case KindArray:
		if val, err = s.arrayElement(nd, val); err != nil {
			return Setting{}, err
		}
		name = ""
	case KindList:
		name = ""
	default:
		return Setting{}, fmt.Errorf("%w: %s is a %s", ErrNotAnAggregate, displayPath(s.Path()), nd.kind)
	}

	r := s.doc.arena.attach(s.ref, name, val.Kind(), val)
	return Setting{View{doc: s.doc, ref: r}}, nil
}

// AddCopy adds a deep copy of src under s, named name in a group. src may belong to
// another Document. Format hints are copied; source locations are not.
func (s Setting) AddCopy(name string, src View) (Setting, error) {
	var (
		c   Setting
		err error
	)
	switch src.Kind() {
	case KindGroup:
		c, err = s.AddGroup(name)
	case KindArray:
		c, err = s.AddArray(name)
	case KindList:
		c, err = s.AddList(name)
	default:
		val, verr := src.Value()
		if verr != nil {
			return Setting{}, verr
		}
		if c, err = s.Add(name, val); err != nil {
			return Setting{}, err
		}
		return c, c.SetFormat(src.Format())
	}
	if err != nil {
		return Setting{}, err
	}
	for child := range src.Children() {
		childName, _ := child.Name()
		if _, err := c.AddCopy(childName, child); err != nil {
			return Setting{}, err
		}
	}
	return c, nil
}

// checkScalar rejects values the text format cannot hold: empty values and
// non-finite floats.
func checkScalar(val Value, op string) error {
	if !val.Kind().IsScalar() {
		return fmt.Errorf("%w: cannot %s an empty value", ErrTypeMismatch, op)
	}
	if f, ok := val.Float64(); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
		return fmt.Errorf("%w: cannot %s non-finite float %v", ErrTypeMismatch, op, f)
	}
	return nil
}

// arrayElement enforces homogeneity for a value entering array nd.
func (s Setting) arrayElement(nd *node, val Value) (Value, error) {
	if len(nd.children) == 0 {
		return val, nil
	}
	want := s.doc.arena.nodes[nd.children[0].idx].kind
	if val.Kind() == want {
		return val, nil
	}
	if s.doc.opts.AutoConvert {
		if cv, ok := val.convert(want); ok {
			return cv, nil
		}
	}
	return Value{}, &TypeError{Path: s.Path(), Expected: want, Actual: val.Kind()}
}

// AddInt32 is Add with an int32 value.
func (s Setting) AddInt32(name string, v int32) (Setting, error) { return s.Add(name, Int32Value(v)) }

// AddInt64 is Add with an int64 value.
func (s Setting) AddInt64(name string, v int64) (Setting, error) { return s.Add(name, Int64Value(v)) }

// AddFloat64 is Add with a float64 value. NaN and infinities are rejected.
func (s Setting) AddFloat64(name string, v float64) (Setting, error) {
	return s.Add(name, Float64Value(v))
}

// AddBool is Add with a bool value.
func (s Setting) AddBool(name string, v bool) (Setting, error) { return s.Add(name, BoolValue(v)) }

// AddString is Add with a string value.
func (s Setting) AddString(name string, v string) (Setting, error) { return s.Add(name, StringValue(v)) }

// Set replaces the value of a scalar setting wholesale. The kind may change,
// except for array elements, which must keep the array's element kind.
// A change of kind drops the format hint.
func (s Setting) Set(val Value) error {
	if err := checkScalar(val, "set"); err != nil {
		return err
	}
	nd, err := s.node()
	if err != nil {
		return err
	}
	if !nd.kind.IsScalar() {
		return &TypeError{Path: s.Path(), Expected: val.Kind(), Actual: nd.kind}
	}
	if pn, err := s.doc.arena.get(nd.parent); err == nil && pn.kind == KindArray && len(pn.children) > 1 {
		if val.Kind() != nd.kind {
			cv, ok := val.convert(nd.kind)
			if !s.doc.opts.AutoConvert || !ok {
				return &TypeError{Path: s.Path(), Expected: nd.kind, Actual: val.Kind()}
			}
			val = cv
		}
	}
	if nd.kind != val.Kind() {
		nd.format = FormatDefault
	}
	nd.kind, nd.value = val.Kind(), val
	return nil
}

// SetInt32 is Set with an int32 value.
func (s Setting) SetInt32(v int32) error { return s.Set(Int32Value(v)) }

// SetInt64 is Set with an int64 value.
func (s Setting) SetInt64(v int64) error { return s.Set(Int64Value(v)) }

// SetFloat64 is Set with a float64 value. NaN and infinities are rejected.
func (s Setting) SetFloat64(v float64) error { return s.Set(Float64Value(v)) }

// SetBool is Set with a bool value.
func (s Setting) SetBool(v bool) error { return s.Set(BoolValue(v)) }

// SetString is Set with a string value.
func (s Setting) SetString(v string) error { return s.Set(StringValue(v)) }

// SetFormat sets the integer display hint used on serialization.
func (s Setting) SetFormat(f Format) error {
	nd, err := s.node()
	if err != nil {
		return err
	}
	nd.format = f
	return nil
}

// Remove detaches the setting from its parent and frees its subtree.
// Every outstanding handle into the subtree reports ErrStaleReference afterwards.
// Removing an already removed setting fails with an error matching both
// ErrElementNotExists and ErrStaleReference.
func (s Setting) Remove() error {
	nd, err := s.node()
	if errors.Is(err, ErrStaleReference) {
		return fmt.Errorf("%w: %w", ErrElementNotExists, err)
	}
	if err != nil {
		return err
	}
	if nd.parent.isNil() {
		return fmt.Errorf("%w: the root setting cannot be removed", ErrElementNotExists)
	}
	pn, err := s.doc.arena.get(nd.parent)
	if err != nil {
		return fmt.Errorf("%w: parent of %s: %w", ErrDeleteFailed, displayPath(s.Path()), err)
	}
	i := indexOf(pn, s.ref)
	if i < 0 {
		return fmt.Errorf("%w: %s is not listed by its parent", ErrDeleteFailed, displayPath(s.Path()))
	}
	pn.children = slices.Delete(pn.children, i, i+1)
	s.doc.arena.release(s.ref)
	return nil
}

// RemoveMember removes the named member of a group.
func (s Setting) RemoveMember(name string) error {
	nd, err := s.node()
	if err != nil {
		return err
	}
	if nd.kind != KindGroup {
		return fmt.Errorf("%w: %s is a %s", ErrNotAGroup, displayPath(s.Path()), nd.kind)
	}
	m, ok := s.Member(name)
	if !ok {
		return fmt.Errorf("%w: %q in %s", ErrElementNotExists, name, displayPath(s.Path()))
	}
	return m.Remove()
}

// RemoveElem removes the i-th child of an aggregate.
func (s Setting) RemoveElem(i int) error {
	nd, err := s.node()
	if err != nil {
		return err
	}
	if !nd.kind.IsAggregate() {
		return fmt.Errorf("%w: %s is a %s", ErrNotAnAggregate, displayPath(s.Path()), nd.kind)
	}
	e, ok := s.Elem(i)
	if !ok {
		return fmt.Errorf("%w: index %d in %s", ErrElementNotExists, i, displayPath(s.Path()))
	}
	return e.Remove()
}

// Members iterates over group members by name.
func (s Setting) Members() iter.Seq2[string, Setting] {
	return func(yield func(string, Setting) bool) {
		for name, v := range s.View.Members() {
			if !yield(name, Setting{v}) {
				return
			}
		}
	}
}
