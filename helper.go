// FILE: lixenwraith/libconfig/helper.go
package libconfig

import (
	"slices"
	"strconv"
)

// Flatten returns every scalar in the document keyed by its dotted path.
// Array and list elements are addressed by index, e.g. "servers.0.port".
func (d *Document) Flatten() map[string]Value {
	flat := make(map[string]Value)
	flattenInto(d.Root().View, "", flat)
	return flat
}

func flattenInto(v View, prefix string, flat map[string]Value) {
	i := 0
	for c := range v.Children() {
		key := strconv.Itoa(i)
		if name, ok := c.Name(); ok {
			key = name
		}
		if prefix != "" {
			key = prefix + "." + key
		}
		i++

		if c.IsAggregate() {
			flattenInto(c, key, flat)
			continue
		}
		if val, err := c.Value(); err == nil {
			flat[key] = val
		}
	}
}

// Paths returns the dotted paths of all scalars, sorted.
func (d *Document) Paths() []string {
	flat := d.Flatten()
	paths := make([]string, 0, len(flat))
	for p := range flat {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// toNative converts a subtree into plain Go values: groups become map[string]any,
// arrays and lists become []any and scalars their Go value.
func toNative(v View) any {
	switch v.Kind() {
	case KindGroup:
		m := make(map[string]any, v.Len())
		for name, c := range v.Members() {
			m[name] = toNative(c)
		}
		return m
	case KindArray, KindList:
		s := make([]any, 0, v.Len())
		for c := range v.Elements() {
			s = append(s, toNative(c))
		}
		return s
	default:
		val, err := v.Value()
		if err != nil {
			return nil
		}
		return val.Interface()
	}
}

// member is one entry of an ordered group read from a foreign format.
type member struct {
	name  string
	value any
}

// members is an ordered group. Foreign decoders produce members, []any and scalars,
// and build turns them into settings.
type members []member

// build appends x under s as a setting named name (ignored inside arrays and lists).
func build(s Setting, name string, x any) error {
	switch v := x.(type) {
	case members:
		g, err := s.AddGroup(name)
		if err != nil {
			return err
		}
		for _, m := range v {
			if err := build(g, m.name, m.value); err != nil {
				return err
			}
		}
		return nil
	case []any:
		var (
			agg Setting
			err error
		)
		if homogeneous(v) {
			agg, err = s.AddArray(name)
		} else {
			agg, err = s.AddList(name)
		}
		if err != nil {
			return err
		}
		for _, e := range v {
			if err := build(agg, "", e); err != nil {
				return err
			}
		}
		return nil
	default:
		val, err := ValueOf(x)
		if err != nil {
			return err
		}
		_, err = s.Add(name, val)
		return err
	}
}

// homogeneous reports whether a sequence fits in an array: scalars of a single kind.
func homogeneous(seq []any) bool {
	var kind Kind
	for _, e := range seq {
		val, err := ValueOf(e)
		if err != nil {
			return false
		}
		if kind == KindNone {
			kind = val.Kind()
		} else if val.Kind() != kind {
			return false
		}
	}
	return true
}
