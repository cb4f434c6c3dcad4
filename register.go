// FILE: lixenwraith/libconfig/register.go
package libconfig

import (
	"fmt"
	"math"
	"net"
	"net/url"
	"reflect"
	"slices"
	"strings"
	"time"
)

var (
	durationType = reflect.TypeOf(time.Duration(0))
	timeType     = reflect.TypeOf(time.Time{})
	urlType      = reflect.TypeOf(url.URL{})
	ipNetType    = reflect.TypeOf(net.IPNet{})
	stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
)

// Store writes the exported fields of a struct (or pointer to struct) into the group s.
// Paths come from the "cfg" tag, falling back to the field name; "-" skips a field.
// Nested structs and string-keyed maps become groups, slices become arrays when their
// elements are scalars and lists otherwise. Durations, times and types with a String
// method are stored as strings so that Scan can decode them again.
// Existing groups are merged, existing scalars are overwritten and existing
// arrays and lists are replaced.
func (s Setting) Store(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return fmt.Errorf("Store requires a non-nil struct pointer or value")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("Store requires a struct or struct pointer, got %T", v)
	}
	if err := s.Err(); err != nil {
		return err
	}
	if !s.IsGroup() {
		return fmt.Errorf("%w: %s is a %s", ErrNotAGroup, displayPath(s.Path()), s.Kind())
	}

	var errs []string
	s.storeFields(rv, "", &errs)
	if len(errs) > 0 {
		return fmt.Errorf("failed to store %d field(s): %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}

func (s Setting) storeFields(v reflect.Value, fieldPath string, errs *[]string) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get(TagName)
		if tag == "-" {
			continue
		}
		key := field.Name
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			key = name
		}

		if err := storeValue(s, key, v.Field(i), fieldPath+field.Name+"."); err != nil {
			*errs = append(*errs, fmt.Sprintf("field %s%s (key %s): %v", fieldPath, field.Name, key, err))
		}
	}
}

// storeValue writes fv under parent as name; name is ignored inside arrays and lists.
func storeValue(parent Setting, name string, fv reflect.Value, fieldPath string) error {
	for fv.Kind() == reflect.Ptr || fv.Kind() == reflect.Interface {
		if fv.IsNil() {
			return nil
		}
		fv = fv.Elem()
	}

	if val, ok := scalarOf(fv); ok {
		_, err := parent.Add(name, val)
		return err
	}

	switch fv.Kind() {
	case reflect.Struct:
		g, err := childGroup(parent, name)
		if err != nil {
			return err
		}
		var errs []string
		g.storeFields(fv, fieldPath, &errs)
		if len(errs) > 0 {
			return fmt.Errorf("%s", strings.Join(errs, "; "))
		}
		return nil

	case reflect.Map:
		if fv.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("%w: map key type %s", ErrTypeMismatch, fv.Type().Key())
		}
		g, err := childGroup(parent, name)
		if err != nil {
			return err
		}
		keys := make([]string, 0, fv.Len())
		for _, k := range fv.MapKeys() {
			keys = append(keys, k.String())
		}
		slices.Sort(keys)
		for _, k := range keys {
			if err := storeValue(g, k, fv.MapIndex(reflect.ValueOf(k).Convert(fv.Type().Key())), fieldPath+k+"."); err != nil {
				return err
			}
		}
		return nil

	case reflect.Slice, reflect.Array:
		if parent.IsGroup() {
			if old, ok := parent.Member(name); ok {
				if err := old.Remove(); err != nil {
					return err
				}
			}
		}
		if isScalarType(fv.Type().Elem()) {
			return storeArray(parent, name, fv)
		}
		list, err := parent.AddList(name)
		if err != nil {
			return err
		}
		for i := 0; i < fv.Len(); i++ {
			if err := storeValue(list, "", fv.Index(i), fmt.Sprintf("%s%d.", fieldPath, i)); err != nil {
				return err
			}
		}
		return nil
	}

	return fmt.Errorf("%w: cannot store %s", ErrTypeMismatch, fv.Type())
}

// storeArray writes a slice of scalars as an array. Integers are widened to int64
// when any element does not fit in 32 bits.
func storeArray(parent Setting, name string, fv reflect.Value) error {
	vals := make([]Value, 0, fv.Len())
	wide := false
	for i := 0; i < fv.Len(); i++ {
		ev := fv.Index(i)
		for ev.Kind() == reflect.Ptr && !ev.IsNil() {
			ev = ev.Elem()
		}
		if ev.Kind() == reflect.Ptr {
			continue
		}
		val, ok := scalarOf(ev)
		if !ok {
			return fmt.Errorf("%w: cannot store %s in an array", ErrTypeMismatch, ev.Type())
		}
		wide = wide || val.Kind() == KindInt64
		vals = append(vals, val)
	}

	arr, err := parent.AddArray(name)
	if err != nil {
		return err
	}
	for _, val := range vals {
		if wide && val.Kind() == KindInt32 {
			val, _ = val.convert(KindInt64)
		}
		if _, err := arr.Add("", val); err != nil {
			return err
		}
	}
	return nil
}

// childGroup returns the existing group member name of parent, or creates it.
// Inside a list a new unnamed group is appended.
func childGroup(parent Setting, name string) (Setting, error) {
	if parent.IsGroup() {
		if g, ok := parent.Member(name); ok {
			if g.IsGroup() {
				return g, nil
			}
			if err := g.Remove(); err != nil {
				return Setting{}, err
			}
		}
	}
	return parent.AddGroup(name)
}

// scalarOf converts fv to a Value if its type is stored as a scalar.
func scalarOf(fv reflect.Value) (Value, bool) {
	switch fv.Type() {
	case durationType:
		return StringValue(time.Duration(fv.Int()).String()), true
	case timeType:
		return StringValue(fv.Interface().(time.Time).Format(time.RFC3339)), true
	}

	switch fv.Kind() {
	case reflect.Bool:
		return BoolValue(fv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intValue(fv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n := fv.Uint()
		if n > math.MaxInt64 {
			return Float64Value(float64(n)), true
		}
		return intValue(int64(n)), true
	case reflect.Float32, reflect.Float64:
		return Float64Value(fv.Float()), true
	case reflect.String:
		return StringValue(fv.String()), true
	}

	if fv.Kind() == reflect.Struct && fv.Type() != urlType && fv.Type() != ipNetType {
		return Value{}, false
	}
	if s, ok := stringerOf(fv); ok {
		return StringValue(s.String()), true
	}
	return Value{}, false
}

// stringerOf finds a String method on fv or on its address (net.IP, net.IPNet, url.URL).
func stringerOf(fv reflect.Value) (fmt.Stringer, bool) {
	if fv.Type().Implements(stringerType) {
		return fv.Interface().(fmt.Stringer), true
	}
	if reflect.PointerTo(fv.Type()).Implements(stringerType) {
		p := reflect.New(fv.Type())
		p.Elem().Set(fv)
		return p.Interface().(fmt.Stringer), true
	}
	return nil, false
}

// isScalarType reports whether values of t are stored as scalars.
func isScalarType(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == durationType || t == timeType || t == urlType || t == ipNetType {
		return true
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String, reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	case reflect.Interface, reflect.Struct:
		return false
	}
	return t.Implements(stringerType) || reflect.PointerTo(t).Implements(stringerType)
}
