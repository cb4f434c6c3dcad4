// FILE: lixenwraith/libconfig/reader.go
package libconfig

import "fmt"

// scalar returns the stored value as kind want. Reads are strict unless the
// document enables AutoConvert, which allows numeric conversions only.
func (v View) scalar(want Kind) (Value, error) {
	nd, err := v.node()
	if err != nil {
		return Value{}, err
	}
	if nd.kind == want {
		return nd.value, nil
	}
	if v.doc.opts.AutoConvert && nd.kind.IsScalar() {
		if cv, ok := nd.value.convert(want); ok {
			return cv, nil
		}
	}
	return Value{}, &TypeError{Path: v.Path(), Expected: want, Actual: nd.kind}
}

// ValueKind returns the scalar kind; false if the handle is not live or not a scalar.
func (v View) ValueKind() (Kind, bool) {
	k := v.Kind()
	return k, k.IsScalar()
}

// AsInt32 returns the value of an int32 setting.
func (v View) AsInt32() (int32, error) {
	val, err := v.scalar(KindInt32)
	if err != nil {
		return 0, err
	}
	n, _ := val.Int32()
	return n, nil
}

// AsInt64 returns the value of an int64 setting.
func (v View) AsInt64() (int64, error) {
	val, err := v.scalar(KindInt64)
	if err != nil {
		return 0, err
	}
	n, _ := val.Int64()
	return n, nil
}

// AsFloat64 returns the value of a float setting.
func (v View) AsFloat64() (float64, error) {
	val, err := v.scalar(KindFloat64)
	if err != nil {
		return 0, err
	}
	f, _ := val.Float64()
	return f, nil
}

// AsBool returns the value of a bool setting.
func (v View) AsBool() (bool, error) {
	val, err := v.scalar(KindBool)
	if err != nil {
		return false, err
	}
	b, _ := val.Bool()
	return b, nil
}

// AsString returns the value of a string setting.
func (v View) AsString() (string, error) {
	val, err := v.scalar(KindString)
	if err != nil {
		return "", err
	}
	s, _ := val.Str()
	return s, nil
}

// AsInt32Or returns the int32 value or def if it cannot be read.
func (v View) AsInt32Or(def int32) int32 {
	if n, err := v.AsInt32(); err == nil {
		return n
	}
	return def
}

// AsInt64Or returns the int64 value or def if it cannot be read.
func (v View) AsInt64Or(def int64) int64 {
	if n, err := v.AsInt64(); err == nil {
		return n
	}
	return def
}

// AsFloat64Or returns the float value or def if it cannot be read.
func (v View) AsFloat64Or(def float64) float64 {
	if f, err := v.AsFloat64(); err == nil {
		return f
	}
	return def
}

// AsBoolOr returns the bool value or def if it cannot be read.
func (v View) AsBoolOr(def bool) bool {
	if b, err := v.AsBool(); err == nil {
		return b
	}
	return def
}

// AsStringOr returns the string value or def if it cannot be read.
func (v View) AsStringOr(def string) string {
	if s, err := v.AsString(); err == nil {
		return s
	}
	return def
}

// Value returns a handle to the setting at path, or a handle reporting ErrElementNotExists.
// It is meant for chained reads such as doc.Value("server.port").AsInt32Or(8080).
func (d *Document) Value(path string) View {
	v, ok := d.Root().View.Lookup(path)
	if !ok {
		return View{doc: d}
	}
	return v
}

// lookupScalar resolves path and wraps a miss with the path for context.
func (d *Document) lookupScalar(path string) (View, error) {
	v, ok := d.Root().View.Lookup(path)
	if !ok {
		return View{}, fmt.Errorf("%w: %s", ErrElementNotExists, path)
	}
	return v, nil
}

// Int32 retrieves an int32 value by path.
func (d *Document) Int32(path string) (int32, error) {
	v, err := d.lookupScalar(path)
	if err != nil {
		return 0, err
	}
	return v.AsInt32()
}

// Int64 retrieves an int64 value by path.
func (d *Document) Int64(path string) (int64, error) {
	v, err := d.lookupScalar(path)
	if err != nil {
		return 0, err
	}
	return v.AsInt64()
}

// Float64 retrieves a float value by path.
func (d *Document) Float64(path string) (float64, error) {
	v, err := d.lookupScalar(path)
	if err != nil {
		return 0, err
	}
	return v.AsFloat64()
}

// Bool retrieves a bool value by path.
func (d *Document) Bool(path string) (bool, error) {
	v, err := d.lookupScalar(path)
	if err != nil {
		return false, err
	}
	return v.AsBool()
}

// String retrieves a string value by path.
func (d *Document) String(path string) (string, error) {
	v, err := d.lookupScalar(path)
	if err != nil {
		return "", err
	}
	return v.AsString()
}
