// FILE: lixenwraith/libconfig/decode.go
package libconfig

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// TagName is the struct tag read by Scan and Store.
const TagName = "cfg"

// Scan decodes the subtree at path into target, a non-nil pointer to a struct or map.
// A missing path decodes an empty section. Fields are matched by the "cfg" tag,
// falling back to the field name.
func (d *Document) Scan(path string, target any) error {
	v, ok := d.Root().View.Lookup(path)
	if !ok {
		return decodeSection(map[string]any{}, path, target)
	}
	return v.Decode(target)
}

// Decode decodes the subtree rooted at v into target.
func (v View) Decode(target any) error {
	if err := v.Err(); err != nil {
		return err
	}
	return decodeSection(toNative(v), v.Path(), target)
}

func decodeSection(data any, path string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("scan target must be non-nil pointer, got %T", target)
	}

	section, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: %s does not refer to a scannable section (group), but to %T",
			ErrNotAGroup, displayPath(path), data)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          TagName,
		WeaklyTypedInput: true,
		DecodeHook:       decodeHook(),
		ZeroFields:       true,
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(section); err != nil {
		return fmt.Errorf("decode failed for path %q: %w", path, err)
	}
	return nil
}

// decodeHook converts the string forms written by Store back into their Go types.
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		stringParseHook(reflect.TypeOf(net.IP{}), parseIP),
		stringParseHook(ipNetType, parseCIDR),
		stringParseHook(urlType, parseURL),

		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// stringParseHook decodes a string into want, or into *want, using parse.
// parse must return a value of type want.
func stringParseHook(want reflect.Type, parse func(string) (any, error)) mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		if isPtr {
			t = t.Elem()
		}
		if t != want {
			return data, nil
		}

		v, err := parse(data.(string))
		if err != nil || !isPtr {
			return v, err
		}
		p := reflect.New(want)
		p.Elem().Set(reflect.ValueOf(v))
		return p.Interface(), nil
	}
}

func parseIP(s string) (any, error) {
	if len(s) > 45 { // longest IPv6 text form
		return nil, fmt.Errorf("invalid IP length: %d", len(s))
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return nil, fmt.Errorf("invalid IP address: %s", s)
	}
	return ip, nil
}

func parseCIDR(s string) (any, error) {
	if len(s) > 49 {
		return nil, fmt.Errorf("invalid CIDR length: %d", len(s))
	}
	_, ipnet, err := net.ParseCIDR(s)
	if err != nil {
		return nil, fmt.Errorf("invalid CIDR: %w", err)
	}
	return *ipnet, nil
}

func parseURL(s string) (any, error) {
	if len(s) > 2048 {
		return nil, fmt.Errorf("URL too long: %d bytes", len(s))
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	return *u, nil
}
