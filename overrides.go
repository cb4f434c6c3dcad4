// FILE: lixenwraith/libconfig/overrides.go
package libconfig

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvTransformFunc converts a configuration path to an environment variable name
type EnvTransformFunc func(path string) string

// SetFromString parses raw according to the kind of the existing scalar at path and stores it.
// Integers accept any base prefix Go understands and an optional L suffix; strings may be quoted.
func (d *Document) SetFromString(path, raw string) error {
	s, ok := d.Lookup(path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrElementNotExists, path)
	}
	kind := s.Kind()
	if !kind.IsScalar() {
		return fmt.Errorf("%w: %s is a %s, not a scalar", ErrTypeMismatch, path, kind)
	}
	val, err := parseScalar(raw, kind)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTypeMismatch, path, err)
	}
	return s.Set(val)
}

// parseScalar parses a string value into kind.
func parseScalar(raw string, kind Kind) (Value, error) {
	switch kind {
	case KindInt32:
		n, err := strconv.ParseInt(strings.TrimRight(raw, "lL"), 0, 32)
		if err != nil {
			return Value{}, err
		}
		return Int32Value(int32(n)), nil
	case KindInt64:
		n, err := strconv.ParseInt(strings.TrimRight(raw, "lL"), 0, 64)
		if err != nil {
			return Value{}, err
		}
		return Int64Value(n), nil
	case KindFloat64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Value{}, err
		}
		return Float64Value(f), nil
	case KindBool:
		b, err := strconv.ParseBool(strings.ToLower(raw))
		if err != nil {
			return Value{}, err
		}
		return BoolValue(b), nil
	default:
		if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
			raw = raw[1 : len(raw)-1]
		}
		return StringValue(raw), nil
	}
}

// ApplyArgs overrides existing scalars from command-line arguments of the form
// --path=value, --path value, or a bare --path for true. Arguments naming paths
// that do not exist are ignored so applications can mix their own flags in.
func (d *Document) ApplyArgs(args []string) error {
	parsed, err := parseArgs(args)
	if err != nil {
		return err
	}

	var errs []error
	for _, kv := range parsed {
		if _, ok := d.Lookup(kv.path); !ok {
			continue
		}
		if err := d.SetFromString(kv.path, kv.value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ApplyEnv overrides existing scalars from environment variables named by the
// default transform: prefix + path uppercased with dots replaced by underscores.
func (d *Document) ApplyEnv(prefix string) error {
	return d.ApplyEnvWith(defaultEnvTransform(prefix))
}

// ApplyEnvWith is ApplyEnv with a custom path-to-variable transform.
func (d *Document) ApplyEnvWith(transform EnvTransformFunc) error {
	var errs []error
	for _, path := range d.Paths() {
		if value, exists := os.LookupEnv(transform(path)); exists {
			if err := d.SetFromString(path, value); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// DiscoverEnv finds all environment variables matching scalar paths
// and returns a map of path -> env var name for found variables
func (d *Document) DiscoverEnv(prefix string) map[string]string {
	transform := defaultEnvTransform(prefix)
	discovered := make(map[string]string)
	for _, path := range d.Paths() {
		envVar := transform(path)
		if _, exists := os.LookupEnv(envVar); exists {
			discovered[path] = envVar
		}
	}
	return discovered
}

// defaultEnvTransform creates the default environment variable transformer
func defaultEnvTransform(prefix string) EnvTransformFunc {
	return func(path string) string {
		env := strings.ReplaceAll(path, ".", "_")
		env = strings.ReplaceAll(env, "-", "_")
		env = strings.ToUpper(env)
		if prefix != "" {
			env = prefix + env
		}
		return env
	}
}

type argValue struct {
	path  string
	value string
}

// parseArgs processes command-line arguments into path/value pairs in order.
func parseArgs(args []string) ([]argValue, error) {
	var result []argValue
	i := 0
	for i < len(args) {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			i++
			continue
		}

		argContent := strings.TrimPrefix(arg, "--")
		if argContent == "" {
			// "--" used as a separator
			i++
			continue
		}

		var keyPath, valueStr string
		if key, value, found := strings.Cut(argContent, "="); found {
			keyPath, valueStr = key, value
			i++
		} else {
			keyPath = argContent
			// Boolean flag when the next arg is another flag or there is none
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
				valueStr = "true"
				i++
			} else {
				valueStr = args[i+1]
				i += 2
			}
		}

		if keyPath == "" {
			continue
		}
		segments, ok := splitPath(keyPath)
		if !ok {
			return nil, fmt.Errorf("%w: command-line key %q", ErrInvalidPath, keyPath)
		}
		for _, segment := range segments {
			if _, isIndex := parseIndex(segment); !isIndex && !isValidName(segment) {
				return nil, fmt.Errorf("%w: command-line key segment %q in path %q", ErrInvalidName, segment, keyPath)
			}
		}

		result = append(result, argValue{path: keyPath, value: valueStr})
	}
	return result, nil
}
