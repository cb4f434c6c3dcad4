// FILE: lixenwraith/libconfig/convert.go
package libconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lixenwraith/libconfig/internal/grammar"
	"gopkg.in/yaml.v3"
)

// Encoding names a text format a document can be exported to or imported from.
type Encoding string

const (
	EncodingLibconfig Encoding = "libconfig"
	EncodingTOML      Encoding = "toml"
	EncodingJSON      Encoding = "json"
	EncodingYAML      Encoding = "yaml"
)

// ParseEncoding maps a user-supplied name to an Encoding.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(name) {
	case "libconfig", "cfg", "conf":
		return EncodingLibconfig, nil
	case "toml", "tml":
		return EncodingTOML, nil
	case "json":
		return EncodingJSON, nil
	case "yaml", "yml":
		return EncodingYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Export renders the document in the given encoding.
// Integer format hints and the int32/int64 distinction only survive the libconfig encoding.
func (d *Document) Export(enc Encoding) ([]byte, error) {
	root := d.Root().View
	if err := root.Err(); err != nil {
		return nil, err
	}

	switch enc {
	case EncodingLibconfig:
		return d.render()

	case EncodingTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(toNative(root)); err != nil {
			return nil, fmt.Errorf("%w: failed to marshal TOML: %w", ErrWrite, err)
		}
		return buf.Bytes(), nil

	case EncodingJSON:
		var compact bytes.Buffer
		if err := writeJSON(&compact, root); err != nil {
			return nil, fmt.Errorf("%w: failed to marshal JSON: %w", ErrWrite, err)
		}
		var out bytes.Buffer
		if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
			return nil, fmt.Errorf("%w: failed to indent JSON: %w", ErrWrite, err)
		}
		out.WriteByte('\n')
		return out.Bytes(), nil

	case EncodingYAML:
		node, err := toYAML(root)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to marshal YAML: %w", ErrWrite, err)
		}
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(node); err != nil {
			return nil, fmt.Errorf("%w: failed to marshal YAML: %w", ErrWrite, err)
		}
		if err := encoder.Close(); err != nil {
			return nil, fmt.Errorf("%w: failed to marshal YAML: %w", ErrWrite, err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, enc)
}

// Import replaces the tree with data decoded from the given encoding.
// Like Parse, a failure leaves the root unset. Member order is preserved for every encoding.
func (d *Document) Import(data []byte, enc Encoding) error {
	return d.importData(data, enc, "")
}

// ImportFile imports the file at path, detecting the encoding by extension and then by content.
func (d *Document) ImportFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	enc, ok := detectFileFormat(path)
	if !ok {
		if enc, ok = detectFormatFromContent(data); !ok {
			return fmt.Errorf("%w: unable to determine format of '%s'", ErrUnsupportedFormat, path)
		}
	}
	return d.importData(data, enc, path)
}

func (d *Document) importData(data []byte, enc Encoding, file string) error {
	var (
		tree members
		err  error
	)
	switch enc {
	case EncodingLibconfig:
		return d.parse(data, file)
	case EncodingTOML:
		tree, err = decodeTOML(data)
	case EncodingJSON:
		tree, err = decodeJSON(data)
	case EncodingYAML:
		tree, err = decodeYAML(data)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, enc)
	}

	d.arena.reset()
	d.root = ref{}
	d.file, d.enc = "", ""
	if err != nil {
		return &ParseError{File: file, Message: fmt.Sprintf("invalid %s: %v", enc, err), Err: err}
	}

	d.root = d.arena.alloc("", KindGroup, Value{})
	root := d.Root()
	for _, m := range tree {
		if err := build(root, m.name, m.value); err != nil {
			d.arena.reset()
			d.root = ref{}
			return fmt.Errorf("failed to import %s: %w", enc, err)
		}
	}
	d.file, d.enc = file, enc
	return nil
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) (Encoding, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cfg", ".conf", ".config", ".libconfig":
		return EncodingLibconfig, true
	case ".toml", ".tml":
		return EncodingTOML, true
	case ".json":
		return EncodingJSON, true
	case ".yaml", ".yml":
		return EncodingYAML, true
	}
	return "", false
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) (Encoding, bool) {
	noIncludes := func(string) ([]byte, error) { return nil, nil }
	if _, err := grammar.Parse(data, grammar.Config{ReadFile: noIncludes}); err == nil {
		return EncodingLibconfig, true
	}

	var jsonTest any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return EncodingJSON, true
	}

	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return EncodingTOML, true
	}

	// YAML accepts almost any text as a scalar, so require a mapping.
	var yamlTest map[string]any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil && yamlTest != nil {
		return EncodingYAML, true
	}

	return "", false
}

// decodeTOML decodes a TOML document, ordering members by their position in the source.
func decodeTOML(data []byte) (members, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, err
	}

	order := make(map[string]int)
	for i, key := range md.Keys() {
		k := strings.Join(key, "\x00")
		if _, seen := order[k]; !seen {
			order[k] = i
		}
	}
	return orderTOML(raw, nil, order).(members), nil
}

func orderTOML(x any, path []string, order map[string]int) any {
	switch v := x.(type) {
	case map[string]any:
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		pos := func(name string) int {
			if i, ok := order[strings.Join(append(slices.Clip(path), name), "\x00")]; ok {
				return i
			}
			return math.MaxInt
		}
		slices.SortStableFunc(names, func(a, b string) int {
			if pa, pb := pos(a), pos(b); pa != pb {
				return pa - pb
			}
			return strings.Compare(a, b)
		})
		m := make(members, 0, len(names))
		for _, name := range names {
			m = append(m, member{name: name, value: orderTOML(v[name], append(slices.Clip(path), name), order)})
		}
		return m
	case []map[string]any:
		s := make([]any, len(v))
		for i, e := range v {
			s[i] = orderTOML(e, path, order)
		}
		return s
	case []any:
		s := make([]any, len(v))
		for i, e := range v {
			s[i] = orderTOML(e, path, order)
		}
		return s
	case int64:
		return intValue(v)
	}
	return x
}

// decodeJSON walks the token stream so that object member order is kept. Nulls are skipped.
func decodeJSON(data []byte) (members, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	x, err := readJSON(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	m, ok := x.(members)
	if !ok {
		return nil, fmt.Errorf("top-level value must be an object, got %T", x)
	}
	return m, nil
}

func readJSON(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := members{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, _ := keyTok.(string)
				value, err := readJSON(dec)
				if err != nil {
					return nil, err
				}
				if value != nil {
					m = append(m, member{name: key, value: value})
				}
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			s := []any{}
			for dec.More() {
				value, err := readJSON(dec)
				if err != nil {
					return nil, err
				}
				if value != nil {
					s = append(s, value)
				}
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return s, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return intValue(n), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return Float64Value(f), nil
	}
	// string, bool or nil
	return tok, nil
}

// decodeYAML walks the node tree so that mapping order is kept. Nulls are skipped.
func decodeYAML(data []byte) (members, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return members{}, nil
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	x, err := fromYAML(root)
	if err != nil {
		return nil, err
	}
	m, ok := x.(members)
	if !ok {
		return nil, fmt.Errorf("top-level value must be a mapping")
	}
	return m, nil
}

func fromYAML(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		m := members{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			value, err := fromYAML(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			if value != nil {
				m = append(m, member{name: n.Content[i].Value, value: value})
			}
		}
		return m, nil
	case yaml.SequenceNode:
		s := []any{}
		for _, c := range n.Content {
			value, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			if value != nil {
				s = append(s, value)
			}
		}
		return s, nil
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.ScalarNode:
		var x any
		if err := n.Decode(&x); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return x, nil
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
}

func toYAML(v View) (*yaml.Node, error) {
	switch v.Kind() {
	case KindGroup:
		n := &yaml.Node{Kind: yaml.MappingNode}
		for name, c := range v.Members() {
			child, err := toYAML(c)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}, child)
		}
		return n, nil
	case KindArray, KindList:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		if v.IsArray() {
			n.Style = yaml.FlowStyle
		}
		for c := range v.Elements() {
			child, err := toYAML(c)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	}

	val, err := v.Value()
	if err != nil {
		return nil, err
	}
	if f, ok := val.Float64(); ok {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: yamlFloat(f)}, nil
	}
	n := &yaml.Node{}
	if err := n.Encode(val.Interface()); err != nil {
		return nil, err
	}
	return n, nil
}

func writeJSON(buf *bytes.Buffer, v View) error {
	switch v.Kind() {
	case KindGroup:
		buf.WriteByte('{')
		i := 0
		for name, c := range v.Members() {
			if i > 0 {
				buf.WriteByte(',')
			}
			i++
			key, _ := json.Marshal(name)
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case KindArray, KindList:
		buf.WriteByte('[')
		i := 0
		for c := range v.Elements() {
			if i > 0 {
				buf.WriteByte(',')
			}
			i++
			if err := writeJSON(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	}

	val, err := v.Value()
	if err != nil {
		return err
	}
	if f, ok := val.Float64(); ok {
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return fmt.Errorf("%s: %v cannot be represented in JSON", displayPath(v.Path()), f)
		}
		// Keep a fraction so the value reads back as a float.
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		buf.WriteString(s)
		return nil
	}
	data, err := json.Marshal(val.Interface())
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

func yamlFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
