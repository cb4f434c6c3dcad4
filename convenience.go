// FILE: lixenwraith/libconfig/convenience.go
package libconfig

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// Load parses the file at path into a new Document. Files with a .toml, .json or .yaml
// extension are imported from that format; anything else is parsed as configuration text.
func Load(path string, opts ...Option) (*Document, error) {
	d := New(opts...)
	var err error
	if enc, ok := detectFileFormat(path); ok && enc != EncodingLibconfig {
		err = d.ImportFile(path)
	} else {
		err = d.ParseFile(path)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// MustLoad is like Load but panics on error
func MustLoad(path string, opts ...Option) *Document {
	d, err := Load(path, opts...)
	if err != nil {
		panic(fmt.Sprintf("config load failed: %v", err))
	}
	return d
}

// FromString parses text into a new Document.
func FromString(text string, opts ...Option) (*Document, error) {
	d := New(opts...)
	if err := d.Parse(text); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate checks that every required path resolves to a setting.
func (d *Document) Validate(required ...string) error {
	var missing []string
	for _, path := range required {
		if _, ok := d.Lookup(path); !ok {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required configuration: %s", ErrElementNotExists, strings.Join(missing, ", "))
	}
	return nil
}

// Clone creates a deep copy of the document, including options and source positions.
// Handles into the original do not resolve in the copy.
func (d *Document) Clone() *Document {
	clone := &Document{
		arena: newArena(),
		opts:  d.opts,
		file:  d.file,
		enc:   d.enc,
	}
	if _, err := d.arena.get(d.root); err == nil {
		clone.root = clone.copyFrom(d, d.root, ref{})
	}
	return clone
}

func (d *Document) copyFrom(src *Document, r ref, parent ref) ref {
	sn := src.arena.nodes[r.idx]
	var nr ref
	if parent.isNil() {
		nr = d.arena.alloc(sn.name, sn.kind, sn.value)
	} else {
		nr = d.arena.attach(parent, sn.name, sn.kind, sn.value)
	}
	nd := &d.arena.nodes[nr.idx]
	nd.format, nd.line, nd.file = sn.format, sn.line, sn.file
	for _, c := range sn.children {
		d.copyFrom(src, c, nr)
	}
	return nr
}

// Dump writes the serialized document to w.
func (d *Document) Dump(w io.Writer) error {
	_, err := d.WriteTo(w)
	return err
}

// Debug returns a formatted listing of every scalar with its kind and origin.
func (d *Document) Debug() string {
	var b strings.Builder
	b.WriteString("Configuration Debug Info:\n")
	if d.file != "" {
		fmt.Fprintf(&b, "File: %s\n", d.file)
	}
	b.WriteString("Current values:\n")

	flat := d.Flatten()
	for _, path := range d.Paths() {
		v, _ := d.Lookup(path)
		fmt.Fprintf(&b, "  %s = %v (%s", path, flat[path], flat[path].Kind())
		if line := v.SourceLine(); line > 0 {
			fmt.Fprintf(&b, ", %s:%d", displayFile(v.SourceFile()), line)
		}
		b.WriteString(")\n")
	}
	return b.String()
}

func displayFile(file string) string {
	if file == "" {
		return "<string>"
	}
	return file
}

// GenerateFlags creates a flag.FlagSet entry for every scalar path, defaulting to its current value.
func (d *Document) GenerateFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)

	for path, val := range d.Flatten() {
		usage := fmt.Sprintf("Config: %s", path)
		switch val.Kind() {
		case KindBool:
			b, _ := val.Bool()
			fs.Bool(path, b, usage)
		case KindInt32, KindInt64:
			fs.Int64(path, val.i, usage)
		case KindFloat64:
			f, _ := val.Float64()
			fs.Float64(path, f, usage)
		default:
			fs.String(path, val.String(), usage)
		}
	}
	return fs
}

// BindFlags writes the flags that were set on the command line back into the document.
func (d *Document) BindFlags(fs *flag.FlagSet) error {
	var errs []error
	fs.Visit(func(f *flag.Flag) {
		if err := d.SetFromString(f.Name, f.Value.String()); err != nil {
			errs = append(errs, fmt.Errorf("flag %s: %w", f.Name, err))
		}
	})

	if len(errs) > 0 {
		return fmt.Errorf("failed to bind %d flags: %w", len(errs), errs[0])
	}
	return nil
}
