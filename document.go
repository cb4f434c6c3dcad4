// FILE: lixenwraith/libconfig/document.go
package libconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/lixenwraith/libconfig/internal/grammar"
)

// Style selects output conventions, mirroring the C library's option flags.
type Style uint8

const (
	// StyleSemicolonSeparators terminates settings with ';'.
	StyleSemicolonSeparators Style = 1 << iota
	// StyleColonAssignmentForGroups writes "name : { ... }".
	StyleColonAssignmentForGroups
	// StyleColonAssignmentForNonGroups writes "name : value".
	StyleColonAssignmentForNonGroups
	// StyleOpenBraceOnSeparateLine puts a group's '{' on its own line.
	StyleOpenBraceOnSeparateLine
)

const (
	// DefaultStyle matches the C library's default output.
	DefaultStyle = StyleSemicolonSeparators | StyleColonAssignmentForGroups | StyleOpenBraceOnSeparateLine
	// DefaultTabWidth is the default indent width in spaces.
	DefaultTabWidth = 2
	// maxTabWidth masks the tab width to four bits.
	maxTabWidth = 0x0F
)

// Options holds document-level settings.
type Options struct {
	// TabWidth is the indent per nesting level, 0..15; 0 indents with tab characters.
	TabWidth int
	// DefaultFormat applies to integers without an explicit format hint.
	DefaultFormat Format
	// IncludeDir resolves relative @include directives; passed through to the parser.
	IncludeDir string
	// AutoConvert allows numeric coercion on reads, array writes and array parsing.
	AutoConvert bool
	// Style selects output conventions.
	Style Style
}

// DefaultOptions returns the standard document options.
func DefaultOptions() Options {
	return Options{
		TabWidth:      DefaultTabWidth,
		DefaultFormat: FormatDefault,
		Style:         DefaultStyle,
	}
}

// Option configures a Document at construction.
type Option func(*Options)

// WithTabWidth sets the indent width, masked to 0..15.
func WithTabWidth(n int) Option {
	return func(o *Options) { o.TabWidth = n & maxTabWidth }
}

// WithDefaultFormat sets the integer format used when a setting has no hint.
func WithDefaultFormat(f Format) Option {
	return func(o *Options) { o.DefaultFormat = f }
}

// WithIncludeDir sets the base directory for @include directives.
func WithIncludeDir(dir string) Option {
	return func(o *Options) { o.IncludeDir = dir }
}

// WithAutoConvert enables numeric coercion.
func WithAutoConvert(enabled bool) Option {
	return func(o *Options) { o.AutoConvert = enabled }
}

// WithStyle sets the output style flags.
func WithStyle(s Style) Option {
	return func(o *Options) { o.Style = s }
}

// Document owns a settings tree and its formatting options.
// A Document is not safe for concurrent use.
type Document struct {
	arena arena
	root  ref
	opts  Options
	file  string
	enc   Encoding
}

// New creates a document holding an empty anonymous root group.
func New(opts ...Option) *Document {
	d := &Document{
		arena: newArena(),
		opts:  DefaultOptions(),
	}
	for _, opt := range opts {
		opt(&d.opts)
	}
	d.opts.TabWidth &= maxTabWidth
	d.root = d.arena.alloc("", KindGroup, Value{})
	return d
}

// Options returns a copy of the document options.
func (d *Document) Options() Options { return d.opts }

// SetTabWidth sets the indent width, masked to 0..15.
func (d *Document) SetTabWidth(n int) { d.opts.TabWidth = n & maxTabWidth }

// SetDefaultFormat sets the integer format used when a setting has no hint.
func (d *Document) SetDefaultFormat(f Format) { d.opts.DefaultFormat = f }

// SetIncludeDir sets the base directory for @include directives. The path is not validated.
func (d *Document) SetIncludeDir(dir string) { d.opts.IncludeDir = dir }

// IncludeDir returns the base directory for @include directives.
func (d *Document) IncludeDir() string { return d.opts.IncludeDir }

// SetAutoConvert enables or disables numeric coercion.
func (d *Document) SetAutoConvert(enabled bool) { d.opts.AutoConvert = enabled }

// SetStyle sets the output style flags.
func (d *Document) SetStyle(s Style) { d.opts.Style = s }

// File returns the path of the last successfully parsed file, if any.
func (d *Document) File() string { return d.file }

// Encoding reports the format the tree was last parsed or imported from.
// Documents built in memory report EncodingLibconfig.
func (d *Document) Encoding() Encoding {
	if d.enc == "" {
		return EncodingLibconfig
	}
	return d.enc
}

// Root returns the root group. After a failed parse the root is unset and the
// returned handle reports ErrElementNotExists until Reset or a successful parse.
func (d *Document) Root() Setting {
	return Setting{View{doc: d, ref: d.root}}
}

// Lookup resolves a dotted path from the root.
func (d *Document) Lookup(path string) (Setting, bool) {
	return d.Root().Lookup(path)
}

// Reset discards the tree, invalidating every handle, and installs an empty root group.
func (d *Document) Reset() {
	d.arena.reset()
	d.file, d.enc = "", ""
	d.root = d.arena.alloc("", KindGroup, Value{})
}

// Parse replaces the tree with the settings parsed from text.
// On failure the tree is discarded and the root stays unset.
func (d *Document) Parse(text string) error {
	return d.parse([]byte(text), "")
}

// ParseBytes is Parse for a byte slice.
func (d *Document) ParseBytes(src []byte) error {
	return d.parse(src, "")
}

// ParseReader reads r to the end and parses it.
func (d *Document) ParseReader(r io.Reader) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read config source: %w", err)
	}
	return d.parse(src, "")
}

func (d *Document) parse(src []byte, file string) error {
	tree, err := grammar.Parse(src, grammar.Config{
		File:        file,
		IncludeDir:  d.opts.IncludeDir,
		AutoConvert: d.opts.AutoConvert,
	})

	d.arena.reset()
	d.root = ref{}
	d.file, d.enc = "", ""
	if err != nil {
		return toParseError(err, file)
	}

	d.root = d.build(tree, ref{})
	d.file, d.enc = file, EncodingLibconfig
	return nil
}

func toParseError(err error, file string) error {
	var gerr *grammar.Error
	if errors.As(err, &gerr) {
		return &ParseError{File: gerr.File, Line: gerr.Line, Message: gerr.Msg, Err: err}
	}
	return &ParseError{File: file, Message: err.Error(), Err: err}
}

// build copies a syntax tree into the arena under parent (nil for the root).
func (d *Document) build(n *grammar.Node, parent ref) ref {
	kind, val := fromSyntax(n)
	var r ref
	if parent.isNil() {
		r = d.arena.alloc(n.Name, kind, val)
	} else {
		r = d.arena.attach(parent, n.Name, kind, val)
	}
	nd := &d.arena.nodes[r.idx]
	nd.line, nd.file = n.Line, n.File
	if n.Hex {
		nd.format = FormatHex
	}
	for _, c := range n.Children {
		d.build(c, r)
	}
	return r
}

func fromSyntax(n *grammar.Node) (Kind, Value) {
	switch n.Kind {
	case grammar.KindGroup:
		return KindGroup, Value{}
	case grammar.KindArray:
		return KindArray, Value{}
	case grammar.KindList:
		return KindList, Value{}
	case grammar.KindInt:
		return KindInt32, Int32Value(int32(n.Int))
	case grammar.KindInt64:
		return KindInt64, Int64Value(n.Int)
	case grammar.KindFloat:
		return KindFloat64, Float64Value(n.Float)
	case grammar.KindBool:
		return KindBool, BoolValue(n.Bool)
	default:
		return KindString, StringValue(n.Str)
	}
}

// syntax converts the subtree at r into a syntax tree for printing.
func (d *Document) syntax(r ref) *grammar.Node {
	nd := &d.arena.nodes[r.idx]
	n := &grammar.Node{Name: nd.name, Line: nd.line, File: nd.file}
	hex := nd.format == FormatHex || (nd.format == FormatDefault && d.opts.DefaultFormat == FormatHex)
	switch nd.kind {
	case KindGroup:
		n.Kind = grammar.KindGroup
	case KindArray:
		n.Kind = grammar.KindArray
	case KindList:
		n.Kind = grammar.KindList
	case KindInt32:
		n.Kind, n.Int, n.Hex = grammar.KindInt, nd.value.i, hex
	case KindInt64:
		n.Kind, n.Int, n.Hex = grammar.KindInt64, nd.value.i, hex
	case KindFloat64:
		n.Kind, n.Float = grammar.KindFloat, nd.value.f
	case KindBool:
		n.Kind, n.Bool = grammar.KindBool, nd.value.b
	case KindString:
		n.Kind, n.Str = grammar.KindString, nd.value.s
	}
	for _, c := range nd.children {
		n.Children = append(n.Children, d.syntax(c))
	}
	return n
}

func (d *Document) printOptions() grammar.PrintOptions {
	return grammar.PrintOptions{
		TabWidth:            d.opts.TabWidth,
		SemicolonSeparators: d.opts.Style&StyleSemicolonSeparators != 0,
		ColonForGroups:      d.opts.Style&StyleColonAssignmentForGroups != 0,
		ColonForNonGroups:   d.opts.Style&StyleColonAssignmentForNonGroups != 0,
		BraceOnSeparateLine: d.opts.Style&StyleOpenBraceOnSeparateLine != 0,
	}
}

// render serializes the tree; an unset root renders as empty output.
func (d *Document) render() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.arena.get(d.root); err != nil {
		return nil, nil
	}
	if err := grammar.Print(&buf, d.syntax(d.root), d.printOptions()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Serialize renders the tree as configuration text. It does not mutate the tree.
func (d *Document) Serialize() string {
	data, _ := d.render()
	return string(data)
}

// WriteTo writes the serialized tree to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	data, err := d.render()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	n, err := w.Write(data)
	if err != nil {
		return int64(n), fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return int64(n), nil
}
