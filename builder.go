// FILE: lixenwraith/libconfig/builder.go
package libconfig

import (
	"errors"
	"fmt"
	"os"
)

// ValidatorFunc defines the signature for a function that can validate a Document.
// It receives the fully loaded document and should return an error if validation fails.
type ValidatorFunc func(d *Document) error

// Builder provides a fluent interface for building documents
type Builder struct {
	opts       []Option
	file       string
	text       *string
	defaults   any
	args       []string
	envPrefix  string
	useEnv     bool
	required   []string
	validators []ValidatorFunc
}

// NewBuilder creates a new document builder
func NewBuilder() *Builder {
	return &Builder{
		args: os.Args[1:],
	}
}

// WithOptions appends document options.
func (b *Builder) WithOptions(opts ...Option) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

// WithTabWidth sets the serialization indent width.
func (b *Builder) WithTabWidth(n int) *Builder { return b.WithOptions(WithTabWidth(n)) }

// WithDefaultFormat sets the default integer format.
func (b *Builder) WithDefaultFormat(f Format) *Builder { return b.WithOptions(WithDefaultFormat(f)) }

// WithIncludeDir sets the base directory for @include directives.
func (b *Builder) WithIncludeDir(dir string) *Builder { return b.WithOptions(WithIncludeDir(dir)) }

// WithAutoConvert enables numeric coercion.
func (b *Builder) WithAutoConvert(enabled bool) *Builder {
	return b.WithOptions(WithAutoConvert(enabled))
}

// WithStyle sets the output style flags.
func (b *Builder) WithStyle(s Style) *Builder { return b.WithOptions(WithStyle(s)) }

// WithFile sets the configuration file path
func (b *Builder) WithFile(path string) *Builder {
	b.file = path
	return b
}

// WithString parses text instead of a file
func (b *Builder) WithString(text string) *Builder {
	b.text = &text
	return b
}

// WithDefaults sets a struct whose fields seed the document (see Setting.Store).
// Settings present in the file win; missing ones keep their defaults.
func (b *Builder) WithDefaults(defaults any) *Builder {
	b.defaults = defaults
	return b
}

// WithArgs sets the command-line arguments used for overrides
func (b *Builder) WithArgs(args []string) *Builder {
	b.args = args
	return b
}

// WithEnvPrefix enables environment overrides with the given prefix
func (b *Builder) WithEnvPrefix(prefix string) *Builder {
	b.envPrefix = prefix
	b.useEnv = true
	return b
}

// WithRequired lists paths that must exist after loading
func (b *Builder) WithRequired(paths ...string) *Builder {
	b.required = append(b.required, paths...)
	return b
}

// WithValidator adds a validation function that runs at the end of the build process
// Multiple validators can be added and are executed in the order they are added
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build creates the Document. Precedence, lowest to highest: defaults, file or string,
// environment, command line. A missing file is not fatal: the document is returned
// together with an error matching ErrFileNotFound.
func (b *Builder) Build() (*Document, error) {
	d := New(b.opts...)

	if b.defaults != nil {
		if err := d.Root().Store(b.defaults); err != nil {
			return nil, fmt.Errorf("failed to store defaults: %w", err)
		}
	}

	var loadErr error
	switch {
	case b.text != nil:
		if err := d.Parse(*b.text); err != nil {
			return nil, err
		}
	case b.file != "":
		loadErr = b.load(d)
		if loadErr != nil && !errors.Is(loadErr, ErrFileNotFound) {
			return nil, loadErr
		}
	}

	if b.defaults != nil && (b.text != nil || (b.file != "" && loadErr == nil)) {
		if err := mergeDefaults(d, b.defaults, b.opts); err != nil {
			return nil, err
		}
	}

	if b.useEnv {
		if err := d.ApplyEnv(b.envPrefix); err != nil {
			return nil, fmt.Errorf("failed to apply environment: %w", err)
		}
	}
	if len(b.args) > 0 {
		if err := d.ApplyArgs(b.args); err != nil {
			return nil, fmt.Errorf("failed to apply arguments: %w", err)
		}
	}

	if err := d.Validate(b.required...); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	for _, validator := range b.validators {
		if err := validator(d); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	// ErrFileNotFound or nil
	return d, loadErr
}

func (b *Builder) load(d *Document) error {
	if enc, ok := detectFileFormat(b.file); ok && enc != EncodingLibconfig {
		return d.ImportFile(b.file)
	}
	return d.ParseFile(b.file)
}

// mergeDefaults fills in default settings the loaded tree lacks.
func mergeDefaults(d *Document, defaults any, opts []Option) error {
	def := New(opts...)
	if err := def.Root().Store(defaults); err != nil {
		return fmt.Errorf("failed to store defaults: %w", err)
	}
	return mergeMissing(d.Root(), def.Root().View)
}

func mergeMissing(dst Setting, src View) error {
	for name, sv := range src.Members() {
		dv, ok := dst.Member(name)
		if !ok {
			if _, err := dst.AddCopy(name, sv); err != nil {
				return err
			}
			continue
		}
		if dv.IsGroup() && sv.IsGroup() {
			if err := mergeMissing(dv, sv); err != nil {
				return err
			}
		}
	}
	return nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Document {
	d, err := b.Build()
	if err != nil {
		// A missing file is not fatal; the document holds defaults and overrides.
		if !errors.Is(err, ErrFileNotFound) {
			panic(fmt.Sprintf("config build failed: %v", err))
		}
	}
	return d
}

// BuildAndScan builds the document and decodes its root into the provided target struct pointer
func (b *Builder) BuildAndScan(target any) error {
	d, err := b.Build()
	if err != nil && !errors.Is(err, ErrFileNotFound) {
		return err
	}

	if scanErr := d.Scan("", target); scanErr != nil {
		return fmt.Errorf("failed to scan final config into target: %w", scanErr)
	}

	// ErrFileNotFound or nil
	return err
}
