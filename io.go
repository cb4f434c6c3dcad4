// FILE: lixenwraith/libconfig/io.go
package libconfig

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ParseFile replaces the tree with the settings parsed from the file at path.
// A missing file yields ErrFileNotFound and leaves the document untouched.
func (d *Document) ParseFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("failed to stat config file '%s': %w", path, err)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	return d.parse(src, path)
}

// WriteFile serializes the tree to path atomically.
func (d *Document) WriteFile(path string) error {
	data, err := d.render()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := atomicWriteFile(path, data); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// WriteFileAs exports the tree in enc and writes it to path atomically.
// Use it with Encoding to save a loaded file back in its own format.
func (d *Document) WriteFileAs(path string, enc Encoding) error {
	data, err := d.Export(enc)
	if err != nil {
		return err
	}
	if err := atomicWriteFile(path, data); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Write serializes the tree to w.
func (d *Document) Write(w io.Writer) error {
	_, err := d.WriteTo(w)
	return err
}

// atomicWriteFile writes data to a temporary file in the target directory and renames it into place.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath)

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
