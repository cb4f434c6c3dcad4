// FILE: lixenwraith/libconfig/errors.go
package libconfig

import (
	"errors"
	"fmt"
)

// Errors returned by document and setting operations.
var (
	// ErrFileNotFound indicates the file given to a load operation does not exist.
	ErrFileNotFound = errors.New("config file not found")

	// ErrParse indicates the grammar rejected the input. Returned errors are *ParseError.
	ErrParse = errors.New("parse error")

	// ErrWrite indicates serialization output could not be written.
	ErrWrite = errors.New("write error")

	// ErrNotAGroup indicates a named member or aggregate was requested from a setting that cannot hold one.
	ErrNotAGroup = errors.New("setting is not a group")

	// ErrNotAnAggregate indicates a child operation on a scalar setting.
	ErrNotAnAggregate = errors.New("setting is not an aggregate")

	// ErrDuplicateName indicates a name collision on create.
	ErrDuplicateName = errors.New("duplicate setting name")

	// ErrElementNotExists indicates an absent setting, including the unset root.
	ErrElementNotExists = errors.New("element does not exist")

	// ErrStaleReference indicates a handle to a setting that has been removed.
	ErrStaleReference = errors.New("stale setting reference")

	// ErrDeleteFailed indicates the parent no longer lists the setting being removed.
	ErrDeleteFailed = errors.New("delete failed")

	// ErrTypeMismatch indicates a typed read or write against an incompatible kind.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrInvalidName indicates a setting name the grammar cannot express.
	ErrInvalidName = errors.New("invalid setting name")

	// ErrInvalidPath indicates a malformed dotted path.
	ErrInvalidPath = errors.New("invalid setting path")

	// ErrUnsupportedFormat indicates an unknown import/export format.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// ParseError describes a grammar failure.
type ParseError struct {
	// File is the file that failed to parse, empty for in-memory input.
	File string
	// Line is the 1-based line of the failure, 0 if unknown.
	Line int
	// Message describes the failure.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	file := e.File
	if file == "" {
		file = "<string>"
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", file, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", file, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports ErrParse equivalence.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// TypeError is returned when a typed access does not match the stored kind.
type TypeError struct {
	// Path is the dotted path of the setting.
	Path string
	// Expected is the requested kind.
	Expected Kind
	// Actual is the stored kind.
	Actual Kind
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("type mismatch for %s: expected %s, got %s", displayPath(e.Path), e.Expected, e.Actual)
}

// Is implements error matching for TypeError.
func (e *TypeError) Is(target error) bool {
	return target == ErrTypeMismatch
}
