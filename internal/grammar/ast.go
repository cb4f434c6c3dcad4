// FILE: lixenwraith/libconfig/internal/grammar/ast.go

// Package grammar implements the configuration text format: a lexer and
// recursive-descent parser producing a syntax tree, and a printer rendering
// a syntax tree back to text.
//
// The format:
//
//	# comment, // comment, /* comment */
//	name = 5;                  int32
//	big = 5000000000L;         int64
//	mask = 0xFF;               int32 rendered in hex
//	ratio = 0.5;               float64
//	on = true;                 bool
//	title = "a" "b";           string, adjacent literals concatenate
//	ports = [ 80, 443 ];       array of same-kind scalars
//	mixed = ( 1, "x", { } );   list of anything
//	server : { host = "h"; };  group
//	@include "other.cfg"
package grammar

import "fmt"

// Kind is the syntactic kind of a node.
type Kind int

const (
	KindGroup Kind = iota
	KindArray
	KindList
	KindInt
	KindInt64
	KindFloat
	KindBool
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindArray:
		return "array"
	case KindList:
		return "list"
	case KindInt:
		return "int"
	case KindInt64:
		return "int64"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// IsScalar reports whether nodes of this kind carry a payload.
func (k Kind) IsScalar() bool {
	return k >= KindInt
}

// IsNumber reports whether the kind is numeric.
func (k Kind) IsNumber() bool {
	return k == KindInt || k == KindInt64 || k == KindFloat
}

// Node is a syntax tree node. Only the payload field matching Kind is meaningful.
type Node struct {
	Kind     Kind
	Name     string
	Line     int
	File     string
	Int      int64
	Float    float64
	Bool     bool
	Str      string
	Hex      bool
	Children []*Node
}

// Error is a grammar failure with its position.
type Error struct {
	File string
	Line int
	Msg  string
}

func (e *Error) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}
