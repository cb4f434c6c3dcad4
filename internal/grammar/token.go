// FILE: lixenwraith/libconfig/internal/grammar/token.go
package grammar

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TokenType identifies a lexical token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenName
	TokenAssign
	TokenSemicolon
	TokenComma
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenLParen
	TokenRParen
	TokenInt
	TokenInt64
	TokenFloat
	TokenBool
	TokenString
	TokenInclude
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of input"
	case TokenName:
		return "name"
	case TokenAssign:
		return "'=' or ':'"
	case TokenSemicolon:
		return "';'"
	case TokenComma:
		return "','"
	case TokenLBrace:
		return "'{'"
	case TokenRBrace:
		return "'}'"
	case TokenLBracket:
		return "'['"
	case TokenRBracket:
		return "']'"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenInt:
		return "integer"
	case TokenInt64:
		return "64-bit integer"
	case TokenFloat:
		return "float"
	case TokenBool:
		return "boolean"
	case TokenString:
		return "string"
	case TokenInclude:
		return "@include"
	default:
		return "unknown"
	}
}

// Token is a lexical token. Scalar tokens carry their decoded payload.
type Token struct {
	Type  TokenType
	Text  string
	Line  int
	Int   int64
	Float float64
	Bool  bool
	Str   string
	Hex   bool
}

// lexer tokenizes configuration source.
type lexer struct {
	src  string
	pos  int
	line int
	file string
}

func newLexer(src, file string) *lexer {
	return &lexer{src: src, line: 1, file: file}
}

func (l *lexer) errorf(line int, format string, args ...any) error {
	return &Error{File: l.file, Line: line, Msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) peekByte(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

// skipSpace skips whitespace and the three comment styles.
func (l *lexer) skipSpace() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\n':
			l.line++
			l.pos++
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			l.pos++
		case c == '#' || (c == '/' && l.peekByte(1) == '/'):
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case c == '/' && l.peekByte(1) == '*':
			start := l.line
			l.pos += 2
			for {
				if l.pos >= len(l.src) {
					return l.errorf(start, "unterminated comment")
				}
				if l.src[l.pos] == '*' && l.peekByte(1) == '/' {
					l.pos += 2
					break
				}
				if l.src[l.pos] == '\n' {
					l.line++
				}
				l.pos++
			}
		default:
			return nil
		}
	}
	return nil
}

func isNameStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '*'
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

// IsName reports whether s is a valid setting name. The boolean literals
// lex as values, so "true" and "false" are never names in any case.
func IsName(s string) bool {
	if s == "" || !isNameStart(s[0]) {
		return false
	}
	if strings.EqualFold(s, "true") || strings.EqualFold(s, "false") {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isNameChar(s[i]) {
			return false
		}
	}
	return true
}

func (l *lexer) next() (Token, error) {
	if err := l.skipSpace(); err != nil {
		return Token{}, err
	}
	if l.pos >= len(l.src) {
		return Token{Type: TokenEOF, Line: l.line}, nil
	}

	c := l.src[l.pos]
	line := l.line
	single := func(t TokenType) (Token, error) {
		l.pos++
		return Token{Type: t, Text: string(c), Line: line}, nil
	}

	switch c {
	case '=', ':':
		return single(TokenAssign)
	case ';':
		return single(TokenSemicolon)
	case ',':
		return single(TokenComma)
	case '{':
		return single(TokenLBrace)
	case '}':
		return single(TokenRBrace)
	case '[':
		return single(TokenLBracket)
	case ']':
		return single(TokenRBracket)
	case '(':
		return single(TokenLParen)
	case ')':
		return single(TokenRParen)
	case '"':
		return l.readString()
	case '@':
		start := l.pos
		l.pos++
		for l.pos < len(l.src) && isNameChar(l.src[l.pos]) {
			l.pos++
		}
		word := l.src[start:l.pos]
		if word != "@include" {
			return Token{}, l.errorf(line, "unknown directive %q", word)
		}
		return Token{Type: TokenInclude, Text: word, Line: line}, nil
	}

	if isNameStart(c) {
		start := l.pos
		for l.pos < len(l.src) && isNameChar(l.src[l.pos]) {
			l.pos++
		}
		word := l.src[start:l.pos]
		switch strings.ToLower(word) {
		case "true":
			return Token{Type: TokenBool, Text: word, Line: line, Bool: true}, nil
		case "false":
			return Token{Type: TokenBool, Text: word, Line: line}, nil
		}
		return Token{Type: TokenName, Text: word, Line: line}, nil
	}

	if (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' {
		return l.readNumber()
	}

	return Token{}, l.errorf(line, "unexpected character %q", c)
}

// readString reads a quoted string; adjacent literals are concatenated.
func (l *lexer) readString() (Token, error) {
	line := l.line
	var sb strings.Builder
	for {
		l.pos++ // opening quote
		for {
			if l.pos >= len(l.src) {
				return Token{}, l.errorf(line, "unterminated string")
			}
			c := l.src[l.pos]
			if c == '"' {
				l.pos++
				break
			}
			if c == '\n' {
				l.line++
			}
			if c != '\\' {
				sb.WriteByte(c)
				l.pos++
				continue
			}
			l.pos++
			if l.pos >= len(l.src) {
				return Token{}, l.errorf(line, "unterminated string")
			}
			esc := l.src[l.pos]
			l.pos++
			switch esc {
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'f':
				sb.WriteByte('\f')
			case 'x':
				if l.pos+2 > len(l.src) {
					return Token{}, l.errorf(l.line, "invalid hex escape")
				}
				b, err := strconv.ParseUint(l.src[l.pos:l.pos+2], 16, 8)
				if err != nil {
					return Token{}, l.errorf(l.line, "invalid hex escape %q", l.src[l.pos:l.pos+2])
				}
				sb.WriteByte(byte(b))
				l.pos += 2
			default:
				return Token{}, l.errorf(l.line, "invalid escape sequence \\%c", esc)
			}
		}

		if err := l.skipSpace(); err != nil {
			return Token{}, err
		}
		if l.peekByte(0) != '"' {
			break
		}
	}
	s := sb.String()
	return Token{Type: TokenString, Text: strconv.Quote(s), Line: line, Str: s}, nil
}

// readNumber scans a maximal numeric run and classifies it.
func (l *lexer) readNumber() (Token, error) {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '.' {
			l.pos++
			continue
		}
		if (c == '-' || c == '+') && l.pos > start {
			prev := l.src[l.pos-1]
			isHex := len(l.src[start:l.pos]) > 1 && (strings.HasPrefix(l.src[start:], "0x") || strings.HasPrefix(l.src[start:], "0X"))
			if (prev == 'e' || prev == 'E') && !isHex {
				l.pos++
				continue
			}
		}
		if (c == '-' || c == '+') && l.pos == start {
			l.pos++
			continue
		}
		break
	}
	text := l.src[start:l.pos]
	tok, err := classifyNumber(text)
	if err != nil {
		return Token{}, l.errorf(line, "%v", err)
	}
	tok.Line = line
	tok.Text = text
	return tok, nil
}

func classifyNumber(text string) (Token, error) {
	body := text
	long := false
	if strings.HasSuffix(body, "LL") {
		body, long = strings.TrimSuffix(body, "LL"), true
	} else if strings.HasSuffix(body, "L") {
		body, long = strings.TrimSuffix(body, "L"), true
	}

	lower := strings.ToLower(body)
	for _, p := range []struct {
		prefix string
		base   int
	}{{"0x", 16}, {"0b", 2}, {"0o", 8}} {
		if !strings.HasPrefix(lower, p.prefix) {
			continue
		}
		u, err := strconv.ParseUint(body[2:], p.base, 64)
		if err != nil {
			return Token{}, fmt.Errorf("invalid integer %q", text)
		}
		hex := p.base == 16
		if long || u > math.MaxUint32 {
			return Token{Type: TokenInt64, Int: int64(u), Hex: hex}, nil
		}
		return Token{Type: TokenInt, Int: int64(int32(uint32(u))), Hex: hex}, nil
	}

	if strings.ContainsAny(body, ".eE") {
		if long {
			return Token{}, fmt.Errorf("invalid number %q", text)
		}
		f, err := strconv.ParseFloat(body, 64)
		if err != nil || strings.ContainsAny(lower, "xpn_") {
			return Token{}, fmt.Errorf("invalid float %q", text)
		}
		return Token{Type: TokenFloat, Float: f}, nil
	}

	n, err := strconv.ParseInt(body, 10, 64)
	if err != nil {
		return Token{}, fmt.Errorf("invalid integer %q", text)
	}
	if long || n < math.MinInt32 || n > math.MaxInt32 {
		return Token{Type: TokenInt64, Int: n}, nil
	}
	return Token{Type: TokenInt, Int: n}, nil
}
