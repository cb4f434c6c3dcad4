// FILE: lixenwraith/libconfig/internal/grammar/parse.go
package grammar

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// MaxIncludeDepth bounds nested @include directives.
const MaxIncludeDepth = 10

// Config controls parsing.
type Config struct {
	// File names the source for diagnostics and relative includes.
	File string
	// IncludeDir resolves relative @include paths. Empty means the including file's directory.
	IncludeDir string
	// AutoConvert lets arrays mix numeric kinds, converting to the first element's kind.
	AutoConvert bool
	// ReadFile loads included files. Defaults to os.ReadFile.
	ReadFile func(path string) ([]byte, error)
}

// Parse parses a whole document and returns its anonymous root group.
func Parse(src []byte, cfg Config) (*Node, error) {
	if cfg.ReadFile == nil {
		cfg.ReadFile = os.ReadFile
	}
	root := &Node{Kind: KindGroup, Line: 1, File: cfg.File}
	p := &parser{cfg: cfg}
	if err := p.parseFile(src, cfg.File, root, 0); err != nil {
		return nil, err
	}
	return root, nil
}

type parser struct {
	cfg Config
	lex *lexer
	tok Token
}

func (p *parser) errorf(format string, args ...any) error {
	return &Error{File: p.lex.file, Line: p.tok.Line, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expect(t TokenType) (Token, error) {
	tok := p.tok
	if tok.Type != t {
		return tok, p.errorf("expected %s, found %s", t, describe(tok))
	}
	return tok, p.advance()
}

func describe(tok Token) string {
	if tok.Type == TokenEOF || tok.Text == "" {
		return tok.Type.String()
	}
	return fmt.Sprintf("%s %q", tok.Type, tok.Text)
}

// parseFile parses src as a settings list appended to group.
func (p *parser) parseFile(src []byte, file string, group *Node, depth int) error {
	saved, savedTok := p.lex, p.tok
	defer func() { p.lex, p.tok = saved, savedTok }()

	p.lex = newLexer(string(src), file)
	if err := p.advance(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(group.Children))
	for _, c := range group.Children {
		seen[c.Name] = true
	}
	if err := p.parseSettings(group, seen, depth); err != nil {
		return err
	}
	if p.tok.Type != TokenEOF {
		return p.errorf("unexpected %s", describe(p.tok))
	}
	return nil
}

// parseSettings parses settings until '}' or end of input.
func (p *parser) parseSettings(group *Node, seen map[string]bool, depth int) error {
	for p.tok.Type != TokenEOF && p.tok.Type != TokenRBrace {
		if p.tok.Type == TokenInclude {
			if err := p.parseInclude(group, seen, depth); err != nil {
				return err
			}
			continue
		}

		nameTok, err := p.expect(TokenName)
		if err != nil {
			return err
		}
		if seen[nameTok.Text] {
			return &Error{File: p.lex.file, Line: nameTok.Line, Msg: fmt.Sprintf("duplicate setting name %q", nameTok.Text)}
		}
		if _, err := p.expect(TokenAssign); err != nil {
			return err
		}
		n, err := p.parseValue(depth)
		if err != nil {
			return err
		}
		n.Name = nameTok.Text
		n.Line = nameTok.Line
		seen[n.Name] = true
		group.Children = append(group.Children, n)

		if p.tok.Type == TokenSemicolon || p.tok.Type == TokenComma {
			if err := p.advance(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *parser) parseInclude(group *Node, seen map[string]bool, depth int) error {
	if err := p.advance(); err != nil {
		return err
	}
	pathTok, err := p.expect(TokenString)
	if err != nil {
		return err
	}
	if depth+1 > MaxIncludeDepth {
		return &Error{File: p.lex.file, Line: pathTok.Line, Msg: "include depth exceeded"}
	}

	path := p.resolveInclude(pathTok.Str)
	data, err := p.cfg.ReadFile(path)
	if err != nil {
		return &Error{File: p.lex.file, Line: pathTok.Line, Msg: fmt.Sprintf("cannot open include file %q: %v", path, err)}
	}

	before := len(group.Children)
	if err := p.parseFile(data, path, group, depth+1); err != nil {
		return err
	}
	for _, c := range group.Children[before:] {
		seen[c.Name] = true
	}
	return nil
}

func (p *parser) resolveInclude(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if p.cfg.IncludeDir != "" {
		return filepath.Join(p.cfg.IncludeDir, path)
	}
	if p.lex.file != "" {
		return filepath.Join(filepath.Dir(p.lex.file), path)
	}
	return path
}

func (p *parser) parseValue(depth int) (*Node, error) {
	tok := p.tok
	switch tok.Type {
	case TokenLBrace:
		n := &Node{Kind: KindGroup, Line: tok.Line, File: p.lex.file}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.parseSettings(n, make(map[string]bool), depth); err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRBrace); err != nil {
			return nil, err
		}
		return n, nil
	case TokenLBracket:
		return p.parseArray()
	case TokenLParen:
		return p.parseList(depth)
	}
	return p.parseScalar()
}

func (p *parser) parseScalar() (*Node, error) {
	tok := p.tok
	n := &Node{Line: tok.Line, File: p.lex.file}
	switch tok.Type {
	case TokenInt:
		n.Kind, n.Int, n.Hex = KindInt, tok.Int, tok.Hex
	case TokenInt64:
		n.Kind, n.Int, n.Hex = KindInt64, tok.Int, tok.Hex
	case TokenFloat:
		n.Kind, n.Float = KindFloat, tok.Float
	case TokenBool:
		n.Kind, n.Bool = KindBool, tok.Bool
	case TokenString:
		n.Kind, n.Str = KindString, tok.Str
	default:
		return nil, p.errorf("expected a value, found %s", describe(tok))
	}
	return n, p.advance()
}

func (p *parser) parseArray() (*Node, error) {
	n := &Node{Kind: KindArray, Line: p.tok.Line, File: p.lex.file}
	if err := p.advance(); err != nil {
		return nil, err
	}
	for p.tok.Type != TokenRBracket {
		line := p.tok.Line
		elem, err := p.parseScalar()
		if err != nil {
			return nil, err
		}
		if len(n.Children) > 0 {
			if elem, err = p.unify(n.Children[0].Kind, elem); err != nil {
				return nil, &Error{File: p.lex.file, Line: line, Msg: err.Error()}
			}
		}
		n.Children = append(n.Children, elem)

		if p.tok.Type != TokenComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokenRBracket); err != nil {
		return nil, err
	}
	return n, nil
}

// unify checks array homogeneity, converting numbers when AutoConvert is set.
func (p *parser) unify(want Kind, elem *Node) (*Node, error) {
	if elem.Kind == want {
		return elem, nil
	}
	if !p.cfg.AutoConvert || !want.IsNumber() || !elem.Kind.IsNumber() {
		return nil, fmt.Errorf("mismatched element type in array: expected %s, found %s", want, elem.Kind)
	}
	switch want {
	case KindFloat:
		elem.Float = float64(elem.Int)
	case KindInt64:
		if elem.Kind == KindFloat {
			if math.IsNaN(elem.Float) || elem.Float < math.MinInt64 || elem.Float >= math.MaxInt64 {
				return nil, fmt.Errorf("array element %v out of int64 range", elem.Float)
			}
			elem.Int = int64(elem.Float)
		}
	case KindInt:
		v := float64(elem.Int)
		if elem.Kind == KindFloat {
			v = elem.Float
		}
		if math.IsNaN(v) || v < math.MinInt32 || v > math.MaxInt32 {
			return nil, fmt.Errorf("array element %v out of int range", v)
		}
		elem.Int = int64(v)
	}
	elem.Kind = want
	return elem, nil
}

func (p *parser) parseList(depth int) (*Node, error) {
	n := &Node{Kind: KindList, Line: p.tok.Line, File: p.lex.file}
	if err := p.advance(); err != nil {
		return nil, err
	}
	for p.tok.Type != TokenRParen {
		elem, err := p.parseValue(depth)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, elem)

		if p.tok.Type != TokenComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return n, nil
}
