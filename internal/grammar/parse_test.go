// FILE: lixenwraith/libconfig/internal/grammar/parse_test.go
package grammar

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *Node {
	t.Helper()
	root, err := Parse([]byte(src), Config{})
	require.NoError(t, err)
	return root
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		text string
		typ  TokenType
		i    int64
		f    float64
		hex  bool
	}{
		{"42", TokenInt, 42, 0, false},
		{"-12", TokenInt, -12, 0, false},
		{"+7", TokenInt, 7, 0, false},
		{"99991L", TokenInt64, 99991, 0, false},
		{"5LL", TokenInt64, 5, 0, false},
		{"3000000000", TokenInt64, 3000000000, 0, false},
		{"0xFF", TokenInt, 255, 0, true},
		{"0xFFFFFFFF", TokenInt, -1, 0, true},
		{"0x100000000", TokenInt64, 0x100000000, 0, true},
		{"0x1FL", TokenInt64, 31, 0, true},
		{"0b101", TokenInt, 5, 0, false},
		{"0o17", TokenInt, 15, 0, false},
		{"0.5", TokenFloat, 0, 0.5, false},
		{"1e3", TokenFloat, 0, 1000, false},
		{"-2.5e-2", TokenFloat, 0, -0.025, false},
		{".25", TokenFloat, 0, 0.25, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			lex := newLexer(tt.text, "")
			tok, err := lex.next()
			require.NoError(t, err)
			assert.Equal(t, tt.typ, tok.Type)
			assert.Equal(t, tt.hex, tok.Hex)
			if tt.typ == TokenFloat {
				assert.InDelta(t, tt.f, tok.Float, 1e-12)
			} else {
				assert.Equal(t, tt.i, tok.Int)
			}
		})
	}

	t.Run("Invalid", func(t *testing.T) {
		for _, text := range []string{"12abc", "0xZZ", "1.5L", "1..2"} {
			_, err := newLexer(text, "").next()
			assert.Error(t, err, text)
		}
	})
}

func TestLexerStringsAndComments(t *testing.T) {
	t.Run("Escapes", func(t *testing.T) {
		tok, err := newLexer(`"a\tb\n\"q\"\\\x41"`, "").next()
		require.NoError(t, err)
		assert.Equal(t, TokenString, tok.Type)
		assert.Equal(t, "a\tb\n\"q\"\\A", tok.Str)
	})

	t.Run("AdjacentConcatenation", func(t *testing.T) {
		tok, err := newLexer("\"foo\" /* gap */ \"bar\"\n  \"baz\"", "").next()
		require.NoError(t, err)
		assert.Equal(t, "foobarbaz", tok.Str)
	})

	t.Run("Unterminated", func(t *testing.T) {
		_, err := newLexer(`"abc`, "").next()
		assert.Error(t, err)
	})

	t.Run("CommentsAdvanceLines", func(t *testing.T) {
		lex := newLexer("# one\n// two\n/* three\nfour */ name", "")
		tok, err := lex.next()
		require.NoError(t, err)
		assert.Equal(t, TokenName, tok.Type)
		assert.Equal(t, 4, tok.Line)
	})

	t.Run("Booleans", func(t *testing.T) {
		tok, err := newLexer("TRUE", "").next()
		require.NoError(t, err)
		assert.Equal(t, TokenBool, tok.Type)
		assert.True(t, tok.Bool)
	})
}

func TestIsName(t *testing.T) {
	for _, name := range []string{"a", "A1", "with-dash", "under_score", "*star", "trueish", "falsey"} {
		assert.True(t, IsName(name), name)
	}
	for _, name := range []string{"", "1a", "-a", "a.b", "a b", "_a", "true", "FALSE", "True"} {
		assert.False(t, IsName(name), name)
	}
}

func TestParse(t *testing.T) {
	t.Run("Section", func(t *testing.T) {
		root := mustParse(t, `section1: { a = -12; b = true; c = 99991L; d = 0.99991; e = "x"; };`)
		require.Len(t, root.Children, 1)
		sec := root.Children[0]
		assert.Equal(t, "section1", sec.Name)
		assert.Equal(t, KindGroup, sec.Kind)
		require.Len(t, sec.Children, 5)

		assert.Equal(t, KindInt, sec.Children[0].Kind)
		assert.Equal(t, int64(-12), sec.Children[0].Int)
		assert.Equal(t, KindBool, sec.Children[1].Kind)
		assert.Equal(t, KindInt64, sec.Children[2].Kind)
		assert.Equal(t, KindFloat, sec.Children[3].Kind)
		assert.Equal(t, "x", sec.Children[4].Str)
	})

	t.Run("OptionalTerminators", func(t *testing.T) {
		root := mustParse(t, "a = 1\nb = 2,\nc = 3;")
		assert.Len(t, root.Children, 3)
	})

	t.Run("ArraysAndLists", func(t *testing.T) {
		root := mustParse(t, `
arr = [1, 2, 3];
empty = [];
list = (1, "two", [3.0], { x = 4; }, ());
`)
		require.Len(t, root.Children, 3)
		arr := root.Children[0]
		assert.Equal(t, KindArray, arr.Kind)
		assert.Len(t, arr.Children, 3)
		assert.Empty(t, root.Children[1].Children)

		list := root.Children[2]
		assert.Equal(t, KindList, list.Kind)
		require.Len(t, list.Children, 5)
		assert.Equal(t, KindString, list.Children[1].Kind)
		assert.Equal(t, KindArray, list.Children[2].Kind)
		assert.Equal(t, KindGroup, list.Children[3].Kind)
		assert.Equal(t, KindList, list.Children[4].Kind)
	})

	t.Run("LineNumbers", func(t *testing.T) {
		root := mustParse(t, "a = 1;\n\nb = {\n  c = 2;\n};")
		assert.Equal(t, 1, root.Children[0].Line)
		assert.Equal(t, 3, root.Children[1].Line)
		assert.Equal(t, 4, root.Children[1].Children[0].Line)
	})

	t.Run("Errors", func(t *testing.T) {
		tests := []struct {
			name string
			src  string
			line int
		}{
			{"MissingValue", "a = ;", 1},
			{"MissingAssign", "a 5;", 1},
			{"Duplicate", "a = 1;\na = 2;", 2},
			{"MixedArray", "a = [1,\n\"x\"];", 2},
			{"NestedArray", "a = [[1]];", 1},
			{"Unclosed", "a = {\nb = 1;\n", 3},
			{"UnknownDirective", "@import \"x\"", 1},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := Parse([]byte(tt.src), Config{})
				var gerr *Error
				require.True(t, errors.As(err, &gerr), "expected *Error, got %v", err)
				assert.Equal(t, tt.line, gerr.Line)
				assert.NotEmpty(t, gerr.Msg)
			})
		}
	})

	t.Run("AutoConvertArrays", func(t *testing.T) {
		_, err := Parse([]byte("a = [1, 2.5];"), Config{})
		assert.Error(t, err)

		root, err := Parse([]byte("a = [1.5, 2, 3L];"), Config{AutoConvert: true})
		require.NoError(t, err)
		for _, e := range root.Children[0].Children {
			assert.Equal(t, KindFloat, e.Kind)
		}
		assert.InDelta(t, 2.0, root.Children[0].Children[1].Float, 1e-12)

		_, err = Parse([]byte("a = [1, 1e20];"), Config{AutoConvert: true})
		assert.Error(t, err, "out of int32 range")

		_, err = Parse([]byte(`a = [1, "x"];`), Config{AutoConvert: true})
		assert.Error(t, err, "strings never convert")
	})
}

func TestInclude(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "inc.cfg"), []byte("b = 2;\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "deep.cfg"), []byte("c = 3;\n"), 0644))

	t.Run("RelativeToFile", func(t *testing.T) {
		main := filepath.Join(dir, "main.cfg")
		root, err := Parse([]byte("a = 1;\n@include \"inc.cfg\"\nd = 4;"), Config{File: main})
		require.NoError(t, err)
		require.Len(t, root.Children, 3)
		assert.Equal(t, "b", root.Children[1].Name)
		assert.Equal(t, filepath.Join(dir, "inc.cfg"), root.Children[1].File)
		assert.Equal(t, main, root.Children[2].File)
	})

	t.Run("IncludeDir", func(t *testing.T) {
		root, err := Parse([]byte(`grp = { @include "sub/deep.cfg" };`), Config{IncludeDir: dir})
		require.NoError(t, err)
		assert.Equal(t, "c", root.Children[0].Children[0].Name)
	})

	t.Run("DuplicateAcrossInclude", func(t *testing.T) {
		_, err := Parse([]byte("b = 1;\n@include \"inc.cfg\""), Config{IncludeDir: dir})
		assert.Error(t, err)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := Parse([]byte(`@include "nope.cfg"`), Config{IncludeDir: dir})
		var gerr *Error
		require.ErrorAs(t, err, &gerr)
		assert.Contains(t, gerr.Msg, "nope.cfg")
	})

	t.Run("DepthLimit", func(t *testing.T) {
		self := filepath.Join(dir, "self.cfg")
		require.NoError(t, os.WriteFile(self, []byte(`@include "self.cfg"`), 0644))
		_, err := Parse([]byte(`@include "self.cfg"`), Config{IncludeDir: dir})
		var gerr *Error
		require.ErrorAs(t, err, &gerr)
		assert.Contains(t, gerr.Msg, "depth")
	})

	t.Run("CustomReader", func(t *testing.T) {
		files := map[string]string{"virtual.cfg": "v = true;"}
		read := func(path string) ([]byte, error) {
			if s, ok := files[filepath.Base(path)]; ok {
				return []byte(s), nil
			}
			return nil, os.ErrNotExist
		}
		root, err := Parse([]byte(`@include "virtual.cfg"`), Config{ReadFile: read})
		require.NoError(t, err)
		assert.True(t, root.Children[0].Bool)
	})
}

func TestPrint(t *testing.T) {
	defaults := PrintOptions{TabWidth: 2, SemicolonSeparators: true, ColonForGroups: true, BraceOnSeparateLine: true}

	print := func(t *testing.T, root *Node, opts PrintOptions) string {
		t.Helper()
		var buf bytes.Buffer
		require.NoError(t, Print(&buf, root, opts))
		return buf.String()
	}

	t.Run("DefaultStyle", func(t *testing.T) {
		root := mustParse(t, `grp: { a = 1; b = "x"; arr = [1, 2]; };`)
		want := "grp :\n{\n  a = 1;\n  b = \"x\";\n  arr = [ 1, 2 ];\n};\n"
		assert.Equal(t, want, print(t, root, defaults))
	})

	t.Run("CompactStyle", func(t *testing.T) {
		root := mustParse(t, `grp: { a = 1; };`)
		opts := PrintOptions{TabWidth: 4, ColonForNonGroups: true}
		assert.Equal(t, "grp = {\n    a : 1\n}\n", print(t, root, opts))
	})

	t.Run("TabIndent", func(t *testing.T) {
		root := mustParse(t, `grp: { a = 1; };`)
		opts := defaults
		opts.TabWidth = 0
		assert.Equal(t, "grp :\n{\n\ta = 1;\n};\n", print(t, root, opts))
	})

	t.Run("Lists", func(t *testing.T) {
		root := mustParse(t, `flat = (1, "a"); nested = ({ x = 1; }, (2));`)
		out := print(t, root, defaults)
		assert.Contains(t, out, "flat = ( 1, \"a\" );\n")
		assert.Contains(t, out, "nested = (\n  {\n    x = 1;\n  },\n  ( 2 )\n);\n")
	})

	t.Run("Scalars", func(t *testing.T) {
		tests := []struct {
			node *Node
			want string
		}{
			{&Node{Kind: KindInt, Int: -5}, "-5"},
			{&Node{Kind: KindInt, Int: 255, Hex: true}, "0xFF"},
			{&Node{Kind: KindInt, Int: -1, Hex: true}, "0xFFFFFFFF"},
			{&Node{Kind: KindInt64, Int: 7}, "7L"},
			{&Node{Kind: KindInt64, Int: 0x1F, Hex: true}, "0x1FL"},
			{&Node{Kind: KindFloat, Float: 3}, "3.0"},
			{&Node{Kind: KindFloat, Float: 1e21}, "1e+21"},
			{&Node{Kind: KindFloat, Float: 0.99991}, "0.99991"},
			{&Node{Kind: KindBool, Bool: false}, "false"},
			{&Node{Kind: KindString, Str: "q\"\n\x01"}, `"q\"\n\x01"`},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.want, FormatScalar(tt.node))
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		src := `
a = 0x7F;
b = -9000000000L;
c = 1.5e-7;
d = "tab\there";
e = [ true, false ];
f = ( { g = ( ); }, [ ] );
h :
{
  i = 1;
};
`
		first := mustParse(t, src)
		text := print(t, first, defaults)
		second := mustParse(t, text)
		assert.Equal(t, text, print(t, second, defaults))
		assert.Equal(t, int64(-9000000000), second.Children[1].Int)
		assert.InDelta(t, 1.5e-7, second.Children[2].Float, 1e-20)
		assert.False(t, math.IsNaN(second.Children[2].Float))
	})
}
