// FILE: lixenwraith/libconfig/internal/grammar/print.go
package grammar

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// PrintOptions controls rendering.
type PrintOptions struct {
	// TabWidth is the indent per level in spaces; 0 indents with tabs.
	TabWidth int
	// SemicolonSeparators terminates settings with ';'.
	SemicolonSeparators bool
	// ColonForGroups assigns groups with ':' instead of '='.
	ColonForGroups bool
	// ColonForNonGroups assigns non-groups with ':' instead of '='.
	ColonForNonGroups bool
	// BraceOnSeparateLine puts a group's opening brace on its own line.
	BraceOnSeparateLine bool
}

// Print renders the members of root, an anonymous group, to w.
func Print(w io.Writer, root *Node, opts PrintOptions) error {
	bw := bufio.NewWriter(w)
	pr := &printer{w: bw, opts: opts}
	for _, c := range root.Children {
		pr.setting(c, 0)
	}
	return bw.Flush()
}

type printer struct {
	w    *bufio.Writer
	opts PrintOptions
}

func (p *printer) indent(depth int) {
	if p.opts.TabWidth == 0 {
		p.w.WriteString(strings.Repeat("\t", depth))
		return
	}
	p.w.WriteString(strings.Repeat(" ", depth*p.opts.TabWidth))
}

func (p *printer) terminator() string {
	if p.opts.SemicolonSeparators {
		return ";"
	}
	return ""
}

// setting renders a named group member.
func (p *printer) setting(n *Node, depth int) {
	p.indent(depth)
	p.w.WriteString(n.Name)
	if n.Kind == KindGroup {
		if p.opts.ColonForGroups {
			p.w.WriteString(" :")
		} else {
			p.w.WriteString(" =")
		}
		p.group(n, depth)
		p.w.WriteString(p.terminator())
		p.w.WriteByte('\n')
		return
	}
	if p.opts.ColonForNonGroups {
		p.w.WriteString(" : ")
	} else {
		p.w.WriteString(" = ")
	}
	p.value(n, depth)
	p.w.WriteString(p.terminator())
	p.w.WriteByte('\n')
}

// group renders "{ ... }" following a name or list position; the caller owns what precedes it.
func (p *printer) group(n *Node, depth int) {
	if p.opts.BraceOnSeparateLine {
		p.w.WriteByte('\n')
		p.indent(depth)
	} else {
		p.w.WriteByte(' ')
	}
	p.w.WriteString("{\n")
	for _, c := range n.Children {
		p.setting(c, depth+1)
	}
	p.indent(depth)
	p.w.WriteByte('}')
}

func (p *printer) value(n *Node, depth int) {
	switch n.Kind {
	case KindArray:
		p.inline(n, "[", "]")
	case KindList:
		if isFlat(n) {
			p.inline(n, "(", ")")
			return
		}
		p.w.WriteString("(\n")
		for i, c := range n.Children {
			p.indent(depth + 1)
			if c.Kind == KindGroup {
				p.w.WriteString("{\n")
				for _, m := range c.Children {
					p.setting(m, depth+2)
				}
				p.indent(depth + 1)
				p.w.WriteByte('}')
			} else {
				p.value(c, depth+1)
			}
			if i < len(n.Children)-1 {
				p.w.WriteByte(',')
			}
			p.w.WriteByte('\n')
		}
		p.indent(depth)
		p.w.WriteByte(')')
	case KindGroup:
		p.group(n, depth)
	default:
		p.w.WriteString(FormatScalar(n))
	}
}

func (p *printer) inline(n *Node, open, close string) {
	if len(n.Children) == 0 {
		p.w.WriteString(open + " " + close)
		return
	}
	p.w.WriteString(open + " ")
	for i, c := range n.Children {
		if i > 0 {
			p.w.WriteString(", ")
		}
		p.value(c, 0)
	}
	p.w.WriteString(" " + close)
}

// isFlat reports whether a list holds no groups or lists and can be rendered on one line.
func isFlat(n *Node) bool {
	for _, c := range n.Children {
		if c.Kind == KindGroup || c.Kind == KindList {
			return false
		}
	}
	return true
}

// FormatScalar renders a scalar node in source form.
func FormatScalar(n *Node) string {
	switch n.Kind {
	case KindInt:
		if n.Hex {
			return fmt.Sprintf("0x%X", uint32(n.Int))
		}
		return strconv.FormatInt(n.Int, 10)
	case KindInt64:
		if n.Hex {
			return fmt.Sprintf("0x%XL", uint64(n.Int))
		}
		return strconv.FormatInt(n.Int, 10) + "L"
	case KindFloat:
		return formatFloat(n.Float)
	case KindBool:
		return strconv.FormatBool(n.Bool)
	case KindString:
		return Quote(n.Str)
	}
	return ""
}

// formatFloat keeps a '.' or exponent so the text re-parses as a float.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// Quote renders s as a double-quoted literal using the format's escapes.
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&sb, `\x%02X`, c)
			} else {
				sb.WriteByte(c)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
