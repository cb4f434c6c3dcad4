// FILE: lixenwraith/libconfig/cmd/cfgtool/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/lixenwraith/libconfig"
)

const usage = `usage: cfgtool [-no-color] <command> [flags] <file> [args]

commands:
  check   <file>                 parse the file and report errors
  get     <file> <path>          print a setting
  set     <file> <path> <value>  change an existing scalar and save
  paths   <file>                 list every scalar path with its kind
  fmt     [-w] [-d] [-tab n] [-hex] <file>
                                 reformat the file
  convert -to <format> <file>    print the file as libconfig, json, yaml or toml
`

var (
	pathColor  = color.New(color.FgCyan).SprintFunc()
	kindColor  = color.New(color.FgHiBlack).SprintFunc()
	errorColor = color.New(color.FgRed, color.Bold).SprintFunc()
	addColor   = color.New(color.FgGreen).SprintFunc()
	delColor   = color.New(color.FgRed).SprintFunc()
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("cfgtool: ")

	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if *noColor || !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "check":
		err = runCheck(os.Stdout, rest)
	case "get":
		err = runGet(os.Stdout, rest)
	case "set":
		err = runSet(rest)
	case "paths":
		err = runPaths(os.Stdout, rest)
	case "fmt":
		err = runFmt(os.Stdout, rest)
	case "convert":
		err = runConvert(os.Stdout, rest)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		reportError(err)
		os.Exit(1)
	}
}

func reportError(err error) {
	var pe *libconfig.ParseError
	if errors.As(err, &pe) {
		log.Printf("%s %s", errorColor("parse error:"), pe.Message)
		if pe.File != "" {
			log.Printf("  at %s:%d", pe.File, pe.Line)
		} else {
			log.Printf("  at line %d", pe.Line)
		}
		return
	}
	log.Println(errorColor("error:"), err)
}

func needArgs(args []string, n int, what string) error {
	if len(args) != n {
		return fmt.Errorf("expected %s, got %d argument(s)", what, len(args))
	}
	return nil
}

func runCheck(w io.Writer, args []string) error {
	if err := needArgs(args, 1, "<file>"); err != nil {
		return err
	}
	d, err := libconfig.Load(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: ok, %d settings\n", args[0], len(d.Paths()))
	return nil
}

func runGet(w io.Writer, args []string) error {
	if err := needArgs(args, 2, "<file> <path>"); err != nil {
		return err
	}
	d, err := libconfig.Load(args[0])
	if err != nil {
		return err
	}
	v := d.Value(args[1])
	if err := v.Err(); err != nil {
		return fmt.Errorf("%s: %w", args[1], err)
	}
	if v.IsScalar() {
		val, _ := v.Value()
		fmt.Fprintln(w, val)
		return nil
	}

	// Print the aggregate as a standalone document.
	sub := libconfig.New(libconfig.WithTabWidth(d.Options().TabWidth))
	if _, err := sub.Root().AddCopy(lastSegment(args[1]), v); err != nil {
		return err
	}
	return sub.Write(w)
}

func lastSegment(path string) string {
	if path == "" {
		return "root"
	}
	seg := path[strings.LastIndex(path, ".")+1:]
	if seg[0] >= '0' && seg[0] <= '9' {
		return "elem" + seg
	}
	return seg
}

func runSet(args []string) error {
	if err := needArgs(args, 3, "<file> <path> <value>"); err != nil {
		return err
	}
	file, path, raw := args[0], args[1], args[2]
	d, err := libconfig.Load(file)
	if err != nil {
		return err
	}
	if err := d.SetFromString(path, raw); err != nil {
		return err
	}
	// JSON, YAML and TOML files are written back in their own format.
	return d.WriteFileAs(file, d.Encoding())
}

func runPaths(w io.Writer, args []string) error {
	if err := needArgs(args, 1, "<file>"); err != nil {
		return err
	}
	d, err := libconfig.Load(args[0])
	if err != nil {
		return err
	}
	flat := d.Flatten()
	for _, p := range d.Paths() {
		val := flat[p]
		fmt.Fprintf(w, "%s = %v %s\n", pathColor(p), val, kindColor("("+val.Kind().String()+")"))
	}
	return nil
}

func runFmt(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	write := fs.Bool("w", false, "write result to the file instead of stdout")
	diff := fs.Bool("d", false, "print a diff instead of the reformatted file")
	tab := fs.Int("tab", libconfig.DefaultTabWidth, "indent width, 0 for tabs")
	hex := fs.Bool("hex", false, "render integers in hexadecimal")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := needArgs(fs.Args(), 1, "<file>"); err != nil {
		return err
	}
	file := fs.Arg(0)

	original, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", libconfig.ErrFileNotFound, file)
		}
		return err
	}

	opts := []libconfig.Option{libconfig.WithTabWidth(*tab)}
	if *hex {
		opts = append(opts, libconfig.WithDefaultFormat(libconfig.FormatHex))
	}
	d, err := libconfig.Load(file, opts...)
	if err != nil {
		return err
	}
	if enc := d.Encoding(); enc != libconfig.EncodingLibconfig {
		return fmt.Errorf("%w: %s is %s, fmt only formats libconfig text (see convert)",
			libconfig.ErrUnsupportedFormat, file, enc)
	}
	formatted := d.Serialize()

	switch {
	case *diff:
		printDiff(w, string(original), formatted)
	case *write:
		if formatted != string(original) {
			return d.WriteFile(file)
		}
	default:
		fmt.Fprint(w, formatted)
	}
	return nil
}

// printDiff writes a line-oriented diff of two texts.
func printDiff(w io.Writer, from, to string) {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	for _, diff := range diffs {
		prefix, paint := " ", fmt.Sprint
		switch diff.Type {
		case diffpatch.DiffInsert:
			prefix, paint = "+", addColor
		case diffpatch.DiffDelete:
			prefix, paint = "-", delColor
		}
		for _, line := range strings.SplitAfter(diff.Text, "\n") {
			if line == "" {
				continue
			}
			fmt.Fprint(w, paint(prefix+strings.TrimSuffix(line, "\n")), "\n")
		}
	}
}

func runConvert(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	to := fs.String("to", "json", "output format: libconfig, json, yaml or toml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := needArgs(fs.Args(), 1, "<file>"); err != nil {
		return err
	}

	enc, err := libconfig.ParseEncoding(*to)
	if err != nil {
		return err
	}
	d, err := libconfig.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	data, err := d.Export(enc)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
