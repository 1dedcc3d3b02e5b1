// Package main provides the CLI entrypoint for pathcaster.
//
// pathcaster works with YAML mapping rule files:
//   - validate: parse a rule file and report every structural problem
//   - explain: render a rule file as a human-readable binding table
//
// Resolution against concrete Go types happens in-process through the
// mapper package; the CLI checks only what a rule file can answer on its
// own.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"pathcaster/mapping"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out *os.File) int {
	if len(args) == 0 {
		usage(out)
		return 2
	}

	cmd, rest := args[0], args[1:]

	fs := pflag.NewFlagSet(cmd, pflag.ContinueOnError)
	file := fs.StringP("file", "f", "", "mapping rules file (YAML)")
	noColor := fs.Bool("no-color", false, "disable colored output")

	if err := fs.Parse(rest); err != nil {
		fmt.Fprintln(out, err)
		return 2
	}

	p := newPrinter(out, *noColor)

	if *file == "" {
		p.errorf("--file is required")
		return 2
	}

	switch cmd {
	case "validate":
		return validateCmd(p, *file)
	case "explain":
		return explainCmd(p, *file)
	case "help", "-h", "--help":
		usage(out)
		return 0
	default:
		p.errorf("unknown command %q", cmd)
		usage(out)

		return 2
	}
}

func usage(out *os.File) {
	fmt.Fprintln(out, "pathcaster - inspect YAML mapping rule files")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  pathcaster validate -f rules.yaml")
	fmt.Fprintln(out, "  pathcaster explain  -f rules.yaml")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Flags:")
	fmt.Fprintln(out, "  -f, --file string   mapping rules file (YAML)")
	fmt.Fprintln(out, "      --no-color      disable colored output")
}

func validateCmd(p *printer, path string) int {
	f, err := mapping.LoadFile(path)
	if err != nil {
		p.errorf("%v", err)
		return 1
	}

	diags := mapping.Validate(f)
	p.diagnostics(diags)

	if diags.HasErrors() {
		return 1
	}

	p.okf("%s: %d mapping(s), %d transform(s)", path, len(f.Mappings), len(f.Transforms))

	return 0
}

func explainCmd(p *printer, path string) int {
	f, err := mapping.LoadFile(path)
	if err != nil {
		p.errorf("%v", err)
		return 1
	}

	diags := mapping.Validate(f)
	if diags.HasErrors() {
		p.diagnostics(diags)
		return 1
	}

	p.rules(f)

	return 0
}
