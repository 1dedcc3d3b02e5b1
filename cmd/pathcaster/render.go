package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"pathcaster/internal/diagnostic"
	"pathcaster/mapping"
)

// printer renders CLI output, colored when the destination is a terminal.
type printer struct {
	out *os.File

	errc  func(format string, a ...any) string
	warnc func(format string, a ...any) string
	okc   func(format string, a ...any) string
	head  func(format string, a ...any) string
}

func newPrinter(out *os.File, noColor bool) *printer {
	if noColor || !isatty.IsTerminal(out.Fd()) {
		color.NoColor = true
	}

	return &printer{
		out:   out,
		errc:  color.RedString,
		warnc: color.YellowString,
		okc:   color.GreenString,
		head:  color.New(color.Bold).Sprintf,
	}
}

func (p *printer) errorf(format string, a ...any) {
	fmt.Fprintln(p.out, p.errc("error: "+format, a...))
}

func (p *printer) okf(format string, a ...any) {
	fmt.Fprintln(p.out, p.okc("ok: "+format, a...))
}

// diagnostics renders every collected diagnostic, errors first.
func (p *printer) diagnostics(d *diagnostic.Diagnostics) {
	for _, e := range d.Errors {
		fmt.Fprintln(p.out, p.errc("error")+" "+renderDiag(e))
	}

	for _, w := range d.Warnings {
		fmt.Fprintln(p.out, p.warnc("warning")+" "+renderDiag(w))
	}

	for _, i := range d.Infos {
		fmt.Fprintln(p.out, "info "+renderDiag(i))
	}
}

func renderDiag(d diagnostic.Diagnostic) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "[%s] %s", d.Code, d.Message)

	if d.TypePair != "" {
		fmt.Fprintf(&sb, " (%s", d.TypePair)

		if d.FieldPath != "" {
			fmt.Fprintf(&sb, ", %s", d.FieldPath)
		}

		sb.WriteByte(')')
	}

	return sb.String()
}

// rules renders one block per declared pair: every rule tier in priority
// order, one line per binding.
func (p *printer) rules(f *mapping.File) {
	for i := range f.Mappings {
		tm := &f.Mappings[i]

		if i > 0 {
			fmt.Fprintln(p.out)
		}

		fmt.Fprintln(p.out, p.head("%s -> %s", tm.Source, tm.Target))

		for src, tgt := range tm.OneToOne {
			fmt.Fprintf(p.out, "  121     %-30s <- %s\n", tgt, src)
		}

		for j := range tm.Fields {
			p.binding("fields", &tm.Fields[j])
		}

		for _, ig := range tm.Ignore {
			fmt.Fprintf(p.out, "  ignore  %s\n", ig)
		}

		for j := range tm.Auto {
			p.binding("auto", &tm.Auto[j])
		}
	}

	if len(f.Transforms) > 0 {
		fmt.Fprintln(p.out)
		fmt.Fprintln(p.out, p.head("transforms"))

		for _, tr := range f.Transforms {
			fmt.Fprintf(p.out, "  %-20s %s -> %s\n", tr.Name, orAny(tr.SourceType), orAny(tr.TargetType))
		}
	}
}

func (p *printer) binding(tier string, b *mapping.FieldBinding) {
	var notes []string

	if b.Transform != "" {
		notes = append(notes, "transform="+b.Transform)
	}

	if b.Read != mapping.ReadDefault {
		notes = append(notes, "read="+string(b.Read))
	}

	if b.Write != mapping.WriteDefault {
		notes = append(notes, "write="+string(b.Write))
	}

	suffix := ""
	if len(notes) > 0 {
		suffix = "  [" + strings.Join(notes, " ") + "]"
	}

	fmt.Fprintf(p.out, "  %-7s %-30s <- %s%s\n",
		tier, strings.Join(b.Target, ", "), bindingSource(b), suffix)
}

func bindingSource(b *mapping.FieldBinding) string {
	switch {
	case b.HasSource():
		return b.Source.Path
	case b.HasExpr():
		return "expr(" + b.Expr + ")"
	case b.HasDefault():
		return "default(" + *b.Default + ")"
	}

	return "-"
}

func orAny(s string) string {
	if s == "" {
		return "any"
	}

	return s
}
