package mapping

import (
	"fmt"

	"github.com/expr-lang/expr"

	"pathcaster/internal/diagnostic"
)

// Validate performs structural validation of a mapping file: path syntax,
// policy values, binding shape, and transform declarations. It does not
// resolve paths against Go types; that happens when a plan is built.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("mapping_is_nil", "mapping file is nil", "", "")
		return res
	}

	if f.Version != "" && f.Version != "1" {
		res.AddError("unsupported_version", fmt.Sprintf("unsupported schema version %q", f.Version), "", "")
	}

	// Validate transform declarations: detect missing names and duplicates.
	seenTransforms := map[string]struct{}{}

	for i := range f.Transforms {
		name := f.Transforms[i].Name
		if name == "" {
			res.AddError("unnamed_transform", "transform declaration without a name", "", "")
			continue
		}

		if _, ok := seenTransforms[name]; ok {
			res.AddError("duplicate_transform", fmt.Sprintf("duplicate transform %q", name), "", name)
			continue
		}

		seenTransforms[name] = struct{}{}
	}

	for i := range f.Mappings {
		validateTypeMapping(res, &f.Mappings[i], seenTransforms)
	}

	return res
}

// validateTypeMapping validates a single type mapping block.
func validateTypeMapping(res *diagnostic.Diagnostics, tm *TypeMapping, knownTransforms map[string]struct{}) {
	pair := tm.Pair()

	if tm.Source == "" {
		res.AddError("missing_source_type", "mapping without a source type", pair, "")
	}

	if tm.Target == "" {
		res.AddError("missing_target_type", "mapping without a target type", pair, "")
	}

	// 121 shorthand
	for sp, tp := range tm.OneToOne {
		if err := CheckPath(sp); err != nil {
			res.AddError("invalid_source_path", fmt.Sprintf("invalid source path in 121: %v", err), pair, sp)
		}

		if err := CheckPath(tp); err != nil {
			res.AddError("invalid_target_path", fmt.Sprintf("invalid target path in 121: %v", err), pair, tp)
		}
	}

	// fields + auto
	for i := range tm.Fields {
		validateBinding(res, pair, &tm.Fields[i], knownTransforms)
	}

	for i := range tm.Auto {
		validateBinding(res, pair, &tm.Auto[i], knownTransforms)
	}

	// ignore paths
	for _, ig := range tm.Ignore {
		if err := CheckPath(ig); err != nil {
			res.AddError("invalid_ignore_path", fmt.Sprintf("invalid ignore path: %v", err), pair, ig)
		}
	}

	warnDuplicateTargets(res, pair, tm)
}

// validateBinding validates a single field binding within a type mapping.
func validateBinding(res *diagnostic.Diagnostics, pair string, b *FieldBinding, knownTransforms map[string]struct{}) {
	if b.Target.IsEmpty() {
		res.AddError("missing_target", "binding without a target path", pair, "")
		return
	}

	for _, tp := range b.Target {
		if err := CheckPath(tp); err != nil {
			res.AddError("invalid_target_path", fmt.Sprintf("invalid target path: %v", err), pair, tp)
		}
	}

	field := b.Target.First()

	if b.HasSource() && b.HasExpr() {
		res.AddError("conflicting_origins", "binding names both a source path and an expression", pair, field)
	}

	if !b.HasSource() && !b.HasExpr() && !b.HasDefault() {
		res.AddError("missing_origin", "binding needs a source, an expression, or a default", pair, field)
	}

	if b.HasSource() {
		if err := CheckPath(b.Source.Path); err != nil {
			res.AddError("invalid_source_path", fmt.Sprintf("invalid source path: %v", err), pair, b.Source.Path)
		}

		if !b.Source.Hint.IsValid() {
			res.AddError("invalid_hint", fmt.Sprintf("invalid hint %q", b.Source.Hint), pair, b.Source.Path)
		}
	}

	// Syntax check only; the plan resolver compiles against the concrete
	// source type.
	if b.HasExpr() {
		if _, err := expr.Compile(b.Expr); err != nil {
			res.AddError("invalid_expr", fmt.Sprintf("expression does not compile: %v", err), pair, field)
		}
	}

	if !b.Read.IsValid() {
		res.AddError("invalid_read_policy", fmt.Sprintf("invalid read policy %q", b.Read), pair, field)
	}

	if !b.Write.IsValid() {
		res.AddError("invalid_write_policy", fmt.Sprintf("invalid write policy %q", b.Write), pair, field)
	}

	if b.Transform != "" {
		if _, ok := knownTransforms[b.Transform]; !ok {
			res.AddWarning("undeclared_transform",
				fmt.Sprintf("transform %q is not declared in this file", b.Transform), pair, field)
		}
	}
}

// warnDuplicateTargets flags targets claimed by more than one rule. The
// resolver picks the winner by priority, so this is a warning, not an error.
func warnDuplicateTargets(res *diagnostic.Diagnostics, pair string, tm *TypeMapping) {
	seen := map[string]struct{}{}

	claim := func(path string) {
		if _, ok := seen[path]; ok {
			res.AddWarning("duplicate_target",
				fmt.Sprintf("target %q is claimed by more than one rule", path), pair, path)

			return
		}

		seen[path] = struct{}{}
	}

	for _, tp := range tm.OneToOne {
		claim(tp)
	}

	for i := range tm.Fields {
		for _, tp := range tm.Fields[i].Target {
			claim(tp)
		}
	}

	for _, ig := range tm.Ignore {
		claim(ig)
	}
}
