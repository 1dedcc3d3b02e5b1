package mapper

import (
	"fmt"
	"reflect"

	"pathcaster/internal/common"
	"pathcaster/internal/diagnostic"
	"pathcaster/internal/match"
	"pathcaster/mapping"
)

// Plan is the resolved form of every type pair the mapper knows. It is
// descriptive: inspect it, render it with Describe, or persist the
// auto-matched part with Freeze. Mutating it does not affect mapping.
type Plan struct {
	// Pairs lists resolved type pairs in resolution order: rule-file pairs
	// first, then nested and on-demand pairs.
	Pairs []*TypePlan
	// Diagnostics collects everything resolution had to say.
	Diagnostics diagnostic.Diagnostics
}

// TypePlan is the resolved mapping for one source/target struct pair.
type TypePlan struct {
	// Source and Target are the pair's struct types.
	Source, Target reflect.Type
	// Bindings lists the resolved bindings in deterministic order.
	Bindings []Binding
	// Unmapped lists target slots no rule or match could fill.
	Unmapped []UnmappedTarget
}

// Binding is one resolved value flow: a source (path, expression, or default
// literal) feeding one or more target paths through a conversion strategy.
type Binding struct {
	// Origin reports which rule tier produced the binding.
	Origin Origin
	// Strategy reports how the value is converted for the first target.
	Strategy Strategy
	// Source is the source path spelling; empty for expression and
	// default-only bindings.
	Source string
	// Targets are the writable target path spellings, setter form where a
	// getter was rewritten.
	Targets []string
	// Expr is the source expression, when the binding computes its value.
	Expr string
	// Default is the literal fallback, when one was given.
	Default *string
	// Transform names the registered transform applied to the value.
	Transform string
	// Read and Write are the effective chain policies.
	Read  mapping.ReadPolicy
	Write mapping.WritePolicy
	// Hint is the introspection hint carried by the source path.
	Hint mapping.IntrospectionHint
	// Confidence is the match score; explicit rules carry 1.0.
	Confidence float64
	// Explanation describes why this binding was chosen.
	Explanation string

	read   readFunc
	writes []boundWrite
}

// UnmappedTarget is a target slot that resolution could not fill.
type UnmappedTarget struct {
	// Path is the slot's writable spelling ("Number" or "SetNumber()").
	Path string
	// Type is the value type the slot accepts.
	Type reflect.Type
	// Candidates are the top-ranked rejected matches, for suggestions.
	Candidates match.CandidateList
	// Reason explains the rejection.
	Reason string
}

// Origin reports which rule tier produced a binding.
type Origin int

const (
	// OriginOneToOne - rule-file 121 shorthand (highest priority).
	OriginOneToOne Origin = iota
	// OriginFields - rule-file explicit fields section.
	OriginFields
	// OriginIgnore - rule-file ignore list.
	OriginIgnore
	// OriginAuto - rule-file auto section.
	OriginAuto
	// OriginMatched - auto-matched by the best-effort matcher.
	OriginMatched
)

// String returns a human-readable origin name.
func (o Origin) String() string {
	switch o {
	case OriginOneToOne:
		return "yaml:121"
	case OriginFields:
		return "yaml:fields"
	case OriginIgnore:
		return "yaml:ignore"
	case OriginAuto:
		return "yaml:auto"
	case OriginMatched:
		return "auto"
	default:
		return common.UnknownStr
	}
}

// Strategy describes how a bound value is converted.
type Strategy int

const (
	// StrategyAssign - direct assignment, types identical or assignable.
	StrategyAssign Strategy = iota
	// StrategyConvert - primitive or Go type conversion.
	StrategyConvert
	// StrategyDeref - dereference a source pointer, skipping on nil.
	StrategyDeref
	// StrategyWrap - allocate a pointer around the converted value.
	StrategyWrap
	// StrategySliceMap - convert elementwise between slices or arrays.
	StrategySliceMap
	// StrategyNestedCast - run the nested pair's plan on a struct value.
	StrategyNestedCast
	// StrategyMapCopy - convert keys and values between maps.
	StrategyMapCopy
	// StrategyTransform - apply a registered transform function.
	StrategyTransform
	// StrategyExpr - evaluate an expression over the source instance.
	StrategyExpr
	// StrategyDefault - assign a parsed default literal.
	StrategyDefault
	// StrategyIgnore - leave the target untouched.
	StrategyIgnore
)

// String returns a human-readable strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyAssign:
		return "direct_assign"
	case StrategyConvert:
		return "convert"
	case StrategyDeref:
		return "pointer_deref"
	case StrategyWrap:
		return "pointer_wrap"
	case StrategySliceMap:
		return "slice_map"
	case StrategyNestedCast:
		return "nested_cast"
	case StrategyMapCopy:
		return "map_copy"
	case StrategyTransform:
		return "transform"
	case StrategyExpr:
		return "expr"
	case StrategyDefault:
		return "default"
	case StrategyIgnore:
		return "ignore"
	default:
		return common.UnknownStr
	}
}

// typePair keys plans by the base struct types of a mapping.
type typePair struct {
	Src, Dst reflect.Type
}

func (p typePair) label() string {
	return typeLabel(p.Src) + "->" + typeLabel(p.Dst)
}

// typeLabel renders a type the way rule files spell it: "store.Order" for
// named types, the reflect spelling otherwise.
func typeLabel(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	if t.Name() != "" && t.PkgPath() != "" {
		return common.PkgAlias(t.PkgPath()) + "." + t.Name()
	}

	return t.String()
}

// run executes every binding of the pair against a destination pointer and
// a source pointer.
func (tp *TypePlan) run(dst, src any) error {
	for i := range tp.Bindings {
		b := &tp.Bindings[i]
		if b.read == nil {
			continue
		}

		v, ok, err := b.read(src)
		if err != nil {
			return fmt.Errorf("%s: read for %s: %w", tp.label(), b.target(), err)
		}

		if !ok {
			continue
		}

		for j := range b.writes {
			w := &b.writes[j]

			out, ok, err := w.convert(v)
			if err != nil {
				return fmt.Errorf("%s: bind %s: %w", tp.label(), b.Targets[j], err)
			}

			if !ok {
				continue
			}

			w.set(dst, out.Interface())
		}
	}

	return nil
}

func (tp *TypePlan) label() string {
	return typeLabel(tp.Source) + "->" + typeLabel(tp.Target)
}

func (b *Binding) target() string {
	if v, ok := common.First(b.Targets); ok {
		return v
	}

	return ""
}
