package mapper

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"pathcaster/mapping"
	"pathcaster/primitive"
)

// ErrInvalidExpr marks expressions that do not compile against the source
// type.
var ErrInvalidExpr = errors.New("expression does not compile")

// bindExpr resolves an expression-driven binding. The program is compiled
// once against the source struct, so field names and getter methods are
// checked up front; the output type is only known per run, so each target
// adapts the result dynamically.
func (r *resolver) bindExpr(pair typePair, fb mapping.FieldBinding) (Binding, error) {
	if len(fb.Target) == 0 {
		return Binding{}, fmt.Errorf("expression binding has no target")
	}

	prog, err := expr.Compile(fb.Expr, expr.Env(reflect.New(pair.Src).Interface()))
	if err != nil {
		return Binding{}, fmt.Errorf("%w: %q: %v", ErrInvalidExpr, fb.Expr, err)
	}

	b := Binding{
		Origin:      OriginFields,
		Strategy:    StrategyExpr,
		Expr:        fb.Expr,
		Default:     fb.Default,
		Write:       effectiveWrite(fb.Write),
		Confidence:  1,
		Explanation: "expression",
		read: func(src any) (reflect.Value, bool, error) {
			out, err := vm.Run(prog, src)
			if err != nil {
				return reflect.Value{}, false, fmt.Errorf("expr %q: %w", fb.Expr, err)
			}

			if out == nil {
				// Valid but empty: targets fall back to their
				// defaults or skip.
				return reflect.Value{}, true, nil
			}

			return reflect.ValueOf(out), true, nil
		},
	}

	dstEntry := reflect.PointerTo(pair.Dst)

	for _, raw := range fb.Target {
		wp, err := r.writablePath(dstEntry, raw)
		if err != nil {
			return Binding{}, err
		}

		var fallback *reflect.Value

		if fb.Default != nil {
			val, err := parseDefault(*fb.Default, wp.ValueType())
			if err != nil {
				return Binding{}, fmt.Errorf("target %q: %w", raw, err)
			}

			fallback = &val
		}

		conv := dynamicConverter(wp.ValueType(), r.m.cfg.conversions, fallback)

		w, err := r.buildWrite(wp, fb.Write, conv)
		if err != nil {
			return Binding{}, err
		}

		b.Targets = append(b.Targets, wp.Key())
		b.writes = append(b.writes, w)
	}

	return b, nil
}

// dynamicConverter adapts a value of unknown static type to the target leaf,
// applying the same precedence as buildConverter: assignment, gated
// primitive conversion, then plain conversion.
func dynamicConverter(want reflect.Type, allowed primitive.CategoryEnum, fallback *reflect.Value) converter {
	return func(v reflect.Value) (reflect.Value, bool, error) {
		if !v.IsValid() {
			if fallback != nil {
				return *fallback, true, nil
			}

			return reflect.Value{}, false, nil
		}

		got := v.Type()

		switch {
		case got == want, got.AssignableTo(want):
			return v, true, nil

		case primitive.FromReflectType(got) != 0 && primitive.FromReflectType(want) != 0:
			out, err := primitive.Convert(v, want, allowed)
			if err != nil {
				return reflect.Value{}, false, err
			}

			return out, true, nil

		case got.ConvertibleTo(want):
			return v.Convert(want), true, nil
		}

		return reflect.Value{}, false, fmt.Errorf(
			"expression result %s does not fit %s", typeLabel(got), typeLabel(want))
	}
}
