package mapper

import (
	"fmt"
	"reflect"

	"pathcaster/mapping"
	"pathcaster/primitive"
)

// converter adapts one read value to a target slot's type. A false boolean
// skips the write without failing the run, mirroring the skip semantics of
// nil-safe chains.
type converter func(v reflect.Value) (reflect.Value, bool, error)

// buildConverter picks the cheapest conversion between two leaf types and
// returns the closure together with the strategy and a short explanation.
// Struct pairs that need their own mapping plan are queued for resolution
// and bound lazily, so mutually recursive types settle without cycles.
func (r *resolver) buildConverter(src, dst reflect.Type, hint mapping.IntrospectionHint, depth int) (converter, Strategy, string, error) {
	if src == dst {
		conv := func(v reflect.Value) (reflect.Value, bool, error) {
			return v, true, nil
		}

		return conv, StrategyAssign, "identical", nil
	}

	if src.AssignableTo(dst) {
		conv := func(v reflect.Value) (reflect.Value, bool, error) {
			return v, true, nil
		}

		return conv, StrategyAssign, "assignable", nil
	}

	// When both sides classify as primitives the allowed category set
	// decides, never bare reflect conversion: int64 -> int8 must not
	// sneak through as "convertible".
	if primitive.FromReflectType(src) != 0 && primitive.FromReflectType(dst) != 0 {
		allowed := r.m.cfg.conversions

		if !primitive.CanConvert(src, dst, allowed) {
			return nil, 0, "", fmt.Errorf(
				"conversion from %s to %s is not enabled: needs transform",
				typeLabel(src), typeLabel(dst))
		}

		conv := func(v reflect.Value) (reflect.Value, bool, error) {
			out, err := primitive.Convert(v, dst, allowed)
			if err != nil {
				return reflect.Value{}, false, err
			}

			return out, true, nil
		}

		return conv, StrategyConvert, "convertible", nil
	}

	if src.ConvertibleTo(dst) {
		conv := func(v reflect.Value) (reflect.Value, bool, error) {
			return v.Convert(dst), true, nil
		}

		return conv, StrategyConvert, "convertible", nil
	}

	if hint != mapping.HintFinal && isStructPointer(src) && isStructPointer(dst) {
		inner, _, _, err := r.buildConverter(src.Elem(), dst.Elem(), hint, depth)
		if err != nil {
			return nil, 0, "", err
		}

		conv := func(v reflect.Value) (reflect.Value, bool, error) {
			if v.IsNil() {
				return reflect.Value{}, false, nil
			}

			out, ok, err := inner(v.Elem())
			if err != nil || !ok {
				return reflect.Value{}, ok, err
			}

			ptr := reflect.New(dst.Elem())
			ptr.Elem().Set(out)

			return ptr, true, nil
		}

		return conv, StrategyNestedCast, "pointer nested cast", nil
	}

	if src.Kind() == reflect.Pointer {
		inner, _, _, err := r.buildConverter(src.Elem(), dst, hint, depth)
		if err != nil {
			return nil, 0, "", err
		}

		conv := func(v reflect.Value) (reflect.Value, bool, error) {
			if v.IsNil() {
				return reflect.Value{}, false, nil
			}

			return inner(v.Elem())
		}

		return conv, StrategyDeref, "pointer deref", nil
	}

	if dst.Kind() == reflect.Pointer {
		inner, _, _, err := r.buildConverter(src, dst.Elem(), hint, depth)
		if err != nil {
			return nil, 0, "", err
		}

		conv := func(v reflect.Value) (reflect.Value, bool, error) {
			out, ok, err := inner(v)
			if err != nil || !ok {
				return reflect.Value{}, ok, err
			}

			ptr := reflect.New(dst.Elem())
			ptr.Elem().Set(out)

			return ptr, true, nil
		}

		return conv, StrategyWrap, "pointer wrap", nil
	}

	if hint != mapping.HintFinal && isPlainStruct(src) && isPlainStruct(dst) {
		return r.nestedConverter(src, dst, depth)
	}

	switch {
	case src.Kind() == reflect.Slice && dst.Kind() == reflect.Slice:
		return r.sliceConverter(src, dst, hint, depth)
	case src.Kind() == reflect.Array && dst.Kind() == reflect.Array:
		return r.arrayConverter(src, dst, hint, depth)
	case src.Kind() == reflect.Slice && dst.Kind() == reflect.Array:
		return r.sliceToArrayConverter(src, dst, hint, depth)
	case src.Kind() == reflect.Array && dst.Kind() == reflect.Slice:
		return r.arrayToSliceConverter(src, dst, hint, depth)
	case src.Kind() == reflect.Map && dst.Kind() == reflect.Map:
		return r.mapConverter(src, dst, hint, depth)
	}

	return nil, 0, "", fmt.Errorf(
		"no conversion from %s to %s: needs transform",
		typeLabel(src), typeLabel(dst))
}

// nestedConverter binds a struct-to-struct conversion to the pair's own
// mapping plan. The plan is looked up at execution time because the pair may
// still be waiting in the resolution queue when the converter is built.
func (r *resolver) nestedConverter(src, dst reflect.Type, depth int) (converter, Strategy, string, error) {
	pair := typePair{Src: src, Dst: dst}
	r.queue.Add(pair, depth+1)

	m := r.m

	conv := func(v reflect.Value) (reflect.Value, bool, error) {
		plan, ok := m.pairs.Load(pair)
		if !ok {
			return reflect.Value{}, false, fmt.Errorf("no mapping plan for %s", pair.label())
		}

		srcPtr := reflect.New(src)
		srcPtr.Elem().Set(v)

		dstPtr := reflect.New(dst)
		if err := plan.(*TypePlan).run(dstPtr.Interface(), srcPtr.Interface()); err != nil {
			return reflect.Value{}, false, err
		}

		return dstPtr.Elem(), true, nil
	}

	return conv, StrategyNestedCast, "nested struct", nil
}

func (r *resolver) sliceConverter(src, dst reflect.Type, hint mapping.IntrospectionHint, depth int) (converter, Strategy, string, error) {
	inner, _, _, err := r.buildConverter(src.Elem(), dst.Elem(), hint, depth)
	if err != nil {
		return nil, 0, "", fmt.Errorf("slice element: %w", err)
	}

	conv := func(v reflect.Value) (reflect.Value, bool, error) {
		if v.IsNil() {
			return reflect.Zero(dst), true, nil
		}

		n := v.Len()

		out := reflect.MakeSlice(dst, n, n)
		for i := 0; i < n; i++ {
			ev, ok, err := inner(v.Index(i))
			if err != nil {
				return reflect.Value{}, false, fmt.Errorf("index %d: %w", i, err)
			}

			if !ok {
				continue // element stays zero
			}

			out.Index(i).Set(ev)
		}

		return out, true, nil
	}

	return conv, StrategySliceMap, "slice map", nil
}

func (r *resolver) arrayConverter(src, dst reflect.Type, hint mapping.IntrospectionHint, depth int) (converter, Strategy, string, error) {
	inner, _, _, err := r.buildConverter(src.Elem(), dst.Elem(), hint, depth)
	if err != nil {
		return nil, 0, "", fmt.Errorf("array element: %w", err)
	}

	n := min(src.Len(), dst.Len())

	conv := func(v reflect.Value) (reflect.Value, bool, error) {
		out := reflect.New(dst).Elem()
		for i := 0; i < n; i++ {
			ev, ok, err := inner(v.Index(i))
			if err != nil {
				return reflect.Value{}, false, fmt.Errorf("index %d: %w", i, err)
			}

			if !ok {
				continue
			}

			out.Index(i).Set(ev)
		}

		return out, true, nil
	}

	return conv, StrategySliceMap, "slice map", nil
}

func (r *resolver) sliceToArrayConverter(src, dst reflect.Type, hint mapping.IntrospectionHint, depth int) (converter, Strategy, string, error) {
	exact, loose, err := r.arrayCategories(src, dst)
	if err != nil {
		return nil, 0, "", err
	}

	inner, _, _, err := r.buildConverter(src.Elem(), dst.Elem(), hint, depth)
	if err != nil {
		return nil, 0, "", fmt.Errorf("array element: %w", err)
	}

	size := dst.Len()

	conv := func(v reflect.Value) (reflect.Value, bool, error) {
		if exact && !loose && v.Len() != size {
			return reflect.Value{}, false, fmt.Errorf(
				"length mismatch: need %d elements, got %d", size, v.Len())
		}

		out := reflect.New(dst).Elem()

		n := min(v.Len(), size)
		for i := 0; i < n; i++ {
			ev, ok, err := inner(v.Index(i))
			if err != nil {
				return reflect.Value{}, false, fmt.Errorf("index %d: %w", i, err)
			}

			if !ok {
				continue
			}

			out.Index(i).Set(ev)
		}

		return out, true, nil
	}

	return conv, StrategySliceMap, "slice map", nil
}

func (r *resolver) arrayToSliceConverter(src, dst reflect.Type, hint mapping.IntrospectionHint, depth int) (converter, Strategy, string, error) {
	if _, _, err := r.arrayCategories(src, dst); err != nil {
		return nil, 0, "", err
	}

	inner, _, _, err := r.buildConverter(src.Elem(), dst.Elem(), hint, depth)
	if err != nil {
		return nil, 0, "", fmt.Errorf("slice element: %w", err)
	}

	conv := func(v reflect.Value) (reflect.Value, bool, error) {
		n := v.Len()

		out := reflect.MakeSlice(dst, n, n)
		for i := 0; i < n; i++ {
			ev, ok, err := inner(v.Index(i))
			if err != nil {
				return reflect.Value{}, false, fmt.Errorf("index %d: %w", i, err)
			}

			if !ok {
				continue
			}

			out.Index(i).Set(ev)
		}

		return out, true, nil
	}

	return conv, StrategySliceMap, "slice map", nil
}

// arrayCategories reports which slice-array bridging modes the allowed
// conversion set enables. Neither enabled is a build error.
func (r *resolver) arrayCategories(src, dst reflect.Type) (exact, loose bool, err error) {
	allowed := r.m.cfg.conversions

	exact = allowed.Has(primitive.CategorySafeArray)
	loose = allowed.Has(primitive.CategoryUnsafeArray)

	if !exact && !loose {
		return false, false, fmt.Errorf(
			"conversion from %s to %s is not enabled: needs transform",
			typeLabel(src), typeLabel(dst))
	}

	return exact, loose, nil
}

func (r *resolver) mapConverter(src, dst reflect.Type, hint mapping.IntrospectionHint, depth int) (converter, Strategy, string, error) {
	keyConv, _, _, err := r.buildConverter(src.Key(), dst.Key(), hint, depth)
	if err != nil {
		return nil, 0, "", fmt.Errorf("map key: %w", err)
	}

	elemConv, _, _, err := r.buildConverter(src.Elem(), dst.Elem(), hint, depth)
	if err != nil {
		return nil, 0, "", fmt.Errorf("map value: %w", err)
	}

	conv := func(v reflect.Value) (reflect.Value, bool, error) {
		if v.IsNil() {
			return reflect.Zero(dst), true, nil
		}

		out := reflect.MakeMapWithSize(dst, v.Len())

		iter := v.MapRange()
		for iter.Next() {
			k, ok, err := keyConv(iter.Key())
			if err != nil {
				return reflect.Value{}, false, fmt.Errorf("map key %v: %w", iter.Key(), err)
			}

			if !ok {
				continue
			}

			e, ok, err := elemConv(iter.Value())
			if err != nil {
				return reflect.Value{}, false, fmt.Errorf("map value for %v: %w", iter.Key(), err)
			}

			if !ok {
				continue
			}

			out.SetMapIndex(k, e)
		}

		return out, true, nil
	}

	return conv, StrategyMapCopy, "map copy", nil
}

// isPlainStruct reports a struct type that is not one of the recognized
// primitive structs like time.Time.
func isPlainStruct(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && primitive.FromReflectType(t) == 0
}

// isStructPointer reports a single pointer to a plain struct.
func isStructPointer(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer && isPlainStruct(t.Elem())
}
