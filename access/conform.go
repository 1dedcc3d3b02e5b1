package access

import (
	"errors"
	"fmt"
	"reflect"
)

var ErrStepMismatch = errors.New("step does not compose with the running type")

// stepFn is one compiled hop: it takes the running value and produces the
// next one. Closures of this shape are built once at compile time and
// replayed on every accessor invocation.
type stepFn func(reflect.Value) reflect.Value

// nilable reports whether values of t can be nil, which is the only form of
// absence an access chain can encounter.
func nilable(t reflect.Type) bool {
	switch t.Kind() {
	default:
		return false
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
}

// refKind reports whether values of t carry reference semantics, so that
// writes through a copy still reach the original object.
func refKind(t reflect.Type) bool {
	switch t.Kind() {
	default:
		return false
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return true
	}
}

// conform returns a closure adjusting a running value of type from to the
// type a hop needs, or nil when no adjustment is required.
//
// The supported adjustments mirror what a hand-written chain gets implicitly
// from the language: pointer dereference (possibly repeated), address-of for
// pointer receivers, widening into an interface, and unwrapping an interface
// down to its dynamic value.
func conform(from, to reflect.Type) (stepFn, error) {
	if from == to {
		return nil, nil
	}

	if n := derefDepth(from, to); n > 0 {
		return func(v reflect.Value) reflect.Value {
			for i := 0; i < n; i++ {
				v = v.Elem()
			}

			return v
		}, nil
	}

	if to.Kind() == reflect.Ptr && to.Elem() == from {
		return func(v reflect.Value) reflect.Value {
			return v.Addr()
		}, nil
	}

	if to.Kind() == reflect.Interface && from.Implements(to) {
		return func(v reflect.Value) reflect.Value {
			return v.Convert(to)
		}, nil
	}

	if from.Kind() == reflect.Interface && plausibleUnwrap(from, to) {
		return func(v reflect.Value) reflect.Value {
			return unwrap(v, to)
		}, nil
	}

	return nil, fmt.Errorf("%w: cannot adapt %s to %s", ErrStepMismatch, from, to)
}

// derefDepth counts the pointer dereferences bridging from to to,
// or 0 when dereferencing alone cannot get there.
func derefDepth(from, to reflect.Type) int {
	n := 0
	for t := from; t.Kind() == reflect.Ptr; t = t.Elem() {
		n++
		if t.Elem() == to {
			return n
		}
	}

	return 0
}

// plausibleUnwrap reports whether a value behind interface type from can
// possibly produce a value of type to. Interface targets are always
// plausible; concrete targets must implement from either directly or through
// their pointer type.
func plausibleUnwrap(from, to reflect.Type) bool {
	switch {
	case to.Kind() == reflect.Interface:
		return true
	case to.Implements(from):
		return true
	case to.Kind() != reflect.Ptr:
		return reflect.PointerTo(to).Implements(from)
	default:
		return false
	}
}

// unwrap pulls the dynamic value out of interface v and bridges it to type
// to. Anything unbridgeable panics, matching what the equivalent
// hand-written type assertion would do.
func unwrap(v reflect.Value, to reflect.Type) reflect.Value {
	dyn := v.Elem()
	switch {
	case !dyn.IsValid():
		panic(fmt.Sprintf("access: cannot unwrap nil %s to %s", v.Type(), to))
	case dyn.Type() == to:
		return dyn
	case dyn.Type().AssignableTo(to):
		return dyn.Convert(to)
	case dyn.Kind() == reflect.Ptr && dyn.Type().Elem() == to:
		return dyn.Elem()
	default:
		panic(fmt.Sprintf("access: %s holds %s, cannot adapt to %s", v.Type(), dyn.Type(), to))
	}
}

// walkField replays a field index chain, dereferencing embedded pointers the
// way reflect.Value.FieldByIndex does. Reports false instead of panicking
// when an embedded pointer is nil.
func walkField(v reflect.Value, idx []int) (reflect.Value, bool) {
	for n, i := range idx {
		if n > 0 {
			for v.Kind() == reflect.Ptr {
				if v.IsNil() {
					return reflect.Value{}, false
				}
				v = v.Elem()
			}
		}
		v = v.Field(i)
	}

	return v, true
}

// walkFieldAlloc is walkField for auto-vivifying writers: a nil embedded
// pointer is allocated in place instead of breaking the walk.
func walkFieldAlloc(v reflect.Value, idx []int) reflect.Value {
	for n, i := range idx {
		if n > 0 {
			for v.Kind() == reflect.Ptr {
				if v.IsNil() {
					v.Set(reflect.New(v.Type().Elem()))
				}
				v = v.Elem()
			}
		}
		v = v.Field(i)
	}

	return v
}
