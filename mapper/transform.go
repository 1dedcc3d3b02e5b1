package mapper

import (
	"errors"
	"fmt"
	"path"
	"reflect"
	"runtime"
	"strings"

	"pathcaster/utils"
)

var (
	ErrNotATransform         = errors.New("provided function is not a recognizable transform")
	ErrTransformNotAFunction = errors.New("provided transform is not a function")
	ErrDoublePointer         = errors.New("transform function does not support double pointers")
	ErrDuplicateTransform    = errors.New("transform name is already registered")
	ErrUnknownTransform      = errors.New("transform is not registered")
)

// Transform is a registered value conversion function, introspected once at
// registration and invoked through reflection per mapped value.
type Transform struct {
	Src, Dst     reflect.Type
	PackageAlias string
	Name         string
	HasBool      bool
	HasErr       bool

	fn reflect.Value
}

// ParseTransform inspects the provided function and returns a Transform if
// it has a recognized shape.
//
// Supported shapes:
//   - func(src Type) (dst Type)
//   - func(src Type) (dst Type, bool)
//   - func(src Type) (dst Type, error)
//   - func(src Type) (dst Type, bool, error)
//
// The bool result reports whether a value was produced; false skips the
// write. The Name is taken from the function symbol, so anonymous functions
// should be registered through WithNamedTransform instead.
func ParseTransform(fn any) (Transform, error) {
	fnVal := reflect.ValueOf(fn)
	if !fnVal.IsValid() || fnVal.Kind() != reflect.Func {
		return Transform{}, ErrTransformNotAFunction
	}

	fnType := fnVal.Type()
	if fnType.NumIn() != 1 || fnType.NumOut() == 0 {
		return Transform{}, ErrNotATransform
	}

	src := fnType.In(0)
	if src.Kind() == reflect.Ptr && src.Elem().Kind() == reflect.Ptr {
		return Transform{}, ErrDoublePointer
	}

	dst := fnType.Out(0)
	if dst.Kind() == reflect.Ptr && dst.Elem().Kind() == reflect.Ptr {
		return Transform{}, ErrDoublePointer
	}

	fnPC := runtime.FuncForPC(fnVal.Pointer())
	alias, name := utils.Unpack2(strings.SplitN(fnPC.Name(), ".", 2))

	t := Transform{
		Src:          src,
		Dst:          dst,
		Name:         name,
		PackageAlias: utils.Second(path.Split(alias)),
		fn:           fnVal,
	}

	switch fnType.NumOut() {
	default:
		return Transform{}, ErrNotATransform

	case 1:
		return t, nil

	case 2:
		last := fnType.Out(1)

		switch {
		default:
			return Transform{}, ErrNotATransform
		case last.Kind() == reflect.Bool:
			t.HasBool = true
		case isErrorType(last):
			t.HasErr = true
		}

		return t, nil

	case 3:
		tbool, terr := fnType.Out(1), fnType.Out(2)
		if tbool.Kind() != reflect.Bool || !isErrorType(terr) {
			return Transform{}, ErrNotATransform
		}

		t.HasBool = true
		t.HasErr = true

		return t, nil
	}
}

// Apply invokes the transform on v. The bool result is false when the
// function reported no value. v must be assignable to Src.
func (t Transform) Apply(v reflect.Value) (reflect.Value, bool, error) {
	out := t.fn.Call([]reflect.Value{v})

	ok := true
	idx := 1

	if t.HasBool {
		ok = out[idx].Bool()
		idx++
	}

	if t.HasErr && !out[idx].IsNil() {
		return reflect.Value{}, false, out[idx].Interface().(error)
	}

	return out[0], ok, nil
}

// transformRegistry holds transforms by the name bindings reference.
type transformRegistry struct {
	byName map[string]Transform
}

func newTransformRegistry() *transformRegistry {
	return &transformRegistry{byName: map[string]Transform{}}
}

func (r *transformRegistry) Add(fn any) error {
	t, err := ParseTransform(fn)
	if err != nil {
		return err
	}

	return r.put(t)
}

func (r *transformRegistry) AddNamed(name string, fn any) error {
	t, err := ParseTransform(fn)
	if err != nil {
		return err
	}

	t.Name = name

	return r.put(t)
}

func (r *transformRegistry) put(t Transform) error {
	if _, ok := r.byName[t.Name]; ok {
		return fmt.Errorf("%q: %w", t.Name, ErrDuplicateTransform)
	}

	r.byName[t.Name] = t

	return nil
}

func (r *transformRegistry) Lookup(name string) (Transform, bool) {
	t, ok := r.byName[name]
	return t, ok
}

func isErrorType(t reflect.Type) bool {
	if t == nil {
		return false
	}

	return t.Implements(reflect.TypeFor[error]())
}
