package access

import (
	"errors"
	"fmt"
	"reflect"
)

//go:generate go tool stringer -type=StepKind -output=step_kind_string.go

// StepKind discriminates the three access step variants.
type StepKind int

const (
	StepField  StepKind = iota // named struct field slot, read and written in place
	StepGetter                 // no-argument, single-result method standing in for a read
	StepSetter                 // single-argument method standing in for a write, results ignored
)

var (
	ErrNilType        = errors.New("declaring type is nil")
	ErrEmptyName      = errors.New("member name is empty")
	ErrNotStruct      = errors.New("declaring type is not a struct")
	ErrFieldNotFound  = errors.New("no such field")
	ErrMethodNotFound = errors.New("no such method")
	ErrUnexported     = errors.New("member is not exported")
	ErrNotAGetter     = errors.New("method is not a recognizable getter")
	ErrNotASetter     = errors.New("method is not a recognizable setter")
)

// Step is a single hop of an access path: a struct field slot or a
// getter/setter method. Steps are immutable; build them with FieldOf,
// GetterOf, or SetterOf so that member resolution and shape checks happen
// exactly once, at construction time.
type Step struct {
	kind      StepKind
	name      string
	declaring reflect.Type
	value     reflect.Type
	index     []int          // field index chain, StepField only
	method    reflect.Method // resolved method, StepGetter and StepSetter only
}

// FieldOf resolves the named exported field on declaring (pointers are
// dereferenced to their struct base) and returns the field step.
// Promoted fields of embedded structs resolve with their full index chain.
func FieldOf(declaring reflect.Type, name string) (Step, error) {
	if declaring == nil {
		return Step{}, fmt.Errorf("field %q: %w", name, ErrNilType)
	}
	if name == "" {
		return Step{}, fmt.Errorf("field step on %s: %w", declaring, ErrEmptyName)
	}

	base := declaring
	for base.Kind() == reflect.Ptr {
		base = base.Elem()
	}
	if base.Kind() != reflect.Struct {
		return Step{}, fmt.Errorf("field %q on %s: %w", name, declaring, ErrNotStruct)
	}

	f, ok := base.FieldByName(name)
	if !ok {
		return Step{}, fmt.Errorf("field %q on %s: %w", name, base, ErrFieldNotFound)
	}
	if f.PkgPath != "" {
		return Step{}, fmt.Errorf("field %q on %s: %w", name, base, ErrUnexported)
	}

	return Step{
		kind:      StepField,
		name:      name,
		declaring: base,
		value:     f.Type,
		index:     f.Index,
	}, nil
}

// GetterOf resolves the named method on declaring (falling back to the
// pointer type for pointer-receiver methods) and checks it reads like a
// getter: no arguments, exactly one result.
func GetterOf(declaring reflect.Type, name string) (Step, error) {
	m, owner, err := resolveMethod(declaring, name)
	if err != nil {
		return Step{}, err
	}

	ins, outs := methodArity(owner, m)
	if ins != 0 || outs != 1 {
		return Step{}, fmt.Errorf("%w: %s.%s takes %d args and returns %d values, want 0 and 1",
			ErrNotAGetter, owner, name, ins, outs)
	}

	return Step{
		kind:      StepGetter,
		name:      name,
		declaring: owner,
		value:     m.Type.Out(0),
		method:    m,
	}, nil
}

// SetterOf resolves the named method on declaring and checks it writes like
// a setter: exactly one argument. Results, if any, are ignored at call time.
func SetterOf(declaring reflect.Type, name string) (Step, error) {
	m, owner, err := resolveMethod(declaring, name)
	if err != nil {
		return Step{}, err
	}

	ins, _ := methodArity(owner, m)
	if ins != 1 {
		return Step{}, fmt.Errorf("%w: %s.%s takes %d args, want 1",
			ErrNotASetter, owner, name, ins)
	}

	return Step{
		kind:      StepSetter,
		name:      name,
		declaring: owner,
		value:     methodArg(owner, m),
		method:    m,
	}, nil
}

// Kind returns the step variant.
func (s Step) Kind() StepKind { return s.kind }

// Name returns the member name the step was built from.
func (s Step) Name() string { return s.name }

// Declaring returns the type the member was resolved on: the struct base for
// fields, the receiver (possibly pointer) or interface type for methods.
func (s Step) Declaring() reflect.Type { return s.declaring }

// ValueType returns the type the step produces (fields, getters) or accepts
// (setters).
func (s Step) ValueType() reflect.Type { return s.value }

// String renders the step the way it appears in a dotted path: "Name" for
// fields, "Name()" for methods.
func (s Step) String() string {
	if s.kind == StepField {
		return s.name
	}

	return s.name + "()"
}

// resolveMethod finds the named exported method on t. For non-pointer,
// non-interface types the pointer method set is consulted as well, since
// that is where pointer-receiver methods live. The returned owner is the
// type the method was actually found on.
func resolveMethod(t reflect.Type, name string) (reflect.Method, reflect.Type, error) {
	if t == nil {
		return reflect.Method{}, nil, fmt.Errorf("method %q: %w", name, ErrNilType)
	}
	if name == "" {
		return reflect.Method{}, nil, fmt.Errorf("method step on %s: %w", t, ErrEmptyName)
	}

	if m, ok := t.MethodByName(name); ok {
		return m, t, nil
	}

	if t.Kind() != reflect.Ptr && t.Kind() != reflect.Interface {
		pt := reflect.PointerTo(t)
		if m, ok := pt.MethodByName(name); ok {
			return m, pt, nil
		}
	}

	return reflect.Method{}, nil, fmt.Errorf("method %q on %s: %w", name, t, ErrMethodNotFound)
}

// methodArity returns the argument and result counts of m, not counting the
// receiver that concrete method types carry as their first input.
func methodArity(owner reflect.Type, m reflect.Method) (ins, outs int) {
	ins = m.Type.NumIn()
	if owner.Kind() != reflect.Interface {
		ins--
	}

	return ins, m.Type.NumOut()
}

// methodArg returns the type of the single non-receiver argument of m.
func methodArg(owner reflect.Type, m reflect.Method) reflect.Type {
	if owner.Kind() == reflect.Interface {
		return m.Type.In(0)
	}

	return m.Type.In(1)
}
