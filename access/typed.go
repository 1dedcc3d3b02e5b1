package access

import (
	"fmt"
	"reflect"
)

// GetterFor compiles p under a reading policy and adapts the result into a
// statically typed closure. E must be assignable to the path's entry type
// and the path's value type to V. Under PolicyOption, V must be
// optional.Option itself.
func GetterFor[E, V any](c *Compiler, p Path, policy Policy) (func(E) V, error) {
	et, vt := reflect.TypeFor[E](), reflect.TypeFor[V]()
	if !et.AssignableTo(p.entry) {
		return nil, fmt.Errorf("typed getter for %s: entry %s: %w", p, et, ErrTypeMismatch)
	}

	if policy == PolicyOption {
		if vt != optionType {
			return nil, fmt.Errorf("typed getter for %s: %s policy produces %s, not %s: %w",
				p, policy, optionType, vt, ErrTypeMismatch)
		}

		g, err := c.OptionGetter(p)
		if err != nil {
			return nil, err
		}

		return func(e E) V {
			v, _ := any(g(e)).(V)
			return v
		}, nil
	}

	if !p.value.AssignableTo(vt) {
		return nil, fmt.Errorf("typed getter for %s: value %s: %w", p, vt, ErrTypeMismatch)
	}

	var (
		g   Getter
		err error
	)

	switch policy {
	case PolicyRaw:
		g, err = c.Getter(p)
	case PolicyZero:
		g, err = c.NilSafeGetter(p)
	default:
		return nil, fmt.Errorf("typed getter for %s: %s: %w", p, policy, ErrWrongPolicy)
	}

	if err != nil {
		return nil, err
	}

	return func(e E) V {
		v, _ := g(e).(V)
		return v
	}, nil
}

// SetterFor compiles p under a writing policy and adapts the result into a
// statically typed closure. E must be assignable to the path's entry type
// and V to the path's value type.
func SetterFor[E, V any](c *Compiler, p Path, policy Policy) (func(E, V), error) {
	et, vt := reflect.TypeFor[E](), reflect.TypeFor[V]()
	if !et.AssignableTo(p.entry) {
		return nil, fmt.Errorf("typed setter for %s: entry %s: %w", p, et, ErrTypeMismatch)
	}
	if !vt.AssignableTo(p.value) {
		return nil, fmt.Errorf("typed setter for %s: value %s: %w", p, vt, ErrTypeMismatch)
	}

	var (
		s   Setter
		err error
	)

	switch policy {
	case PolicyRaw:
		s, err = c.Setter(p)
	case PolicySkip:
		s, err = c.NilSafeSetter(p)
	case PolicyAlloc:
		s, err = c.AllocSetter(p)
	default:
		return nil, fmt.Errorf("typed setter for %s: %s: %w", p, policy, ErrWrongPolicy)
	}

	if err != nil {
		return nil, err
	}

	return func(e E, v V) {
		s(e, v)
	}, nil
}
