package access

import (
	"fmt"
	"reflect"

	"pathcaster/optional"
)

// OptionGetter reads a path's leaf, reporting a broken chain as None.
type OptionGetter func(instance any) optional.Option

var optionType = reflect.TypeFor[optional.Option]()

// Getter compiles p into its raw reading closure: the chain is replayed
// verbatim, and a nil link panics exactly like the hand-written expression
// would.
func (c *Compiler) Getter(p Path) (Getter, error) {
	if err := c.checkPath(p); err != nil {
		return nil, err
	}
	if len(p.steps) == 0 {
		return c.identityGetter(p)
	}

	chain, err := compileChain(p.entry, p.steps)
	if err != nil {
		return nil, fmt.Errorf("compile getter for %s: %w", p, err)
	}

	entry := p.entry

	return func(instance any) any {
		v := entryValue(instance, entry)
		for i := range chain {
			v = chain[i].fn(v)
		}

		return v.Interface()
	}, nil
}

// NilSafeGetter compiles p into a reading closure that returns the zero
// value of the path's value type as soon as a nil link is hit, the entry
// instance included. Links of value kinds carry no guard.
func (c *Compiler) NilSafeGetter(p Path) (Getter, error) {
	if err := c.checkPath(p); err != nil {
		return nil, err
	}
	if len(p.steps) == 0 {
		return c.identityGetter(p)
	}

	chain, err := compileChain(p.entry, p.steps)
	if err != nil {
		return nil, fmt.Errorf("compile nil-safe getter for %s: %w", p, err)
	}

	entry := p.entry
	last := len(chain) - 1
	guardEntry := nilable(entry)
	zero := reflect.Zero(p.value).Interface()

	return func(instance any) any {
		v := entryValue(instance, entry)
		if guardEntry && v.IsNil() {
			return zero
		}

		for i := 0; i < last; i++ {
			w, ok := chain[i].read(v)
			if !ok || (chain[i].guard && w.IsNil()) {
				return zero
			}

			v = w
		}

		w, ok := chain[last].read(v)
		if !ok {
			return zero
		}

		return w.Interface()
	}, nil
}

// OptionGetter compiles p into a reading closure that returns None exactly
// when the chain traverses a nil link, and Some(v) otherwise, a zero leaf
// value included. A leaf that is already an optional.Option passes through
// unwrapped rather than being wrapped twice.
func (c *Compiler) OptionGetter(p Path) (OptionGetter, error) {
	if err := c.checkPath(p); err != nil {
		return nil, err
	}
	if len(p.steps) == 0 {
		g, err := c.identityGetter(p)
		if err != nil {
			return nil, err
		}

		return wrapOption(g, p.value == optionType), nil
	}

	chain, err := compileChain(p.entry, p.steps)
	if err != nil {
		return nil, fmt.Errorf("compile option getter for %s: %w", p, err)
	}

	entry := p.entry
	last := len(chain) - 1
	guardEntry := nilable(entry)
	passThrough := p.value == optionType

	return func(instance any) optional.Option {
		v := entryValue(instance, entry)
		if guardEntry && v.IsNil() {
			return optional.None()
		}

		for i := 0; i < last; i++ {
			w, ok := chain[i].read(v)
			if !ok || (chain[i].guard && w.IsNil()) {
				return optional.None()
			}

			v = w
		}

		w, ok := chain[last].read(v)
		if !ok {
			return optional.None()
		}
		if passThrough {
			return w.Interface().(optional.Option)
		}

		return optional.Some(w.Interface())
	}, nil
}

// identityGetter compiles the empty path: the entry instance is adjusted to
// the value type and handed back.
func (c *Compiler) identityGetter(p Path) (Getter, error) {
	entry, value := p.entry, p.value
	if entry == value {
		return func(instance any) any {
			return entryValue(instance, entry).Interface()
		}, nil
	}

	adjust, err := conform(entry, value)
	if err != nil {
		return nil, fmt.Errorf("compile identity getter for %s: %w", p, err)
	}

	return func(instance any) any {
		v := entryValue(instance, entry)
		if adjust != nil {
			v = adjust(v)
		}

		return v.Interface()
	}, nil
}

// wrapOption lifts an identity getter into the Option shape. The empty path
// traverses no links, so the result is always present.
func wrapOption(g Getter, passThrough bool) OptionGetter {
	if passThrough {
		return func(instance any) optional.Option {
			return g(instance).(optional.Option)
		}
	}

	return func(instance any) optional.Option {
		return optional.Some(g(instance))
	}
}
