// Package optional provides a minimal sum type that distinguishes "a value
// was produced" from "no value was produced".
//
// The zero Option is None. Presence tracks whether the producing operation
// completed, not whether the value is interesting: Some("") and Some(0) are
// present, and only a broken production yields None.
package optional

import "fmt"

// Option carries either a present value or nothing.
type Option struct {
	value   any
	present bool
}

// Some wraps v into a present Option.
func Some(v any) Option {
	return Option{value: v, present: true}
}

// None returns the absent Option.
func None() Option {
	return Option{}
}

// Present reports whether the Option carries a value.
func (o Option) Present() bool { return o.present }

// Absent reports whether the Option carries nothing.
func (o Option) Absent() bool { return !o.present }

// Get returns the carried value and whether it is present.
// An absent Option returns (nil, false).
func (o Option) Get() (any, bool) {
	return o.value, o.present
}

// MustGet returns the carried value and panics when the Option is absent.
func (o Option) MustGet() any {
	if !o.present {
		panic("optional: MustGet on None")
	}

	return o.value
}

// OrElse returns the carried value, or fallback when the Option is absent.
func (o Option) OrElse(fallback any) any {
	if o.present {
		return o.value
	}

	return fallback
}

// String renders "Some(v)" or "None".
func (o Option) String() string {
	if !o.present {
		return "None"
	}

	return fmt.Sprintf("Some(%v)", o.value)
}
