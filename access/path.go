package access

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	ErrSetterNotLast = errors.New("setter method step must be the final step")
	ErrTypeMismatch  = errors.New("entry and value types are not compatible")
)

// Path is an immutable chain of access steps anchored at an entry type.
// Construction validates that every adjacent pair of steps composes, so a
// Path that exists is structurally sound; whether it compiles under a given
// policy is decided by the Compiler.
type Path struct {
	entry reflect.Type
	value reflect.Type
	steps []Step
}

// NewPath builds a path from entry through the given steps. Each step must
// compose with the type produced by the previous one, up to the implicit
// adjustments (dereference, address-of, interface widening and unwrapping).
// A setter method step may only appear in the final position.
func NewPath(entry reflect.Type, steps ...Step) (Path, error) {
	if entry == nil {
		return Path{}, fmt.Errorf("path entry: %w", ErrNilType)
	}

	running := entry
	for i, s := range steps {
		if s.name == "" {
			return Path{}, fmt.Errorf("step %d: %w", i, ErrEmptyName)
		}
		if s.kind == StepSetter && i != len(steps)-1 {
			return Path{}, fmt.Errorf("step %d (%s): %w", i, s, ErrSetterNotLast)
		}
		if _, err := conform(running, s.declaring); err != nil {
			return Path{}, fmt.Errorf("step %d (%s): %w", i, s, err)
		}

		running = s.value
	}

	p := Path{entry: entry, value: running, steps: append([]Step(nil), steps...)}
	if len(steps) == 0 {
		p.value = entry
	}

	return p, nil
}

// Identity returns the empty path anchored at t: its getters hand the entry
// instance back and its setters have no slot to write.
func Identity(t reflect.Type) Path {
	return Path{entry: t, value: t}
}

// IdentityAs returns an empty path whose getters adjust the entry instance
// to the value type, covering widening into an interface and unwrapping out
// of one.
func IdentityAs(entry, value reflect.Type) (Path, error) {
	if entry == nil || value == nil {
		return Path{}, fmt.Errorf("identity path: %w", ErrNilType)
	}
	if _, err := conform(entry, value); err != nil {
		return Path{}, fmt.Errorf("identity path %s -> %s: %w", entry, value, ErrTypeMismatch)
	}

	return Path{entry: entry, value: value}, nil
}

// EntryType returns the type the path is anchored at.
func (p Path) EntryType() reflect.Type { return p.entry }

// ValueType returns the type the path produces (getters) or accepts
// (setters): the value type of the final step, or the entry type for the
// empty path.
func (p Path) ValueType() reflect.Type { return p.value }

// Len returns the number of steps.
func (p Path) Len() int { return len(p.steps) }

// At returns the i-th step.
func (p Path) At(i int) Step { return p.steps[i] }

// Steps returns a copy of the step chain.
func (p Path) Steps() []Step {
	return append([]Step(nil), p.steps...)
}

// Key returns the dotted member spelling of the path, e.g.
// "GetCustomer().Address.City". It identifies the path within its entry
// type; combine it with EntryType for a globally unique key.
func (p Path) Key() string {
	parts := make([]string, len(p.steps))
	for i, s := range p.steps {
		parts[i] = s.String()
	}

	return strings.Join(parts, ".")
}

// String renders the anchored path for diagnostics.
func (p Path) String() string {
	if len(p.steps) == 0 {
		return p.typeName() + " (identity)"
	}

	return p.typeName() + "." + p.Key()
}

func (p Path) typeName() string {
	if p.entry == nil {
		return "<nil>"
	}

	return p.entry.String()
}

// Equal reports whether both paths spell the same chain over the same types.
func (p Path) Equal(other Path) bool {
	if p.entry != other.entry || p.value != other.value || len(p.steps) != len(other.steps) {
		return false
	}

	for i := range p.steps {
		a, b := p.steps[i], other.steps[i]
		if a.kind != b.kind || a.name != b.name || a.declaring != b.declaring {
			return false
		}
	}

	return true
}
