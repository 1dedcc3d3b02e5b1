package access

import (
	"fmt"
	"reflect"
	"sync"
)

// Getter reads a path's leaf off an entry instance.
type Getter func(instance any) any

// Setter writes a path's leaf on an entry instance.
type Setter func(instance, value any)

// Compiler turns Paths into accessor closures.
//
// Compilation resolves every hop once: member lookup, shape checks, and the
// pointer/interface adjustments between hops all happen here, so the
// returned closures replay the chain with no per-call reflection lookups.
// A Compiler is safe for concurrent use; so is every closure it returns.
type Compiler struct {
	conv    Conventions
	setters sync.Map // setterKey -> setterEntry
}

// NewCompiler creates a Compiler. A nil table means DefaultConventions.
func NewCompiler(table Conventions) *Compiler {
	if table == nil {
		table = DefaultConventions
	}

	return &Compiler{conv: table}
}

// Conventions returns the getter-to-setter rewrite table the compiler
// resolves conventional setters with.
func (c *Compiler) Conventions() Conventions {
	return c.conv
}

func (c *Compiler) checkPath(p Path) error {
	if p.entry == nil {
		return fmt.Errorf("path entry: %w", ErrNilType)
	}

	return nil
}

// entryValue normalizes a caller-supplied instance to the path's entry type.
// nil becomes the entry type's zero value; assignable instances widen into
// interface entries. Anything else is a misuse of the accessor and panics.
func entryValue(instance any, entry reflect.Type) reflect.Value {
	v := reflect.ValueOf(instance)
	switch {
	case !v.IsValid():
		return reflect.Zero(entry)
	case v.Type() == entry:
		return v
	case v.Type().AssignableTo(entry):
		return v.Convert(entry)
	default:
		panic(fmt.Sprintf("access: instance of %s is not a %s", v.Type(), entry))
	}
}

// prepValue normalizes a caller-supplied leaf value to the type the final
// hop accepts. nil means the zero value, and only for nilable kinds; the
// accessor layer performs no other conversions.
func prepValue(value any, want reflect.Type) reflect.Value {
	if value == nil {
		if !nilable(want) {
			panic(fmt.Sprintf("access: cannot assign nil to %s", want))
		}

		return reflect.Zero(want)
	}

	rv := reflect.ValueOf(value)
	if rv.Type() == want || rv.Type().AssignableTo(want) {
		return rv
	}

	panic(fmt.Sprintf("access: cannot assign %s to %s", rv.Type(), want))
}
