package mapper

import (
	"errors"
	"fmt"
	"reflect"

	"pathcaster/internal/common"
)

var (
	ErrUnnamedType   = errors.New("type has no name to register under")
	ErrUnknownType   = errors.New("type is not registered")
	ErrAmbiguousType = errors.New("short type name is claimed by more than one package")
)

// typeRegistry maps the type names used in rule files to reflect types.
// Every type registers under its full "pkg/path.Name" spelling and under the
// short "alias.Name" spelling; short names claimed by more than one package
// stay resolvable only through the full spelling.
type typeRegistry struct {
	full      map[string]reflect.Type
	short     map[string]reflect.Type
	ambiguous map[string]struct{}
}

func newTypeRegistry() *typeRegistry {
	return &typeRegistry{
		full:      map[string]reflect.Type{},
		short:     map[string]reflect.Type{},
		ambiguous: map[string]struct{}{},
	}
}

// Register adds the type of v. Pointer values register their element type.
func (r *typeRegistry) Register(v any) error {
	t := reflect.TypeOf(v)
	if t == nil {
		return fmt.Errorf("register nil value: %w", ErrUnnamedType)
	}

	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return r.RegisterType(t)
}

// RegisterType adds a named type. Re-registering the same type is a no-op.
func (r *typeRegistry) RegisterType(t reflect.Type) error {
	if t.Name() == "" || t.PkgPath() == "" {
		return fmt.Errorf("%s: %w", t, ErrUnnamedType)
	}

	fullName := t.PkgPath() + "." + t.Name()
	if prev, ok := r.full[fullName]; ok && prev == t {
		return nil
	}

	r.full[fullName] = t

	shortName := common.PkgAlias(t.PkgPath()) + "." + t.Name()
	if prev, ok := r.short[shortName]; ok && prev != t {
		r.ambiguous[shortName] = struct{}{}
		delete(r.short, shortName)

		return nil
	}

	if _, ok := r.ambiguous[shortName]; !ok {
		r.short[shortName] = t
	}

	return nil
}

// Resolve looks a rule-file type name up, full spelling first.
func (r *typeRegistry) Resolve(name string) (reflect.Type, error) {
	if t, ok := r.full[name]; ok {
		return t, nil
	}

	if t, ok := r.short[name]; ok {
		return t, nil
	}

	if _, ok := r.ambiguous[name]; ok {
		return nil, fmt.Errorf("%q: %w (use the full package path)", name, ErrAmbiguousType)
	}

	return nil, fmt.Errorf("%q: %w", name, ErrUnknownType)
}
