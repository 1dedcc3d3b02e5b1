package access

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var ErrNoSetter = errors.New("no conventional setter for getter")

// Convention pairs a getter name prefix with the setter prefix replacing it
// when the writing counterpart of a getter method is derived.
type Convention struct {
	GetPrefix string
	SetPrefix string
}

// Conventions is an ordered rewrite table. Rules are tried top to bottom,
// and the first rule that both matches the getter's name and derives a name
// resolving to a suitable setter method wins.
type Conventions []Convention

// DefaultConventions is the table Compilers use when given none.
var DefaultConventions = Conventions{
	{GetPrefix: "Get", SetPrefix: "Set"},
	{GetPrefix: "get", SetPrefix: "set"},
	{GetPrefix: "Get_", SetPrefix: "Set_"},
	{GetPrefix: "get_", SetPrefix: "set_"},
}

// SetterName derives the setter name for getter using the first rule whose
// prefix matches. The boolean is false when no rule applies. Note this is
// the purely textual half of resolution; whether the derived method exists
// is a separate question.
func (cs Conventions) SetterName(getter string) (string, bool) {
	for _, rule := range cs {
		if rule.GetPrefix == "" || !strings.HasPrefix(getter, rule.GetPrefix) {
			continue
		}

		return rule.SetPrefix + strings.TrimPrefix(getter, rule.GetPrefix), true
	}

	return "", false
}

type setterKey struct {
	owner  reflect.Type
	getter string
}

type setterEntry struct {
	step Step
	err  error
}

// resolveSetter finds the conventional writing counterpart of a getter on
// owner: each table rule in order derives a candidate name, and the first
// name resolving to a setter-shaped method accepting the getter's value type
// wins. Results, misses included, are memoized per compiler; entries are
// immutable type facts, so concurrent writers agree.
func (c *Compiler) resolveSetter(owner reflect.Type, getter string, value reflect.Type) (Step, error) {
	key := setterKey{owner: owner, getter: getter}
	if cached, ok := c.setters.Load(key); ok {
		ent := cached.(setterEntry)
		return ent.step, ent.err
	}

	step, err := deriveSetter(c.conv, owner, getter, value)
	c.setters.Store(key, setterEntry{step: step, err: err})

	return step, err
}

func deriveSetter(table Conventions, owner reflect.Type, getter string, value reflect.Type) (Step, error) {
	for _, rule := range table {
		if rule.GetPrefix == "" || !strings.HasPrefix(getter, rule.GetPrefix) {
			continue
		}

		name := rule.SetPrefix + strings.TrimPrefix(getter, rule.GetPrefix)

		s, err := SetterOf(owner, name)
		if err != nil {
			continue
		}
		if !value.AssignableTo(s.value) {
			continue
		}

		return s, nil
	}

	return Step{}, fmt.Errorf("getter %s.%s: %w", owner, getter, ErrNoSetter)
}
