package access

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ParsePath parses a dotted member spelling into a Path anchored at entry.
// Supports: "Field", "Nested.Field", "GetCustomer().Address.City".
//
// A trailing "()" marks a method hop. Method segments resolve to getter
// steps; a final method segment that is not getter-shaped resolves to a
// setter step, so "GetCustomer().SetName()" spells a writing path.
func ParsePath(entry reflect.Type, path string) (Path, error) {
	if entry == nil {
		return Path{}, fmt.Errorf("parse path %q: %w", path, ErrNilType)
	}
	if path == "" {
		return Path{}, fmt.Errorf("parse path: %w", ErrEmptyName)
	}

	parts := strings.Split(path, ".")
	steps := make([]Step, 0, len(parts))

	running := entry
	for i, part := range parts {
		if part == "" {
			return Path{}, fmt.Errorf("parse path %q: empty segment", path)
		}

		last := i == len(parts)-1

		s, err := parseSegment(running, part, last)
		if err != nil {
			return Path{}, fmt.Errorf("parse path %q: %w", path, err)
		}

		steps = append(steps, s)
		running = s.value
	}

	return NewPath(entry, steps...)
}

// parseSegment resolves one dotted segment against the running type.
func parseSegment(running reflect.Type, part string, last bool) (Step, error) {
	name, isMethod := strings.CutSuffix(part, "()")
	if name == "" {
		return Step{}, fmt.Errorf("segment %q: %w", part, ErrEmptyName)
	}
	if !isValidIdent(name) {
		return Step{}, fmt.Errorf("segment %q: invalid identifier", part)
	}

	if !isMethod {
		return FieldOf(running, name)
	}

	s, err := GetterOf(running, name)
	if err != nil && last && errors.Is(err, ErrNotAGetter) {
		// A final method hop may be the writing half of the path.
		return SetterOf(running, name)
	}

	return s, err
}

// isValidIdent checks if a string is a valid Go identifier.
func isValidIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !isLetter(r) && r != '_' {
				return false
			}
		} else {
			if !isLetter(r) && !isDigit(r) && r != '_' {
				return false
			}
		}
	}

	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
