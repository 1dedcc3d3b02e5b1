package mapper

import (
	"reflect"
	"strings"

	"pathcaster/access"
	"pathcaster/internal/match"
)

// sourceAccessors enumerates the candidate reading accessors on base:
// exported fields plus convention-named getter methods. Getters shadowed by
// a field of the same base name are dropped, so "Email" never competes with
// "GetEmail()" for the same storage.
func sourceAccessors(base reflect.Type, conv access.Conventions) []match.Source {
	var out []match.Source

	fields := map[string]struct{}{}

	if base.Kind() == reflect.Struct {
		for i := 0; i < base.NumField(); i++ {
			f := base.Field(i)
			if f.PkgPath != "" {
				continue
			}

			fields[f.Name] = struct{}{}

			out = append(out, match.Source{Name: f.Name, Path: f.Name, Type: f.Type})
		}
	}

	pt := reflect.PointerTo(base)
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		if m.Type.NumIn() != 1 || m.Type.NumOut() != 1 {
			continue
		}

		name, ok := memberName(m.Name, conv, false)
		if !ok {
			continue
		}

		if _, dup := fields[name]; dup {
			continue
		}

		out = append(out, match.Source{Name: name, Path: m.Name + "()", Type: m.Type.Out(0)})
	}

	return out
}

// targetSlot is one writable destination on the target type: a field or a
// convention-named setter method.
type targetSlot struct {
	// Name is the bare member name used for matching ("Number").
	Name string
	// Path is the writable spelling ("Number" or "SetNumber()").
	Path string
	// Type is the value type the slot accepts.
	Type reflect.Type
}

// targetSlots enumerates the writable destinations on base: exported fields
// plus convention-named single-argument setter methods.
func targetSlots(base reflect.Type, conv access.Conventions) []targetSlot {
	var out []targetSlot

	fields := map[string]struct{}{}

	if base.Kind() == reflect.Struct {
		for i := 0; i < base.NumField(); i++ {
			f := base.Field(i)
			if f.PkgPath != "" {
				continue
			}

			fields[f.Name] = struct{}{}

			out = append(out, targetSlot{Name: f.Name, Path: f.Name, Type: f.Type})
		}
	}

	pt := reflect.PointerTo(base)
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		if m.Type.NumIn() != 2 {
			continue
		}

		name, ok := memberName(m.Name, conv, true)
		if !ok {
			continue
		}

		if _, dup := fields[name]; dup {
			continue
		}

		out = append(out, targetSlot{Name: name, Path: m.Name + "()", Type: m.Type.In(1)})
	}

	return out
}

// memberName strips the first matching convention prefix off a method name.
// The boolean is false when no rule matches or nothing remains after the
// prefix.
func memberName(method string, table access.Conventions, setter bool) (string, bool) {
	for _, rule := range table {
		prefix := rule.GetPrefix
		if setter {
			prefix = rule.SetPrefix
		}

		if prefix == "" || !strings.HasPrefix(method, prefix) {
			continue
		}

		if rest := strings.TrimPrefix(method, prefix); rest != "" {
			return rest, true
		}
	}

	return "", false
}
