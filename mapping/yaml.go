package mapping

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// --- FieldRef YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for FieldRef.
// Accepts either a plain path string or a single-entry map like {Address: dive}.
func (f *FieldRef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		// Plain path string
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		*f = FieldRef{Path: str, Hint: HintNone}

		return nil

	case yaml.MappingNode:
		// Single map: {Address: dive}
		ref, err := parseFieldRefFromMap(node)
		if err != nil {
			return err
		}

		*f = ref

		return nil

	default:
		return fmt.Errorf("expected string or map, got %v", node.Kind)
	}
}

// parseFieldRefFromMap parses a YAML mapping node like {Address: dive} into a FieldRef.
func parseFieldRefFromMap(node *yaml.Node) (FieldRef, error) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return FieldRef{}, errors.New("expected single key-value map like {Address: dive}")
	}

	var (
		path string
		hint string
	)

	err := node.Content[0].Decode(&path)
	if err != nil {
		return FieldRef{}, fmt.Errorf("invalid source path: %w", err)
	}

	err = node.Content[1].Decode(&hint)
	if err != nil {
		return FieldRef{}, fmt.Errorf("invalid hint value: %w", err)
	}

	h := IntrospectionHint(hint)
	if !h.IsValid() {
		return FieldRef{}, fmt.Errorf("invalid hint %q (expected 'dive' or 'final')", hint)
	}

	return FieldRef{Path: path, Hint: h}, nil
}

// MarshalYAML implements custom YAML marshaling for FieldRef.
// Outputs a plain string when no hint is set, a single-entry map otherwise.
func (f FieldRef) MarshalYAML() (any, error) {
	if f.Path == "" {
		return nil, nil
	}

	if f.Hint == HintNone {
		return f.Path, nil
	}

	return map[string]string{f.Path: string(f.Hint)}, nil
}

// IsZero reports whether the reference is empty, so omitempty drops it.
func (f FieldRef) IsZero() bool {
	return f.Path == "" && f.Hint == HintNone
}

// --- StringArray YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for StringArray.
// Accepts either a single string or an array of strings.
func (s *StringArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		// Single string value
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringArray{str}
		} else {
			*s = StringArray{}
		}

		return nil

	case yaml.SequenceNode:
		// Array of strings
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// MarshalYAML implements custom YAML marshaling for StringArray.
// Outputs a single string if length is 1, otherwise an array.
func (s StringArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}
