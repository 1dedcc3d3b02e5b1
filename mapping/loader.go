package mapping

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// LoadFile loads and parses a YAML mapping file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	err := yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	// Apply defaults and normalize
	applyDefaults(&f)

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to the given path.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write mapping file %s: %w", path, err)
	}

	return nil
}

// NormalizeTypeMapping expands 121 shorthand into Fields entries
// so resolution deals with a single binding form.
func NormalizeTypeMapping(tm *TypeMapping) {
	// 121 entries are prepended to Fields so they keep the higher effective
	// priority when resolving (first binding for a target wins).
	if len(tm.OneToOne) > 0 {
		expanded := make([]FieldBinding, 0, len(tm.OneToOne))

		// Map iteration is random; sort for deterministic plans.
		for _, source := range slices.Sorted(maps.Keys(tm.OneToOne)) {
			expanded = append(expanded, FieldBinding{
				Source: FieldRef{Path: source, Hint: HintNone},
				Target: StringArray{tm.OneToOne[source]},
			})
		}

		tm.Fields = append(expanded, tm.Fields...)
		tm.OneToOne = nil
	}
}

// NormalizeFile normalizes all type mappings in a file.
func NormalizeFile(f *File) {
	for i := range f.Mappings {
		NormalizeTypeMapping(&f.Mappings[i])
	}
}
