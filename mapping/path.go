package mapping

import (
	"errors"
	"fmt"
	"strings"
)

// Segment represents a parsed segment of an accessor path.
type Segment struct {
	// Name is the field or method name.
	Name string

	// Call indicates this segment is spelled as a method call (e.g., "GetAddress()").
	Call bool
}

// String returns the segment as spelled in a path.
func (s Segment) String() string {
	if s.Call {
		return s.Name + "()"
	}

	return s.Name
}

// SplitPath parses an accessor path string into segments.
// Supports: "Field", "Nested.Field", "GetAddress()", "GetAddress().City".
func SplitPath(path string) ([]Segment, error) {
	if path == "" {
		return nil, errors.New("empty path")
	}

	var segments []Segment

	parts := strings.SplitSeq(path, ".")

	for part := range parts {
		if part == "" {
			return nil, fmt.Errorf("invalid path %q: empty segment", path)
		}

		call := false
		name := part

		// Check for call notation
		if trimmed, ok := strings.CutSuffix(part, "()"); ok {
			call = true
			name = trimmed

			if name == "" {
				return nil, fmt.Errorf("invalid path %q: call without method name", path)
			}
		}

		if !isValidIdent(name) {
			return nil, fmt.Errorf("invalid path %q: invalid identifier %q", path, name)
		}

		segments = append(segments, Segment{Name: name, Call: call})
	}

	return segments, nil
}

// CheckPath validates an accessor path's syntax without resolving it against a type.
func CheckPath(path string) error {
	_, err := SplitPath(path)
	return err
}

// CheckPaths validates the syntax of every path in the array.
func CheckPaths(paths StringArray) error {
	for _, p := range paths {
		if err := CheckPath(p); err != nil {
			return err
		}
	}

	return nil
}

// isValidIdent checks if a string is a valid Go identifier.
func isValidIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			// First character must be letter or underscore
			if !isLetter(r) && r != '_' {
				return false
			}
		} else {
			// Subsequent characters can be letter, digit, or underscore
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
