package match

import (
	"reflect"
)

// TypeCompatibility represents the level of compatibility between two types.
type TypeCompatibility int

const (
	// TypeIncompatible means the types cannot be converted.
	TypeIncompatible TypeCompatibility = iota
	// TypeNeedsTransform means conversion requires a custom transform function.
	TypeNeedsTransform
	// TypeConvertible means types are convertible using Go's type conversion.
	TypeConvertible
	// TypeAssignable means the source type can be directly assigned to the target.
	TypeAssignable
	// TypeIdentical means the types are exactly the same.
	TypeIdentical
)

const (
	VerdictIdentical      = "identical"
	VerdictAssignable     = "assignable"
	VerdictConvertible    = "convertible"
	VerdictNeedsTransform = "needs_transform"
	VerdictIncompatible   = "incompatible"
)

// String returns a human-readable name for the compatibility level.
func (c TypeCompatibility) String() string {
	switch c {
	case TypeIdentical:
		return VerdictIdentical
	case TypeAssignable:
		return VerdictAssignable
	case TypeConvertible:
		return VerdictConvertible
	case TypeNeedsTransform:
		return VerdictNeedsTransform
	case TypeIncompatible:
		return VerdictIncompatible
	default:
		return "unknown"
	}
}

// Score returns a numeric score for sorting (higher is better).
func (c TypeCompatibility) Score() int {
	return int(c)
}

// TypeCompatibilityResult contains detailed information about type compatibility.
type TypeCompatibilityResult struct {
	Compatibility TypeCompatibility
	Reason        string // Human-readable explanation
	SourceType    string // String representation of source type
	TargetType    string // String representation of target type
}

// ScoreTypeCompatibility determines the compatibility between a source and target type.
// reflect.Type values are canonical, so identity is plain equality.
func ScoreTypeCompatibility(source, target reflect.Type) TypeCompatibilityResult {
	sourceStr := source.String()
	targetStr := target.String()

	if source == target {
		return TypeCompatibilityResult{
			Compatibility: TypeIdentical,
			Reason:        "types are identical",
			SourceType:    sourceStr,
			TargetType:    targetStr,
		}
	}

	// Assignability includes interface satisfaction
	if source.AssignableTo(target) {
		return TypeCompatibilityResult{
			Compatibility: TypeAssignable,
			Reason:        "source is assignable to target",
			SourceType:    sourceStr,
			TargetType:    targetStr,
		}
	}

	// Convertibility covers numeric conversions, string/[]byte, etc.
	if source.ConvertibleTo(target) {
		return TypeCompatibilityResult{
			Compatibility: TypeConvertible,
			Reason:        "source is convertible to target",
			SourceType:    sourceStr,
			TargetType:    targetStr,
		}
	}

	// Check for special cases that might need transforms
	if needsTransform(source, target) {
		return TypeCompatibilityResult{
			Compatibility: TypeNeedsTransform,
			Reason:        "types require a transform function",
			SourceType:    sourceStr,
			TargetType:    targetStr,
		}
	}

	return TypeCompatibilityResult{
		Compatibility: TypeIncompatible,
		Reason:        "types are not compatible",
		SourceType:    sourceStr,
		TargetType:    targetStr,
	}
}

// needsTransform checks for cases where types might be convertible via a transform.
func needsTransform(source, target reflect.Type) bool {
	sourceIsPtr := source.Kind() == reflect.Ptr
	targetIsPtr := target.Kind() == reflect.Ptr

	if sourceIsPtr && !targetIsPtr {
		// *T -> T (dereference possible if not nil)
		elem := source.Elem()
		if elem == target || elem.AssignableTo(target) || elem.ConvertibleTo(target) {
			return true
		}
	}

	if !sourceIsPtr && targetIsPtr {
		// T -> *T (take address)
		elem := target.Elem()
		if source == elem || source.AssignableTo(elem) || source.ConvertibleTo(elem) {
			return true
		}
	}

	// Slice to slice with compatible element types
	if source.Kind() == reflect.Slice && target.Kind() == reflect.Slice {
		elemCompat := ScoreTypeCompatibility(source.Elem(), target.Elem())
		if elemCompat.Compatibility >= TypeNeedsTransform {
			return true
		}
	}

	// Struct to struct (might have compatible fields)
	if source.Kind() == reflect.Struct && target.Kind() == reflect.Struct {
		return true
	}

	return false
}

// ScorePointerCompatibility checks compatibility considering pointer wrapping/unwrapping.
func ScorePointerCompatibility(source, target reflect.Type) TypeCompatibilityResult {
	result := ScoreTypeCompatibility(source, target)
	if result.Compatibility >= TypeConvertible {
		return result
	}

	// Try unwrapping source pointer
	if source.Kind() == reflect.Ptr {
		innerResult := ScoreTypeCompatibility(source.Elem(), target)
		if innerResult.Compatibility >= TypeConvertible {
			return TypeCompatibilityResult{
				Compatibility: TypeNeedsTransform,
				Reason:        "requires pointer dereference",
				SourceType:    source.String(),
				TargetType:    target.String(),
			}
		}
	}

	// Try wrapping source as pointer
	if target.Kind() == reflect.Ptr {
		innerResult := ScoreTypeCompatibility(source, target.Elem())
		if innerResult.Compatibility >= TypeConvertible {
			return TypeCompatibilityResult{
				Compatibility: TypeNeedsTransform,
				Reason:        "requires taking address",
				SourceType:    source.String(),
				TargetType:    target.String(),
			}
		}
	}

	return result
}
