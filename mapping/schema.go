package mapping

import (
	"slices"

	"pathcaster/internal/common"
)

// File represents the root of a YAML mapping definition file.
// This is the authoritative, human-reviewed binding configuration.
type File struct {
	// Version of the mapping schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Mappings is a list of source/target type pair bindings.
	Mappings []TypeMapping `yaml:"mappings"`

	// Transforms declares custom transform functions available for use.
	Transforms []TransformDef `yaml:"transforms,omitempty"`
}

// TypeMapping defines how to map one source type to one target type.
type TypeMapping struct {
	// Source type identifier (e.g., "store.Order").
	Source string `yaml:"source"`

	// Target type identifier (e.g., "warehouse.Order").
	Target string `yaml:"target"`

	// OneToOne is a simplified binding syntax where keys are source paths
	// and values are target paths. Supports 1:1 bindings only.
	// Priority: highest (applied first).
	// Example: { "Number": "GetNumber()" }
	OneToOne map[string]string `yaml:"121,omitempty"`

	// Fields defines explicit bindings with full control.
	// Priority: second highest (after 121).
	Fields []FieldBinding `yaml:"fields,omitempty"`

	// Ignore lists target paths that should not be bound.
	// Priority: third (after fields).
	Ignore StringArray `yaml:"ignore,omitempty"`

	// Auto contains auto-matched bindings from best-effort matching.
	// Populated by freezing a resolved plan; lowest priority.
	// Bindings here are overridden by 121, fields, or ignore.
	Auto []FieldBinding `yaml:"auto,omitempty"`
}

// Pair returns the "source->target" label used in diagnostics.
func (tm *TypeMapping) Pair() string {
	return tm.Source + "->" + tm.Target
}

// IntrospectionHint indicates how the engine should resolve a struct-valued binding.
type IntrospectionHint string

const (
	// HintNone means no hint provided; engine decides based on types.
	HintNone IntrospectionHint = ""
	// HintDive forces the engine to map the inner structure recursively.
	HintDive IntrospectionHint = "dive"
	// HintFinal treats the value as a single unit (assign or transform, no recursion).
	HintFinal IntrospectionHint = "final"
)

// IsValid returns true if the hint is a recognized value.
func (h IntrospectionHint) IsValid() bool {
	return h == HintNone || h == HintDive || h == HintFinal
}

// FieldRef represents a source path with an optional introspection hint.
// YAML formats supported:
//   - Simple string: "Address"
//   - With hint: {Address: dive} or {Address: final}
type FieldRef struct {
	// Path is the accessor path (e.g., "Name", "Address.Street", "GetAddress()").
	Path string
	// Hint is the optional introspection hint for this path.
	Hint IntrospectionHint
}

// String returns the path string.
func (f FieldRef) String() string {
	return f.Path
}

// IsEmpty returns true if the reference carries no path.
func (f FieldRef) IsEmpty() bool {
	return f.Path == ""
}

// ReadPolicy selects how a binding's source chain is read.
type ReadPolicy string

const (
	// ReadDefault lets the engine decide; currently the same as ReadZero.
	ReadDefault ReadPolicy = ""
	// ReadStrict reads through the raw accessor; broken chains panic.
	ReadStrict ReadPolicy = "strict"
	// ReadZero substitutes the leaf zero value when the chain is broken.
	ReadZero ReadPolicy = "zero"
	// ReadSkip leaves the target untouched when the chain is broken.
	ReadSkip ReadPolicy = "skip"
)

// IsValid returns true if the policy is a recognized value.
func (p ReadPolicy) IsValid() bool {
	return p == ReadDefault || p == ReadStrict || p == ReadZero || p == ReadSkip
}

// WritePolicy selects how a binding's target chain is written.
type WritePolicy string

const (
	// WriteDefault lets the engine decide; currently the same as WriteAlloc.
	WriteDefault WritePolicy = ""
	// WriteStrict writes through the raw accessor; broken chains panic.
	WriteStrict WritePolicy = "strict"
	// WriteSkip abandons the write when the target chain is broken.
	WriteSkip WritePolicy = "skip"
	// WriteAlloc allocates missing links on the target chain before writing.
	WriteAlloc WritePolicy = "alloc"
)

// IsValid returns true if the policy is a recognized value.
func (p WritePolicy) IsValid() bool {
	return p == WriteDefault || p == WriteStrict || p == WriteSkip || p == WriteAlloc
}

// FieldBinding defines how target path(s) are populated from the source.
// Exactly one value origin applies per binding: a source path, an expression,
// or a bare default.
//
// A source path can include an optional introspection hint:
//   - Simple: "Address"
//   - With hint: {Address: dive} or {Address: final}
//
// Hints control recursive resolution:
//   - "dive": force recursive struct mapping of the leaf value
//   - "final": treat as a single unit (direct assign or transform)
type FieldBinding struct {
	// Target is one or more target accessor paths. With multiple targets the
	// same mapped value is written to each.
	Target StringArray `yaml:"target"`

	// Source is the source accessor path with an optional hint.
	// If empty, the value comes from Expr or Default.
	Source FieldRef `yaml:"source,omitempty"`

	// Expr computes the value with an expression over the source instance.
	// Mutually exclusive with Source.
	Expr string `yaml:"expr,omitempty"`

	// Default is a literal value to assign if the source chain is broken
	// (read policy "zero") or if no Source/Expr is given.
	Default *string `yaml:"default,omitempty"`

	// Transform is the name of a registered transform to apply to the value.
	Transform string `yaml:"transform,omitempty"`

	// Read selects how the source chain is read (strict, zero, skip).
	Read ReadPolicy `yaml:"read,omitempty"`

	// Write selects how the target chain is written (strict, skip, alloc).
	Write WritePolicy `yaml:"write,omitempty"`
}

// HasSource returns true if the binding names a source path.
func (b *FieldBinding) HasSource() bool {
	return !b.Source.IsEmpty()
}

// HasExpr returns true if the binding computes its value with an expression.
func (b *FieldBinding) HasExpr() bool {
	return b.Expr != ""
}

// HasDefault returns true if the binding carries a literal default.
func (b *FieldBinding) HasDefault() bool {
	return b.Default != nil
}

// TransformDef declares metadata about a transform function.
// The callable implementation is registered with the mapper at runtime;
// this declaration validates usage.
type TransformDef struct {
	// Name is the transform identifier used in field bindings.
	Name string `yaml:"name"`

	// SourceType is the expected input type (e.g., "string", "int64", "store.Address").
	SourceType string `yaml:"source_type,omitempty"`

	// TargetType is the expected output type (e.g., "string", "float64").
	TargetType string `yaml:"target_type,omitempty"`

	// Description is an optional human-readable description.
	Description string `yaml:"description,omitempty"`
}

// StringArray is a string slice that can be unmarshaled from a single string or a list.
type StringArray []string

// First returns the first element or empty string if empty.
func (s StringArray) First() string {
	if v, ok := common.First(s); ok {
		return v
	}

	return ""
}

// IsEmpty returns true if the array is empty.
func (s StringArray) IsEmpty() bool {
	return common.IsEmpty(s)
}

// IsSingle returns true if the array has exactly one element.
func (s StringArray) IsSingle() bool {
	return common.IsSingle(s)
}

// IsMultiple returns true if the array has more than one element.
func (s StringArray) IsMultiple() bool {
	return common.IsMultiple(s)
}

// Contains returns true if the array contains the given string.
func (s StringArray) Contains(str string) bool {
	return slices.Contains(s, str)
}

// MappingPriority represents the priority level of a binding rule.
type MappingPriority int

const (
	PriorityAuto     MappingPriority = iota // Lowest: auto-matched by best-effort
	PriorityIgnore                          // Third: explicitly ignored
	PriorityFields                          // Second: explicit field bindings
	PriorityOneToOne                        // Highest: 121 shorthand bindings
)

// String returns a human-readable representation of the priority.
func (p MappingPriority) String() string {
	switch p {
	case PriorityOneToOne:
		return "121"
	case PriorityFields:
		return "fields"
	case PriorityIgnore:
		return "ignore"
	case PriorityAuto:
		return "auto"
	default:
		return common.UnknownStr
	}
}
