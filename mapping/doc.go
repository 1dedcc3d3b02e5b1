// Package mapping provides YAML schema definitions, parsing, and structural
// validation for explicit field bindings.
//
// YAML is a first-class feature that turns best-effort suggestions
// into deterministic, reviewable mapping plans.
//
// # Key capabilities
//
//   - Pin explicit field bindings (one source accessor to one or more targets)
//   - Simplified "121" shorthand for 1:1 bindings
//   - Ignore target fields
//   - Set defaults
//   - Apply named transforms
//   - Compute values with expressions over the source instance
//   - Priority-based conflict resolution (121 > fields > ignore > auto)
//
// # Schema Overview
//
// The mapping file has the following structure:
//
//	version: "1"
//	mappings:
//	  - source: store.Order
//	    target: warehouse.Order
//	    # Simplified 1:1 bindings (highest priority)
//	    121:
//	      Number: GetNumber()
//	      Status: GetStatus()
//	    # Full bindings with all options
//	    fields:
//	      - target: GetStatus()
//	        default: "pending"
//	      - target: GetTotal()
//	        source: TotalCents
//	        transform: CentsToDecimal
//	      - target: [GetNumber(), GetReference()]   # one value, two targets
//	        source: Number
//	      - target: GetCustomer().GetName()
//	        expr: FullName + " <" + Email + ">"
//	    # Target paths to leave untouched
//	    ignore:
//	      - GetPlacedAt()
//	    # Auto-matched bindings (populated by freezing, lowest priority)
//	    auto:
//	      - target: GetTotal()
//	        source: TotalCents
//	transforms:
//	  - name: CentsToDecimal
//	    source_type: int64
//	    target_type: float64
//
// # Priority Order
//
// When resolving field bindings, conflicts are resolved using this priority:
//  1. "121" shorthand bindings (highest)
//  2. "fields" explicit bindings
//  3. "ignore" list
//  4. "auto" best-effort matches (lowest)
//
// # Path Syntax
//
// Source and target paths are dotted accessor chains. Each segment is either
// a field name or a method call:
//   - Simple fields: "Name"
//   - Nested fields: "Address.Street"
//   - Getter methods: "GetAddress().GetStreet()"
//   - Mixed: "Customer.GetEmail()"
//
// A target path may end in a setter method ("SetEmail()"). Slice-valued
// leaves are mapped elementwise when an element mapping exists; no special
// path syntax is required.
//
// # Read and Write Policies
//
// Each binding can pick how its source chain is read and how its target
// chain is written:
//
//	read: strict | zero | skip     (default zero)
//	write: strict | skip | alloc   (default alloc)
//
// "strict" panics on a broken chain, "zero" substitutes the zero value,
// "skip" leaves the target untouched when the source chain is broken, and
// "alloc" allocates missing links on the target side before writing.
//
// # Expressions
//
// A binding may compute its value with an expression instead of a source
// path. Expressions are evaluated against the source instance, so fields
// and methods of the source type are in scope:
//
//	expr: FullName + " <" + Email + ">"
//
// Expressions are checked for syntax during validation and compiled against
// the concrete source type when the plan is resolved.
//
// # Introspection Hints
//
// A source path can carry a hint controlling nested resolution:
//
//	source: Address            # engine decides
//	source: {Address: dive}    # force recursive struct mapping
//	source: {Address: final}   # treat as a single unit (assign or transform)
//
// # Transforms
//
// Transforms are referenced by name in field bindings. The declarations here
// carry intent (expected types, description); the callable implementations
// are registered with the mapper at runtime, which cross-checks both.
package mapping
