// Package fields describes SharePoint list columns as immutable values and
// renders them into column-creation payloads.
//
// Structure:
//
//	kind.go        - FieldTypeKind codes
//	descriptor.go  - Plain, ChoiceList, Lookup, Calculated and payload rendering
//	registry.go    - variant constructors addressed by name
//	args.go        - override arguments consumed by constructors
package fields
