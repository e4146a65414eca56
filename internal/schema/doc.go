// Package schema flattens nested record types into leaf fields.
//
// Record types come from Go structs (TypeOf, TypeFor) or from a YAML
// Catalog; both satisfy the same Type capability, so Traverse does not care
// where a schema was declared.
//
// Structure:
//
//	types.go    - Type, Field, Tag, Overrides
//	walker.go   - Node and the breadth-first Traverse
//	reflect.go  - struct-backed types and the sp struct tag
//	catalog.go  - YAML-backed types
//	errors.go   - SchemaError
package schema
