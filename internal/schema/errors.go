package schema

import "fmt"

// SchemaError reports a record definition that cannot be flattened into
// columns, such as a type that contains itself.
type SchemaError struct {
	Path   string
	Type   string
	Reason string
}

func (e *SchemaError) Error() string {
	switch {
	case e.Path != "" && e.Type != "":
		return fmt.Sprintf("schema: %s (%s): %s", e.Path, e.Type, e.Reason)
	case e.Path != "":
		return fmt.Sprintf("schema: %s: %s", e.Path, e.Reason)
	case e.Type != "":
		return fmt.Sprintf("schema: type %s: %s", e.Type, e.Reason)
	}
	return "schema: " + e.Reason
}
