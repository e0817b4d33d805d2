package blackboard

import "fmt"

// SchemaError reports a required key that is absent from the schema document,
// or present with a value of the wrong shape when Want is set.
type SchemaError struct {
	Key     string
	Context string
	Want    string
}

func (e *SchemaError) Error() string {
	if e.Want != "" {
		return fmt.Sprintf("%s within %s must be %s", e.Key, e.Context, e.Want)
	}
	return fmt.Sprintf("%s is not found within %s", e.Key, e.Context)
}

// NamingError reports a message or variable name that cannot be used as a
// code identifier fragment.
type NamingError struct {
	Kind string // "message" or "variable"
	Name string
}

func (e *NamingError) Error() string {
	return fmt.Sprintf("%s name cannot contain whitespace: %q", e.Kind, e.Name)
}
