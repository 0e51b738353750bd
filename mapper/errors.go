package mapper

import "fmt"

// ErrorKind classifies a fatal CompileError.
type ErrorKind string

const (
	SchemaError       ErrorKind = "SchemaError"
	UnsupportedOpcode ErrorKind = "UnsupportedOpcode"
	CapacityExceeded  ErrorKind = "CapacityExceeded"
)

// CompileError is a fatal compilation failure: a typed failure
// surfaced from the top-level compile entry point, carrying the
// offending node id (if any) and a human-readable reason.
type CompileError struct {
	Kind   ErrorKind
	NodeID string
	Reason string
}

func (e *CompileError) Error() string {
	if e.NodeID == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s: node %q: %s", e.Kind, e.NodeID, e.Reason)
}
