// Package diagnostics provides the recoverable-problem reporting type
// shared by the dfg, mapper and dfgtext packages. It mirrors the shape of
// the teacher's verify.Issue: a structured, typed record rather than a
// bare string, so callers can filter/group without string parsing.
package diagnostics

import "fmt"

// Severity classifies a Diagnostic.
type Severity string

const (
	// Warning diagnostics do not stop compilation (e.g. UnresolvedReference).
	Warning Severity = "WARNING"
	// Info diagnostics are informational only.
	Info Severity = "INFO"
)

// Diagnostic is a single recoverable problem surfaced during compilation.
type Diagnostic struct {
	Severity Severity
	// Stage names the component that raised the diagnostic, e.g.
	// "dfg.resolve" or "mapper.metadata".
	Stage string
	// NodeID is the node the diagnostic concerns, empty if not applicable.
	NodeID string
	Message string
}

// String renders a diagnostic for display on the side channel (the
// caller is expected to show these verbatim, per the error handling
// design).
func (d Diagnostic) String() string {
	if d.NodeID == "" {
		return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Stage, d.Message)
	}
	return fmt.Sprintf("[%s] %s: node %q: %s", d.Severity, d.Stage, d.NodeID, d.Message)
}

// Sink collects diagnostics emitted during a single compile call.
// Grounded on verify.RunLint's []Issue accumulation pattern.
type Sink struct {
	diagnostics []Diagnostic
}

// Report appends a diagnostic to the sink.
func (s *Sink) Report(d Diagnostic) {
	s.diagnostics = append(s.diagnostics, d)
}

// Warnf reports a Warning-severity diagnostic.
func (s *Sink) Warnf(stage, nodeID, format string, args ...any) {
	s.Report(Diagnostic{
		Severity: Warning,
		Stage:    stage,
		NodeID:   nodeID,
		Message:  fmt.Sprintf(format, args...),
	})
}

// All returns every diagnostic reported so far, in report order.
func (s *Sink) All() []Diagnostic {
	return s.diagnostics
}

// Empty reports whether no diagnostics have been collected.
func (s *Sink) Empty() bool {
	return len(s.diagnostics) == 0
}
