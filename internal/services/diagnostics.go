package services

type DiagnosticKind string

const (
	// A definition that cannot be interpreted (recurring with no weekday
	// flags, non-recurring with no date). The definition is skipped.
	DiagMalformedDefinition DiagnosticKind = "malformed_definition"
	// Two accepted delegations claim the same date; list order won.
	DiagAmbiguousDelegation DiagnosticKind = "ambiguous_delegation"
	// A stop with missing or non-finite coordinates; its incoming edge was
	// treated as zero travel and its timing flagged unreliable.
	DiagDegradedGeodata DiagnosticKind = "degraded_geodata"
	// Simulated arrival landed after the stop's window end. Surfaced, never
	// rejected: the simulator's job is to reveal an infeasible plan.
	DiagWindowViolation DiagnosticKind = "window_violation"
)

// Diagnostic reports a data-quality problem encountered while computing a
// best-effort result. The engine degrades and flags; it does not throw.
type Diagnostic struct {
	Kind    DiagnosticKind
	Subject string // id of the offending definition or stop
	Detail  string
}
