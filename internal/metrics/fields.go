package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod    = "method"
	AttrPath      = "path"
	AttrStatus    = "status"
	AttrOperation = "operation"
	AttrOutcome   = "outcome"
	AttrChannel   = "channel"
)

// Outcome values attached to operation metrics.
const (
	OutcomeOK      = "ok"
	OutcomeFailure = "failure"
	OutcomeError   = "error"
)
