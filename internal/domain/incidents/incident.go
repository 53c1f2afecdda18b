package incidents

import "time"

// Incident is a steward report about an on-track event.
type Incident struct {
	Ref         string    `json:"ref"`
	ReporterID  string    `json:"reporterId"`
	Drivers     string    `json:"drivers"`
	Session     string    `json:"session"`
	Description string    `json:"description"`
	Evidence    string    `json:"evidence,omitempty"`
	ReportedAt  time.Time `json:"reportedAt"`
	Decision    *Decision `json:"decision,omitempty"`
}

// Decision is the stewards' verdict on an incident.
type Decision struct {
	Actor       string    `json:"actor"`
	Verdict     string    `json:"verdict"`
	Reasoning   string    `json:"reasoning"`
	PenalizedID string    `json:"penalizedId,omitempty"`
	Points      int       `json:"points"`
	DecidedAt   time.Time `json:"decidedAt"`
}

// Decided reports whether a verdict has been recorded.
func (i Incident) Decided() bool {
	return i.Decision != nil
}
