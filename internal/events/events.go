// Package events records mediation decisions for observability. Events carry
// metadata only: tokens, levels, latencies and outcomes, never the user's
// message text. Delivery is best-effort and must never block the input path.
package events

import (
	"time"
)

// Outcomes of a logical mediation request.
const (
	OutcomeApplied    = "applied"
	OutcomeSuperseded = "superseded"
	OutcomeFailed     = "failed"
)

// Kinds of events.
const (
	KindRiskResult = "risk_result"
	KindRewrite    = "rewrite"
	KindFallback   = "fallback"
	KindReset      = "reset"
)

// Event is one decision record.
type Event struct {
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	Token     int64     `json:"token,omitempty"`
	RiskLevel string    `json:"risk_level,omitempty"`
	Outcome   string    `json:"outcome,omitempty"`
	ErrorKind string    `json:"error_kind,omitempty"`
	Source    string    `json:"source,omitempty"` // remote | local
	Attempts  int       `json:"attempts,omitempty"`
	LatencyMs float64   `json:"latency_ms,omitempty"`
}

// NewEvent stamps the common fields.
func NewEvent(kind string) *Event {
	return &Event{
		Version:   "1",
		Timestamp: time.Now().UTC(),
		Kind:      kind,
	}
}
