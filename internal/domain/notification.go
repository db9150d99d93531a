package domain

import "errors"

// Outcome is the result of one notification send attempt.
type Outcome string

const (
	OutcomeSent      Outcome = "sent"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeOffline   Outcome = "offline"
	OutcomeFailed    Outcome = "failed"
)

// Unknown is the placeholder for any enrichment value that could not be
// determined.
const Unknown = "Unknown"

var (
	ErrEmptyMessage   = errors.New("empty message")
	ErrUnknownSession = errors.New("unknown visitor session")
	ErrEmptyTelemetry = errors.New("no telemetry data")
	ErrOffline        = errors.New("connectivity check failed")
	ErrNotConfigured  = errors.New("telegram credentials not configured")
)

// Delivered reports whether the visitor can be considered notified. A
// duplicate means the same text already went out inside the dedup window.
func (o Outcome) Delivered() bool {
	switch o {
	case OutcomeSent, OutcomeDuplicate:
		return true
	default:
		return false
	}
}
