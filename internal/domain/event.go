package domain

import "time"

// EventType identifies one lifecycle event kind.
// Params: alert transition constants plus async error marker.
// Returns: normalized event type used across bus and transports.
type EventType string

const (
	// EventAlertCreated marks a brand-new alert record.
	EventAlertCreated EventType = "alert:created"
	// EventAlertUpdated marks a dedup merge into an existing record.
	EventAlertUpdated EventType = "alert:updated"
	// EventAlertAcknowledged marks an acknowledge transition.
	EventAlertAcknowledged EventType = "alert:acknowledged"
	// EventAlertAssigned marks an assignment update.
	EventAlertAssigned EventType = "alert:assigned"
	// EventAlertResolved marks a resolve transition.
	EventAlertResolved EventType = "alert:resolved"
	// EventAlertClosed marks the terminal close transition.
	EventAlertClosed EventType = "alert:closed"
	// EventAlertSuppressed marks a suppress transition.
	EventAlertSuppressed EventType = "alert:suppressed"
	// EventError carries failures raised inside asynchronous engine actions.
	EventError EventType = "error"
)

// Event is one outbound lifecycle event with a detached alert snapshot.
// Params: event type, alert snapshot, optional error text, and emit time.
// Returns: immutable payload for bus subscribers.
type Event struct {
	Type      EventType `json:"type"`
	Alert     Alert     `json:"alert"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
