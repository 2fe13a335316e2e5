package domain

import "time"

// Severity is ordered alert severity level.
// Params: info/warning/error/critical/fatal constants.
// Returns: severity ordering for filters and stats.
type Severity string

const (
	// SeverityInfo indicates informational alert.
	SeverityInfo Severity = "INFO"
	// SeverityWarning indicates degraded but working behavior.
	SeverityWarning Severity = "WARNING"
	// SeverityError indicates failing behavior.
	SeverityError Severity = "ERROR"
	// SeverityCritical indicates severe failure requiring action.
	SeverityCritical Severity = "CRITICAL"
	// SeverityFatal indicates total failure.
	SeverityFatal Severity = "FATAL"
)

var severityRanks = map[Severity]int{
	SeverityInfo:     0,
	SeverityWarning:  1,
	SeverityError:    2,
	SeverityCritical: 3,
	SeverityFatal:    4,
}

// Rank returns severity ordering position.
// Params: none.
// Returns: ordinal (INFO=0 .. FATAL=4) or -1 for unknown value.
func (s Severity) Rank() int {
	rank, ok := severityRanks[s]
	if !ok {
		return -1
	}
	return rank
}

// Known reports whether severity value is one of the supported constants.
// Params: none.
// Returns: true for a supported severity.
func (s Severity) Known() bool {
	_, ok := severityRanks[s]
	return ok
}

// Status is alert lifecycle state machine position.
// Params: open/acknowledged/in-progress/resolved/closed/suppressed constants.
// Returns: current state for transition checks.
type Status string

const (
	// StatusOpen indicates newly created, unhandled alert.
	StatusOpen Status = "OPEN"
	// StatusAcknowledged indicates a user has seen the alert.
	StatusAcknowledged Status = "ACKNOWLEDGED"
	// StatusInProgress indicates the alert is assigned and being worked.
	StatusInProgress Status = "IN_PROGRESS"
	// StatusResolved indicates the underlying issue is fixed.
	StatusResolved Status = "RESOLVED"
	// StatusClosed indicates the terminal archived state.
	StatusClosed Status = "CLOSED"
	// StatusSuppressed indicates the alert is muted until a deadline.
	StatusSuppressed Status = "SUPPRESSED"
)

// Terminal reports whether status is eligible for pruning.
// Params: none.
// Returns: true for RESOLVED and CLOSED.
func (s Status) Terminal() bool {
	return s == StatusResolved || s == StatusClosed
}

// SystemActor is the actor recorded by scheduler-driven auto-resolution.
const SystemActor = "system"

// Alert is one canonical deduplicated alert record.
// Params: identity, occurrence counters, lifecycle markers, and actor fields.
// Returns: engine-owned record; external consumers receive clones.
type Alert struct {
	ID                string             `json:"id"`
	TenantID          string             `json:"tenant_id"`
	RuleID            string             `json:"rule_id,omitempty"`
	Name              string             `json:"name"`
	Description       string             `json:"description,omitempty"`
	Severity          Severity           `json:"severity"`
	Status            Status             `json:"status"`
	Fingerprint       string             `json:"fingerprint"`
	Source            string             `json:"source"`
	SourceID          string             `json:"source_id,omitempty"`
	SourceType        string             `json:"source_type,omitempty"`
	Message           string             `json:"message"`
	Details           map[string]string  `json:"details,omitempty"`
	Metrics           map[string]float64 `json:"metrics,omitempty"`
	Count             int64              `json:"count"`
	FirstOccurrenceAt time.Time          `json:"first_occurrence_at"`
	LastOccurrenceAt  time.Time          `json:"last_occurrence_at"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
	AssignedTo        string             `json:"assigned_to,omitempty"`
	AssignedAt        *time.Time         `json:"assigned_at,omitempty"`
	AcknowledgedBy    string             `json:"acknowledged_by,omitempty"`
	AcknowledgedAt    *time.Time         `json:"acknowledged_at,omitempty"`
	ResolvedBy        string             `json:"resolved_by,omitempty"`
	ResolvedAt        *time.Time         `json:"resolved_at,omitempty"`
	SuppressedUntil   *time.Time         `json:"suppressed_until,omitempty"`
	SuppressionReason string             `json:"suppression_reason,omitempty"`
	EscalationLevel   int                `json:"escalation_level"`
}

// Clone duplicates record with detached maps and timestamp pointers.
// Params: none.
// Returns: deep copy safe to hand to subscribers and query callers.
func (a Alert) Clone() Alert {
	out := a
	out.Details = cloneStringMap(a.Details)
	out.Metrics = cloneFloatMap(a.Metrics)
	out.AssignedAt = cloneTime(a.AssignedAt)
	out.AcknowledgedAt = cloneTime(a.AcknowledgedAt)
	out.ResolvedAt = cloneTime(a.ResolvedAt)
	out.SuppressedUntil = cloneTime(a.SuppressedUntil)
	return out
}

// cloneStringMap duplicates string map.
// Params: source map.
// Returns: copied map or nil for empty source.
func cloneStringMap(source map[string]string) map[string]string {
	if len(source) == 0 {
		return nil
	}
	out := make(map[string]string, len(source))
	for key, value := range source {
		out[key] = value
	}
	return out
}

// cloneFloatMap duplicates metric map.
// Params: source map.
// Returns: copied map or nil for empty source.
func cloneFloatMap(source map[string]float64) map[string]float64 {
	if len(source) == 0 {
		return nil
	}
	out := make(map[string]float64, len(source))
	for key, value := range source {
		out[key] = value
	}
	return out
}

// cloneTime duplicates optional timestamp pointer.
// Params: source pointer.
// Returns: detached pointer or nil.
func cloneTime(source *time.Time) *time.Time {
	if source == nil {
		return nil
	}
	value := *source
	return &value
}
