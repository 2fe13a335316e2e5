package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Submission is one inbound alert-creation request from a rule evaluator.
// Params: alert attributes plus optional triggering-rule auto-resolve hints.
// Returns: validated payload handed to the lifecycle controller.
type Submission struct {
	TenantID    string             `json:"tenant_id"`
	RuleID      string             `json:"rule_id,omitempty"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Severity    Severity           `json:"severity,omitempty"`
	Source      string             `json:"source"`
	SourceID    string             `json:"source_id,omitempty"`
	SourceType  string             `json:"source_type,omitempty"`
	Message     string             `json:"message"`
	Details     map[string]string  `json:"details,omitempty"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
	Rule        *RuleRef           `json:"rule,omitempty"`
}

// RuleRef carries triggering-rule auto-resolve hints.
// Params: rule id, auto-resolve toggle, and optional per-rule delay override.
// Returns: scheduler arming parameters for one submission.
// The delay override is carried in milliseconds so rules can request
// sub-second auto-resolve windows.
type RuleRef struct {
	ID                 string `json:"id"`
	AutoResolve        bool   `json:"auto_resolve,omitempty"`
	AutoResolveAfterMS int64  `json:"auto_resolve_after_ms,omitempty"`
}

// DecodeSubmission decodes and validates one submission payload.
// Params: JSON document bytes.
// Returns: validated submission or decode/validation error.
func DecodeSubmission(raw []byte) (Submission, error) {
	var submission Submission
	if err := json.Unmarshal(raw, &submission); err != nil {
		return Submission{}, fmt.Errorf("decode submission: %w", err)
	}
	if err := submission.Validate(); err != nil {
		return Submission{}, err
	}
	return submission, nil
}

// DecodeSubmissionReader decodes and validates one submission from stream.
// Params: reader positioned at one JSON object.
// Returns: validated submission or decode/validation error.
func DecodeSubmissionReader(reader *json.Decoder) (Submission, error) {
	var submission Submission
	if err := reader.Decode(&submission); err != nil {
		return Submission{}, fmt.Errorf("decode submission: %w", err)
	}
	if err := submission.Validate(); err != nil {
		return Submission{}, err
	}
	return submission, nil
}

// Validate validates one submission against the inbound contract.
// Params: submission fields parsed from transport.
// Returns: validation error when required attributes are missing.
func (s Submission) Validate() error {
	if strings.TrimSpace(s.TenantID) == "" {
		return errors.New("tenant_id is required")
	}
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(s.Source) == "" {
		return errors.New("source is required")
	}
	if strings.TrimSpace(s.Message) == "" {
		return errors.New("message is required")
	}
	if s.Severity != "" && !s.Severity.Known() {
		return fmt.Errorf("unsupported severity %q", s.Severity)
	}
	if s.Rule != nil {
		if strings.TrimSpace(s.Rule.ID) == "" {
			return errors.New("rule.id is required when rule is present")
		}
		if s.Rule.AutoResolveAfterMS < 0 {
			return errors.New("rule.auto_resolve_after_ms must be >=0")
		}
	}
	return nil
}

// EffectiveSeverity resolves submission severity with default fallback.
// Params: none.
// Returns: known severity, WARNING when the field is empty.
func (s Submission) EffectiveSeverity() Severity {
	if s.Severity.Known() {
		return s.Severity
	}
	return SeverityWarning
}

// EffectiveRuleID resolves rule id from attributes or rule reference.
// Params: none.
// Returns: explicit rule_id attribute, rule.id fallback, or empty string.
func (s Submission) EffectiveRuleID() string {
	if id := strings.TrimSpace(s.RuleID); id != "" {
		return id
	}
	if s.Rule != nil {
		return strings.TrimSpace(s.Rule.ID)
	}
	return ""
}
