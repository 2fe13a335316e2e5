package engine

import (
	"sort"
	"time"

	"alertcycle/internal/domain"
)

// Filter narrows alert listings. Zero-value fields are ignored; slice fields
// match when the alert's value is any of the listed ones.
type Filter struct {
	TenantID      string
	Statuses      []domain.Status
	Severities    []domain.Severity
	Source        string
	AssignedTo    string
	CreatedAfter  time.Time
	CreatedBefore time.Time
}

// matches reports whether one alert passes every set filter field.
func (f Filter) matches(alert *domain.Alert) bool {
	if f.TenantID != "" && alert.TenantID != f.TenantID {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, alert.Status) {
		return false
	}
	if len(f.Severities) > 0 && !containsSeverity(f.Severities, alert.Severity) {
		return false
	}
	if f.Source != "" && alert.Source != f.Source {
		return false
	}
	if f.AssignedTo != "" && alert.AssignedTo != f.AssignedTo {
		return false
	}
	if !f.CreatedAfter.IsZero() && alert.CreatedAt.Before(f.CreatedAfter) {
		return false
	}
	if !f.CreatedBefore.IsZero() && alert.CreatedAt.After(f.CreatedBefore) {
		return false
	}
	return true
}

// Stats aggregates stored alerts by status and severity.
type Stats struct {
	Total      int                     `json:"total"`
	ByStatus   map[domain.Status]int   `json:"by_status"`
	BySeverity map[domain.Severity]int `json:"by_severity"`
}

// Alerts lists stored alerts matching the filter, newest first. Ties on
// creation time fall back to descending id order; alert ids are
// creation-ordered, so the result is stable across calls.
// Params: filter with optional narrowing fields.
// Returns: detached snapshots sorted by createdAt descending.
func (c *Controller) Alerts(filter Filter) []domain.Alert {
	c.mu.RLock()
	out := make([]domain.Alert, 0)
	for _, alert := range c.store.alerts {
		if filter.matches(alert) {
			out = append(out, alert.Clone())
		}
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Stats counts all stored alerts grouped by status and severity.
// Params: none.
// Returns: aggregate counters over the current store contents.
func (c *Controller) Stats() Stats {
	stats := Stats{
		ByStatus:   make(map[domain.Status]int),
		BySeverity: make(map[domain.Severity]int),
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, alert := range c.store.alerts {
		stats.Total++
		stats.ByStatus[alert.Status]++
		stats.BySeverity[alert.Severity]++
	}
	return stats
}

func containsStatus(set []domain.Status, value domain.Status) bool {
	for _, candidate := range set {
		if candidate == value {
			return true
		}
	}
	return false
}

func containsSeverity(set []domain.Severity, value domain.Severity) bool {
	for _, candidate := range set {
		if candidate == value {
			return true
		}
	}
	return false
}
