package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"alertcycle/internal/clock"
	"alertcycle/internal/config"
	"alertcycle/internal/domain"
)

// Publisher receives lifecycle events emitted by the controller. Events are
// published after the controller releases its lock and carry detached alert
// snapshots, so implementations may block or fan out without holding up
// lifecycle callers beyond their own handling.
type Publisher interface {
	Publish(event domain.Event)
}

// Controller is the lifecycle engine operation surface. One RWMutex guards
// the alert store together with both derived indices; every mutation runs in
// that single critical section so dedup check-then-update and prune-then-insert
// sequences never interleave.
type Controller struct {
	cfg    config.EngineConfig
	logger *slog.Logger
	clock  clock.Clock
	bus    Publisher

	mu    sync.RWMutex
	store *store
	sched *scheduler
}

// NewController builds the engine and starts its auto-resolve worker.
// Params: engine settings, logger, time source, and event publisher.
// Returns: running controller; callers must Stop it on shutdown.
func NewController(cfg config.EngineConfig, logger *slog.Logger, clk clock.Clock, bus Publisher) *Controller {
	c := &Controller{
		cfg:    cfg,
		logger: logger,
		clock:  clk,
		bus:    bus,
		store:  newStore(),
	}
	c.sched = newScheduler(clk, c.autoResolve)
	return c
}

// Stop cancels every outstanding auto-resolve timer without firing it and
// shuts the scheduler worker down. Safe to call more than once.
// Params: none.
// Returns: none.
func (c *Controller) Stop() {
	c.sched.Stop()
}

// CreateAlert ingests one submission, merging into the live record for the
// same fingerprint when deduplication applies.
// Params: validated submission.
// Returns: stored alert snapshot, or validation error for a bad submission.
func (c *Controller) CreateAlert(sub domain.Submission) (domain.Alert, error) {
	if err := sub.Validate(); err != nil {
		return domain.Alert{}, err
	}

	fingerprint := BuildFingerprint(sub.TenantID, sub.Source, sub.SourceID, sub.Name, sub.Message)
	now := c.clock.Now()

	c.mu.Lock()
	if c.cfg.Deduplicate() {
		if existing, ok := c.store.findByFingerprint(fingerprint); ok &&
			now.Sub(existing.LastOccurrenceAt) < c.cfg.DedupWindow() {
			existing.Count++
			existing.LastOccurrenceAt = now
			existing.UpdatedAt = now
			snapshot := existing.Clone()
			c.mu.Unlock()

			c.publish(domain.EventAlertUpdated, snapshot)
			c.logger.Debug("alert deduplicated",
				"alert_id", snapshot.ID, "fingerprint", fingerprint, "count", snapshot.Count)
			return snapshot, nil
		}
	}

	alert := &domain.Alert{
		ID:                NewAlertID(),
		TenantID:          sub.TenantID,
		RuleID:            sub.EffectiveRuleID(),
		Name:              sub.Name,
		Description:       sub.Description,
		Severity:          sub.EffectiveSeverity(),
		Status:            domain.StatusOpen,
		Fingerprint:       fingerprint,
		Source:            sub.Source,
		SourceID:          sub.SourceID,
		SourceType:        sub.SourceType,
		Message:           sub.Message,
		Details:           sub.Details,
		Metrics:           sub.Metrics,
		Count:             1,
		FirstOccurrenceAt: now,
		LastOccurrenceAt:  now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	c.store.put(alert)
	if alert.RuleID != "" {
		c.pruneRuleLocked(alert.RuleID)
	}
	if delay, armed := c.autoResolveDelay(sub); armed {
		c.sched.Arm(alert.ID, now.Add(delay))
	}
	snapshot := alert.Clone()
	c.mu.Unlock()

	c.publish(domain.EventAlertCreated, snapshot)
	c.logger.Info("alert created",
		"alert_id", snapshot.ID, "tenant_id", snapshot.TenantID,
		"severity", string(snapshot.Severity), "fingerprint", fingerprint)
	return snapshot, nil
}

// Acknowledge moves an OPEN alert to ACKNOWLEDGED.
// Params: alert id and acknowledging user.
// Returns: updated snapshot and true, or false when the transition does not
// apply (unknown id or status outside the source set).
func (c *Controller) Acknowledge(alertID, userID string) (domain.Alert, bool) {
	c.mu.Lock()
	alert, ok := c.store.get(alertID)
	if !ok || alert.Status != domain.StatusOpen {
		c.mu.Unlock()
		return domain.Alert{}, false
	}
	now := c.clock.Now()
	alert.Status = domain.StatusAcknowledged
	alert.AcknowledgedBy = userID
	alert.AcknowledgedAt = &now
	alert.UpdatedAt = now
	snapshot := alert.Clone()
	c.mu.Unlock()

	c.publish(domain.EventAlertAcknowledged, snapshot)
	return snapshot, true
}

// Assign records the assignee and, from OPEN or ACKNOWLEDGED, moves the alert
// to IN_PROGRESS. In any other state the assignee is still updated while the
// status stays untouched.
// Params: alert id and assigned user.
// Returns: updated snapshot and true, or false for an unknown id.
func (c *Controller) Assign(alertID, userID string) (domain.Alert, bool) {
	c.mu.Lock()
	alert, ok := c.store.get(alertID)
	if !ok {
		c.mu.Unlock()
		return domain.Alert{}, false
	}
	now := c.clock.Now()
	alert.AssignedTo = userID
	alert.AssignedAt = &now
	alert.UpdatedAt = now
	if alert.Status == domain.StatusOpen || alert.Status == domain.StatusAcknowledged {
		alert.Status = domain.StatusInProgress
	}
	snapshot := alert.Clone()
	c.mu.Unlock()

	c.publish(domain.EventAlertAssigned, snapshot)
	return snapshot, true
}

// Resolve moves an OPEN, ACKNOWLEDGED, or IN_PROGRESS alert to RESOLVED and
// cancels its pending auto-resolve timer.
// Params: alert id and resolving actor (user id or the system actor).
// Returns: updated snapshot and true, or false when not applicable.
func (c *Controller) Resolve(alertID, actor string) (domain.Alert, bool) {
	c.mu.Lock()
	alert, ok := c.store.get(alertID)
	if !ok || !resolvable(alert.Status) {
		c.mu.Unlock()
		return domain.Alert{}, false
	}
	now := c.clock.Now()
	alert.Status = domain.StatusResolved
	alert.ResolvedBy = actor
	alert.ResolvedAt = &now
	alert.UpdatedAt = now
	c.sched.Cancel(alertID)
	snapshot := alert.Clone()
	c.mu.Unlock()

	c.publish(domain.EventAlertResolved, snapshot)
	return snapshot, true
}

// Close moves a RESOLVED alert to the terminal CLOSED state.
// Params: alert id.
// Returns: updated snapshot and true, or false when not applicable.
func (c *Controller) Close(alertID string) (domain.Alert, bool) {
	c.mu.Lock()
	alert, ok := c.store.get(alertID)
	if !ok || alert.Status != domain.StatusResolved {
		c.mu.Unlock()
		return domain.Alert{}, false
	}
	now := c.clock.Now()
	alert.Status = domain.StatusClosed
	alert.UpdatedAt = now
	c.sched.Cancel(alertID)
	snapshot := alert.Clone()
	c.mu.Unlock()

	c.publish(domain.EventAlertClosed, snapshot)
	return snapshot, true
}

// Suppress mutes any not yet closed alert until the given deadline.
// Params: alert id, suppression deadline, and optional reason.
// Returns: updated snapshot and true, or false when not applicable.
func (c *Controller) Suppress(alertID string, until time.Time, reason string) (domain.Alert, bool) {
	c.mu.Lock()
	alert, ok := c.store.get(alertID)
	if !ok || alert.Status == domain.StatusClosed {
		c.mu.Unlock()
		return domain.Alert{}, false
	}
	now := c.clock.Now()
	deadline := until
	alert.Status = domain.StatusSuppressed
	alert.SuppressedUntil = &deadline
	alert.SuppressionReason = reason
	alert.UpdatedAt = now
	c.sched.Cancel(alertID)
	snapshot := alert.Clone()
	c.mu.Unlock()

	c.publish(domain.EventAlertSuppressed, snapshot)
	return snapshot, true
}

// GetAlert returns one alert snapshot by id.
// Params: alert id.
// Returns: detached snapshot and existence flag.
func (c *Controller) GetAlert(alertID string) (domain.Alert, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	alert, ok := c.store.get(alertID)
	if !ok {
		return domain.Alert{}, false
	}
	return alert.Clone(), true
}

// ClearResolved removes every RESOLVED and CLOSED alert from storage.
// Params: none.
// Returns: number of removed records.
func (c *Controller) ClearResolved() int {
	c.mu.Lock()
	removed := make([]string, 0)
	for id, alert := range c.store.alerts {
		if alert.Status.Terminal() {
			removed = append(removed, id)
		}
	}
	for _, id := range removed {
		c.store.remove(id)
		c.sched.Cancel(id)
	}
	c.mu.Unlock()

	if len(removed) > 0 {
		c.logger.Info("cleared resolved alerts", "removed", len(removed))
	}
	return len(removed)
}

// autoResolveDelay decides whether a submission arms the scheduler.
// Params: submission with optional rule hints.
// Returns: effective delay and arming flag.
func (c *Controller) autoResolveDelay(sub domain.Submission) (time.Duration, bool) {
	if !c.cfg.AutoResolve() || sub.Rule == nil || !sub.Rule.AutoResolve {
		return 0, false
	}
	if sub.Rule.AutoResolveAfterMS > 0 {
		return time.Duration(sub.Rule.AutoResolveAfterMS) * time.Millisecond, true
	}
	return c.cfg.AutoResolveTimeout(), true
}

// autoResolve is the scheduler fire callback. A fire racing a manual resolve
// loses cleanly: Resolve re-checks status under the controller lock and an
// already terminal or missing alert makes the fire a silent no-op. A panic
// inside the action is converted into an error event instead of crashing the
// scheduler worker.
func (c *Controller) autoResolve(alertID string) {
	defer func() {
		if r := recover(); r != nil {
			failure := fmt.Sprintf("auto-resolve %s: %v", alertID, r)
			c.logger.Error("auto-resolve action failed", "alert_id", alertID, "reason", failure)
			if c.bus != nil {
				c.bus.Publish(domain.Event{
					Type:      domain.EventError,
					Error:     failure,
					Timestamp: c.clock.Now(),
				})
			}
		}
	}()

	if alert, ok := c.Resolve(alertID, domain.SystemActor); ok {
		c.logger.Info("alert auto-resolved", "alert_id", alert.ID)
	}
}

// pruneRuleLocked evicts the oldest terminal alerts for one rule until its
// indexed set is back at or under the capacity bound. Active incidents are
// never evicted, so the set legitimately stays over-bound when too few
// alerts are terminal. Caller must hold the write lock.
func (c *Controller) pruneRuleLocked(ruleID string) {
	ids := c.store.byRule(ruleID)
	if len(ids) <= c.cfg.MaxAlertsPerRule {
		return
	}

	candidates := make([]*domain.Alert, 0, len(ids))
	for _, id := range ids {
		if alert, ok := c.store.get(id); ok {
			candidates = append(candidates, alert)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].ID < candidates[j].ID
		}
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})

	excess := len(candidates) - c.cfg.MaxAlertsPerRule
	evicted := 0
	for _, alert := range candidates {
		if evicted >= excess {
			break
		}
		if !alert.Status.Terminal() {
			continue
		}
		c.store.remove(alert.ID)
		c.sched.Cancel(alert.ID)
		evicted++
	}
	if evicted > 0 {
		c.logger.Debug("pruned rule index", "rule_id", ruleID, "evicted", evicted)
	}
}

// resolvable reports whether status is in resolve's source set.
func resolvable(status domain.Status) bool {
	switch status {
	case domain.StatusOpen, domain.StatusAcknowledged, domain.StatusInProgress:
		return true
	}
	return false
}

// publish emits one lifecycle event with a detached snapshot.
// Params: event type and alert snapshot.
// Returns: none; a nil publisher drops the event.
func (c *Controller) publish(eventType domain.EventType, alert domain.Alert) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(domain.Event{
		Type:      eventType,
		Alert:     alert,
		Timestamp: c.clock.Now(),
	})
}
