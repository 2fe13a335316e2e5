package engine

import "alertcycle/internal/domain"

// store owns canonical alert records and the derived indices.
// Params: alerts by id, fingerprint-to-live-id mapping, and per-rule id sets.
// Returns: pure storage without business rules; the controller serializes
// every mutation in one critical section so the three structures never
// disagree.
type store struct {
	alerts       map[string]*domain.Alert
	fingerprints map[string]string
	ruleIndex    map[string][]string
}

// newStore creates empty alert storage.
// Params: none.
// Returns: initialized store.
func newStore() *store {
	return &store{
		alerts:       make(map[string]*domain.Alert),
		fingerprints: make(map[string]string),
		ruleIndex:    make(map[string][]string),
	}
}

// get returns mutable record by id.
// Params: alert id.
// Returns: record pointer and existence flag.
func (s *store) get(id string) (*domain.Alert, bool) {
	alert, ok := s.alerts[id]
	return alert, ok
}

// put registers record and points its fingerprint mapping at it.
// Params: record pointer with id and fingerprint set.
// Returns: stale fingerprint mapping overwritten; the previous alert stays
// in the store, addressable by id, until pruned.
func (s *store) put(alert *domain.Alert) {
	s.alerts[alert.ID] = alert
	if alert.Fingerprint != "" {
		s.fingerprints[alert.Fingerprint] = alert.ID
	}
	if alert.RuleID != "" {
		s.ruleIndex[alert.RuleID] = append(s.ruleIndex[alert.RuleID], alert.ID)
	}
}

// remove deletes record and detaches index entries that still point at it.
// Params: alert id.
// Returns: none; unknown id is a no-op.
func (s *store) remove(id string) {
	alert, ok := s.alerts[id]
	if !ok {
		return
	}
	delete(s.alerts, id)
	if alert.Fingerprint != "" && s.fingerprints[alert.Fingerprint] == id {
		delete(s.fingerprints, alert.Fingerprint)
	}
	if alert.RuleID != "" {
		s.ruleIndex[alert.RuleID] = removeID(s.ruleIndex[alert.RuleID], id)
		if len(s.ruleIndex[alert.RuleID]) == 0 {
			delete(s.ruleIndex, alert.RuleID)
		}
	}
}

// findByFingerprint returns the live record for one fingerprint.
// Params: fingerprint digest.
// Returns: record pointer and existence flag.
func (s *store) findByFingerprint(fingerprint string) (*domain.Alert, bool) {
	id, ok := s.fingerprints[fingerprint]
	if !ok {
		return nil, false
	}
	alert, ok := s.alerts[id]
	return alert, ok
}

// byRule returns indexed alert ids for one rule.
// Params: rule id.
// Returns: id slice in insertion order (shared, callers must not mutate).
func (s *store) byRule(ruleID string) []string {
	return s.ruleIndex[ruleID]
}

// removeID removes first occurrence of id from slice.
// Params: id slice and target id.
// Returns: filtered slice.
func removeID(ids []string, id string) []string {
	for index, candidate := range ids {
		if candidate == id {
			return append(ids[:index], ids[index+1:]...)
		}
	}
	return ids
}
