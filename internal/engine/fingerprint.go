package engine

import (
	"crypto/sha1"
	"encoding/hex"

	"github.com/oklog/ulid/v2"
)

// BuildFingerprint builds deterministic dedup identity for one alert tuple.
// Params: defining attributes (tenant, source, source id, name, message).
// Returns: sha1 hex digest over the canonical attribute sequence.
//
// The hash is not collision-proof: two distinct tuples that collide merge
// into one alert's occurrence count. Acceptable for dedup; a stronger hash
// can be substituted without changing the contract.
func BuildFingerprint(tenantID, source, sourceID, name, message string) string {
	fields := []string{tenantID, source, sourceID, name, message}
	capacity := len(fields) - 1
	for _, field := range fields {
		capacity += len(field)
	}

	canonical := make([]byte, 0, capacity)
	for index, field := range fields {
		if index > 0 {
			canonical = append(canonical, '\n')
		}
		canonical = append(canonical, field...)
	}
	digest := sha1.Sum(canonical)
	return hex.EncodeToString(digest[:])
}

// NewAlertID creates one unique, creation-ordered alert identifier.
// Params: none.
// Returns: ULID string; lexicographic order follows creation time.
func NewAlertID() string {
	return ulid.Make().String()
}
