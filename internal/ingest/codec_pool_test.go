package ingest

import (
	"testing"

	"alertcycle/internal/domain"
)

func TestDecodeSubmissionPayloadIntoSingle(t *testing.T) {
	t.Parallel()

	scratch := acquireDecodeScratch()
	defer releaseDecodeScratch(scratch)

	payload := []byte(`{"tenant_id":"t1","name":"HighCPU","severity":"CRITICAL","source":"cpu","source_id":"host1","message":"cpu>90%"}`)
	submissions, err := decodeSubmissionPayloadInto(payload, scratch)
	if err != nil {
		t.Fatalf("decode single payload: %v", err)
	}
	if len(submissions) != 1 {
		t.Fatalf("expected one submission, got %d", len(submissions))
	}
	if submissions[0].SourceID != "host1" {
		t.Fatalf("unexpected source id: %q", submissions[0].SourceID)
	}
}

func TestDecodeSubmissionPayloadIntoBatch(t *testing.T) {
	t.Parallel()

	scratch := acquireDecodeScratch()
	defer releaseDecodeScratch(scratch)

	payload := []byte(`[{"tenant_id":"t1","name":"HighCPU","source":"cpu","source_id":"host1","message":"cpu>90%"},{"tenant_id":"t1","name":"HighCPU","source":"cpu","source_id":"host2","message":"cpu>90%"}]`)
	submissions, err := decodeSubmissionPayloadInto(payload, scratch)
	if err != nil {
		t.Fatalf("decode batch payload: %v", err)
	}
	if len(submissions) != 2 {
		t.Fatalf("expected two submissions, got %d", len(submissions))
	}
	if submissions[1].SourceID != "host2" {
		t.Fatalf("unexpected second source id: %q", submissions[1].SourceID)
	}
}

func TestDecodeSubmissionPayloadRejectsInvalidEntries(t *testing.T) {
	t.Parallel()

	scratch := acquireDecodeScratch()
	defer releaseDecodeScratch(scratch)

	cases := map[string]string{
		"empty":            ``,
		"empty batch":      `[]`,
		"missing message":  `{"tenant_id":"t1","name":"HighCPU","source":"cpu"}`,
		"bad severity":     `{"tenant_id":"t1","name":"HighCPU","source":"cpu","message":"m","severity":"LOUD"}`,
		"trailing tokens":  `{"tenant_id":"t1","name":"HighCPU","source":"cpu","message":"m"}{}`,
		"invalid in batch": `[{"tenant_id":"t1","name":"HighCPU","source":"cpu","message":"m"},{"tenant_id":"","name":"x","source":"s","message":"m"}]`,
	}
	for name, payload := range cases {
		if _, err := decodeSubmissionPayloadInto([]byte(payload), scratch); err == nil {
			t.Fatalf("case %q: expected decode error", name)
		}
	}
}

func TestReleaseDecodeScratchDropsOversizedBuffer(t *testing.T) {
	t.Parallel()

	scratch := &decodeScratch{
		submissions: make([]domain.Submission, 0, maxPooledBatchCapacity+1),
	}
	releaseDecodeScratch(scratch)
	if cap(scratch.submissions) > maxPooledBatchCapacity {
		t.Fatalf("expected capped pooled capacity, got %d", cap(scratch.submissions))
	}
}
