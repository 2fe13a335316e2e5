package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"alertcycle/internal/domain"
)

const maxPooledBatchCapacity = 4096

type decodeScratch struct {
	submissions []domain.Submission
}

var decodeScratchPool = sync.Pool{
	New: func() any {
		return &decodeScratch{submissions: make([]domain.Submission, 0, 16)}
	},
}

// decodeSubmissionPayloadInto auto-detects batch vs single payload. The
// returned slice is backed by the scratch buffer, so callers must finish
// with it before releasing the scratch.
// Params: raw JSON bytes with one object or array, pooled scratch.
// Returns: validated submissions slice.
func decodeSubmissionPayloadInto(raw []byte, scratch *decodeScratch) ([]domain.Submission, error) {
	payload := bytes.TrimSpace(raw)
	if len(payload) == 0 {
		return nil, errors.New("empty payload")
	}
	decoder := json.NewDecoder(bytes.NewReader(payload))
	if payload[0] == '[' {
		return decodeSubmissionBatchInto(decoder, scratch)
	}
	submission, err := decodeSingleSubmission(decoder)
	if err != nil {
		return nil, err
	}
	submissions := scratch.submissions[:0]
	submissions = append(submissions, submission)
	scratch.submissions = submissions
	return submissions, nil
}

// decodeSingleSubmission decodes one submission and rejects trailing JSON tokens.
// Params: json decoder for a single submission object.
// Returns: validated submission or decode error.
func decodeSingleSubmission(decoder *json.Decoder) (domain.Submission, error) {
	submission, err := domain.DecodeSubmissionReader(decoder)
	if err != nil {
		return domain.Submission{}, err
	}
	if err := ensureJSONEOF(decoder); err != nil {
		return domain.Submission{}, err
	}
	return submission, nil
}

func decodeSubmissionBatchInto(decoder *json.Decoder, scratch *decodeScratch) ([]domain.Submission, error) {
	submissions := scratch.submissions[:0]
	if err := decoder.Decode(&submissions); err != nil {
		return nil, fmt.Errorf("decode submission batch: %w", err)
	}
	if len(submissions) == 0 {
		return nil, errors.New("submission batch must contain at least one entry")
	}
	for i := range submissions {
		if err := submissions[i].Validate(); err != nil {
			return nil, fmt.Errorf("submission[%d]: %w", i, err)
		}
	}
	if err := ensureJSONEOF(decoder); err != nil {
		return nil, err
	}
	scratch.submissions = submissions
	return submissions, nil
}

func acquireDecodeScratch() *decodeScratch {
	return decodeScratchPool.Get().(*decodeScratch)
}

func releaseDecodeScratch(scratch *decodeScratch) {
	if scratch == nil {
		return
	}
	for i := range scratch.submissions {
		scratch.submissions[i] = domain.Submission{}
	}
	if cap(scratch.submissions) > maxPooledBatchCapacity {
		scratch.submissions = make([]domain.Submission, 0, 16)
	} else {
		scratch.submissions = scratch.submissions[:0]
	}
	decodeScratchPool.Put(scratch)
}

// ensureJSONEOF rejects trailing tokens after a decoded JSON payload.
// Params: decoder positioned after primary decode.
// Returns: nil on EOF or error on trailing tokens.
func ensureJSONEOF(decoder *json.Decoder) error {
	var extra json.RawMessage
	err := decoder.Decode(&extra)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("decode trailing json: %w", err)
	}
	return errors.New("unexpected trailing json tokens")
}
