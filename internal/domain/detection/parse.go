package detection

import (
	"encoding/json"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/davidleathers/muletrace-analytics/internal/domain/errors"
)

var validate = validator.New()

// ParsePayload decodes and validates an engine response body. Decode failures
// map to validation errors (malformed JSON, bad timestamps, unknown ring
// types); contract violations surfaced by the validator map to payload
// errors. An empty-but-well-formed payload is valid: every derivation
// downstream resolves it to empty collections.
func ParsePayload(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.NewValidationError("MALFORMED_PAYLOAD", "payload is not valid engine JSON").WithCause(err)
	}

	// The engine keys fraud_rings by ring id and repeats the id inside each
	// entry; tolerate entries that omit the inner copy.
	for id, ring := range p.FraudRings {
		if ring.RingID == "" {
			ring.RingID = id
			p.FraudRings[id] = ring
		}
	}

	if err := validate.Struct(&p); err != nil {
		return nil, errors.NewPayloadError("PAYLOAD_CONTRACT_VIOLATION", "payload violates the engine contract").WithCause(err)
	}

	return &p, nil
}

func sortedRings(rings map[string]Ring) []Ring {
	ids := make([]string, 0, len(rings))
	for id := range rings {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]Ring, 0, len(ids))
	for _, id := range ids {
		out = append(out, rings[id])
	}
	return out
}
