package fixtures

import (
	"encoding/json"
	"testing"

	"github.com/davidleathers/muletrace-analytics/internal/domain/detection"
)

// PayloadBuilder builds test Payload entities
type PayloadBuilder struct {
	t       *testing.T
	payload detection.Payload
}

// NewPayloadBuilder creates a new PayloadBuilder with an empty payload
func NewPayloadBuilder(t *testing.T) *PayloadBuilder {
	t.Helper()
	return &PayloadBuilder{
		t: t,
		payload: detection.Payload{
			FraudRings: map[string]detection.Ring{},
		},
	}
}

// WithAccount appends an account record
func (b *PayloadBuilder) WithAccount(acct detection.AccountRecord) *PayloadBuilder {
	b.payload.SuspiciousAccounts = append(b.payload.SuspiciousAccounts, acct)
	return b
}

// WithRing adds a ring keyed by its ring ID
func (b *PayloadBuilder) WithRing(ring detection.Ring) *PayloadBuilder {
	b.payload.FraudRings[ring.RingID] = ring
	return b
}

// WithSummary sets the opaque summary block
func (b *PayloadBuilder) WithSummary(summary json.RawMessage) *PayloadBuilder {
	b.payload.Summary = summary
	return b
}

// Build creates the Payload
func (b *PayloadBuilder) Build() *detection.Payload {
	p := b.payload
	return &p
}
