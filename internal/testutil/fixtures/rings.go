package fixtures

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/davidleathers/muletrace-analytics/internal/domain/detection"
	"github.com/davidleathers/muletrace-analytics/internal/domain/values"
)

// RingBuilder builds test Ring entities
type RingBuilder struct {
	t    *testing.T
	ring detection.Ring
}

// NewRingBuilder creates a new RingBuilder with defaults
func NewRingBuilder(t *testing.T) *RingBuilder {
	t.Helper()
	return &RingBuilder{
		t: t,
		ring: detection.Ring{
			RingID:      "CYCLE-0001",
			Type:        values.RingTypeCycle,
			Accounts:    []string{"ACC-0001", "ACC-0002", "ACC-0003"},
			TotalAmount: decimal.NewFromInt(50000),
		},
	}
}

// WithID sets the ring ID
func (b *RingBuilder) WithID(id string) *RingBuilder {
	b.ring.RingID = id
	return b
}

// WithType sets the ring type
func (b *RingBuilder) WithType(rt values.RingType) *RingBuilder {
	b.ring.Type = rt
	return b
}

// WithAccounts sets the ordered member list
func (b *RingBuilder) WithAccounts(accounts ...string) *RingBuilder {
	b.ring.Accounts = accounts
	return b
}

// WithTxCount fills tx_ids with the given number of synthetic ids
func (b *RingBuilder) WithTxCount(n int) *RingBuilder {
	txIDs := make([]string, n)
	for i := range txIDs {
		txIDs[i] = fmt.Sprintf("TX-%04d", i+1)
	}
	b.ring.TxIDs = txIDs
	return b
}

// WithWindow sets the activity window
func (b *RingBuilder) WithWindow(start, end time.Time) *RingBuilder {
	ws := detection.NewTimestamp(start)
	we := detection.NewTimestamp(end)
	b.ring.WindowStart = &ws
	b.ring.WindowEnd = &we
	return b
}

// WithTotalAmount sets the ring's aggregate amount
func (b *RingBuilder) WithTotalAmount(amount decimal.Decimal) *RingBuilder {
	b.ring.TotalAmount = amount
	return b
}

// Build creates the Ring
func (b *RingBuilder) Build() detection.Ring {
	return b.ring
}
