package fixtures

import (
	"fmt"
	"testing"

	"github.com/davidleathers/muletrace-analytics/internal/domain/detection"
	"github.com/davidleathers/muletrace-analytics/internal/domain/values"
)

// AccountBuilder builds test AccountRecord entities
type AccountBuilder struct {
	t       *testing.T
	account detection.AccountRecord
}

// NewAccountBuilder creates a new AccountBuilder with defaults
func NewAccountBuilder(t *testing.T) *AccountBuilder {
	t.Helper()
	return &AccountBuilder{
		t: t,
		account: detection.AccountRecord{
			AccountID: "ACC-0001",
			TotalTxns: 12,
		},
	}
}

// WithID sets the account ID
func (b *AccountBuilder) WithID(id string) *AccountBuilder {
	b.account.AccountID = id
	return b
}

// WithRing assigns the account to a ring
func (b *AccountBuilder) WithRing(ringID string) *AccountBuilder {
	b.account.RingID = &ringID
	return b
}

// WithScore sets the authoritative suspicion score
func (b *AccountBuilder) WithScore(score float64) *AccountBuilder {
	b.t.Helper()
	s := values.MustNewSuspicionScore(score)
	b.account.Score = &s
	return b
}

// Skipped marks the account as skipped by the engine
func (b *AccountBuilder) Skipped() *AccountBuilder {
	b.account.Skipped = true
	return b
}

// WithCycle sets the cycle flag and appends a reason
func (b *AccountBuilder) WithCycle() *AccountBuilder {
	b.account.HasCycle = true
	return b.WithReason("part of a transaction cycle")
}

// WithFan sets the fan flag and appends a counterparty reason
func (b *AccountBuilder) WithFan(counterparties int) *AccountBuilder {
	b.account.HasFan = true
	return b.WithReason(fmt.Sprintf("fan pattern with %d counterparties", counterparties))
}

// WithShell sets the shell flag and appends a chain-length reason
func (b *AccountBuilder) WithShell(chainLength int) *AccountBuilder {
	b.account.HasShell = true
	return b.WithReason(fmt.Sprintf("shell chain of length %d", chainLength))
}

// WithVelocity sets the velocity flag and transaction count
func (b *AccountBuilder) WithVelocity(txns int) *AccountBuilder {
	b.account.HasVelocity = true
	b.account.VelocityTxns = &txns
	return b.WithReason(fmt.Sprintf("high velocity: %d txns in window", txns))
}

// WithReason appends free text to the reasons field
func (b *AccountBuilder) WithReason(reason string) *AccountBuilder {
	if b.account.Reasons != "" {
		b.account.Reasons += "; "
	}
	b.account.Reasons += reason
	return b
}

// Build creates the AccountRecord
func (b *AccountBuilder) Build() detection.AccountRecord {
	return b.account
}
