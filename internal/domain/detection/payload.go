// Package detection holds the input contract of the upstream fraud detection
// engine. The analytics layer consumes this payload as-is; nothing here is
// produced locally and the field names are fixed by the engine's JSON output.
package detection

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/davidleathers/muletrace-analytics/internal/domain/values"
)

// AccountRecord is one flagged account from the engine's suspicious_accounts
// list. Score is nil when the engine skipped the account (activity above its
// transaction ceiling). Reasons is free human-readable text, not a machine
// format; the decomposition layer mines it on a best-effort basis.
type AccountRecord struct {
	AccountID    string                  `json:"account_id" validate:"required"`
	RingID       *string                 `json:"ring_id"`
	Score        *values.SuspicionScore  `json:"score"`
	Skipped      bool                    `json:"skipped"`
	HasCycle     bool                    `json:"has_cycle"`
	HasFan       bool                    `json:"has_fan"`
	HasShell     bool                    `json:"has_shell"`
	HasVelocity  bool                    `json:"has_velocity"`
	VelocityTxns *int                    `json:"velocity_txns,omitempty"`
	TotalTxns    int                     `json:"total_txns" validate:"gte=0"`
	Reasons      string                  `json:"reasons"`
}

// Flagged reports whether any pattern flag is set.
func (a AccountRecord) Flagged() bool {
	return a.HasCycle || a.HasFan || a.HasShell || a.HasVelocity
}

// Ring is one detected fraud ring. Accounts is the ordered member list; for
// fan and structuring rings it holds just the hub. Window fields are present
// only for windowed detectors (fan-in/out, structuring).
type Ring struct {
	RingID            string          `json:"ring_id" validate:"required"`
	Type              values.RingType `json:"type" validate:"required"`
	Accounts          []string        `json:"accounts"`
	TxIDs             []string        `json:"tx_ids"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	WindowStart       *Timestamp      `json:"window_start,omitempty"`
	WindowEnd         *Timestamp      `json:"window_end,omitempty"`
	CounterpartyCount *int            `json:"counterparty_count,omitempty"`
	CycleLength       *int            `json:"cycle_length,omitempty"`
	Hops              *int            `json:"hops,omitempty"`
}

// HasWindow reports whether the ring carries an explicit time window. A
// degenerate window (end not after start) still counts; consumers clamp it.
func (r Ring) HasWindow() bool {
	return r.WindowStart != nil && r.WindowEnd != nil
}

// Payload is the engine's full analysis response: the only input this layer
// ever sees. Summary is aggregate statistics the analytics never interpret;
// it is carried through verbatim for the presentation layer.
type Payload struct {
	SuspiciousAccounts []AccountRecord `json:"suspicious_accounts" validate:"dive"`
	FraudRings         map[string]Ring `json:"fraud_rings" validate:"dive"`
	Summary            json.RawMessage `json:"summary,omitempty"`
}

// Rings returns the ring collection in deterministic (ring id sorted) order.
// The JSON object form gives no ordering, and downstream derivations must be
// stable across identical payloads.
func (p *Payload) Rings() []Ring {
	return sortedRings(p.FraudRings)
}

// Empty reports whether the payload carries nothing to derive from.
func (p *Payload) Empty() bool {
	return len(p.SuspiciousAccounts) == 0 && len(p.FraudRings) == 0
}
