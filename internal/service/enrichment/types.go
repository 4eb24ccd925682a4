package enrichment

import (
	"encoding/json"

	"github.com/davidleathers/muletrace-analytics/internal/service/decomposition"
	"github.com/davidleathers/muletrace-analytics/internal/service/ringgraph"
	"github.com/davidleathers/muletrace-analytics/internal/service/timeline"
)

// AccountBreakdown pairs one account's reconstructed score segments with the
// authoritative score the upstream engine assigned. The two totals are shown
// side by side and never reconciled; the reconstruction is a bounded
// approximation of the engine's scoring model.
type AccountBreakdown struct {
	AccountID string  `json:"account_id"`
	RingID    *string `json:"ring_id"`
	Skipped   bool    `json:"skipped"`

	Segments           []decomposition.Segment `json:"segments"`
	ReconstructedTotal float64                 `json:"reconstructed_total"`

	// AuthoritativeScore is the engine's score, nil when the account was
	// never scored. DisplayScore is what the UI renders: the authoritative
	// score when present, otherwise the reconstructed total.
	AuthoritativeScore *float64 `json:"authoritative_score"`
	DisplayScore       float64  `json:"display_score"`
}

// Result is the full derived view for one payload.
type Result struct {
	Accounts     []AccountBreakdown     `json:"accounts"`
	Timeline     []timeline.Bucket      `json:"timeline"`
	BurstWindows []timeline.BurstWindow `json:"burst_windows"`
	Graph        ringgraph.Graph        `json:"graph"`

	// Summary is the upstream aggregate block, echoed back untouched.
	Summary json.RawMessage `json:"summary,omitempty"`
}

// SegmentCount is the number of decomposition segments across all accounts.
func (r *Result) SegmentCount() int {
	n := 0
	for _, a := range r.Accounts {
		n += len(a.Segments)
	}
	return n
}
