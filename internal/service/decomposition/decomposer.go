// Package decomposition reconstructs per-pattern point contributions behind
// an account's final suspicion score. The upstream engine reports only the
// total; the proportional model it used (cycle/fan/shell/velocity bases and
// caps) is known, but its exact inputs are not in the payload and must be
// recovered from the free-text reasons with fixed fallbacks. The result is a
// bounded approximation for display, never a recomputation: the sum of
// segments is allowed to differ from the authoritative score and callers must
// not reconcile the two.
package decomposition

import (
	"fmt"
	"math"
	"strconv"

	"github.com/davidleathers/muletrace-analytics/internal/domain/detection"
)

// Pattern keys one scoring term of the upstream proportional model.
type Pattern string

const (
	PatternCycle    Pattern = "cycle"
	PatternFan      Pattern = "fan"
	PatternShell    Pattern = "shell"
	PatternVelocity Pattern = "velocity"
)

// Upstream proportional scoring model. These mirror the engine's published
// weights and are contract constants, not tunables.
const (
	cycleBase = 30.0

	fanBase             = 20.0
	fanThreshold        = 10
	fanBaseCap          = 45.0
	fanWindowMultiplier = 1.3

	shellBase    = 15.0
	shellPerHop  = 4.0
	shellMinHops = 3
	shellCap     = 35.0

	velocityBase      = 5.0
	velocityThreshold = 5
	velocityCap       = 15.0
)

// Fallback inputs used when text extraction finds nothing.
const (
	defaultCounterparties = 10
	defaultChainLength    = 4
	defaultVelocityTxns   = 8
)

// Segment is one pattern's reconstructed contribution to the displayed score
// breakdown. Points are always non-negative.
type Segment struct {
	Pattern     Pattern `json:"pattern"`
	Points      float64 `json:"points"`
	Label       string  `json:"label"`
	Color       string  `json:"color"`
	Description string  `json:"description"`
}

// Tooltip renders the stacked-bar hover text for this segment.
func (s Segment) Tooltip() string {
	return fmt.Sprintf("%s: +%s pts", s.Label, strconv.FormatFloat(s.Points, 'f', -1, 64))
}

var segmentMeta = map[Pattern]struct {
	label       string
	color       string
	description string
}{
	PatternCycle: {
		label:       "Cycle",
		color:       "#ef4444",
		description: "Account takes part in a closed transaction loop",
	},
	PatternFan: {
		label:       "Fan pattern",
		color:       "#f97316",
		description: "Hub rapidly aggregating from or dispersing to many counterparties",
	},
	PatternShell: {
		label:       "Shell chain",
		color:       "#8b5cf6",
		description: "Link in a chain of low-activity pass-through accounts",
	},
	PatternVelocity: {
		label:       "Velocity",
		color:       "#eab308",
		description: "Transaction burst above the 24h velocity threshold",
	},
}

func newSegment(pattern Pattern, points float64) Segment {
	meta := segmentMeta[pattern]
	return Segment{
		Pattern:     pattern,
		Points:      points,
		Label:       meta.label,
		Color:       meta.color,
		Description: meta.description,
	}
}

// Decompose derives the pattern segments behind an account's score. It is
// pure and total: extraction failures fall back to defaults, and an account
// with no pattern flags yields an empty segment list and a zero total.
// Segment order is fixed (cycle, fan, shell, velocity) so repeated renders of
// the same payload stack identically.
//
// The returned total is the sum of segment points. It is the display fallback
// for unscored accounts, not a replacement for the authoritative score.
func Decompose(acct detection.AccountRecord) ([]Segment, float64) {
	segments := make([]Segment, 0, 4)

	if acct.HasCycle {
		if points := cycleScore(acct.Reasons); points > 0 {
			segments = append(segments, newSegment(PatternCycle, points))
		}
	}
	if acct.HasFan {
		segments = append(segments, newSegment(PatternFan, fanScore(acct.Reasons)))
	}
	if acct.HasShell {
		segments = append(segments, newSegment(PatternShell, shellScore(acct.Reasons)))
	}
	if acct.HasVelocity {
		segments = append(segments, newSegment(PatternVelocity, velocityScore(acct.VelocityTxns)))
	}

	var total float64
	for _, s := range segments {
		total += s.Points
	}
	return segments, total
}

// cycleScore is flat: the exact cycle length never survives into the reasons
// text, so severity cannot be graded. No "cycle" mention at all means the
// flag cannot be corroborated and contributes nothing.
func cycleScore(reasons string) float64 {
	if !mentionsCycle(reasons) {
		return 0
	}
	return cycleBase
}

// fanScore grows by one point per counterparty above the detection threshold,
// capped before the short-window multiplier the engine applies to every fan
// finding it reports.
func fanScore(reasons string) float64 {
	cp := extractCounterparties(reasons)
	extra := math.Max(0, float64(cp-fanThreshold))
	base := math.Min(fanBase+extra, fanBaseCap)
	return round1(base * fanWindowMultiplier)
}

// shellScore grows with chain depth. A chain of length L has L-1 hops; hops
// beyond the detection minimum add weight up to the cap.
func shellScore(reasons string) float64 {
	length := extractChainLength(reasons)
	extraHops := math.Max(0, float64((length-1)-shellMinHops))
	return math.Min(shellBase+extraHops*shellPerHop, shellCap)
}

// velocityScore uses the one structured input the payload does carry; when it
// is missing the fixed default lands mid-band.
func velocityScore(velocityTxns *int) float64 {
	txns := defaultVelocityTxns
	if velocityTxns != nil {
		txns = *velocityTxns
	}
	extra := math.Max(0, float64(txns-velocityThreshold))
	return math.Min(velocityBase+extra, velocityCap)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
