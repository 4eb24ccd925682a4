package values

import (
	"encoding/json"
	"fmt"
)

// RiskBand buckets a suspicion score the way the upstream engine's summary
// does (score_distribution counts).
type RiskBand string

const (
	RiskBandLow    RiskBand = "low"
	RiskBandMedium RiskBand = "medium"
	RiskBandHigh   RiskBand = "high"
)

// SuspicionScore is the upstream engine's final 0-100 risk value for an
// account. It is authoritative: the analytics layer displays it and never
// recomputes it.
type SuspicionScore struct {
	value float64
}

// NewSuspicionScore creates a validated score.
func NewSuspicionScore(value float64) (SuspicionScore, error) {
	if value < 0 || value > 100 {
		return SuspicionScore{}, fmt.Errorf("suspicion score %v out of range [0, 100]", value)
	}
	return SuspicionScore{value: value}, nil
}

// MustNewSuspicionScore creates a score, panicking on invalid input.
// For tests and fixtures only.
func MustNewSuspicionScore(value float64) SuspicionScore {
	s, err := NewSuspicionScore(value)
	if err != nil {
		panic(err)
	}
	return s
}

// Value returns the raw 0-100 score.
func (s SuspicionScore) Value() float64 {
	return s.value
}

// Band returns the risk band: <40 low, 40-69 medium, >=70 high.
func (s SuspicionScore) Band() RiskBand {
	switch {
	case s.value >= 70:
		return RiskBandHigh
	case s.value >= 40:
		return RiskBandMedium
	default:
		return RiskBandLow
	}
}

func (s SuspicionScore) String() string {
	return fmt.Sprintf("%.1f", s.value)
}

// MarshalJSON implements json.Marshaler
func (s SuspicionScore) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (s *SuspicionScore) UnmarshalJSON(data []byte) error {
	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	parsed, err := NewSuspicionScore(value)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
