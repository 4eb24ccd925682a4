package values

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RingType identifies the fraud topology a ring was detected as. The string
// forms are fixed by the upstream engine's payload.
type RingType string

const (
	RingTypeCycle       RingType = "CYCLE"
	RingTypeFanIn       RingType = "FAN-IN"
	RingTypeFanOut      RingType = "FAN-OUT"
	RingTypeShell       RingType = "SHELL"
	RingTypeStructuring RingType = "STRUCTURING"
)

// NewRingType parses and validates a ring type string.
func NewRingType(value string) (RingType, error) {
	rt := RingType(strings.ToUpper(strings.TrimSpace(value)))
	switch rt {
	case RingTypeCycle, RingTypeFanIn, RingTypeFanOut, RingTypeShell, RingTypeStructuring:
		return rt, nil
	default:
		return "", fmt.Errorf("unknown ring type: %q", value)
	}
}

// IsCycle reports whether the ring is a closed money loop.
func (rt RingType) IsCycle() bool {
	return rt == RingTypeCycle
}

// IsFan reports whether the ring is a fan-in or fan-out hub.
func (rt RingType) IsFan() bool {
	return rt == RingTypeFanIn || rt == RingTypeFanOut
}

// IsWindowed reports whether the upstream engine attaches an explicit
// detection window to rings of this type. Fan and structuring detectors are
// window-based; cycle and shell detectors are not.
func (rt RingType) IsWindowed() bool {
	return rt.IsFan() || rt == RingTypeStructuring
}

func (rt RingType) String() string {
	return string(rt)
}

// MarshalJSON implements json.Marshaler
func (rt RingType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(rt))
}

// UnmarshalJSON implements json.Unmarshaler
func (rt *RingType) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	parsed, err := NewRingType(value)
	if err != nil {
		return err
	}
	*rt = parsed
	return nil
}
