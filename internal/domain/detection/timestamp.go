package detection

import (
	"encoding/json"
	"fmt"
	"time"
)

// timestampLayouts are the wire formats the engine has been observed to emit.
// Window bounds arrive as stringified pandas timestamps ("2024-03-01
// 04:00:00"), occasionally with sub-second precision or an RFC 3339 shape.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a time value parsed leniently from the engine's wire formats.
type Timestamp struct {
	t time.Time
}

// NewTimestamp wraps a time.Time.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t: t}
}

// ParseTimestamp parses one of the engine's known timestamp shapes.
// Timestamps without an offset are taken as UTC.
func ParseTimestamp(value string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return Timestamp{t: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp format: %q", value)
}

// Time returns the parsed time.
func (ts Timestamp) Time() time.Time {
	return ts.t
}

func (ts Timestamp) String() string {
	return ts.t.Format(time.RFC3339)
}

// MarshalJSON implements json.Marshaler
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.t.Format(time.RFC3339))
}

// UnmarshalJSON implements json.Unmarshaler
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(value)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
