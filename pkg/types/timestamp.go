package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the wire format for instants: UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp renders a time.Time using TimestampLayout.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// NullableTimestamp returns nil for a nil input so optional instants serialize as null.
func NullableTimestamp(t *time.Time) *Timestamp {
	if t == nil {
		return nil
	}
	ts := NewTimestamp(*t)
	return &ts
}

// String formats the instant in UTC.
func (t Timestamp) String() string {
	return t.UTC().Format(TimestampLayout)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts TimestampLayout and falls back to RFC 3339.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// ParseTimestamp parses a wire timestamp into UTC at millisecond precision.
func ParseTimestamp(raw string) (time.Time, error) {
	parsed, err := time.Parse(TimestampLayout, raw)
	if err != nil {
		if parsed, err = time.Parse(time.RFC3339Nano, raw); err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
		}
	}
	// the wire carries milliseconds; finer precision would not survive a round trip
	return parsed.UTC().Truncate(time.Millisecond), nil
}
