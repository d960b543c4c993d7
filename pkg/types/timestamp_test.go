package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampMarshalUsesMillisecondUTC(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	ts := NewTimestamp(time.Date(2025, 3, 10, 5, 30, 0, 123456789, loc))

	out, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2025-03-10T10:30:00.123Z"` {
		t.Fatalf("unexpected encoding %s", out)
	}
}

func TestTimestampUnmarshalAcceptsRFC3339(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"2025-03-10T12:00:00+02:00"`), &ts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !ts.Equal(time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected instant %s", ts.Time)
	}
	if err := json.Unmarshal([]byte(`"tomorrow"`), &ts); err == nil {
		t.Fatal("expected error for free-form text")
	}
}

func TestNullableTimestamp(t *testing.T) {
	if NullableTimestamp(nil) != nil {
		t.Fatal("expected nil")
	}
	now := time.Now()
	if got := NullableTimestamp(&now); got == nil || !got.Equal(now) {
		t.Fatalf("unexpected %v", got)
	}
}

func TestParseTimestampTruncatesToMilliseconds(t *testing.T) {
	parsed, err := ParseTimestamp("2025-03-10T10:00:00.123456789+02:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2025, 3, 10, 8, 0, 0, 123000000, time.UTC)
	if !parsed.Equal(want) || parsed.Location() != time.UTC {
		t.Fatalf("expected %s, got %s", want, parsed)
	}

	out, err := json.Marshal(NewTimestamp(parsed))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Timestamp
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Time.Equal(parsed) {
		t.Fatalf("round trip changed value: %s -> %s", parsed, back.Time)
	}
}
