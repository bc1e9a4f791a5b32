package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// timeLayouts are the timestamp shapes the remote service emits. Python's
// isoformat omits the zone for naive datetimes, so RFC 3339 alone is not
// enough.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
}

// Time is a time.Time that decodes the loose timestamp formats returned by
// the API. Zoneless values are interpreted as UTC.
type Time struct {
	time.Time
}

// ParseTime parses s using the accepted API layouts.
func ParseTime(s string) (Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Time{Time: t}, nil
		}
	}
	return Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// UnmarshalJSON accepts null, empty strings and any layout in timeLayouts.
func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON encodes the zero value as null and everything else as RFC 3339.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
