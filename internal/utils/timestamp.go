package utils

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// backendLayouts are tried in order. The backend emits naive UTC timestamps
// ("2024-05-01T10:00:00.123456") as well as RFC 3339.
var backendLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Timestamp is a time.Time that decodes every timestamp format the backend produces.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func ParseTimestamp(value string) (Timestamp, error) {
	for _, layout := range backendLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return Timestamp{Time: t.UTC()}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognised timestamp %q", value)
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		ts.Time = time.Time{}
		return nil
	}
	parsed, err := ParseTimestamp(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + ts.UTC().Format(time.RFC3339Nano) + `"`), nil
}

// Display formats the timestamp for tables, e.g. "Mar 1, 2026, 09:30 AM".
func (ts Timestamp) Display() string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format("Jan 2, 2006, 03:04 PM")
}
