package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"aiinsights.blog/cli/internal/core/textutil"
)

// ID is an entity identifier. The API sends either integer keys or string
// slugs; both decode to their text form.
type ID string

// String returns the identifier text
func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON accepts a JSON string or number
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number, got %s", data)
	}
	*id = ID(n.String())
	return nil
}

// Timestamp is a point in time as emitted by the API, with or without a
// zone offset. Offset-less values are read as UTC.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t}
}

// UnmarshalJSON accepts any layout textutil.ParseDate understands
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		ts.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string, got %s", data)
	}
	if s == "" {
		ts.Time = time.Time{}
		return nil
	}

	t, err := textutil.ParseDate(s)
	if err != nil {
		return err
	}
	ts.Time = t
	return nil
}

// TimeOrZero returns the wrapped time, or the zero time for a nil Timestamp
func (ts *Timestamp) TimeOrZero() time.Time {
	if ts == nil {
		return time.Time{}
	}
	return ts.Time
}
