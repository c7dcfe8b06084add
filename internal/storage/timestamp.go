package storage

import (
	"time"
)

// TimestampLayout is the only accepted textual form of a Timestamp.
const TimestampLayout = "2006-01-02 15:04"

// Timestamp is an instant with minute granularity. Seconds and below are
// dropped on construction, so Format/ParseTimestamp round-trip exactly.
//
// The zero value is invalid. Ordering methods panic on invalid operands,
// check Valid first.
type Timestamp struct {
	t     time.Time
	valid bool
}

// ParseTimestamp parses text in TimestampLayout in the local time zone.
// Unparsable input gives an invalid Timestamp.
func ParseTimestamp(text string) Timestamp {
	t, err := time.ParseInLocation(TimestampLayout, text, time.Local)
	if err != nil {
		return Timestamp{}
	}
	return Timestamp{t: t, valid: true}
}

// TimestampOf truncates t to the minute.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp{t: t.Truncate(time.Minute), valid: true}
}

func (ts Timestamp) Valid() bool {
	return ts.valid
}

// IsFuture reports whether ts is strictly after now. Invalid timestamps are never in the future.
func (ts Timestamp) IsFuture(now time.Time) bool {
	return ts.valid && ts.t.After(now)
}

func (ts Timestamp) Time() time.Time {
	ts.mustBeValid()
	return ts.t
}

func (ts Timestamp) Before(other Timestamp) bool {
	return ts.Compare(other) < 0
}

func (ts Timestamp) After(other Timestamp) bool {
	return ts.Compare(other) > 0
}

func (ts Timestamp) Equal(other Timestamp) bool {
	return ts.Compare(other) == 0
}

// Compare returns -1, 0 or +1.
func (ts Timestamp) Compare(other Timestamp) int {
	ts.mustBeValid()
	other.mustBeValid()
	return ts.t.Compare(other.t)
}

func (ts Timestamp) Format() string {
	if !ts.valid {
		return ""
	}
	return ts.t.Local().Format(TimestampLayout)
}

func (ts Timestamp) String() string {
	if !ts.valid {
		return "<invalid>"
	}
	return ts.Format()
}

func (ts Timestamp) mustBeValid() {
	if !ts.valid {
		panic("storage: use of invalid timestamp")
	}
}
