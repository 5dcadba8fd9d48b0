package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ID is a backend identifier. The backend sends numeric ids for most
// resources and string ids for a few, so both decode into a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	*id = ID(b)
	return nil
}

func (id ID) String() string { return string(id) }

// Amount is a money value. Decoding never fails: numbers, numeric strings
// and null are accepted, anything else becomes zero.
type Amount struct {
	decimal.Decimal
}

func NewAmount(f float64) Amount {
	return Amount{decimal.NewFromFloat(f)}
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	a.Decimal = parseAmount(b)
	return nil
}

// MarshalJSON writes the amount as a bare JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

func parseAmount(b []byte) decimal.Decimal {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return decimal.Zero
	}

	raw := string(b)
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return decimal.Zero
		}
		raw = strings.TrimSpace(s)
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Timestamp accepts the date formats the backend has been seen to emit:
// RFC3339, ISO local date-times, epoch milliseconds and the
// [year, month, day, hour, minute, second, nanos] array form.
// Anything else decodes to the zero time.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func NewTimestamp(t time.Time) Timestamp { return Timestamp{t} }

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	ts.Time = parseTimestamp(bytes.TrimSpace(b))
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Time.UTC().Format(time.RFC3339Nano))
}

func parseTimestamp(b []byte) time.Time {
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return time.Time{}
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return time.Time{}
		}
		s = strings.TrimSpace(s)
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
		return time.Time{}

	case '[':
		var parts []int
		if err := json.Unmarshal(b, &parts); err != nil || len(parts) < 3 {
			return time.Time{}
		}
		for len(parts) < 7 {
			parts = append(parts, 0)
		}
		return time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], parts[6], time.UTC)

	default:
		ms, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			return time.Time{}
		}
		return time.UnixMilli(ms).UTC()
	}
}
