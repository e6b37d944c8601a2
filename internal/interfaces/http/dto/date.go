package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar-date form accepted alongside RFC 3339
const DateLayout = "2006-01-02"

// Date is a JSON timestamp that also accepts a bare calendar date
type Date struct {
	time.Time
}

// UnmarshalJSON accepts "2006-01-02", an RFC 3339 timestamp or null
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		return nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("date %q is neither %s nor RFC 3339", s, DateLayout)
	}
	d.Time = t
	return nil
}

// MarshalJSON writes RFC 3339
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// OrNow returns the date, or the current time when unset
func (d Date) OrNow() time.Time {
	if d.IsZero() {
		return time.Now()
	}
	return d.Time
}

// Ptr returns nil for an unset optional date
func (d *Date) Ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
