package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of a calendar day.
const DateLayout = "2006-01-02"

// ClockLayout is the wire and storage format of a time of day.
const ClockLayout = "15:04:05"

// Date is a calendar day without a clock or zone.  It is stored as a
// DATE column (or ISO text on SQLite) and serialised as "YYYY-MM-DD".
// The embedded time.Time is always midnight UTC.
type Date struct {
	time.Time
}

// NewDate builds a Date for the given day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string { return d.Format(DateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	*d = parsed
	return nil
}

// Scan accepts whatever the drivers hand back for a DATE column:
// time.Time (MySQL with parseTime, pgx, SQLite typed columns) or text.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v.Year(), v.Month(), v.Day())
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	case nil:
		*d = Date{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into Date", src)
}

func (d *Date) scanText(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value stores the day as ISO text so every dialect sorts it correctly.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// TimeOfDay is a wall clock time with minute precision on input and
// second precision in storage.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// NewTimeOfDay builds a TimeOfDay.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay{Hour: hour, Minute: minute}
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Clock returns the value as a time.Time on the zero day in UTC, which is
// handy for formatting with the standard layouts.
func (t TimeOfDay) Clock() time.Time {
	return time.Date(0, time.January, 1, t.Hour, t.Minute, t.Second, 0, time.UTC)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return t.scanText(s)
}

// Scan accepts time.Time (some drivers type TIME columns) or text such as
// "14:30:00" or "14:30:00.000000".
func (t *TimeOfDay) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*t = TimeOfDay{Hour: v.Hour(), Minute: v.Minute(), Second: v.Second()}
		return nil
	case string:
		return t.scanText(v)
	case []byte:
		return t.scanText(string(v))
	case nil:
		*t = TimeOfDay{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into TimeOfDay", src)
}

func (t *TimeOfDay) scanText(s string) error {
	s = strings.TrimSpace(s)
	for _, layout := range []string{ClockLayout, "15:04"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute(), Second: parsed.Second()}
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as time of day", s)
}

func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String(), nil
}
