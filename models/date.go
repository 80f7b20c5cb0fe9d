package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charles-oliveira/web-2/apperr"
)

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component, normalised to UTC
// midnight.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, apperr.New(apperr.Validation, "invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// AddDays returns the date n days later.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	return d.Time.Before(o.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return apperr.Wrap(apperr.Validation, err, "invalid date")
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value stores the date as YYYY-MM-DD, which both DATE columns and TEXT
// columns compare correctly.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v.UTC())
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	case nil:
		*d = Date{}
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
	return nil
}

func (d *Date) scanString(s string) error {
	if len(s) >= len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("scan date %q: %w", s, err)
	}
	*d = Date{Time: t}
	return nil
}

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start Date
	End   Date
}

// MonthRange returns the first through last day of now's calendar month.
func MonthRange(now time.Time) DateRange {
	y, m, _ := now.Date()
	start := NewDate(y, m, 1)
	return DateRange{Start: start, End: Date{Time: start.AddDate(0, 1, -1)}}
}

func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return apperr.New(apperr.Validation, "date range needs both start and end")
	}
	if r.End.Before(r.Start) {
		return apperr.New(apperr.Validation, "end date %s is before start date %s", r.End, r.Start)
	}
	return nil
}

// Contains reports whether d falls inside the range, both ends included.
func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.Start) && !r.End.Before(d)
}

func (r DateRange) String() string {
	return r.Start.String() + ".." + r.End.String()
}
