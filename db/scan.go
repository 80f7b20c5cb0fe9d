package db

import (
	"fmt"
	"iter"
	"time"
)

type rowScanner interface {
	Scan(dest ...any) error
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

// timeValue scans TIMESTAMPTZ values from Postgres and TEXT timestamps from
// SQLite into a time.Time.
type timeValue struct {
	t *time.Time
}

func (v timeValue) Scan(src any) error {
	t, ok, err := parseTime(src)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("unexpected NULL timestamp")
	}
	*v.t = t
	return nil
}

// nullTimeValue is timeValue for nullable columns.
type nullTimeValue struct {
	t **time.Time
}

func (v nullTimeValue) Scan(src any) error {
	t, ok, err := parseTime(src)
	if err != nil {
		return err
	}
	if !ok {
		*v.t = nil
		return nil
	}
	*v.t = &t
	return nil
}

func parseTime(src any) (time.Time, bool, error) {
	var s string
	switch v := src.(type) {
	case nil:
		return time.Time{}, false, nil
	case time.Time:
		return v.UTC(), true, nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return time.Time{}, false, fmt.Errorf("cannot scan %T into timestamp", src)
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("cannot parse timestamp %q", s)
}

// Collect drains a listing into a slice, stopping at the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	out := []T{}
	for v, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
