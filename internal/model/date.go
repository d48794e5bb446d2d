package model

import (
	"fmt"
	"time"
)

// DateOnly is a calendar date marshalled as "YYYY-MM-DD". The embedded
// time.Time lets pgx scan DATE columns into it directly.
type DateOnly struct {
	time.Time
}

// ParseDate parses a wire-format date string.
func ParseDate(s string) (DateOnly, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return DateOnly{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOnly{Time: t}, nil
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateFormat) + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s", s)
	}
	t, err := time.Parse(DateFormat, s[1:len(s)-1])
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
