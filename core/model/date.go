package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Date is a civil calendar date without a time-of-day component.
// The zero value means the date is not set, which is a legal state for
// optional fields such as a pilot's availability or a drone's maintenance
// due date.
type Date struct {
	t time.Time // midnight UTC
}

// NewDate builds a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, m, d)
}

// Layouts tried in order when parsing free-form date cells. Day-first
// formats take precedence over month-first ones for ambiguous input.
var dateLayouts = []string{
	"2006-01-02",
	"2/1/2006",
	"1/2/2006",
	"2-1-2006",
	"2 Jan 2006",
	"2 January 2006",
}

var looseISO = regexp.MustCompile(`(\d{4})[-/](\d{1,2})[-/](\d{1,2})`)

// Placeholder cell values that mean "no date".
var emptyDateValues = map[string]struct{}{
	"": {}, "-": {}, "–": {}, "n/a": {}, "na": {}, "nan": {}, "none": {},
}

// ParseDate interprets a spreadsheet-style date cell. It tries a fixed list
// of layouts, then a loose year-first pattern. Anything unparseable yields
// the zero Date rather than an error: an unreadable cell is treated the same
// as an empty one.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if _, empty := emptyDateValues[strings.ToLower(s)]; empty {
		return Date{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t)
		}
	}
	if m := looseISO.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return NewDate(year, time.Month(month), day)
		}
	}
	return Date{}
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

// After reports whether d is strictly after o.
func (d Date) After(o Date) bool { return d.t.After(o.t) }

// Equal reports whether two dates are the same calendar day.
func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

// OnOrBefore reports whether d is no later than o.
func (d Date) OnOrBefore(o Date) bool { return !d.t.After(o.t) }

// AddDays returns the date n days later (or earlier for negative n).
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// DaysUntil returns the number of whole days from d to o. Negative when o
// is in the past relative to d.
func (d Date) DaysUntil(o Date) int {
	return int(o.t.Sub(d.t) / (24 * time.Hour))
}

// Time exposes the underlying instant (midnight UTC).
func (d Date) Time() time.Time { return d.t }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format("2006-01-02")
}

// MarshalText renders the date in ISO form, empty when unset.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText accepts the same formats as ParseDate. It only fails on
// non-empty input that yields no date, so round-tripping an unset date
// works.
func (d *Date) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	parsed := ParseDate(s)
	if parsed.IsZero() {
		if _, empty := emptyDateValues[strings.ToLower(s)]; !empty {
			return fmt.Errorf("unrecognized date %q", s)
		}
	}
	*d = parsed
	return nil
}

// UnmarshalYAML lets scenario fixtures spell dates as plain strings.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Overlap reports whether the two inclusive date ranges share at least one
// day. Ranges with an unset endpoint never overlap anything.
func Overlap(aStart, aEnd, bStart, bEnd Date) bool {
	if aStart.IsZero() || aEnd.IsZero() || bStart.IsZero() || bEnd.IsZero() {
		return false
	}
	return aStart.OnOrBefore(bEnd) && bStart.OnOrBefore(aEnd)
}
