package generic

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// =============================================================================
// DATE - Calendar day (seasons, departures, daily policies)
// =============================================================================

// Date is a UTC calendar day. The zero value is not a valid date.
type Date struct {
	Time time.Time
}

const dateLayout = "2006-01-02"

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its UTC calendar day.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{Time: d.Time.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int              { return d.Time.Year() }
func (d Date) Month() time.Month      { return d.Time.Month() }
func (d Date) Day() int               { return d.Time.Day() }
func (d Date) Weekday() time.Weekday  { return d.Time.Weekday() }
func (d Date) IsWeekend() bool        { wd := d.Weekday(); return wd == time.Saturday || wd == time.Sunday }
func (d Date) IsWorkday() bool        { return !d.IsWeekend() }
func (d Date) IsZero() bool           { return d.Time.IsZero() }
func (d Date) String() string         { return d.Time.Format(dateLayout) }
func (d Date) At(hour, min int) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, time.UTC)
}

func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// BOUNDARY PARSING
// =============================================================================
// Callers parse user-supplied strings here, before anything reaches the
// evaluators. An unparseable value is an InvalidDateError, never a zero time.

var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseDate parses a YYYY-MM-DD calendar day. A full ISO instant is accepted
// and truncated to its UTC day.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return DateOf(t), nil
	}
	if t, err := ParseInstant(s); err == nil {
		return DateOf(t), nil
	}
	return Date{}, &InvalidDateError{Value: s, Layout: dateLayout}
}

// ParseInstant parses an ISO-8601 date-time. Values without a zone are UTC.
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &InvalidDateError{Value: s, Layout: time.RFC3339}
}

// MustParseDate is for tests and presets.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(fmt.Sprintf("generic: %v", err))
	}
	return d
}

// MustParseInstant is for tests and presets.
func MustParseInstant(s string) time.Time {
	t, err := ParseInstant(s)
	if err != nil {
		panic(fmt.Sprintf("generic: %v", err))
	}
	return t
}

// =============================================================================
// LEAD TIME
// =============================================================================

// CeilDaysBetween returns the whole days from -> to, rounded up.
// Negative when to is before from.
func CeilDaysBetween(from, to time.Time) int {
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}

// CeilHoursBetween returns the whole hours from -> to, rounded up.
func CeilHoursBetween(from, to time.Time) int {
	return int(math.Ceil(to.Sub(from).Hours()))
}
