package catalog

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// twoDigitYearPivot splits two-digit years between centuries: values at or
// above the pivot belong to the 1900s, values below it to the 2000s.
const twoDigitYearPivot = 70

var (
	// isoDatePattern matches YYYY-M-D with unpadded month and day allowed
	isoDatePattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	// slashDatePattern matches US month-first M/D/Y with a 2 or 4 digit year
	slashDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2}|\d{4})$`)
)

// Date is a calendar date normalized from a free-form source string, or the
// unparseable marker. The zero value is unparseable.
type Date struct {
	year  int
	month time.Month
	day   int
	valid bool
}

// Unparseable is the Date returned for input no format understands.
var Unparseable = Date{}

// NewDate returns the concrete date year-month-day. Out of range values are
// reported as Unparseable rather than rolled over into the next month.
func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Unparseable
	}
	return Date{year: year, month: month, day: day, valid: true}
}

// NormalizeDate converts s into a Date. It tries, in order, ISO YYYY-M-D,
// US M/D/Y with a two or four digit year, and finally a free-form parse.
// Empty input and input no format accepts yield Unparseable. It never panics.
func NormalizeDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unparseable
	}

	if m := isoDatePattern.FindStringSubmatch(s); m != nil {
		if d := dateFromParts(m[1], m[2], m[3]); d.valid {
			return d
		}
	}

	if m := slashDatePattern.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			year = ExpandYear(year)
		}
		if d := dateFromParts(strconv.Itoa(year), m[1], m[2]); d.valid {
			return d
		}
	}

	return parseFreeForm(s)
}

// ExpandYear maps a two-digit year onto four digits: 70-99 become 1970-1999
// and 00-69 become 2000-2069. Other values are returned unchanged.
func ExpandYear(year int) int {
	switch {
	case year < 0 || year > 99:
		return year
	case year >= twoDigitYearPivot:
		return 1900 + year
	default:
		return 2000 + year
	}
}

func dateFromParts(year, month, day string) Date {
	y, err := strconv.Atoi(year)
	if err != nil {
		return Unparseable
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return Unparseable
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return Unparseable
	}
	return NewDate(y, time.Month(m), d)
}

// parseFreeForm is the last resort for strings such as "March 5, 2024" or
// RFC 3339 timestamps. The calendar date is taken in the zone the string
// names, or UTC when it names none.
func parseFreeForm(s string) (d Date) {
	defer func() {
		if recover() != nil {
			d = Unparseable
		}
	}()

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return Unparseable
	}
	return NewDate(t.Year(), t.Month(), t.Day())
}

// IsValid reports whether d is a concrete calendar date.
func (d Date) IsValid() bool {
	return d.valid
}

// Year returns the year, or 0 when d is unparseable.
func (d Date) Year() int {
	return d.year
}

// Month returns the month, or 0 when d is unparseable.
func (d Date) Month() time.Month {
	return d.month
}

// Day returns the day of month, or 0 when d is unparseable.
func (d Date) Day() int {
	return d.day
}

// YMD returns the (year, month, day) triple.
func (d Date) YMD() (int, time.Month, int) {
	return d.year, d.month, d.day
}

// Time returns midnight UTC of d. An unparseable date is the Unix epoch.
func (d Date) Time() time.Time {
	if !d.valid {
		return time.Unix(0, 0).UTC()
	}
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// Compare returns -1, 0 or +1 as d is older than, equal to or newer than o.
// An unparseable date is older than every concrete date, so it sinks to the
// end of a newest-first ordering.
func (d Date) Compare(o Date) int {
	switch {
	case !d.valid && !o.valid:
		return 0
	case !d.valid:
		return -1
	case !o.valid:
		return 1
	}
	return d.Time().Compare(o.Time())
}

// String returns d as YYYY-MM-DD, or "" when d is unparseable.
func (d Date) String() string {
	if !d.valid {
		return ""
	}
	return d.Time().Format(time.DateOnly)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using NormalizeDate.
func (d *Date) UnmarshalText(text []byte) error {
	*d = NormalizeDate(string(text))
	return nil
}
