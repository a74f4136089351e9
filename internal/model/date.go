package model

import (
	"errors"
	"fmt"
	"time"
)

// DatePrecision tells how much of an issuance date is known.
type DatePrecision int

const (
	PrecisionYear DatePrecision = iota + 1
	PrecisionMonth
	PrecisionDay
)

var ErrInvalidDate = errors.New("date must be YYYY, YYYY-MM or YYYY-MM-DD")

// PartialDate is an issuance date that may only name a year or a month.
type PartialDate struct {
	Year      int
	Month     time.Month
	Day       int
	Precision DatePrecision
}

// ParsePartialDate parses "2006", "2006-01" or "2006-01-02". Impossible
// calendar dates such as "2023-02-30" are rejected.
func ParsePartialDate(s string) (PartialDate, error) {
	var (
		layout    string
		precision DatePrecision
	)
	switch len(s) {
	case 4:
		layout, precision = "2006", PrecisionYear
	case 7:
		layout, precision = "2006-01", PrecisionMonth
	case 10:
		layout, precision = "2006-01-02", PrecisionDay
	default:
		return PartialDate{}, ErrInvalidDate
	}

	t, err := time.Parse(layout, s)
	if err != nil || t.Year() < 1 {
		return PartialDate{}, ErrInvalidDate
	}

	pd := PartialDate{Year: t.Year(), Precision: precision}
	if precision >= PrecisionMonth {
		pd.Month = t.Month()
	}
	if precision == PrecisionDay {
		pd.Day = t.Day()
	}
	return pd, nil
}

// Start is the first day covered by the date.
func (d PartialDate) Start() time.Time {
	month, day := d.Month, d.Day
	if month == 0 {
		month = time.January
	}
	if day == 0 {
		day = 1
	}
	return time.Date(d.Year, month, day, 0, 0, 0, 0, time.UTC)
}

// End is the last day covered by the date.
func (d PartialDate) End() time.Time {
	switch d.Precision {
	case PrecisionYear:
		return time.Date(d.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
	case PrecisionMonth:
		return d.Start().AddDate(0, 1, -1)
	default:
		return d.Start()
	}
}

// IsFuture reports whether the date starts after the calendar day of now.
// "2026" is not in the future at any point during 2026.
func (d PartialDate) IsFuture(now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return d.Start().After(today)
}

func (d PartialDate) String() string {
	switch d.Precision {
	case PrecisionYear:
		return fmt.Sprintf("%04d", d.Year)
	case PrecisionMonth:
		return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
	default:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
	}
}
