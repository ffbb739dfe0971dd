package daterange

import (
	"errors"
	"math"
	"strings"
	"time"
)

// DayLayout is the calendar date format used for stay dates.
const DayLayout = "2006-01-02"

var (
	ErrInvalidRange = errors.New("daterange: checkout must be after checkin")
	ErrInvalidDate  = errors.New("daterange: invalid calendar date")
)

// DateRange represents a half-open interval of nights [CheckIn, CheckOut).
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func New(checkIn, checkOut time.Time) (DateRange, error) {
	dr := DateRange{CheckIn: Day(checkIn), CheckOut: Day(checkOut)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Parse builds a range from two YYYY-MM-DD strings.
func Parse(checkIn, checkOut string) (DateRange, error) {
	in, err := ParseDay(checkIn)
	if err != nil {
		return DateRange{}, err
	}
	out, err := ParseDay(checkOut)
	if err != nil {
		return DateRange{}, err
	}
	return New(in, out)
}

// ParseDay parses a YYYY-MM-DD calendar date at UTC midnight.
func ParseDay(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidDate
	}
	t, err := time.Parse(DayLayout, value)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// Day truncates t to its calendar date at UTC midnight.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (dr DateRange) Validate() error {
	if dr.CheckOut.IsZero() || dr.CheckIn.IsZero() {
		return ErrInvalidRange
	}
	if !dr.CheckOut.After(dr.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

// Nights returns the number of calendar nights; zero or negative for degenerate ranges.
func (dr DateRange) Nights() int {
	return NightsBetween(dr.CheckIn, dr.CheckOut)
}

// EachNight calls fn for every night in [CheckIn, CheckOut).
func (dr DateRange) EachNight(fn func(night time.Time)) {
	n := dr.Nights()
	start := Day(dr.CheckIn)
	for i := 0; i < n; i++ {
		fn(start.AddDate(0, 0, i))
	}
}

// Overlaps reports half-open overlap: ranges that only touch do not overlap.
func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(dr.CheckOut)
}

func (dr DateRange) ContainsDate(t time.Time) bool {
	t = Day(t)
	return (t.Equal(dr.CheckIn) || t.After(dr.CheckIn)) && t.Before(dr.CheckOut)
}

func (dr DateRange) Adjacent(other DateRange) bool {
	return dr.CheckOut.Equal(other.CheckIn) || dr.CheckIn.Equal(other.CheckOut)
}

// String renders the range as "YYYY-MM-DD..YYYY-MM-DD".
func (dr DateRange) String() string {
	return dr.CheckIn.Format(DayLayout) + ".." + dr.CheckOut.Format(DayLayout)
}

// NightsBetween counts calendar days between two dates, ignoring time of day.
func NightsBetween(checkIn, checkOut time.Time) int {
	if checkIn.IsZero() || checkOut.IsZero() {
		return 0
	}
	return int(Day(checkOut).Sub(Day(checkIn)).Hours() / 24)
}

// DaysUntil returns the whole days from now until t, floored, so a check-in at
// midnight tomorrow seen at 15:00 today is 0 days away.
func DaysUntil(now, t time.Time) int {
	return int(math.Floor(t.Sub(now).Hours() / 24))
}
