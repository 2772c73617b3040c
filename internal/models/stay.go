package models

import "time"

// DateLayout is the wire and storage format for stay dates.
const DateLayout = "2006-01-02"

// Stay represents a half-open stay interval [CheckIn, CheckOut).
// Comparisons run at day granularity; the checkout day itself is free,
// so back-to-back stays on the same room do not conflict.
type Stay struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

// NewStay validates and builds a stay interval.
// Returns ErrInvalidRange when checkout is not strictly after checkin.
func NewStay(checkIn, checkOut time.Time) (Stay, error) {
	if !checkOut.After(checkIn) {
		return Stay{}, ErrInvalidRange
	}
	return Stay{CheckIn: checkIn, CheckOut: checkOut}, nil
}

// ParseStay builds a stay from YYYY-MM-DD strings.
func ParseStay(checkIn, checkOut string) (Stay, error) {
	in, err := time.Parse(DateLayout, checkIn)
	if err != nil {
		return Stay{}, ErrInvalidRange
	}
	out, err := time.Parse(DateLayout, checkOut)
	if err != nil {
		return Stay{}, ErrInvalidRange
	}
	return NewStay(in, out)
}

// Day truncates a time to its calendar day in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether two stays share at least one night.
// Half-open semantics: touching endpoints do not overlap.
func (s Stay) Overlaps(other Stay) bool {
	return Day(s.CheckIn).Before(Day(other.CheckOut)) && Day(other.CheckIn).Before(Day(s.CheckOut))
}

// Nights returns the billable night count: the ceiling of the stay
// duration in whole days, so a partial trailing day counts as a full night.
func (s Stay) Nights() int {
	d := s.CheckOut.Sub(s.CheckIn)
	nights := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		nights++
	}
	return nights
}

// ContainsDay reports whether the given instant falls inside the stay,
// evaluated at day granularity: CheckIn <= day(t) < CheckOut.
func (s Stay) ContainsDay(t time.Time) bool {
	day := Day(t)
	return !day.Before(Day(s.CheckIn)) && day.Before(Day(s.CheckOut))
}

func (s Stay) String() string {
	return s.CheckIn.Format(DateLayout) + " - " + s.CheckOut.Format(DateLayout)
}
