package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func mustStay(t *testing.T, in, out time.Time) Stay {
	t.Helper()
	s, err := NewStay(in, out)
	require.NoError(t, err)
	return s
}

func TestNewStay_InvalidRange(t *testing.T) {
	_, err := NewStay(date(2024, 12, 25), date(2024, 12, 20))
	assert.ErrorIs(t, err, ErrInvalidRange)

	// Equal bounds are invalid as well.
	_, err = NewStay(date(2024, 12, 20), date(2024, 12, 20))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestParseStay(t *testing.T) {
	s, err := ParseStay("2024-12-20", "2024-12-25")
	require.NoError(t, err)
	assert.Equal(t, date(2024, 12, 20), s.CheckIn)
	assert.Equal(t, date(2024, 12, 25), s.CheckOut)

	_, err = ParseStay("20-12-2024", "2024-12-25")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = ParseStay("2024-12-25", "2024-12-20")
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestStay_Overlaps(t *testing.T) {
	existing := mustStay(t, date(2024, 12, 20), date(2024, 12, 25))

	tests := []struct {
		name string
		in   time.Time
		out  time.Time
		want bool
	}{
		{"before", date(2024, 12, 15), date(2024, 12, 20), false},
		{"adjacent after", date(2024, 12, 25), date(2024, 12, 30), false},
		{"partial overlap", date(2024, 12, 23), date(2024, 12, 28), true},
		{"contained", date(2024, 12, 21), date(2024, 12, 23), true},
		{"containing", date(2024, 12, 15), date(2024, 12, 30), true},
		{"identical", date(2024, 12, 20), date(2024, 12, 25), true},
		{"single night inside", date(2024, 12, 24), date(2024, 12, 25), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := mustStay(t, tt.in, tt.out)
			assert.Equal(t, tt.want, existing.Overlaps(candidate))
			assert.Equal(t, tt.want, candidate.Overlaps(existing))
		})
	}
}

func TestStay_Nights(t *testing.T) {
	s := mustStay(t, date(2024, 12, 20), date(2024, 12, 25))
	assert.Equal(t, 5, s.Nights())

	s = mustStay(t, date(2024, 12, 20), date(2024, 12, 21))
	assert.Equal(t, 1, s.Nights())

	// A partial trailing day is billed as a full night.
	s = mustStay(t, date(2024, 12, 20), date(2024, 12, 22).Add(6*time.Hour))
	assert.Equal(t, 3, s.Nights())
}

func TestStay_ContainsDay(t *testing.T) {
	s := mustStay(t, date(2024, 12, 20), date(2024, 12, 25))

	assert.True(t, s.ContainsDay(date(2024, 12, 20)))
	assert.True(t, s.ContainsDay(date(2024, 12, 24)))
	// Time of day is normalized away.
	assert.True(t, s.ContainsDay(date(2024, 12, 22).Add(15*time.Hour)))
	// Checkout day is excluded.
	assert.False(t, s.ContainsDay(date(2024, 12, 25)))
	assert.False(t, s.ContainsDay(date(2024, 12, 19)))
}

func TestBooking_OverlapsWith(t *testing.T) {
	a := &Booking{RoomID: 1, CheckIn: date(2024, 12, 20), CheckOut: date(2024, 12, 25)}
	b := &Booking{RoomID: 1, CheckIn: date(2024, 12, 25), CheckOut: date(2024, 12, 30)}
	c := &Booking{RoomID: 1, CheckIn: date(2024, 12, 23), CheckOut: date(2024, 12, 28)}

	assert.False(t, a.OverlapsWith(b))
	assert.True(t, a.OverlapsWith(c))
	assert.True(t, b.OverlapsWith(c))
}
