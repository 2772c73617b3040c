package models

import "time"

// Booking represents a confirmed room reservation. For a fixed room the
// stays of all bookings are pairwise non-overlapping; the schema-level
// backstop enforces this even under concurrent writes.
type Booking struct {
	ID         int64     `json:"id"`
	ClientID   int64     `json:"client_id"`
	RoomID     int64     `json:"room_id"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	TotalCents Cents     `json:"total_price"`

	// Denormalized for list responses, filled by joins on read.
	ClientName string `json:"client_name,omitempty"`
	RoomNumber string `json:"room_number,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Stay returns the booking's stay interval.
func (b *Booking) Stay() Stay {
	return Stay{CheckIn: b.CheckIn, CheckOut: b.CheckOut}
}

// OverlapsWith reports whether two bookings share at least one night.
func (b *Booking) OverlapsWith(other *Booking) bool {
	return b.Stay().Overlaps(other.Stay())
}

// ContainsDay reports whether the booking occupies the room on the
// given day.
func (b *Booking) ContainsDay(t time.Time) bool {
	return b.Stay().ContainsDay(t)
}
