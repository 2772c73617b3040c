package booking

import (
	"context"
	"fmt"
	"time"

	"innkeeper/internal/models"
)

// BookingsFor returns the room's committed bookings, optionally
// excluding one id, and verifies the no-overlap invariant of the stored
// set on the way. A violation means the concurrency guarantee failed at
// some earlier commit; it is reported, never repaired.
//
// The read always hits the store: availability is derived from the
// booking calendar at call time and is never cached across requests.
func (e *Engine) BookingsFor(ctx context.Context, roomID, excludeID int64) ([]models.Booking, error) {
	bookings, err := e.store.ListBookings(ctx, roomID, excludeID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorage, err)
	}
	if err := verifyCalendar(bookings); err != nil {
		e.logger.Error().Err(err).Int64("room_id", roomID).
			Msg("Stored booking set contains an overlap")
		return nil, err
	}
	return bookings, nil
}

// verifyCalendar checks that bookings (sorted by check-in, as the store
// returns them) are pairwise non-overlapping.
func verifyCalendar(bookings []models.Booking) error {
	for i := 1; i < len(bookings); i++ {
		prev, cur := &bookings[i-1], &bookings[i]
		if prev.OverlapsWith(cur) {
			return fmt.Errorf("%w: bookings %d and %d overlap on room %d",
				models.ErrInvariantViolation, prev.ID, cur.ID, cur.RoomID)
		}
	}
	return nil
}

// IsAvailable reports whether the room can host a guest on the given
// day: the administrative flag must be set and no booking may occupy
// the day.
func (e *Engine) IsAvailable(ctx context.Context, room *models.Room, day time.Time) (bool, error) {
	if !room.Available {
		return false, nil
	}
	bookings, err := e.BookingsFor(ctx, room.ID, 0)
	if err != nil {
		return false, err
	}
	for i := range bookings {
		if bookings[i].ContainsDay(day) {
			return false, nil
		}
	}
	return true, nil
}
