package booking

import "innkeeper/internal/models"

// checkConflict tests the candidate stay against the room's existing
// bookings. Linear in the number of bookings for the room; adjacency is
// permitted (a checkout day equal to another stay's check-in day does
// not conflict), enabling back-to-back bookings.
func checkConflict(existing []models.Booking, candidate models.Stay) error {
	for i := range existing {
		if existing[i].Stay().Overlaps(candidate) {
			return models.ErrRoomUnavailable
		}
	}
	return nil
}
