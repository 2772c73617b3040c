package booking

import (
	"context"

	"innkeeper/internal/models"
)

// Store is the persistence contract the engine runs against.
//
// InsertBooking and UpdateBooking must be atomic check-then-write
// units: each re-validates the no-overlap invariant inside its own
// transaction and fails with models.ErrRoomUnavailable when a
// conflicting row exists, so a race that slips past the engine's
// in-memory check is still rejected at commit.
type Store interface {
	FindRoom(ctx context.Context, id int64) (*models.Room, error)
	FindClient(ctx context.Context, id int64) (*models.Client, error)
	FindBooking(ctx context.Context, id int64) (*models.Booking, error)
	ListBookings(ctx context.Context, roomID, excludeID int64) ([]models.Booking, error)
	InsertBooking(ctx context.Context, b *models.Booking) error
	UpdateBooking(ctx context.Context, b *models.Booking) error
	DeleteBooking(ctx context.Context, id int64) error
}

// Notifier is told about committed calendar changes. Implementations
// must not block the booking path.
type Notifier interface {
	BookingCreated(ctx context.Context, b *models.Booking)
	BookingCancelled(ctx context.Context, b *models.Booking)
}
