package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"innkeeper/internal/metrics"
	"innkeeper/internal/models"

	"github.com/rs/zerolog"
)

// Engine coordinates booking creation and modification. Each request
// runs the same gate sequence: resolve references, validate the date
// range, check the candidate stay against the room's calendar, compute
// the price, persist atomically. The read-check-write sequence for a
// room is serialized by a per-room lock; the store's transactional
// re-check backs it up across processes.
type Engine struct {
	store    Store
	locks    *roomLocks
	notifier Notifier
	logger   zerolog.Logger
}

// New builds an engine. notifier may be nil.
func New(store Store, notifier Notifier, logger zerolog.Logger) *Engine {
	return &Engine{
		store:    store,
		locks:    newRoomLocks(),
		notifier: notifier,
		logger:   logger.With().Str("component", "booking").Logger(),
	}
}

// CreateRequest is a new stay request.
type CreateRequest struct {
	ClientID int64
	RoomID   int64
	CheckIn  time.Time
	CheckOut time.Time
}

// ModifyRequest carries the fields of a booking to change; nil means
// keep the current value. Check-in and check-out travel as a pair.
type ModifyRequest struct {
	ClientID *int64
	RoomID   *int64
	CheckIn  *time.Time
	CheckOut *time.Time
}

// Create books a room for a client. Returns the committed booking with
// its stored total, or one of the domain errors: models.ErrNotFound
// (client or room), models.ErrInvalidRange, models.ErrRoomUnavailable,
// models.ErrStorage.
func (e *Engine) Create(ctx context.Context, req CreateRequest) (*models.Booking, error) {
	client, err := e.findClient(ctx, req.ClientID)
	if err != nil {
		return nil, e.reject(err)
	}
	room, err := e.findRoom(ctx, req.RoomID)
	if err != nil {
		return nil, e.reject(err)
	}
	stay, err := models.NewStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, e.reject(err)
	}

	unlock := e.locks.lock(room.ID)
	defer unlock()

	existing, err := e.BookingsFor(ctx, room.ID, 0)
	if err != nil {
		return nil, e.reject(err)
	}
	if err := checkConflict(existing, stay); err != nil {
		return nil, e.reject(err)
	}

	booking := &models.Booking{
		ClientID:   client.ID,
		RoomID:     room.ID,
		CheckIn:    stay.CheckIn,
		CheckOut:   stay.CheckOut,
		TotalCents: Price(stay, room.RateCents),
		ClientName: client.Name,
		RoomNumber: room.Number,
	}
	if err := e.persist(ctx, booking, e.store.InsertBooking); err != nil {
		return nil, e.reject(err)
	}

	metrics.IncBookingCreated()
	e.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("room_id", room.ID).
		Int64("client_id", client.ID).
		Str("stay", stay.String()).
		Str("total", booking.TotalCents.String()).
		Msg("Booking created")

	if e.notifier != nil {
		go e.notifier.BookingCreated(context.WithoutCancel(ctx), booking)
	}
	return booking, nil
}

// Modify edits an existing booking, possibly moving it to another room
// or other dates. The conflict check always runs, excluding the
// booking's own identity, so an unchanged request never conflicts with
// itself. The total is recomputed only when the stay or the room
// actually change, at the target room's current rate.
func (e *Engine) Modify(ctx context.Context, id int64, req ModifyRequest) (*models.Booking, error) {
	booking, err := e.findBooking(ctx, id)
	if err != nil {
		return nil, e.reject(err)
	}

	if req.ClientID != nil && *req.ClientID != booking.ClientID {
		client, err := e.findClient(ctx, *req.ClientID)
		if err != nil {
			return nil, e.reject(err)
		}
		booking.ClientID = client.ID
		booking.ClientName = client.Name
	}

	targetRoomID := booking.RoomID
	if req.RoomID != nil {
		targetRoomID = *req.RoomID
	}
	room, err := e.findRoom(ctx, targetRoomID)
	if err != nil {
		return nil, e.reject(err)
	}

	stay := booking.Stay()
	if req.CheckIn != nil || req.CheckOut != nil {
		if req.CheckIn == nil || req.CheckOut == nil {
			return nil, e.reject(fmt.Errorf("check-in and check-out must be given together: %w", models.ErrInvalidRange))
		}
		stay, err = models.NewStay(*req.CheckIn, *req.CheckOut)
		if err != nil {
			return nil, e.reject(err)
		}
	}

	roomChanged := room.ID != booking.RoomID
	datesChanged := !stay.CheckIn.Equal(booking.CheckIn) || !stay.CheckOut.Equal(booking.CheckOut)

	unlock := e.locks.lock(booking.RoomID, room.ID)
	defer unlock()

	existing, err := e.BookingsFor(ctx, room.ID, booking.ID)
	if err != nil {
		return nil, e.reject(err)
	}
	if err := checkConflict(existing, stay); err != nil {
		return nil, e.reject(err)
	}

	booking.RoomID = room.ID
	booking.RoomNumber = room.Number
	booking.CheckIn = stay.CheckIn
	booking.CheckOut = stay.CheckOut
	if roomChanged || datesChanged {
		booking.TotalCents = Price(stay, room.RateCents)
	}

	if err := e.persist(ctx, booking, e.store.UpdateBooking); err != nil {
		return nil, e.reject(err)
	}

	e.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("room_id", room.ID).
		Str("stay", stay.String()).
		Bool("repriced", roomChanged || datesChanged).
		Msg("Booking modified")
	return booking, nil
}

// Cancel removes a booking; the nights it held are immediately free.
func (e *Engine) Cancel(ctx context.Context, id int64) error {
	booking, err := e.findBooking(ctx, id)
	if err != nil {
		return e.reject(err)
	}
	if err := e.store.DeleteBooking(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", models.ErrStorage, err)
	}

	metrics.IncBookingCancelled()
	e.logger.Info().Int64("booking_id", id).Msg("Booking cancelled")

	if e.notifier != nil {
		go e.notifier.BookingCancelled(context.WithoutCancel(ctx), booking)
	}
	return nil
}

// Get returns a booking by id.
func (e *Engine) Get(ctx context.Context, id int64) (*models.Booking, error) {
	return e.findBooking(ctx, id)
}

// persist runs the atomic write. A models.ErrRoomUnavailable here means
// the storage backstop caught a race that passed the in-memory check.
func (e *Engine) persist(ctx context.Context, b *models.Booking, write func(context.Context, *models.Booking) error) error {
	err := write(ctx, b)
	if err == nil {
		return nil
	}
	if errors.Is(err, models.ErrRoomUnavailable) {
		metrics.IncBackstopTrip()
		e.logger.Warn().
			Int64("room_id", b.RoomID).
			Msg("Storage backstop rejected a racing booking write")
		return models.ErrRoomUnavailable
	}
	if errors.Is(err, models.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", models.ErrStorage, err)
}

// reject counts a rejected request by kind and passes the error through.
func (e *Engine) reject(err error) error {
	switch {
	case errors.Is(err, models.ErrRoomUnavailable):
		metrics.IncBookingRejected("room_unavailable")
	case errors.Is(err, models.ErrInvalidRange):
		metrics.IncBookingRejected("invalid_range")
	case errors.Is(err, models.ErrNotFound):
		metrics.IncBookingRejected("not_found")
	case errors.Is(err, models.ErrInvariantViolation):
		metrics.IncBookingRejected("invariant_violation")
	default:
		metrics.IncBookingRejected("storage")
	}
	return err
}

func (e *Engine) findClient(ctx context.Context, id int64) (*models.Client, error) {
	client, err := e.store.FindClient(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("client %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", models.ErrStorage, err)
	}
	return client, nil
}

func (e *Engine) findRoom(ctx context.Context, id int64) (*models.Room, error) {
	room, err := e.store.FindRoom(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("room %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", models.ErrStorage, err)
	}
	return room, nil
}

func (e *Engine) findBooking(ctx context.Context, id int64) (*models.Booking, error) {
	booking, err := e.store.FindBooking(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("booking %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", models.ErrStorage, err)
	}
	return booking, nil
}
