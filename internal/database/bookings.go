package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"innkeeper/internal/models"
)

const bookingColumns = `b.id, b.client_id, b.room_id, b.check_in, b.check_out,
	b.total_cents, b.created_at, b.updated_at, c.name, r.number`

const bookingJoin = `FROM bookings b
	JOIN clients c ON c.id = b.client_id
	JOIN rooms r ON r.id = b.room_id`

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	var b models.Booking
	var checkIn, checkOut string
	err := row.Scan(
		&b.ID, &b.ClientID, &b.RoomID, &checkIn, &checkOut,
		&b.TotalCents, &b.CreatedAt, &b.UpdatedAt, &b.ClientName, &b.RoomNumber,
	)
	if err != nil {
		return nil, err
	}
	if b.CheckIn, err = time.Parse(models.DateLayout, checkIn); err != nil {
		return nil, fmt.Errorf("parse check_in: %w", err)
	}
	if b.CheckOut, err = time.Parse(models.DateLayout, checkOut); err != nil {
		return nil, fmt.Errorf("parse check_out: %w", err)
	}
	return &b, nil
}

// FindBooking returns a booking by id.
func (db *DB) FindBooking(ctx context.Context, id int64) (*models.Booking, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` `+bookingJoin+` WHERE b.id = ?`, id)
	b, err := scanBooking(row)
	if err != nil {
		return nil, translateErr(err)
	}
	return b, nil
}

// ListBookings returns every booking for a room ordered by check-in,
// optionally omitting one booking id (used when validating an edit
// against itself). excludeID <= 0 means no exclusion.
func (db *DB) ListBookings(ctx context.Context, roomID, excludeID int64) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+bookingColumns+` `+bookingJoin+`
		 WHERE b.room_id = ? AND b.id != ?
		 ORDER BY b.check_in`, roomID, excludeID)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

// ListAllBookings returns every booking, newest first.
func (db *DB) ListAllBookings(ctx context.Context) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+bookingColumns+` `+bookingJoin+` ORDER BY b.id DESC`)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

// ListBookingsBetween returns bookings whose stay intersects
// [start, end), ordered by room and check-in. Used by reporting.
func (db *DB) ListBookingsBetween(ctx context.Context, start, end time.Time) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+bookingColumns+` `+bookingJoin+`
		 WHERE b.check_in < ? AND b.check_out > ?
		 ORDER BY r.number, b.check_in`,
		end.Format(models.DateLayout), start.Format(models.DateLayout))
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

// ListArrivals returns bookings checking in on the given day, ordered
// by room number. Used by the daily arrivals digest.
func (db *DB) ListArrivals(ctx context.Context, day time.Time) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+bookingColumns+` `+bookingJoin+`
		 WHERE b.check_in = ?
		 ORDER BY r.number`, day.Format(models.DateLayout))
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

func collectBookings(rows *sql.Rows) ([]models.Booking, error) {
	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// InsertBooking persists a new booking as one atomic unit: the overlap
// re-check and the insert run in a single immediate transaction, and the
// schema trigger rejects a racing overlap at commit. Returns
// models.ErrRoomUnavailable when the room is taken for the period.
func (db *DB) InsertBooking(ctx context.Context, b *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	taken, err := overlapExists(ctx, tx, b.RoomID, 0, b.CheckIn, b.CheckOut)
	if err != nil {
		return fmt.Errorf("check availability: %w", err)
	}
	if taken {
		return models.ErrRoomUnavailable
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx, `
		INSERT INTO bookings (client_id, room_id, check_in, check_out, total_cents, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ClientID, b.RoomID,
		b.CheckIn.Format(models.DateLayout), b.CheckOut.Format(models.DateLayout),
		int64(b.TotalCents), now, now,
	)
	if err != nil {
		return translateErr(err)
	}
	if b.ID, err = result.LastInsertId(); err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return translateErr(err)
	}
	b.CreatedAt = now
	b.UpdatedAt = now
	return nil
}

// UpdateBooking rewrites a booking in place under the same atomic
// check-then-write discipline as InsertBooking, excluding the booking's
// own prior row from the overlap check.
func (db *DB) UpdateBooking(ctx context.Context, b *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	taken, err := overlapExists(ctx, tx, b.RoomID, b.ID, b.CheckIn, b.CheckOut)
	if err != nil {
		return fmt.Errorf("check availability: %w", err)
	}
	if taken {
		return models.ErrRoomUnavailable
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx, `
		UPDATE bookings
		SET client_id = ?, room_id = ?, check_in = ?, check_out = ?, total_cents = ?, updated_at = ?
		WHERE id = ?`,
		b.ClientID, b.RoomID,
		b.CheckIn.Format(models.DateLayout), b.CheckOut.Format(models.DateLayout),
		int64(b.TotalCents), now, b.ID,
	)
	if err != nil {
		return translateErr(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return translateErr(err)
	}
	b.UpdatedAt = now
	return nil
}

// DeleteBooking cancels a booking. The freed nights become bookable
// immediately; availability is always derived from the remaining rows.
func (db *DB) DeleteBooking(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return translateErr(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func overlapExists(ctx context.Context, tx *sql.Tx, roomID, excludeID int64, checkIn, checkOut time.Time) (bool, error) {
	var exists int
	err := tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE room_id = ? AND id != ?
			  AND check_in < ? AND ? < check_out
		)`,
		roomID, excludeID,
		checkOut.Format(models.DateLayout), checkIn.Format(models.DateLayout),
	).Scan(&exists)
	return exists == 1, err
}
