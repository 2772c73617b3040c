package database

import (
	"context"
	"fmt"
	"time"

	"innkeeper/internal/models"
)

// CreateRoom inserts a room. Room numbers are unique.
func (db *DB) CreateRoom(ctx context.Context, room *models.Room) error {
	now := time.Now()
	result, err := db.ExecContext(ctx, `
		INSERT INTO rooms (number, category, rate_cents, available, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		room.Number, string(room.Category), int64(room.RateCents), room.Available, now, now,
	)
	if err != nil {
		return translateErr(err)
	}
	if room.ID, err = result.LastInsertId(); err != nil {
		return err
	}
	room.CreatedAt = now
	room.UpdatedAt = now
	return nil
}

// FindRoom returns a room by id.
func (db *DB) FindRoom(ctx context.Context, id int64) (*models.Room, error) {
	var r models.Room
	var category string
	err := db.QueryRowContext(ctx, `
		SELECT id, number, category, rate_cents, available, created_at, updated_at
		FROM rooms WHERE id = ?`, id,
	).Scan(&r.ID, &r.Number, &category, &r.RateCents, &r.Available, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	r.Category = models.RoomCategory(category)
	return &r, nil
}

// ListRooms returns all rooms ordered by number.
func (db *DB) ListRooms(ctx context.Context) ([]models.Room, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, number, category, rate_cents, available, created_at, updated_at
		FROM rooms ORDER BY number`)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var rooms []models.Room
	for rows.Next() {
		var r models.Room
		var category string
		if err := rows.Scan(&r.ID, &r.Number, &category, &r.RateCents, &r.Available, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		r.Category = models.RoomCategory(category)
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

// UpdateRoom rewrites a room's mutable attributes. Stored booking
// totals are never touched: a rate change applies to future writes only.
func (db *DB) UpdateRoom(ctx context.Context, room *models.Room) error {
	result, err := db.ExecContext(ctx, `
		UPDATE rooms SET number = ?, category = ?, rate_cents = ?, available = ?, updated_at = ?
		WHERE id = ?`,
		room.Number, string(room.Category), int64(room.RateCents), room.Available, time.Now(), room.ID,
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
	return nil
}

// DeleteRoom removes a room. Rooms with bookings are protected.
func (db *DB) DeleteRoom(ctx context.Context, id int64) error {
	var count int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE room_id = ?`, id).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("room has %d bookings: %w", count, models.ErrDuplicate)
	}

	result, err := db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
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
