package database

import (
	"context"
	"time"

	"innkeeper/internal/models"
)

// CreateClient inserts a client. Document and email are unique.
func (db *DB) CreateClient(ctx context.Context, client *models.Client) error {
	now := time.Now()
	result, err := db.ExecContext(ctx, `
		INSERT INTO clients (name, document, email, phone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		client.Name, client.Document, client.Email, client.Phone, now, now,
	)
	if err != nil {
		return translateErr(err)
	}
	if client.ID, err = result.LastInsertId(); err != nil {
		return err
	}
	client.CreatedAt = now
	client.UpdatedAt = now
	return nil
}

// FindClient returns a client by id.
func (db *DB) FindClient(ctx context.Context, id int64) (*models.Client, error) {
	var c models.Client
	err := db.QueryRowContext(ctx, `
		SELECT id, name, document, email, phone, created_at, updated_at
		FROM clients WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Document, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &c, nil
}

// ListClients returns all clients ordered by name.
func (db *DB) ListClients(ctx context.Context) ([]models.Client, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, document, email, phone, created_at, updated_at
		FROM clients ORDER BY name`)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Document, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// UpdateClient rewrites a client's attributes.
func (db *DB) UpdateClient(ctx context.Context, client *models.Client) error {
	result, err := db.ExecContext(ctx, `
		UPDATE clients SET name = ?, document = ?, email = ?, phone = ?, updated_at = ?
		WHERE id = ?`,
		client.Name, client.Document, client.Email, client.Phone, time.Now(), client.ID,
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

// DeleteClient removes a client. Their bookings are deleted with them
// (ON DELETE CASCADE in the schema).
func (db *DB) DeleteClient(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
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
