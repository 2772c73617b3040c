package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"innkeeper/internal/models"
)

// CreateUser inserts an operator account. Logins are unique.
func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now()
	result, err := db.ExecContext(ctx, `
		INSERT INTO users (login, password_hash, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		user.Login, user.PasswordHash, user.Role, now, now,
	)
	if err != nil {
		return translateErr(err)
	}
	if user.ID, err = result.LastInsertId(); err != nil {
		return err
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// FindUser returns a user by id.
func (db *DB) FindUser(ctx context.Context, id int64) (*models.User, error) {
	return db.findUser(ctx, `WHERE id = ?`, id)
}

// FindUserByLogin returns a user by login.
func (db *DB) FindUserByLogin(ctx context.Context, login string) (*models.User, error) {
	return db.findUser(ctx, `WHERE login = ?`, login)
}

func (db *DB) findUser(ctx context.Context, where string, arg any) (*models.User, error) {
	var u models.User
	err := db.QueryRowContext(ctx, `
		SELECT id, login, password_hash, role, created_at, updated_at
		FROM users `+where, arg,
	).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &u, nil
}

// ListUsers returns all users ordered by login.
func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, login, password_hash, role, created_at, updated_at
		FROM users ORDER BY login`)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUser rewrites a user's login, hash and role.
func (db *DB) UpdateUser(ctx context.Context, user *models.User) error {
	result, err := db.ExecContext(ctx, `
		UPDATE users SET login = ?, password_hash = ?, role = ?, updated_at = ?
		WHERE id = ?`,
		user.Login, user.PasswordHash, user.Role, time.Now(), user.ID,
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

// DeleteUser removes a user account.
func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
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

// EnsureAdmin seeds the admin account on first start.
func (db *DB) EnsureAdmin(ctx context.Context, login, passwordHash string) error {
	_, err := db.FindUserByLogin(ctx, login)
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return db.CreateUser(ctx, &models.User{
		Login:        login,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
	})
}
