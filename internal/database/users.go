package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"salonbot/internal/models"
)

// CreateOrUpdateUser создает пользователя или обновляет имя, телефон и
// время последнего входа. Вызывается на каждом /start.
func (d *DB) CreateOrUpdateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (tg_id, chat_id, name, phone, email, last_login, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)
              ON CONFLICT(tg_id) DO UPDATE SET
                chat_id = excluded.chat_id,
                name = excluded.name,
                phone = CASE WHEN excluded.phone != '' THEN excluded.phone ELSE users.phone END,
                last_login = excluded.last_login,
                updated_at = excluded.updated_at`

	now := time.Now()
	_, err := d.db.ExecContext(ctx, query,
		user.TelegramID,
		user.ChatID,
		user.Name,
		user.Phone,
		user.Email,
		now,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create or update user: %w", err)
	}
	return nil
}

func (d *DB) GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	query := `SELECT id, tg_id, chat_id, name, phone, email, last_login, created_at, updated_at
              FROM users WHERE tg_id = ?`

	var (
		user         models.User
		phone, email sql.NullString
	)
	err := d.db.QueryRowContext(ctx, query, telegramID).Scan(
		&user.ID, &user.TelegramID, &user.ChatID, &user.Name,
		&phone, &email, &user.LastLogin, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.Phone = phone.String
	user.Email = email.String
	return &user, nil
}
