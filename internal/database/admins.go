package database

import (
	"context"
	"fmt"
)

// RegisterAdminChat сохраняет чат администратора для рассылки уведомлений.
// Повторная регистрация того же tg_id только обновляет chat_id.
func (d *DB) RegisterAdminChat(ctx context.Context, telegramID, chatID int64) error {
	query := `INSERT INTO admins (tg_id, chat_id)
              VALUES (?, ?)
              ON CONFLICT(tg_id) DO UPDATE SET chat_id = excluded.chat_id`
	if _, err := d.db.ExecContext(ctx, query, telegramID, chatID); err != nil {
		return fmt.Errorf("failed to register admin chat: %w", err)
	}
	return nil
}

// GetAdminChatIDs возвращает чаты администраторов с непустым chat_id.
func (d *DB) GetAdminChatIDs(ctx context.Context) ([]int64, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT chat_id FROM admins WHERE chat_id != 0`)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin chats: %w", err)
	}
	defer rows.Close()

	var chatIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan admin chat: %w", err)
		}
		chatIDs = append(chatIDs, id)
	}
	return chatIDs, rows.Err()
}

// IsAdminChat сообщает, зарегистрирован ли чат в реестре администраторов.
func (d *DB) IsAdminChat(ctx context.Context, chatID int64) (bool, error) {
	var count int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM admins WHERE chat_id = ?`, chatID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check admin chat: %w", err)
	}
	return count > 0, nil
}
