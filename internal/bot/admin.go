package bot

import (
	"context"
	"fmt"
	"strings"

	"salonbot/internal/catalog"
	"salonbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// handleRegisterAdmin проверяет статический список привилегированных ID и
// заносит chat_id в реестр. Повторный вызов безвреден.
func (b *Bot) handleRegisterAdmin(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if !b.config.IsAdmin(msg.From.ID) {
		b.sendMessage(chatID, msgAdminDenied)
		return
	}

	registered, err := b.identity.IsAdminChat(ctx, chatID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to check admin registration")
		b.sendMessage(chatID, msgAdminError)
		return
	}
	if registered {
		b.sendMessage(chatID, msgAdminAlready)
		return
	}

	if err := b.identity.RegisterAdminChat(ctx, msg.From.ID, chatID); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to register admin chat")
		b.sendMessage(chatID, msgAdminError)
		return
	}

	b.sendMessage(chatID, msgAdminRegistered)
}

// isPrivileged — доступ к админским командам: статический список ИЛИ
// зарегистрированный чат из реестра.
func (b *Bot) isPrivileged(ctx context.Context, userID, chatID int64) bool {
	if b.config.IsAdmin(userID) {
		return true
	}
	registered, err := b.identity.IsAdminChat(ctx, chatID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to check admin registration")
		return false
	}
	return registered
}

func (b *Bot) handleListBookings(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if !b.isPrivileged(ctx, msg.From.ID, chatID) {
		b.sendMessage(chatID, msgAccessDenied)
		return
	}

	bookings, err := b.catalog.ListBookings(ctx, catalog.BookingFilter{Status: models.StatusPending})
	if err != nil {
		b.reportCatalogError(ctx, chatID, err, "list_bookings", msgBookingsUnavailable)
		return
	}
	if len(bookings) == 0 {
		b.sendMessage(chatID, msgNoPendingBookings)
		return
	}
	if len(bookings) > models.CatalogPageLimit {
		bookings = bookings[:models.CatalogPageLimit]
	}

	var sb strings.Builder
	sb.WriteString("📋 Записи, ожидающие подтверждения:\n\n")
	for _, booking := range bookings {
		fmt.Fprintf(&sb, "ID: %d\n", booking.ID)
		fmt.Fprintf(&sb, "Клиент: %s\n", booking.Name)
		fmt.Fprintf(&sb, "Услуга: %s\n", booking.ServiceTitle)
		fmt.Fprintf(&sb, "Дата: %s\n\n", booking.DateTime.Format("02.01.2006 15:04"))
	}

	b.sendMessage(chatID, sb.String())
}
