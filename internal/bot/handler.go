package bot

import (
	"context"
	"errors"
	"strings"
	"time"

	"salonbot/internal/catalog"
	"salonbot/internal/database"
	"salonbot/internal/flow"
	"salonbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) handleMessage(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.purgeSession(ctx, chatID)
			b.handleStart(ctx, msg)
		case "help":
			b.purgeSession(ctx, chatID)
			b.sendMessage(chatID, msgHelp)
		case "register_admin":
			b.purgeSession(ctx, chatID)
			b.handleRegisterAdmin(ctx, msg)
		case "list_bookings":
			b.purgeSession(ctx, chatID)
			b.handleListBookings(ctx, msg)
		case "export_bookings":
			b.purgeSession(ctx, chatID)
			b.handleExportBookings(ctx, msg)
		}
		return
	}

	switch text {
	case menuBook:
		b.startBooking(ctx, chatID)
		return
	case menuBookings:
		b.purgeSession(ctx, chatID)
		b.handleMyBookings(ctx, msg)
		return
	case menuProducts:
		b.purgeSession(ctx, chatID)
		b.handleProducts(ctx, chatID)
		return
	case menuContacts:
		b.purgeSession(ctx, chatID)
		b.sendMessage(chatID, contactsMessage(b.salon))
		return
	case menuHelp:
		b.purgeSession(ctx, chatID)
		b.sendMessage(chatID, msgHelp)
		return
	}

	session, err := b.sessions.Get(ctx, chatID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to load session")
		return
	}
	if !session.Active() {
		// Свободный текст вне диалога игнорируется.
		return
	}

	switch session.Step {
	case flow.StepBookingDateTime:
		b.handleDateTimeInput(ctx, msg, session, text)
	case flow.StepBookingNote:
		b.handleNoteInput(ctx, msg, session, text)
	case flow.StepProductQuantity:
		b.handleQuantityInput(ctx, msg, session, text)
	}
}

// purgeSession прерывает незавершенный диалог: любая распознанная команда
// или кнопка меню начинает с чистого листа.
func (b *Bot) purgeSession(ctx context.Context, chatID int64) {
	if err := b.sessions.Clear(ctx, chatID); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to purge session")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	user := &models.User{
		TelegramID: msg.From.ID,
		ChatID:     chatID,
		Name:       userName(msg.From),
		LastLogin:  time.Now(),
	}
	if msg.Contact != nil && msg.Contact.UserID == msg.From.ID {
		user.Phone = msg.Contact.PhoneNumber
	}

	if err := b.identity.CreateOrUpdateUser(ctx, user); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to register user")
	}

	b.sendWithKeyboard(chatID, msgWelcome, mainMenuKeyboard())
}

func (b *Bot) handleMyBookings(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	user, err := b.identity.GetUserByTelegramID(ctx, msg.From.ID)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			b.sendMessage(chatID, msgUserNotFound)
			return
		}
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to load user")
		b.sendMessage(chatID, msgBookingsUnavailable)
		return
	}

	bookings, err := b.catalog.ListBookings(ctx, catalog.BookingFilter{UserID: user.ID})
	if err != nil {
		b.reportCatalogError(ctx, chatID, err, "list_bookings", msgBookingsUnavailable)
		return
	}
	if len(bookings) == 0 {
		b.sendMessage(chatID, msgBookingsEmpty)
		return
	}

	if len(bookings) > models.CatalogPageLimit {
		bookings = bookings[:models.CatalogPageLimit]
	}

	var sb strings.Builder
	sb.WriteString("📋 Ваши записи:\n\n")
	for _, booking := range bookings {
		title := booking.ServiceTitle
		if title == "" {
			title = "Услуга"
		}
		sb.WriteString("📅 " + title + "\n")
		sb.WriteString("Дата: " + booking.DateTime.Format("02.01.2006 15:04") + "\n")
		sb.WriteString("Статус: " + bookingStatusLabel(booking.Status) + "\n")
		if booking.MasterName != "" {
			sb.WriteString("Мастер: " + booking.MasterName + "\n")
		}
		sb.WriteString("\n")
	}

	b.sendMessage(chatID, sb.String())
}
