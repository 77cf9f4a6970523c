package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salonbot/internal/catalog"
	"salonbot/internal/database"
	"salonbot/internal/events"
	"salonbot/internal/flow"
	"salonbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// startBooking начинает диалог записи: категории, а если их нет —
// сразу плоский список услуг.
func (b *Bot) startBooking(ctx context.Context, chatID int64) {
	services, err := b.catalog.ListServices(ctx, "")
	if err != nil {
		b.reportCatalogError(ctx, chatID, err, "list_services", msgServicesUnavailable)
		return
	}
	if len(services) == 0 {
		b.sendMessage(chatID, msgServicesEmpty)
		return
	}

	categories := flow.Categories(services)
	if len(categories) == 0 {
		if len(services) > models.CatalogPageLimit {
			services = services[:models.CatalogPageLimit]
		}
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(services))
		for _, s := range services {
			label := fmt.Sprintf("%s - %s руб.", s.Title, formatPrice(s.Price))
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(label, flow.ServiceCallback(s.ID)),
			))
		}
		if err := b.sessions.Set(ctx, &models.Session{ChatID: chatID, Step: flow.StepBookingService}); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to save session")
		}
		b.sendWithInlineKeyboard(chatID, "Выберите услугу:", tgbotapi.NewInlineKeyboardMarkup(rows...))
		return
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(categories))
	for _, category := range categories {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(category, flow.CategoryCallback(category)),
		))
	}
	if err := b.sessions.Set(ctx, &models.Session{ChatID: chatID, Step: flow.StepBookingCategory}); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to save session")
	}
	b.sendWithInlineKeyboard(chatID, "Выберите категорию услуги:", tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) showServicesByCategory(ctx context.Context, chatID int64, category string) {
	services, err := b.catalog.ListServices(ctx, category)
	if err != nil {
		b.reportCatalogError(ctx, chatID, err, "list_services", msgServicesUnavailable)
		return
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(services))
	for _, s := range services {
		label := fmt.Sprintf("%s - %s руб. (%d мин)", s.Title, formatPrice(s.Price), s.DurationMinutes)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, flow.ServiceCallback(s.ID)),
		))
	}

	if err := b.sessions.Set(ctx, &models.Session{ChatID: chatID, Step: flow.StepBookingService}); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to save session")
	}
	b.sendWithInlineKeyboard(chatID, fmt.Sprintf("Услуги категории %q:", category), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

// handleServiceChosen фиксирует услугу и показывает активных мастеров
// с кнопкой «Любой мастер».
func (b *Bot) handleServiceChosen(ctx context.Context, chatID, serviceID int64) {
	masters, err := b.catalog.ListMasters(ctx)
	if err != nil {
		b.reportCatalogError(ctx, chatID, err, "list_masters", msgMastersUnavailable)
		return
	}

	if err := b.sessions.Set(ctx, &models.Session{ChatID: chatID, Step: flow.StepBookingMaster, ServiceID: serviceID}); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to save session")
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, m := range masters {
		if !m.Active {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(m.Name, flow.MasterCallback(m.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Любой мастер", flow.MasterSkipCallback),
	))

	b.sendWithInlineKeyboard(chatID, "Выберите мастера (или любого):", tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) handleMasterChosen(ctx context.Context, chatID int64, masterID *int64) {
	err := b.sessions.Mutate(ctx, chatID, func(s *models.Session) {
		s.MasterID = masterID
		s.Step = flow.StepBookingDateTime
	})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to save session")
	}
	b.sendMessage(chatID, msgAskDateTime)
}

// handleDateTimeInput проверяет свободный текст шага даты. При отказе
// сессия не меняется, пользователь пробует снова.
func (b *Bot) handleDateTimeInput(ctx context.Context, msg *tgbotapi.Message, session *models.Session, text string) {
	chatID := msg.Chat.ID

	dateTime, err := flow.ParseDateTime(text, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, flow.ErrBadFormat):
			b.sendMessage(chatID, msgBadDateTime)
		case errors.Is(err, flow.ErrPastDate):
			b.sendMessage(chatID, msgPastDate)
		}
		return
	}

	session.DateTime = dateTime
	session.Step = flow.StepBookingNote
	if err := b.sessions.Set(ctx, session); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to save session")
	}
	b.sendMessage(chatID, msgAskNote)
}

// handleNoteInput завершает диалог записи: комментарий, отправка в API,
// уведомление персонала. Сессия удаляется независимо от исхода.
func (b *Bot) handleNoteInput(ctx context.Context, msg *tgbotapi.Message, session *models.Session, text string) {
	chatID := msg.Chat.ID
	note := flow.Note(text)

	b.purgeSession(ctx, chatID)

	user, err := b.identity.GetUserByTelegramID(ctx, msg.From.ID)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			b.sendMessage(chatID, "Ошибка: пользователь не найден. Используйте /start")
			return
		}
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to load user")
		b.sendMessage(chatID, msgBookingFailed)
		return
	}

	req := catalog.BookingRequest{
		Name:       user.Name,
		Phone:      user.Phone,
		Email:      user.Email,
		ServiceID:  session.ServiceID,
		MasterID:   session.MasterID,
		DateTime:   session.DateTime.Format("2006-01-02T15:04"),
		TelegramID: msg.From.ID,
	}
	if note != "" {
		req.Note = &note
	}

	if err := b.catalog.CreateBooking(ctx, req); err != nil {
		b.reportCatalogError(ctx, chatID, err, "create_booking", msgBookingFailed)
		return
	}

	if b.metrics != nil {
		b.metrics.BookingsCreated.Inc()
	}
	b.sendMessage(chatID, msgBookingCreated)

	b.notifyBookingCreated(ctx, user, session, note)
}

// notifyBookingCreated собирает текст для персонала и публикует событие.
// Сбои здесь не влияют на пользователя и только логируются.
func (b *Bot) notifyBookingCreated(ctx context.Context, user *models.User, session *models.Session, note string) {
	logger := zerolog.Ctx(ctx)

	serviceTitle := "Услуга"
	if service, err := b.catalog.GetService(ctx, session.ServiceID); err != nil {
		logger.Error().Err(err).Int64("service_id", session.ServiceID).Msg("Failed to load service for notification")
	} else {
		serviceTitle = service.Title
	}

	masterName := "Любой"
	if session.MasterID != nil {
		if master, err := b.catalog.GetMaster(ctx, *session.MasterID); err != nil {
			logger.Error().Err(err).Int64("master_id", *session.MasterID).Msg("Failed to load master for notification")
		} else {
			masterName = master.Name
		}
	}

	var sb strings.Builder
	sb.WriteString("📅 Новая запись через бота:\n\n")
	fmt.Fprintf(&sb, "Клиент: %s\n", user.Name)
	fmt.Fprintf(&sb, "Телефон: %s\n", user.Phone)
	fmt.Fprintf(&sb, "Услуга: %s\n", serviceTitle)
	fmt.Fprintf(&sb, "Мастер: %s\n", masterName)
	fmt.Fprintf(&sb, "Дата: %s\n", session.DateTime.Format("02.01.2006 15:04"))
	if note != "" {
		fmt.Fprintf(&sb, "Комментарий: %s", note)
	}

	payload := events.StaffNotification{ChatID: user.ChatID, Text: sb.String()}
	if err := b.eventBus.PublishJSON(events.EventBookingCreated, payload); err != nil {
		logger.Error().Err(err).Msg("Failed to publish booking notification")
	}
}
