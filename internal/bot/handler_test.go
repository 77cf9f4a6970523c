package bot

import (
	"context"
	"testing"
	"time"

	"salonbot/internal/catalog"
	"salonbot/internal/database"
	"salonbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStartRegistersUserAndShowsMenu(t *testing.T) {
	tb := newTestBot(nil)

	tb.identity.On("CreateOrUpdateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.TelegramID == testUserID && u.ChatID == testChatID && u.Name == "Анна" && !u.LastLogin.IsZero()
	})).Return(nil).Once()

	tb.bot.handleMessage(context.Background(), commandUpdate(testChatID, testUserID, "/start"))

	assert.Equal(t, msgWelcome, tb.tg.last())
	tb.identity.AssertExpectations(t)
}

func TestStartSurvivesIdentityStoreFailure(t *testing.T) {
	tb := newTestBot(nil)

	tb.identity.On("CreateOrUpdateUser", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	tb.bot.handleMessage(context.Background(), commandUpdate(testChatID, testUserID, "/start"))

	// Меню показывается даже если базу не удалось обновить.
	assert.Equal(t, msgWelcome, tb.tg.last())
}

func TestHelp(t *testing.T) {
	tb := newTestBot(nil)

	tb.bot.handleMessage(context.Background(), commandUpdate(testChatID, testUserID, "/help"))
	assert.Equal(t, msgHelp, tb.tg.last())

	tb.bot.handleMessage(context.Background(), textUpdate(testChatID, testUserID, "❓ Помощь"))
	assert.Equal(t, msgHelp, tb.tg.last())
}

func TestUnknownCommandIgnored(t *testing.T) {
	tb := newTestBot(nil)

	tb.bot.handleMessage(context.Background(), commandUpdate(testChatID, testUserID, "/unknown"))

	assert.Empty(t, tb.tg.messages)
}

func TestMyBookings(t *testing.T) {
	tb := newTestBot(nil)

	tb.identity.On("GetUserByTelegramID", mock.Anything, testUserID).Return(testUser(), nil).Once()
	tb.catalog.On("ListBookings", mock.Anything, catalog.BookingFilter{UserID: 9}).Return([]models.Booking{
		{
			ID: 1, ServiceTitle: "Маникюр", MasterName: "Ольга",
			DateTime: time.Date(2025, 1, 15, 14, 0, 0, 0, time.Local), Status: "confirmed",
		},
		{
			ID: 2, DateTime: time.Date(2025, 1, 20, 11, 0, 0, 0, time.Local), Status: "pending",
		},
	}, nil).Once()

	tb.bot.handleMessage(context.Background(), textUpdate(testChatID, testUserID, "📋 Мои записи"))

	last := tb.tg.last()
	assert.Contains(t, last, "📋 Ваши записи:")
	assert.Contains(t, last, "Маникюр")
	assert.Contains(t, last, "✅ Подтверждена")
	assert.Contains(t, last, "Мастер: Ольга")
	assert.Contains(t, last, "⏳ Ожидает")
	// Запись без названия услуги и мастера показывается с заглушкой.
	assert.Contains(t, last, "📅 Услуга")
}

func TestMyBookingsEmpty(t *testing.T) {
	tb := newTestBot(nil)

	tb.identity.On("GetUserByTelegramID", mock.Anything, testUserID).Return(testUser(), nil).Once()
	tb.catalog.On("ListBookings", mock.Anything, catalog.BookingFilter{UserID: 9}).Return([]models.Booking{}, nil).Once()

	tb.bot.handleMessage(context.Background(), textUpdate(testChatID, testUserID, "📋 Мои записи"))

	assert.Equal(t, msgBookingsEmpty, tb.tg.last())
}

func TestMyBookingsUnknownUser(t *testing.T) {
	tb := newTestBot(nil)

	tb.identity.On("GetUserByTelegramID", mock.Anything, testUserID).Return(nil, database.ErrUserNotFound).Once()

	tb.bot.handleMessage(context.Background(), textUpdate(testChatID, testUserID, "📋 Мои записи"))

	assert.Equal(t, msgUserNotFound, tb.tg.last())
	tb.catalog.AssertNotCalled(t, "ListBookings", mock.Anything, mock.Anything)
}

func TestContacts(t *testing.T) {
	tb := newTestBot(nil)

	tb.bot.handleMessage(context.Background(), textUpdate(testChatID, testUserID, "ℹ️ Контакты"))

	last := tb.tg.last()
	assert.Contains(t, last, "Crazy")
	assert.Contains(t, last, "г. Москва, ул. Примерная, д. 1")
	assert.Contains(t, last, "+7 (999) 123-45-67")
}

func TestUnknownCallbackIgnored(t *testing.T) {
	tb := newTestBot(nil)

	tb.bot.handleCallbackQuery(context.Background(), callbackUpdate(testChatID, testUserID, "nonsense_payload"))

	assert.Empty(t, tb.tg.messages)
}

func TestWithRecovery(t *testing.T) {
	tb := newTestBot(nil)

	require.NotPanics(t, func() {
		tb.bot.withRecovery(func() {
			panic("boom")
		})
	})
}

func TestProcessUpdateRateLimit(t *testing.T) {
	cfg := adminConfig(t)
	cfg.Bot.RateLimitMessages = 1
	cfg.Bot.RateLimitWindow = 60
	tb := newTestBot(cfg)

	ctx := context.Background()
	tb.bot.processUpdate(ctx, textUpdate(testChatID, testUserID, "привет"))
	tb.bot.wg.Wait()

	tb.bot.processUpdate(ctx, textUpdate(testChatID, testUserID, "привет"))
	tb.bot.wg.Wait()

	assert.Contains(t, tb.tg.last(), "слишком часто")
}

func TestChatLockIsStablePerChat(t *testing.T) {
	tb := newTestBot(nil)

	first := tb.bot.chatLock(1)
	second := tb.bot.chatLock(1)
	other := tb.bot.chatLock(2)

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
}
