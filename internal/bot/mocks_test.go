package bot

import (
	"context"
	"io"
	"time"

	"salonbot/internal/catalog"
	"salonbot/internal/config"
	"salonbot/internal/models"
	"salonbot/internal/repository"
	"salonbot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) ListServices(ctx context.Context, category string) ([]models.Service, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Service), args.Error(1)
}

func (m *mockCatalog) GetService(ctx context.Context, id int64) (*models.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

func (m *mockCatalog) ListMasters(ctx context.Context) ([]models.Master, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Master), args.Error(1)
}

func (m *mockCatalog) GetMaster(ctx context.Context, id int64) (*models.Master, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Master), args.Error(1)
}

func (m *mockCatalog) ListProducts(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *mockCatalog) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *mockCatalog) ListBookings(ctx context.Context, filter catalog.BookingFilter) ([]models.Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *mockCatalog) CreateBooking(ctx context.Context, req catalog.BookingRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *mockCatalog) CreateOrder(ctx context.Context, req catalog.OrderRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *mockCatalog) PhotoURL(photo string) string {
	return "https://salon.example.com/uploads/" + photo
}

type mockIdentity struct {
	mock.Mock
}

func (m *mockIdentity) CreateOrUpdateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockIdentity) GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockIdentity) RegisterAdminChat(ctx context.Context, telegramID, chatID int64) error {
	args := m.Called(ctx, telegramID, chatID)
	return args.Error(0)
}

func (m *mockIdentity) GetAdminChatIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *mockIdentity) IsAdminChat(ctx context.Context, chatID int64) (bool, error) {
	args := m.Called(ctx, chatID)
	return args.Bool(0), args.Error(1)
}

// fakeTelegram записывает исходящие сообщения вместо похода в Telegram.
type fakeTelegram struct {
	messages []string
	chats    []int64
	sendErr  error
}

func (f *fakeTelegram) record(chatID int64, text string) (tgbotapi.Message, error) {
	if f.sendErr != nil {
		return tgbotapi.Message{}, f.sendErr
	}
	f.messages = append(f.messages, text)
	f.chats = append(f.chats, chatID)
	return tgbotapi.Message{}, nil
}

func (f *fakeTelegram) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	switch msg := c.(type) {
	case tgbotapi.MessageConfig:
		return f.record(msg.ChatID, msg.Text)
	case tgbotapi.PhotoConfig:
		return f.record(msg.ChatID, msg.Caption)
	case tgbotapi.DocumentConfig:
		return f.record(msg.ChatID, msg.Caption)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeTelegram) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeTelegram) SendMessage(chatID int64, text string) (tgbotapi.Message, error) {
	return f.record(chatID, text)
}

func (f *fakeTelegram) SendWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) (tgbotapi.Message, error) {
	return f.record(chatID, text)
}

func (f *fakeTelegram) SendWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	return f.record(chatID, text)
}

func (f *fakeTelegram) AnswerCallback(callbackID, text string) error { return nil }

func (f *fakeTelegram) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(tgbotapi.UpdatesChannel)
}

func (f *fakeTelegram) GetSelf() tgbotapi.User { return tgbotapi.User{UserName: "salon_test_bot"} }

func (f *fakeTelegram) StopReceivingUpdates() {}

func (f *fakeTelegram) last() string {
	if len(f.messages) == 0 {
		return ""
	}
	return f.messages[len(f.messages)-1]
}

// fakePublisher копит опубликованные события.
type fakePublisher struct {
	events   []string
	payloads []interface{}
	err      error
}

func (f *fakePublisher) PublishJSON(eventType string, payload interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, eventType)
	f.payloads = append(f.payloads, payload)
	return nil
}

type testBot struct {
	bot      *Bot
	tg       *fakeTelegram
	catalog  *mockCatalog
	identity *mockIdentity
	events   *fakePublisher
	sessions *service.SessionService
}

func newTestBot(cfg *config.Config) *testBot {
	if cfg == nil {
		cfg = &config.Config{}
		cfg.Bot.RateLimitMessages = 100
		cfg.Bot.RateLimitWindow = 60
		cfg.Exports.Path = "exports"
	}

	logger := zerolog.New(io.Discard)
	tg := &fakeTelegram{}
	cat := new(mockCatalog)
	identity := new(mockIdentity)
	publisher := &fakePublisher{}
	sessions := service.NewSessionService(repository.NewMemorySessionRepository(time.Hour), &logger)

	salon := models.SalonCard{
		Name:    "Crazy",
		Address: "г. Москва, ул. Примерная, д. 1",
		Phone:   "+7 (999) 123-45-67",
	}

	b, _ := NewBot(tg, cfg, sessions, cat, identity, publisher, salon, nil, &logger)
	return &testBot{bot: b, tg: tg, catalog: cat, identity: identity, events: publisher, sessions: sessions}
}

func textUpdate(chatID, userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text: text,
			From: &tgbotapi.User{ID: userID, FirstName: "Анна"},
			Chat: &tgbotapi.Chat{ID: chatID},
		},
	}
}

func commandUpdate(chatID, userID int64, command string) tgbotapi.Update {
	u := textUpdate(chatID, userID, command)
	u.Message.Entities = []tgbotapi.MessageEntity{
		{Type: "bot_command", Offset: 0, Length: len(command)},
	}
	return u
}

func callbackUpdate(chatID, userID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb",
			Data: data,
			From: &tgbotapi.User{ID: userID, FirstName: "Анна"},
			Message: &tgbotapi.Message{
				Chat: &tgbotapi.Chat{ID: chatID},
			},
		},
	}
}
