package domain

import (
	"context"
	"time"

	"salonbot/internal/catalog"
	"salonbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// SessionRepository хранит сессии диалогов по идентификатору чата.
// Get возвращает nil без ошибки, если сессии нет.
type SessionRepository interface {
	Get(ctx context.Context, chatID int64) (*models.Session, error)
	Set(ctx context.Context, session *models.Session) error
	Clear(ctx context.Context, chatID int64) error
	CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error)
}

// SessionManager — фасад над репозиторием сессий для оркестратора.
type SessionManager interface {
	Get(ctx context.Context, chatID int64) (*models.Session, error)
	Set(ctx context.Context, session *models.Session) error
	Mutate(ctx context.Context, chatID int64, fn func(*models.Session)) error
	Clear(ctx context.Context, chatID int64) error
	CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error)
}

// Catalog — контракт шлюза к удаленному API салона.
type Catalog interface {
	ListServices(ctx context.Context, category string) ([]models.Service, error)
	GetService(ctx context.Context, id int64) (*models.Service, error)
	ListMasters(ctx context.Context) ([]models.Master, error)
	GetMaster(ctx context.Context, id int64) (*models.Master, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListBookings(ctx context.Context, filter catalog.BookingFilter) ([]models.Booking, error)
	CreateBooking(ctx context.Context, req catalog.BookingRequest) error
	CreateOrder(ctx context.Context, req catalog.OrderRequest) error
	PhotoURL(photo string) string
}

// IdentityStore — узкий контракт хранилища пользователей и реестра
// администраторов.
type IdentityStore interface {
	CreateOrUpdateUser(ctx context.Context, user *models.User) error
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	RegisterAdminChat(ctx context.Context, telegramID, chatID int64) error
	GetAdminChatIDs(ctx context.Context) ([]int64, error)
	IsAdminChat(ctx context.Context, chatID int64) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

type TelegramService interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	SendMessage(chatID int64, text string) (tgbotapi.Message, error)
	SendWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) (tgbotapi.Message, error)
	SendWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	AnswerCallback(callbackID string, text string) error
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

// StaffNotifier рассылает сообщение всем администраторам и возвращает
// число успешных доставок.
type StaffNotifier interface {
	Broadcast(ctx context.Context, text string) int
}
