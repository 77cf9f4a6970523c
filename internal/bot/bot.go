package bot

import (
	"context"
	"os"
	"sync"
	"time"

	"salonbot/internal/config"
	"salonbot/internal/domain"
	"salonbot/internal/events"
	"salonbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Bot struct {
	tgService domain.TelegramService
	config    *config.Config
	sessions  domain.SessionManager
	catalog   domain.Catalog
	identity  domain.IdentityStore
	eventBus  domain.EventPublisher
	salon     models.SalonCard
	metrics   *Metrics
	logger    *zerolog.Logger

	// chatLocks сериализует обработку событий внутри одного чата;
	// разные чаты обрабатываются параллельно.
	chatLocks sync.Map
	wg        sync.WaitGroup
}

func NewBot(
	tgService domain.TelegramService,
	config *config.Config,
	sessions domain.SessionManager,
	catalogGateway domain.Catalog,
	identity domain.IdentityStore,
	eventBus domain.EventPublisher,
	salon models.SalonCard,
	metrics *Metrics,
	logger *zerolog.Logger,
) (*Bot, error) {
	if eventBus == nil {
		eventBus = events.NewEventBus()
	}

	if logger == nil {
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger = &l
	}

	return &Bot{
		tgService: tgService,
		config:    config,
		sessions:  sessions,
		catalog:   catalogGateway,
		identity:  identity,
		eventBus:  eventBus,
		salon:     salon,
		metrics:   metrics,
		logger:    logger,
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tgService.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.tgService.GetSelf().UserName).Msg("Authorized on account")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Bot stopping...")
			b.wg.Wait()
			return
		case update, ok := <-updates:
			if !ok {
				b.wg.Wait()
				return
			}
			b.processUpdate(ctx, update)
		}
	}
}

// processUpdate запускает обработку в отдельной горутине: чаты не ждут
// друг друга, но события одного чата идут строго по очереди.
func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	chatID, userID := updateIDs(update)
	if chatID == 0 || userID == 0 {
		return
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		lock := b.chatLock(chatID)
		lock.Lock()
		defer lock.Unlock()

		start := time.Now()
		defer func() {
			if b.metrics != nil {
				b.metrics.UpdateProcessingTime.Observe(time.Since(start).Seconds())
			}
		}()

		updateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		requestID := uuid.New().String()
		l := b.logger.With().Str("request_id", requestID).Int64("chat_id", chatID).Logger()
		updateCtx = l.WithContext(updateCtx)

		b.withRecovery(func() {
			if b.metrics != nil {
				b.metrics.UpdatesProcessed.Inc()
			}

			allowed, err := b.sessions.CheckRateLimit(updateCtx, chatID, b.config.Bot.RateLimitMessages, time.Duration(b.config.Bot.RateLimitWindow)*time.Second)
			if err != nil {
				b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Rate limit check failed")
			} else if !allowed {
				b.logger.Warn().Int64("chat_id", chatID).Msg("Rate limit exceeded")
				b.sendMessage(chatID, "⚠️ Вы отправляете сообщения слишком часто. Пожалуйста, подождите немного.")
				return
			}

			if update.CallbackQuery != nil {
				b.handleCallbackQuery(updateCtx, update)
				return
			}

			if update.Message != nil {
				b.handleMessage(updateCtx, update)
			}
		})
	}()
}

func (b *Bot) chatLock(chatID int64) *sync.Mutex {
	lock, _ := b.chatLocks.LoadOrStore(chatID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func updateIDs(update tgbotapi.Update) (chatID, userID int64) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.Chat.ID, update.Message.From.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		return update.CallbackQuery.Message.Chat.ID, update.CallbackQuery.From.ID
	}
	return 0, 0
}
