package service

import (
	"context"

	"salonbot/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Notifier рассылает уведомления администраторам. Реестр получателей —
// чаты из базы плюс статический список из конфигурации; при недоступной
// базе рассылка идет только по статическому списку. Ошибка доставки одному
// получателю не прерывает рассылку остальным и никогда не поднимается к
// вызвавшему сценарию.
type Notifier struct {
	tg       domain.TelegramService
	store    domain.IdentityStore
	fallback []int64
	limiter  *rate.Limiter
	logger   *zerolog.Logger
}

func NewNotifier(tg domain.TelegramService, store domain.IdentityStore, staticAdmins []int64, rps float64, burst int, logger *zerolog.Logger) *Notifier {
	if rps <= 0 {
		rps = 25
	}
	if burst <= 0 {
		burst = 1
	}
	return &Notifier{
		tg:       tg,
		store:    store,
		fallback: staticAdmins,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		logger:   logger,
	}
}

// Broadcast отправляет текст каждому получателю независимо и возвращает
// число успешных доставок. Значение справочное, на исход пользовательского
// сценария оно не влияет.
func (n *Notifier) Broadcast(ctx context.Context, text string) int {
	recipients := n.recipients(ctx)

	sent := 0
	for _, chatID := range recipients {
		if err := n.limiter.Wait(ctx); err != nil {
			n.logger.Warn().Err(err).Msg("Notification broadcast interrupted")
			break
		}
		if _, err := n.tg.SendMessage(chatID, text); err != nil {
			n.logger.Error().Err(err).Int64("admin_chat_id", chatID).Msg("Failed to notify admin")
			continue
		}
		sent++
	}

	n.logger.Info().Int("sent", sent).Int("total", len(recipients)).Msg("Staff notification broadcast finished")
	return sent
}

// recipients собирает реестр чатов без дубликатов: сперва из базы, затем
// статический список.
func (n *Notifier) recipients(ctx context.Context) []int64 {
	var ids []int64
	if n.store != nil {
		stored, err := n.store.GetAdminChatIDs(ctx)
		if err != nil {
			n.logger.Error().Err(err).Msg("Admin roster unavailable, using static list")
		} else {
			ids = stored
		}
	}

	seen := make(map[int64]bool, len(ids)+len(n.fallback))
	var recipients []int64
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		recipients = append(recipients, id)
	}
	for _, id := range n.fallback {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		recipients = append(recipients, id)
	}
	return recipients
}
