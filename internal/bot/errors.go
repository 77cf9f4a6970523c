package bot

import (
	"context"

	"github.com/rs/zerolog"
)

// reportCatalogError логирует отказ удаленного API и шлет пользователю
// подменяющее сообщение. Повторов нет: шлюз не ретраит, бот тоже.
func (b *Bot) reportCatalogError(ctx context.Context, chatID int64, err error, op, userMsg string) {
	if b.metrics != nil {
		b.metrics.CatalogErrors.Inc()
	}
	zerolog.Ctx(ctx).Error().Err(err).Str("op", op).Msg("Salon API request failed")
	b.sendMessage(chatID, userMsg)
}
