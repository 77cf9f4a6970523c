package bot

import (
	"context"

	"salonbot/internal/flow"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// handleCallbackQuery разбирает payload один раз на границе; дальше
// обработчики работают с типизированным значением.
func (b *Bot) handleCallbackQuery(ctx context.Context, update tgbotapi.Update) {
	query := update.CallbackQuery
	chatID := query.Message.Chat.ID

	if err := b.tgService.AnswerCallback(query.ID, ""); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Failed to answer callback query")
	}

	cb, err := flow.ParseCallback(query.Data)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("data", query.Data).Msg("Ignoring unknown callback")
		return
	}

	switch cb.Kind {
	case flow.CallbackCategory:
		b.showServicesByCategory(ctx, chatID, cb.Category)
	case flow.CallbackService:
		b.handleServiceChosen(ctx, chatID, cb.ID)
	case flow.CallbackMaster:
		id := cb.ID
		b.handleMasterChosen(ctx, chatID, &id)
	case flow.CallbackMasterSkip:
		b.handleMasterChosen(ctx, chatID, nil)
	case flow.CallbackProduct:
		b.showProductDetails(ctx, chatID, cb.ID)
	case flow.CallbackBuyProduct:
		b.startProductOrder(ctx, chatID, query.From.ID, cb.ID)
	case flow.CallbackPayment:
		b.handlePayment(ctx, chatID, query.From.ID, cb.ID, cb.Method)
	}
}
