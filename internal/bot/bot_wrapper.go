package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramBotWrapper адаптирует *tgbotapi.BotAPI к domain.TelegramSender.
type TelegramBotWrapper struct {
	bot *tgbotapi.BotAPI
}

func NewTelegramBotWrapper(bot *tgbotapi.BotAPI) *TelegramBotWrapper {
	return &TelegramBotWrapper{bot: bot}
}

func (w *TelegramBotWrapper) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	return w.bot.Send(c)
}

func (w *TelegramBotWrapper) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return w.bot.Request(c)
}

func (w *TelegramBotWrapper) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return w.bot.GetUpdatesChan(config)
}

func (w *TelegramBotWrapper) GetSelf() tgbotapi.User {
	return w.bot.Self
}

func (w *TelegramBotWrapper) StopReceivingUpdates() {
	w.bot.StopReceivingUpdates()
}
