package bot

// Stop прекращает получение обновлений и дожидается обработчиков в полете.
func (b *Bot) Stop() {
	b.tgService.StopReceivingUpdates()
	b.wg.Wait()
	b.logger.Info().Msg("Bot stopped")
}
