package bot

import (
	"runtime/debug"
)

// withRecovery не даёт панике в обработчике уронить весь процесс.
func (b *Bot) withRecovery(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if b.metrics != nil {
				b.metrics.PanicsRecovered.Inc()
			}
			b.logger.Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("Recovered from panic in update handler")
		}
	}()
	fn()
}
