package bot

import (
	"fmt"
	"strings"

	"salonbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Кнопки главного меню. Текст кнопки приходит обратно обычным сообщением,
// поэтому обработчик сверяет его с этими константами.
const (
	menuBook     = "📅 Записаться"
	menuBookings = "📋 Мои записи"
	menuProducts = "🛍️ Продукция"
	menuContacts = "ℹ️ Контакты"
	menuHelp     = "❓ Помощь"
)

const (
	msgWelcome = "👋 Добро пожаловать в салон красоты!\n\nВыберите действие:"

	msgHelp = "📖 Доступные команды:\n\n" +
		"/start - Главное меню\n" +
		"📅 Записаться - Записаться на услугу\n" +
		"📋 Мои записи - Посмотреть свои записи\n" +
		"🛍️ Продукция - Каталог продукции\n" +
		"ℹ️ Контакты - Контактная информация\n\n" +
		"По вопросам обращайтесь к администратору."

	msgAskDateTime = "Введите желаемую дату и время в формате: ДД.ММ.ГГГГ ЧЧ:ММ\nНапример: 25.12.2024 14:00"
	msgBadDateTime = "Неверный формат. Используйте: ДД.ММ.ГГГГ ЧЧ:ММ"
	msgPastDate    = "Неверная дата или дата в прошлом."
	msgAskNote     = "Введите комментарий (или отправьте \"-\" чтобы пропустить):"

	msgBookingCreated = "✅ Запись успешно создана!\n\nМы свяжемся с вами для подтверждения."
	msgBookingFailed  = "Ошибка создания записи. Попробуйте позже."

	msgUserNotFound = "Пользователь не найден. Используйте /start"

	msgServicesEmpty       = "К сожалению, услуги временно недоступны."
	msgServicesUnavailable = "Ошибка загрузки услуг. Попробуйте позже."
	msgMastersUnavailable  = "Ошибка загрузки мастеров."
	msgProductsEmpty       = "Продукция временно недоступна."
	msgProductsUnavailable = "Ошибка загрузки продукции."
	msgProductUnavailable  = "Ошибка загрузки продукта."
	msgBookingsEmpty       = "У вас пока нет записей."
	msgBookingsUnavailable = "Ошибка загрузки записей."
	msgOutOfStock          = "Товар закончился."
	msgBadQuantity         = "Введите корректное количество."
	msgOrderRestart        = "Ошибка. Начните заказ заново."
	msgOrderFailed         = "Ошибка создания заказа."

	msgOrderCreatedOnline = "✅ Заказ создан!\n\n" +
		"Для оплаты перейдите по ссылке:\n" +
		"(Здесь должна быть ссылка на платежную систему)\n\n" +
		"После оплаты заказ будет обработан."
	msgOrderCreatedCash = "✅ Заказ создан!\n\n" +
		"Оплата при получении (самовывоз из салона).\n" +
		"Мы свяжемся с вами, когда заказ будет готов."

	msgAccessDenied      = "Доступ запрещен."
	msgAdminDenied       = "❌ У вас нет прав для регистрации администратора."
	msgAdminRegistered   = "✅ Вы успешно зарегистрированы как администратор!\n\nТеперь вы будете получать уведомления о новых записях и заказах."
	msgAdminAlready      = "✅ Вы уже зарегистрированы как администратор."
	msgAdminError        = "❌ Ошибка регистрации. Обратитесь к разработчику."
	msgNoPendingBookings = "Нет записей, ожидающих подтверждения."
	msgExportFailed      = "Ошибка экспорта записей."
)

var bookingStatusLabels = map[string]string{
	models.StatusPending:   "⏳ Ожидает",
	models.StatusConfirmed: "✅ Подтверждена",
	models.StatusCompleted: "✔️ Завершена",
	models.StatusCancelled: "❌ Отменена",
}

func bookingStatusLabel(status string) string {
	if label, ok := bookingStatusLabels[status]; ok {
		return label
	}
	return status
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuBook),
			tgbotapi.NewKeyboardButton(menuBookings),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuProducts),
			tgbotapi.NewKeyboardButton(menuContacts),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuHelp),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func contactsMessage(salon models.SalonCard) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ℹ️ Контакты салона красоты %s:\n\n", salon.Name)
	fmt.Fprintf(&sb, "📍 Адрес: %s\n", salon.Address)
	fmt.Fprintf(&sb, "📞 Телефон: %s\n", salon.Phone)
	if len(salon.Hours) > 0 {
		sb.WriteString("🕐 Режим работы:\n")
		for _, line := range salon.Hours {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	if salon.Telegram != "" {
		fmt.Fprintf(&sb, "\n💬 Telegram: %s", salon.Telegram)
	}
	return sb.String()
}

func formatPrice(price float64) string {
	s := fmt.Sprintf("%.2f", price)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
