package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"salonbot/internal/catalog"
	"salonbot/internal/database"
	"salonbot/internal/events"
	"salonbot/internal/flow"
	"salonbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// handleProducts показывает каталог: только активные товары с остатком.
func (b *Bot) handleProducts(ctx context.Context, chatID int64) {
	products, err := b.catalog.ListProducts(ctx)
	if err != nil {
		b.reportCatalogError(ctx, chatID, err, "list_products", msgProductsUnavailable)
		return
	}

	available := products[:0]
	for _, p := range products {
		if p.Active && p.Stock > 0 {
			available = append(available, p)
		}
	}
	if len(available) == 0 {
		b.sendMessage(chatID, msgProductsEmpty)
		return
	}
	if len(available) > models.CatalogPageLimit {
		available = available[:models.CatalogPageLimit]
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(available))
	for _, p := range available {
		label := fmt.Sprintf("%s - %s руб.", p.Title, formatPrice(p.Price))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, flow.ProductCallback(p.ID)),
		))
	}

	b.sendWithInlineKeyboard(chatID, "🛍️ Каталог продукции:", tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) showProductDetails(ctx context.Context, chatID, productID int64) {
	product, err := b.catalog.GetProduct(ctx, productID)
	if err != nil {
		b.reportCatalogError(ctx, chatID, err, "get_product", msgProductUnavailable)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🛍️ %s\n\n", product.Title)
	if product.Description != "" {
		sb.WriteString(product.Description)
		sb.WriteString("\n\n")
	}
	fmt.Fprintf(&sb, "💰 Цена: %s руб.\n", formatPrice(product.Price))
	fmt.Fprintf(&sb, "📦 В наличии: %d шт.\n", product.Stock)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛒 Купить", flow.BuyProductCallback(productID)),
		),
	)

	if product.Photo != "" {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(b.catalog.PhotoURL(product.Photo)))
		photo.Caption = sb.String()
		photo.ReplyMarkup = keyboard
		if _, err := b.tgService.Send(photo); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to send product photo")
			b.sendWithInlineKeyboard(chatID, sb.String(), keyboard)
		}
		return
	}

	b.sendWithInlineKeyboard(chatID, sb.String(), keyboard)
}

// startProductOrder проверяет пользователя и остаток и запускает шаг
// количества.
func (b *Bot) startProductOrder(ctx context.Context, chatID, telegramID, productID int64) {
	if _, err := b.identity.GetUserByTelegramID(ctx, telegramID); err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			b.sendMessage(chatID, msgUserNotFound)
			return
		}
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to load user")
		b.sendMessage(chatID, msgOrderFailed)
		return
	}

	product, err := b.catalog.GetProduct(ctx, productID)
	if err != nil {
		b.reportCatalogError(ctx, chatID, err, "get_product", msgProductUnavailable)
		return
	}
	if product.Stock <= 0 {
		b.sendMessage(chatID, msgOutOfStock)
		return
	}

	session := &models.Session{
		ChatID:    chatID,
		Step:      flow.StepProductQuantity,
		ProductID: productID,
		Price:     product.Price,
	}
	if err := b.sessions.Set(ctx, session); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to save session")
	}

	b.sendMessage(chatID, fmt.Sprintf("Введите количество (максимум %d):", product.Stock))
}

// handleQuantityInput проверяет количество против свежего остатка.
// Шаг сбрасывается, но количество и сумма остаются в сессии до
// callback-а оплаты.
func (b *Bot) handleQuantityInput(ctx context.Context, msg *tgbotapi.Message, session *models.Session, text string) {
	chatID := msg.Chat.ID

	// Формат проверяется до похода в API: кривой ввод не стоит запроса.
	if _, err := flow.ParseQuantity(text, 0); errors.Is(err, flow.ErrBadQuantity) {
		b.sendMessage(chatID, msgBadQuantity)
		return
	}

	// Остаток перечитывается здесь: между стартом заказа и вводом
	// количества товар мог разойтись.
	product, err := b.catalog.GetProduct(ctx, session.ProductID)
	if err != nil {
		b.reportCatalogError(ctx, chatID, err, "get_product", msgProductUnavailable)
		return
	}

	quantity, err := flow.ParseQuantity(text, product.Stock)
	if err != nil {
		var stockErr *flow.StockExceededError
		if errors.As(err, &stockErr) {
			b.sendMessage(chatID, fmt.Sprintf("Максимальное количество: %d", stockErr.Max))
		} else {
			b.sendMessage(chatID, msgBadQuantity)
		}
		return
	}

	total := product.Price * float64(quantity)
	session.Quantity = quantity
	session.Total = total
	session.Price = product.Price
	session.Step = ""
	if err := b.sessions.Set(ctx, session); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to save session")
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💳 Оплатить онлайн", flow.PaymentCallback(session.ProductID, models.PaymentOnline)),
			tgbotapi.NewInlineKeyboardButtonData("💵 Оплата при получении", flow.PaymentCallback(session.ProductID, models.PaymentCash)),
		),
	)

	text = fmt.Sprintf("Заказ:\nТовар: %s\nКоличество: %d\nСумма: %s руб.\n\nВыберите способ оплаты:",
		product.Title, quantity, formatPrice(total))
	b.sendWithInlineKeyboard(chatID, text, keyboard)
}

// handlePayment завершает заказ по выбранному способу оплаты.
func (b *Bot) handlePayment(ctx context.Context, chatID, telegramID, productID int64, method string) {
	user, err := b.identity.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			b.sendMessage(chatID, "Пользователь не найден.")
			return
		}
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to load user")
		b.sendMessage(chatID, msgOrderFailed)
		return
	}

	session, err := b.sessions.Get(ctx, chatID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to load session")
		b.sendMessage(chatID, msgOrderRestart)
		return
	}
	if session == nil || session.Quantity <= 0 || session.ProductID != productID {
		b.sendMessage(chatID, msgOrderRestart)
		return
	}

	req := catalog.OrderRequest{
		UserID:        user.ID,
		ProductID:     productID,
		Quantity:      session.Quantity,
		PaymentMethod: method,
	}
	if err := b.catalog.CreateOrder(ctx, req); err != nil {
		b.reportCatalogError(ctx, chatID, err, "create_order", msgOrderFailed)
		return
	}

	if b.metrics != nil {
		b.metrics.OrdersCreated.Inc()
	}
	if method == models.PaymentOnline {
		b.sendMessage(chatID, msgOrderCreatedOnline)
	} else {
		b.sendMessage(chatID, msgOrderCreatedCash)
	}

	b.purgeSession(ctx, chatID)
	b.notifyOrderCreated(ctx, user, session, productID, method)
}

func (b *Bot) notifyOrderCreated(ctx context.Context, user *models.User, session *models.Session, productID int64, method string) {
	logger := zerolog.Ctx(ctx)

	productTitle := "Товар"
	if product, err := b.catalog.GetProduct(ctx, productID); err != nil {
		logger.Error().Err(err).Int64("product_id", productID).Msg("Failed to load product for notification")
	} else {
		productTitle = product.Title
	}

	payment := "Наличные"
	if method == models.PaymentOnline {
		payment = "Онлайн"
	}

	var sb strings.Builder
	sb.WriteString("🛍️ Новый заказ продукции:\n\n")
	fmt.Fprintf(&sb, "Клиент: %s\n", user.Name)
	fmt.Fprintf(&sb, "Телефон: %s\n", user.Phone)
	fmt.Fprintf(&sb, "Товар: %s\n", productTitle)
	fmt.Fprintf(&sb, "Количество: %d\n", session.Quantity)
	fmt.Fprintf(&sb, "Сумма: %s руб.\n", formatPrice(session.Total))
	fmt.Fprintf(&sb, "Оплата: %s", payment)

	payload := events.StaffNotification{ChatID: user.ChatID, Text: sb.String()}
	if err := b.eventBus.PublishJSON(events.EventOrderCreated, payload); err != nil {
		logger.Error().Err(err).Msg("Failed to publish order notification")
	}
}
