package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"salonbot/internal/catalog"
	"salonbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// handleExportBookings выгружает ожидающие записи в Excel и отправляет
// файл администратору документом.
func (b *Bot) handleExportBookings(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if !b.isPrivileged(ctx, msg.From.ID, chatID) {
		b.sendMessage(chatID, msgAccessDenied)
		return
	}

	bookings, err := b.catalog.ListBookings(ctx, catalog.BookingFilter{Status: models.StatusPending})
	if err != nil {
		b.reportCatalogError(ctx, chatID, err, "list_bookings", msgBookingsUnavailable)
		return
	}
	if len(bookings) == 0 {
		b.sendMessage(chatID, msgNoPendingBookings)
		return
	}

	filePath, err := b.exportBookingsToExcel(bookings)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to export bookings")
		b.sendMessage(chatID, msgExportFailed)
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(filePath))
	doc.Caption = fmt.Sprintf("📋 Записи, ожидающие подтверждения: %d", len(bookings))
	if _, err := b.tgService.Send(doc); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to send export document")
		b.sendMessage(chatID, msgExportFailed)
	}
}

// exportBookingsToExcel создает Excel файл с данными о записях.
func (b *Bot) exportBookingsToExcel(bookings []models.Booking) (string, error) {
	// Создаем папку для экспорта, если не существует
	if err := os.MkdirAll(b.config.Exports.Path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Записи"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"ID", "Клиент", "Телефон", "Услуга", "Мастер", "Дата", "Статус", "Комментарий"}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, booking := range bookings {
		row := i + 2
		master := booking.MasterName
		if master == "" {
			master = "Любой"
		}
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), booking.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), booking.Name)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), booking.Phone)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), booking.ServiceTitle)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), master)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), booking.DateTime.Format("02.01.2006 15:04"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), bookingStatusLabel(booking.Status))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), booking.Note)
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "B", 25)
	_ = f.SetColWidth(sheetName, "C", "C", 18)
	_ = f.SetColWidth(sheetName, "D", "E", 22)
	_ = f.SetColWidth(sheetName, "F", "F", 18)
	_ = f.SetColWidth(sheetName, "G", "G", 16)
	_ = f.SetColWidth(sheetName, "H", "H", 30)

	// Удаляем стандартный лист
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_export_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(b.config.Exports.Path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	b.logger.Info().Str("file_path", filePath).Msg("Excel file created")
	return filePath, nil
}
