// Package flow содержит чистую логику пошаговых сценариев бота:
// шаги, разбор свободного текста и производные данные каталога.
// Сетевые вызовы и отправка сообщений остаются в пакете bot.
package flow

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"salonbot/internal/models"
)

// Шаги сценариев. Пустой шаг означает, что сценарий не идет.
const (
	StepBookingCategory = "booking_category"
	StepBookingService  = "booking_service"
	StepBookingMaster   = "booking_master"
	StepBookingDateTime = "booking_datetime"
	StepBookingNote     = "booking_note"
	StepProductQuantity = "product_quantity"
)

var (
	// ErrBadFormat — текст не похож на ДД.ММ.ГГГГ ЧЧ:ММ.
	ErrBadFormat = errors.New("datetime does not match DD.MM.YYYY HH:MM")
	// ErrPastDate — дата распознана, но не строго в будущем
	// (сюда же попадают несуществующие календарные даты).
	ErrPastDate = errors.New("datetime is not in the future")
	// ErrBadQuantity — количество не положительное целое.
	ErrBadQuantity = errors.New("quantity must be a positive integer")
)

// StockExceededError — запрошено больше, чем есть на складе.
type StockExceededError struct {
	Max int
}

func (e *StockExceededError) Error() string {
	return fmt.Sprintf("quantity exceeds stock, max %d", e.Max)
}

var dateTimeRe = regexp.MustCompile(`^\s*(\d{1,2})\.(\d{1,2})\.(\d{4})\s+(\d{1,2}):(\d{2})\s*$`)

// ParseDateTime разбирает дату-время формата ДД.ММ.ГГГГ ЧЧ:ММ.
// Результат нормализован до минут в локации now. Принимаются только
// моменты строго после now.
func ParseDateTime(text string, now time.Time) (time.Time, error) {
	m := dateTimeRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, ErrBadFormat
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, now.Location())

	// time.Date нормализует 32.01 в 01.02 — такие даты не принимаем.
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day ||
		t.Hour() != hour || t.Minute() != minute {
		return time.Time{}, ErrPastDate
	}

	if !t.After(now) {
		return time.Time{}, ErrPastDate
	}

	return t, nil
}

// ParseQuantity разбирает количество товара и проверяет его по актуальному
// остатку. Остаток передается вызывающим и должен быть получен
// непосредственно перед проверкой, а не закэширован с шага карточки товара.
func ParseQuantity(text string, stock int) (int, error) {
	q, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || q <= 0 {
		return 0, ErrBadQuantity
	}
	if q > stock {
		return 0, &StockExceededError{Max: stock}
	}
	return q, nil
}

// Categories возвращает непустые категории услуг в порядке первого
// появления. Пустой результат означает, что шаг выбора категории
// пропускается и показывается плоский список услуг.
func Categories(services []models.Service) []string {
	seen := make(map[string]bool, len(services))
	var categories []string
	for _, s := range services {
		if s.Category == "" || seen[s.Category] {
			continue
		}
		seen[s.Category] = true
		categories = append(categories, s.Category)
	}
	return categories
}

// Note нормализует комментарий к записи: "-" означает отсутствие
// комментария, любой другой текст сохраняется как есть.
func Note(text string) string {
	if strings.TrimSpace(text) == "-" {
		return ""
	}
	return text
}
