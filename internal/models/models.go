package models

import "time"

// Session хранит ход многошагового диалога для одного чата.
// Пустой Step означает, что активного сценария нет.
type Session struct {
	ChatID    int64     `json:"chat_id"`
	Step      string    `json:"step,omitempty"`
	ServiceID int64     `json:"service_id,omitempty"`
	MasterID  *int64    `json:"master_id,omitempty"`
	DateTime  time.Time `json:"date_time,omitempty"`
	Note      string    `json:"note,omitempty"`
	ProductID int64     `json:"product_id,omitempty"`
	Price     float64   `json:"price,omitempty"`
	Quantity  int       `json:"quantity,omitempty"`
	Total     float64   `json:"total,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Active сообщает, идет ли сейчас многошаговый сценарий.
func (s *Session) Active() bool {
	return s != nil && s.Step != ""
}

type User struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"tg_id"`
	ChatID     int64     `json:"chat_id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	LastLogin  time.Time `json:"last_login"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Service — услуга салона, как ее отдает удаленный API.
type Service struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	Price           float64 `json:"price"`
	Category        string  `json:"category"`
	DurationMinutes int     `json:"duration_minutes"`
	Active          bool    `json:"active"`
}

type Master struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Active      bool    `json:"active"`
	Photo       string  `json:"photo"`
}

// Booking — проекция записи для списков (свои записи, записи на подтверждение).
type Booking struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	ServiceID    int64     `json:"service_id"`
	ServiceTitle string    `json:"service_title"`
	MasterID     *int64    `json:"master_id"`
	MasterName   string    `json:"master_name"`
	DateTime     time.Time `json:"date_time"`
	Status       string    `json:"status"`
	Note         string    `json:"note"`
	CreatedAt    time.Time `json:"created_at"`
}

type Order struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"user_id"`
	ProductID     int64   `json:"product_id"`
	Quantity      int     `json:"quantity"`
	Total         float64 `json:"total"`
	PaymentMethod string  `json:"payment_method"`
	Status        string  `json:"status"`
}
