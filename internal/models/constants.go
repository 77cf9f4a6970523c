package models

// Статусы записей в удаленном API.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Способы оплаты заказа.
const (
	PaymentOnline = "online"
	PaymentCash   = "cash"
)

const (
	// DefaultSessionTTL — время жизни сессии в секундах (Redis TTL и
	// уборка в памяти).
	DefaultSessionTTL = 1800

	// CatalogPageLimit — сколько позиций показываем в одном списке.
	CatalogPageLimit = 10

	RateLimitMessages = 20
	RateLimitWindow   = 60
)
