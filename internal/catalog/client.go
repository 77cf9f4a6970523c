// Package catalog — HTTP-клиент к удаленному API салона (услуги, мастера,
// продукция, записи, заказы). API считается системой учета: клиент ничего
// не кэширует и не повторяет запросы, одно действие пользователя — не
// больше одной попытки.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"salonbot/internal/models"
)

var (
	// ErrUnavailable — API недоступен: сеть, таймаут или не-2xx ответ.
	ErrUnavailable = errors.New("catalog api unavailable")
	// ErrNotFound — сущность не найдена (HTTP 404).
	ErrNotFound = errors.New("not found in catalog")
	// ErrRejected — API ответил success=false на создание.
	ErrRejected = errors.New("rejected by catalog api")
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BookingRequest — тело запроса на создание записи.
type BookingRequest struct {
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	Email      string  `json:"email"`
	ServiceID  int64   `json:"service_id"`
	MasterID   *int64  `json:"master_id"`
	DateTime   string  `json:"date_time"`
	Note       *string `json:"note"`
	TelegramID int64   `json:"tg_id"`
}

// OrderRequest — тело запроса на создание заказа. Заказы создаются через
// POST /products с action=create_order, как того требует удаленный API.
type OrderRequest struct {
	Action        string `json:"action"`
	UserID        int64  `json:"user_id"`
	ProductID     int64  `json:"product_id"`
	Quantity      int    `json:"quantity"`
	PaymentMethod string `json:"payment_method"`
}

// BookingFilter — необязательные фильтры списка записей.
type BookingFilter struct {
	UserID int64
	Status string
}

// ListServices возвращает услуги, при непустой category — только этой
// категории.
func (c *Client) ListServices(ctx context.Context, category string) ([]models.Service, error) {
	endpoint := c.baseURL + "/services"
	if category != "" {
		endpoint += "?category=" + url.QueryEscape(category)
	}
	var services []models.Service
	if err := c.doGet(ctx, endpoint, &services); err != nil {
		return nil, err
	}
	return services, nil
}

func (c *Client) GetService(ctx context.Context, id int64) (*models.Service, error) {
	var service models.Service
	if err := c.doGet(ctx, fmt.Sprintf("%s/services/%d", c.baseURL, id), &service); err != nil {
		return nil, err
	}
	return &service, nil
}

func (c *Client) ListMasters(ctx context.Context) ([]models.Master, error) {
	var masters []models.Master
	if err := c.doGet(ctx, c.baseURL+"/masters", &masters); err != nil {
		return nil, err
	}
	return masters, nil
}

func (c *Client) GetMaster(ctx context.Context, id int64) (*models.Master, error) {
	var master models.Master
	if err := c.doGet(ctx, fmt.Sprintf("%s/masters/%d", c.baseURL, id), &master); err != nil {
		return nil, err
	}
	return &master, nil
}

// ListProducts возвращает все товары без фильтрации: отбор active и
// stock>0 для витрины делает вызывающий.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.doGet(ctx, c.baseURL+"/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := c.doGet(ctx, fmt.Sprintf("%s/products/%d", c.baseURL, id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) ListBookings(ctx context.Context, filter BookingFilter) ([]models.Booking, error) {
	endpoint := c.baseURL + "/bookings"
	switch {
	case filter.UserID != 0:
		endpoint += fmt.Sprintf("?user_id=%d", filter.UserID)
	case filter.Status != "":
		endpoint += "?status=" + url.QueryEscape(filter.Status)
	}
	var bookings []models.Booking
	if err := c.doGet(ctx, endpoint, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) CreateBooking(ctx context.Context, req BookingRequest) error {
	return c.doPost(ctx, c.baseURL+"/bookings", req)
}

func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) error {
	req.Action = "create_order"
	return c.doPost(ctx, c.baseURL+"/products", req)
}

// PhotoURL строит адрес фотографии товара. Файлы лежат в /uploads рядом с
// корнем API.
func (c *Client) PhotoURL(photo string) string {
	base := strings.TrimSuffix(c.baseURL, "/api")
	return base + "/uploads/" + photo
}

func (c *Client) doGet(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// doPost отправляет запрос и проверяет конверт {"success": bool}.
func (c *Client) doPost(ctx context.Context, endpoint string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(data)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	var envelope struct {
		Success bool `json:"success"`
	}
	if err := c.do(req, &envelope); err != nil {
		return err
	}
	if !envelope.Success {
		return ErrRejected
	}
	return nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: http %d", ErrUnavailable, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}
