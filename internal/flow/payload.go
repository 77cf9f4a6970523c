package flow

import (
	"fmt"
	"strconv"
	"strings"
)

// CallbackKind — закрытое множество вариантов callback-кнопок.
type CallbackKind int

const (
	CallbackUnknown CallbackKind = iota
	CallbackCategory
	CallbackService
	CallbackMaster
	CallbackMasterSkip
	CallbackProduct
	CallbackBuyProduct
	CallbackPayment
)

// Callback — разобранная полезная нагрузка inline-кнопки.
// Заполнены только поля, относящиеся к Kind.
type Callback struct {
	Kind     CallbackKind
	Category string
	ID       int64
	Method   string
}

// ParseCallback декодирует строковую полезную нагрузку кнопки
// (category_<имя>, service_<id>, master_<id>, master_skip, product_<id>,
// buy_product_<id>, payment_<id>_<способ>) в типизированный вариант.
// Разбор выполняется один раз на границе, дальше обработчики работают
// только с Callback.
func ParseCallback(data string) (Callback, error) {
	switch {
	case strings.HasPrefix(data, "category_"):
		category := strings.TrimPrefix(data, "category_")
		if category == "" {
			return Callback{}, fmt.Errorf("empty category in callback %q", data)
		}
		return Callback{Kind: CallbackCategory, Category: category}, nil

	case strings.HasPrefix(data, "service_"):
		id, err := callbackID(data, "service_")
		if err != nil {
			return Callback{}, err
		}
		return Callback{Kind: CallbackService, ID: id}, nil

	case data == "master_skip":
		return Callback{Kind: CallbackMasterSkip}, nil

	case strings.HasPrefix(data, "master_"):
		id, err := callbackID(data, "master_")
		if err != nil {
			return Callback{}, err
		}
		return Callback{Kind: CallbackMaster, ID: id}, nil

	case strings.HasPrefix(data, "buy_product_"):
		id, err := callbackID(data, "buy_product_")
		if err != nil {
			return Callback{}, err
		}
		return Callback{Kind: CallbackBuyProduct, ID: id}, nil

	case strings.HasPrefix(data, "product_"):
		id, err := callbackID(data, "product_")
		if err != nil {
			return Callback{}, err
		}
		return Callback{Kind: CallbackProduct, ID: id}, nil

	case strings.HasPrefix(data, "payment_"):
		parts := strings.Split(strings.TrimPrefix(data, "payment_"), "_")
		if len(parts) != 2 {
			return Callback{}, fmt.Errorf("malformed payment callback %q", data)
		}
		id, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return Callback{}, fmt.Errorf("malformed payment callback %q: %w", data, err)
		}
		if parts[1] == "" {
			return Callback{}, fmt.Errorf("malformed payment callback %q", data)
		}
		return Callback{Kind: CallbackPayment, ID: id, Method: parts[1]}, nil
	}

	return Callback{}, fmt.Errorf("unknown callback %q", data)
}

func callbackID(data, prefix string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed callback %q: %w", data, err)
	}
	return id, nil
}

// Данные callback-кнопок, которые бот формирует сам.

func CategoryCallback(category string) string { return "category_" + category }

func ServiceCallback(id int64) string { return fmt.Sprintf("service_%d", id) }

func MasterCallback(id int64) string { return fmt.Sprintf("master_%d", id) }

const MasterSkipCallback = "master_skip"

func ProductCallback(id int64) string { return fmt.Sprintf("product_%d", id) }

func BuyProductCallback(id int64) string { return fmt.Sprintf("buy_product_%d", id) }

func PaymentCallback(productID int64, method string) string {
	return fmt.Sprintf("payment_%d_%s", productID, method)
}
