package exchange

import (
	"errors"
	"fmt"
)

var (
	ErrTransport         = errors.New("Ошибка транспорта")
	ErrDataUnavailable   = errors.New("Ответ биржи не является JSON")
	ErrMalformedResponse = errors.New("Некорректный ответ биржи")
	ErrFieldMissing      = errors.New("В ответе биржи нет обязательного поля")
	ErrPairNotFound      = errors.New("Торговая пара не найдена")
	ErrPriceUnavailable  = errors.New("Нет цены для торговой пары")
	ErrOrderRejected     = errors.New("Биржа отклонила ордер")
	ErrOrderNotFound     = errors.New("Ордер не найден")
	ErrCancelFailed      = errors.New("Не удалось отменить ордер")
)

// OrderRejectedError keeps the raw exchange response so a rejected rung can be
// diagnosed from the log alone.
type OrderRejectedError struct {
	Message string
	Raw     string
}

func (e *OrderRejectedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (ответ: %s)", ErrOrderRejected, e.Message, e.Raw)
	}
	return fmt.Sprintf("%s (ответ: %s)", ErrOrderRejected, e.Raw)
}

func (e *OrderRejectedError) Unwrap() error {
	return ErrOrderRejected
}
