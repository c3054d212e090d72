// Package validation содержит проверки входных данных API сервиса заказов.
package validation

import (
	"errors"
	"net/mail"
	"unicode/utf8"

	"github.com/mmeshcher/order-service/internal/model"
)

// MinPasswordLength задаёт минимальную длину пароля в символах.
const MinPasswordLength = 6

var (
	// ErrEmptyItems возвращается, если список позиций заказа пуст.
	ErrEmptyItems = errors.New("order items must not be empty")
	// ErrInvalidItem возвращается при недопустимом количестве или цене позиции.
	ErrInvalidItem = errors.New("item quantity and price must be positive")
	// ErrInvalidTotalPrice возвращается при неположительной итоговой сумме заказа.
	ErrInvalidTotalPrice = errors.New("total price must be positive")
)

// IsValidEmail сообщает, является ли строка корректным адресом электронной почты.
func IsValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// Адреса с display name ("Имя <a@b>") не принимаются.
	return addr.Address == email
}

// IsValidPassword сообщает, удовлетворяет ли пароль минимальной длине.
func IsValidPassword(password string) bool {
	return utf8.RuneCountInString(password) >= MinPasswordLength
}

// ValidateOrder проверяет позиции и итоговую сумму создаваемого заказа.
// Итоговая сумма не сверяется с суммой позиций.
func ValidateOrder(items []model.OrderItem, totalPrice float64) error {
	if len(items) == 0 {
		return ErrEmptyItems
	}
	for _, item := range items {
		if item.Quantity <= 0 || item.Price <= 0 {
			return ErrInvalidItem
		}
	}
	if totalPrice <= 0 {
		return ErrInvalidTotalPrice
	}
	return nil
}
