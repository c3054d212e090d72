// Package model содержит доменные сущности сервиса заказов.
package model

import "time"

// User представляет зарегистрированного пользователя сервиса.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// OrderStatus описывает статус заказа.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusPaid     OrderStatus = "PAID"
	OrderStatusShipped  OrderStatus = "SHIPPED"
	OrderStatusCanceled OrderStatus = "CANCELED"
)

// Valid сообщает, является ли значение одним из допустимых статусов заказа.
// Граф переходов между статусами намеренно не проверяется.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCanceled:
		return true
	}
	return false
}

// OrderItem описывает одну позицию заказа.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Order описывает заказ пользователя. Владелец заказа после создания не меняется.
type Order struct {
	ID         string      `json:"id"`
	UserID     int64       `json:"user_id"`
	Items      []OrderItem `json:"items"`
	TotalPrice float64     `json:"total_price"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
}
