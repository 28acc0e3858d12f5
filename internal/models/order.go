// Package models содержит доменные структуры заказов и проверок оплаты.
package models

import "time"

// Статусы заказа, которые приходят от провайдера.
const (
	OrderStatusCreated   = "created"
	OrderStatusAttempted = "attempted"
	OrderStatusPaid      = "paid"
	OrderStatusFailed    = "failed"
)

// OrderRequest запрос клиента на создание заказа.
// Цена с клиента не принимается: сумма берётся только из серверной таблицы цен.
type OrderRequest struct {
	PlanID     string `json:"planId" validate:"required"`
	OperatorID string `json:"operatorId"`
}

// OrderRecord заказ, созданный у платёжного провайдера.
type OrderRecord struct {
	OrderID    string    `json:"orderId"`
	Amount     int64     `json:"amount"`
	Currency   string    `json:"currency"`
	Receipt    string    `json:"receipt"`
	PlanID     string    `json:"planId"`
	OperatorID string    `json:"operatorId,omitempty"`
	Status     string    `json:"status,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
